package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/office-extract/internal/common"
)

func newSetupCommand(tool Tool) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Save an OpenAI API key (and optionally a tesseract path) to the config file",
		Long: fmt.Sprintf(`Interactively writes the config file read by %s.

The file is created with mode 0600. Existing settings other than the ones
asked for are kept.`, tool.Name),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				p, err := common.DefaultConfigPath()
				if err != nil {
					return common.NewConfigError("cannot resolve home directory", err)
				}
				path = p
			}
			return RunSetup(cmd.InOrStdin(), cmd.OutOrStdout(), path)
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "config file to write (default: ~/.office-extract/office-extract.yaml)")
	return cmd
}

// errSetupAborted is returned when input ends before the questions are answered.
var errSetupAborted = errors.New("setup aborted: no input")

// RunSetup asks for the settings on r/w and writes them to path.
func RunSetup(r io.Reader, w io.Writer, path string) error {
	sc := bufio.NewScanner(r)
	ask := func(q string) (string, error) {
		fmt.Fprint(w, q)
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", errSetupAborted
		}
		return strings.TrimSpace(sc.Text()), nil
	}

	doc := map[string]any{}
	if raw, err := os.ReadFile(path); err == nil {
		ans, err := ask(fmt.Sprintf("%s already exists. Overwrite its API key? [y/N]: ", path))
		if err != nil {
			return err
		}
		if a := strings.ToLower(ans); a != "y" && a != "yes" {
			fmt.Fprintln(w, "Setup cancelled; nothing changed.")
			return nil
		}
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return common.NewConfigError("existing config is not valid YAML", err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var key string
	for key == "" {
		k, err := ask("OpenAI API key: ")
		if err != nil {
			return err
		}
		if k == "" {
			fmt.Fprintln(w, "The key cannot be empty.")
		}
		key = k
	}
	if !strings.HasPrefix(key, "sk-") {
		fmt.Fprintln(w, `Warning: OpenAI API keys usually start with "sk-".`)
	}
	doc[common.KeyOpenAIKey] = key

	tess, err := ask("Tesseract path (Enter to auto-detect): ")
	if err != nil {
		return err
	}
	if tess != "" {
		doc[common.KeyTesseractPath] = tess
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := common.ValidateConfigFile(path); err != nil {
		fmt.Fprintf(w, "Warning: %s has settings the tools will reject: %v\n", path, err)
	}

	fmt.Fprintf(w, "Configuration saved to %s\n", path)
	return nil
}
