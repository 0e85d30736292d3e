// Package cli builds the pptx-extract and pdf-extract commands.
package cli

import (
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/joseph-ayodele/office-extract/constants"
	"github.com/joseph-ayodele/office-extract/internal/common"
	"github.com/joseph-ayodele/office-extract/internal/llm"
	llmopenai "github.com/joseph-ayodele/office-extract/internal/llm/openai"
	"github.com/joseph-ayodele/office-extract/internal/ocr"
	"github.com/joseph-ayodele/office-extract/version"
)

// Tool describes one of the two commands.
type Tool struct {
	Name   string
	Format string // constants.PPTX or constants.PDF
	Short  string
	Long   string
}

var (
	PPTXTool = Tool{
		Name:   "pptx-extract",
		Format: constants.PPTX,
		Short:  "Extract text, tables, notes and picture OCR from a PowerPoint deck",
		Long: `pptx-extract walks every slide of a .pptx file and writes:
  - <name>_extracted.txt with slide text, picture OCR, tables and speaker notes
  - <name>_tables.xlsx with one sheet per table (only when tables were found)

Picture text is read with tesseract. With an OpenAI key configured, each
slide's text is tidied up by a language model; without one the raw text is kept.

Examples:
  pptx-extract deck.pptx
  pptx-extract deck.pptx --slides 1,3-5 --no-llm
  pptx-extract deck.pptx --interactive -o notes.txt`,
	}

	PDFTool = Tool{
		Name:   "pdf-extract",
		Format: constants.PDF,
		Short:  "Extract text and tables from a PDF, with OCR for scanned pages",
		Long: `pdf-extract reads every page of a PDF and writes:
  - <name>_extracted.txt with page text in column reading order
  - <name>_tables.xlsx with one sheet per detected table

Pages without a text layer are rendered with pdftoppm and read with tesseract.

Examples:
  pdf-extract report.pdf
  pdf-extract scan.pdf --dpi 400 --ocr-lang deu
  pdf-extract paper.pdf --no-multicolumn --no-llm`,
	}
)

// Deps are the pieces the commands reach outside the process for.
type Deps struct {
	LocateTesseract func(override string) (string, error)
	LookPath        func(file string) (string, error)
	Runner          ocr.Runner // nil runs real commands
	NewFormatter    func(cfg common.LLMConfig, logger *slog.Logger) llm.Formatter
}

func (d Deps) withDefaults() Deps {
	if d.LocateTesseract == nil {
		d.LocateTesseract = ocr.Locate
	}
	if d.LookPath == nil {
		d.LookPath = exec.LookPath
	}
	if d.NewFormatter == nil {
		d.NewFormatter = newOpenAIFormatter
	}
	return d
}

func newOpenAIFormatter(cfg common.LLMConfig, logger *slog.Logger) llm.Formatter {
	return llmopenai.NewClient(llmopenai.Config{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout,
		MaxRetries:  cfg.MaxRetries,
	}, logger)
}

// NewCommand returns the root command for tool.
func NewCommand(tool Tool, deps Deps) *cobra.Command {
	deps = deps.withDefaults()
	v := common.NewViper()
	var cfgFile string

	cmd := &cobra.Command{
		Use:     tool.Name + " <input>",
		Short:   tool.Short,
		Long:    tool.Long,
		Version: version.GitRelease,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return common.NewConfigError(fmt.Sprintf("expected exactly one input file, got %d", len(args)), nil)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := common.ReadConfigFile(v, cfgFile); err != nil {
				return err
			}
			cfg, err := common.Load(v, args[0], tool.Format)
			if err != nil {
				return err
			}
			return run(cmd, tool, cfg, deps)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return common.NewConfigError("invalid flags", err)
	})

	f := cmd.Flags()
	f.StringVar(&cfgFile, "config", "", "config file (default: ./office-extract.yaml or ~/.office-extract/office-extract.yaml)")
	f.StringP("output-text", "o", "", "text output file (default: <input>_extracted.txt)")
	f.StringP("output-excel", "e", "", "spreadsheet output file (default: <input>_tables.xlsx)")
	f.Bool("no-ocr", false, "skip OCR")
	f.Bool("no-llm", false, "skip LLM formatting")
	f.Bool("no-tables", false, "skip table extraction")
	f.String("tesseract-path", "", "tesseract binary (default: auto-detect)")
	f.String("ocr-lang", "eng", "tesseract language(s), e.g. eng+deu")
	f.String("ocr-engine", "tesseract", "OCR engine: tesseract or gosseract")
	f.Int("dpi", 300, "page rasterisation resolution for OCR")
	f.String("openai-key", "", "OpenAI API key (default: $OPENAI_API_KEY or config file)")
	f.String("openai-model", "gpt-4o-mini", "OpenAI model used for formatting")
	f.String("openai-base-url", "", "OpenAI-compatible API base URL")
	f.String("log-format", "text", "log format: text or json")
	f.BoolP("verbose", "v", false, "debug logging")

	keys := map[string]string{
		"output-text":     common.KeyOutputText,
		"output-excel":    common.KeyOutputExcel,
		"no-ocr":          common.KeyNoOCR,
		"no-llm":          common.KeyNoLLM,
		"no-tables":       common.KeyNoTables,
		"tesseract-path":  common.KeyTesseractPath,
		"ocr-lang":        common.KeyOCRLang,
		"ocr-engine":      common.KeyOCREngine,
		"dpi":             common.KeyDPI,
		"openai-key":      common.KeyOpenAIKey,
		"openai-model":    common.KeyOpenAIModel,
		"openai-base-url": common.KeyOpenAIBaseURL,
		"log-format":      common.KeyLogFormat,
		"verbose":         common.KeyVerbose,
	}

	switch tool.Format {
	case constants.PPTX:
		f.StringSlice("slides", nil, "slides to process, 1-based; lists and ranges (e.g. --slides 1,3-5 --slides 8)")
		f.Bool("interactive", false, "choose slides interactively (ignored with --slides)")
		keys["slides"] = common.KeySlides
		keys["interactive"] = common.KeyInteractive
	case constants.PDF:
		f.Bool("no-multicolumn", false, "keep native reading order instead of detecting columns")
		keys["no-multicolumn"] = common.KeyNoMultiColumn
	}
	bindFlags(v, f, keys)

	cmd.AddCommand(newVersionCommand(tool), newSetupCommand(tool))
	return cmd
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) {
	for name, key := range keys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
}
