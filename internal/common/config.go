package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/joseph-ayodele/office-extract/constants"
)

// Config holds the resolved options for one run. It is built once by Load and
// only read afterwards.
type Config struct {
	Input       string
	OutputText  string
	OutputExcel string
	Slides      []int
	Interactive bool
	Verbose     bool
	LogFormat   string
	ConfigFile  string // config file actually read, "" if none

	OCR    OCRConfig
	LLM    LLMConfig
	Tables TablesConfig
	Layout LayoutConfig
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Enabled       bool
	TesseractPath string // explicit override; "" means auto-locate
	Pdftoppm      string
	Lang          string
	DPI           int
	PSM           int
	Engine        string // "tesseract" or "gosseract"
	TessdataDir   string
}

// LLMConfig holds LLM-related configuration
type LLMConfig struct {
	Enabled     bool
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	MaxRetries  int
}

// TablesConfig holds table detection and export configuration
type TablesConfig struct {
	Enabled        bool
	MinRows        int
	MinCols        int
	AlignTolerance float64
}

// LayoutConfig holds multi-column detection thresholds (page pipeline only).
type LayoutConfig struct {
	MultiColumn    bool
	MinGapWidth    float64
	MinColumnWidth float64
	MaxColumns     int
	MinFragments   int
}

// Config keys shared by flags, environment and the config file.
const (
	KeyOutputText     = "output_text"
	KeyOutputExcel    = "output_excel"
	KeySlides         = "slides"
	KeyInteractive    = "interactive"
	KeyNoOCR          = "no_ocr"
	KeyNoLLM          = "no_llm"
	KeyNoTables       = "no_tables"
	KeyNoMultiColumn  = "no_multicolumn"
	KeyTesseractPath  = "tesseract_path"
	KeyPdftoppmPath   = "pdftoppm_path"
	KeyOCRLang        = "ocr_lang"
	KeyDPI            = "dpi"
	KeyOCREngine      = "ocr_engine"
	KeyTessdataDir    = "tessdata_dir"
	KeyOpenAIKey      = "openai_key"
	KeyOpenAIModel    = "openai_model"
	KeyOpenAIBaseURL  = "openai_base_url"
	KeyLLMTemperature = "llm.temperature"
	KeyLLMMaxTokens   = "llm.max_tokens"
	KeyLLMTimeout     = "llm.timeout"
	KeyLLMMaxRetries  = "llm.max_retries"
	KeyVerbose        = "verbose"
	KeyLogFormat      = "log_format"

	KeyLayoutMinGapWidth    = "layout.min_gap_width"
	KeyLayoutMinColumnWidth = "layout.min_column_width"
	KeyLayoutMaxColumns     = "layout.max_columns"
	KeyLayoutMinFragments   = "layout.min_fragments"

	KeyTablesMinRows        = "tables.min_rows"
	KeyTablesMinCols        = "tables.min_cols"
	KeyTablesAlignTolerance = "tables.align_tolerance"
)

// Environment variables read directly, without the OFFICE_EXTRACT_ prefix.
const (
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvTesseractPath = "TESSERACT_PATH"
	EnvPrefix        = "OFFICE_EXTRACT"
)

// ConfigFileName is the base name searched for in "." and $HOME/.office-extract.
const ConfigFileName = "office-extract"

// NewViper returns a viper instance with defaults and environment bindings.
// Flags are bound by the caller; the config file is read by ReadConfigFile.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyOCRLang, "eng")
	v.SetDefault(KeyDPI, 300)
	v.SetDefault(KeyOCREngine, "tesseract")
	v.SetDefault(KeyPdftoppmPath, "pdftoppm")
	v.SetDefault(KeyOpenAIModel, "gpt-4o-mini")
	v.SetDefault(KeyLLMTemperature, 0.3)
	v.SetDefault(KeyLLMMaxTokens, 2000)
	v.SetDefault(KeyLLMTimeout, 60*time.Second)
	v.SetDefault(KeyLLMMaxRetries, 2)
	v.SetDefault(KeyLogFormat, "text")

	v.SetDefault(KeyLayoutMinGapWidth, 18.0)
	v.SetDefault(KeyLayoutMinColumnWidth, 60.0)
	v.SetDefault(KeyLayoutMaxColumns, 4)
	v.SetDefault(KeyLayoutMinFragments, 2)

	v.SetDefault(KeyTablesMinRows, 2)
	v.SetDefault(KeyTablesMinCols, 2)
	v.SetDefault(KeyTablesAlignTolerance, 4.0)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv(KeyOpenAIKey, EnvOpenAIKey, EnvPrefix+"_OPENAI_KEY")
	_ = v.BindEnv(KeyTesseractPath, EnvTesseractPath, EnvPrefix+"_TESSERACT_PATH")

	return v
}

// ReadConfigFile loads cfgFile, or searches the default locations when empty.
// A missing file in the default locations is not an error; a missing explicit
// file, an unreadable file, or one that fails schema validation is.
func ReadConfigFile(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(ConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join("$HOME", "."+ConfigFileName))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return NewConfigError("error reading config file", err)
	}

	if used := v.ConfigFileUsed(); used != "" {
		if err := ValidateConfigFile(used); err != nil {
			return NewConfigError(fmt.Sprintf("invalid config file %s", used), err)
		}
	}
	return nil
}

// DefaultConfigPath is where the setup command writes its file.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "."+ConfigFileName, ConfigFileName+".yaml"), nil
}

// Load resolves the run configuration for input. format is constants.PPTX or
// constants.PDF and decides the defaults that differ between the two tools.
func Load(v *viper.Viper, input, format string) (*Config, error) {
	cfg := &Config{
		Input:       input,
		OutputText:  v.GetString(KeyOutputText),
		OutputExcel: v.GetString(KeyOutputExcel),
		Interactive: v.GetBool(KeyInteractive),
		Verbose:     v.GetBool(KeyVerbose),
		LogFormat:   v.GetString(KeyLogFormat),
		ConfigFile:  v.ConfigFileUsed(),
		OCR: OCRConfig{
			Enabled:       !v.GetBool(KeyNoOCR),
			TesseractPath: v.GetString(KeyTesseractPath),
			Pdftoppm:      v.GetString(KeyPdftoppmPath),
			Lang:          v.GetString(KeyOCRLang),
			DPI:           v.GetInt(KeyDPI),
			PSM:           6,
			Engine:        v.GetString(KeyOCREngine),
			TessdataDir:   v.GetString(KeyTessdataDir),
		},
		LLM: LLMConfig{
			Enabled:     !v.GetBool(KeyNoLLM),
			APIKey:      strings.TrimSpace(v.GetString(KeyOpenAIKey)),
			Model:       v.GetString(KeyOpenAIModel),
			BaseURL:     v.GetString(KeyOpenAIBaseURL),
			Temperature: v.GetFloat64(KeyLLMTemperature),
			MaxTokens:   v.GetInt(KeyLLMMaxTokens),
			Timeout:     v.GetDuration(KeyLLMTimeout),
			MaxRetries:  v.GetInt(KeyLLMMaxRetries),
		},
		Tables: TablesConfig{
			Enabled:        !v.GetBool(KeyNoTables),
			MinRows:        v.GetInt(KeyTablesMinRows),
			MinCols:        v.GetInt(KeyTablesMinCols),
			AlignTolerance: v.GetFloat64(KeyTablesAlignTolerance),
		},
		Layout: LayoutConfig{
			MultiColumn:    !v.GetBool(KeyNoMultiColumn),
			MinGapWidth:    v.GetFloat64(KeyLayoutMinGapWidth),
			MinColumnWidth: v.GetFloat64(KeyLayoutMinColumnWidth),
			MaxColumns:     v.GetInt(KeyLayoutMaxColumns),
			MinFragments:   v.GetInt(KeyLayoutMinFragments),
		},
	}

	slides, err := ParseSlideList(v.GetStringSlice(KeySlides))
	if err != nil {
		return nil, NewConfigError("invalid slides selection", err)
	}
	cfg.Slides = slides

	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if cfg.OutputText == "" {
		cfg.OutputText = stem + constants.TextOutputSuffix
	}
	if cfg.OutputExcel == "" {
		cfg.OutputExcel = stem + constants.TableOutputSuffix
	}

	if err := cfg.Validate(format); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the input file and numeric options.
func (c *Config) Validate(format string) error {
	v := NewValidator()
	v.Field("input", c.Input, Required, FileExists)
	v.Field("dpi", c.OCR.DPI, Positive)
	v.Field("ocr_lang", c.OCR.Lang, Required)
	v.Field("ocr_engine", c.OCR.Engine, OneOf("tesseract", "gosseract"))
	v.Field("log_format", c.LogFormat, OneOf("text", "json"))
	v.Field("layout.max_columns", c.Layout.MaxColumns, Positive)
	v.Field("tables.min_rows", c.Tables.MinRows, Positive)
	v.Field("tables.min_cols", c.Tables.MinCols, Positive)
	if v.HasErrors() {
		return NewConfigError(v.ErrorMessage(), nil)
	}

	if got := constants.MapExtToFormat(filepath.Ext(c.Input)); got != format {
		return NewConfigError(fmt.Sprintf("unsupported input %q: expected a %s file", c.Input, strings.ToLower(format)), nil)
	}
	return nil
}
