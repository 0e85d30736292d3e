package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/office-extract/internal/textnorm"
)

// Engines understood by Config.Engine.
const (
	EngineTesseract = "tesseract" // external binary, the default
	EngineEmbedded  = "gosseract" // in-process, needs the gosseract build tag
)

// ErrEngineUnavailable is returned when the embedded engine was requested in a
// binary built without it.
var ErrEngineUnavailable = errors.New("embedded ocr engine not compiled in (build with -tags gosseract)")

type Config struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"

	Lang        string // default "eng"
	DPI         int    // page rasterization DPI, default 300
	PSM         int    // default 6, a single uniform block of text
	TessdataDir string

	Engine string // EngineTesseract | EngineEmbedded
}

// Extractor runs OCR on slide pictures and rendered PDF pages.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.PSM <= 0 {
		cfg.PSM = 6
	}
	if cfg.Engine == "" {
		cfg.Engine = EngineTesseract
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// WithRunner swaps the command runner; tests use it to fake tesseract and pdftoppm.
func (e *Extractor) WithRunner(r Runner) *Extractor {
	e.runner = r
	return e
}

// Config returns the effective configuration after defaults.
func (e *Extractor) Config() Config { return e.cfg }

// RecognizeImage OCRs an encoded image (any format image.Decode understands)
// and returns normalized text. An image with no recognizable text yields "".
func (e *Extractor) RecognizeImage(ctx context.Context, data []byte) (string, error) {
	start := time.Now()
	png, err := ToPNG(data)
	if err != nil {
		return "", err
	}

	var raw string
	switch e.cfg.Engine {
	case EngineEmbedded:
		raw, err = recognizeEmbedded(png, e.cfg)
	default:
		raw, err = e.recognizeExec(ctx, png)
	}
	if err != nil {
		return "", err
	}

	txt := textnorm.NormalizeOCR(raw)
	e.logger.Debug("ocr.image.done",
		"engine", e.cfg.Engine,
		"lang", e.cfg.Lang,
		"chars", len(txt),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return txt, nil
}

// RecognizePage renders one PDF page (1-based) and OCRs it.
func (e *Extractor) RecognizePage(ctx context.Context, pdfPath string, page int) (string, error) {
	img, err := e.RenderPage(ctx, pdfPath, page)
	if err != nil {
		return "", err
	}
	txt, err := e.RecognizeImage(ctx, img)
	if err != nil {
		return "", fmt.Errorf("page %d: %w", page, err)
	}
	return txt, nil
}
