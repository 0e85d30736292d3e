package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/office-extract/constants"
	"github.com/joseph-ayodele/office-extract/internal/common"
	"github.com/joseph-ayodele/office-extract/internal/entity"
	"github.com/joseph-ayodele/office-extract/internal/extract"
	"github.com/joseph-ayodele/office-extract/internal/interactive"
	"github.com/joseph-ayodele/office-extract/internal/layout"
	"github.com/joseph-ayodele/office-extract/internal/ocr"
	"github.com/joseph-ayodele/office-extract/internal/pdf"
	"github.com/joseph-ayodele/office-extract/internal/pipeline"
	"github.com/joseph-ayodele/office-extract/internal/pptx"
	"github.com/joseph-ayodele/office-extract/version"
)

func run(cmd *cobra.Command, tool Tool, cfg *common.Config, deps Deps) error {
	logger := NewLogger(cmd.ErrOrStderr(), cfg.LogFormat, cfg.Verbose)
	ctx := cmd.Context()

	logger.Info("run.start",
		"tool", tool.Name,
		"version", version.GitRelease,
		"input", cfg.Input,
		"config_file", cfg.ConfigFile,
		"ocr", cfg.OCR.Enabled,
		"llm", cfg.LLM.Enabled,
		"tables", cfg.Tables.Enabled,
	)

	recognizer, err := buildOCR(cfg, tool, logger, deps)
	if err != nil {
		return err
	}
	proc := pipeline.NewProcessor(logger, buildFormatStage(cfg, logger, deps), cfg.Tables.Enabled)
	out := pipeline.Outputs{Text: cfg.OutputText, Excel: cfg.OutputExcel}

	var extractFn pipeline.Extractor
	switch tool.Format {
	case constants.PPTX:
		deck, err := pptx.Open(cfg.Input)
		if err != nil {
			return common.NewConfigError("cannot open presentation "+cfg.Input, err)
		}
		defer func() {
			if cerr := deck.Close(); cerr != nil {
				logger.Warn("pptx.close_failed", "error", cerr)
			}
		}()

		selected := cfg.Slides
		if cfg.Interactive && len(selected) == 0 {
			selected, err = interactive.Prompt(cmd.InOrStdin(), cmd.OutOrStdout(), deck.SlideCount())
			if err != nil {
				return common.NewConfigError("slide selection", err)
			}
		}

		var img extract.ImageRecognizer
		if recognizer != nil {
			img = recognizer
		}
		stage := pipeline.NewSlideStage(img, cfg.Tables.Enabled, logger)
		extractFn = func(ctx context.Context) (*entity.ExtractionResult, error) {
			return stage.Run(ctx, cfg.Input, deck, selected)
		}

	case constants.PDF:
		doc, err := pdf.Open(cfg.Input, logger)
		if err != nil {
			return common.NewConfigError("cannot open PDF "+cfg.Input, err)
		}
		defer func() {
			if cerr := doc.Close(); cerr != nil {
				logger.Warn("pdf.close_failed", "error", cerr)
			}
		}()

		var pg extract.PageRecognizer
		if recognizer != nil {
			pg = recognizer
		}
		stage := pipeline.NewPageStage(pg, pipeline.PageConfig{
			Tables: cfg.Tables.Enabled,
			TableConfig: pdf.TableConfig{
				MinRows:        cfg.Tables.MinRows,
				MinCols:        cfg.Tables.MinCols,
				AlignTolerance: cfg.Tables.AlignTolerance,
			},
			MultiColumn: cfg.Layout.MultiColumn,
			Layout: layout.Config{
				MinGapWidth:    cfg.Layout.MinGapWidth,
				MinColumnWidth: cfg.Layout.MinColumnWidth,
				MaxColumns:     cfg.Layout.MaxColumns,
				MinFragments:   cfg.Layout.MinFragments,
			},
		}, logger)
		extractFn = func(ctx context.Context) (*entity.ExtractionResult, error) {
			return stage.Run(ctx, cfg.Input, doc)
		}
	}

	sum, err := proc.Run(ctx, extractFn, out)
	if err == nil || errors.Is(err, common.ErrNoContent) {
		sum.Print(cmd.OutOrStdout())
	}
	if err != nil {
		logger.Error("run.failed", "error", err)
		return err
	}
	logger.Info("run.done", "summary_errors", len(sum.Errors))
	return nil
}

// buildOCR resolves the OCR engine. Missing binaries are configuration errors
// so nothing is written when OCR was asked for but cannot run.
func buildOCR(cfg *common.Config, tool Tool, logger *slog.Logger, deps Deps) (*extract.OCRAdapter, error) {
	if !cfg.OCR.Enabled {
		logger.Info("ocr.disabled")
		return nil, nil
	}

	ocfg := ocr.Config{
		Lang:        cfg.OCR.Lang,
		DPI:         cfg.OCR.DPI,
		PSM:         cfg.OCR.PSM,
		TessdataDir: cfg.OCR.TessdataDir,
		Engine:      cfg.OCR.Engine,
	}
	if cfg.OCR.Engine == ocr.EngineEmbedded {
		if !ocr.EmbeddedAvailable() {
			return nil, common.NewConfigError("ocr_engine "+ocr.EngineEmbedded+" requested", ocr.ErrEngineUnavailable)
		}
	} else {
		path, err := deps.LocateTesseract(cfg.OCR.TesseractPath)
		if err != nil {
			return nil, common.NewConfigError("OCR is enabled but tesseract is unavailable (use --no-ocr to skip)", err)
		}
		ocfg.Tesseract = path
	}
	if tool.Format == constants.PDF {
		path, err := deps.LookPath(cfg.OCR.Pdftoppm)
		if err != nil {
			return nil, common.NewConfigError("OCR is enabled but pdftoppm is unavailable (use --no-ocr to skip)", err)
		}
		ocfg.Pdftoppm = path
	}

	x := ocr.NewExtractor(ocfg, logger)
	if deps.Runner != nil {
		x.WithRunner(deps.Runner)
	}
	logger.Info("ocr.ready",
		"engine", x.Config().Engine,
		"tesseract", x.Config().Tesseract,
		"lang", x.Config().Lang,
		"dpi", x.Config().DPI,
	)
	return extract.NewOCRAdapter(x, logger), nil
}

// buildFormatStage returns nil when the LLM is off or no key is configured.
func buildFormatStage(cfg *common.Config, logger *slog.Logger, deps Deps) *pipeline.FormatStage {
	if !cfg.LLM.Enabled {
		logger.Info("llm.disabled", "reason", "--no-llm")
		return nil
	}
	if cfg.LLM.APIKey == "" {
		logger.Warn("llm.disabled",
			"reason", "no OpenAI API key; set OPENAI_API_KEY, pass --openai-key or run setup",
		)
		return nil
	}
	logger.Info("llm.enabled", "model", cfg.LLM.Model)
	return pipeline.NewFormatStage(deps.NewFormatter(cfg.LLM, logger), logger)
}
