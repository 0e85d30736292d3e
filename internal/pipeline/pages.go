package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/office-extract/constants"
	"github.com/joseph-ayodele/office-extract/internal/common"
	"github.com/joseph-ayodele/office-extract/internal/entity"
	"github.com/joseph-ayodele/office-extract/internal/extract"
	"github.com/joseph-ayodele/office-extract/internal/layout"
	"github.com/joseph-ayodele/office-extract/internal/pdf"
	"github.com/joseph-ayodele/office-extract/internal/textnorm"
)

// PageConfig toggles the optional steps of the page stage.
type PageConfig struct {
	Tables      bool
	TableConfig pdf.TableConfig
	MultiColumn bool
	Layout      layout.Config
}

// PageStage turns every page of a PDF into a record.
type PageStage struct {
	OCR    extract.PageRecognizer // nil disables the OCR fallback
	Cfg    PageConfig
	Logger *slog.Logger
}

func NewPageStage(ocr extract.PageRecognizer, cfg PageConfig, logger *slog.Logger) *PageStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &PageStage{OCR: ocr, Cfg: cfg, Logger: logger}
}

// Run produces one record per page in order. Pages without a text layer are
// rendered and OCRed when OCR is enabled. The only error returned is a
// cancelled context.
func (s *PageStage) Run(ctx context.Context, source string, doc PageSource) (*entity.ExtractionResult, error) {
	res := &entity.ExtractionResult{
		Source: source,
		Kind:   constants.KindPages,
		Total:  doc.PageCount(),
	}
	s.Logger.Info("pages.start", "total", res.Total, "ocr", s.OCR != nil, "multicolumn", s.Cfg.MultiColumn)

	for n := 1; n <= res.Total; n++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		rec, errs := s.page(ctx, doc, n)
		res.AddRecord(rec)
		for _, err := range errs {
			res.AddError(n, err)
		}
	}

	s.Logger.Info("pages.done",
		"processed", res.Processed(),
		"tables", res.TablesFound,
		"errors", len(res.Errors),
	)
	return res, nil
}

func (s *PageStage) page(ctx context.Context, doc PageSource, n int) (rec entity.Record, errs []error) {
	start := time.Now()
	rec = entity.Record{Index: n, Method: constants.MethodNative}
	log := s.Logger.With("page", n)

	defer func() {
		if r := recover(); r != nil {
			log.Error("pages.page.panic", "panic", r)
			errs = append(errs, common.NewItemError("page extraction panicked", fmt.Errorf("%v", r)))
		}
	}()

	p, err := doc.Page(n)
	switch {
	case errors.Is(err, pdf.ErrNoTextLayer):
		log.Debug("pages.page.no_text_layer")
	case err != nil:
		log.Error("pages.page.failed", "error", err)
		errs = append(errs, common.NewItemError("read page", err))
	default:
		s.native(&rec, p)
	}

	if strings.TrimSpace(rec.Text) == "" && len(rec.Tables) == 0 && s.OCR != nil {
		txt, err := s.OCR.RecognizePage(ctx, doc.Path(), n)
		if err != nil {
			errs = append(errs, common.NewItemError("ocr page", err))
		} else if txt != "" {
			rec.Text = ""
			rec.Blocks = nil
			rec.OCRText = []string{txt}
			rec.Method = constants.MethodOCR
		}
	}

	log.Info("pages.page.ok",
		"method", rec.Method,
		"text_len", len(rec.Text),
		"columns", max(len(rec.Blocks), 1),
		"tables", len(rec.Tables),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rec, errs
}

// native fills rec from the page's text layer.
func (s *PageStage) native(rec *entity.Record, p *pdf.Page) {
	if len(p.Fragments) == 0 {
		rec.Text = textnorm.Normalize(p.PlainText)
		return
	}

	// Tables are searched per column: a gutter is not a cell boundary.
	cols := layout.Reorder(p.Fragments, s.Cfg.Layout)
	if s.Cfg.Tables {
		for _, c := range cols.Columns {
			for _, rows := range pdf.DetectTables(c.Lines, s.Cfg.TableConfig) {
				rec.Tables = append(rec.Tables, entity.Table{Page: rec.Index, Index: len(rec.Tables) + 1, Rows: rows})
			}
		}
	}

	l := cols
	if !s.Cfg.MultiColumn {
		l = layout.NativeOrder(p.Fragments)
	} else if l.Ambiguous {
		s.Logger.Debug("pages.layout.ambiguous", "page", rec.Index)
	}
	rec.Text = l.Text()
	rec.Blocks = l.Blocks()
}
