package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/office-extract/constants"
	"github.com/joseph-ayodele/office-extract/internal/common"
	"github.com/joseph-ayodele/office-extract/internal/entity"
	"github.com/joseph-ayodele/office-extract/internal/extract"
)

// SlideStage turns the selected slides of a deck into records.
type SlideStage struct {
	OCR    extract.ImageRecognizer // nil disables picture OCR
	Tables bool
	Logger *slog.Logger
}

func NewSlideStage(ocr extract.ImageRecognizer, tables bool, logger *slog.Logger) *SlideStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlideStage{OCR: ocr, Tables: tables, Logger: logger}
}

// Run produces one record per selected slide, ascending. A failing slide
// still yields a (possibly empty) record and an entry in Errors. The only
// error returned is a cancelled context; the partial result comes with it.
func (s *SlideStage) Run(ctx context.Context, source string, deck SlideSource, selected []int) (*entity.ExtractionResult, error) {
	res := &entity.ExtractionResult{
		Source: source,
		Kind:   constants.KindSlides,
		Total:  deck.SlideCount(),
	}
	indices := SelectIndices(selected, res.Total, s.Logger)
	s.Logger.Info("slides.start", "total", res.Total, "selected", len(indices))

	for _, n := range indices {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		rec, errs := s.slide(ctx, deck, n)
		res.AddRecord(rec)
		for _, err := range errs {
			res.AddError(n, err)
		}
	}

	s.Logger.Info("slides.done",
		"processed", res.Processed(),
		"tables", res.TablesFound,
		"errors", len(res.Errors),
	)
	return res, nil
}

// slide never panics; a panic while walking the slide becomes an item error.
func (s *SlideStage) slide(ctx context.Context, deck SlideSource, n int) (rec entity.Record, errs []error) {
	start := time.Now()
	rec = entity.Record{Index: n, Method: constants.MethodNative}
	log := s.Logger.With("slide", n)

	defer func() {
		if r := recover(); r != nil {
			log.Error("slides.slide.panic", "panic", r)
			errs = append(errs, common.NewItemError("slide extraction panicked", fmt.Errorf("%v", r)))
		}
	}()

	log.Debug("slides.slide.start")
	sl, err := deck.Slide(n)
	if err != nil {
		log.Error("slides.slide.failed", "error", err)
		return rec, append(errs, common.NewItemError("read slide", err))
	}

	rec.Text = sl.Text()
	rec.Notes = sl.Notes
	if sl.NotesErr != nil {
		log.Warn("slides.notes.unreadable", "error", sl.NotesErr)
		errs = append(errs, common.NewItemError("notes", sl.NotesErr))
	}

	if s.Tables {
		for i, sh := range sl.Tables() {
			t := entity.Table{Page: n, Index: i + 1, Rows: sh.Rows}
			if err := t.Validate(); err != nil {
				log.Warn("slides.table.skipped", "table", t.Index, "error", err)
				errs = append(errs, common.NewItemError("table skipped", err))
				continue
			}
			rec.Tables = append(rec.Tables, t)
		}
	}

	for i, pic := range sl.Pictures() {
		rec.ImagesFound++
		if pic.Err != nil {
			log.Warn("slides.picture.unreadable", "picture", i+1, "name", pic.Name, "error", pic.Err)
			errs = append(errs, common.NewItemError(fmt.Sprintf("picture %d", i+1), pic.Err))
			continue
		}
		if s.OCR == nil {
			continue
		}
		txt, err := s.OCR.RecognizeImage(ctx, pic.Image)
		if err != nil {
			errs = append(errs, common.NewItemError(fmt.Sprintf("ocr picture %d (%s)", i+1, pic.ImageName), err))
			continue
		}
		if txt != "" {
			rec.OCRText = append(rec.OCRText, txt)
		}
	}

	log.Info("slides.slide.ok",
		"text_len", len(rec.Text),
		"tables", len(rec.Tables),
		"images", rec.ImagesFound,
		"ocr_fragments", len(rec.OCRText),
		"has_notes", rec.Notes != "",
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rec, errs
}
