package extract

import (
	"context"
	"log/slog"
	"time"
)

// OCRAdapter makes OCR failures soft: the error is logged and handed back for the
// caller to record, and the text is always "" on failure.
type OCRAdapter struct {
	r      Recognizer
	logger *slog.Logger
}

func NewOCRAdapter(r Recognizer, logger *slog.Logger) *OCRAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRAdapter{r: r, logger: logger}
}

func (a *OCRAdapter) RecognizeImage(ctx context.Context, data []byte) (string, error) {
	start := time.Now()
	txt, err := a.r.RecognizeImage(ctx, data)
	if err != nil {
		a.logger.Warn("ocr.image.failed", "bytes", len(data), "error", err)
		return "", err
	}
	a.logger.Debug("ocr.image.ok", "bytes", len(data), "chars", len(txt), "duration_ms", time.Since(start).Milliseconds())
	return txt, nil
}

func (a *OCRAdapter) RecognizePage(ctx context.Context, pdfPath string, page int) (string, error) {
	start := time.Now()
	txt, err := a.r.RecognizePage(ctx, pdfPath, page)
	if err != nil {
		a.logger.Warn("ocr.page.failed", "page", page, "error", err)
		return "", err
	}
	a.logger.Debug("ocr.page.ok", "page", page, "chars", len(txt), "duration_ms", time.Since(start).Milliseconds())
	return txt, nil
}
