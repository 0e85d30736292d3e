package extract

import (
	"context"
)

// ImageRecognizer is the OCR stage for embedded pictures: encoded image -> text.
type ImageRecognizer interface {
	RecognizeImage(ctx context.Context, data []byte) (string, error)
}

// PageRecognizer is the OCR stage for PDF pages without a usable text layer.
type PageRecognizer interface {
	RecognizePage(ctx context.Context, pdfPath string, page int) (string, error)
}

// Recognizer covers both OCR entry points; *ocr.Extractor implements it.
type Recognizer interface {
	ImageRecognizer
	PageRecognizer
}
