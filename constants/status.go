package constants

// Method records how a record's text was obtained.
type Method string

const (
	MethodNative Method = "native" // text layer of the document
	MethodOCR    Method = "ocr"    // rasterised page run through OCR
)

// Kind names the pipeline that produced a result.
type Kind string

const (
	KindSlides Kind = "slides"
	KindPages  Kind = "pages"
)

// Label is the per-record heading used in text output ("SLIDE 3", "PAGE 3").
func (k Kind) Label() string {
	if k == KindPages {
		return "PAGE"
	}
	return "SLIDE"
}

// SheetPrefix is the per-record prefix used for table sheet names.
func (k Kind) SheetPrefix() string {
	if k == KindPages {
		return "Page"
	}
	return "Slide"
}
