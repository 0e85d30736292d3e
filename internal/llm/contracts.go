package llm

import (
	"context"

	"github.com/joseph-ayodele/office-extract/constants"
)

// FormatRequest is one slide's or page's text to be tidied up.
type FormatRequest struct {
	Kind  constants.Kind
	Index int // 1-based slide/page number, for logs
	Text  string
}

// Formatter is the interface the pipeline depends on. Implementations must
// return an error rather than partial output; callers keep the original text.
type Formatter interface {
	Format(ctx context.Context, req FormatRequest) (string, error)
}
