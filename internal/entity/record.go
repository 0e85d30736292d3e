package entity

import (
	"strings"

	"github.com/joseph-ayodele/office-extract/constants"
)

// Record is everything extracted from one slide or page.
type Record struct {
	Index        int              `json:"index"` // 1-based
	Text         string           `json:"text"`
	Tables       []Table          `json:"tables,omitempty"`
	OCRText      []string         `json:"ocr_text,omitempty"`
	Blocks       []string         `json:"blocks,omitempty"` // column-ordered blocks (pages only)
	Notes        string           `json:"notes,omitempty"`  // speaker notes (slides only)
	Method       constants.Method `json:"method"`
	ImagesFound  int              `json:"images_found,omitempty"`
	LLMFormatted bool             `json:"llm_formatted,omitempty"`
}

// HasContent reports whether anything usable was extracted.
func (r Record) HasContent() bool {
	if strings.TrimSpace(r.Text) != "" || strings.TrimSpace(r.Notes) != "" || len(r.Tables) > 0 {
		return true
	}
	for _, t := range r.OCRText {
		if strings.TrimSpace(t) != "" {
			return true
		}
	}
	return false
}
