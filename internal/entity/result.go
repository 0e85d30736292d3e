package entity

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/office-extract/constants"
)

// ExtractionResult is the per-document aggregate handed to the writers.
type ExtractionResult struct {
	Source      string         `json:"source"`
	Kind        constants.Kind `json:"kind"`
	Total       int            `json:"total"` // slides or pages in the document
	Records     []Record       `json:"records"`
	TablesFound int            `json:"tables_found"`
	Errors      []string       `json:"errors,omitempty"`
}

// Processed is the number of records produced.
func (r *ExtractionResult) Processed() int { return len(r.Records) }

// AddRecord appends a record and keeps the table count in step.
func (r *ExtractionResult) AddRecord(rec Record) {
	r.Records = append(r.Records, rec)
	r.TablesFound += len(rec.Tables)
}

// AddError records a per-item failure, prefixed with the slide/page label.
func (r *ExtractionResult) AddError(index int, err error) {
	r.Errors = append(r.Errors, fmt.Sprintf("%s %d: %v", titleCase(r.Kind.Label()), index, err))
}

// Tables returns every table in document order.
func (r *ExtractionResult) Tables() []Table {
	var out []Table
	for _, rec := range r.Records {
		out = append(out, rec.Tables...)
	}
	return out
}

// HasContent reports whether any record carries text, notes, tables or OCR output.
func (r *ExtractionResult) HasContent() bool {
	for _, rec := range r.Records {
		if rec.HasContent() {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return s[:1] + strings.ToLower(s[1:])
}
