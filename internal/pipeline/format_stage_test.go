package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/joseph-ayodele/office-extract/constants"
	"github.com/joseph-ayodele/office-extract/internal/entity"
)

func TestFormatStage_Run(t *testing.T) {
	res := &entity.ExtractionResult{Kind: constants.KindPages, Total: 4}
	res.AddRecord(entity.Record{Index: 1, Text: "first page"})
	res.AddRecord(entity.Record{Index: 2, Text: "second page"})
	res.AddRecord(entity.Record{Index: 3, Text: "  \n"})
	res.AddRecord(entity.Record{Index: 4, OCRText: []string{"scanned"}, Method: constants.MethodOCR})

	f := &upperFormatter{fail: map[int]bool{2: true}}
	st := NewFormatStage(f, nil).Run(context.Background(), res)

	if st.Formatted != 2 || st.Failed != 1 {
		t.Errorf("stats = %+v", st)
	}
	if len(f.calls) != 3 {
		t.Fatalf("calls = %d, want 3 (blank record skipped)", len(f.calls))
	}
	for _, c := range f.calls {
		if c.Kind != constants.KindPages {
			t.Errorf("kind = %s", c.Kind)
		}
	}

	if r := res.Records[0]; r.Text != "FIRST PAGE" || !r.LLMFormatted {
		t.Errorf("record 1 = %+v", r)
	}
	if r := res.Records[1]; r.Text != "second page" || r.LLMFormatted {
		t.Errorf("failed record should keep its text: %+v", r)
	}
	if r := res.Records[3]; r.OCRText[0] != "SCANNED" || !r.LLMFormatted {
		t.Errorf("ocr record = %+v", r)
	}
	if len(res.Errors) != 1 || !strings.HasPrefix(res.Errors[0], "Page 2:") {
		t.Errorf("errors = %q", res.Errors)
	}
}
