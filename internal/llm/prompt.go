package llm

import (
	"strings"

	"github.com/joseph-ayodele/office-extract/constants"
)

// SystemPrompt is sent as the system message with every request.
const SystemPrompt = "You are a helpful assistant that formats messy text into clean, readable content."

// BuildUserPrompt wraps extracted text in the formatting instructions.
func BuildUserPrompt(kind constants.Kind, text string) string {
	source := "a PowerPoint slide where text elements can be positioned anywhere on the slide"
	if kind == constants.KindPages {
		source = "a PDF page where text may come from several columns, tables or OCR"
	}

	var b strings.Builder
	b.WriteString("You are a text formatting assistant. The following text was extracted from ")
	b.WriteString(source)
	b.WriteString(". Please format this text into a clean, readable structure with proper paragraphs, headings, and organization.\n\n")
	b.WriteString("Extracted text:\n")
	b.WriteString(text)
	b.WriteString("\n\nPlease format this text to be easy to read, with:\n")
	b.WriteString("- Clear paragraphs\n")
	b.WriteString("- Proper spacing\n")
	b.WriteString("- Headings/sections where appropriate\n")
	b.WriteString("- Bullet points or lists preserved\n")
	b.WriteString("- Logical flow and organization\n\n")
	b.WriteString("Formatted text:")
	return b.String()
}

// Truncate cuts text to at most max runes. ok is false when something was cut.
func Truncate(text string, max int) (out string, ok bool) {
	if max <= 0 {
		return text, true
	}
	n := 0
	for i := range text {
		if n == max {
			return text[:i], false
		}
		n++
	}
	return text, true
}
