// Package textnorm cleans text pulled out of slides, PDF text layers and OCR.
package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
	reBoxNoise   = regexp.MustCompile(`(?m)^\s*[_\-|]{3,}\s*$`)
)

// Normalize composes to NFC, collapses noisy whitespace and trims the result.
// Line breaks are kept; runs of blank lines collapse to one.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, " ", " ")
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	s = strings.Join(lines, "\n")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// NormalizeOCR is Normalize plus removal of ruler-like lines tesseract emits
// for table borders and underlines.
func NormalizeOCR(s string) string {
	return Normalize(reBoxNoise.ReplaceAllString(s, ""))
}

// Line normalizes a single cell or paragraph: NFC, inner whitespace collapsed to one space.
func Line(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}
