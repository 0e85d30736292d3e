package ocr

import (
	"fmt"
	"os"
	"os/exec"
)

// WellKnownTesseractPaths are checked, in order, before falling back to PATH.
var WellKnownTesseractPaths = []string{
	`C:\Program Files\Tesseract-OCR\tesseract.exe`,
	`C:\Program Files (x86)\Tesseract-OCR\tesseract.exe`,
	"/usr/bin/tesseract",
	"/usr/local/bin/tesseract",
	"/opt/homebrew/bin/tesseract",
}

// swapped in tests
var (
	statFn     = os.Stat
	lookPathFn = exec.LookPath
)

// Locate resolves the tesseract binary. A non-empty override must point at an
// existing file; otherwise the well-known locations are tried, then PATH.
func Locate(override string) (string, error) {
	if override != "" {
		st, err := statFn(override)
		if err != nil {
			return "", fmt.Errorf("tesseract not found at %q: %w", override, err)
		}
		if st.IsDir() {
			return "", fmt.Errorf("tesseract path %q is a directory", override)
		}
		return override, nil
	}
	for _, p := range WellKnownTesseractPaths {
		if st, err := statFn(p); err == nil && !st.IsDir() {
			return p, nil
		}
	}
	if p, err := lookPathFn("tesseract"); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("tesseract not found in common locations or PATH; install tesseract-ocr or pass --tesseract-path")
}
