//go:build gosseract

package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// recognizeEmbedded runs tesseract in-process through libtesseract.
func recognizeEmbedded(png []byte, cfg Config) (string, error) {
	client := gosseract.NewClient()
	defer func() { _ = client.Close() }()

	if cfg.TessdataDir != "" {
		if err := client.SetTessdataPrefix(cfg.TessdataDir); err != nil {
			return "", fmt.Errorf("gosseract: tessdata: %w", err)
		}
	}
	if err := client.SetLanguage(strings.Split(cfg.Lang, "+")...); err != nil {
		return "", fmt.Errorf("gosseract: set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(cfg.PSM)); err != nil {
		return "", fmt.Errorf("gosseract: set psm: %w", err)
	}
	if err := client.SetImageFromBytes(png); err != nil {
		return "", fmt.Errorf("gosseract: set image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("gosseract: %w", err)
	}
	return text, nil
}

// EmbeddedAvailable reports whether the in-process engine was compiled in.
func EmbeddedAvailable() bool { return true }
