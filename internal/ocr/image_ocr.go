package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

func (e *Extractor) recognizeExec(ctx context.Context, png []byte) (string, error) {
	tmpDir, err := os.MkdirTemp("", "oe-ocr-*")
	if err != nil {
		return "", err
	}
	defer func(path string) {
		if err := os.RemoveAll(path); err != nil {
			e.logger.Warn("ocr.tmp.cleanup_failed", "dir", path, "error", err)
		}
	}(tmpDir)

	img := filepath.Join(tmpDir, "image.png")
	if err := os.WriteFile(img, png, 0o600); err != nil {
		return "", fmt.Errorf("write ocr input: %w", err)
	}
	return e.tesseract(ctx, img)
}

// tesseract <file> stdout -l <lang> --psm <psm>
func (e *Extractor) tesseract(ctx context.Context, path string) (string, error) {
	args := []string{path, "stdout", "-l", e.cfg.Lang, "--psm", strconv.Itoa(e.cfg.PSM)}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	out, err := e.run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
