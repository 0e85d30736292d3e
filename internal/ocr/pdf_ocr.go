package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// RenderPage rasterizes a single 1-based page of pdfPath to PNG bytes.
func (e *Extractor) RenderPage(ctx context.Context, pdfPath string, page int) ([]byte, error) {
	if page < 1 {
		return nil, fmt.Errorf("invalid page number %d", page)
	}
	tmpDir, err := os.MkdirTemp("", "oe-pp-*")
	if err != nil {
		return nil, err
	}
	defer func(path string) {
		if err := os.RemoveAll(path); err != nil {
			e.logger.Warn("ocr.tmp.cleanup_failed", "dir", path, "error", err)
		}
	}(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	n := strconv.Itoa(page)
	// pdftoppm -f N -l N -r 300 -png -singlefile <in.pdf> <tmp/page>
	if _, err := e.run(ctx, e.cfg.Pdftoppm,
		"-f", n, "-l", n,
		"-r", strconv.Itoa(e.cfg.DPI),
		"-png", "-singlefile",
		pdfPath, prefix,
	); err != nil {
		return nil, err
	}

	img, err := os.ReadFile(prefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("pdftoppm produced no image for page %d: %w", page, err)
	}
	return img, nil
}
