package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedImage marks picture formats we cannot decode (EMF, WMF, SVG...).
var ErrUnsupportedImage = errors.New("unsupported image format")

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

// ToPNG decodes data and re-encodes it as PNG so both OCR engines see one format.
// PNG input is returned unchanged.
func ToPNG(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrUnsupportedImage)
	}
	if bytes.HasPrefix(data, pngMagic) {
		return data, nil
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode %s as png: %w", format, err)
	}
	return buf.Bytes(), nil
}
