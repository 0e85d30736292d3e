//go:build !gosseract

package ocr

func recognizeEmbedded(_ []byte, _ Config) (string, error) {
	return "", ErrEngineUnavailable
}

// EmbeddedAvailable reports whether the in-process engine was compiled in.
func EmbeddedAvailable() bool { return false }
