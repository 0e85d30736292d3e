package constants

import "strings"

// Document formats handled by the two tools.
const (
	PPTX = "PPTX"
	PDF  = "PDF"
)

// Default output suffixes appended to the input file's stem.
const (
	TextOutputSuffix  = "_extracted.txt"
	TableOutputSuffix = "_tables.xlsx"
)

// AllowedExtensions maps a normalized extension to its document format.
var AllowedExtensions = map[string]string{
	"pptx": PPTX,
	"pdf":  PDF,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat returns the document format for an extension, or "" when unsupported.
func MapExtToFormat(ext string) string {
	return AllowedExtensions[NormalizeExt(ext)]
}
