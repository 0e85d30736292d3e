package export

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxSheetNameLen is the longest worksheet name Excel accepts, in characters.
const MaxSheetNameLen = 31

var sheetNameReplacer = strings.NewReplacer(
	`\`, "_", "/", "_", "?", "_", "*", "_",
	"[", "_", "]", "_", ":", "_", "'", "_",
)

// SanitizeSheetName replaces characters Excel rejects and truncates to
// MaxSheetNameLen. An empty result becomes "Sheet".
func SanitizeSheetName(name string) string {
	name = strings.TrimSpace(sheetNameReplacer.Replace(name))
	name = truncateRunes(name, MaxSheetNameLen)
	if name == "" {
		return "Sheet"
	}
	return name
}

// SheetNamer hands out sanitized sheet names, unique without regard to case
// (Excel treats "Data" and "DATA" as the same sheet). Collisions get a "~N"
// suffix, N counting up from 2, with the base shortened so the suffix fits.
type SheetNamer struct {
	used map[string]struct{}
}

func NewSheetNamer() *SheetNamer {
	return &SheetNamer{used: make(map[string]struct{})}
}

// Unique returns a name for the next sheet.
func (n *SheetNamer) Unique(name string) string {
	base := SanitizeSheetName(name)
	if n.claim(base) {
		return base
	}
	for i := 2; ; i++ {
		suffix := fmt.Sprintf("~%d", i)
		cand := truncateRunes(base, MaxSheetNameLen-len(suffix)) + suffix
		if n.claim(cand) {
			return cand
		}
	}
}

func (n *SheetNamer) claim(name string) bool {
	key := strings.ToLower(name)
	if _, ok := n.used[key]; ok {
		return false
	}
	n.used[key] = struct{}{}
	return true
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}
