package textutil

import (
	"strings"
	"unicode"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName makes name safe to use as a single path segment.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters and control runes are removed. Whitespace runs collapse to one
// space and leading dots are dropped so the result is never hidden.
func SanitizeFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = CollapseSpace(fileNameReplacer.Replace(name))
	return strings.TrimSpace(strings.TrimLeft(name, "."))
}
