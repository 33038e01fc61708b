// Package util holds small helpers shared by the CLI, the server and the progress view.
package util

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	unsafeRunes  = regexp.MustCompile(`[\\/<>:;"'|?!*{}#%&^+,~\s\x00-\x1f]`)
	underscores  = regexp.MustCompile(`_{2,}`)
	outerPadding = regexp.MustCompile(`^[_\-.]+|[_\-.]+$`)
)

// SanitizeFilename reduces name to a single safe path element.
func SanitizeFilename(name string) string {
	name = unsafeRunes.ReplaceAllString(name, "_")
	name = strings.ReplaceAll(name, "..", "_")
	name = underscores.ReplaceAllString(name, "_")
	return outerPadding.ReplaceAllString(name, "")
}

func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
