package sanitize

import (
	"regexp"
	"strings"
)

var (
	illegalChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

// Filename turns a title or chapter name into a single path element. Illegal
// characters are dropped, whitespace runs collapse to one space and leading
// or trailing spaces and dots are trimmed.
func Filename(name string) string {
	name = illegalChars.ReplaceAllString(name, "")
	name = controlChars.ReplaceAllString(name, " ")
	name = strings.Join(strings.Fields(name), " ")

	return strings.Trim(name, " .")
}
