package parse

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NaturalLess reports whether a sorts before b when runs of digits are
// compared by numeric value and everything else case-insensitively.
func NaturalLess(a, b string) bool {
	return NaturalCompare(a, b) < 0
}

// NaturalCompare returns -1, 0 or 1. "9" < "10" < "10.5" < "11".
func NaturalCompare(a, b string) int {
	for a != "" && b != "" {
		ra, sizeA := utf8.DecodeRuneInString(a)
		rb, sizeB := utf8.DecodeRuneInString(b)

		if isDigit(ra) && isDigit(rb) {
			numA, restA := digitRun(a)
			numB, restB := digitRun(b)
			if c := compareDigits(numA, numB); c != 0 {
				return c
			}
			a, b = restA, restB
			continue
		}

		la, lb := unicode.ToLower(ra), unicode.ToLower(rb)
		if la != lb {
			if la < lb {
				return -1
			}
			return 1
		}

		a, b = a[sizeA:], b[sizeB:]
	}

	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func digitRun(s string) (string, string) {
	i := 0
	for i < len(s) && isDigit(rune(s[i])) {
		i++
	}
	return s[:i], s[i:]
}

// compareDigits compares two digit strings by value without parsing, so
// arbitrarily long runs work.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")

	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}

	return strings.Compare(a, b)
}
