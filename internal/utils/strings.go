package utils

import "strings"

// PadLabel left pads the integer part of a numeric chapter label with zeros
// up to width, keeping any decimal part untouched. Labels that are not plain
// numbers are returned as they are.
func PadLabel(label string, width int) string {
	intPart, decPart, hasDec := strings.Cut(label, ".")
	if intPart == "" || !isDigits(intPart) || (hasDec && !isDigits(decPart)) {
		return label
	}

	if padding := width - len(intPart); padding > 0 {
		intPart = strings.Repeat("0", padding) + intPart
	}

	if hasDec {
		return intPart + "." + decPart
	}
	return intPart
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
