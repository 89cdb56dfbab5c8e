package util

import (
	"regexp"
	"strings"
)

var reSpaces = regexp.MustCompile(`\s+`)

// NormalizeHeader prepares a raw column header for synonym lookup:
// trimmed, lowercased, inner whitespace collapsed to single spaces.
func NormalizeHeader(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	return reSpaces.ReplaceAllString(s, " ")
}

// NormalizePlate reduces a license plate to its comparison key: upper
// case, no spaces or dashes. "aa-11-bb" and "AA 11 BB" collide on
// purpose.
func NormalizePlate(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	return strings.ToUpper(s)
}

// CollapseSpaces trims and squashes runs of whitespace inside a cell.
func CollapseSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}
