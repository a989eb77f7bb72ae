package assembler

import "strings"

// Gateway field limits, in characters.
const (
	MaxSalutation     = 20
	MaxName           = 100
	MaxCity           = 100
	MaxOrganization   = 100
	MaxPostCode       = 40
	MaxStreet         = 300
	MaxShippingMethod = 200
	MaxLineItemName   = 150
)

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// Sanitize replaces line breaks with spaces and caps text at maxLen characters.
func Sanitize(text string, maxLen int) string {
	return FixLength(lineBreaks.Replace(text), maxLen)
}

// FixLength caps text at maxLen characters without splitting a rune.
func FixLength(text string, maxLen int) string {
	if maxLen < 0 {
		return text
	}
	if len(text) <= maxLen {
		return text
	}
	r := []rune(text)
	if len(r) <= maxLen {
		return text
	}
	return string(r[:maxLen])
}

// FirstLine returns text up to the first line break.
func FirstLine(text string) string {
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		return text[:i]
	}
	return text
}
