package suggest

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize trims whitespace, NFC-normalizes, and case-folds value — the
// preprocessing Suggest applies to both the input and every candidate
// before scoring, so "Description" and "description" compare equal, and a
// dataset term spelled with combining accents compares equal to the same
// term spelled with precomposed characters.
func Normalize(value string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(value)))
}
