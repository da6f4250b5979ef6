// Package coerce converts untyped grid cells into clean strings, dates,
// amounts, integers and reference codes. Every function tolerates blank and
// unparseable input and reports failure through its boolean result.
package coerce

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText applies NFKC compatibility normalization, drops invisible
// format characters (zero-width spaces, BOMs) and trims surrounding space.
// NBSP and full-width digits exported by some ERP systems become plain ASCII.
func NormalizeText(s string) string {
	if isPlainASCII(s) {
		return strings.TrimSpace(s)
	}
	t := transform.Chain(norm.NFKC, runes.Remove(runes.In(unicode.Cf)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(out)
}

func isPlainASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// Clean returns the trimmed textual form of a cell, or "" when blank.
func Clean(c models.Cell) string {
	return strings.TrimSpace(c.String())
}

// IsBlank reports whether a cell is empty or whitespace-only text.
func IsBlank(c models.Cell) bool {
	switch c.Kind {
	case models.CellEmpty:
		return true
	case models.CellString:
		return strings.TrimSpace(c.Str) == ""
	}
	return false
}

// Optional returns a pointer to the cleaned text, or nil when blank.
func Optional(c models.Cell) *string {
	s := Clean(c)
	if s == "" {
		return nil
	}
	return &s
}

// ToRef normalizes a reference code. Integral numbers print without a
// decimal part and a trailing ".0" left by float storage is removed.
func ToRef(c models.Cell) (string, bool) {
	switch c.Kind {
	case models.CellNumber:
		if c.Num == float64(int64(c.Num)) {
			return strconv.FormatInt(int64(c.Num), 10), true
		}
		return strconv.FormatFloat(c.Num, 'f', -1, 64), true
	case models.CellString:
		s := strings.TrimSpace(c.Str)
		if s == "" {
			return "", false
		}
		if head, ok := strings.CutSuffix(s, ".0"); ok && head != "" && allDigits(head) {
			return head, true
		}
		return s, true
	case models.CellDate:
		return c.String(), true
	}
	return "", false
}

// OptionalRef is ToRef returning nil on failure.
func OptionalRef(c models.Cell) *string {
	s, ok := ToRef(c)
	if !ok {
		return nil
	}
	return &s
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
