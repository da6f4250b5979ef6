package coerce

import (
	"math"
	"strconv"
	"strings"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
	"github.com/shopspring/decimal"
)

// amountPlaceholders are the strings exporters use for "no value".
var amountPlaceholders = map[string]bool{
	"":        true,
	"-":       true,
	"--":      true,
	"n/a":     true,
	"na":      true,
	"nan":     true,
	"none":    true,
	"#n/a":    true,
	"#value!": true,
	"#ref!":   true,
	"#div/0!": true,
}

var amountStripper = strings.NewReplacer(
	"$", "", "€", "", "£", "", "¥", "", "₹", "",
	",", "", " ", "", "\u00a0", "", "\t", "",
)

// ToAmount converts a cell to a signed amount. Currency symbols, thousands
// separators and whitespace are stripped; "(1,234.56)" and "1,234.56-" are
// negative; placeholders such as "-", "$ -" and "N/A" yield false.
func ToAmount(c models.Cell) (float64, bool) {
	switch c.Kind {
	case models.CellNumber:
		if math.IsNaN(c.Num) || math.IsInf(c.Num, 0) {
			return 0, false
		}
		return c.Num, true
	case models.CellString:
		return parseAmount(c.Str)
	}
	return 0, false
}

func parseAmount(raw string) (float64, bool) {
	s := amountStripper.Replace(strings.TrimSpace(raw))
	if amountPlaceholders[strings.ToLower(s)] {
		return 0, false
	}
	neg := false
	switch {
	case len(s) > 2 && s[0] == '(' && s[len(s)-1] == ')':
		neg = true
		s = s[1 : len(s)-1]
	case len(s) > 1 && s[len(s)-1] == '-' && s[0] != '-':
		neg = true
		s = s[:len(s)-1]
	}
	if !isDecimal(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		f = -f
	}
	return f, true
}

// isDecimal reports whether s is an optional sign followed by digits with at
// most one decimal point. Hex, exponent and Inf/NaN forms are rejected.
func isDecimal(s string) bool {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
	digits, dots := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

// OptionalAmount is ToAmount returning nil on failure.
func OptionalAmount(c models.Cell) *float64 {
	f, ok := ToAmount(c)
	if !ok {
		return nil
	}
	return &f
}

// ToInt truncates ToAmount toward zero.
func ToInt(c models.Cell) (int, bool) {
	f, ok := ToAmount(c)
	if !ok || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(math.Trunc(f)), true
}

// OptionalInt is ToInt returning nil on failure.
func OptionalInt(c models.Cell) *int {
	n, ok := ToInt(c)
	if !ok {
		return nil
	}
	return &n
}

// ToPercent reads a rate. "5%" yields 0.05; plain numbers pass through.
func ToPercent(c models.Cell) (float64, bool) {
	if f, ok := ToAmount(c); ok {
		return f, true
	}
	if c.Kind != models.CellString {
		return 0, false
	}
	s, ok := strings.CutSuffix(strings.TrimSpace(c.Str), "%")
	if !ok {
		return 0, false
	}
	f, ok := parseAmount(s)
	if !ok {
		return 0, false
	}
	return decimal.NewFromFloat(f).Div(decimal.NewFromInt(100)).InexactFloat64(), true
}

// Round2 rounds half away from zero to two decimal places.
func Round2(f float64) float64 {
	return decimal.NewFromFloat(f).Round(2).InexactFloat64()
}

// Total accumulates amounts without binary floating point drift.
// The zero value is an empty total.
type Total struct {
	sum decimal.Decimal
	n   int
}

// Add adds f to the total.
func (t *Total) Add(f float64) {
	t.sum = t.sum.Add(decimal.NewFromFloat(f))
	t.n++
}

// Count returns the number of values added.
func (t *Total) Count() int {
	return t.n
}

// Value returns the sum rounded to two decimal places.
func (t *Total) Value() float64 {
	return t.sum.Round(2).InexactFloat64()
}

// Sum adds values exactly and rounds the result to two decimal places.
func Sum(values ...float64) float64 {
	var t Total
	for _, v := range values {
		t.Add(v)
	}
	return t.Value()
}
