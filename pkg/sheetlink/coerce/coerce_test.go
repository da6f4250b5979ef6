package coerce

import (
	"testing"
	"time"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
)

func TestToAmount(t *testing.T) {
	tests := []struct {
		input  models.Cell
		want   float64
		wantOK bool
	}{
		{models.Text("$1,234.56"), 1234.56, true},
		{models.Text("(1,234.56)"), -1234.56, true},
		{models.Text("1,234.56-"), -1234.56, true},
		{models.Text("-"), 0, false},
		{models.Text("$ -"), 0, false},
		{models.Text("N/A"), 0, false},
		{models.Text("#N/A"), 0, false},
		{models.Text("  500 "), 500, true},
		{models.Text("€ 2.5"), 2.5, true},
		{models.Text("-42"), -42, true},
		{models.Text("NaN"), 0, false},
		{models.Text("Inf"), 0, false},
		{models.Text("INV1"), 0, false},
		{models.Text("0x10"), 0, false},
		{models.Text("1e3"), 0, false},
		{models.Text("1_000"), 0, false},
		{models.Text("+7.5"), 7.5, true},
		{models.Text(".5"), 0.5, true},
		{models.Text("1.2.3"), 0, false},
		{models.Number(200), 200, true},
		{models.Cell{}, 0, false},
		{models.DateValue(time.Now()), 0, false},
	}

	for _, tt := range tests {
		got, ok := ToAmount(tt.input)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ToAmount(%q) = (%v, %v), expected (%v, %v)", tt.input.String(), got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestToDate(t *testing.T) {
	native := time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC)
	tests := []struct {
		input  models.Cell
		want   time.Time
		wantOK bool
	}{
		{models.Text("31/01/2026"), time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), true},
		{models.Text("01/31/2026"), time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), true},
		{models.Text("01/02/2026"), time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), true},
		{models.Text("2026-01-31"), time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), true},
		{models.Text("2026-01-31 00:00:00"), time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), true},
		{models.Text("31.01.2026"), time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), true},
		{models.Text("31 Jan 2026"), time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), true},
		{models.Text("Jan 31, 2026"), time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), true},
		{models.Text("31-01-26"), time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), true},
		{models.DateValue(native), native, true},
		{models.Text("NaT"), time.Time{}, false},
		{models.Text("not a date"), time.Time{}, false},
		{models.Text("31/02/2026"), time.Time{}, false},
		{models.Number(45000), time.Time{}, false},
		{models.Cell{}, time.Time{}, false},
	}

	for _, tt := range tests {
		got, ok := ToDate(tt.input)
		if ok != tt.wantOK || !got.Equal(tt.want) {
			t.Errorf("ToDate(%q) = (%v, %v), expected (%v, %v)", tt.input.String(), got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestToRef(t *testing.T) {
	tests := []struct {
		input  models.Cell
		want   string
		wantOK bool
	}{
		{models.Number(1820146074), "1820146074", true},
		{models.Text("1820146074.0"), "1820146074", true},
		{models.Text("DEG 9054"), "DEG 9054", true},
		{models.Text("12.0a"), "12.0a", true},
		{models.Number(12.5), "12.5", true},
		{models.Text("   "), "", false},
		{models.Cell{}, "", false},
	}

	for _, tt := range tests {
		got, ok := ToRef(tt.input)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ToRef(%q) = (%q, %v), expected (%q, %v)", tt.input.String(), got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestToInt(t *testing.T) {
	tests := []struct {
		input  models.Cell
		want   int
		wantOK bool
	}{
		{models.Number(12.9), 12, true},
		{models.Number(-3.7), -3, true},
		{models.Text("45"), 45, true},
		{models.Text("forty"), 0, false},
	}

	for _, tt := range tests {
		got, ok := ToInt(tt.input)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ToInt(%q) = (%d, %v), expected (%d, %v)", tt.input.String(), got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestToPercent(t *testing.T) {
	if got, ok := ToPercent(models.Text("5%")); !ok || got != 0.05 {
		t.Errorf("ToPercent(5%%) = (%v, %v), expected (0.05, true)", got, ok)
	}
	if got, ok := ToPercent(models.Number(0.08)); !ok || got != 0.08 {
		t.Errorf("ToPercent(0.08) = (%v, %v), expected (0.08, true)", got, ok)
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  Amount  ", "Amount"},
		{"Net Due Date", "Net Due Date"},
		{"Total\u200b", "Total"},
		{"\uff11\uff10\uff10", "100"},
	}

	for _, tt := range tests {
		if got := NormalizeText(tt.input); got != tt.expected {
			t.Errorf("NormalizeText(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestTotal(t *testing.T) {
	var total Total
	for i := 0; i < 10; i++ {
		total.Add(0.1)
	}
	if total.Value() != 1.0 {
		t.Errorf("Total.Value() = %v, expected 1", total.Value())
	}
	if got := Sum(100.10, 200.20, -0.30); got != 300 {
		t.Errorf("Sum = %v, expected 300", got)
	}
	if total.Count() != 10 {
		t.Errorf("Total.Count() = %d, expected 10", total.Count())
	}
	if got := Round2(2.675); got != 2.68 {
		t.Errorf("Round2(2.675) = %v, expected 2.68", got)
	}
}

func TestDaysBetween(t *testing.T) {
	due := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 1, 31, 17, 0, 0, 0, time.UTC)
	if got := DaysBetween(due, now); got != 30 {
		t.Errorf("DaysBetween = %d, expected 30", got)
	}
}
