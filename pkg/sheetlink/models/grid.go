// Package models defines the data structures shared by the loader,
// the layout detectors and the per-format extractors.
package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// CellKind identifies the dynamic type of a grid cell.
type CellKind uint8

const (
	// CellEmpty is a cell with no value.
	CellEmpty CellKind = iota
	// CellString holds text.
	CellString
	// CellNumber holds a float64.
	CellNumber
	// CellDate holds a calendar date/time.
	CellDate
)

// Cell is a single untyped grid value as read from the workbook.
type Cell struct {
	// Kind is the dynamic type of the value.
	Kind CellKind
	// Str is set for CellString.
	Str string
	// Num is set for CellNumber.
	Num float64
	// Time is set for CellDate.
	Time time.Time
}

// Text returns a cell holding s, or an empty cell when s is blank.
func Text(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{}
	}
	return Cell{Kind: CellString, Str: s}
}

// Number returns a numeric cell.
func Number(f float64) Cell {
	return Cell{Kind: CellNumber, Num: f}
}

// DateValue returns a date cell.
func DateValue(t time.Time) Cell {
	return Cell{Kind: CellDate, Time: t}
}

// IsEmpty reports whether the cell carries no value at all.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// String renders the cell the way a user would read it in the sheet.
func (c Cell) String() string {
	switch c.Kind {
	case CellString:
		return c.Str
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case CellDate:
		if c.Time.Hour() == 0 && c.Time.Minute() == 0 && c.Time.Second() == 0 {
			return c.Time.Format(time.DateOnly)
		}
		return c.Time.Format(time.DateTime)
	}
	return ""
}

// MarshalJSON encodes the cell as a JSON scalar.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellString, CellDate:
		return json.Marshal(c.String())
	case CellNumber:
		if c.Num == float64(int64(c.Num)) {
			return []byte(strconv.FormatInt(int64(c.Num), 10)), nil
		}
		return json.Marshal(c.Num)
	}
	return []byte("null"), nil
}

// Row is an ordered sequence of cells. Trailing cells may be omitted.
type Row []Cell

// At returns the cell at column col, or an empty cell when out of range.
func (r Row) At(col int) Cell {
	if col < 0 || col >= len(r) {
		return Cell{}
	}
	return r[col]
}

// Sheet is the raw grid of one worksheet. No header row is assumed.
type Sheet struct {
	// Name is the worksheet name as stored in the workbook.
	Name string
	// Rows holds every row, including blank ones, in sheet order.
	Rows []Row
}

// Row returns row i, or nil when out of range.
func (s *Sheet) Row(i int) Row {
	if s == nil || i < 0 || i >= len(s.Rows) {
		return nil
	}
	return s.Rows[i]
}

// Width returns the length of the longest row.
func (s *Sheet) Width() int {
	w := 0
	for _, r := range s.Rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// Workbook is an ordered set of sheet grids.
type Workbook struct {
	// Name is the original file name, used for provenance only.
	Name string
	// Sheets keeps workbook order.
	Sheets []*Sheet
}

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, 0, len(w.Sheets))
	for _, s := range w.Sheets {
		names = append(names, s.Name)
	}
	return names
}

// Sheet returns the sheet with the given name, matched exactly first and
// then case-insensitively after trimming.
func (w *Workbook) Sheet(name string) *Sheet {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s
		}
	}
	want := strings.ToLower(strings.TrimSpace(name))
	for _, s := range w.Sheets {
		if strings.ToLower(strings.TrimSpace(s.Name)) == want {
			return s
		}
	}
	return nil
}
