package loader

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/coerce"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
	"github.com/xuri/excelize/v2"
)

// loadXLSX reads every sheet of an OOXML workbook with excelize.
func loadXLSX(data []byte, opts Options) (*models.Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	r := &xlsxReader{f: f, dateStyles: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		r.date1904 = *props.Date1904
	}

	wb := &models.Workbook{}
	for _, name := range f.GetSheetList() {
		sheet, err := r.readSheet(name)
		if err != nil {
			opts.logger().Warn("skipping unreadable sheet", "sheet", name, "error", err)
			continue
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb, nil
}

type xlsxReader struct {
	f          *excelize.File
	date1904   bool
	dateStyles map[int]bool
}

func (r *xlsxReader) readSheet(name string) (*models.Sheet, error) {
	rows, err := r.f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	sheet := &models.Sheet{Name: name, Rows: make([]models.Row, len(rows))}
	for i, raw := range rows {
		row := make(models.Row, len(raw))
		for j, value := range raw {
			if value == "" {
				continue
			}
			row[j] = r.cell(name, j+1, i+1, value)
		}
		sheet.Rows[i] = row
	}
	return sheet, nil
}

// cell types a raw value using the stored cell type and number format.
func (r *xlsxReader) cell(sheet string, col, rowNum int, value string) models.Cell {
	ref, err := excelize.CoordinatesToCellName(col, rowNum)
	if err != nil {
		return models.Text(coerce.NormalizeText(value))
	}
	typ, _ := r.f.GetCellType(sheet, ref)
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return models.Text(coerce.NormalizeText(value))
	case excelize.CellTypeBool:
		if value == "1" {
			return models.Text("TRUE")
		}
		return models.Text("FALSE")
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return models.Text(coerce.NormalizeText(value))
	}
	if typ == excelize.CellTypeDate || r.isDateStyled(sheet, ref) {
		if t, err := excelize.ExcelDateToTime(f, r.date1904); err == nil {
			return models.DateValue(t)
		}
	}
	return models.Number(f)
}

func (r *xlsxReader) isDateStyled(sheet, ref string) bool {
	idx, err := r.f.GetCellStyle(sheet, ref)
	if err != nil || idx == 0 {
		return false
	}
	if v, ok := r.dateStyles[idx]; ok {
		return v
	}
	style, err := r.f.GetStyle(idx)
	isDate := err == nil && style != nil && IsDateFormat(style.NumFmt, style.CustomNumFmt)
	r.dateStyles[idx] = isDate
	return isDate
}

// IsDateFormat reports whether a number format renders a date. Built-in
// IDs 14-22, 27-36, 45-47 and 50-58 are dates; a custom format is a date
// when it carries a day or year token outside quotes and brackets.
func IsDateFormat(id int, custom *string) bool {
	if custom != nil && *custom != "" {
		return customHasDateToken(*custom)
	}
	switch {
	case id >= 14 && id <= 22, id >= 27 && id <= 36, id >= 45 && id <= 47, id >= 50 && id <= 58:
		return true
	}
	return false
}

func customHasDateToken(format string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for _, r := range strings.ToLower(format) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(r)
		}
	}
	s := b.String()
	return strings.ContainsAny(s, "dy") || (strings.Contains(s, "m") && !strings.ContainsAny(s, "hs0#"))
}
