package loader

import (
	"fmt"
	"os"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/coerce"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
	"github.com/shakinm/xlsReader/xls"
)

// loadXLS reads a legacy BIFF workbook. The reader opens by path, so the
// bytes are spooled to a temporary file first.
func loadXLS(data []byte, opts Options) (*models.Workbook, error) {
	tmp, err := os.CreateTemp("", "sheetlink-*.xls")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	tmp.Close()

	book, err := xls.OpenFile(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	wb := &models.Workbook{}
	for i := 0; i < book.GetNumberSheets(); i++ {
		sheet, err := book.GetSheet(i)
		if err != nil || sheet == nil {
			opts.logger().Warn("skipping unreadable sheet", "index", i, "error", err)
			continue
		}
		out := &models.Sheet{Name: sheet.GetName()}
		for _, r := range sheet.GetRows() {
			var row models.Row
			if r != nil {
				for _, col := range r.GetCols() {
					if col == nil {
						row = append(row, models.Cell{})
						continue
					}
					row = append(row, xlsCell(col.GetString()))
				}
			}
			out.Rows = append(out.Rows, row)
		}
		wb.Sheets = append(wb.Sheets, out)
	}
	return wb, nil
}

// xlsCell re-types a BIFF value rendered as text: plain numerals become
// numbers, everything else stays text for the coercers.
func xlsCell(value string) models.Cell {
	text := coerce.NormalizeText(value)
	if text == "" {
		return models.Cell{}
	}
	if f, ok := coerce.ToAmount(models.Text(text)); ok && isPlainNumeral(text) {
		return models.Number(f)
	}
	return models.Text(text)
}

func isPlainNumeral(s string) bool {
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
		case (r == '-' || r == '+') && i == 0:
		case r == 'e' || r == 'E':
		default:
			return false
		}
	}
	return true
}
