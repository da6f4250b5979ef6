package loader

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/coerce"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
	"github.com/thedatashed/xlsxreader"
)

// loadStream reads a large OOXML workbook through xlsxreader's row channel,
// which avoids building excelize's full in-memory cell model.
func loadStream(data []byte, opts Options) (*models.Workbook, error) {
	xl, err := xlsxreader.NewReader(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	wb := &models.Workbook{}
	for _, name := range xl.Sheets {
		sheet, err := streamSheet(xl, name)
		if err != nil {
			opts.logger().Warn("skipping unreadable sheet", "sheet", name, "error", err)
			continue
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb, nil
}

func streamSheet(xl *xlsxreader.XlsxFile, name string) (*models.Sheet, error) {
	sheet := &models.Sheet{Name: name}
	var rowErr error
	// The channel is drained even after an error so the producer exits.
	for row := range xl.ReadRows(name) {
		if row.Error != nil {
			if rowErr == nil {
				rowErr = row.Error
			}
			continue
		}
		if rowErr != nil {
			continue
		}
		idx := row.Index - 1
		if idx < 0 {
			continue
		}
		for len(sheet.Rows) <= idx {
			sheet.Rows = append(sheet.Rows, nil)
		}
		var cells models.Row
		for _, c := range row.Cells {
			col := c.ColumnIndex()
			if col < 0 || c.Value == "" {
				continue
			}
			for len(cells) <= col {
				cells = append(cells, models.Cell{})
			}
			cells[col] = streamCell(c)
		}
		sheet.Rows[idx] = cells
	}
	if rowErr != nil {
		return nil, rowErr
	}
	return sheet, nil
}

func streamCell(c xlsxreader.Cell) models.Cell {
	switch c.Type {
	case xlsxreader.TypeNumerical:
		if f, err := strconv.ParseFloat(c.Value, 64); err == nil {
			return models.Number(f)
		}
	case xlsxreader.TypeDateTime:
		if t, err := time.Parse(time.RFC3339, c.Value); err == nil {
			return models.DateValue(t)
		}
	case xlsxreader.TypeBoolean:
		if c.Value == "1" || c.Value == "true" {
			return models.Text("TRUE")
		}
		return models.Text("FALSE")
	}
	return models.Text(coerce.NormalizeText(c.Value))
}
