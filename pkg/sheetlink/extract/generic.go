package extract

import (
	"fmt"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/coerce"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/layout"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
)

// GenericNotice is the error recorded on every generic extraction.
const GenericNotice = "File type could not be determined; generic extraction applied."

const (
	genericHeaderScan = 10
	genericHeaderMin  = 3
)

// Generic extracts any workbook as header-keyed row maps. It is used for
// unrecognised files and as the fallback when a format extractor fails.
type Generic struct {
	env Env
}

// NewGeneric returns the generic extractor.
func NewGeneric(env Env) *Generic {
	return &Generic{env: env.withDefaults()}
}

func (x *Generic) Type() models.FileType { return models.FileTypeUnknown }

func (x *Generic) Extract(wb *models.Workbook) (*models.ParseResult, error) {
	data := &models.GenericData{Sheets: make(map[string]models.GenericSheet, len(wb.Sheets))}
	for _, s := range wb.Sheets {
		data.Sheets[s.Name] = genericSheet(s)
	}
	res := models.NewResult(models.FileTypeUnknown, x.env.Filename)
	res.Generic = data
	res.AllSheets = wb.SheetNames()
	res.AddError(GenericNotice)
	return res, nil
}

func genericSheet(s *models.Sheet) models.GenericSheet {
	hdr := 0
	for i := 0; i < genericHeaderScan && i < len(s.Rows); i++ {
		if len(layout.NonBlank(s.Rows[i])) >= genericHeaderMin {
			hdr = i
			break
		}
	}
	headers := headerKeys(s.Row(hdr))

	out := models.GenericSheet{Headers: headers, Rows: []map[string]models.Cell{}}
	for i := hdr + 1; i < len(s.Rows); i++ {
		row := s.Rows[i]
		rec := map[string]models.Cell{}
		for j, h := range headers {
			if c := row.At(j); !coerce.IsBlank(c) {
				rec[h] = c
			}
		}
		if len(rec) > 0 {
			out.Rows = append(out.Rows, rec)
		}
	}
	out.RowCount = len(out.Rows)
	if r, ok := layout.DetectTable(s, layout.DefaultTableParams()); ok {
		out.DataRange = r
	}
	return out
}

// headerKeys names each column by its header text. Blank headers become
// col_N and repeated names get a _2, _3 suffix so no column is lost.
func headerKeys(header models.Row) []string {
	keys := make([]string, len(header))
	seen := map[string]int{}
	for j, c := range header {
		key := coerce.Clean(c)
		if key == "" {
			key = fmt.Sprintf("col_%d", j)
		}
		seen[key]++
		if n := seen[key]; n > 1 {
			key = fmt.Sprintf("%s_%d", key, n)
		}
		keys[j] = key
	}
	return keys
}
