package extract

import (
	"github.com/rutishh0/PowerBI/pkg/sheetlink/coerce"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/layout"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
)

// invoiceSchema claims reference_key3 before reference and amount before
// currency so "Amount in Doc. Curr." is never taken by currency.
var invoiceSchema = layout.Schema{
	layout.Aliases("reference_key3", "reference key 3", "ref key 3", "ref 3"),
	layout.Aliases("reference", "reference", "doc no", "invoice no", "document no"),
	layout.Aliases("doc_date", "document date", "doc date", "posting date"),
	layout.Aliases("due_date", "net due date", "due date", "payment date"),
	layout.Aliases("amount", "amount in doc", "amount", "value", "balance"),
	layout.Aliases("currency", "document currency", "currency", "curr"),
	layout.Aliases("text", "text", "description", "narrative"),
	layout.Aliases("assignment", "assignment", "assign", "ref key 1"),
}

var invoiceHeaderSignals = []string{"reference", "amount", "document", "net due", "currency"}

var invoicePositional = map[string]int{"reference": 0, "amount": 4}

// InvoiceRegister extracts flat invoice register exports.
type InvoiceRegister struct {
	env Env
}

// NewInvoiceRegister returns an invoice register extractor.
func NewInvoiceRegister(env Env) *InvoiceRegister {
	return &InvoiceRegister{env: env.withDefaults()}
}

func (x *InvoiceRegister) Type() models.FileType { return models.FileTypeInvoiceList }

func (x *InvoiceRegister) Extract(wb *models.Workbook) (*models.ParseResult, error) {
	sheets := layout.BySize(wb)
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	sheet := sheets[0]
	t := x.env.Thresholds
	now := x.env.now()

	hdr := layout.FindHeaderRow(sheet, invoiceHeaderSignals, t.HeaderScanRows)
	cols := layout.MapColumns(sheet.Row(hdr), invoiceSchema).WithDefaults(invoicePositional)

	data := &models.InvoiceData{Items: []models.InvoiceItem{}, SheetSubtotals: []models.Subtotal{}}
	var total, positive, negative coerce.Total
	currencies := map[string]bool{}

	for i := hdr + 1; i < len(sheet.Rows); i++ {
		row := sheet.Rows[i]
		if layout.IsBlankRow(row) {
			continue
		}
		if s, ok := layout.SummaryRow(row, t); ok {
			if s.Value != nil {
				data.SheetSubtotals = append(data.SheetSubtotals, models.Subtotal{
					RowIndex: i + 1,
					Label:    ptr(s.Label),
					Amount:   *s.Value,
				})
			}
			continue
		}

		get := func(field string) models.Cell { return cols.Cell(row, field) }
		item := models.InvoiceItem{
			Reference:     coerce.OptionalRef(get("reference")),
			DocDate:       coerce.OptionalDate(get("doc_date")),
			DueDate:       coerce.OptionalDate(get("due_date")),
			Currency:      coerce.Clean(get("currency")),
			Amount:        coerce.OptionalAmount(get("amount")),
			ReferenceKey3: coerce.Optional(get("reference_key3")),
			Text:          coerce.Optional(get("text")),
			Assignment:    coerce.Optional(get("assignment")),
		}
		if item.Amount == nil && item.Reference == nil {
			continue
		}
		// Amount-only rows are running totals between register blocks.
		if item.Reference == nil && item.DocDate == nil && item.DueDate == nil &&
			item.Text == nil && item.Assignment == nil {
			if item.Amount != nil {
				data.SheetSubtotals = append(data.SheetSubtotals, models.Subtotal{RowIndex: i + 1, Amount: *item.Amount})
			}
			continue
		}
		if item.Currency == "" {
			item.Currency = "USD"
		}
		item.DaysLate = daysLate(item.DueDate, now)

		if item.Amount != nil {
			a := *item.Amount
			total.Add(a)
			if a > 0 {
				positive.Add(a)
			} else if a < 0 {
				negative.Add(a)
			}
		}
		currencies[item.Currency] = true
		data.Items = append(data.Items, item)
	}

	data.Totals = models.InvoiceTotals{
		TotalAmount:   total.Value(),
		TotalPositive: positive.Value(),
		TotalNegative: negative.Value(),
		ItemCount:     len(data.Items),
	}

	res := models.NewResult(models.FileTypeInvoiceList, x.env.Filename)
	res.Metadata["source_sheet"] = sheet.Name
	res.Metadata["total_items"] = len(data.Items)
	res.Metadata["currencies"] = sortedKeys(currencies)
	res.Invoices = data
	res.AllSheets = wb.SheetNames()
	return res, nil
}
