package models

// InvoiceItem is one line of an invoice register.
type InvoiceItem struct {
	Reference     *string  `json:"reference"`
	DocDate       *Date    `json:"doc_date"`
	DueDate       *Date    `json:"due_date"`
	Currency      string   `json:"currency"`
	Amount        *float64 `json:"amount"`
	ReferenceKey3 *string  `json:"reference_key3"`
	Text          *string  `json:"text"`
	Assignment    *string  `json:"assignment"`
	// DaysLate is derived from DueDate against the parse clock.
	DaysLate *int `json:"days_late"`
}

// Subtotal is a running-total row found between register lines.
type Subtotal struct {
	// RowIndex is the 1-based sheet row.
	RowIndex int `json:"row_index"`
	// Label is set when the row carried a summary label such as "Total".
	Label  *string `json:"label,omitempty"`
	Amount float64 `json:"amount"`
}

// InvoiceTotals are recomputed from the register lines.
type InvoiceTotals struct {
	TotalAmount   float64 `json:"total_amount"`
	TotalPositive float64 `json:"total_positive"`
	TotalNegative float64 `json:"total_negative"`
	ItemCount     int     `json:"item_count"`
}

// InvoiceData is the INVOICE_LIST payload of a ParseResult.
type InvoiceData struct {
	Items          []InvoiceItem `json:"items"`
	Totals         InvoiceTotals `json:"totals"`
	SheetSubtotals []Subtotal    `json:"sheet_subtotals"`
}
