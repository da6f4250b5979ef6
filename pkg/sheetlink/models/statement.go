package models

// StatementItem is one open line of a statement of account.
type StatementItem struct {
	// CompanyCode is the issuing company code.
	CompanyCode *string `json:"company_code"`
	// Account is the customer account number.
	Account *string `json:"account"`
	// Reference is the document or invoice reference.
	Reference *string `json:"reference"`
	// DocDate is the document date.
	DocDate *Date `json:"doc_date"`
	// DueDate is the net due date.
	DueDate *Date `json:"due_date"`
	// Amount is signed; negative values are credits.
	Amount *float64 `json:"amount"`
	// Currency defaults to USD when the column is blank.
	Currency string `json:"currency"`
	// Text is the line description.
	Text *string `json:"text"`
	// Assignment is the assignment / reference key 1 value.
	Assignment *string `json:"assignment"`
	// RRComments holds the issuer's comments.
	RRComments *string `json:"rr_comments"`
	// ActionOwner is who must act next.
	ActionOwner *string `json:"action_owner"`
	// DaysLate is read from the sheet, or derived from DueDate.
	DaysLate *int `json:"days_late"`
	// DaysLateDerived is true when DaysLate was computed.
	DaysLateDerived bool `json:"days_late_derived,omitempty"`
	// CustomerComments holds the customer's comments.
	CustomerComments *string `json:"customer_comments"`
	// POReference is the customer purchase order reference.
	POReference *string `json:"po_reference"`
	// LPICumulated is the accumulated late payment interest.
	LPICumulated *float64 `json:"lpi_cumulated"`
	// Status is derived from the comment columns.
	Status *string `json:"status"`
	// EntryType is "Credit" for negative amounts, "Charge" otherwise.
	EntryType string `json:"entry_type"`
}

// Section is a block of statement lines under one section title.
type Section struct {
	// Name is the section title as it appears in the sheet.
	Name string `json:"name"`
	// SectionType classifies the block (credits, totalcare, spare_parts, lpi, crc, charges).
	SectionType string `json:"section_type"`
	// Items are the block's lines in sheet order.
	Items []StatementItem `json:"items"`
	// Total is read from the block's summary row, or computed from Items.
	Total *float64 `json:"total"`
	// TotalSource is "summary" or "computed".
	TotalSource string `json:"total_source"`
	// Overdue is read from an "Overdue" summary row.
	Overdue *float64 `json:"overdue"`
	// AvailableCredit is read from an "Available Credit" summary row.
	AvailableCredit *float64 `json:"available_credit"`
	// NetBalance is read from a "Net Balance" summary row.
	NetBalance *float64 `json:"net_balance,omitempty"`
}

// StatementTotals are the file-level aggregates of a statement.
type StatementTotals struct {
	TotalOverdue *float64 `json:"total_overdue"`
	TotalCharges float64  `json:"total_charges"`
	TotalCredits float64  `json:"total_credits"`
	NetBalance   float64  `json:"net_balance"`
	ItemCount    int      `json:"item_count"`
}

// AgingBuckets sums positive amounts by days late.
type AgingBuckets struct {
	Current     float64 `json:"current"`
	Days1To30   float64 `json:"1_30_days"`
	Days31To60  float64 `json:"31_60_days"`
	Days61To90  float64 `json:"61_90_days"`
	Days91To180 float64 `json:"91_180_days"`
	Over180     float64 `json:"over_180_days"`
}

// StatementData is the SOA payload of a ParseResult.
type StatementData struct {
	Sections     []Section          `json:"sections"`
	GrandTotals  StatementTotals    `json:"grand_totals"`
	SummarySheet map[string]float64 `json:"summary_sheet"`
	AgingBuckets AgingBuckets       `json:"aging_buckets"`
}
