package models

// ShopVisitEvent is one row of an engine event history report.
type ShopVisitEvent struct {
	PartNumber    *string  `json:"part_number"`
	SerialNumber  string   `json:"serial_number"`
	EventDate     *Date    `json:"event_datetime"`
	Operator      *string  `json:"operator"`
	ParentSerial  *string  `json:"parent_serial"`
	Registration  *string  `json:"registration"`
	ActionCode    *string  `json:"action_code"`
	ReworkLevel   *string  `json:"rework_level"`
	ServiceEvent  *string  `json:"service_event"`
	HSN           *float64 `json:"hsn"`
	CSN           *float64 `json:"csn"`
	HSSV          *float64 `json:"hssv"`
	CSSV          *float64 `json:"cssv"`
	ShopVisitType *string  `json:"sv_type"`
	Location      *string  `json:"sv_location"`
}

// ShopVisitStats aggregates a history report.
type ShopVisitStats struct {
	TotalShopVisits     int            `json:"total_shop_visits"`
	TotalMaintenance    int            `json:"total_maintenance"`
	TotalEnginesTracked int            `json:"total_engines_tracked"`
	ShopVisitTypes      map[string]int `json:"sv_types"`
	Locations           map[string]int `json:"sv_locations"`
}

// ShopVisitData is the SHOP_VISIT_HISTORY payload of a ParseResult.
type ShopVisitData struct {
	ShopVisits         []ShopVisitEvent `json:"shop_visits"`
	MaintenanceActions []ShopVisitEvent `json:"maintenance_actions"`
	CurrentStatus      []ShopVisitEvent `json:"current_status"`
	Statistics         ShopVisitStats   `json:"statistics"`
}

// Claim is one credit note of a guarantee claims summary.
type Claim struct {
	Date            *Date    `json:"date"`
	Year            *int     `json:"year"`
	CreditRef       *string  `json:"credit_ref"`
	Guarantee       *string  `json:"guarantee"`
	CreditValue     *float64 `json:"credit_value"`
	CumulativeValue *float64 `json:"cumulative_value"`
}

// GuaranteeEvent is one disruption event entered against a guarantee.
type GuaranteeEvent struct {
	EventType         *string  `json:"event_type"`
	Date              *Date    `json:"date"`
	EngineSerial      *string  `json:"engine_serial"`
	Aircraft          *string  `json:"aircraft"`
	TSNTSR            *float64 `json:"tsn_tsr"`
	CSNCSR            *float64 `json:"csn_csr"`
	Description       *string  `json:"description"`
	Qualification     *string  `json:"qualification"`
	Justification     *string  `json:"justification"`
	RRInput           *string  `json:"rr_input"`
	RRJustification   *string  `json:"rr_justification"`
	GuaranteeCoverage *string  `json:"guarantee_coverage"`
	Comments          *string  `json:"comments"`
}

// ClaimsSummary is the parsed CLAIMS SUMMARY sheet.
type ClaimsSummary struct {
	Claims           []Claim `json:"claims"`
	TotalClaims      int     `json:"total_claims"`
	TotalCreditValue float64 `json:"total_credit_value"`
}

// EventEntries is the parsed EVENT ENTRY sheet.
type EventEntries struct {
	Events         []GuaranteeEvent `json:"events"`
	TotalEvents    int              `json:"total_events"`
	Qualifications map[string]int   `json:"qualifications"`
	GuaranteeTypes map[string]int   `json:"guarantee_types"`
}

// SheetShape is the populated extent of a sheet.
type SheetShape struct {
	RowCount int `json:"row_count"`
	ColCount int `json:"col_count"`
}

// GuaranteeData is the SVRG_MASTER payload of a ParseResult.
type GuaranteeData struct {
	ClaimsSummary   ClaimsSummary         `json:"claims_summary"`
	EventEntries    EventEntries          `json:"event_entries"`
	AvailableSheets map[string]SheetShape `json:"available_sheets"`
}

// GenericSheet is the best-effort extraction of one unrecognised sheet.
type GenericSheet struct {
	Headers []string          `json:"headers"`
	Rows    []map[string]Cell `json:"rows"`
	// RowCount is len(Rows).
	RowCount int `json:"row_count"`
	// DataRange is the populated range in A1 notation, e.g. "A1:D10". It is
	// empty for sheets too sparse to be a table.
	DataRange string `json:"data_range,omitempty"`
}

// GenericData is the UNKNOWN / fallback payload of a ParseResult.
type GenericData struct {
	Sheets map[string]GenericSheet `json:"sheets"`
}
