package extract

import (
	"strings"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/coerce"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/layout"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
)

var claimSchema = layout.Schema{
	layout.Aliases("date", "date"),
	layout.Aliases("year", "year"),
	layout.Aliases("credit_ref", "credit note reference", "reference"),
	layout.Aliases("guarantee", "guarantee"),
	layout.Aliases("credit_value", "credit note value", "value"),
	layout.Aliases("cumulative_value", "cumulative claim value", "cumulative"),
}

var guaranteeEventSchema = layout.Schema{
	layout.Aliases("event_type", "event type", "#", "type"),
	layout.Aliases("date", "date"),
	layout.Aliases("engine_serial", "engine serial no", "esn", "serial"),
	layout.Aliases("aircraft", "a/c no", "aircraft", "a/c"),
	layout.Aliases("tsn_tsr", "tsn or tsr", "tsn", "hours"),
	layout.Aliases("csn_csr", "csn or csr", "csn", "cycles"),
	layout.Aliases("description", "cause of event", "description", "disruption"),
	layout.Aliases("qualification", "qualified/non-qualified", "qualification", "emirates input"),
	layout.Aliases("justification", "justification", "emirates - justification"),
	layout.Aliases("rr_input", "rr input", "rr qualification"),
	layout.Aliases("rr_justification", "rr - justification", "rr justification"),
	layout.Aliases("guarantee_coverage", "guarantee coverage", "coverage"),
	layout.Aliases("comments", "further comments", "comments"),
}

var (
	menuCustomerHints = []string{"emirates", "singapore", "airline"}
	menuEngineHints   = []string{"trent", "t900"}
)

// guaranteeSkipSheets are workbook plumbing sheets left out of
// available_sheets.
var guaranteeSkipSheets = map[string]bool{
	"menu": true, "event entry": true, "claims summary": true,
	"chart1": true, "chart2": true, "descriptions": true, "sheet3": true,
}

const menuScanRows = 10

// Guarantee extracts guarantee-administration (SVRG) master workbooks.
type Guarantee struct {
	env Env
}

// NewGuarantee returns a guarantee master extractor.
func NewGuarantee(env Env) *Guarantee {
	return &Guarantee{env: env.withDefaults()}
}

func (x *Guarantee) Type() models.FileType { return models.FileTypeSVRG }

func (x *Guarantee) Extract(wb *models.Workbook) (*models.ParseResult, error) {
	if len(wb.Sheets) == 0 {
		return nil, ErrNoSheets
	}
	res := models.NewResult(models.FileTypeSVRG, x.env.Filename)
	res.Metadata["customer"] = nil
	res.Metadata["engine_model"] = nil
	if menu := wb.Sheet("menu"); menu != nil {
		menuMetadata(menu, res.Metadata)
	}

	data := &models.GuaranteeData{
		ClaimsSummary:   models.ClaimsSummary{Claims: []models.Claim{}},
		EventEntries:    models.EventEntries{Events: []models.GuaranteeEvent{}},
		AvailableSheets: map[string]models.SheetShape{},
	}
	if s := wb.Sheet("claims summary"); s != nil {
		data.ClaimsSummary.Claims = x.claims(s)
	}
	if s := wb.Sheet("event entry"); s != nil {
		data.EventEntries.Events = x.events(s)
	}

	var credit coerce.Total
	for _, c := range data.ClaimsSummary.Claims {
		if c.CreditValue != nil {
			credit.Add(*c.CreditValue)
		}
	}
	data.ClaimsSummary.TotalClaims = len(data.ClaimsSummary.Claims)
	data.ClaimsSummary.TotalCreditValue = credit.Value()

	events := data.EventEntries.Events
	data.EventEntries.TotalEvents = len(events)
	data.EventEntries.Qualifications = countBy(events, func(e models.GuaranteeEvent) *string { return e.Qualification })
	data.EventEntries.GuaranteeTypes = countBy(events, func(e models.GuaranteeEvent) *string { return e.GuaranteeCoverage })

	for _, s := range wb.Sheets {
		if guaranteeSkipSheets[strings.ToLower(strings.TrimSpace(s.Name))] {
			continue
		}
		data.AvailableSheets[s.Name] = models.SheetShape{RowCount: layout.PopulatedRows(s), ColCount: s.Width()}
	}

	res.Metadata["all_sheets"] = wb.SheetNames()
	res.Guarantee = data
	res.AllSheets = wb.SheetNames()
	return res, nil
}

// menuMetadata takes the first customer-like and engine-like cells of the
// MENU sheet.
func menuMetadata(menu *models.Sheet, md models.Metadata) {
	for i := 0; i < menuScanRows && i < len(menu.Rows); i++ {
		for _, c := range menu.Rows[i] {
			text := coerce.Clean(c)
			if text == "" {
				continue
			}
			low := strings.ToLower(text)
			if md["customer"] == nil && layout.ContainsAny(low, menuCustomerHints) {
				md["customer"] = text
			}
			if md["engine_model"] == nil && layout.ContainsAny(low, menuEngineHints) {
				md["engine_model"] = text
			}
		}
	}
}

// claims keeps rows that carry a date or a non-zero credit value.
func (x *Guarantee) claims(s *models.Sheet) []models.Claim {
	hdr := layout.FindHeaderRow(s, []string{"date", "credit note", "guarantee", "cumulative"}, x.env.Thresholds.HeaderScanRows)
	cols := layout.MapColumns(s.Row(hdr), claimSchema)

	out := []models.Claim{}
	for i := hdr + 1; i < len(s.Rows); i++ {
		row := s.Rows[i]
		get := func(field string) models.Cell { return cols.Cell(row, field) }
		date := coerce.OptionalDate(get("date"))
		value := coerce.OptionalAmount(get("credit_value"))
		if date == nil && (value == nil || *value == 0) {
			continue
		}
		out = append(out, models.Claim{
			Date:            date,
			Year:            coerce.OptionalInt(get("year")),
			CreditRef:       coerce.OptionalRef(get("credit_ref")),
			Guarantee:       coerce.Optional(get("guarantee")),
			CreditValue:     value,
			CumulativeValue: coerce.OptionalAmount(get("cumulative_value")),
		})
	}
	return out
}

// events keeps rows that carry a date, an engine serial or a description.
func (x *Guarantee) events(s *models.Sheet) []models.GuaranteeEvent {
	hdr := layout.FindHeaderRow(s, []string{"date", "engine serial", "a/c", "cause", "qualified"}, x.env.Thresholds.HeaderScanRows)
	cols := layout.MapColumns(s.Row(hdr), guaranteeEventSchema)

	out := []models.GuaranteeEvent{}
	for i := hdr + 1; i < len(s.Rows); i++ {
		row := s.Rows[i]
		get := func(field string) models.Cell { return cols.Cell(row, field) }
		text := func(field string) *string { return coerce.Optional(get(field)) }
		date := coerce.OptionalDate(get("date"))
		serial := coerce.OptionalRef(get("engine_serial"))
		desc := text("description")
		if date == nil && serial == nil && desc == nil {
			continue
		}
		out = append(out, models.GuaranteeEvent{
			EventType:         text("event_type"),
			Date:              date,
			EngineSerial:      serial,
			Aircraft:          text("aircraft"),
			TSNTSR:            coerce.OptionalAmount(get("tsn_tsr")),
			CSNCSR:            coerce.OptionalAmount(get("csn_csr")),
			Description:       desc,
			Qualification:     text("qualification"),
			Justification:     text("justification"),
			RRInput:           text("rr_input"),
			RRJustification:   text("rr_justification"),
			GuaranteeCoverage: text("guarantee_coverage"),
			Comments:          text("comments"),
		})
	}
	return out
}
