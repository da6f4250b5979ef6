package extract

import (
	"strings"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/coerce"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/layout"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
)

var shopVisitSchema = layout.Schema{
	layout.Aliases("part_number", "event item part number", "part number"),
	layout.Aliases("serial_number", "event item serial number", "serial number", "esn"),
	layout.Aliases("event_datetime", "event date time", "event date", "date"),
	layout.Aliases("operator", "operator"),
	layout.Aliases("parent_serial", "parent serial number"),
	layout.Aliases("registration", "parent item registration", "registration"),
	layout.Aliases("action_code", "action code"),
	layout.Aliases("rework_level", "rework level"),
	layout.Aliases("service_event", "service event number"),
	layout.Aliases("hsn", "hsn"),
	layout.Aliases("csn", "csn"),
	layout.Aliases("hssv", "hssv"),
	layout.Aliases("cssv", "cssv"),
	layout.Aliases("sv_type", "shopvisit_type", "shop visit type"),
	layout.Aliases("sv_location", "shopvisit_location", "shop visit location"),
}

var shopVisitHeaderSignals = []string{
	"part number", "serial number", "event date", "operator",
	"action code", "rework level", "csn", "hsn",
}

// noOperator is the placeholder operator of engines between leases.
const noOperator = "NO OPERATOR"

// ShopVisits extracts engine event history reports.
type ShopVisits struct {
	env Env
}

// NewShopVisits returns a shop-visit history extractor.
func NewShopVisits(env Env) *ShopVisits {
	return &ShopVisits{env: env.withDefaults()}
}

func (x *ShopVisits) Type() models.FileType { return models.FileTypeShopVisit }

func (x *ShopVisits) Extract(wb *models.Workbook) (*models.ParseResult, error) {
	if len(wb.Sheets) == 0 {
		return nil, ErrNoSheets
	}
	sheet := findSheet(wb, "report", "page")
	if sheet == nil {
		sheet = wb.Sheets[0]
	}

	hdr := layout.FindHeaderRow(sheet, shopVisitHeaderSignals, x.env.Thresholds.HeaderScanRows)
	cols := layout.MapColumns(sheet.Row(hdr), shopVisitSchema)

	data := &models.ShopVisitData{
		ShopVisits:         []models.ShopVisitEvent{},
		MaintenanceActions: []models.ShopVisitEvent{},
		CurrentStatus:      []models.ShopVisitEvent{},
	}
	for i := hdr + 1; i < len(sheet.Rows); i++ {
		row := sheet.Rows[i]
		if layout.IsBlankRow(row) {
			continue
		}
		ev, ok := shopVisitEvent(row, cols)
		if !ok {
			continue
		}
		action := strings.ToLower(coerce.Clean(cols.Cell(row, "action_code")))
		rework := strings.ToLower(coerce.Clean(cols.Cell(row, "rework_level")))
		switch {
		case strings.Contains(action, "current status") || strings.Contains(rework, "current status"):
			data.CurrentStatus = append(data.CurrentStatus, ev)
		case strings.Contains(rework, "shop visit"):
			data.ShopVisits = append(data.ShopVisits, ev)
		default:
			data.MaintenanceActions = append(data.MaintenanceActions, ev)
		}
	}

	engines := map[string]bool{}
	operators := map[string]bool{}
	for _, group := range [][]models.ShopVisitEvent{data.ShopVisits, data.MaintenanceActions} {
		for _, ev := range group {
			engines[ev.SerialNumber] = true
		}
	}
	for _, ev := range data.ShopVisits {
		if ev.Operator != nil && *ev.Operator != noOperator {
			operators[*ev.Operator] = true
		}
	}

	data.Statistics = models.ShopVisitStats{
		TotalShopVisits:     len(data.ShopVisits),
		TotalMaintenance:    len(data.MaintenanceActions),
		TotalEnginesTracked: len(engines),
		ShopVisitTypes:      countBy(data.ShopVisits, func(ev models.ShopVisitEvent) *string { return ev.ShopVisitType }),
		Locations:           countBy(data.ShopVisits, func(ev models.ShopVisitEvent) *string { return ev.Location }),
	}

	res := models.NewResult(models.FileTypeShopVisit, x.env.Filename)
	res.Metadata["source_sheet"] = sheet.Name
	res.Metadata["engine_models"] = engineModels(data)
	res.Metadata["total_engines"] = len(engines)
	res.Metadata["operators"] = sortedKeys(operators)
	res.ShopVisits = data
	res.AllSheets = wb.SheetNames()
	return res, nil
}

// shopVisitEvent reads one event row. Rows without a serial are not events.
func shopVisitEvent(row models.Row, cols layout.ColumnMap) (models.ShopVisitEvent, bool) {
	get := func(field string) models.Cell { return cols.Cell(row, field) }
	serial, ok := coerce.ToRef(get("serial_number"))
	if !ok {
		return models.ShopVisitEvent{}, false
	}
	return models.ShopVisitEvent{
		PartNumber:    coerce.Optional(get("part_number")),
		SerialNumber:  serial,
		EventDate:     coerce.OptionalDate(get("event_datetime")),
		Operator:      coerce.Optional(get("operator")),
		ParentSerial:  coerce.OptionalRef(get("parent_serial")),
		Registration:  coerce.Optional(get("registration")),
		ActionCode:    coerce.Optional(get("action_code")),
		ReworkLevel:   coerce.Optional(get("rework_level")),
		ServiceEvent:  coerce.OptionalRef(get("service_event")),
		HSN:           coerce.OptionalAmount(get("hsn")),
		CSN:           coerce.OptionalAmount(get("csn")),
		HSSV:          coerce.OptionalAmount(get("hssv")),
		CSSV:          coerce.OptionalAmount(get("cssv")),
		ShopVisitType: coerce.Optional(get("sv_type")),
		Location:      coerce.Optional(get("sv_location")),
	}, true
}

// engineModels takes the first word of each part number of the shop visits,
// or of the current-status rows when there are no shop visits.
func engineModels(data *models.ShopVisitData) []string {
	events := data.ShopVisits
	if len(events) == 0 {
		events = data.CurrentStatus
	}
	set := map[string]bool{}
	for _, ev := range events {
		if ev.PartNumber == nil {
			continue
		}
		if fields := strings.Fields(*ev.PartNumber); len(fields) > 0 {
			set[fields[0]] = true
		}
	}
	return sortedKeys(set)
}

// countBy tallies a field over records, counting missing values as "Unknown".
func countBy[T any](records []T, field func(T) *string) map[string]int {
	counts := map[string]int{}
	for _, r := range records {
		key := "Unknown"
		if v := field(r); v != nil && *v != "" {
			key = *v
		}
		counts[key]++
	}
	return counts
}

