package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/coerce"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/layout"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
)

// statementSchema lists statement columns in claim priority order. The
// order is also the positional layout used when no header row is found.
var statementSchema = layout.Schema{
	layout.Aliases("company_code", "company code", "co code", "company"),
	layout.Aliases("account", "account"),
	layout.Aliases("reference", "reference", "ref no", "doc no", "document no", "invoice no"),
	layout.Aliases("doc_date", "document date", "doc date", "posting date", "inv date"),
	layout.Aliases("due_date", "net due date", "due date", "payment date", "net due"),
	layout.Aliases("amount", "amount in doc", "amount", "balance", "value"),
	layout.Aliases("currency", "curr", "currency"),
	layout.Aliases("text", "text", "description", "narrative", "detail"),
	layout.Aliases("assignment", "assignment", "assign", "reference key 1", "ref key 1"),
	layout.Aliases("rr_comments", "r-r comments", "rr comments", "rr note", "comments"),
	layout.Aliases("action_owner", "action owner", "action", "awaiting approval", "owner"),
	layout.Aliases("days_late", "days late", "days overdue", "overdue days"),
	layout.Aliases("customer_comments", "eth comments", "customer comments", "airline comments", "customer note"),
	layout.Aliases("po_reference", "eth po reference", "eth po", "po reference", "po ref", "purchase order", "po number"),
	layout.Aliases("lpi_cumulated", "lpi cumulated", "lpi cum", "cumulated lpi"),
	layout.Aliases("status", "status"),
}

// status has no fixed position.
var statementPositional = statementSchema[:len(statementSchema)-1].Positional()

var statementConfirm = []string{"customer name", "lpi rate", "totalcare", "amount in doc"}

var statusKeywords = []string{
	"ready for payment", "under approval", "under review",
	"dispute", "ongoing", "et to process", "payment pending",
	"invoice sent", "credit note", "approved",
	"transfer", "invoice approved", "pending for payment",
}

var customerNumberPattern = regexp.MustCompile(`customer\s+n[oº°]`)

// Statement extracts statements of account: blocks of open items under
// section titles, each closed by summary rows.
type Statement struct {
	env Env
}

// NewStatement returns a statement extractor.
func NewStatement(env Env) *Statement {
	return &Statement{env: env.withDefaults()}
}

func (x *Statement) Type() models.FileType { return models.FileTypeSOA }

func (x *Statement) Extract(wb *models.Workbook) (*models.ParseResult, error) {
	sheet := x.primarySheet(wb)
	if sheet == nil {
		return nil, ErrNoSheets
	}
	t := x.env.Thresholds
	log := x.env.logger().With("file", x.env.Filename, "sheet", sheet.Name)

	res := models.NewResult(models.FileTypeSOA, x.env.Filename)
	meta := x.metadata(sheet)
	for k, v := range meta {
		res.Metadata[k] = v
	}
	anchor := x.env.now()
	if d, ok := meta["report_date"].(string); ok {
		if rd, err := time.Parse(time.DateOnly, d); err == nil {
			anchor = rd
		}
	}

	cols := layout.ColumnMap{}.WithDefaults(statementPositional)
	headerIdx, hasHeader := layout.FirstHeaderRow(sheet, t)
	if hasHeader {
		cols = layout.MapColumns(sheet.Rows[headerIdx], statementSchema).WithDefaults(statementPositional)
	}
	leadTitle := leadingTitleRow(sheet, t, headerIdx)

	var (
		sections     []models.Section
		current      *models.Section
		grandOverdue *float64
	)
	flush := func() {
		if current != nil {
			sections = append(sections, *current)
			current = nil
		}
	}

	for i, row := range sheet.Rows {
		if layout.IsBlankRow(row) {
			continue
		}
		if s, ok := layout.SummaryRow(row, t); ok {
			switch {
			case s.Value == nil:
			case s.IsGrandTotal():
				grandOverdue = s.Value
			case current == nil:
				log.Debug("dropping summary row outside any block", "row", i+1, "label", s.Label)
			default:
				applySummary(current, s)
			}
			continue
		}
		if title, ok := layout.SectionTitle(row, t, layout.SectionKeywords); ok {
			if i <= headerIdx && i != leadTitle {
				continue
			}
			flush()
			current = &models.Section{
				Name:        strings.TrimSpace(title),
				SectionType: sectionType(title),
				Items:       []models.StatementItem{},
			}
			continue
		}
		if layout.IsHeaderRow(row, t) {
			cols = layout.MapColumns(row, statementSchema).WithDefaults(statementPositional)
			continue
		}
		if !isStatementLine(row, cols) {
			continue
		}
		if current == nil {
			current = &models.Section{Name: "General", SectionType: "charges", Items: []models.StatementItem{}}
		}
		current.Items = append(current.Items, statementItem(row, cols, anchor))
	}
	flush()

	data := &models.StatementData{
		Sections:     sections,
		SummarySheet: summarySheet(wb),
	}
	if data.Sections == nil {
		data.Sections = []models.Section{}
	}
	for i := range data.Sections {
		sec := &data.Sections[i]
		if sec.Total == nil {
			var sum coerce.Total
			for _, it := range sec.Items {
				sum.Add(*it.Amount)
			}
			sec.Total = ptr(sum.Value())
			sec.TotalSource = "computed"
		}
	}
	data.GrandTotals = grandTotals(data.Sections, grandOverdue)
	data.AgingBuckets = agingBuckets(data.Sections)

	res.Statement = data
	res.AllSheets = wb.SheetNames()
	return res, nil
}

// leadingTitleRow returns the row of the section title to honor at or above
// the header row, or -1. Titles above the header are report banners unless
// no section title follows the header, in which case the last one names the
// first block.
func leadingTitleRow(sheet *models.Sheet, t layout.Thresholds, headerIdx int) int {
	lead := -1
	for i, row := range sheet.Rows {
		if _, ok := layout.SummaryRow(row, t); ok {
			continue
		}
		if _, ok := layout.SectionTitle(row, t, layout.SectionKeywords); !ok {
			continue
		}
		if i > headerIdx {
			return -1
		}
		lead = i
	}
	return lead
}

// primarySheet prefers sheets named like "SOA" (but not a summary), then
// falls back to the largest sheets; the first candidate mentioning a
// confirmation keyword wins.
func (x *Statement) primarySheet(wb *models.Workbook) *models.Sheet {
	var candidates []*models.Sheet
	for _, s := range wb.Sheets {
		name := strings.ToLower(s.Name)
		if strings.Contains(name, "soa") && !strings.Contains(name, "summary") {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		candidates = layout.BySize(wb)
	}
	if len(candidates) == 0 {
		return nil
	}
	for _, s := range candidates {
		if layout.ContainsAny(layout.SheetText(s, x.env.Thresholds.HeaderScanRows), statementConfirm) {
			return s
		}
	}
	return candidates[0]
}

func (x *Statement) metadata(sheet *models.Sheet) models.Metadata {
	t := x.env.Thresholds
	meta := models.Metadata{
		"title":           nil,
		"customer_name":   nil,
		"customer_number": nil,
		"contact_email":   nil,
		"lpi_rate":        nil,
		"report_date":     nil,
		"avg_days_late":   nil,
		"source_sheet":    sheet.Name,
	}
	for i, row := range sheet.Rows {
		if i >= t.MetadataScanRows {
			break
		}
		for j, c := range row {
			if coerce.IsBlank(c) {
				continue
			}
			text := coerce.Clean(c)
			low := strings.ToLower(text)
			switch {
			case strings.Contains(low, "statement of account"):
				meta["title"] = text
			case strings.Contains(low, "customer name"):
				if meta["customer_name"] == nil {
					if v, ok := layout.LookRight(row, j, t.LookRightSpan); ok {
						meta["customer_name"] = coerce.Clean(v)
					}
				}
			case customerNumberPattern.MatchString(low):
				if v, ok := layout.LookRight(row, j, t.LookRightSpan); ok {
					meta["customer_number"] = coerce.Clean(v)
				}
			case strings.Contains(low, "contact email"):
				if v, ok := layout.LookRight(row, j, t.LookRightSpan); ok {
					meta["contact_email"] = coerce.Clean(v)
				}
			case strings.Contains(low, "lpi rate"):
				v, ok := layout.ScanRight(row, j, t.LookRightSpan, func(c models.Cell) bool {
					_, ok := coerce.ToPercent(c)
					return ok
				})
				if ok {
					meta["lpi_rate"], _ = coerce.ToPercent(v)
				}
			case strings.Contains(low, "today"), strings.Contains(low, "report date"):
				if d, ok := firstDateRight(row, j, t.LookRightSpan); ok {
					meta["report_date"] = models.NewDate(d).String()
				}
			case strings.Contains(low, "average days late"), strings.Contains(low, "avg days late"):
				if f, ok := firstAmountRight(row, j, t.LookRightSpan); ok {
					meta["avg_days_late"] = coerce.Round2(f)
				}
			}
		}
	}
	return meta
}

func applySummary(sec *models.Section, s layout.Summary) {
	switch s.Label {
	case layout.LabelTotal, layout.LabelSums:
		sec.Total = s.Value
		sec.TotalSource = "summary"
	case layout.LabelOverdue:
		sec.Overdue = s.Value
	case layout.LabelAvailableCredit:
		sec.AvailableCredit = s.Value
	case layout.LabelNetBalance:
		sec.NetBalance = s.Value
	}
}

// isStatementLine: a numeric company code plus an amount, or a reference
// plus an amount.
func isStatementLine(row models.Row, cols layout.ColumnMap) bool {
	if _, ok := coerce.ToAmount(cols.Cell(row, "amount")); !ok {
		return false
	}
	if _, ok := coerce.ToAmount(cols.Cell(row, "company_code")); ok {
		return true
	}
	return !coerce.IsBlank(cols.Cell(row, "reference"))
}

func statementItem(row models.Row, cols layout.ColumnMap, anchor time.Time) models.StatementItem {
	get := func(field string) models.Cell { return cols.Cell(row, field) }
	item := models.StatementItem{
		CompanyCode:      coerce.OptionalRef(get("company_code")),
		Account:          coerce.OptionalRef(get("account")),
		Reference:        coerce.OptionalRef(get("reference")),
		DocDate:          coerce.OptionalDate(get("doc_date")),
		DueDate:          coerce.OptionalDate(get("due_date")),
		Amount:           coerce.OptionalAmount(get("amount")),
		Currency:         coerce.Clean(get("currency")),
		Text:             coerce.Optional(get("text")),
		Assignment:       coerce.Optional(get("assignment")),
		RRComments:       coerce.Optional(get("rr_comments")),
		ActionOwner:      coerce.Optional(get("action_owner")),
		DaysLate:         coerce.OptionalInt(get("days_late")),
		CustomerComments: coerce.Optional(get("customer_comments")),
		POReference:      coerce.Optional(get("po_reference")),
		LPICumulated:     coerce.OptionalAmount(get("lpi_cumulated")),
		Status:           coerce.Optional(get("status")),
		EntryType:        "Charge",
	}
	if item.Currency == "" {
		item.Currency = "USD"
	}
	if item.DaysLate == nil && item.DueDate != nil {
		item.DaysLate = daysLate(item.DueDate, anchor)
		item.DaysLateDerived = true
	}
	if item.Status == nil {
		item.Status = deriveStatus(item.RRComments, item.ActionOwner, item.CustomerComments)
	}
	if *item.Amount < 0 {
		item.EntryType = "Credit"
	}
	return item
}

// deriveStatus picks the first comment mentioning a workflow keyword, else
// the issuer's comment.
func deriveStatus(rrComments, actionOwner, customerComments *string) *string {
	for _, v := range []*string{rrComments, actionOwner, customerComments} {
		if v != nil && layout.ContainsAny(strings.ToLower(*v), statusKeywords) {
			return v
		}
	}
	return rrComments
}

func sectionType(name string) string {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "credit"):
		return "credits"
	case strings.Contains(n, "totalcare"):
		return "totalcare"
	case strings.Contains(n, "spare"), strings.Contains(n, "parts"):
		return "spare_parts"
	case strings.Contains(n, "late payment"), strings.Contains(n, "lpi"), strings.Contains(n, "interest"):
		return "lpi"
	case strings.Contains(n, "customer respon"), strings.Contains(n, "crc"):
		return "crc"
	}
	return "charges"
}

func grandTotals(sections []models.Section, overdue *float64) models.StatementTotals {
	var charges, credits, net, sectionOverdue coerce.Total
	for _, sec := range sections {
		if sec.Overdue != nil && *sec.Overdue > 0 {
			sectionOverdue.Add(*sec.Overdue)
		}
		for _, it := range sec.Items {
			a := *it.Amount
			net.Add(a)
			switch {
			case a > 0:
				charges.Add(a)
			case a < 0:
				credits.Add(a)
			}
		}
	}
	if overdue == nil && sectionOverdue.Value() != 0 {
		overdue = ptr(sectionOverdue.Value())
	}
	return models.StatementTotals{
		TotalOverdue: overdue,
		TotalCharges: charges.Value(),
		TotalCredits: credits.Value(),
		NetBalance:   net.Value(),
		ItemCount:    net.Count(),
	}
}

// summarySheet reads label/value pairs from the first sheet named like a
// summary: the first non-blank cell is the label, the last the value.
func summarySheet(wb *models.Workbook) map[string]float64 {
	out := map[string]float64{}
	s := findSheet(wb, "summary")
	if s == nil {
		return out
	}
	for _, row := range s.Rows {
		cols := layout.NonBlank(row)
		if len(cols) < 2 {
			continue
		}
		label := coerce.Clean(row[cols[0]])
		if v, ok := coerce.ToAmount(row[cols[len(cols)-1]]); ok && label != "" {
			out[label] = v
		}
	}
	return out
}

func agingBuckets(sections []models.Section) models.AgingBuckets {
	var current, d30, d60, d90, d180, over coerce.Total
	for _, sec := range sections {
		for _, it := range sec.Items {
			a := *it.Amount
			if a <= 0 {
				continue
			}
			switch d := it.DaysLate; {
			case d == nil || *d <= 0:
				current.Add(a)
			case *d <= 30:
				d30.Add(a)
			case *d <= 60:
				d60.Add(a)
			case *d <= 90:
				d90.Add(a)
			case *d <= 180:
				d180.Add(a)
			default:
				over.Add(a)
			}
		}
	}
	return models.AgingBuckets{
		Current:     current.Value(),
		Days1To30:   d30.Value(),
		Days31To60:  d60.Value(),
		Days61To90:  d90.Value(),
		Days91To180: d180.Value(),
		Over180:     over.Value(),
	}
}
