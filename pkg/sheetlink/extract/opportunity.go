package extract

import (
	"fmt"
	"strings"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/coerce"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/layout"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
)

var oppHeaderSignals = []string{
	"#", "project", "programme", "customer", "region", "asks",
	"type of opportunity", "priority", "status", "term benefit",
	"external probability", "internal complexity",
}

var oppCoreSchema = layout.Schema{
	layout.Aliases("number", "#"),
	layout.Aliases("project", "project"),
	layout.Aliases("programme", "programme", "program"),
	layout.Aliases("customer", "customer"),
	layout.Aliases("region", "region"),
	layout.Aliases("asks", "asks"),
	layout.Aliases("opportunity_type", "type of opportunity"),
	layout.Aliases("levers", "levers"),
	layout.Aliases("priority", "priority"),
	layout.Aliases("spe_related", "spe related"),
	layout.Aliases("num_spe", "no,of spe", "no. of spe", "no of spe"),
	layout.Aliases("crp_pct", "crp%", "crp %"),
	layout.Aliases("ext_probability", "external probability"),
	layout.Aliases("int_complexity", "internal complexity"),
	layout.Aliases("status", "status"),
	layout.Aliases("evaluation_level", "evaluation level"),
	layout.Aliases("term_benefit", "term benefit"),
	layout.Aliases("benefit_2026", "2026"),
	layout.Aliases("benefit_2027", "2027"),
	layout.Aliases("sum_26_27", "sum of 26/27"),
}

var oppSupportSchema = layout.Schema{
	layout.Aliases("deal_benefits", "deal benefits"),
	layout.Aliases("expected_deal_costs", "expected deal costs"),
	layout.Aliases("inyear_profit_impact", "in-year profit impact", "in year profit impact"),
	layout.Aliases("fyp_profit_improvement", "5yp profit improvement", "5yp improvement"),
	layout.Aliases("term_profit_improvement", "term profit impr"),
	layout.Aliases("total_crp_term_revenue", "total crp term rev"),
	layout.Aliases("total_crp_term_margin", "total crp term margin"),
	layout.Aliases("crp_margin_pct", "crp margin %"),
}

var oppToGoSchema = layout.Schema{
	layout.Aliases("togo_term_revenue", "term revenue"),
	layout.Aliases("togo_term_cost", "term cost"),
	layout.Aliases("togo_term_profit", "term profit"),
}

var oppResourceSchema = layout.Schema{
	layout.Aliases("res_account_mgmt", "account management"),
	layout.Aliases("res_contract_mgmt", "contract management"),
	layout.Aliases("res_service_business", "service business"),
	layout.Aliases("res_business_evaluation", "business eval"),
	layout.Aliases("res_sales_contracting", "sales & contracting", "sales and contracting"),
	layout.Aliases("res_customer_ops", "customer operations"),
}

// financialGroup is a block of six yearly columns in the wide log layout,
// one per financialYears entry.
type financialGroup struct {
	name  string
	start int
}

var financialGroups = []financialGroup{
	{"existing_deal_cash", 25},
	{"existing_deal_profit", 31},
	{"new_deal_cash", 38},
	{"new_deal_profit", 44},
}

var financialYears = []int{2025, 2026, 2027, 2028, 2029, 2030}

var oppLogNames = []string{"l2", "l3", "mea log", "opp log"}

var oppLogContent = []string{"opp log sheet", "type of opportunity"}

// OpportunityTracker extracts the opportunity tracker workbook: one log
// sheet per estimation level plus a set of auxiliary sheets.
type OpportunityTracker struct {
	env Env
}

// NewOpportunityTracker returns an opportunity tracker extractor.
func NewOpportunityTracker(env Env) *OpportunityTracker {
	return &OpportunityTracker{env: env.withDefaults()}
}

func (x *OpportunityTracker) Type() models.FileType { return models.FileTypeOpportunityTracker }

func (x *OpportunityTracker) Extract(wb *models.Workbook) (*models.ParseResult, error) {
	if len(wb.Sheets) == 0 {
		return nil, ErrNoSheets
	}
	res := models.NewResult(models.FileTypeOpportunityTracker, x.env.Filename)
	res.Metadata["away_day_date"] = nil
	res.Metadata["exchange_rate"] = nil
	res.Metadata["report_title"] = nil

	data := &models.OpportunityData{
		Opportunities: map[string][]models.Opportunity{},
		ByLevel:       map[string]models.OpportunitySheet{},
		Timeline:      models.Timeline{Milestones: []models.Milestone{}},
	}

	logs := x.logSheets(wb)
	if len(logs) > 0 {
		x.logMetadata(logs[0], res.Metadata)
	}

	var parsed []models.OpportunitySheet
	for _, s := range logs {
		var sheet models.OpportunitySheet
		err := safely(func() { sheet = x.parseLogSheet(s) })
		if err != nil {
			res.AddError("Failed to parse opp sheet '%s': %v", s.Name, err)
			continue
		}
		if len(sheet.Records) == 0 {
			continue
		}
		parsed = append(parsed, sheet)
	}

	sheetsParsed := make([]string, 0, len(parsed))
	levels := map[string]any{}
	for _, sheet := range parsed {
		sheetsParsed = append(sheetsParsed, sheet.SheetName)
		levels[sheet.SheetName] = sheet.EstimationLevel
		data.Opportunities[sheet.SheetName] = sheet.Records
		data.ByLevel[levelKey(data.ByLevel, sheet)] = sheet
	}
	data.Summary = summarize(parsed)

	x.auxiliary(wb, data, res)
	if data.Cover != nil && data.Cover.Title != nil {
		res.Metadata["report_title"] = *data.Cover.Title
	}

	res.Metadata["sheets_parsed"] = sheetsParsed
	res.Metadata["estimation_levels"] = levels
	res.Opportunities = data
	res.AllSheets = wb.SheetNames()
	return res, nil
}

// logSheets returns the opportunity log sheets, by name or else by content.
func (x *OpportunityTracker) logSheets(wb *models.Workbook) []*models.Sheet {
	var out []*models.Sheet
	for _, s := range wb.Sheets {
		if layout.ContainsAny(strings.ToLower(s.Name), oppLogNames) {
			out = append(out, s)
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, s := range wb.Sheets {
		if layout.ContainsAny(layout.SheetText(s, x.env.Thresholds.HeaderScanRows), oppLogContent) {
			out = append(out, s)
		}
	}
	return out
}

func (x *OpportunityTracker) logMetadata(s *models.Sheet, meta models.Metadata) {
	t := x.env.Thresholds
	for i, row := range s.Rows {
		if i >= t.MetadataScanRows {
			break
		}
		for j, c := range row {
			if coerce.IsBlank(c) {
				continue
			}
			low := layout.Lower(c)
			switch {
			case strings.Contains(low, "away day date"):
				if d, ok := firstDateRight(row, j, 4); ok {
					meta["away_day_date"] = models.NewDate(d).String()
				}
			case strings.Contains(low, "exchange rate"):
				if f, ok := firstAmountRight(row, j, t.LookRightSpan); ok {
					meta["exchange_rate"] = f
				}
			}
		}
	}
}

// EstimationLevel maps a log sheet name to its maturity stage.
func EstimationLevel(sheetName string) string {
	n := strings.ToLower(strings.TrimSpace(sheetName))
	switch {
	case n == "l2":
		return "ICT"
	case n == "l3":
		return "Contract"
	case strings.Contains(n, "mea log"), strings.Contains(n, "opp log"):
		return "Hopper"
	}
	return "Unknown"
}

// levelKey returns the estimation level, qualified by sheet name when
// another sheet already holds that level.
func levelKey(existing map[string]models.OpportunitySheet, sheet models.OpportunitySheet) string {
	key := sheet.EstimationLevel
	if _, taken := existing[key]; taken {
		key = fmt.Sprintf("%s (%s)", key, sheet.SheetName)
	}
	return key
}

func (x *OpportunityTracker) parseLogSheet(s *models.Sheet) models.OpportunitySheet {
	out := models.OpportunitySheet{
		EstimationLevel: EstimationLevel(s.Name),
		SheetName:       s.Name,
		Sums:            sumsRow(s),
		Records:         []models.Opportunity{},
	}

	hdr := layout.FindHeaderRow(s, oppHeaderSignals, x.env.Thresholds.HeaderScanRows)
	header := s.Row(hdr)
	core := layout.MapColumns(header, oppCoreSchema)
	support := layout.MapColumns(header, oppSupportSchema)
	toGo := layout.MapColumns(header, oppToGoSchema)
	resource := layout.MapColumns(header, oppResourceSchema)

	for i := hdr + 1; i < len(s.Rows); i++ {
		row := s.Rows[i]
		if layout.IsBlankRow(row) {
			continue
		}
		num, ok := coerce.ToAmount(core.Cell(row, "number"))
		if !ok {
			continue
		}
		text := func(field string) *string { return coerce.Optional(core.Cell(row, field)) }
		amount := func(field string) *float64 { return coerce.OptionalAmount(core.Cell(row, field)) }

		// Template rows carry a pre-filled number and nothing else.
		project, customer, asks, status := text("project"), text("customer"), text("asks"), text("status")
		if project == nil && customer == nil && asks == nil && status == nil {
			continue
		}
		out.Records = append(out.Records, models.Opportunity{
			Number:               int(num),
			Project:              project,
			Programme:            text("programme"),
			Customer:             customer,
			Region:               text("region"),
			Asks:                 asks,
			OpportunityType:      text("opportunity_type"),
			Levers:               text("levers"),
			Priority:             amount("priority"),
			SPERelated:           text("spe_related"),
			NumSPE:               amount("num_spe"),
			CRPPct:               amount("crp_pct"),
			ExtProbability:       text("ext_probability"),
			IntComplexity:        text("int_complexity"),
			Status:               status,
			EvaluationLevel:      text("evaluation_level"),
			TermBenefit:          amount("term_benefit"),
			Benefit2026:          amount("benefit_2026"),
			Benefit2027:          amount("benefit_2027"),
			Sum2627:              amount("sum_26_27"),
			Financials:           financials(row),
			SupportingFinancials: amounts(row, support, oppSupportSchema),
			ToGo:                 amounts(row, toGo, oppToGoSchema),
			ResourcePriority:     amounts(row, resource, oppResourceSchema),
		})
	}
	return out
}

// sumsRow reads the pre-computed SUMS row near the top of a log sheet.
func sumsRow(s *models.Sheet) *models.OpportunitySums {
	for i := 0; i < 15 && i < len(s.Rows); i++ {
		row := s.Rows[i]
		for _, c := range row {
			if coerce.IsBlank(c) || !strings.Contains(strings.ToUpper(coerce.Clean(c)), "SUMS") {
				continue
			}
			return &models.OpportunitySums{
				TermBenefitSum: coerce.OptionalAmount(row.At(18)),
				Sum2026:        coerce.OptionalAmount(row.At(19)),
				Sum2027:        coerce.OptionalAmount(row.At(20)),
				Sum2627:        coerce.OptionalAmount(row.At(21)),
			}
		}
	}
	return nil
}

func financials(row models.Row) map[string]models.YearValues {
	out := make(map[string]models.YearValues, len(financialGroups))
	for _, g := range financialGroups {
		years := make(models.YearValues, len(financialYears))
		for offset, year := range financialYears {
			years[fmt.Sprintf("yr_%d", year)] = coerce.OptionalAmount(row.At(g.start + offset))
		}
		out[g.name] = years
	}
	return out
}

// amounts reads every schema field as an amount; unmapped fields are nil.
func amounts(row models.Row, cols layout.ColumnMap, schema layout.Schema) map[string]*float64 {
	out := make(map[string]*float64, len(schema))
	for _, field := range schema.Fields() {
		out[field] = coerce.OptionalAmount(cols.Cell(row, field))
	}
	return out
}

func summarize(sheets []models.OpportunitySheet) models.OpportunitySummary {
	sum := models.OpportunitySummary{
		ByStatus:            map[string]int{},
		ByProgramme:         map[string]int{},
		ByCustomer:          map[string]int{},
		ByOpportunityType:   map[string]int{},
		EstimationLevelSums: map[string]models.LevelSums{},
	}
	orUnknown := func(s *string) string {
		if s == nil {
			return "Unknown"
		}
		return *s
	}
	add := func(t *coerce.Total, v *float64) {
		if v != nil {
			t.Add(*v)
		}
	}

	var termBenefit coerce.Total
	for _, sheet := range sheets {
		var term, y26, y27, y2627 coerce.Total
		for _, r := range sheet.Records {
			sum.TotalOpportunities++
			sum.ByStatus[orUnknown(r.Status)]++
			sum.ByProgramme[orUnknown(r.Programme)]++
			sum.ByCustomer[orUnknown(r.Customer)]++
			sum.ByOpportunityType[orUnknown(r.OpportunityType)]++
			add(&termBenefit, r.TermBenefit)
			add(&term, r.TermBenefit)
			add(&y26, r.Benefit2026)
			add(&y27, r.Benefit2027)
			add(&y2627, r.Sum2627)
		}
		key := sheet.EstimationLevel
		if _, taken := sum.EstimationLevelSums[key]; taken {
			key = fmt.Sprintf("%s (%s)", key, sheet.SheetName)
		}
		sum.EstimationLevelSums[key] = models.LevelSums{
			SheetName:        sheet.SheetName,
			Count:            len(sheet.Records),
			TotalTermBenefit: term.Value(),
			Total2026:        y26.Value(),
			Total2027:        y27.Value(),
			TotalSum2627:     y2627.Value(),
			SumsFromSheet:    sheet.Sums,
		}
	}
	sum.TotalTermBenefit = termBenefit.Value()
	return sum
}

// safely runs fn and converts a panic into an error.
func safely(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	fn()
	return nil
}
