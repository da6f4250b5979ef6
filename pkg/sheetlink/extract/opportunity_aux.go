package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/coerce"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/layout"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
)

var yearHeader = regexp.MustCompile(`^(20\d{2})(\.0)?$`)

// auxiliary parses the supporting sheets of the tracker. A failing sheet is
// reported in res.Errors and leaves its section empty.
func (x *OpportunityTracker) auxiliary(wb *models.Workbook, data *models.OpportunityData, res *models.ParseResult) {
	run := func(label string, fn func()) {
		if err := safely(fn); err != nil {
			res.AddError("Failed to parse %s: %v", label, err)
		}
	}

	if s := wb.Sheet("summary"); s != nil {
		run("Summary sheet", func() { data.ProjectSummary = projectSummary(s) })
	}
	for _, s := range wb.Sheets {
		name := strings.ToLower(s.Name)
		if strings.Contains(name, "opps") && strings.Contains(name, "threat") {
			run("Opps and Threats sheet", func() { data.OppsAndThreats = oppsAndThreats(s) })
			break
		}
	}
	run("Timeline/Date Input", func() { data.Timeline = timeline(wb) })
	if s := wb.Sheet("count"); s != nil {
		run("COUNT sheet", func() { data.CustomerAnalytics = customerAnalytics(s) })
	}
	if s := wb.Sheet("input"); s != nil {
		run("INPUT sheet", func() { data.InputConfig = inputConfig(s) })
	}
	if s := wb.Sheet("sum"); s != nil {
		run("SUM sheet", func() { data.Calculator = calculator(s) })
	}
	if s := wb.Sheet("cover"); s != nil {
		run("COVER sheet", func() { data.Cover = cover(s) })
	}
	if s := wb.Sheet("sheet1"); s != nil {
		run("reference data (Sheet1)", func() { data.ReferenceData = referenceData(s) })
	}
}

var projectSummarySchema = layout.Schema{
	layout.Aliases("project", "project"),
	layout.Aliases("customer", "customer"),
	layout.Aliases("programme", "programme", "program"),
	layout.Aliases("kam_pack", "kam pack"),
	layout.Aliases("crp_deep_dive", "crp deep dive"),
	layout.Aliases("risk_review", "risk review"),
	layout.Aliases("contract_dcr", "contract dcr"),
	layout.Aliases("ov_review", "o&v review"),
	layout.Aliases("current_crp_margin", "current crp margin"),
	layout.Aliases("onerous_provision", "onerous provision"),
	layout.Aliases("current_crp_pct", "current crp %"),
	layout.Aliases("onerous_2024", "2024 onerous"),
	layout.Aliases("onerous_2025", "2025 onerous"),
	layout.Aliases("overall_pack_improvement", "overall pack improvement"),
}

// Five-year-plan columns of the Summary sheet.
const (
	fypStartCol = 15
	fypFirstYr  = 2025
	fypYears    = 5
)

func projectSummary(s *models.Sheet) *models.ProjectSummary {
	out := &models.ProjectSummary{Projects: []models.ProjectSummaryRow{}}
	hdr := layout.FindHeaderRow(s, []string{"project", "customer", "programme", "crp", "onerous"}, 5)
	cols := layout.MapColumns(s.Row(hdr), projectSummarySchema)

	var group *string
	for i := hdr + 1; i < len(s.Rows); i++ {
		row := s.Rows[i]
		if layout.IsBlankRow(row) {
			continue
		}
		project := coerce.Optional(cols.Cell(row, "project"))
		if g := cellText(row, 1); strings.EqualFold(g, "launched") || strings.EqualFold(g, "pending") {
			group = ptr(g)
			if project == nil {
				continue
			}
		}
		customer := coerce.Optional(cols.Cell(row, "customer"))
		programme := coerce.Optional(cols.Cell(row, "programme"))
		if project == nil && customer == nil && programme == nil {
			continue
		}

		fyp := models.YearValues{}
		for k := 0; k < fypYears; k++ {
			if col := fypStartCol + k; col < len(row) {
				fyp[fmt.Sprintf("yr_%d", fypFirstYr+k)] = coerce.OptionalAmount(row[col])
			}
		}
		date := func(field string) *models.Date { return coerce.OptionalDate(cols.Cell(row, field)) }
		amount := func(field string) *float64 { return coerce.OptionalAmount(cols.Cell(row, field)) }
		out.Projects = append(out.Projects, models.ProjectSummaryRow{
			Group:                  group,
			Project:                project,
			Customer:               customer,
			Programme:              programme,
			KAMPackComplete:        date("kam_pack"),
			CRPDeepDiveComplete:    date("crp_deep_dive"),
			RiskReviewComplete:     date("risk_review"),
			ContractDCRComplete:    date("contract_dcr"),
			OVReviewComplete:       date("ov_review"),
			CurrentCRPMargin:       amount("current_crp_margin"),
			OnerousProvision:       amount("onerous_provision"),
			CurrentCRPPct:          amount("current_crp_pct"),
			OnerousRelease2024:     amount("onerous_2024"),
			OnerousRelease2025:     amount("onerous_2025"),
			FYPImprovement:         fyp,
			OverallPackImprovement: amount("overall_pack_improvement"),
		})
	}
	return out
}

var oppsThreatsSchema = layout.Schema{
	layout.Aliases("project", "project"),
	layout.Aliases("programme", "programme", "program"),
	layout.Aliases("customer", "customer"),
	layout.Aliases("opportunity", "opportunity"),
	layout.Aliases("profit_release_2024", "2024 profit release"),
	layout.Aliases("profit_release_2025", "2025 profit release"),
	layout.Aliases("overall_pack_improvement", "overall pack improvement"),
	layout.Aliases("window_for_forecast", "window for forecast"),
	layout.Aliases("due_date", "due date"),
	layout.Aliases("owner", "owner"),
	layout.Aliases("status", "status"),
	layout.Aliases("comments", "comments"),
}

func oppsAndThreats(s *models.Sheet) *models.OppsAndThreats {
	out := &models.OppsAndThreats{Totals: map[string]float64{}, Items: []models.OppsThreatsItem{}}
	hdr := layout.FindHeaderRow(s, []string{"project", "customer", "opportunity", "owner", "due date"}, 5)
	header := s.Row(hdr)
	cols := layout.MapColumns(header, oppsThreatsSchema)

	yearCols := map[string]int{}
	for j, c := range header {
		if m := yearHeader.FindStringSubmatch(layout.Lower(c)); m != nil {
			yearCols["fyp_"+m[1]] = j
		}
	}

	// The first row carries the sheet totals.
	for j, c := range s.Row(0) {
		if f, ok := coerce.ToAmount(c); ok {
			out.Totals[fmt.Sprintf("col_%d", j)] = f
		}
	}

	for i := hdr + 1; i < len(s.Rows); i++ {
		row := s.Rows[i]
		if layout.IsBlankRow(row) {
			continue
		}
		text := func(field string) *string { return coerce.Optional(cols.Cell(row, field)) }
		amount := func(field string) *float64 { return coerce.OptionalAmount(cols.Cell(row, field)) }
		project, programme, customer, opp := text("project"), text("programme"), text("customer"), text("opportunity")
		if project == nil && programme == nil && customer == nil && opp == nil {
			continue
		}
		fyp := models.YearValues{}
		for key, col := range yearCols {
			if col < len(row) {
				fyp[key] = coerce.OptionalAmount(row[col])
			}
		}
		out.Items = append(out.Items, models.OppsThreatsItem{
			Project:                project,
			Programme:              programme,
			Customer:               customer,
			Opportunity:            opp,
			ProfitRelease2024:      amount("profit_release_2024"),
			ProfitRelease2025:      amount("profit_release_2025"),
			FYPImprovement:         fyp,
			OverallPackImprovement: amount("overall_pack_improvement"),
			WindowForForecast:      text("window_for_forecast"),
			DueDate:                coerce.OptionalDate(cols.Cell(row, "due_date")),
			Owner:                  text("owner"),
			Status:                 text("status"),
			Comments:               text("comments"),
		})
	}
	return out
}

// milestoneOrder lists the approval phases in the order a project passes
// through them.
var milestoneOrder = []string{
	"idea_generation", "approval_to_launch", "strategy_approval",
	"be_generated", "approval", "negotiation_strategy",
	"proposal_submitted", "proposal_signed",
}

var dateInputSchema = layout.Schema{
	layout.Aliases("project", "project"),
	layout.Aliases("customer", "customer"),
	layout.Aliases("idea_generation", "idea generation"),
	layout.Aliases("approval_to_launch", "approval to launch"),
	layout.Aliases("strategy_approval", "strategy approval"),
	layout.Aliases("be_generated", "be generated"),
	layout.Aliases("approval", "approval"),
	layout.Aliases("negotiation_strategy", "negotiation strategy"),
	layout.Aliases("proposal_submitted", "proposal submitted"),
	layout.Aliases("proposal_signed", "proposal signed"),
}

// timelineHeaderRow is where the Gantt header sits when it cannot be found.
const timelineHeaderRow = 13

var timelineNoise = map[string]bool{"false": true, "true": true, "0": true, "nan": true}

func timeline(wb *models.Workbook) models.Timeline {
	out := models.Timeline{Milestones: []models.Milestone{}}

	if s := wb.Sheet("date input"); s != nil {
		hdr := layout.FindHeaderRow(s, []string{"project", "customer", "idea generation", "approval"}, 5)
		cols := layout.MapColumns(s.Row(hdr), dateInputSchema)
		for i := hdr + 1; i < len(s.Rows); i++ {
			row := s.Rows[i]
			project := coerce.Optional(cols.Cell(row, "project"))
			customer := coerce.Optional(cols.Cell(row, "customer"))
			if project == nil && customer == nil {
				continue
			}
			m := models.Milestone{
				Project:    project,
				Customer:   customer,
				Milestones: make(map[string]*models.Date, len(milestoneOrder)),
				Source:     "Date Input",
			}
			for _, key := range milestoneOrder {
				d := coerce.OptionalDate(cols.Cell(row, key))
				m.Milestones[key] = d
				if d != nil {
					m.CurrentPhase = ptr(key)
				}
			}
			out.Milestones = append(out.Milestones, m)
		}
	}

	if s := wb.Sheet("timeline"); s != nil {
		hdr := layout.FindHeaderRow(s, []string{"project", "customer"}, 15)
		if hdr < 2 {
			hdr = timelineHeaderRow
		}
		for i := hdr + 1; i < len(s.Rows) && i < hdr+50; i++ {
			row := s.Rows[i]
			project := coerce.Optional(row.At(2))
			if project == nil {
				continue
			}
			var marks []models.TimelineMark
			for j := 4; j < len(row); j++ {
				label := coerce.Clean(row[j])
				if label == "" || timelineNoise[strings.ToLower(label)] {
					continue
				}
				marks = append(marks, models.TimelineMark{ColumnIndex: j, MilestoneLabel: label})
			}
			if len(marks) == 0 {
				continue
			}
			out.Milestones = append(out.Milestones, models.Milestone{
				Project:            project,
				Customer:           coerce.Optional(row.At(3)),
				TimelineMilestones: marks,
				Source:             "Timeline",
			})
		}
	}
	return out
}

// countSchema maps the COUNT sheet. Its first column is labelled PROJECT
// but holds customer names.
var countSchema = layout.Schema{
	layout.Aliases("customer", "project"),
	layout.Aliases("count_of_asks", "count of asks"),
	layout.Aliases("spe_related", "of which spe", "spe related"),
	layout.Aliases("num_spe", "no.of spe", "no of spe"),
	layout.Aliases("prog_xwb84", "trent xwb-84"),
	layout.Aliases("prog_xwb97", "trent xwb-97"),
	layout.Aliases("prog_t1000", "trent 1000"),
	layout.Aliases("prog_t500", "trent 500"),
	layout.Aliases("prog_t700", "trent 700"),
	layout.Aliases("prog_rb211", "rb211"),
	layout.Aliases("prog_t7000", "trent 7000"),
	layout.Aliases("count_high_prob", "count of high prob"),
	layout.Aliases("count_med_prob", "count of med prob"),
	layout.Aliases("count_low_prob", "count of low prob"),
	layout.Aliases("count_high_comp", "count of high comp"),
	layout.Aliases("count_med_comp", "count of med comp"),
	layout.Aliases("count_low_comp", "count of low comp"),
	layout.Aliases("count_completed", "count of completed"),
	layout.Aliases("count_contracting", "count of contracting"),
	layout.Aliases("count_negotiations", "count of negotiations"),
	layout.Aliases("count_ict", "count of ict"),
	layout.Aliases("count_hopper", "count of hopper"),
	layout.Aliases("sum_2026", "2026"),
	layout.Aliases("sum_2027", "2027"),
	layout.Aliases("sum_26_27", "sum of 26/27"),
	layout.Aliases("sum_term_benefit", "sum of term benefit"),
}

func customerAnalytics(s *models.Sheet) *models.CustomerAnalytics {
	out := &models.CustomerAnalytics{
		Customers:      []models.CustomerCount{},
		SortedRankings: map[string][]models.RankingEntry{},
	}
	hdr := layout.FindHeaderRow(s, []string{"project", "count of asks", "trent", "count of high"}, 15)
	header := s.Row(hdr)
	cols := layout.MapColumns(header, countSchema)
	fields := countSchema.Fields()[1:]

	for i := hdr + 1; i < len(s.Rows); i++ {
		row := s.Rows[i]
		customer := coerce.Clean(cols.Cell(row, "customer"))
		if customer == "" {
			continue
		}
		counts := make(map[string]*float64, len(fields))
		for _, f := range fields {
			counts[f] = coerce.OptionalAmount(cols.Cell(row, f))
		}
		out.Customers = append(out.Customers, models.CustomerCount{Customer: customer, Counts: counts})
	}

	// "SORTED ..." headers come in (customer, value) column pairs.
	var sorted []int
	for j, c := range header {
		if strings.Contains(layout.Lower(c), "sorted") {
			sorted = append(sorted, j)
		}
	}
	for k := 0; k+1 < len(sorted); k += 2 {
		custCol, valCol := sorted[k], sorted[k+1]
		var ranking []models.RankingEntry
		for i := hdr + 1; i < len(s.Rows); i++ {
			row := s.Rows[i]
			if c := cellText(row, custCol); c != "" {
				ranking = append(ranking, models.RankingEntry{Customer: c, Value: coerce.OptionalAmount(row.At(valCol))})
			}
		}
		if len(ranking) > 0 {
			out.SortedRankings[coerce.Clean(header[valCol])] = ranking
		}
	}
	return out
}

var (
	scoreLabels    = map[string]bool{"high": true, "med": true, "low": true}
	weightLabels   = map[string]bool{"prob": true, "complex": true}
	statusLabels   = map[string]bool{"hopper": true, "ict": true, "negotiations": true, "contracting": true, "completed": true}
	lookupHeadings = map[string]bool{"CUSTOMER": true, "PROJECT": true, "PROGRAMME": true, "PROEJCT": true, "STATUS": true}
)

// INPUT sheet layout: scores and statuses in the first rows, lookup lists
// from row 16 in fixed columns.
const (
	inputScanRows    = 50
	inputLookupStart = 16
	inputCustomerCol = 5
	inputProjectCol  = 6
	inputProgramCol  = 8
)

func inputConfig(s *models.Sheet) *models.InputConfig {
	out := &models.InputConfig{
		ProbabilityScores: map[string]float64{},
		ComplexityScores:  map[string]float64{},
		Weights:           map[string]float64{},
		Years:             []int{},
		Statuses:          []string{},
		Customers:         []string{},
		Projects:          []string{},
		Programmes:        []string{},
	}
	seenYear := map[int]bool{}
	appendUnique := func(list *[]string, v string) {
		for _, existing := range *list {
			if existing == v {
				return
			}
		}
		*list = append(*list, v)
	}

	for i := 0; i < inputScanRows && i < len(s.Rows); i++ {
		row := s.Rows[i]
		for j, c := range row {
			if coerce.IsBlank(c) {
				continue
			}
			text := coerce.Clean(c)
			low := strings.ToLower(text)

			if scoreLabels[low] {
				if score, ok := coerce.ToAmount(row.At(j + 1)); ok {
					switch scoreContext(s, i) {
					case "probability":
						if _, dup := out.ProbabilityScores[text]; !dup {
							out.ProbabilityScores[text] = score
						}
					case "complexity":
						if _, dup := out.ComplexityScores[text]; !dup {
							out.ComplexityScores[text] = score
						}
					}
				}
			}
			if weightLabels[low] {
				if w, ok := coerce.ToAmount(row.At(j + 1)); ok {
					out.Weights[strings.ToUpper(text)] = w
				}
			}
			if statusLabels[low] {
				appendUnique(&out.Statuses, text)
			}
			if m := yearHeader.FindStringSubmatch(low); m != nil {
				y, _ := strconv.Atoi(m[1])
				if !seenYear[y] {
					seenYear[y] = true
					out.Years = append(out.Years, y)
				}
			}
		}
	}

	for i := inputLookupStart; i < inputScanRows && i < len(s.Rows); i++ {
		row := s.Rows[i]
		for j, c := range row {
			text := coerce.Clean(c)
			if text == "" || text == "-" || lookupHeadings[strings.ToUpper(text)] {
				continue
			}
			switch j {
			case inputCustomerCol:
				appendUnique(&out.Customers, text)
			case inputProjectCol:
				appendUnique(&out.Projects, text)
			case inputProgramCol:
				appendUnique(&out.Programmes, text)
			}
		}
	}
	sort.Ints(out.Years)
	return out
}

// scoreContext looks up to three rows above row i for a probability or
// complexity heading; the last one found wins.
func scoreContext(s *models.Sheet, i int) string {
	context := ""
	for k := max(0, i-3); k < i; k++ {
		for _, c := range s.Rows[k] {
			low := layout.Lower(c)
			switch {
			case low == "":
			case strings.Contains(low, "prob"):
				context = "probability"
			case strings.Contains(low, "complex"):
				context = "complexity"
			}
		}
	}
	return context
}

var calculatorSchema = layout.Schema{
	layout.Aliases("probability", "probability"),
	layout.Aliases("complexity", "complexity"),
	layout.Aliases("status", "status"),
	layout.Aliases("sum_term", "term impact", "sum"),
	layout.Aliases("sum_2026", "2026"),
	layout.Aliases("sum_2027", "2027"),
}

func calculator(s *models.Sheet) *models.Calculator {
	out := &models.Calculator{Filters: map[string]*string{}, ComputedSums: map[string]*float64{}}
	hdr := layout.FindHeaderRow(s, []string{"probability", "complexity", "status", "sum", "term"}, 12)
	if hdr >= len(s.Rows)-1 {
		return out
	}
	cols := layout.MapColumns(s.Row(hdr), calculatorSchema)
	sums := func(row models.Row) map[string]*float64 {
		return map[string]*float64{
			"term_impact": coerce.OptionalAmount(cols.Cell(row, "sum_term")),
			"sum_2026":    coerce.OptionalAmount(cols.Cell(row, "sum_2026")),
			"sum_2027":    coerce.OptionalAmount(cols.Cell(row, "sum_2027")),
		}
	}

	// The first row under the header holds the active filter.
	filter := s.Row(hdr + 1)
	out.Filters = map[string]*string{
		"probability": coerce.Optional(cols.Cell(filter, "probability")),
		"complexity":  coerce.Optional(cols.Cell(filter, "complexity")),
		"status":      coerce.Optional(cols.Cell(filter, "status")),
	}
	out.ComputedSums = sums(filter)

	for i := len(s.Rows) - 1; i > hdr+1; i-- {
		if !layout.IsBlankRow(s.Rows[i]) {
			out.Totals = sums(s.Rows[i])
			break
		}
	}
	return out
}

var coverPhrases = []string{"commercial optimisation", "opportunity report"}

func cover(s *models.Sheet) *models.Cover {
	out := &models.Cover{}
	for i := 0; i < 15 && i < len(s.Rows); i++ {
		for _, c := range s.Rows[i] {
			if !layout.ContainsAny(layout.Lower(c), coverPhrases) {
				continue
			}
			if out.Title == nil {
				out.Title = ptr(coerce.Clean(c))
			} else {
				out.Subtitle = ptr(coerce.Clean(c))
			}
		}
	}
	return out
}

// Fixed lookup columns of the reference sheet.
const (
	refOpportunityTypeCol = 7
	refLeverCol           = 9
	refLeverAltCol        = 13
)

func referenceData(s *models.Sheet) *models.ReferenceData {
	out := &models.ReferenceData{
		Programmes:        []string{},
		Operators:         []string{},
		Projects:          []string{},
		TCAAgreementTypes: []string{},
		SPEServicesTypes:  []string{},
		OpportunityTypes:  []string{},
		LeverTypes:        []string{},
	}
	if len(s.Rows) < 2 {
		return out
	}

	// Header cells pick their list by the first keyword they contain.
	type column struct {
		col  int
		list *[]string
	}
	var columns []column
	for j, c := range s.Rows[0] {
		low := layout.Lower(c)
		var list *[]string
		switch {
		case low == "":
		case strings.Contains(low, "programme"):
			list = &out.Programmes
		case strings.Contains(low, "operator"):
			list = &out.Operators
		case strings.Contains(low, "project"):
			list = &out.Projects
		case strings.Contains(low, "tca"):
			list = &out.TCAAgreementTypes
		case strings.Contains(low, "spe"):
			list = &out.SPEServicesTypes
		}
		if list != nil {
			columns = append(columns, column{col: j, list: list})
		}
	}

	seen := map[*[]string]map[string]bool{}
	add := func(list *[]string, v string) {
		if v == "" {
			return
		}
		if seen[list] == nil {
			seen[list] = map[string]bool{}
		}
		if !seen[list][v] {
			seen[list][v] = true
			*list = append(*list, v)
		}
	}

	for i := 1; i < len(s.Rows); i++ {
		row := s.Rows[i]
		for _, c := range columns {
			add(c.list, cellText(row, c.col))
		}
		add(&out.OpportunityTypes, cellText(row, refOpportunityTypeCol))
		add(&out.LeverTypes, cellText(row, refLeverCol))
		add(&out.LeverTypes, cellText(row, refLeverAltCol))
	}
	return out
}
