package models

// YearValues maps yr_YYYY keys to an amount.
type YearValues map[string]*float64

// Opportunity is one row of an opportunity log sheet.
type Opportunity struct {
	Number          int      `json:"number"`
	Project         *string  `json:"project"`
	Programme       *string  `json:"programme"`
	Customer        *string  `json:"customer"`
	Region          *string  `json:"region"`
	Asks            *string  `json:"asks"`
	OpportunityType *string  `json:"opportunity_type"`
	Levers          *string  `json:"levers"`
	Priority        *float64 `json:"priority"`
	SPERelated      *string  `json:"spe_related"`
	NumSPE          *float64 `json:"num_spe"`
	CRPPct          *float64 `json:"crp_pct"`
	ExtProbability  *string  `json:"ext_probability"`
	IntComplexity   *string  `json:"int_complexity"`
	Status          *string  `json:"status"`
	EvaluationLevel *string  `json:"evaluation_level"`
	TermBenefit     *float64 `json:"term_benefit"`
	Benefit2026     *float64 `json:"benefit_2026"`
	Benefit2027     *float64 `json:"benefit_2027"`
	Sum2627         *float64 `json:"sum_26_27"`
	// Financials is the wide cash/profit breakdown keyed by group name.
	Financials map[string]YearValues `json:"financials"`
	// SupportingFinancials holds deal benefit and margin columns.
	SupportingFinancials map[string]*float64 `json:"supporting_financials"`
	// ToGo holds the remaining term revenue/cost/profit.
	ToGo map[string]*float64 `json:"to_go"`
	// ResourcePriority holds per-function resource scores.
	ResourcePriority map[string]*float64 `json:"resource_priority"`
}

// OpportunitySums is the pre-computed SUMS row of a log sheet.
type OpportunitySums struct {
	TermBenefitSum *float64 `json:"term_benefit_sum"`
	Sum2026        *float64 `json:"sum_2026"`
	Sum2027        *float64 `json:"sum_2027"`
	Sum2627        *float64 `json:"sum_26_27"`
}

// OpportunitySheet is one parsed log sheet and its estimation level.
type OpportunitySheet struct {
	EstimationLevel string           `json:"estimation_level"`
	SheetName       string           `json:"sheet_name"`
	Sums            *OpportunitySums `json:"sums"`
	Records         []Opportunity    `json:"records"`
}

// LevelSums aggregates one estimation level.
type LevelSums struct {
	SheetName        string           `json:"sheet_name"`
	Count            int              `json:"count"`
	TotalTermBenefit float64          `json:"total_term_benefit"`
	Total2026        float64          `json:"total_2026"`
	Total2027        float64          `json:"total_2027"`
	TotalSum2627     float64          `json:"total_sum_26_27"`
	SumsFromSheet    *OpportunitySums `json:"sums_from_sheet"`
}

// OpportunitySummary aggregates every parsed opportunity.
type OpportunitySummary struct {
	TotalOpportunities  int                  `json:"total_opportunities"`
	ByStatus            map[string]int       `json:"by_status"`
	ByProgramme         map[string]int       `json:"by_programme"`
	ByCustomer          map[string]int       `json:"by_customer"`
	ByOpportunityType   map[string]int       `json:"by_opportunity_type"`
	TotalTermBenefit    float64              `json:"total_term_benefit"`
	EstimationLevelSums map[string]LevelSums `json:"estimation_level_sums"`
}

// ProjectSummaryRow is one project of the strategic summary sheet.
type ProjectSummaryRow struct {
	Group                  *string    `json:"group"`
	Project                *string    `json:"project"`
	Customer               *string    `json:"customer"`
	Programme              *string    `json:"programme"`
	KAMPackComplete        *Date      `json:"kam_pack_complete"`
	CRPDeepDiveComplete    *Date      `json:"crp_deep_dive_complete"`
	RiskReviewComplete     *Date      `json:"risk_review_complete"`
	ContractDCRComplete    *Date      `json:"contract_dcr_complete"`
	OVReviewComplete       *Date      `json:"ov_review_complete"`
	CurrentCRPMargin       *float64   `json:"current_crp_margin"`
	OnerousProvision       *float64   `json:"onerous_provision"`
	CurrentCRPPct          *float64   `json:"current_crp_pct"`
	OnerousRelease2024     *float64   `json:"onerous_release_2024"`
	OnerousRelease2025     *float64   `json:"onerous_release_2025"`
	FYPImprovement         YearValues `json:"fyp_improvement"`
	OverallPackImprovement *float64   `json:"overall_pack_improvement"`
}

// ProjectSummary is the parsed Summary sheet.
type ProjectSummary struct {
	Projects []ProjectSummaryRow `json:"projects"`
}

// OppsThreatsItem is one pre-existing opportunity or threat.
type OppsThreatsItem struct {
	Project                *string    `json:"project"`
	Programme              *string    `json:"programme"`
	Customer               *string    `json:"customer"`
	Opportunity            *string    `json:"opportunity"`
	ProfitRelease2024      *float64   `json:"profit_release_2024"`
	ProfitRelease2025      *float64   `json:"profit_release_2025"`
	FYPImprovement         YearValues `json:"fyp_improvement"`
	OverallPackImprovement *float64   `json:"overall_pack_improvement"`
	WindowForForecast      *string    `json:"window_for_forecast"`
	DueDate                *Date      `json:"due_date"`
	Owner                  *string    `json:"owner"`
	Status                 *string    `json:"status"`
	Comments               *string    `json:"comments"`
}

// OppsAndThreats is the parsed Opps and Threats sheet.
type OppsAndThreats struct {
	// Totals maps col_N to the numeric values of the first row.
	Totals map[string]float64 `json:"totals"`
	Items  []OppsThreatsItem  `json:"items"`
}

// TimelineMark is a milestone label placed in a Gantt week column.
type TimelineMark struct {
	ColumnIndex    int    `json:"column_index"`
	MilestoneLabel string `json:"milestone_label"`
}

// Milestone tracks one project's progress through the approval phases.
type Milestone struct {
	Project            *string          `json:"project"`
	Customer           *string          `json:"customer"`
	Milestones         map[string]*Date `json:"milestones,omitempty"`
	CurrentPhase       *string          `json:"current_phase,omitempty"`
	TimelineMilestones []TimelineMark   `json:"timeline_milestones,omitempty"`
	Source             string           `json:"source"`
}

// Timeline merges the Date Input and Timeline sheets.
type Timeline struct {
	Milestones []Milestone `json:"milestones"`
}

// CustomerCount is one customer row of the COUNT sheet.
type CustomerCount struct {
	Customer string              `json:"customer"`
	Counts   map[string]*float64 `json:"counts"`
}

// RankingEntry is one entry of a sorted ranking column pair.
type RankingEntry struct {
	Customer string   `json:"customer"`
	Value    *float64 `json:"value"`
}

// CustomerAnalytics is the parsed COUNT sheet.
type CustomerAnalytics struct {
	Customers      []CustomerCount           `json:"customers"`
	SortedRankings map[string][]RankingEntry `json:"sorted_rankings"`
}

// InputConfig is the parsed INPUT lookup sheet.
type InputConfig struct {
	ProbabilityScores map[string]float64 `json:"probability_scores"`
	ComplexityScores  map[string]float64 `json:"complexity_scores"`
	Weights           map[string]float64 `json:"weights"`
	Years             []int              `json:"years"`
	Statuses          []string           `json:"statuses"`
	Customers         []string           `json:"customers"`
	Projects          []string           `json:"projects"`
	Programmes        []string           `json:"programmes"`
}

// Calculator is the parsed SUM filter sheet.
type Calculator struct {
	Filters      map[string]*string  `json:"filters"`
	ComputedSums map[string]*float64 `json:"computed_sums"`
	Totals       map[string]*float64 `json:"totals,omitempty"`
}

// Cover is the parsed COVER sheet.
type Cover struct {
	Title    *string `json:"title"`
	Subtitle *string `json:"subtitle"`
}

// ReferenceData is the parsed lookup sheet of valid values.
type ReferenceData struct {
	Programmes        []string `json:"programmes"`
	Operators         []string `json:"operators"`
	Projects          []string `json:"projects"`
	TCAAgreementTypes []string `json:"tca_agreement_types"`
	SPEServicesTypes  []string `json:"spe_services_types"`
	OpportunityTypes  []string `json:"opportunity_types"`
	LeverTypes        []string `json:"lever_types"`
}

// OpportunityData is the OPPORTUNITY_TRACKER payload of a ParseResult.
type OpportunityData struct {
	// Opportunities maps sheet name to its records.
	Opportunities map[string][]Opportunity `json:"opportunities"`
	// ByLevel maps estimation level to its sheet.
	ByLevel           map[string]OpportunitySheet `json:"opportunities_by_level"`
	Summary           OpportunitySummary          `json:"summary"`
	ProjectSummary    *ProjectSummary             `json:"project_summary,omitempty"`
	OppsAndThreats    *OppsAndThreats             `json:"opps_and_threats,omitempty"`
	Timeline          Timeline                    `json:"timeline"`
	CustomerAnalytics *CustomerAnalytics          `json:"customer_analytics,omitempty"`
	Calculator        *Calculator                 `json:"calculator,omitempty"`
	Cover             *Cover                      `json:"cover,omitempty"`
	InputConfig       *InputConfig                `json:"input_config,omitempty"`
	ReferenceData     *ReferenceData              `json:"reference_data,omitempty"`
}
