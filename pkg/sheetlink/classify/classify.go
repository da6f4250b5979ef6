// Package classify decides which workbook family a loaded workbook belongs
// to by scoring sheet names and the text near the top of every sheet.
package classify

import (
	"strings"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/layout"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
)

// Signals maps each family to the phrases that suggest it. Each phrase found
// in a sheet scores one point.
var Signals = map[models.FileType][]string{
	models.FileTypeSOA: {
		"statement of account", "lpi rate", "lpi rate >",
		"customer name:", "totalcare charges", "customer responsible charges",
		"spare parts charges", "late payment interest", "credits usable",
		"total overdue",
	},
	models.FileTypeInvoiceList: {
		"reference key 3", "amount in doc. curr.", "net due date", "document date",
		"document currency",
	},
	models.FileTypeOpportunityTracker: {
		"opp log sheet", "type of opportunity", "external probability",
		"internal complexity", "evaluation level", "term benefit", "away day date",
		"ict estimates", "commercial optimisation", "profit opportunities tracker",
		"account management evaluations", "cash reciepts", "in year profit",
		"existing deal", "new deal", "resource prioritization",
		"contracting actuals", "financial criteria",
	},
	models.FileTypeShopVisit: {
		"event item part number", "event item serial number", "action code",
		"rework level", "service event number", "shopvisit_type", "shopvisit_location",
	},
	models.FileTypeSVRG: {
		"trent 900 guarantee", "trent 900 guarantee administration",
		"claims summary", "event entry", "hptb", "svrg", "esvrg",
		"enhanced guarantees",
	},
}

// SheetNames maps lower-cased sheet names that identify a family outright.
var SheetNames = map[string]models.FileType{
	"soa":              models.FileTypeSOA,
	"soa summary":      models.FileTypeSOA,
	"soa 26.1":         models.FileTypeSOA,
	"l2":               models.FileTypeOpportunityTracker,
	"l3":               models.FileTypeOpportunityTracker,
	"mea log":          models.FileTypeOpportunityTracker,
	"opps and threats": models.FileTypeOpportunityTracker,
	"date input":       models.FileTypeOpportunityTracker,
	"count":            models.FileTypeOpportunityTracker,
	"sum":              models.FileTypeOpportunityTracker,
	"timeline":         models.FileTypeOpportunityTracker,
	"input":            models.FileTypeOpportunityTracker,
	"cover":            models.FileTypeOpportunityTracker,
	"menu":             models.FileTypeSVRG,
	"claims summary":   models.FileTypeSVRG,
	"event entry":      models.FileTypeSVRG,
	"glossary_2":       models.FileTypeShopVisit,
}

// SheetPrefixes maps lower-cased sheet name prefixes to a family.
var SheetPrefixes = map[string]models.FileType{
	"report page": models.FileTypeShopVisit,
	"soa ":        models.FileTypeSOA,
}

// Result is the classifier's decision and the per-family scores behind it.
type Result struct {
	Type   models.FileType
	Scores map[models.FileType]int
}

// Classifier scores workbooks against the family signals.
type Classifier struct {
	thresholds layout.Thresholds
}

// New returns a Classifier using t's scan depth and name boost.
func New(t layout.Thresholds) *Classifier {
	return &Classifier{thresholds: t.WithDefaults()}
}

// Classify scores every sheet and returns the family with the highest total.
// Ties go to the family listed first in models.KnownFileTypes; a workbook
// scoring zero everywhere is UNKNOWN.
func (c *Classifier) Classify(wb *models.Workbook) Result {
	scores := make(map[models.FileType]int, len(Signals))
	for _, ft := range models.KnownFileTypes() {
		scores[ft] = 0
	}

	for _, sheet := range wb.Sheets {
		name := strings.ToLower(strings.TrimSpace(sheet.Name))
		if ft, ok := SheetNames[name]; ok {
			scores[ft] += c.thresholds.SheetNameBoost
		}
		for prefix, ft := range SheetPrefixes {
			if strings.HasPrefix(name, prefix) {
				scores[ft] += c.thresholds.SheetNameBoost
			}
		}

		text := layout.SheetText(sheet, c.thresholds.ClassifierScanRows)
		if text == "" {
			continue
		}
		for ft, signals := range Signals {
			for _, sig := range signals {
				if strings.Contains(text, sig) {
					scores[ft]++
				}
			}
		}
	}

	best, bestScore := models.FileTypeUnknown, 0
	for _, ft := range models.KnownFileTypes() {
		if scores[ft] > bestScore {
			best, bestScore = ft, scores[ft]
		}
	}
	return Result{Type: best, Scores: scores}
}

// Classify runs a default Classifier.
func Classify(wb *models.Workbook) models.FileType {
	return New(layout.DefaultThresholds()).Classify(wb).Type
}
