// Package extract holds the per-format extractors that turn a classified
// workbook grid into a canonical ParseResult.
//
// Every extractor is a single linear pass per sheet. The only state carried
// between rows is the active block and the active column map, and both change
// only at section titles and header rows.
package extract

import (
	"errors"
	"log/slog"
	"time"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/layout"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
)

// ErrNoSheets is returned when a workbook has nothing to extract from.
var ErrNoSheets = errors.New("workbook has no sheets")

// Extractor converts a workbook of one family into a ParseResult.
type Extractor interface {
	Type() models.FileType
	Extract(wb *models.Workbook) (*models.ParseResult, error)
}

// Env carries what every extractor needs besides the workbook.
type Env struct {
	// Thresholds tunes the layout detectors.
	Thresholds layout.Thresholds
	// Now is the clock used for derived days-late values.
	Now func() time.Time
	// Logger receives row-level debug decisions.
	Logger *slog.Logger
	// Filename is recorded as source_file.
	Filename string
}

func (e Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Env) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

func (e Env) withDefaults() Env {
	e.Thresholds = e.Thresholds.WithDefaults()
	return e
}

// For returns the extractor for a file type. Unknown types get the generic
// extractor.
func For(ft models.FileType, env Env) Extractor {
	env = env.withDefaults()
	switch ft {
	case models.FileTypeSOA:
		return &Statement{env: env}
	case models.FileTypeInvoiceList:
		return &InvoiceRegister{env: env}
	case models.FileTypeOpportunityTracker:
		return &OpportunityTracker{env: env}
	case models.FileTypeShopVisit:
		return &ShopVisits{env: env}
	case models.FileTypeSVRG:
		return &Guarantee{env: env}
	}
	return &Generic{env: env}
}
