package layout

import (
	"strings"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/coerce"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
)

// SectionKeywords is the default vocabulary of statement block titles.
var SectionKeywords = []string{
	"charges", "credits", "credit", "totalcare", "familycare", "missioncare",
	"spare parts", "late payment", "interest", "customer respon", "usable",
	"offset",
}

var summaryPairWords = []string{"total", "overdue", "credit", "balance"}

// SectionTitle reports whether row opens a new record block and returns the
// title text. The row must be sparse (at most SectionMaxCells populated),
// start with non-numeric text that is not a summary label, and its title
// must contain a vocab entry.
func SectionTitle(row models.Row, t Thresholds, vocab []string) (string, bool) {
	cols := NonBlank(row)
	if len(cols) == 0 || len(cols) > t.SectionMaxCells {
		return "", false
	}
	first := row[cols[0]]
	if first.Kind != models.CellString {
		return "", false
	}
	if _, numeric := coerce.ToAmount(first); numeric {
		return "", false
	}
	title := coerce.Clean(first)
	low := strings.ToLower(title)
	if IsSummaryLabel(low) {
		return "", false
	}
	if len(cols) == 2 {
		if _, numeric := coerce.ToAmount(row[cols[1]]); numeric && ContainsAny(low, summaryPairWords) {
			return "", false
		}
	}
	if !ContainsAny(low, vocab) {
		return "", false
	}
	return title, true
}
