// Package xref links identifiers that appear in more than one file of a
// batch: invoice references, accounts, assignments, customers, projects and
// engine serials found in structured fields or free text.
package xref

import (
	"math"
	"sort"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
)

// File is one named result of a batch.
type File struct {
	Name   string
	Result *models.ParseResult
}

// Builder builds cross-reference indexes.
type Builder struct {
	extractors []TextKeyExtractor
}

// NewBuilder returns a builder using extractors for free text. With no
// extractors the default engine serial extractor is used.
func NewBuilder(extractors ...TextKeyExtractor) *Builder {
	if len(extractors) == 0 {
		extractors = []TextKeyExtractor{SerialExtractor()}
	}
	return &Builder{extractors: extractors}
}

// Build groups the keys of every file and keeps the values seen in at least
// two distinct files. ERROR results contribute nothing.
func (b *Builder) Build(files []File) models.CrossReferenceIndex {
	type group struct {
		occurrences []models.Occurrence
		files       map[string]bool
	}
	index := map[KeyType]map[string]*group{}
	total := 0

	for _, f := range files {
		if f.Result == nil || f.Result.FileType == models.FileTypeError {
			continue
		}
		keys := b.Keys(f.Name, f.Result)
		total += len(keys)
		for _, k := range keys {
			byValue := index[k.Type]
			if byValue == nil {
				byValue = map[string]*group{}
				index[k.Type] = byValue
			}
			g := byValue[k.Value]
			if g == nil {
				g = &group{files: map[string]bool{}}
				byValue[k.Value] = g
			}
			g.occurrences = append(g.occurrences, k.Occurrence)
			g.files[f.Name] = true
		}
	}

	out := models.CrossReferenceIndex{
		CrossRefs: map[string]map[string][]models.Occurrence{},
		Stats: models.CrossReferenceStats{
			TotalKeysExtracted: total,
			MatchesByType:      map[string]int{},
		},
	}
	for kt, byValue := range index {
		linked := map[string][]models.Occurrence{}
		for value, g := range byValue {
			if len(g.files) >= 2 {
				linked[value] = g.occurrences
			}
		}
		if len(linked) == 0 {
			continue
		}
		out.CrossRefs[string(kt)] = linked
		out.Stats.MatchesByType[string(kt)] = len(linked)
		out.Stats.CrossFileMatches += len(linked)
	}
	return out
}

// CombinedOpenItems merges the statement and invoice register lines of all
// files into one list, most overdue first and then by largest absolute
// amount. Lines without an amount are left out.
func CombinedOpenItems(files []File) []models.OpenItem {
	items := []models.OpenItem{}
	for _, f := range files {
		res := f.Result
		if res == nil {
			continue
		}
		if res.Statement != nil {
			for _, sec := range res.Statement.Sections {
				name := sec.Name
				for _, it := range sec.Items {
					if it.Amount == nil {
						continue
					}
					items = append(items, models.OpenItem{
						SourceFile:    f.Name,
						SourceSection: &name,
						FileType:      res.FileType,
						Reference:     it.Reference,
						DocDate:       it.DocDate,
						DueDate:       it.DueDate,
						Amount:        *it.Amount,
						Currency:      it.Currency,
						Text:          it.Text,
						Assignment:    it.Assignment,
						DaysLate:      it.DaysLate,
						Status:        it.Status,
						EntryType:     it.EntryType,
					})
				}
			}
		}
		if res.Invoices != nil {
			for _, it := range res.Invoices.Items {
				if it.Amount == nil {
					continue
				}
				items = append(items, models.OpenItem{
					SourceFile: f.Name,
					FileType:   res.FileType,
					Reference:  it.Reference,
					DocDate:    it.DocDate,
					DueDate:    it.DueDate,
					Amount:     *it.Amount,
					Currency:   it.Currency,
					Text:       it.Text,
					Assignment: it.Assignment,
					DaysLate:   it.DaysLate,
				})
			}
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		di, dj := daysOf(items[i]), daysOf(items[j])
		if di != dj {
			return di > dj
		}
		return math.Abs(items[i].Amount) > math.Abs(items[j].Amount)
	})
	return items
}

func daysOf(it models.OpenItem) int {
	if it.DaysLate == nil {
		return 0
	}
	return *it.DaysLate
}
