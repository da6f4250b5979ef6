package layout

import (
	"sort"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/coerce"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
)

// FieldRule pairs a semantic field with a predicate over lower-cased
// header text.
type FieldRule struct {
	Field string
	Match func(header string) bool
}

// Aliases returns a rule matching any header that contains one of aliases.
func Aliases(field string, aliases ...string) FieldRule {
	return FieldRule{
		Field: field,
		Match: func(header string) bool { return ContainsAny(header, aliases) },
	}
}

// Schema is an ordered list of rules; earlier rules have priority.
type Schema []FieldRule

// Fields returns the field names in priority order.
func (s Schema) Fields() []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = r.Field
	}
	return out
}

// Positional maps each field to its index in the schema, the fallback
// layout used when a sheet has no recognisable header.
func (s Schema) Positional() map[string]int {
	out := make(map[string]int, len(s))
	for i, r := range s {
		out[r.Field] = i
	}
	return out
}

// ColumnMap maps a field name to a column index.
type ColumnMap map[string]int

// MapColumns assigns header columns to schema fields. Rules are applied in
// priority order and each claims the leftmost matching column not already
// claimed, so a generic alias cannot take a column owned by a more specific
// field.
func MapColumns(header models.Row, schema Schema) ColumnMap {
	claimed := make(map[int]bool, len(header))
	m := make(ColumnMap, len(schema))
	for _, rule := range schema {
		for j, c := range header {
			if claimed[j] || coerce.IsBlank(c) {
				continue
			}
			if rule.Match(Lower(c)) {
				m[rule.Field] = j
				claimed[j] = true
				break
			}
		}
	}
	return m
}

// WithDefaults returns a copy of m where each unmapped field takes its
// positional default, unless that column is already owned by another field.
func (m ColumnMap) WithDefaults(defaults map[string]int) ColumnMap {
	out := make(ColumnMap, len(defaults))
	claimed := make(map[int]bool, len(m))
	for f, j := range m {
		out[f] = j
		claimed[j] = true
	}
	fields := make([]string, 0, len(defaults))
	for f := range defaults {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		if _, ok := out[f]; ok {
			continue
		}
		if j := defaults[f]; !claimed[j] {
			out[f] = j
			claimed[j] = true
		}
	}
	return out
}

// Has reports whether field is mapped.
func (m ColumnMap) Has(field string) bool {
	_, ok := m[field]
	return ok
}

// Cell returns the row's cell for field, or an empty cell.
func (m ColumnMap) Cell(row models.Row, field string) models.Cell {
	j, ok := m[field]
	if !ok {
		return models.Cell{}
	}
	return row.At(j)
}
