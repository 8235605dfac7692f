package services

import (
	"regexp"
	"strings"

	"alfredoptarigan/excel-viewer/internal/models"
)

var searchSeparator = regexp.MustCompile(`\r?\n|,`)

type RowFilter interface {
	Fields() []string
	Apply(dataset models.Dataset, criteria models.FilterCriteria) models.FilteredResult
}

type rowFilter struct {
	fields       []string
	searchColumn string
}

// NewRowFilter builds a filter over the given exact-match fields, applied in
// order, and a free-text search column.
func NewRowFilter(fields []string, searchColumn string) RowFilter {
	return &rowFilter{
		fields:       append([]string{}, fields...),
		searchColumn: searchColumn,
	}
}

func (f *rowFilter) Fields() []string {
	return append([]string{}, f.fields...)
}

func (f *rowFilter) Apply(dataset models.Dataset, criteria models.FilterCriteria) models.FilteredResult {
	rows := dataset.Rows

	for _, field := range f.fields {
		want, ok := criteria.Exact[field]
		if !ok || want == "" || want == models.AllValues {
			continue
		}
		column := resolveColumn(dataset.Headers, field)
		rows = keep(rows, func(r models.Row) bool {
			return r[column] == want
		})
	}

	if terms := SearchTerms(criteria.Search); len(terms) > 0 {
		column := resolveColumn(dataset.Headers, f.searchColumn)
		rows = keep(rows, func(r models.Row) bool {
			value := r[column]
			if value == "" {
				return false
			}
			value = strings.ToLower(value)
			for _, term := range terms {
				if strings.Contains(value, term) {
					return true
				}
			}
			return false
		})
	}

	distinct := make(map[string][]string, len(f.fields))
	for _, field := range f.fields {
		distinct[field] = distinctValues(dataset.Rows, resolveColumn(dataset.Headers, field))
	}

	return models.FilteredResult{Rows: rows, Distinct: distinct}
}

// SearchTerms splits free text on newlines and commas into trimmed,
// lowercased, non-empty terms.
func SearchTerms(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var terms []string
	for _, part := range searchSeparator.Split(text, -1) {
		term := strings.ToLower(strings.TrimSpace(part))
		if term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}

// resolveColumn maps a configured field name onto a dataset header. An exact
// match wins; otherwise the first header equal after trimming whitespace is
// used. Unknown names resolve to themselves and read as empty.
func resolveColumn(headers []string, name string) string {
	for _, h := range headers {
		if h == name {
			return h
		}
	}
	trimmed := strings.TrimSpace(name)
	for _, h := range headers {
		if strings.TrimSpace(h) == trimmed {
			return h
		}
	}
	return name
}

func keep(rows []models.Row, pred func(models.Row) bool) []models.Row {
	out := make([]models.Row, 0, len(rows))
	for _, r := range rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

func distinctValues(rows []models.Row, column string) []string {
	seen := make(map[string]struct{})
	values := []string{}
	for _, r := range rows {
		v := r[column]
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	return values
}
