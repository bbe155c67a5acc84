// Package summary computes dashboard statistics over entity collections:
// totals, top-N categorical breakdowns and canonicalized geography. It is
// pure and synchronous.
package summary

import (
	"sort"
	"strings"
)

// DefaultTopN is the number of entries kept per breakdown.
const DefaultTopN = 3

// Count is one value of a breakdown with its frequency.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FieldSummary is the breakdown of one categorical field.
type FieldSummary struct {
	Name     string  `json:"name"`
	Distinct int     `json:"distinct"`
	Top      []Count `json:"top"`
}

// CountryCount is one country of the geography breakdown.
type CountryCount struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary is the result of Summarize.
type Summary struct {
	Total           int            `json:"total"`
	Fields          []FieldSummary `json:"fields"`
	UniqueCountries int            `json:"unique_countries"`
	TopCountries    []CountryCount `json:"top_countries"`
}

// Field returns the breakdown named name.
func (s Summary) Field(name string) (FieldSummary, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSummary{}, false
}

// Field extracts the values of one categorical field. Multi-valued fields
// return every element; each is counted on its own.
type Field[T any] struct {
	Name   string
	Values func(T) []string
}

// Scalar builds a single-valued Field.
func Scalar[T any](name string, value func(T) string) Field[T] {
	return Field[T]{Name: name, Values: func(item T) []string { return []string{value(item)} }}
}

// Spec configures Summarize. Country may be nil when the entity has no location.
type Spec[T any] struct {
	Fields  []Field[T]
	Country func(T) string
	TopN    int
}

// tally is a frequency table that remembers first-occurrence order.
type tally struct {
	order  []string
	counts map[string]int
}

func newTally() *tally { return &tally{counts: make(map[string]int)} }

func (t *tally) add(v string) {
	if _, seen := t.counts[v]; !seen {
		t.order = append(t.order, v)
	}
	t.counts[v]++
}

// top returns the n most frequent values; ties keep first-occurrence order.
func (t *tally) top(n int) []Count {
	out := make([]Count, 0, len(t.order))
	for _, v := range t.order {
		out = append(out, Count{Value: v, Count: t.counts[v]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Summarize computes the summary of items.
func Summarize[T any](items []T, spec Spec[T]) Summary {
	n := spec.TopN
	if n <= 0 {
		n = DefaultTopN
	}
	s := Summary{Total: len(items), Fields: make([]FieldSummary, 0, len(spec.Fields)), TopCountries: []CountryCount{}}

	for _, f := range spec.Fields {
		t := newTally()
		for _, item := range items {
			for _, v := range f.Values(item) {
				if v = strings.TrimSpace(v); v != "" {
					t.add(v)
				}
			}
		}
		s.Fields = append(s.Fields, FieldSummary{Name: f.Name, Distinct: len(t.order), Top: t.top(n)})
	}

	if spec.Country == nil {
		return s
	}
	t := newTally()
	names := make(map[string]string)
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(spec.Country(item)))
		if key == "" {
			continue
		}
		if _, seen := names[key]; !seen {
			names[key] = CountryName(key)
		}
		t.add(key)
	}
	s.UniqueCountries = len(t.order)
	for _, c := range t.top(n) {
		s.TopCountries = append(s.TopCountries, CountryCount{Key: c.Value, Name: names[c.Value], Count: c.Count})
	}
	return s
}

// CountryName resolves a country code or name case-insensitively against
// ISO 3166-1. Unknown input comes back lower-cased.
func CountryName(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	for _, c := range countries {
		if strings.EqualFold(c.Alpha2, key) || strings.EqualFold(c.Alpha3, key) || strings.EqualFold(c.Name, key) {
			return c.Name
		}
	}
	return key
}
