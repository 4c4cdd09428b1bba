package energy

import "strings"

// Filter selects records. Values within a dimension are OR-combined,
// dimensions are AND-combined, and an empty dimension means no restriction.
// Country and product matching is case-insensitive.
type Filter struct {
	Countries []string
	Products  []string
	FromYear  int // inclusive, 0 = unbounded
	ToYear    int // inclusive, 0 = unbounded
}

// IsEmpty reports whether the filter keeps every record.
func (f Filter) IsEmpty() bool {
	return len(f.Countries) == 0 && len(f.Products) == 0 && f.FromYear == 0 && f.ToYear == 0
}

// Apply returns the matching subset of t.
func (f Filter) Apply(t *Table) *Table {
	if f.IsEmpty() {
		return t
	}
	countries := toLowerSet(f.Countries)
	products := toLowerSet(f.Products)
	return t.Where(func(r Record) bool {
		if len(countries) > 0 && !countries[strings.ToLower(r.Country)] {
			return false
		}
		if len(products) > 0 && !products[strings.ToLower(r.Product)] {
			return false
		}
		if f.FromYear != 0 && r.Year < f.FromYear {
			return false
		}
		if f.ToYear != 0 && r.Year > f.ToYear {
			return false
		}
		return true
	})
}

// Country is shorthand for a single-country filter.
func Country(name string) Filter { return Filter{Countries: []string{name}} }

func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		set[strings.ToLower(item)] = true
	}
	return set
}
