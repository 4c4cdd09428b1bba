package energy

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/energymix-cli/internal/emission"
)

// AggFunc selects how values inside one group are combined.
type AggFunc int

const (
	// AggSum adds non-missing values; a group with only missing values sums to 0.
	AggSum AggFunc = iota
	// AggMean averages non-missing values; a group with only missing values is NaN.
	AggMean
)

func (a AggFunc) String() string {
	if a == AggMean {
		return "mean"
	}
	return "sum"
}

// Row is one group of a derived table.
type Row struct {
	Key   Key
	Value float64
	Count int // source records in the group, missing values included
}

// Derived is the result of grouping records by Keys. Rows are sorted by the
// key tuple in Keys order; every distinct tuple appears exactly once.
type Derived struct {
	Keys []Field
	Rows []Row
}

// Len returns the number of groups.
func (d *Derived) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// Total sums the group values, skipping NaN.
func (d *Derived) Total() float64 {
	var total float64
	for _, r := range d.Rows {
		if !math.IsNaN(r.Value) {
			total += r.Value
		}
	}
	return total
}

// Partition is the subset of a derived table sharing one label of a field.
type Partition struct {
	Label string
	Rows  []Row
}

// PartitionBy splits rows by the label of f, ordered like the groups
// themselves (numeric for year and month). f must be one of d.Keys.
func (d *Derived) PartitionBy(f Field) []Partition {
	idx := map[string]int{}
	var out []Partition
	var firstKeys []Key
	for _, r := range d.Rows {
		label := r.Key.Label(f)
		i, ok := idx[label]
		if !ok {
			i = len(out)
			idx[label] = i
			out = append(out, Partition{Label: label})
			firstKeys = append(firstKeys, r.Key)
		}
		out[i].Rows = append(out[i].Rows, r)
	}
	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return compareField(firstKeys[order[a]], firstKeys[order[b]], f) < 0
	})
	sorted := make([]Partition, len(out))
	for i, j := range order {
		sorted[i] = out[j]
	}
	return sorted
}

// Lookup returns the value of the group with key k.
func (d *Derived) Lookup(k Key) (float64, bool) {
	for _, r := range d.Rows {
		if r.Key == k {
			return r.Value, true
		}
	}
	return 0, false
}

var errNoKeys = errors.New("aggregate: at least one group key is required")

func validateKeys(keys []Field) error {
	if len(keys) == 0 {
		return errNoKeys
	}
	seen := map[Field]bool{}
	for _, f := range keys {
		if !f.valid() {
			return fmt.Errorf("aggregate: invalid key %s", f)
		}
		if seen[f] {
			return fmt.Errorf("aggregate: duplicate key %s", f)
		}
		seen[f] = true
	}
	return nil
}

type groupAcc struct {
	sum   float64
	valid int
	count int
}

// Aggregate groups t by keys and combines m within each group. Records
// sharing a key are always combined, never overwritten.
func Aggregate(t *Table, keys []Field, m Measure, agg AggFunc) (*Derived, error) {
	if err := validateKeys(keys); err != nil {
		return nil, err
	}
	if m == nil {
		m = Generation
	}
	groups := map[Key]*groupAcc{}
	var order []Key
	for _, r := range t.All() {
		k := keyOf(r, keys)
		g := groups[k]
		if g == nil {
			g = &groupAcc{}
			groups[k] = g
			order = append(order, k)
		}
		g.count++
		if v := m(r); !math.IsNaN(v) {
			g.sum += v
			g.valid++
		}
	}
	sort.SliceStable(order, func(i, j int) bool { return compareKeys(order[i], order[j], keys) < 0 })

	d := &Derived{Keys: append([]Field(nil), keys...), Rows: make([]Row, 0, len(order))}
	for _, k := range order {
		g := groups[k]
		v := g.sum
		if agg == AggMean {
			if g.valid == 0 {
				v = math.NaN()
			} else {
				v = g.sum / float64(g.valid)
			}
		}
		d.Rows = append(d.Rows, Row{Key: k, Value: v, Count: g.count})
	}
	return d, nil
}

// CO2 measures estimated emissions: VALUE times the profile coefficient
// of the record's product.
func CO2(p emission.Profile) Measure {
	return func(r Record) float64 {
		return r.Value * p.CoefficientFor(r.Product)
	}
}

// TotalOf sums m over every record of t, skipping NaN.
func TotalOf(t *Table, m Measure) float64 {
	var total float64
	for _, r := range t.All() {
		if v := m(r); !math.IsNaN(v) {
			total += v
		}
	}
	return total
}
