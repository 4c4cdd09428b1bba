package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/energymix-cli/internal/energy"
)

// Options controls the descriptive summary.
type Options struct {
	// GroupBy adds per-group VALUE summaries for one field (0 disables).
	GroupBy energy.Field
	// TopValues limits the categories listed per text column.
	TopValues int
}

// DefaultOptions returns reasonable defaults for the exploration tab.
func DefaultOptions() Options {
	return Options{TopValues: 5}
}

// Stats are the describe() statistics of one numeric column.
type Stats struct {
	Count int
	Mean  float64
	Std   float64 // sample standard deviation; NaN below 2 values
	Min   float64
	Q1    float64
	Q2    float64
	Q3    float64
	Max   float64
}

// StatNames are the row labels of a describe table, in order.
var StatNames = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Values returns the statistics in StatNames order.
func (s Stats) Values() []float64 {
	return []float64{float64(s.Count), s.Mean, s.Std, s.Min, s.Q1, s.Q2, s.Q3, s.Max}
}

// ColumnSummary captures one column of the canonical table.
type ColumnSummary struct {
	Name    string
	Kind    string // numeric|categorical
	NonNull int
	Missing int
	Unique  int
	Stats   Stats
	Top     []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// GroupResult is a per-group VALUE summary.
type GroupResult struct {
	Key   string
	Size  int
	Stats Stats
}

// Report describes a canonical table.
type Report struct {
	Name     string
	Rows     int
	Cols     []ColumnSummary
	Groups   []GroupResult
	Warnings []string
}

// Numeric returns the numeric column summaries, in table order.
func (r *Report) Numeric() []ColumnSummary {
	var out []ColumnSummary
	for _, c := range r.Cols {
		if c.Kind == "numeric" {
			out = append(out, c)
		}
	}
	return out
}

// welford accumulates mean and variance in one pass and keeps the values
// for quantiles.
type welford struct {
	n        int
	mean, m2 float64
	vals     []float64
}

func (w *welford) add(x float64) {
	w.n++
	delta := x - w.mean
	w.mean += delta / float64(w.n)
	w.m2 += delta * (x - w.mean)
	w.vals = append(w.vals, x)
}

func (w *welford) stats() Stats {
	s := Stats{Count: w.n, Mean: math.NaN(), Std: math.NaN(), Min: math.NaN(), Q1: math.NaN(), Q2: math.NaN(), Q3: math.NaN(), Max: math.NaN()}
	if w.n == 0 {
		return s
	}
	sorted := append([]float64(nil), w.vals...)
	sort.Float64s(sorted)
	s.Mean = w.mean
	if w.n > 1 {
		s.Std = math.Sqrt(w.m2 / float64(w.n-1))
	}
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Q1 = quantile(sorted, 0.25)
	s.Q2 = quantile(sorted, 0.5)
	s.Q3 = quantile(sorted, 0.75)
	return s
}

type catAcc struct {
	nonNull, missing int
	counts           map[string]int
}

func (c *catAcc) add(v string) {
	if strings.TrimSpace(v) == "" {
		c.missing++
		return
	}
	c.nonNull++
	c.counts[v]++
}

// Describe summarizes t. MONTH and share are reported only when the table
// carries them.
func Describe(name string, t *energy.Table, opt Options) *Report {
	rep := &Report{Name: name, Rows: t.Len()}

	var year, month, value, share welford
	var valueMissing, shareMissing int
	hasMonth := false
	country := &catAcc{counts: map[string]int{}}
	product := &catAcc{counts: map[string]int{}}
	balance := &catAcc{counts: map[string]int{}}
	groups := map[string]*welford{}
	sizes := map[string]int{}
	var groupKeys []string

	for _, r := range t.All() {
		country.add(r.Country)
		product.add(r.Product)
		balance.add(r.Balance)
		year.add(float64(r.Year))
		if r.Month != 0 {
			hasMonth = true
		}
		month.add(float64(r.Month))
		if math.IsNaN(r.Value) {
			valueMissing++
		} else {
			value.add(r.Value)
		}
		if math.IsNaN(r.Share) {
			shareMissing++
		} else {
			share.add(r.Share)
		}
		if opt.GroupBy != 0 {
			k := energy.Key{Country: r.Country, Year: r.Year, Month: r.Month, Product: r.Product}.Label(opt.GroupBy)
			g := groups[k]
			if g == nil {
				g = &welford{}
				groups[k] = g
				groupKeys = append(groupKeys, k)
			}
			sizes[k]++
			if !math.IsNaN(r.Value) {
				g.add(r.Value)
			}
		}
	}

	rep.Cols = append(rep.Cols, categorical("COUNTRY", country, opt.TopValues))
	rep.Cols = append(rep.Cols, numeric("YEAR", &year, 0))
	if hasMonth {
		rep.Cols = append(rep.Cols, numeric("MONTH", &month, 0))
	}
	rep.Cols = append(rep.Cols, categorical("PRODUCT", product, opt.TopValues))
	if balance.nonNull > 0 {
		rep.Cols = append(rep.Cols, categorical("BALANCE", balance, opt.TopValues))
	}
	rep.Cols = append(rep.Cols, numeric("VALUE", &value, valueMissing))
	if t.HasPrecomputedShare() {
		rep.Cols = append(rep.Cols, numeric("share", &share, shareMissing))
	}
	if valueMissing > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("VALUE missing in %d row(s)", valueMissing))
	}

	if opt.GroupBy == energy.FieldYear || opt.GroupBy == energy.FieldMonth {
		sort.SliceStable(groupKeys, func(i, j int) bool { return numericLess(groupKeys[i], groupKeys[j]) })
	} else {
		sort.Strings(groupKeys)
	}
	for _, k := range groupKeys {
		rep.Groups = append(rep.Groups, GroupResult{Key: k, Size: sizes[k], Stats: groups[k].stats()})
	}
	return rep
}

func numericLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

func numeric(name string, w *welford, missing int) ColumnSummary {
	unique := map[float64]bool{}
	for _, v := range w.vals {
		unique[v] = true
	}
	return ColumnSummary{Name: name, Kind: "numeric", NonNull: w.n, Missing: missing, Unique: len(unique), Stats: w.stats()}
}

func categorical(name string, c *catAcc, top int) ColumnSummary {
	cs := ColumnSummary{Name: name, Kind: "categorical", NonNull: c.nonNull, Missing: c.missing, Unique: len(c.counts)}
	for v, n := range c.counts {
		cs.Top = append(cs.Top, CategoryCount{Value: v, Count: n})
	}
	sort.Slice(cs.Top, func(i, j int) bool {
		if cs.Top[i].Count == cs.Top[j].Count {
			return cs.Top[i].Value < cs.Top[j].Value
		}
		return cs.Top[i].Count > cs.Top[j].Count
	})
	if top > 0 && len(cs.Top) > top {
		cs.Top = cs.Top[:top]
	}
	return cs
}

// quantile interpolates linearly between closest ranks of sorted values.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
