package energy

import (
	"fmt"
	"iter"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Record is one row of the canonical table.
type Record struct {
	Country string
	Year    int
	Month   int // 0 when the source has no month
	Product string
	Balance string
	Value   float64 // NaN when missing or unparseable
	Share   float64 // only meaningful on tables with a precomputed share column
}

// Field names a grouping key of Record.
type Field int

const (
	FieldCountry Field = iota + 1
	FieldYear
	FieldMonth
	FieldProduct
)

func (f Field) String() string {
	switch f {
	case FieldCountry:
		return "country"
	case FieldYear:
		return "year"
	case FieldMonth:
		return "month"
	case FieldProduct:
		return "product"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// ParseField maps a column name (COUNTRY, year, ...) to a Field.
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "country":
		return FieldCountry, nil
	case "year":
		return FieldYear, nil
	case "month":
		return FieldMonth, nil
	case "product":
		return FieldProduct, nil
	}
	return 0, fmt.Errorf("unknown field %q (use country|year|month|product)", s)
}

func (f Field) valid() bool { return f >= FieldCountry && f <= FieldProduct }

func (f Field) numeric() bool { return f == FieldYear || f == FieldMonth }

// Key is a composite grouping key. Fields not part of the grouping stay zero.
type Key struct {
	Country string
	Year    int
	Month   int
	Product string
}

// Label renders the key component for f.
func (k Key) Label(f Field) string {
	switch f {
	case FieldCountry:
		return k.Country
	case FieldYear:
		return strconv.Itoa(k.Year)
	case FieldMonth:
		return strconv.Itoa(k.Month)
	case FieldProduct:
		return k.Product
	}
	return ""
}

func keyOf(r Record, fields []Field) Key {
	var k Key
	for _, f := range fields {
		switch f {
		case FieldCountry:
			k.Country = r.Country
		case FieldYear:
			k.Year = r.Year
		case FieldMonth:
			k.Month = r.Month
		case FieldProduct:
			k.Product = r.Product
		}
	}
	return k
}

func compareField(a, b Key, f Field) int {
	switch f {
	case FieldCountry:
		return strings.Compare(a.Country, b.Country)
	case FieldYear:
		return a.Year - b.Year
	case FieldMonth:
		return a.Month - b.Month
	case FieldProduct:
		return strings.Compare(a.Product, b.Product)
	}
	return 0
}

func compareKeys(a, b Key, fields []Field) int {
	for _, f := range fields {
		if c := compareField(a, b, f); c != 0 {
			return c
		}
	}
	return 0
}

// Table is the canonical, read-only set of energy records. It is built once
// and shared; every transformation returns a new value.
type Table struct {
	records  []Record
	hasShare bool
}

// NewTable copies records into a table without a precomputed share column.
func NewTable(records []Record) *Table {
	return newTable(records, false)
}

// NewTableWithShare copies records into a table whose Share fields come from
// a numeric share column of the source.
func NewTableWithShare(records []Record) *Table {
	return newTable(records, true)
}

func newTable(records []Record, hasShare bool) *Table {
	cp := make([]Record, len(records))
	copy(cp, records)
	if !hasShare {
		for i := range cp {
			cp[i].Share = math.NaN()
		}
	}
	return &Table{records: cp, hasShare: hasShare}
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// At returns record i by value.
func (t *Table) At(i int) Record { return t.records[i] }

// All iterates records in load order.
func (t *Table) All() iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		if t == nil {
			return
		}
		for i, r := range t.records {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Records returns a copy of the rows.
func (t *Table) Records() []Record {
	if t == nil {
		return nil
	}
	cp := make([]Record, len(t.records))
	copy(cp, t.records)
	return cp
}

// HasPrecomputedShare reports whether Share values came from the source.
func (t *Table) HasPrecomputedShare() bool { return t != nil && t.hasShare }

// Where returns the subset of records matching keep.
func (t *Table) Where(keep func(Record) bool) *Table {
	out := &Table{hasShare: t.HasPrecomputedShare()}
	for _, r := range t.All() {
		if keep(r) {
			out.records = append(out.records, r)
		}
	}
	return out
}

// Countries returns the distinct countries, sorted.
func (t *Table) Countries() []string {
	return t.distinct(func(r Record) string { return r.Country })
}

// Products returns the distinct products, sorted.
func (t *Table) Products() []string {
	return t.distinct(func(r Record) string { return r.Product })
}

func (t *Table) distinct(get func(Record) string) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range t.All() {
		v := get(r)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Years returns the distinct years in ascending order.
func (t *Table) Years() []int {
	seen := map[int]bool{}
	var out []int
	for _, r := range t.All() {
		if !seen[r.Year] {
			seen[r.Year] = true
			out = append(out, r.Year)
		}
	}
	sort.Ints(out)
	return out
}

// YearRange returns the smallest and largest year; ok is false for an empty table.
func (t *Table) YearRange() (first, last int, ok bool) {
	ys := t.Years()
	if len(ys) == 0 {
		return 0, 0, false
	}
	return ys[0], ys[len(ys)-1], true
}

// Measure extracts the aggregated quantity from a record.
type Measure func(Record) float64

// Generation measures the raw VALUE column.
func Generation(r Record) float64 { return r.Value }

// ShareMeasure measures the share column (see WithShare).
func ShareMeasure(r Record) float64 { return r.Share }
