package dataset

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/energymix-cli/internal/energy"
)

// ErrMissingColumn is wrapped when a required column is absent from the header.
var ErrMissingColumn = errors.New("missing required column")

// Report summarizes a load.
type Report struct {
	Source        string
	Loader        string
	Rows          int // data rows read
	Kept          int
	BadYear       int // dropped: YEAR not an integer
	BeforeStart   int // dropped: YEAR < start year
	OtherBalance  int // dropped: BALANCE did not match
	MissingValues int // kept with VALUE = NaN
	HasShare      bool
	Ignored       []string // ancillary columns
	Warnings      []string
}

type columns struct {
	country, year, month, product, value, share, balance int
}

func locate(header []string) (columns, []string, error) {
	c := columns{-1, -1, -1, -1, -1, -1, -1}
	var ignored []string
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "country":
			c.country = i
		case "year":
			c.year = i
		case "month":
			c.month = i
		case "product":
			c.product = i
		case "value":
			c.value = i
		case "share":
			c.share = i
		case "balance":
			c.balance = i
		default:
			ignored = append(ignored, strings.TrimSpace(h))
		}
	}
	var missing []string
	for name, idx := range map[string]int{"COUNTRY": c.country, "YEAR": c.year, "PRODUCT": c.product, "VALUE": c.value} {
		if idx < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return c, nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return c, ignored, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Canonicalize converts a grid into the canonical table. Unparseable VALUE
// and share cells become NaN; rows with an unparseable YEAR are dropped and
// counted. The share column is used only when every non-empty cell parses.
func Canonicalize(g *Grid, opt Options) (*energy.Table, *Report, error) {
	rep := &Report{}
	if g == nil || len(g.Header) == 0 {
		return nil, rep, fmt.Errorf("%w: empty header", ErrMissingColumn)
	}
	c, ignored, err := locate(g.Header)
	if err != nil {
		return nil, rep, err
	}
	rep.Ignored = ignored

	shareNumeric := c.share >= 0
	var shareSeen bool
	records := make([]energy.Record, 0, len(g.Rows))
	for _, row := range g.Rows {
		if isBlank(row) {
			continue
		}
		rep.Rows++
		year, ok := parseYear(cell(row, c.year))
		if !ok {
			rep.BadYear++
			continue
		}
		if opt.StartYear > 0 && year < opt.StartYear {
			rep.BeforeStart++
			continue
		}
		balance := cell(row, c.balance)
		if opt.Balance != "" && !strings.EqualFold(balance, opt.Balance) {
			rep.OtherBalance++
			continue
		}
		r := energy.Record{
			Country: cell(row, c.country),
			Year:    year,
			Month:   parseMonth(cell(row, c.month)),
			Product: cell(row, c.product),
			Balance: balance,
			Value:   math.NaN(),
			Share:   math.NaN(),
		}
		if v, ok := parseNumeric(cell(row, c.value)); ok && v >= 0 {
			r.Value = v
		} else {
			rep.MissingValues++
		}
		if c.share >= 0 {
			if raw := cell(row, c.share); raw != "" {
				if v, ok := parseNumeric(raw); ok {
					r.Share = v
					shareSeen = true
				} else {
					shareNumeric = false
				}
			}
		}
		records = append(records, r)
	}
	rep.Kept = len(records)
	if c.share >= 0 && !shareNumeric {
		rep.Warnings = append(rep.Warnings, "share column is not numeric; shares will be derived from VALUE")
	}
	if rep.MissingValues > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d row(s) with missing or invalid VALUE treated as missing", rep.MissingValues))
	}
	if rep.BadYear > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d row(s) dropped: YEAR is not an integer", rep.BadYear))
	}
	rep.HasShare = shareNumeric && shareSeen
	if rep.HasShare {
		return energy.NewTableWithShare(records), rep, nil
	}
	return energy.NewTable(records), rep, nil
}

func isBlank(row []string) bool {
	for _, s := range row {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}

func parseYear(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if y, err := strconv.Atoi(s); err == nil {
		return y, true
	}
	// Spreadsheet and database sources may render integers as 2020.0.
	f, ok := parseNumeric(s)
	if !ok || f != math.Trunc(f) || math.Abs(f) > 1e6 {
		return 0, false
	}
	return int(f), true
}

func parseMonth(s string) int {
	if s == "" {
		return 0
	}
	if m, err := strconv.Atoi(s); err == nil && m >= 1 && m <= 12 {
		return m
	}
	for _, layout := range []string{"January", "Jan"} {
		if t, err := time.Parse(layout, s); err == nil {
			return int(t.Month())
		}
	}
	return 0
}
