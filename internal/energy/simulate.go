package energy

import (
	"errors"
	"math"
	"strings"

	"github.com/KaramelBytes/energymix-cli/internal/emission"
)

// ErrFractionOutOfRange is returned for a reallocation fraction outside [0, 1].
var ErrFractionOutOfRange = errors.New("reallocation fraction must be within [0, 1]")

// Product labels the simulation recognizes. Matching is case-insensitive.
var (
	FossilProducts    = []string{"Coal", "Oil", "Natural gas"}
	RenewableProducts = []string{"Solar", "Wind"}
)

// YearOutcome is the simulated state of one year.
type YearOutcome struct {
	Year      int     `json:"year"`
	Moved     float64 `json:"moved"`         // generation reallocated from fossil to renewable
	Baseline  float64 `json:"co2_baseline"`  // CO2 of the unmodified annual mix
	Simulated float64 `json:"co2_simulated"` // CO2 after reallocation
}

// Scenario is the result of reallocating a fraction of fossil generation to
// Solar and Wind. It is derived on demand and shares nothing with the source
// table.
type Scenario struct {
	Fraction float64
	Profile  string
	// Annual holds the reallocated (year, product) generation.
	Annual *Table
	Years  []YearOutcome
}

// ByYear returns the outcome of year y.
func (s *Scenario) ByYear(y int) (YearOutcome, bool) {
	for _, o := range s.Years {
		if o.Year == y {
			return o, true
		}
	}
	return YearOutcome{}, false
}

// BaselineSeries returns the per-year CO2 before reallocation.
func (s *Scenario) BaselineSeries() []Point {
	out := make([]Point, len(s.Years))
	for i, o := range s.Years {
		out[i] = Point{Year: o.Year, Value: o.Baseline}
	}
	return out
}

// SimulatedSeries returns the per-year CO2 after reallocation.
func (s *Scenario) SimulatedSeries() []Point {
	out := make([]Point, len(s.Years))
	for i, o := range s.Years {
		out[i] = Point{Year: o.Year, Value: o.Simulated}
	}
	return out
}

// isOneOf matches whole labels case-insensitively. Unlike coefficient
// lookup it does not match substrings: only the canonical source labels
// ("Coal", "Natural gas", "Solar", ...) take part in reallocation, so a
// label such as "Natural gas (CCGT)" is priced for CO2 but never moved.
func isOneOf(product string, labels []string) bool {
	for _, l := range labels {
		if strings.EqualFold(strings.TrimSpace(product), l) {
			return true
		}
	}
	return false
}

// Simulate moves fraction of each year's fossil generation to Solar and Wind
// in equal halves and recomputes CO2 with p. Records are first collapsed to
// annual (year, product) sums, so callers wanting one country filter before
// calling. Years are independent. Net generation per year is unchanged.
func Simulate(t *Table, p emission.Profile, fraction float64) (*Scenario, error) {
	if math.IsNaN(fraction) || fraction < 0 || fraction > 1 {
		return nil, ErrFractionOutOfRange
	}
	annual, err := Aggregate(t, []Field{FieldYear, FieldProduct}, Generation, AggSum)
	if err != nil {
		return nil, err
	}
	co2 := CO2(p)

	var (
		out   []Record
		years []YearOutcome
	)
	for _, part := range annual.PartitionBy(FieldYear) {
		year := part.Rows[0].Key.Year
		o := YearOutcome{Year: year}

		var fossil float64
		for _, r := range part.Rows {
			if isOneOf(r.Key.Product, FossilProducts) {
				fossil += r.Value
			}
		}
		o.Moved = fossil * fraction

		seen := map[string]bool{}
		for _, r := range part.Rows {
			rec := Record{Year: year, Product: r.Key.Product, Value: r.Value, Share: math.NaN()}
			o.Baseline += co2(rec)
			switch {
			case isOneOf(rec.Product, FossilProducts):
				rec.Value *= 1 - fraction
			case isOneOf(rec.Product, RenewableProducts):
				seen[strings.ToLower(rec.Product)] = true
				rec.Value += o.Moved / 2
			}
			o.Simulated += co2(rec)
			out = append(out, rec)
		}
		if o.Moved > 0 {
			for _, name := range RenewableProducts {
				if seen[strings.ToLower(name)] {
					continue
				}
				rec := Record{Year: year, Product: name, Value: o.Moved / 2, Share: math.NaN()}
				o.Simulated += co2(rec)
				out = append(out, rec)
			}
		}
		years = append(years, o)
	}
	return &Scenario{
		Fraction: fraction,
		Profile:  p.Name,
		Annual:   NewTable(out),
		Years:    years,
	}, nil
}

// ScenarioProjection extends both CO2 series of a scenario forward.
type ScenarioProjection struct {
	Baseline  *Projection
	Simulated *Projection
}

// ProjectScenario projects baseline and simulated CO2 through throughYear.
// Either side fails with a *DegenerateSeriesError when its history cannot
// define a rate, e.g. a scenario whose fraction zeroes out all emissions.
func ProjectScenario(s *Scenario, throughYear int) (*ScenarioProjection, error) {
	base, err := Project(s.BaselineSeries(), throughYear)
	if err != nil {
		return nil, err
	}
	sim, err := Project(s.SimulatedSeries(), throughYear)
	if err != nil {
		return nil, err
	}
	return &ScenarioProjection{Baseline: base, Simulated: sim}, nil
}
