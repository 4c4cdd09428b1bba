package energy

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"sort"
)

// Point is one (year, value) observation of an annual series.
type Point struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// MaxProjectionYear is the latest year a projection horizon may reach.
const MaxProjectionYear = 2100

// ErrDegenerateSeries is matched by every *DegenerateSeriesError.
var ErrDegenerateSeries = errors.New("degenerate series")

// DegenerateSeriesError reports a history that cannot define a growth rate.
type DegenerateSeriesError struct {
	Reason string
	Points int
}

func (e *DegenerateSeriesError) Error() string {
	return fmt.Sprintf("cannot project series of %d point(s): %s", e.Points, e.Reason)
}

// Is lets errors.Is(err, ErrDegenerateSeries) match.
func (e *DegenerateSeriesError) Is(target error) bool { return target == ErrDegenerateSeries }

// Projection is a historical series extended at a constant compound rate.
type Projection struct {
	history []Point
	rate    float64
	through int
}

// Project derives rate = (last/first)^(1/(lastYear-firstYear)) - 1 from the
// sorted history and extends it year by year through throughYear. No years
// are projected when throughYear is not after the last historical year.
func Project(hist []Point, throughYear int) (*Projection, error) {
	pts := append([]Point(nil), hist...)
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Year < pts[j].Year })

	if len(pts) < 2 {
		return nil, &DegenerateSeriesError{Reason: "need at least 2 historical points", Points: len(pts)}
	}
	for i := 1; i < len(pts); i++ {
		if pts[i].Year == pts[i-1].Year {
			return nil, &DegenerateSeriesError{Reason: fmt.Sprintf("duplicate year %d", pts[i].Year), Points: len(pts)}
		}
	}
	first, last := pts[0], pts[len(pts)-1]
	if math.IsNaN(first.Value) || first.Value <= 0 {
		return nil, &DegenerateSeriesError{Reason: fmt.Sprintf("first value %v is not positive", first.Value), Points: len(pts)}
	}
	if math.IsNaN(last.Value) || last.Value < 0 {
		return nil, &DegenerateSeriesError{Reason: fmt.Sprintf("last value %v is negative or missing", last.Value), Points: len(pts)}
	}
	steps := float64(last.Year - first.Year)
	rate := math.Pow(last.Value/first.Value, 1/steps) - 1
	if n := throughYear - last.Year; n > 0 {
		if end := last.Value * math.Pow(1+rate, float64(n)); math.IsInf(end, 0) || math.IsNaN(end) {
			return nil, &DegenerateSeriesError{Reason: fmt.Sprintf("projection overflows before %d", throughYear), Points: len(pts)}
		}
	}
	return &Projection{history: pts, rate: rate, through: throughYear}, nil
}

// Rate is the constant annual growth rate.
func (p *Projection) Rate() float64 { return p.rate }

// LastHistoricalYear is the final observed year.
func (p *Projection) LastHistoricalYear() int { return p.history[len(p.history)-1].Year }

// All yields the history followed by projected years in ascending order.
// The sequence is finite and may be ranged over any number of times.
func (p *Projection) All() iter.Seq2[int, float64] {
	return func(yield func(int, float64) bool) {
		for _, pt := range p.history {
			if !yield(pt.Year, pt.Value) {
				return
			}
		}
		last := p.history[len(p.history)-1]
		v := last.Value
		for y := last.Year + 1; y <= p.through; y++ {
			v *= 1 + p.rate
			if !yield(y, v) {
				return
			}
		}
	}
}

// Projected yields only the years after the history.
func (p *Projection) Projected() iter.Seq2[int, float64] {
	return func(yield func(int, float64) bool) {
		lastYear := p.LastHistoricalYear()
		for y, v := range p.All() {
			if y <= lastYear {
				continue
			}
			if !yield(y, v) {
				return
			}
		}
	}
}

// Points materializes All.
func (p *Projection) Points() []Point {
	var out []Point
	for y, v := range p.All() {
		out = append(out, Point{Year: y, Value: v})
	}
	return out
}

// AnnualSeries extracts (year, value) points from a derived table grouped by
// year alone. Rows sharing a year are summed.
func AnnualSeries(d *Derived) []Point {
	byYear := map[int]float64{}
	var years []int
	for _, r := range d.Rows {
		if _, ok := byYear[r.Key.Year]; !ok {
			years = append(years, r.Key.Year)
			byYear[r.Key.Year] = 0
		}
		if !math.IsNaN(r.Value) {
			byYear[r.Key.Year] += r.Value
		}
	}
	sort.Ints(years)
	out := make([]Point, len(years))
	for i, y := range years {
		out[i] = Point{Year: y, Value: byYear[y]}
	}
	return out
}
