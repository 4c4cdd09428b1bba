package chart

import (
	"errors"
	"fmt"
	"strings"
)

// Query carries the user selections a figure may depend on.
type Query struct {
	Countries []string
	Fraction  float64
	Through   int
	Product   string
}

// ErrUnknownFigure is returned by Build for a name not in Names.
var ErrUnknownFigure = errors.New("unknown figure")

type figureFunc func(b *Builder, q Query) (*Figure, error)

var figures = []struct {
	name string
	fn   figureFunc
}{
	{"energy-mix", func(b *Builder, _ Query) (*Figure, error) { return b.EnergyMixArea() }},
	{"share-heatmap", func(b *Builder, _ Query) (*Figure, error) { return b.ShareHeatmap() }},
	{"solar-wind", func(b *Builder, _ Query) (*Figure, error) { return b.SolarWindLine() }},
	{"co2-comparison", func(b *Builder, q Query) (*Figure, error) { return b.CO2Comparison(q.Countries) }},
	{"co2-pie", func(b *Builder, q Query) (*Figure, error) { return b.CO2Pie(q.Countries) }},
	{"simulation", func(b *Builder, q Query) (*Figure, error) { return b.SimulationLines(q.Fraction) }},
	{"scenario-projection", func(b *Builder, q Query) (*Figure, error) { return b.ScenarioProjection(q.Fraction, q.Through) }},
	{"generation-forecast", func(b *Builder, q Query) (*Figure, error) {
		product := q.Product
		if product == "" {
			product = "Solar"
		}
		return b.GenerationForecast(product, q.Through)
	}},
}

// Names lists the figures Build accepts, in dashboard order.
func Names() []string {
	out := make([]string, len(figures))
	for i, f := range figures {
		out[i] = f.name
	}
	return out
}

// Build produces the named figure.
func (b *Builder) Build(name string, q Query) (*Figure, error) {
	for _, f := range figures {
		if strings.EqualFold(f.name, name) {
			return f.fn(b, q)
		}
	}
	return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownFigure, name, strings.Join(Names(), ", "))
}
