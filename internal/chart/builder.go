package chart

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/energymix-cli/internal/emission"
	"github.com/KaramelBytes/energymix-cli/internal/energy"
)

// DefaultMixProducts are the sources shown in the energy-mix charts.
var DefaultMixProducts = []string{"Hydro", "Solar", "Wind", "Natural gas", "Oil", "Coal"}

// Builder maps derived tables of one canonical table to figures. It holds
// no derived state; every call recomputes from Table.
type Builder struct {
	Table     *energy.Table
	Profile   emission.Profile
	Focus     string
	Products  []string
	ShareMode energy.ShareMode
}

// NewBuilder returns a builder with the default mix products and share mode.
func NewBuilder(t *energy.Table, p emission.Profile, focus string) *Builder {
	return &Builder{
		Table:     t,
		Profile:   p,
		Focus:     focus,
		Products:  append([]string(nil), DefaultMixProducts...),
		ShareMode: energy.ShareAuto,
	}
}

func (b *Builder) focus() *energy.Table {
	return energy.Country(b.Focus).Apply(b.Table)
}

func (b *Builder) focusMix() *energy.Table {
	return energy.Filter{Countries: []string{b.Focus}, Products: b.Products}.Apply(b.Table)
}

// KPIs computes the headline figures for the focus country.
func (b *Builder) KPIs() energy.KPIs {
	return energy.ComputeKPIs(b.focus())
}

// seriesFromPivot turns each matrix row into a series over the columns.
func seriesFromPivot(m *energy.Matrix, order []string) []Series {
	rank := map[string]int{}
	for i, p := range order {
		rank[strings.ToLower(p)] = i + 1
	}
	var out []Series
	for i, row := range m.Rows {
		s := Series{Name: row, Color: productColors[strings.ToLower(row)]}
		for j, col := range m.Cols {
			if v := m.Cells[i][j]; !math.IsNaN(v) {
				s.Points = append(s.Points, Point{Label: col, Value: v})
			}
		}
		out = append(out, s)
	}
	if len(rank) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			ri, rj := rank[strings.ToLower(out[i].Name)], rank[strings.ToLower(out[j].Name)]
			if ri == 0 {
				ri = len(rank) + 1
			}
			if rj == 0 {
				rj = len(rank) + 1
			}
			return ri < rj
		})
	}
	return out
}

// EnergyMixArea stacks yearly generation per source for the focus country.
func (b *Builder) EnergyMixArea() (*Figure, error) {
	title := fmt.Sprintf("Matriz energética de %s por fuente", b.Focus)
	t := b.focusMix()
	if t.Len() == 0 {
		return Empty(title), nil
	}
	m, err := energy.Pivot(t, energy.FieldProduct, energy.FieldYear, energy.Generation, energy.AggSum)
	if err != nil {
		return nil, err
	}
	m.FillZero()
	f := newFigure(KindArea, title)
	f.XAxis, f.YAxis = "Año", "VALUE"
	f.Series = seriesFromPivot(m, b.Products)
	assignColors(f)
	return f, nil
}

// ShareHeatmap shows each source's share of yearly generation, rows ordered
// by mean share and rounded to 4 decimals.
func (b *Builder) ShareHeatmap() (*Figure, error) {
	t := b.focusMix()
	m, err := b.shareMatrix(t)
	if err != nil {
		return nil, err
	}
	if m.Empty() {
		return Empty(fmt.Sprintf("No hay datos disponibles para el heatmap (%s)", b.Focus)), nil
	}
	first, last, _ := b.Table.YearRange()
	f := newFigure(KindHeatmap, fmt.Sprintf("Participación promedio anual de cada fuente energética en %s (%d-%d)", b.Focus, first, last))
	f.XAxis, f.YAxis = "Año", "Fuente energética"
	hm := &Heatmap{Rows: m.Rows, Cols: m.Cols, Label: "Participación (%)"}
	for _, row := range m.Cells {
		z := make([]*float64, len(row))
		for j, v := range row {
			z[j] = cellPtr(v)
		}
		hm.Z = append(hm.Z, z)
	}
	f.Heatmap = hm
	return f, nil
}

func (b *Builder) shareMatrix(t *energy.Table) (*energy.Matrix, error) {
	shared, err := energy.WithShare(t, []energy.Field{energy.FieldYear}, b.ShareMode)
	if err != nil {
		return nil, err
	}
	m, err := energy.Pivot(shared, energy.FieldProduct, energy.FieldYear, energy.ShareMeasure, energy.AggMean)
	if err != nil {
		return nil, err
	}
	m.SortRowsByMeanDesc()
	m.Round(4)
	return m, nil
}

// ShareMatrix exposes the heatmap's matrix for export.
func (b *Builder) ShareMatrix() (*energy.Matrix, error) {
	return b.shareMatrix(b.focusMix())
}

// MixMatrix exposes the energy-mix totals (product x year) for export.
func (b *Builder) MixMatrix() (*energy.Matrix, error) {
	return energy.Pivot(b.focusMix(), energy.FieldProduct, energy.FieldYear, energy.Generation, energy.AggSum)
}

// SolarWindLine compares yearly Solar and Wind generation.
func (b *Builder) SolarWindLine() (*Figure, error) {
	title := fmt.Sprintf("Generación Solar vs Wind en %s", b.Focus)
	t := energy.Filter{Countries: []string{b.Focus}, Products: energy.RenewableProducts}.Apply(b.Table)
	if t.Len() == 0 {
		return Empty(title), nil
	}
	m, err := energy.Pivot(t, energy.FieldProduct, energy.FieldYear, energy.Generation, energy.AggSum)
	if err != nil {
		return nil, err
	}
	f := newFigure(KindLine, title)
	f.XAxis, f.YAxis = "YEAR", "VALUE"
	f.Series = seriesFromPivot(m, energy.RenewableProducts)
	assignColors(f)
	return f, nil
}

const co2ComparisonTitle = "Comparación de emisiones de CO₂"

// CO2Comparison plots yearly estimated CO2 per country for the selection
// plus the focus country. An empty selection yields a placeholder.
func (b *Builder) CO2Comparison(countries []string) (*Figure, error) {
	sel := cleanSelection(countries)
	if len(sel) == 0 {
		return Empty(co2ComparisonTitle), nil
	}
	t := energy.Filter{Countries: append(sel, b.Focus)}.Apply(b.Table)
	if t.Len() == 0 {
		return Empty(co2ComparisonTitle), nil
	}
	m, err := energy.Pivot(t, energy.FieldCountry, energy.FieldYear, energy.CO2(b.Profile), energy.AggSum)
	if err != nil {
		return nil, err
	}
	f := newFigure(KindLine, co2ComparisonTitle)
	f.XAxis, f.YAxis = "YEAR", "CO2_PRODUCTION"
	f.Series = seriesFromPivot(m, nil)
	assignColors(f)
	return f, nil
}

const co2PieTitle = "Proporción de CO₂ por país"

// CO2Pie splits total estimated CO2 among the selected countries.
func (b *Builder) CO2Pie(countries []string) (*Figure, error) {
	sel := cleanSelection(countries)
	if len(sel) == 0 {
		return Empty(co2PieTitle), nil
	}
	t := energy.Filter{Countries: sel}.Apply(b.Table)
	if t.Len() == 0 {
		return Empty(co2PieTitle), nil
	}
	d, err := energy.Aggregate(t, []energy.Field{energy.FieldCountry}, energy.CO2(b.Profile), energy.AggSum)
	if err != nil {
		return nil, err
	}
	f := newFigure(KindPie, co2PieTitle)
	s := Series{Name: "CO2_PRODUCTION"}
	for _, r := range d.Rows {
		s.Points = append(s.Points, Point{Label: r.Key.Country, Value: r.Value})
	}
	f.Series = []Series{s}
	assignColors(f)
	return f, nil
}

func cleanSelection(countries []string) []string {
	var out []string
	for _, c := range countries {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func yearSeries(name string, pts []energy.Point) Series {
	s := Series{Name: name}
	for _, p := range pts {
		if !math.IsNaN(p.Value) {
			s.Points = append(s.Points, Point{Label: strconv.Itoa(p.Year), Value: p.Value})
		}
	}
	return s
}

// SimulationLines compares yearly CO2 of the focus country before and after
// reallocating fraction of fossil generation to Solar and Wind.
func (b *Builder) SimulationLines(fraction float64) (*Figure, error) {
	title := fmt.Sprintf("CO₂ de %s: reasignación de %.0f%% fósil a solar y eólica", b.Focus, fraction*100)
	s, err := energy.Simulate(b.focus(), b.Profile, fraction)
	if err != nil {
		return nil, err
	}
	if len(s.Years) == 0 {
		return Empty(title), nil
	}
	f := newFigure(KindLine, title)
	f.XAxis, f.YAxis = "YEAR", "CO2 ("+b.Profile.Unit+")"
	f.Series = []Series{
		yearSeries("Línea base", s.BaselineSeries()),
		yearSeries("Simulado", s.SimulatedSeries()),
	}
	assignColors(f)
	return f, nil
}

// ScenarioProjection extends baseline and simulated CO2 through the given year.
// A history that cannot be projected yields a placeholder with the reason.
func (b *Builder) ScenarioProjection(fraction float64, through int) (*Figure, error) {
	title := fmt.Sprintf("Proyección de CO₂ de %s hasta %d", b.Focus, through)
	s, err := energy.Simulate(b.focus(), b.Profile, fraction)
	if err != nil {
		return nil, err
	}
	if len(s.Years) == 0 {
		return Empty(title), nil
	}
	sp, err := energy.ProjectScenario(s, through)
	if errors.Is(err, energy.ErrDegenerateSeries) {
		return EmptyWithMessage(title, err.Error()), nil
	}
	if err != nil {
		return nil, err
	}
	f := newFigure(KindLine, title)
	f.XAxis, f.YAxis = "YEAR", "CO2 ("+b.Profile.Unit+")"
	f.Series = []Series{
		yearSeries("Línea base", sp.Baseline.Points()),
		yearSeries("Simulado", sp.Simulated.Points()),
	}
	f.Series[1].Dashed = true
	assignColors(f)
	return f, nil
}

// GenerationForecast projects yearly generation of one product for the
// focus country at its historical compound rate.
func (b *Builder) GenerationForecast(product string, through int) (*Figure, error) {
	title := fmt.Sprintf("Proyección de generación %s en %s hasta %d", product, b.Focus, through)
	t := energy.Filter{Countries: []string{b.Focus}, Products: []string{product}}.Apply(b.Table)
	if t.Len() == 0 {
		return Empty(title), nil
	}
	d, err := energy.Aggregate(t, []energy.Field{energy.FieldYear}, energy.Generation, energy.AggSum)
	if err != nil {
		return nil, err
	}
	hist := energy.AnnualSeries(d)
	p, err := energy.Project(hist, through)
	if errors.Is(err, energy.ErrDegenerateSeries) {
		return EmptyWithMessage(title, err.Error()), nil
	}
	if err != nil {
		return nil, err
	}
	last := p.LastHistoricalYear()
	var projected []energy.Point
	for y, v := range p.All() {
		if y >= last {
			projected = append(projected, energy.Point{Year: y, Value: v})
		}
	}
	f := newFigure(KindLine, title)
	f.XAxis, f.YAxis = "YEAR", "VALUE"
	f.Series = []Series{
		yearSeries("Histórico", hist),
		yearSeries(fmt.Sprintf("Proyección (%.1f%%/año)", p.Rate()*100), projected),
	}
	f.Series[1].Dashed = true
	assignColors(f)
	return f, nil
}
