package chart

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/energymix-cli/internal/emission"
	"github.com/KaramelBytes/energymix-cli/internal/energy"
)

func rec(country string, year int, product string, value float64) energy.Record {
	return energy.Record{Country: country, Year: year, Product: product, Value: value}
}

func endToEndBuilder(t *testing.T) *Builder {
	t.Helper()
	p, err := emission.NewProfile("e2e", "t",
		emission.Coefficient{Keyword: "hydro", Value: 0},
		emission.Coefficient{Keyword: "solar", Value: 0},
		emission.Coefficient{Keyword: "wind", Value: 0},
		emission.Coefficient{Keyword: "coal", Value: 2.2},
	)
	if err != nil {
		t.Fatal(err)
	}
	tbl := energy.NewTable([]energy.Record{
		rec("Colombia", 2020, "Hydro", 80),
		rec("Colombia", 2020, "Solar", 10),
		rec("Colombia", 2020, "Wind", 10),
		rec("Brazil", 2020, "Hydro", 90),
		rec("Brazil", 2020, "Coal", 10),
	})
	return NewBuilder(tbl, p, "Colombia")
}

func TestCO2ComparisonAddsFocusCountry(t *testing.T) {
	b := endToEndBuilder(t)
	f, err := b.CO2Comparison([]string{"Brazil"})
	if err != nil {
		t.Fatalf("CO2Comparison: %v", err)
	}
	if f.Kind != KindLine || len(f.Series) != 2 {
		t.Fatalf("figure = %+v", f)
	}
	want := map[string]float64{"Colombia": 0, "Brazil": 22}
	for country, w := range want {
		s, ok := f.SeriesByName(country)
		if !ok {
			t.Fatalf("missing series %s", country)
		}
		v, ok := s.Value("2020")
		if !ok || math.Abs(v-w) > 1e-9 {
			t.Fatalf("%s 2020 = %v, want %v", country, v, w)
		}
	}
}

func TestCO2PieUsesSelectionOnly(t *testing.T) {
	b := endToEndBuilder(t)
	f, err := b.CO2Pie([]string{"Brazil"})
	if err != nil {
		t.Fatal(err)
	}
	if f.Kind != KindPie || len(f.Series) != 1 || len(f.Series[0].Points) != 1 {
		t.Fatalf("pie = %+v", f)
	}
	if p := f.Series[0].Points[0]; p.Label != "Brazil" || math.Abs(p.Value-22) > 1e-9 {
		t.Fatalf("slice = %+v", p)
	}
}

func TestEmptySelectionYieldsPlaceholder(t *testing.T) {
	b := endToEndBuilder(t)
	for _, sel := range [][]string{nil, {}, {"  "}} {
		for _, build := range []func([]string) (*Figure, error){b.CO2Comparison, b.CO2Pie} {
			f, err := build(sel)
			if err != nil {
				t.Fatalf("err = %v", err)
			}
			if !f.IsEmpty() || f.Kind != KindEmpty || len(f.Series) != 0 {
				t.Fatalf("figure = %+v, want empty", f)
			}
		}
	}
	f, _ := b.CO2Pie([]string{"Atlantis"})
	if !f.IsEmpty() {
		t.Fatal("unknown country should give an empty figure")
	}
}

func TestEnergyMixAreaZeroFillsAndOrders(t *testing.T) {
	tbl := energy.NewTable([]energy.Record{
		rec("Colombia", 2020, "Coal", 5),
		rec("Colombia", 2020, "Hydro", 80),
		rec("Colombia", 2021, "Hydro", 70),
		rec("Colombia", 2021, "Geothermal", 1),
		rec("Brazil", 2021, "Hydro", 99),
	})
	b := NewBuilder(tbl, emission.MustLookup(emission.EmissionFactor), "Colombia")
	f, err := b.EnergyMixArea()
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Series) != 2 || f.Series[0].Name != "Hydro" || f.Series[1].Name != "Coal" {
		t.Fatalf("series = %+v", f.Series)
	}
	coal := f.Series[1]
	if v, ok := coal.Value("2021"); !ok || v != 0 {
		t.Fatalf("Coal 2021 = %v, %v; want zero-filled", v, ok)
	}
	if v, _ := f.Series[0].Value("2021"); v != 70 {
		t.Fatalf("Hydro 2021 = %v", v)
	}
}

func TestShareHeatmap(t *testing.T) {
	tbl := energy.NewTable([]energy.Record{
		rec("Colombia", 2020, "Hydro", 2),
		rec("Colombia", 2020, "Solar", 1),
		rec("Colombia", 2021, "Hydro", 3),
		rec("Colombia", 2021, "Wind", 1),
	})
	b := NewBuilder(tbl, emission.MustLookup(emission.EmissionFactor), "Colombia")
	f, err := b.ShareHeatmap()
	if err != nil {
		t.Fatal(err)
	}
	hm := f.Heatmap
	if f.Kind != KindHeatmap || hm == nil {
		t.Fatalf("figure = %+v", f)
	}
	if strings.Join(hm.Rows, ",") != "Hydro,Solar,Wind" {
		t.Fatalf("rows = %v", hm.Rows)
	}
	if *hm.Z[0][0] != 66.6667 || *hm.Z[1][0] != 33.3333 {
		t.Fatalf("z = %v %v", *hm.Z[0][0], *hm.Z[1][0])
	}
	if hm.Z[1][1] != nil {
		t.Fatal("Solar 2021 should be absent")
	}
	if !strings.Contains(f.Title, "(2020-2021)") {
		t.Fatalf("title = %q", f.Title)
	}
	if _, err := json.Marshal(f); err != nil {
		t.Fatalf("figure must be JSON-encodable: %v", err)
	}

	empty := NewBuilder(energy.NewTable(nil), emission.MustLookup(emission.EmissionFactor), "Colombia")
	if f, err := empty.ShareHeatmap(); err != nil || !f.IsEmpty() {
		t.Fatalf("empty heatmap = %+v, %v", f, err)
	}
}

func TestSolarWindLine(t *testing.T) {
	tbl := energy.NewTable([]energy.Record{
		rec("Colombia", 2020, "Wind", 3),
		rec("Colombia", 2020, "Solar", 1),
		rec("Colombia", 2021, "Solar", 2),
		rec("Colombia", 2021, "Hydro", 50),
	})
	f, err := NewBuilder(tbl, emission.MustLookup(emission.EmissionFactor), "Colombia").SolarWindLine()
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Series) != 2 || f.Series[0].Name != "Solar" || len(f.Series[1].Points) != 1 {
		t.Fatalf("series = %+v", f.Series)
	}
}

func TestSimulationAndProjections(t *testing.T) {
	tbl := energy.NewTable([]energy.Record{
		rec("Colombia", 2014, "Coal", 10),
		rec("Colombia", 2014, "Hydro", 50),
		rec("Colombia", 2022, "Coal", 20),
		rec("Colombia", 2022, "Hydro", 60),
	})
	b := NewBuilder(tbl, emission.MustLookup(emission.EmissionFactor), "Colombia")

	f, err := b.SimulationLines(0.5)
	if err != nil {
		t.Fatal(err)
	}
	base, _ := f.SeriesByName("Línea base")
	sim, _ := f.SeriesByName("Simulado")
	if v, _ := base.Value("2022"); math.Abs(v-44) > 1e-9 {
		t.Fatalf("baseline 2022 = %v", v)
	}
	if v, _ := sim.Value("2022"); math.Abs(v-22) > 1e-9 {
		t.Fatalf("simulated 2022 = %v", v)
	}
	if _, err := b.SimulationLines(2); !errors.Is(err, energy.ErrFractionOutOfRange) {
		t.Fatalf("err = %v", err)
	}

	f, err = b.ScenarioProjection(0.5, 2030)
	if err != nil {
		t.Fatal(err)
	}
	if s, _ := f.SeriesByName("Simulado"); len(s.Points) != 10 {
		t.Fatalf("projected points = %d, want 10", len(s.Points))
	}

	f, err = b.ScenarioProjection(1, 2030)
	if err != nil || !f.IsEmpty() || f.Message == "" {
		t.Fatalf("zeroed scenario = %+v, %v", f, err)
	}

	f, err = b.GenerationForecast("Hydro", 2024)
	if err != nil {
		t.Fatal(err)
	}
	proj := f.Series[1]
	if len(proj.Points) != 3 || proj.Points[0].Label != "2022" {
		t.Fatalf("forecast = %+v", proj)
	}
	f, _ = b.GenerationForecast("Solar", 2030)
	if !f.IsEmpty() {
		t.Fatal("absent product should give a placeholder")
	}
}

func TestBuildByName(t *testing.T) {
	b := endToEndBuilder(t)
	for _, name := range Names() {
		f, err := b.Build(name, Query{Countries: []string{"Brazil"}, Fraction: 0.3, Through: 2030})
		if err != nil {
			t.Fatalf("Build(%s): %v", name, err)
		}
		if f.ID == "" {
			t.Fatalf("Build(%s) has no id", name)
		}
	}
	if _, err := b.Build("nope", Query{}); !errors.Is(err, ErrUnknownFigure) {
		t.Fatalf("err = %v", err)
	}
}
