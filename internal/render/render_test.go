package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/KaramelBytes/energymix-cli/internal/chart"
	"github.com/KaramelBytes/energymix-cli/internal/emission"
	"github.com/KaramelBytes/energymix-cli/internal/energy"
)

func sampleBuilder() *chart.Builder {
	var recs []energy.Record
	for y := 2014; y <= 2022; y++ {
		grow := float64(y - 2013)
		recs = append(recs,
			energy.Record{Country: "Colombia", Year: y, Product: "Hydro", Value: 100 + grow},
			energy.Record{Country: "Colombia", Year: y, Product: "Solar", Value: grow},
			energy.Record{Country: "Colombia", Year: y, Product: "Wind", Value: grow / 2},
			energy.Record{Country: "Colombia", Year: y, Product: "Coal", Value: 10 + grow},
			energy.Record{Country: "Brazil", Year: y, Product: "Coal", Value: 20},
		)
	}
	return chart.NewBuilder(energy.NewTable(recs), emission.MustLookup(emission.EmissionFactor), "Colombia")
}

func TestRenderEveryFigurePNG(t *testing.T) {
	b := sampleBuilder()
	for _, name := range chart.Names() {
		f, err := b.Build(name, chart.Query{Countries: []string{"Brazil"}, Fraction: 0.3, Through: 2030})
		if err != nil {
			t.Fatalf("Build(%s): %v", name, err)
		}
		var buf bytes.Buffer
		if err := Render(&buf, f, PNG, DefaultSize); err != nil {
			t.Fatalf("Render(%s): %v", name, err)
		}
		if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
			t.Fatalf("Render(%s) did not produce a PNG", name)
		}
	}
}

func TestRenderSVGAndPlaceholder(t *testing.T) {
	var buf bytes.Buffer
	f := chart.EmptyWithMessage("Sin datos", "cannot project series of 1 point(s)")
	if err := Render(&buf, f, SVG, Size{Width: DefaultSize.Width, Height: DefaultSize.Height}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Fatal("expected svg output")
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": PNG, "PNG": PNG, ".svg": SVG} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("gif"); err == nil {
		t.Fatal("expected error for gif")
	}
	if SVG.ContentType() != "image/svg+xml" || PNG.ContentType() != "image/png" {
		t.Fatal("content types")
	}
}

func TestYearTicksThin(t *testing.T) {
	ticks := yearTicks{max: 5}.Ticks(2014, 2050)
	var labelled int
	for _, tk := range ticks {
		if tk.Label != "" {
			labelled++
		}
	}
	if len(ticks) != 37 || labelled > 5 {
		t.Fatalf("ticks = %d labelled = %d", len(ticks), labelled)
	}
}

func TestParseHex(t *testing.T) {
	c, ok := parseHex("#1F77B4")
	if !ok || c.R != 0x1f || c.G != 0x77 || c.B != 0xb4 {
		t.Fatalf("parseHex = %v, %v", c, ok)
	}
	if _, ok := parseHex("blue"); ok {
		t.Fatal("expected failure")
	}
}
