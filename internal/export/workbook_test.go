package export

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/energymix-cli/internal/chart"
	"github.com/KaramelBytes/energymix-cli/internal/emission"
	"github.com/KaramelBytes/energymix-cli/internal/energy"
)

func sampleBuilder() *chart.Builder {
	tbl := energy.NewTable([]energy.Record{
		{Country: "Colombia", Year: 2020, Product: "Hydro", Value: 80},
		{Country: "Colombia", Year: 2020, Product: "Solar", Value: 10},
		{Country: "Colombia", Year: 2020, Product: "Wind", Value: 10},
		{Country: "Brazil", Year: 2020, Product: "Hydro", Value: 90},
		{Country: "Brazil", Year: 2020, Product: "Coal", Value: 10},
	})
	return chart.NewBuilder(tbl, emission.MustLookup(emission.EmissionFactor), "Colombia")
}

func TestSaveWorkbook(t *testing.T) {
	p := filepath.Join(t.TempDir(), "energymix.xlsx")
	if err := Save(p, sampleBuilder(), Options{Fraction: 0.3, IncludeData: true}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	f, err := excelize.OpenFile(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	want := []string{SheetKPIs, SheetMix, SheetShare, SheetCO2, SheetSimulation, SheetData}
	if got := f.GetSheetList(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("sheets = %v, want %v", got, want)
	}

	rows, err := f.GetRows(SheetCO2)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[0][0] != "COUNTRY" || rows[0][1] != "2020" {
		t.Fatalf("co2 rows = %v", rows)
	}
	if rows[1][0] != "Brazil" || rows[1][1] != "22" {
		t.Fatalf("Brazil row = %v", rows[1])
	}

	kpis, _ := f.GetRows(SheetKPIs)
	if len(kpis) != 5 || kpis[2][1] != "20.0%" {
		t.Fatalf("kpis = %v", kpis)
	}

	data, _ := f.GetRows(SheetData)
	if len(data) != 6 {
		t.Fatalf("data rows = %d, want header + 5", len(data))
	}
}

func TestWriteStreamsWorkbook(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleBuilder(), Options{Fraction: 0.5}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if len(f.GetSheetList()) != 5 {
		t.Fatalf("sheets = %v", f.GetSheetList())
	}
	sim, _ := f.GetRows(SheetSimulation)
	if len(sim) != 2 || sim[1][0] != "2020" {
		t.Fatalf("simulation = %v", sim)
	}
}
