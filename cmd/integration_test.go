package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/xuri/excelize/v2"
)

const energyCSV = `COUNTRY,YEAR,MONTH,PRODUCT,VALUE,BALANCE
Colombia,2013,1,Hydro,40,Net Electricity Production
Colombia,2014,1,Hydro,50,Net Electricity Production
Colombia,2014,1,Coal,10,Net Electricity Production
Colombia,2014,1,Solar,1,Net Electricity Production
Colombia,2022,1,Hydro,60,Net Electricity Production
Colombia,2022,1,Coal,20,Net Electricity Production
Colombia,2022,1,Solar,4,Net Electricity Production
Colombia,2022,1,Wind,2,Net Electricity Production
Brazil,2022,1,Hydro,90,Net Electricity Production
Brazil,2022,1,Coal,10,Net Electricity Production
`

// resetFlags clears values and Changed state that persist across invocations.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func runCmdErr(args ...string) (string, error) {
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCmdErr(args...)
	if err != nil {
		t.Fatalf("command %v failed: %v\n%s", args, err, out)
	}
	return out
}

// setupHome isolates config under a temp HOME and writes the sample dataset.
func setupHome(t *testing.T) (home, data string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	data = filepath.Join(home, "energy.csv")
	if err := os.WriteFile(data, []byte(energyCSV), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return home, data
}

func TestCLI_ConfigSetAndKPI(t *testing.T) {
	home, data := setupHome(t)

	runCmd(t, "config", "set", "data_path", data)
	if _, err := os.Stat(filepath.Join(home, ".energymix", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}
	out := runCmd(t, "config", "show")
	if !strings.Contains(out, "data_path: "+data) || !strings.Contains(out, "focus_country: Colombia") {
		t.Fatalf("config show:\n%s", out)
	}

	out = runCmd(t, "kpi")
	for _, want := range []string{"Total CO₂ Colombia", "% Energía Renovable", "Año Mayor Generación", "Total Generación"} {
		if !strings.Contains(out, want) {
			t.Fatalf("kpi output missing %q:\n%s", want, out)
		}
	}

	if !strings.Contains(out, "2022") {
		t.Fatalf("peak year missing:\n%s", out)
	}

	out = runCmd(t, "kpi", "--json", "--country", "Brazil")
	var res struct {
		Country string `json:"country"`
		KPIs    struct {
			TotalGeneration float64 `json:"total_generation"`
		} `json:"kpis"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("kpi json: %v\n%s", err, out)
	}
	if res.Country != "Brazil" || res.KPIs.TotalGeneration != 100 {
		t.Fatalf("kpi json = %+v", res)
	}
}

func TestCLI_ConfigSetRejectsBadValues(t *testing.T) {
	setupHome(t)
	for _, args := range [][]string{
		{"config", "set", "nope", "x"},
		{"config", "set", "simulation_fraction", "2"},
		{"config", "set", "share_mode", "sometimes"},
		{"config", "set", "chart_format", "gif"},
	} {
		if _, err := runCmdErr(args...); err == nil {
			t.Fatalf("%v: expected error", args)
		}
	}
}

func TestCLI_DerivedTables(t *testing.T) {
	_, data := setupHome(t)

	out := runCmd(t, "--data", data, "co2", "Brazil")
	if !strings.Contains(out, "Brazil") || !strings.Contains(out, "22") || !strings.Contains(out, "100.0%") {
		t.Fatalf("co2 output:\n%s", out)
	}

	out = runCmd(t, "--data", data, "mix")
	if !strings.Contains(out, "Hydro") || !strings.Contains(out, "2014") || strings.Contains(out, "2013") {
		t.Fatalf("mix output (start year 2014):\n%s", out)
	}

	out = runCmd(t, "--data", data, "--start-year", "2000", "mix")
	if !strings.Contains(out, "2013") {
		t.Fatalf("--start-year should keep 2013:\n%s", out)
	}

	out = runCmd(t, "--data", data, "heatmap")
	if !strings.Contains(out, "Share of generation in Colombia") || !strings.Contains(out, "derive") {
		t.Fatalf("heatmap output:\n%s", out)
	}

	out = runCmd(t, "--data", data, "simulate", "--fraction", "0.5", "--through", "2030")
	if !strings.Contains(out, "50% of fossil generation") || !strings.Contains(out, "Simulated CO₂") || !strings.Contains(out, "projected") {
		t.Fatalf("simulate output:\n%s", out)
	}
	if _, err := runCmdErr("--data", data, "simulate", "--fraction", "1.5"); err == nil {
		t.Fatal("expected fraction range error")
	}

	out = runCmd(t, "--data", data, "forecast", "--product", "Hydro", "--through", "2025", "--json")
	var fc struct {
		Rate   float64 `json:"rate"`
		Points []struct {
			Year int `json:"year"`
		} `json:"points"`
	}
	if err := json.Unmarshal([]byte(out), &fc); err != nil {
		t.Fatalf("forecast json: %v\n%s", err, out)
	}
	if fc.Rate <= 0 || len(fc.Points) != 5 || fc.Points[4].Year != 2025 {
		t.Fatalf("forecast = %+v", fc)
	}
	if _, err := runCmdErr("--data", data, "forecast", "--product", "Hydro", "--through", "2000000"); err == nil || !strings.Contains(err.Error(), "--through") {
		t.Fatalf("far horizon err = %v", err)
	}
	if _, err := runCmdErr("config", "set", "projection_through", "5000"); err == nil {
		t.Fatal("expected projection_through range error")
	}
	if _, err := runCmdErr("--data", data, "forecast", "--product", "Geothermal"); err == nil {
		t.Fatal("expected error for an absent product")
	}
}

func TestCLI_RenderAndExport(t *testing.T) {
	home, data := setupHome(t)

	png := filepath.Join(home, "mix.png")
	runCmd(t, "--data", data, "render", "energy-mix", "-o", png)
	b, err := os.ReadFile(png)
	if err != nil || !bytes.HasPrefix(b, []byte("\x89PNG")) {
		t.Fatalf("png not written: %v", err)
	}
	svg := filepath.Join(home, "heat.svg")
	runCmd(t, "--data", data, "render", "share-heatmap", "--format", "svg", "-o", svg)
	if b, err := os.ReadFile(svg); err != nil || !bytes.Contains(b, []byte("<svg")) {
		t.Fatalf("svg not written: %v", err)
	}
	if _, err := runCmdErr("--data", data, "render", "bogus"); err == nil {
		t.Fatal("expected unknown figure error")
	}

	xlsx := filepath.Join(home, "out.xlsx")
	runCmd(t, "--data", data, "export", "-o", xlsx, "--data-sheet")
	f, err := excelize.OpenFile(xlsx)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	if n := len(f.GetSheetList()); n != 6 {
		t.Fatalf("sheets = %v", f.GetSheetList())
	}
}

func TestCLI_DescribeAndProfiles(t *testing.T) {
	home, data := setupHome(t)

	out := runCmd(t, "--data", data, "describe", "--group-by", "product")
	if !strings.Contains(out, "[DATASET SUMMARY]") || !strings.Contains(out, "(Colombia)") {
		t.Fatalf("describe output:\n%s", out)
	}
	summary := filepath.Join(home, "summary.md")
	runCmd(t, "--data", data, "describe", "--all", "-o", summary)
	if b, err := os.ReadFile(summary); err != nil || !strings.Contains(string(b), "[SCHEMA]") {
		t.Fatalf("summary not written: %v", err)
	}

	out = runCmd(t, "profiles")
	if !strings.Contains(out, "emission-factor [tCO2e/unit] (active)") || !strings.Contains(out, "intensity-score") {
		t.Fatalf("profiles output:\n%s", out)
	}
	out = runCmd(t, "profiles", "intensity-score", "--yaml")
	if !strings.Contains(out, "keyword: oil") || strings.Contains(out, "emission-factor") {
		t.Fatalf("profiles yaml:\n%s", out)
	}
	if _, err := runCmdErr("--data", data, "--profile", "nope", "kpi"); err == nil {
		t.Fatal("expected unknown profile error")
	}
}

func TestCLI_MissingDataset(t *testing.T) {
	setupHome(t)
	if _, err := runCmdErr("kpi"); err == nil || !strings.Contains(err.Error(), "no dataset configured") {
		t.Fatalf("err = %v", err)
	}
	if _, err := runCmdErr("--data", "/nonexistent/energy.csv", "kpi"); err == nil {
		t.Fatal("expected load error")
	}
}

func TestCLI_ProfilesImport(t *testing.T) {
	home, data := setupHome(t)
	doc := `profiles:
  - name: grid-2023
    unit: tCO2e/GWh
    coefficients:
      - {keyword: coal, value: 1}
`
	p := filepath.Join(home, "profiles.yaml")
	if err := os.WriteFile(p, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	out := runCmd(t, "profiles", "--import", p)
	if !strings.Contains(out, "Imported 1 profile(s)") {
		t.Fatalf("import output:\n%s", out)
	}
	out = runCmd(t, "config", "show")
	if !strings.Contains(out, "coefficient_profiles: grid-2023") {
		t.Fatalf("config show:\n%s", out)
	}
	out = runCmd(t, "--data", data, "--profile", "grid-2023", "co2", "Brazil")
	if !strings.Contains(out, "grid-2023") || !strings.Contains(out, "10") {
		t.Fatalf("co2 with imported profile:\n%s", out)
	}
}
