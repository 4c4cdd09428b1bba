package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/energymix-cli/internal/emission"
)

func TestLoadDefaultsAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ENERGYMIX_FOCUS_COUNTRY", "Brazil")
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.FocusCountry != "Brazil" {
		t.Fatalf("focus_country = %q, want env override", c.FocusCountry)
	}
	if c.StartYear != 2014 || c.PageSize != 20 || c.ListenAddr != ":8050" || c.ProjectionThrough != 2050 {
		t.Fatalf("defaults = %+v", c)
	}
	if c.CoefficientProfile != emission.EmissionFactor || c.ShareMode != "auto" || c.SimulationFraction != 0.3 {
		t.Fatalf("defaults = %+v", c)
	}
	if len(c.MixProducts) != 6 {
		t.Fatalf("mix_products = %v", c.MixProducts)
	}
}

func TestSaveAndReload(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	p := filepath.Join(t.TempDir(), "config.yaml")
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	c.DataPath = "data/energy.csv"
	c.StartYear = 2016
	c.CoefficientProfiles = []emission.Profile{{
		Name: "grid", Unit: "t/GWh",
		Coefficients: []emission.Coefficient{{Keyword: "coal", Value: 1.02}, {Keyword: "gas", Value: 0.4}},
	}}
	if err := Save(c, p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(p)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.DataPath != "data/energy.csv" || got.StartYear != 2016 {
		t.Fatalf("reloaded = %+v", got)
	}
	if len(got.CoefficientProfiles) != 1 || got.CoefficientProfiles[0].Coefficients[1].Keyword != "gas" {
		t.Fatalf("profiles = %+v", got.CoefficientProfiles)
	}
	if err := got.RegisterProfiles(); err != nil {
		t.Fatal(err)
	}
	got.CoefficientProfile = "GRID"
	prof, err := got.Profile()
	if err != nil || prof.CoefficientFor("Coal") != 1.02 {
		t.Fatalf("profile = %+v, %v", prof, err)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cases := map[string]string{
		"share":    "share_mode: sometimes\n",
		"fraction": "simulation_fraction: 1.5\n",
		"page":     "page_size: 0\n",
		"format":   "chart_format: gif\n",
		"through":  "projection_through: 3000\n",
	}
	for name, body := range cases {
		p := filepath.Join(t.TempDir(), name+".yaml")
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(p); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("explicit missing config file should fail")
	}
}
