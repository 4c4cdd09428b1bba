package emission

import (
	"errors"
	"strings"
	"testing"
)

func TestCoefficientForCaseInsensitiveSubstring(t *testing.T) {
	p, err := Lookup(EmissionFactor)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	want := 1.60
	for _, label := range []string{"Natural Gas", "NATURAL GAS", "Gas Natural... natural gas plant", "natural gas"} {
		if got := p.CoefficientFor(label); got != want {
			t.Fatalf("CoefficientFor(%q) = %v, want %v", label, got, want)
		}
	}
}

func TestCoefficientForMissingAndUnknown(t *testing.T) {
	p, _ := Lookup(EmissionFactor)
	if got := p.CoefficientFor(""); got != 0 {
		t.Fatalf("missing product = %v, want 0", got)
	}
	if got := p.CoefficientFor("   "); got != 0 {
		t.Fatalf("blank product = %v, want 0", got)
	}
	if got := p.CoefficientFor("Geothermal"); got != 0 {
		t.Fatalf("Geothermal = %v, want 0", got)
	}
	if p.Matches("Geothermal") {
		t.Fatalf("Geothermal should not match any keyword")
	}
	if !p.Matches("Hydro") {
		t.Fatalf("Hydro should match the hydro keyword")
	}
}

func TestCoefficientForDeclaredOrderWins(t *testing.T) {
	p, err := NewProfile("order", "",
		Coefficient{Keyword: "oil", Value: 2},
		Coefficient{Keyword: "coal", Value: 3},
	)
	if err != nil {
		t.Fatalf("new profile: %v", err)
	}
	if got := p.CoefficientFor("Coal and oil blend"); got != 2 {
		t.Fatalf("first declared keyword should win, got %v", got)
	}
}

func TestProfilesAreSeparate(t *testing.T) {
	ef, _ := Lookup(EmissionFactor)
	is, _ := Lookup(IntensityScore)
	if ef.CoefficientFor("Coal") == is.CoefficientFor("Coal") {
		t.Fatalf("profiles should carry different coal coefficients")
	}
	if strings.Join(ef.Keywords(), ",") != strings.Join(is.Keywords(), ",") {
		t.Fatalf("built-in profiles should share keywords: %v vs %v", ef.Keywords(), is.Keywords())
	}
}

func TestLookupUnknownProfile(t *testing.T) {
	_, err := Lookup("nope")
	if !errors.Is(err, ErrUnknownProfile) {
		t.Fatalf("err = %v, want ErrUnknownProfile", err)
	}
	p, err := Lookup("EMISSION-FACTOR")
	if err != nil || p.Name != EmissionFactor {
		t.Fatalf("case-insensitive lookup failed: %v %v", p.Name, err)
	}
}

func TestNewProfileRejectsEmptyKeyword(t *testing.T) {
	if _, err := NewProfile("x", "", Coefficient{Keyword: " "}); err == nil {
		t.Fatalf("expected error for empty keyword")
	}
}

func TestLoadProfilesYAMLPreservesOrder(t *testing.T) {
	doc := `profiles:
  - name: custom
    unit: tCO2e/GWh
    coefficients:
      - {keyword: Natural, value: 0.5}
      - {keyword: natural gas, value: 0.9}
`
	ps, err := LoadProfilesYAML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(ps) != 1 {
		t.Fatalf("profiles = %d, want 1", len(ps))
	}
	if got := ps[0].CoefficientFor("Natural gas"); got != 0.5 {
		t.Fatalf("first keyword should win, got %v", got)
	}
	b, err := MarshalProfilesYAML(ps)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), "keyword: natural") {
		t.Fatalf("marshalled yaml missing lowercased keyword: %s", b)
	}
}
