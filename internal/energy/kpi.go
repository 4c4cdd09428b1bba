package energy

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/energymix-cli/internal/utils"
)

// KPIs are the headline figures shown above the energy-mix charts.
type KPIs struct {
	TotalCO2        float64 `json:"total_co2"`
	TotalGeneration float64 `json:"total_generation"`
	RenewablePct    float64 `json:"renewable_pct"`
	PeakYear        int     `json:"peak_year,omitempty"`
	HasPeakYear     bool    `json:"has_peak_year"`
}

func isCO2Label(product string) bool {
	switch strings.ToUpper(strings.TrimSpace(product)) {
	case "CO2", "CO₂":
		return true
	}
	return false
}

// ComputeKPIs summarizes t, usually already filtered to one country.
// Total CO2 reads rows whose product is the reported CO2 series rather than
// estimating it from coefficients.
func ComputeKPIs(t *Table) KPIs {
	var k KPIs
	var renewable float64
	perYear := map[int]float64{}
	var years []int
	for _, r := range t.All() {
		if _, ok := perYear[r.Year]; !ok {
			years = append(years, r.Year)
			perYear[r.Year] = 0
		}
		if math.IsNaN(r.Value) {
			continue
		}
		k.TotalGeneration += r.Value
		perYear[r.Year] += r.Value
		if isCO2Label(r.Product) {
			k.TotalCO2 += r.Value
		}
		if isOneOf(r.Product, RenewableProducts) {
			renewable += r.Value
		}
	}
	if k.TotalGeneration > 0 {
		k.RenewablePct = renewable / k.TotalGeneration * 100
	}
	// First maximum in ascending year order.
	sort.Ints(years)
	for _, y := range years {
		if !k.HasPeakYear || perYear[y] > perYear[k.PeakYear] {
			k.PeakYear = y
			k.HasPeakYear = true
		}
	}
	return k
}

// Card is one rendered KPI.
type Card struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// Cards renders the KPIs for display, titled for the given country.
func (k KPIs) Cards(country string) []Card {
	peak := "N/A"
	if k.HasPeakYear {
		peak = strconv.Itoa(k.PeakYear)
	}
	return []Card{
		{Title: "Total CO₂ " + country, Value: utils.FormatThousands(k.TotalCO2)},
		{Title: "% Energía Renovable", Value: utils.FormatPercent(k.RenewablePct)},
		{Title: "Año Mayor Generación", Value: peak},
		{Title: "Total Generación", Value: utils.FormatThousands(k.TotalGeneration)},
	}
}
