package utils_test

import (
	"math"
	"testing"

	"github.com/KaramelBytes/energymix-cli/internal/utils"
)

func TestFormatThousands(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want string
	}{
		{"zero", 0, "0"},
		{"small", 999.4, "999"},
		{"grouped", 1234567.6, "1,234,568"},
		{"nan", math.NaN(), "N/A"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := utils.FormatThousands(c.in); got != c.want {
				t.Fatalf("FormatThousands(%v) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestFormatPercent(t *testing.T) {
	if got := utils.FormatPercent(12.345); got != "12.3%" {
		t.Fatalf("got %q", got)
	}
	if got := utils.FormatPercent(0); got != "0.0%" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatCell(t *testing.T) {
	cases := []struct {
		in       float64
		decimals int
		want     string
	}{
		{math.NaN(), 4, ""},
		{12.5, 4, "12.5"},
		{80, 4, "80"},
		{1.23456, 4, "1.2346"},
		{-0.00001, 2, "0"},
	}
	for _, c := range cases {
		if got := utils.FormatCell(c.in, c.decimals); got != c.want {
			t.Fatalf("FormatCell(%v, %d) = %q, want %q", c.in, c.decimals, got, c.want)
		}
	}
}

func TestTruncateLabel(t *testing.T) {
	if got := utils.TruncateLabel("Natural gas", 20); got != "Natural gas" {
		t.Fatalf("got %q", got)
	}
	if got := utils.TruncateLabel("Natural gas", 5); got != "Natu…" {
		t.Fatalf("got %q", got)
	}
	if got := utils.TruncateLabel("abc", 0); got != "" {
		t.Fatalf("got %q", got)
	}
}
