package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/energymix-cli/internal/energy"
)

func sampleTable() *energy.Table {
	return energy.NewTable([]energy.Record{
		{Country: "Colombia", Year: 2020, Month: 1, Product: "Hydro", Value: 10},
		{Country: "Colombia", Year: 2020, Month: 2, Product: "Hydro", Value: 20},
		{Country: "Colombia", Year: 2021, Month: 1, Product: "Solar", Value: 30},
		{Country: "Colombia", Year: 2021, Month: 2, Product: "Solar", Value: 40},
		{Country: "Colombia", Year: 2022, Month: 1, Product: "Wind", Value: math.NaN()},
	})
}

func TestDescribeMatchesPandasStatistics(t *testing.T) {
	rep := Describe("sample", sampleTable(), DefaultOptions())
	var value *ColumnSummary
	for i := range rep.Cols {
		if rep.Cols[i].Name == "VALUE" {
			value = &rep.Cols[i]
		}
	}
	if value == nil {
		t.Fatalf("VALUE column missing: %+v", rep.Cols)
	}
	s := value.Stats
	if s.Count != 4 || s.Mean != 25 || s.Min != 10 || s.Max != 40 {
		t.Fatalf("stats = %+v", s)
	}
	if math.Abs(s.Std-12.909944487) > 1e-6 {
		t.Fatalf("std = %v, want sample std", s.Std)
	}
	if s.Q1 != 17.5 || s.Q2 != 25 || s.Q3 != 32.5 {
		t.Fatalf("quartiles = %v %v %v", s.Q1, s.Q2, s.Q3)
	}
	if value.Missing != 1 || len(rep.Warnings) != 1 {
		t.Fatalf("missing = %d warnings = %v", value.Missing, rep.Warnings)
	}
	names := []string{}
	for _, c := range rep.Numeric() {
		names = append(names, c.Name)
	}
	if strings.Join(names, ",") != "YEAR,MONTH,VALUE" {
		t.Fatalf("numeric columns = %v", names)
	}
}

func TestDescribeEmptyAndSingle(t *testing.T) {
	rep := Describe("empty", energy.NewTable(nil), DefaultOptions())
	if rep.Rows != 0 {
		t.Fatalf("rows = %d", rep.Rows)
	}
	for _, c := range rep.Numeric() {
		if c.Stats.Count != 0 || !math.IsNaN(c.Stats.Mean) {
			t.Fatalf("%s stats = %+v", c.Name, c.Stats)
		}
	}
	one := Describe("one", energy.NewTable([]energy.Record{{Country: "X", Year: 2020, Product: "Hydro", Value: 3}}), DefaultOptions())
	for _, c := range one.Numeric() {
		if c.Name == "VALUE" && (!math.IsNaN(c.Stats.Std) || c.Stats.Q3 != 3) {
			t.Fatalf("single value stats = %+v", c.Stats)
		}
		if c.Name == "MONTH" {
			t.Fatal("MONTH should be omitted when no row has a month")
		}
	}
}

func TestDescribeGroupBy(t *testing.T) {
	opt := DefaultOptions()
	opt.GroupBy = energy.FieldProduct
	rep := Describe("sample", sampleTable(), opt)
	if len(rep.Groups) != 3 {
		t.Fatalf("groups = %+v", rep.Groups)
	}
	if g := rep.Groups[0]; g.Key != "Hydro" || g.Size != 2 || g.Stats.Mean != 15 {
		t.Fatalf("first group = %+v", g)
	}
	if g := rep.Groups[2]; g.Key != "Wind" || g.Stats.Count != 0 {
		t.Fatalf("wind group = %+v", g)
	}

	opt.GroupBy = energy.FieldYear
	rep = Describe("sample", energy.NewTable([]energy.Record{
		{Year: 2100, Value: 1}, {Year: 999, Value: 1}, {Year: 2020, Value: 1},
	}), opt)
	if rep.Groups[0].Key != "999" || rep.Groups[2].Key != "2100" {
		t.Fatalf("year groups not numeric order: %+v", rep.Groups)
	}
}

func TestMarkdown(t *testing.T) {
	opt := DefaultOptions()
	opt.GroupBy = energy.FieldProduct
	md := Describe("sample.csv", sampleTable(), opt).Markdown()
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"Source: sample.csv",
		"Rows: 5",
		"- PRODUCT: categorical",
		"Hydro(2)",
		"| stat | YEAR | MONTH | VALUE |",
		"| mean | 2020.8 | 1.4 | 25 |",
		"| 25% |",
		"[GROUP-BY SUMMARY]",
		"- Solar (n=2)",
		"[NOTES]",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}
