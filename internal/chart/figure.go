package chart

import (
	"math"

	"github.com/google/uuid"
)

// Kind is the chart type of a figure.
type Kind string

const (
	KindArea    Kind = "area"
	KindLine    Kind = "line"
	KindHeatmap Kind = "heatmap"
	KindPie     Kind = "pie"
	KindEmpty   Kind = "empty"
)

// Point is one labelled value of a series.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series is a named sequence of points. Missing values are left out rather
// than encoded, so series may differ in length.
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"data"`
	Color  string  `json:"color,omitempty"`
	Dashed bool    `json:"dashed,omitempty"`
}

// Heatmap is a labelled matrix. Nil cells are absent.
type Heatmap struct {
	Rows  []string     `json:"rows"`
	Cols  []string     `json:"cols"`
	Z     [][]*float64 `json:"z"`
	Label string       `json:"label,omitempty"`
}

// Figure is a renderer-independent chart specification.
type Figure struct {
	ID         string   `json:"id"`
	Kind       Kind     `json:"chartType"`
	Title      string   `json:"title"`
	XAxis      string   `json:"xAxis,omitempty"`
	YAxis      string   `json:"yAxis,omitempty"`
	Series     []Series `json:"series"`
	Heatmap    *Heatmap `json:"heatmap,omitempty"`
	ShowLegend bool     `json:"showLegend"`
	Message    string   `json:"message,omitempty"`
}

// Empty returns a placeholder figure with no series.
func Empty(title string) *Figure {
	return &Figure{ID: uuid.NewString(), Kind: KindEmpty, Title: title, Series: []Series{}}
}

// EmptyWithMessage is a placeholder carrying an explanation, e.g. why a
// projection could not be computed.
func EmptyWithMessage(title, msg string) *Figure {
	f := Empty(title)
	f.Message = msg
	return f
}

// IsEmpty reports whether the figure has nothing to draw.
func (f *Figure) IsEmpty() bool {
	if f == nil || f.Kind == KindEmpty {
		return true
	}
	if f.Kind == KindHeatmap {
		return f.Heatmap == nil || len(f.Heatmap.Rows) == 0 || len(f.Heatmap.Cols) == 0
	}
	for _, s := range f.Series {
		if len(s.Points) > 0 {
			return false
		}
	}
	return true
}

// SeriesByName finds a series.
func (f *Figure) SeriesByName(name string) (Series, bool) {
	for _, s := range f.Series {
		if s.Name == name {
			return s, true
		}
	}
	return Series{}, false
}

// Value returns the value at label, if present.
func (s Series) Value(label string) (float64, bool) {
	for _, p := range s.Points {
		if p.Label == label {
			return p.Value, true
		}
	}
	return 0, false
}

func newFigure(kind Kind, title string) *Figure {
	return &Figure{ID: uuid.NewString(), Kind: kind, Title: title, ShowLegend: kind != KindHeatmap}
}

func cellPtr(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

var productColors = map[string]string{
	"hydro":       "#1F77B4",
	"solar":       "#F2B701",
	"wind":        "#2CA02C",
	"natural gas": "#9467BD",
	"oil":         "#8C564B",
	"coal":        "#3B3B3B",
}

func assignColors(f *Figure) {
	for i := range f.Series {
		if f.Series[i].Color != "" {
			continue
		}
		f.Series[i].Color = defaultColors[i%len(defaultColors)]
	}
}
