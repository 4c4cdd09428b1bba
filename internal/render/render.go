package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/energymix-cli/internal/chart"
)

// Format is an output image format.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ParseFormat accepts png or svg (case-insensitive, optional leading dot).
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "", "png":
		return PNG, nil
	case "svg":
		return SVG, nil
	}
	return "", fmt.Errorf("unsupported chart format %q (use png|svg)", s)
}

// ContentType returns the HTTP media type of the format.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Size is the drawing size of a chart.
type Size struct {
	Width, Height vg.Length
}

// DefaultSize fits two charts side by side on the dashboard.
var DefaultSize = Size{Width: 8 * vg.Inch, Height: 5 * vg.Inch}

// Plot converts a figure into a gonum plot.
func Plot(f *chart.Figure) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = f.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = f.XAxis
	p.Y.Label.Text = f.YAxis

	if f.IsEmpty() {
		p.HideAxes()
		if f.Message != "" {
			p.X.Label.Text = f.Message
		}
		return p, nil
	}

	var err error
	switch f.Kind {
	case chart.KindArea:
		err = addArea(p, f)
	case chart.KindLine:
		err = addLines(p, f)
	case chart.KindHeatmap:
		err = addHeatmap(p, f)
	case chart.KindPie:
		err = addShares(p, f)
	default:
		err = fmt.Errorf("unsupported chart kind %q", f.Kind)
	}
	if err != nil {
		return nil, err
	}
	p.Legend.Top = true
	return p, nil
}

// Render writes the figure as an image.
func Render(w io.Writer, f *chart.Figure, format Format, size Size) error {
	p, err := Plot(f)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(size.Width, size.Height, string(format))
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}

// xPositions maps point labels to X coordinates: numeric labels (years) are
// used as-is; otherwise labels are placed at their first-seen index.
func xPositions(series []chart.Series) (map[string]float64, []string, bool) {
	numeric := true
	var order []string
	seen := map[string]bool{}
	for _, s := range series {
		for _, pt := range s.Points {
			if seen[pt.Label] {
				continue
			}
			seen[pt.Label] = true
			order = append(order, pt.Label)
			if _, err := strconv.ParseFloat(pt.Label, 64); err != nil {
				numeric = false
			}
		}
	}
	pos := make(map[string]float64, len(order))
	for i, l := range order {
		if numeric {
			pos[l], _ = strconv.ParseFloat(l, 64)
		} else {
			pos[l] = float64(i)
		}
	}
	return pos, order, numeric
}

func xys(s chart.Series, pos map[string]float64) plotter.XYs {
	out := make(plotter.XYs, 0, len(s.Points))
	for _, pt := range s.Points {
		out = append(out, plotter.XY{X: pos[pt.Label], Y: pt.Value})
	}
	return out
}

func addLines(p *plot.Plot, f *chart.Figure) error {
	pos, order, numeric := xPositions(f.Series)
	for i, s := range f.Series {
		if len(s.Points) == 0 {
			continue
		}
		line, points, err := plotter.NewLinePoints(xys(s, pos))
		if err != nil {
			return fmt.Errorf("series %s: %w", s.Name, err)
		}
		c := seriesColor(s, i)
		line.LineStyle.Color = c
		line.LineStyle.Width = vg.Points(2)
		if s.Dashed {
			line.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
		}
		points.GlyphStyle.Color = c
		points.GlyphStyle.Shape = draw.CircleGlyph{}
		points.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(line, points)
		p.Legend.Add(s.Name, line, points)
	}
	p.Add(plotter.NewGrid())
	setXTicks(p, order, numeric)
	return nil
}

// addArea stacks series: each series is drawn as the cumulative sum of
// itself and the series before it, topmost first so lower layers stay visible.
func addArea(p *plot.Plot, f *chart.Figure) error {
	pos, order, numeric := xPositions(f.Series)
	cum := make(map[string]float64, len(order))
	stacked := make([]plotter.XYs, len(f.Series))
	for i, s := range f.Series {
		pts := make(plotter.XYs, 0, len(order))
		values := map[string]float64{}
		for _, pt := range s.Points {
			values[pt.Label] = pt.Value
		}
		for _, l := range order {
			cum[l] += values[l]
			pts = append(pts, plotter.XY{X: pos[l], Y: cum[l]})
		}
		stacked[i] = pts
	}
	for i := len(f.Series) - 1; i >= 0; i-- {
		if len(stacked[i]) == 0 {
			continue
		}
		line, err := plotter.NewLine(stacked[i])
		if err != nil {
			return fmt.Errorf("series %s: %w", f.Series[i].Name, err)
		}
		c := seriesColor(f.Series[i], i)
		line.LineStyle.Color = c
		line.LineStyle.Width = vg.Points(1)
		line.FillColor = c
		p.Add(line)
		p.Legend.Add(f.Series[i].Name, line)
	}
	p.Y.Min = 0
	setXTicks(p, order, numeric)
	return nil
}

// addShares draws a pie figure as labelled bars of each slice's percentage.
func addShares(p *plot.Plot, f *chart.Figure) error {
	s := f.Series[0]
	var total float64
	for _, pt := range s.Points {
		total += pt.Value
	}
	values := make(plotter.Values, len(s.Points))
	labels := make([]string, len(s.Points))
	for i, pt := range s.Points {
		if total > 0 {
			values[i] = pt.Value / total * 100
		}
		labels[i] = pt.Label
	}
	bars, err := plotter.NewBarChart(values, vg.Points(28))
	if err != nil {
		return fmt.Errorf("series %s: %w", s.Name, err)
	}
	bars.Color = seriesColor(s, 0)
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(labels...)
	p.Y.Label.Text = "%"
	p.Y.Min = 0

	ls := plotter.XYLabels{}
	for i, v := range values {
		ls.XYs = append(ls.XYs, plotter.XY{X: float64(i), Y: v})
		ls.Labels = append(ls.Labels, fmt.Sprintf("%.1f%%", v))
	}
	labelPoints, err := plotter.NewLabels(ls)
	if err != nil {
		return err
	}
	p.Add(labelPoints)
	return nil
}

// heatGrid adapts a chart heatmap to plotter.GridXYZ. Row 0 is drawn at the top.
type heatGrid struct{ hm *chart.Heatmap }

func (g heatGrid) Dims() (c, r int) { return len(g.hm.Cols), len(g.hm.Rows) }

func (g heatGrid) Z(c, r int) float64 {
	v := g.hm.Z[len(g.hm.Rows)-1-r][c]
	if v == nil {
		return math.NaN()
	}
	return *v
}

func (g heatGrid) X(c int) float64 { return float64(c) }
func (g heatGrid) Y(r int) float64 { return float64(r) }

func zRange(g heatGrid) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	c, r := g.Dims()
	for i := 0; i < c; i++ {
		for j := 0; j < r; j++ {
			if v := g.Z(i, j); !math.IsNaN(v) {
				lo = math.Min(lo, v)
				hi = math.Max(hi, v)
			}
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 0
	}
	return lo, hi
}

func addHeatmap(p *plot.Plot, f *chart.Figure) error {
	g := heatGrid{hm: f.Heatmap}
	h := plotter.NewHeatMap(g, palette.Heat(12, 1))
	h.NaN = color.White
	h.Min, h.Max = zRange(g)
	if h.Min == h.Max {
		h.Max = h.Min + 1
	}
	p.Add(h)

	rows := make([]string, len(f.Heatmap.Rows))
	for i, r := range f.Heatmap.Rows {
		rows[len(rows)-1-i] = r
	}
	p.NominalX(f.Heatmap.Cols...)
	p.NominalY(rows...)

	cols, nrows := g.Dims()
	if cols*nrows <= 200 {
		ls := plotter.XYLabels{}
		for c := 0; c < cols; c++ {
			for r := 0; r < nrows; r++ {
				if v := g.Z(c, r); !math.IsNaN(v) {
					ls.XYs = append(ls.XYs, plotter.XY{X: float64(c), Y: float64(r)})
					ls.Labels = append(ls.Labels, strconv.FormatFloat(v, 'f', 4, 64))
				}
			}
		}
		if len(ls.Labels) > 0 {
			labels, err := plotter.NewLabels(ls)
			if err != nil {
				return err
			}
			for i := range labels.TextStyle {
				labels.TextStyle[i].XAlign = draw.XCenter
				labels.TextStyle[i].YAlign = draw.YCenter
			}
			p.Add(labels)
		}
	}
	return nil
}

// yearTicks labels every integer position, thinning to at most max labels.
type yearTicks struct{ max int }

func (t yearTicks) Ticks(lo, hi float64) []plot.Tick {
	first, last := int(math.Ceil(lo)), int(math.Floor(hi))
	step := 1
	if n := last - first + 1; t.max > 0 && n > t.max {
		step = (n + t.max - 1) / t.max
	}
	var out []plot.Tick
	for v := first; v <= last; v++ {
		tick := plot.Tick{Value: float64(v)}
		if (v-first)%step == 0 {
			tick.Label = strconv.Itoa(v)
		}
		out = append(out, tick)
	}
	return out
}

func setXTicks(p *plot.Plot, order []string, numeric bool) {
	if numeric {
		p.X.Tick.Marker = yearTicks{max: 12}
		return
	}
	p.NominalX(order...)
}

func seriesColor(s chart.Series, i int) color.Color {
	if c, ok := parseHex(s.Color); ok {
		return c
	}
	return plotutil.Color(i)
}

func parseHex(s string) (color.RGBA, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true
}
