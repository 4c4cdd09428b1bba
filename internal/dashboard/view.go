package dashboard

import (
	"encoding/base64"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/KaramelBytes/energymix-cli/internal/analysis"
	"github.com/KaramelBytes/energymix-cli/internal/chart"
	"github.com/KaramelBytes/energymix-cli/internal/energy"
	"github.com/KaramelBytes/energymix-cli/internal/notebook"
	"github.com/KaramelBytes/energymix-cli/internal/utils"
)

const bannerTitle = "Factores claves para la transición energética en Colombia"

type tabLink struct {
	Label  string
	URL    string
	Active bool
}

type pageView struct {
	Banner string
	Title  string
	Tabs   []tabLink

	Exploration *explorationView
	Mix         *mixView
	Simulation  *simulationView
	Projection  *projectionView
	Notebook    *notebookView
}

// tableView is one page of a table. Pages is 1 for unpaged tables.
type tableView struct {
	Columns []string
	Rows    [][]string
	Total   int
	Page    int
	Pages   int
	Prev    string
	Next    string
}

type chartView struct {
	ID      string
	Name    string
	Title   string
	Src     string
	Empty   bool
	Message string
}

type countryOption struct {
	Name     string
	Selected bool
}

type explorationView struct {
	FocusCountry string
	Full         tableView
	Focus        tableView
	Describe     tableView
	Countries    []string
}

type mixView struct {
	Cards     []energy.Card
	Charts    []chartView
	SolarWind chartView
	Countries []countryOption
	CO2       []chartView
}

type simulationView struct {
	Fraction string
	Chart    chartView
	Years    tableView
}

type projectionView struct {
	Fraction string
	Through  int
	Products []countryOption
	Charts   []chartView
}

type fragmentView struct {
	Kind string
	Text string
	Src  template.URL
}

type notebookView struct {
	Fragments []fragmentView
	Message   string
}

func (s *Server) newPageView(active Page) *pageView {
	v := &pageView{Banner: bannerTitle, Title: pages[active].title}
	for _, p := range Pages() {
		v.Tabs = append(v.Tabs, tabLink{Label: p.Label(), URL: "/tab/" + p.Slug(), Active: p == active})
	}
	return v
}

// chartView builds the named figure so the page can show its title or its
// placeholder message; the image itself is rendered by /charts/{name}.
func (s *Server) chartView(name string, q chart.Query, params url.Values) (chartView, error) {
	f, err := s.opt.Builder.Build(name, q)
	if err != nil {
		return chartView{}, err
	}
	cv := chartView{ID: f.ID, Name: name, Title: f.Title, Empty: f.IsEmpty(), Message: f.Message}
	if cv.Empty && cv.Message == "" {
		cv.Message = "No hay datos disponibles para la selección."
	}
	src := "/charts/" + name
	if enc := params.Encode(); enc != "" {
		src += "?" + enc
	}
	cv.Src = src
	return cv, nil
}

func (s *Server) chartViews(q chart.Query, params url.Values, names ...string) ([]chartView, error) {
	out := make([]chartView, 0, len(names))
	for _, n := range names {
		cv, err := s.chartView(n, q, params)
		if err != nil {
			return nil, err
		}
		out = append(out, cv)
	}
	return out, nil
}

func recordColumns(t *energy.Table) []string {
	cols := []string{"COUNTRY", "YEAR", "MONTH", "PRODUCT", "BALANCE", "VALUE"}
	if t.HasPrecomputedShare() {
		cols = append(cols, "share")
	}
	return cols
}

func recordRow(r energy.Record, withShare bool) []string {
	month := ""
	if r.Month != 0 {
		month = strconv.Itoa(r.Month)
	}
	row := []string{r.Country, strconv.Itoa(r.Year), month, r.Product, r.Balance, utils.FormatCell(r.Value, 4)}
	if withShare {
		row = append(row, utils.FormatCell(r.Share, 4))
	}
	return row
}

// recordTable pages t using the query parameter param for the page number.
func (s *Server) recordTable(r *http.Request, t *energy.Table, param string) tableView {
	size := s.opt.PageSize
	tv := tableView{Columns: recordColumns(t), Total: t.Len()}
	tv.Pages = max(1, (tv.Total+size-1)/size)
	tv.Page = 1
	if n, err := strconv.Atoi(r.URL.Query().Get(param)); err == nil {
		tv.Page = min(max(n, 1), tv.Pages)
	}
	start := (tv.Page - 1) * size
	end := min(start+size, tv.Total)
	for i := start; i < end; i++ {
		tv.Rows = append(tv.Rows, recordRow(t.At(i), t.HasPrecomputedShare()))
	}
	link := func(page int) string {
		q := r.URL.Query()
		q.Set(param, strconv.Itoa(page))
		return "?" + q.Encode()
	}
	if tv.Page > 1 {
		tv.Prev = link(tv.Page - 1)
	}
	if tv.Page < tv.Pages {
		tv.Next = link(tv.Page + 1)
	}
	return tv
}

// describeTable lays the statistics out like a describe() frame: one row
// per statistic, one column per numeric field.
func describeTable(rep *analysis.Report) tableView {
	cols := rep.Numeric()
	tv := tableView{Columns: []string{"index"}, Page: 1, Pages: 1}
	for _, c := range cols {
		tv.Columns = append(tv.Columns, c.Name)
	}
	for i, name := range analysis.StatNames {
		row := []string{name}
		for _, c := range cols {
			row = append(row, utils.FormatCell(c.Stats.Values()[i], 6))
		}
		tv.Rows = append(tv.Rows, row)
	}
	tv.Total = len(tv.Rows)
	return tv
}

func (s *Server) explorationContent(r *http.Request, v *pageView) error {
	b := s.opt.Builder
	focus := energy.Country(b.Focus).Apply(b.Table)
	v.Exploration = &explorationView{
		FocusCountry: b.Focus,
		Full:         s.recordTable(r, b.Table, "page"),
		Focus:        s.recordTable(r, focus, "cpage"),
		Describe:     describeTable(analysis.Describe(b.Focus, focus, analysis.DefaultOptions())),
		Countries:    b.Table.Countries(),
	}
	return nil
}

func (s *Server) energyMixContent(r *http.Request, v *pageView) error {
	b := s.opt.Builder
	v.Title += " en " + b.Focus
	q, params, err := s.parseQuery(r)
	if err != nil {
		return err
	}
	mv := &mixView{Cards: b.KPIs().Cards(b.Focus)}
	if mv.Charts, err = s.chartViews(q, nil, "energy-mix", "share-heatmap"); err != nil {
		return err
	}
	if mv.SolarWind, err = s.chartView("solar-wind", q, nil); err != nil {
		return err
	}
	countryParams := url.Values{"country": params["country"]}
	if mv.CO2, err = s.chartViews(q, countryParams, "co2-comparison", "co2-pie"); err != nil {
		return err
	}
	selected := map[string]bool{}
	for _, c := range q.Countries {
		selected[strings.ToLower(c)] = true
	}
	for _, c := range b.Table.Countries() {
		mv.Countries = append(mv.Countries, countryOption{Name: c, Selected: selected[strings.ToLower(c)]})
	}
	v.Mix = mv
	return nil
}

func (s *Server) simulationContent(r *http.Request, v *pageView) error {
	b := s.opt.Builder
	q, params, err := s.parseQuery(r)
	if err != nil {
		return err
	}
	sv := &simulationView{Fraction: params.Get("fraction")}
	if sv.Chart, err = s.chartView("simulation", q, url.Values{"fraction": {sv.Fraction}}); err != nil {
		return err
	}
	sc, err := energy.Simulate(energy.Country(b.Focus).Apply(b.Table), b.Profile, q.Fraction)
	if err != nil {
		return err
	}
	sv.Years = tableView{
		Columns: []string{"YEAR", "Generación reasignada", "CO₂ línea base", "CO₂ simulado", "Reducción"},
		Total:   len(sc.Years), Page: 1, Pages: 1,
	}
	for _, o := range sc.Years {
		sv.Years.Rows = append(sv.Years.Rows, []string{
			strconv.Itoa(o.Year),
			utils.FormatThousands(o.Moved),
			utils.FormatThousands(o.Baseline),
			utils.FormatThousands(o.Simulated),
			utils.FormatThousands(o.Baseline - o.Simulated),
		})
	}
	v.Simulation = sv
	return nil
}

func (s *Server) projectionContent(r *http.Request, v *pageView) error {
	b := s.opt.Builder
	q, params, err := s.parseQuery(r)
	if err != nil {
		return err
	}
	pv := &projectionView{Fraction: params.Get("fraction"), Through: q.Through}
	scenario := url.Values{"fraction": {params.Get("fraction")}, "through": {params.Get("through")}}
	forecast := url.Values{"product": {q.Product}, "through": {params.Get("through")}}
	cv, err := s.chartView("scenario-projection", q, scenario)
	if err != nil {
		return err
	}
	fv, err := s.chartView("generation-forecast", q, forecast)
	if err != nil {
		return err
	}
	pv.Charts = []chartView{cv, fv}
	for _, p := range energy.Country(b.Focus).Apply(b.Table).Products() {
		pv.Products = append(pv.Products, countryOption{Name: p, Selected: strings.EqualFold(p, q.Product)})
	}
	v.Projection = pv
	return nil
}

func (s *Server) notebookContent(_ *http.Request, v *pageView) error {
	nv := &notebookView{}
	v.Notebook = nv
	if s.opt.NotebookPath == "" {
		nv.Message = "No hay un cuaderno configurado (notebook_path)."
		return nil
	}
	frags, err := notebook.RenderFile(s.opt.NotebookPath)
	if err != nil {
		nv.Message = "No se pudo cargar el cuaderno: " + err.Error()
		return nil
	}
	for _, f := range frags {
		fv := fragmentView{Kind: string(f.Kind), Text: f.Text}
		if f.Kind == notebook.Image {
			if !validImageURI(f.Src) {
				continue
			}
			fv.Src = template.URL(f.Src)
		}
		nv.Fragments = append(nv.Fragments, fv)
	}
	return nil
}

// validImageURI accepts only base64 PNG data URIs.
func validImageURI(src string) bool {
	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(src, prefix) {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(src, prefix))
	return err == nil
}
