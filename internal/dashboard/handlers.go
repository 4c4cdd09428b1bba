package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/KaramelBytes/energymix-cli/internal/chart"
	"github.com/KaramelBytes/energymix-cli/internal/energy"
	"github.com/KaramelBytes/energymix-cli/internal/export"
	"github.com/KaramelBytes/energymix-cli/internal/render"
)

var errBadQuery = errors.New("invalid query parameter")

// parseQuery reads the user selections from the URL. An absent country
// parameter selects the focus country; a present but empty one selects
// nothing. The returned values are the normalized parameters, suitable for
// building chart links.
func (s *Server) parseQuery(r *http.Request) (chart.Query, url.Values, error) {
	in := r.URL.Query()
	q := chart.Query{Fraction: s.opt.Fraction, Through: s.opt.Through, Product: s.opt.Product}

	raw, ok := in["country"]
	if !ok {
		raw = []string{s.opt.Builder.Focus}
	}
	for _, v := range raw {
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" {
				q.Countries = append(q.Countries, c)
			}
		}
	}
	if v := strings.TrimSpace(in.Get("fraction")); v != "" {
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
		if err != nil || math.IsNaN(f) {
			return q, nil, fmt.Errorf("%w: fraction %q", errBadQuery, v)
		}
		if strings.HasSuffix(v, "%") {
			f /= 100
		}
		q.Fraction = f
	}
	if v := strings.TrimSpace(in.Get("through")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 0 || y > energy.MaxProjectionYear {
			return q, nil, fmt.Errorf("%w: through %q (max %d)", errBadQuery, v, energy.MaxProjectionYear)
		}
		q.Through = y
	}
	if v := strings.TrimSpace(in.Get("product")); v != "" {
		q.Product = v
	}

	out := url.Values{}
	if len(q.Countries) == 0 {
		out.Set("country", "")
	}
	for _, c := range q.Countries {
		out.Add("country", c)
	}
	out.Set("fraction", strconv.FormatFloat(q.Fraction, 'f', -1, 64))
	out.Set("through", strconv.Itoa(q.Through))
	out.Set("product", q.Product)
	return q, out, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, chart.ErrUnknownFigure):
		return http.StatusNotFound
	case errors.Is(err, errBadQuery),
		errors.Is(err, energy.ErrFractionOutOfRange),
		errors.Is(err, energy.ErrNoPrecomputedShare):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.Printf("error: %v", err)
	}
	http.Error(w, err.Error(), code)
}

// writeJSON encodes v in full before writing the response.
func writeJSON(w http.ResponseWriter, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
		http.Error(w, "encode response: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, PageExploration)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	p, err := ParsePage(r.PathValue("page"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.renderPage(w, r, p)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, p Page) {
	v := s.newPageView(p)
	if err := s.content(p, r, v); err != nil {
		s.fail(w, err)
		return
	}
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, v); err != nil {
		s.fail(w, fmt.Errorf("render page %s: %w", p, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleFigureNames(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{"figures": chart.Names()})
}

func (s *Server) handleFigure(w http.ResponseWriter, r *http.Request) {
	q, _, err := s.parseQuery(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	f, err := s.opt.Builder.Build(r.PathValue("name"), q)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, f)
}

func (s *Server) handleKPIs(w http.ResponseWriter, r *http.Request) {
	b := s.opt.Builder
	country := strings.TrimSpace(r.URL.Query().Get("country"))
	if country == "" {
		country = b.Focus
	}
	k := energy.ComputeKPIs(energy.Country(country).Apply(b.Table))
	writeJSON(w, map[string]any{
		"country": country,
		"kpis":    k,
		"cards":   k.Cards(country),
	})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	format := s.opt.Format
	if v := r.URL.Query().Get("format"); v != "" {
		f, err := render.ParseFormat(v)
		if err != nil {
			s.fail(w, fmt.Errorf("%w: %v", errBadQuery, err))
			return
		}
		format = f
	}
	q, _, err := s.parseQuery(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	fig, err := s.opt.Builder.Build(r.PathValue("name"), q)
	if err != nil {
		s.fail(w, err)
		return
	}
	var buf bytes.Buffer
	if err := render.Render(&buf, fig, format, s.opt.Size); err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q, _, err := s.parseQuery(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	if q.Fraction < 0 || q.Fraction > 1 {
		s.fail(w, energy.ErrFractionOutOfRange)
		return
	}
	var buf bytes.Buffer
	opt := export.Options{Fraction: q.Fraction, IncludeData: r.URL.Query().Get("data") == "1"}
	if err := export.Write(&buf, s.opt.Builder, opt); err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="energymix.xlsx"`)
	_, _ = buf.WriteTo(w)
}
