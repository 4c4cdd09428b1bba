package dashboard

import (
	"fmt"
	"net/http"
	"strings"
)

// Page is one tab of the dashboard.
type Page int

const (
	PageExploration Page = iota
	PageEnergyMix
	PageSimulation
	PageProjection
	PageNotebook
)

type pageDef struct {
	slug  string
	label string
	title string
}

var pages = [...]pageDef{
	PageExploration: {"exploracion", "Exploración", "Exploración del Dataset"},
	PageEnergyMix:   {"problematica-1", "Problemática 1", "Problemática 1: Emisiones y matriz energética"},
	PageSimulation:  {"problematica-2", "Problemática 2", "Problemática 2: Reasignación de generación fósil a solar y eólica"},
	PageProjection:  {"problematica-3", "Problemática 3", "Problemática 3: Proyección de emisiones y generación"},
	PageNotebook:    {"problematica-4", "Problemática 4", "Problemática 4: Cuaderno de análisis"},
}

// content fills the page-specific part of v.
func (s *Server) content(p Page, r *http.Request, v *pageView) error {
	switch p {
	case PageExploration:
		return s.explorationContent(r, v)
	case PageEnergyMix:
		return s.energyMixContent(r, v)
	case PageSimulation:
		return s.simulationContent(r, v)
	case PageProjection:
		return s.projectionContent(r, v)
	case PageNotebook:
		return s.notebookContent(r, v)
	}
	return fmt.Errorf("unknown page %d", int(p))
}

// Pages lists every tab in navigation order.
func Pages() []Page {
	out := make([]Page, len(pages))
	for i := range pages {
		out[i] = Page(i)
	}
	return out
}

func (p Page) valid() bool { return p >= 0 && int(p) < len(pages) }

// Slug is the URL segment of the page.
func (p Page) Slug() string {
	if !p.valid() {
		return fmt.Sprintf("page(%d)", int(p))
	}
	return pages[p].slug
}

// Label is the tab caption.
func (p Page) Label() string {
	if !p.valid() {
		return ""
	}
	return pages[p].label
}

func (p Page) String() string { return p.Slug() }

// ParsePage resolves a slug, a tab caption or the legacy "tabN" value.
func ParsePage(s string) (Page, error) {
	s = strings.TrimSpace(s)
	for i, d := range pages {
		if strings.EqualFold(s, d.slug) || strings.EqualFold(s, d.label) || strings.EqualFold(s, fmt.Sprintf("tab%d", i+1)) {
			return Page(i), nil
		}
	}
	return 0, fmt.Errorf("unknown page %q", s)
}
