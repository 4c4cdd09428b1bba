package notebook

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Kind classifies a fragment for display.
type Kind string

const (
	Heading    Kind = "h2"
	Subheading Kind = "h3"
	Paragraph  Kind = "p"
	Image      Kind = "img"
	HTML       Kind = "html"
	Pre        Kind = "pre"
)

// Fragment is one displayable block of a rendered document. Image fragments
// carry a data URI in Src; every other kind carries Text.
type Fragment struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text,omitempty"`
	Src  string `json:"src,omitempty"`
}

// Renderer turns an opaque document into displayable fragments.
type Renderer interface {
	CanRender(filename string) bool
	Render(content []byte) ([]Fragment, error)
}

var registry []Renderer

// Register adds a renderer implementation to the registry.
func Register(r Renderer) {
	registry = append(registry, r)
}

// ErrUnsupported indicates no renderer accepts the document.
var ErrUnsupported = errors.New("unsupported notebook format")

// RenderFile selects a renderer based on filename and renders the file.
func RenderFile(path string) ([]Fragment, error) {
	for _, r := range registry {
		if !r.CanRender(path) {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read notebook: %w", err)
		}
		frags, err := r.Render(data)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", path, err)
		}
		return frags, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
}

// markdownBlock maps one markdown block to a heading or paragraph.
func markdownBlock(src string) Fragment {
	switch {
	case strings.HasPrefix(src, "# "):
		return Fragment{Kind: Heading, Text: strings.TrimSpace(strings.TrimPrefix(src, "# "))}
	case strings.HasPrefix(src, "## "):
		return Fragment{Kind: Subheading, Text: strings.TrimSpace(strings.TrimPrefix(src, "## "))}
	}
	return Fragment{Kind: Paragraph, Text: src}
}

func init() {
	Register(ipynbRenderer{})
	Register(markdownRenderer{})
}
