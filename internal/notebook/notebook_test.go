package notebook_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/energymix-cli/internal/notebook"
)

const sampleNotebook = `{
  "nbformat": 4,
  "nbformat_minor": 5,
  "cells": [
    {"cell_type": "markdown", "source": "# Transición energética"},
    {"cell_type": "markdown", "source": ["## Datos\n", "fuente IEA"]},
    {"cell_type": "markdown", "source": "Texto libre"},
    {"cell_type": "code", "source": "df.head()", "outputs": [
      {"output_type": "stream", "name": "stdout", "text": "ignored"},
      {"output_type": "execute_result", "data": {"text/html": "<table></table>", "text/plain": "df"}},
      {"output_type": "display_data", "data": {"image/png": "iVBORw0\nKGgo=\n", "text/plain": "<Figure>"}},
      {"output_type": "execute_result", "data": {"text/plain": ["42"]}}
    ]},
    {"cell_type": "raw", "source": "skip"}
  ]
}`

func write(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestRenderIPYNB(t *testing.T) {
	frags, err := notebook.RenderFile(write(t, "analisis.ipynb", sampleNotebook))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := []notebook.Fragment{
		{Kind: notebook.Heading, Text: "Transición energética"},
		{Kind: notebook.Subheading, Text: "Datos\nfuente IEA"},
		{Kind: notebook.Paragraph, Text: "Texto libre"},
		{Kind: notebook.HTML, Text: "<table></table>"},
		{Kind: notebook.Image, Src: "data:image/png;base64,iVBORw0KGgo="},
		{Kind: notebook.Pre, Text: "42"},
	}
	if len(frags) != len(want) {
		t.Fatalf("got %d fragments, want %d: %+v", len(frags), len(want), frags)
	}
	for i := range want {
		if frags[i] != want[i] {
			t.Fatalf("fragment %d = %+v, want %+v", i, frags[i], want[i])
		}
	}
}

func TestRenderMarkdown(t *testing.T) {
	frags, err := notebook.RenderFile(write(t, "notas.md", "# Título\r\n\r\nUno\ndos\n\n\n\n## Sub\n"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(frags) != 3 || frags[0].Kind != notebook.Heading || frags[1].Text != "Uno\ndos" || frags[2].Kind != notebook.Subheading {
		t.Fatalf("unexpected fragments: %+v", frags)
	}
}

func TestRenderErrors(t *testing.T) {
	if _, err := notebook.RenderFile("report.pdf"); !errors.Is(err, notebook.ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
	if _, err := notebook.RenderFile(write(t, "bad.ipynb", "{")); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := notebook.RenderFile(write(t, "old.ipynb", `{"nbformat": 3, "cells": []}`)); err == nil {
		t.Fatal("expected nbformat error")
	}
}
