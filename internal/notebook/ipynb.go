package notebook

import (
	"encoding/json"
	"fmt"
	"strings"
)

type ipynbRenderer struct{}

func (ipynbRenderer) CanRender(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".ipynb")
}

// multiline is a notebook text field, stored either as one string or as a
// list of lines.
type multiline string

func (m *multiline) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*m = multiline(s)
		return nil
	}
	var lines []string
	if err := json.Unmarshal(b, &lines); err != nil {
		return fmt.Errorf("text field: %w", err)
	}
	*m = multiline(strings.Join(lines, ""))
	return nil
}

type ipynbOutput struct {
	OutputType string               `json:"output_type"`
	Data       map[string]multiline `json:"data"`
}

type ipynbCell struct {
	CellType string        `json:"cell_type"`
	Source   multiline     `json:"source"`
	Outputs  []ipynbOutput `json:"outputs"`
}

type ipynbDocument struct {
	Cells         []ipynbCell `json:"cells"`
	NBFormat      int         `json:"nbformat"`
	NBFormatMinor int         `json:"nbformat_minor"`
}

// Render keeps markdown cells and the rich outputs of code cells. Code
// sources and stream outputs are skipped. An output with several media types
// shows the first of PNG, HTML and plain text.
func (ipynbRenderer) Render(content []byte) ([]Fragment, error) {
	var doc ipynbDocument
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("decode ipynb: %w", err)
	}
	if doc.NBFormat != 0 && doc.NBFormat < 4 {
		return nil, fmt.Errorf("nbformat %d not supported (need 4)", doc.NBFormat)
	}
	var out []Fragment
	for _, c := range doc.Cells {
		switch c.CellType {
		case "markdown":
			out = append(out, markdownBlock(string(c.Source)))
		case "code":
			for _, o := range c.Outputs {
				if o.OutputType != "execute_result" && o.OutputType != "display_data" {
					continue
				}
				if f, ok := outputFragment(o.Data); ok {
					out = append(out, f)
				}
			}
		}
	}
	return out, nil
}

func outputFragment(data map[string]multiline) (Fragment, bool) {
	if png, ok := data["image/png"]; ok {
		b64 := strings.Join(strings.Fields(string(png)), "")
		return Fragment{Kind: Image, Src: "data:image/png;base64," + b64}, true
	}
	if h, ok := data["text/html"]; ok {
		return Fragment{Kind: HTML, Text: string(h)}, true
	}
	if txt, ok := data["text/plain"]; ok {
		return Fragment{Kind: Pre, Text: string(txt)}, true
	}
	return Fragment{}, false
}
