package notebook

import (
	"bytes"
	"strings"
)

type markdownRenderer struct{}

func (markdownRenderer) CanRender(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".markdown")
}

// Render splits a markdown file on blank lines, one fragment per block.
func (markdownRenderer) Render(content []byte) ([]Fragment, error) {
	text := string(bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n")))
	text = strings.ReplaceAll(text, "\r", "\n")
	var out []Fragment
	for _, block := range strings.Split(text, "\n\n") {
		if block = strings.TrimSpace(block); block != "" {
			out = append(out, markdownBlock(block))
		}
	}
	return out, nil
}
