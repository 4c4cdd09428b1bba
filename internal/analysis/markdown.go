package analysis

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/energymix-cli/internal/utils"
)

// Markdown renders the report as a compact document: dataset header,
// schema, a describe() table and optional group summaries.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("Source: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%, unique %d)", c.Name, c.Kind, c.NonNull, missPct, c.Unique))
		if c.Kind == "categorical" && len(c.Top) > 0 {
			b.WriteString(" top: ")
			for i, kv := range c.Top {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
			}
		}
		b.WriteString("\n")
	}

	num := r.Numeric()
	if len(num) > 0 {
		b.WriteString("\n[DESCRIBE]\n")
		b.WriteString("| stat")
		for _, c := range num {
			b.WriteString(" | " + c.Name)
		}
		b.WriteString(" |\n|---")
		for range num {
			b.WriteString("|---")
		}
		b.WriteString("|\n")
		for i, stat := range StatNames {
			b.WriteString("| " + stat)
			for _, c := range num {
				b.WriteString(" | " + utils.FormatCell(c.Stats.Values()[i], 4))
			}
			b.WriteString(" |\n")
		}
	}

	if len(r.Groups) > 0 {
		b.WriteString("\n[GROUP-BY SUMMARY]\n")
		for _, g := range r.Groups {
			s := g.Stats
			b.WriteString(fmt.Sprintf("- %s (n=%d): sum %.4g, mean %.4g (min %.4g, max %.4g)\n",
				safeVal(g.Key), g.Size, s.Mean*float64(s.Count), s.Mean, s.Min, s.Max))
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
