package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/KaramelBytes/energymix-cli/internal/energy"
	"github.com/KaramelBytes/energymix-cli/internal/utils"
)

// printMatrix writes m as an aligned table, blank for absent cells.
func printMatrix(w io.Writer, corner string, m *energy.Matrix, decimals int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s\t%s\t\n", corner, strings.Join(m.Cols, "\t"))
	for i, r := range m.Rows {
		cells := make([]string, len(m.Cols))
		for j, v := range m.Cells[i] {
			cells[j] = utils.FormatCell(v, decimals)
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", utils.TruncateLabel(r, 28), strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	b, err := utils.PrettyJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// printPoints writes a (year, value) series.
func printPoints(w io.Writer, header string, pts []energy.Point, projectedFrom int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "YEAR\t%s\t\t\n", header)
	for _, p := range pts {
		mark := ""
		if projectedFrom > 0 && p.Year > projectedFrom {
			mark = "projected"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", strconv.Itoa(p.Year), utils.FormatCell(p.Value, 2), mark)
	}
	return tw.Flush()
}
