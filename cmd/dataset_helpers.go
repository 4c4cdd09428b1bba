package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/KaramelBytes/energymix-cli/internal/chart"
	"github.com/KaramelBytes/energymix-cli/internal/dataset"
	"github.com/KaramelBytes/energymix-cli/internal/energy"
)

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab", `\t`:
		return '\t', nil
	case ";":
		return ';', nil
	case "|":
		return '|', nil
	}
	return 0, fmt.Errorf("unsupported delimiter: %s (use ','|';'|'tab'|'|')", s)
}

// loadTable reads the configured dataset into the canonical table and
// reports dropped rows and warnings on stderr.
func loadTable(ctx context.Context) (*energy.Table, *dataset.Report, error) {
	c, err := requireConfig()
	if err != nil {
		return nil, nil, err
	}
	if c.DataPath == "" {
		return nil, nil, errors.New("no dataset configured: pass --data or run 'energymix config set data_path <file>'")
	}
	opt := dataset.DefaultOptions()
	if opt.Delimiter, err = parseDelimiter(c.Delimiter); err != nil {
		return nil, nil, err
	}
	opt.Sheet = c.SheetName
	if c.SQLTable != "" {
		opt.Table = c.SQLTable
	}
	opt.StartYear = c.StartYear
	opt.Balance = c.Balance

	t, rep, err := dataset.Load(ctx, c.DataPath, opt)
	if err != nil {
		return nil, nil, err
	}
	printLoadReport(os.Stderr, rep)
	return t, rep, nil
}

func printLoadReport(w io.Writer, rep *dataset.Report) {
	for _, warn := range rep.Warnings {
		fmt.Fprintf(w, "⚠ Warning: %s\n", warn)
	}
	if !debug {
		return
	}
	fmt.Fprintf(w, "[debug] loaded %s via %s: %d rows read, %d kept\n", maskDSN(rep.Source), rep.Loader, rep.Rows, rep.Kept)
	fmt.Fprintf(w, "[debug] dropped: bad year %d, before start %d, other balance %d; missing VALUE %d\n",
		rep.BadYear, rep.BeforeStart, rep.OtherBalance, rep.MissingValues)
	if len(rep.Ignored) > 0 {
		fmt.Fprintf(w, "[debug] ignored columns: %s\n", strings.Join(rep.Ignored, ", "))
	}
	if rep.HasShare {
		fmt.Fprintln(w, "[debug] numeric share column detected")
	}
}

// newBuilder configures a chart builder from the loaded config.
func newBuilder(t *energy.Table) (*chart.Builder, error) {
	c, err := requireConfig()
	if err != nil {
		return nil, err
	}
	p, err := c.Profile()
	if err != nil {
		return nil, err
	}
	mode, err := energy.ParseShareMode(c.ShareMode)
	if err != nil {
		return nil, err
	}
	b := chart.NewBuilder(t, p, c.FocusCountry)
	if len(c.MixProducts) > 0 {
		b.Products = append([]string(nil), c.MixProducts...)
	}
	b.ShareMode = mode
	return b, nil
}

// loadBuilder loads the dataset and wraps it in a builder.
func loadBuilder(ctx context.Context) (*chart.Builder, error) {
	t, _, err := loadTable(ctx)
	if err != nil {
		return nil, err
	}
	return newBuilder(t)
}
