package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type csvLoader struct{}

func (csvLoader) Name() string { return "csv" }

func (csvLoader) CanLoad(source string) bool {
	ext := strings.ToLower(filepath.Ext(source))
	return ext == ".csv" || ext == ".tsv" || ext == ".txt"
}

func (csvLoader) Read(ctx context.Context, source string, opt Options) (*Grid, error) {
	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(source)
	}
	return ReadCSV(ctx, f, delim)
}

// ReadCSV reads delimited text into a Grid. Rows may have varying widths.
func ReadCSV(ctx context.Context, r io.Reader, delim rune) (*Grid, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Grid{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	g := &Grid{Header: header}
	for n := 0; ; n++ {
		if n%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", n+2, err)
		}
		g.Rows = append(g.Rows, row)
	}
	return g, nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
