package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

type xlsxLoader struct{}

func (xlsxLoader) Name() string { return "xlsx" }

func (xlsxLoader) CanLoad(source string) bool {
	ext := strings.ToLower(filepath.Ext(source))
	return ext == ".xlsx" || ext == ".xlsm"
}

func (xlsxLoader) Read(ctx context.Context, source string, opt Options) (*Grid, error) {
	f, err := excelize.OpenFile(source)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()
	return readWorkbook(ctx, f, opt.Sheet)
}

func readWorkbook(ctx context.Context, f *excelize.File, sheet string) (*Grid, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	name := sheets[0]
	if sheet != "" {
		name = ""
		for _, s := range sheets {
			if strings.EqualFold(s, sheet) {
				name = s
				break
			}
		}
		if name == "" {
			return nil, fmt.Errorf("sheet %q not found (available: %s)", sheet, strings.Join(sheets, ", "))
		}
	}
	rows, err := f.Rows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", name, err)
	}
	defer rows.Close()

	g := &Grid{}
	for n := 0; rows.Next(); n++ {
		if n%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		cols, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("read sheet %s row %d: %w", name, n+1, err)
		}
		if g.Header == nil {
			if isBlank(cols) {
				continue
			}
			g.Header = cols
			continue
		}
		g.Rows = append(g.Rows, cols)
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", name, err)
	}
	return g, nil
}
