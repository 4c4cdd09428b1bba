package export

import (
	"fmt"
	"io"
	"math"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/energymix-cli/internal/chart"
	"github.com/KaramelBytes/energymix-cli/internal/energy"
	"github.com/KaramelBytes/energymix-cli/internal/utils"
)

// Sheet names of the exported workbook, in order.
const (
	SheetKPIs       = "KPIs"
	SheetMix        = "Matriz_Energetica"
	SheetShare      = "Participacion"
	SheetCO2        = "CO2_por_Pais"
	SheetSimulation = "Simulacion"
	SheetData       = "Datos"
)

// Options selects the scenario written to the simulation sheet.
type Options struct {
	Fraction float64
	// IncludeData adds the full canonical table as a sheet.
	IncludeData bool
}

type sheetStep struct {
	name  string
	write func(*excelize.File, string) error
}

// Workbook builds an excelize file holding the derived tables of b.
// The caller closes the returned file.
func Workbook(b *chart.Builder, opt Options) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetKPIs); err != nil {
		f.Close()
		return nil, err
	}
	steps := []sheetStep{
		{SheetKPIs, func(f *excelize.File, s string) error { return writeKPIs(f, s, b) }},
		{SheetMix, func(f *excelize.File, s string) error {
			m, err := b.MixMatrix()
			if err != nil {
				return err
			}
			return writeMatrix(f, s, "PRODUCT", m)
		}},
		{SheetShare, func(f *excelize.File, s string) error {
			m, err := b.ShareMatrix()
			if err != nil {
				return err
			}
			return writeMatrix(f, s, "PRODUCT", m)
		}},
		{SheetCO2, func(f *excelize.File, s string) error {
			m, err := energy.Pivot(b.Table, energy.FieldCountry, energy.FieldYear, energy.CO2(b.Profile), energy.AggSum)
			if err != nil {
				return err
			}
			return writeMatrix(f, s, "COUNTRY", m)
		}},
		{SheetSimulation, func(f *excelize.File, s string) error { return writeSimulation(f, s, b, opt.Fraction) }},
	}
	if opt.IncludeData {
		steps = append(steps, sheetStep{SheetData, func(f *excelize.File, s string) error { return writeData(f, s, b.Table) }})
	}
	for i, st := range steps {
		if i > 0 {
			if _, err := f.NewSheet(st.name); err != nil {
				f.Close()
				return nil, fmt.Errorf("sheet %s: %w", st.name, err)
			}
		}
		if err := st.write(f, st.name); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %s: %w", st.name, err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// Write streams the workbook to w.
func Write(w io.Writer, b *chart.Builder, opt Options) error {
	f, err := Workbook(b, opt)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Save writes the workbook to path.
func Save(path string, b *chart.Builder, opt Options) error {
	f, err := Workbook(b, opt)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func writeHeader(f *excelize.File, sheet string, headers []any) error {
	if err := setRow(f, sheet, 1, headers); err != nil {
		return err
	}
	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, 16)
}

// cellValue leaves missing values as blank cells.
func cellValue(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func writeMatrix(f *excelize.File, sheet, rowHeader string, m *energy.Matrix) error {
	headers := []any{rowHeader}
	for _, c := range m.Cols {
		headers = append(headers, c)
	}
	if err := writeHeader(f, sheet, headers); err != nil {
		return err
	}
	for i, r := range m.Rows {
		vals := []any{r}
		for _, v := range m.Cells[i] {
			vals = append(vals, cellValue(v))
		}
		if err := setRow(f, sheet, i+2, vals); err != nil {
			return err
		}
	}
	return nil
}

func writeKPIs(f *excelize.File, sheet string, b *chart.Builder) error {
	if err := writeHeader(f, sheet, []any{"KPI", "Valor"}); err != nil {
		return err
	}
	for i, c := range b.KPIs().Cards(b.Focus) {
		if err := setRow(f, sheet, i+2, []any{c.Title, c.Value}); err != nil {
			return err
		}
	}
	return nil
}

func writeSimulation(f *excelize.File, sheet string, b *chart.Builder, fraction float64) error {
	s, err := energy.Simulate(energy.Country(b.Focus).Apply(b.Table), b.Profile, fraction)
	if err != nil {
		return err
	}
	if err := writeHeader(f, sheet, []any{"YEAR", "MOVED", "CO2_BASELINE", "CO2_SIMULATED"}); err != nil {
		return err
	}
	for i, o := range s.Years {
		if err := setRow(f, sheet, i+2, []any{o.Year, o.Moved, o.Baseline, o.Simulated}); err != nil {
			return err
		}
	}
	return nil
}

func writeData(f *excelize.File, sheet string, t *energy.Table) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	if err := sw.SetColWidth(1, 7, 16); err != nil {
		return err
	}
	if err := sw.SetRow("A1", []any{"COUNTRY", "YEAR", "MONTH", "PRODUCT", "BALANCE", "VALUE", "share"}); err != nil {
		return err
	}
	for i, r := range t.All() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		var month any
		if r.Month != 0 {
			month = r.Month
		}
		if err := sw.SetRow(cell, []any{r.Country, r.Year, month, r.Product, r.Balance, cellValue(r.Value), cellValue(r.Share)}); err != nil {
			return err
		}
	}
	return sw.Flush()
}
