package energy

import (
	"fmt"
	"math"
	"slices"
	"sort"
)

// Matrix is a pivoted derived table. Cells holds NaN for combinations with
// no source rows.
type Matrix struct {
	RowKey Field
	ColKey Field
	Rows   []string
	Cols   []string
	Cells  [][]float64
}

// Pivot groups t by (rowKey, colKey) and lays the result out as a matrix.
// Labels are the distinct values present, sorted numerically for year and
// month and lexically otherwise.
func Pivot(t *Table, rowKey, colKey Field, m Measure, agg AggFunc) (*Matrix, error) {
	if rowKey == colKey {
		return nil, fmt.Errorf("pivot: row and column key are both %s", rowKey)
	}
	d, err := Aggregate(t, []Field{rowKey, colKey}, m, agg)
	if err != nil {
		return nil, err
	}
	rows := distinctLabels(d, rowKey)
	cols := distinctLabels(d, colKey)
	rowIdx := indexOf(rows)
	colIdx := indexOf(cols)

	mx := &Matrix{RowKey: rowKey, ColKey: colKey, Rows: rows, Cols: cols, Cells: make([][]float64, len(rows))}
	for i := range mx.Cells {
		mx.Cells[i] = make([]float64, len(cols))
		for j := range mx.Cells[i] {
			mx.Cells[i][j] = math.NaN()
		}
	}
	for _, r := range d.Rows {
		mx.Cells[rowIdx[r.Key.Label(rowKey)]][colIdx[r.Key.Label(colKey)]] = r.Value
	}
	return mx, nil
}

func distinctLabels(d *Derived, f Field) []string {
	parts := d.PartitionBy(f)
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = p.Label
	}
	return out
}

func indexOf(labels []string) map[string]int {
	idx := make(map[string]int, len(labels))
	for i, l := range labels {
		idx[l] = i
	}
	return idx
}

// Empty reports whether the matrix has no cells.
func (m *Matrix) Empty() bool {
	return m == nil || len(m.Rows) == 0 || len(m.Cols) == 0
}

// Value returns the cell at (row, col) by label.
func (m *Matrix) Value(row, col string) (float64, bool) {
	i := slices.Index(m.Rows, row)
	j := slices.Index(m.Cols, col)
	if i < 0 || j < 0 {
		return math.NaN(), false
	}
	v := m.Cells[i][j]
	return v, !math.IsNaN(v)
}

// RowMean averages the present cells of row i; NaN when none are present.
func (m *Matrix) RowMean(i int) float64 {
	var sum float64
	var n int
	for _, v := range m.Cells[i] {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// SortRowsByMeanDesc orders rows by descending mean of their present cells.
// Rows with no present cells go last; ties keep their prior order.
func (m *Matrix) SortRowsByMeanDesc() {
	if m.Empty() {
		return
	}
	means := make([]float64, len(m.Rows))
	order := make([]int, len(m.Rows))
	for i := range m.Rows {
		means[i] = m.RowMean(i)
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ma, mb := means[order[a]], means[order[b]]
		switch {
		case math.IsNaN(ma):
			return false
		case math.IsNaN(mb):
			return true
		}
		return ma > mb
	})
	rows := make([]string, len(order))
	cells := make([][]float64, len(order))
	for i, j := range order {
		rows[i] = m.Rows[j]
		cells[i] = m.Cells[j]
	}
	m.Rows, m.Cells = rows, cells
}

// Round rounds every present cell to the given number of decimal places.
func (m *Matrix) Round(places int) {
	scale := math.Pow(10, float64(places))
	for _, row := range m.Cells {
		for j, v := range row {
			if !math.IsNaN(v) {
				row[j] = math.Round(v*scale) / scale
			}
		}
	}
}

// FillZero replaces absent cells with 0.
func (m *Matrix) FillZero() {
	for _, row := range m.Cells {
		for j, v := range row {
			if math.IsNaN(v) {
				row[j] = 0
			}
		}
	}
}
