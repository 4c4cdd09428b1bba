package energy

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ShareMode decides where a table's share values come from.
type ShareMode int

const (
	// ShareAuto trusts a precomputed share column when the table has one and
	// derives shares otherwise. The choice is made once for the whole table.
	ShareAuto ShareMode = iota
	// ShareDerive always recomputes shares from VALUE.
	ShareDerive
	// SharePrecomputed uses the source share column as-is.
	SharePrecomputed
)

func (m ShareMode) String() string {
	switch m {
	case ShareDerive:
		return "derive"
	case SharePrecomputed:
		return "precomputed"
	default:
		return "auto"
	}
}

// ParseShareMode accepts auto|derive|precomputed.
func ParseShareMode(s string) (ShareMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ShareAuto, nil
	case "derive", "derived":
		return ShareDerive, nil
	case "precomputed", "trust":
		return SharePrecomputed, nil
	}
	return ShareAuto, fmt.Errorf("unknown share mode %q (use auto|derive|precomputed)", s)
}

// ErrNoPrecomputedShare is returned when SharePrecomputed is requested for a
// table loaded without a numeric share column.
var ErrNoPrecomputedShare = errors.New("table has no precomputed share column")

// Resolve turns ShareAuto into the concrete mode used for t.
func (m ShareMode) Resolve(t *Table) ShareMode {
	if m != ShareAuto {
		return m
	}
	if t.HasPrecomputedShare() {
		return SharePrecomputed
	}
	return ShareDerive
}

// WithShare returns a table whose Share field is the percentage of each
// record's VALUE within its partition: value / sum(partition) * 100.
// A zero partition sum leaves NaN. An empty partition list uses the whole
// table as one partition.
func WithShare(t *Table, partition []Field, mode ShareMode) (*Table, error) {
	switch mode.Resolve(t) {
	case SharePrecomputed:
		if !t.HasPrecomputedShare() {
			return nil, ErrNoPrecomputedShare
		}
		return t, nil
	case ShareDerive:
	default:
		return nil, fmt.Errorf("unsupported share mode %s", mode)
	}
	for _, f := range partition {
		if !f.valid() {
			return nil, fmt.Errorf("share: invalid partition key %s", f)
		}
	}

	sums := map[Key]float64{}
	for _, r := range t.All() {
		if !math.IsNaN(r.Value) {
			sums[keyOf(r, partition)] += r.Value
		}
	}
	out := &Table{records: make([]Record, 0, t.Len()), hasShare: true}
	for _, r := range t.All() {
		sum := sums[keyOf(r, partition)]
		if sum == 0 || math.IsNaN(r.Value) {
			r.Share = math.NaN()
		} else {
			r.Share = r.Value / sum * 100
		}
		out.records = append(out.records, r)
	}
	return out, nil
}
