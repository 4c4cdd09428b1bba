package dataset

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/KaramelBytes/energymix-cli/internal/energy"
)

// Options controls how a source is read and filtered into the canonical table.
type Options struct {
	// Delimiter for CSV. If 0, '\t' for .tsv files and ',' otherwise.
	Delimiter rune
	// Sheet selects an XLSX sheet by name; empty means the first sheet.
	Sheet string
	// Table names the SQL table (optionally schema-qualified) for database sources.
	Table string
	// StartYear drops rows before this year; 0 keeps every year.
	StartYear int
	// Balance keeps only rows whose BALANCE column matches (case-insensitive).
	Balance string
}

// DefaultOptions mirrors the dashboard's analysis window.
func DefaultOptions() Options {
	return Options{StartYear: 2014, Table: "energy_records"}
}

// Grid is a source read as strings: one header row plus data rows.
type Grid struct {
	Header []string
	Rows   [][]string
}

// Loader reads one kind of source into a Grid.
type Loader interface {
	Name() string
	CanLoad(source string) bool
	Read(ctx context.Context, source string, opt Options) (*Grid, error)
}

var (
	mu       sync.RWMutex
	registry []Loader
)

// Register adds a loader. Later registrations are consulted first.
func Register(l Loader) {
	mu.Lock()
	defer mu.Unlock()
	registry = append([]Loader{l}, registry...)
}

// ErrUnsupported indicates no registered loader accepts the source.
var ErrUnsupported = errors.New("unsupported data source")

// LoadError reports which source failed and why.
type LoadError struct {
	Source string
	Loader string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Loader != "" {
		return fmt.Sprintf("load %s (%s): %v", e.Source, e.Loader, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func loaderFor(source string) (Loader, error) {
	mu.RLock()
	defer mu.RUnlock()
	for _, l := range registry {
		if l.CanLoad(source) {
			return l, nil
		}
	}
	return nil, ErrUnsupported
}

// Load reads source with the first matching loader and converts it into the
// canonical table. The report describes what was kept and dropped.
func Load(ctx context.Context, source string, opt Options) (*energy.Table, *Report, error) {
	if source == "" {
		return nil, nil, &LoadError{Source: source, Err: errors.New("no data source configured")}
	}
	l, err := loaderFor(source)
	if err != nil {
		return nil, nil, &LoadError{Source: source, Err: err}
	}
	g, err := l.Read(ctx, source, opt)
	if err != nil {
		return nil, nil, &LoadError{Source: source, Loader: l.Name(), Err: err}
	}
	tbl, rep, err := Canonicalize(g, opt)
	if err != nil {
		return nil, nil, &LoadError{Source: source, Loader: l.Name(), Err: err}
	}
	rep.Source = source
	rep.Loader = l.Name()
	return tbl, rep, nil
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
	Register(postgresLoader{})
}
