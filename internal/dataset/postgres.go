package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/lib/pq"
)

type postgresLoader struct{}

func (postgresLoader) Name() string { return "postgres" }

func (postgresLoader) CanLoad(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://")
}

func (postgresLoader) Read(ctx context.Context, source string, opt Options) (*Grid, error) {
	query, err := selectAll(opt.Table)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("postgres", source)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", opt.Table, err)
	}
	defer rows.Close()
	return scanGrid(rows)
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// selectAll builds a SELECT for a table name of the form table or
// schema.table. Each part is validated and quoted.
func selectAll(table string) (string, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return "", fmt.Errorf("no SQL table configured")
	}
	parts := strings.Split(table, ".")
	if len(parts) > 2 {
		return "", fmt.Errorf("invalid table name %q", table)
	}
	quoted := make([]string, len(parts))
	for i, p := range parts {
		if !identRe.MatchString(p) {
			return "", fmt.Errorf("invalid table name %q", table)
		}
		quoted[i] = pq.QuoteIdentifier(p)
	}
	return "SELECT * FROM " + strings.Join(quoted, "."), nil
}

func scanGrid(rows *sql.Rows) (*Grid, error) {
	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	g := &Grid{Header: header}
	vals := make([]sql.NullString, len(header))
	dest := make([]any, len(header))
	for i := range vals {
		dest[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make([]string, len(vals))
		for i, v := range vals {
			if v.Valid {
				row[i] = v.String
			}
		}
		g.Rows = append(g.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return g, nil
}
