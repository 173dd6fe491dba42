package store

import (
	"context"
	"errors"

	"codegap/internal/platform/store/ch"
)

// newCHAdapter wraps an existing *ch.CH as the store.Clickhouse seam
func newCHAdapter(c *ch.CH) Clickhouse {
	return &clickhouseAdapter{inner: c}
}

type clickhouseAdapter struct {
	inner *ch.CH
}

var _ Clickhouse = (*clickhouseAdapter)(nil)

func (a *clickhouseAdapter) Insert(ctx context.Context, table string, data any) error {
	rows, ok := data.([][]any)
	if !ok {
		return errors.New("store: unsupported CH insert shape (want [][]any)")
	}
	return a.inner.Insert(ctx, table, rows)
}

func (a *clickhouseAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	r, err := a.inner.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return &chRowsAdapter{r: r}, nil
}

func (a *clickhouseAdapter) Close() error { return a.inner.Close() }

// chRowsAdapter wraps ch.Rows as store.Rows
type chRowsAdapter struct {
	r ch.Rows
}

func (r *chRowsAdapter) Next() bool             { return r.r.Next() }
func (r *chRowsAdapter) Scan(dest ...any) error { return r.r.Scan(dest...) }
func (r *chRowsAdapter) Err() error             { return r.r.Err() }
func (r *chRowsAdapter) Close()                 { r.r.Close() }
func (r *chRowsAdapter) Columns() []string      { return r.r.Columns() }
