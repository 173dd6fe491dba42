package store_test

import (
	"context"
	"errors"
	"testing"

	perr "codegap/internal/platform/errors"
	"codegap/internal/platform/store"
)

type memTag int64

func (t memTag) String() string      { return "MEM" }
func (t memTag) RowsAffected() int64 { return int64(t) }

// memRows serves canned single-column string rows
type memRows struct {
	vals []string
	pos  int
	err  error
}

func (r *memRows) Next() bool {
	if r.pos >= len(r.vals) {
		return false
	}
	r.pos++
	return true
}

func (r *memRows) Scan(dest ...any) error {
	if p, ok := dest[0].(*string); ok {
		*p = r.vals[r.pos-1]
		return nil
	}
	return errors.New("dest must be *string")
}

func (r *memRows) Err() error        { return r.err }
func (r *memRows) Close()            {}
func (r *memRows) Columns() []string { return []string{"v"} }

type memRow struct{ val string }

func (r memRow) Scan(dest ...any) error {
	if p, ok := dest[0].(*string); ok {
		*p = r.val
		return nil
	}
	return errors.New("dest must be *string")
}

type memQuerier struct {
	affected int64
	rows     *memRows
	row      memRow
	execErr  error
}

func (m memQuerier) Exec(context.Context, string, ...any) (store.CommandTag, error) {
	return memTag(m.affected), m.execErr
}

func (m memQuerier) Query(context.Context, string, ...any) (store.Rows, error) {
	return m.rows, nil
}

func (m memQuerier) QueryRow(context.Context, string, ...any) store.Row { return m.row }

func scanString(r store.Row) (string, error) {
	var s string
	err := r.Scan(&s)
	return s, err
}

func TestExecAffected(t *testing.T) {
	n, err := store.ExecAffected(context.Background(), memQuerier{affected: 3}, "update x")
	if err != nil || n != 3 {
		t.Fatalf("ExecAffected = %d, %v", n, err)
	}

	boom := errors.New("down")
	_, err = store.ExecAffected(context.Background(), memQuerier{execErr: boom}, "update x")
	if !errors.Is(err, boom) {
		t.Fatalf("expected exec error, got %v", err)
	}
}

func TestScalar(t *testing.T) {
	got, err := store.Scalar[string](context.Background(), memQuerier{row: memRow{val: "42"}}, "select")
	if err != nil || got != "42" {
		t.Fatalf("Scalar = %q, %v", got, err)
	}
}

func TestOne(t *testing.T) {
	q := memQuerier{rows: &memRows{vals: []string{"only"}}}
	got, err := store.One(context.Background(), q, scanString, "select")
	if err != nil || got != "only" {
		t.Fatalf("One = %q, %v", got, err)
	}
}

func TestOneNoRowsIsNotFound(t *testing.T) {
	q := memQuerier{rows: &memRows{}}
	_, err := store.One(context.Background(), q, scanString, "select")
	if !errors.Is(err, perr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOneRejectsMultipleRows(t *testing.T) {
	q := memQuerier{rows: &memRows{vals: []string{"a", "b"}}}
	if _, err := store.One(context.Background(), q, scanString, "select"); err == nil {
		t.Fatalf("expected error for multiple rows")
	}
}

func TestMany(t *testing.T) {
	q := memQuerier{rows: &memRows{vals: []string{"a", "b", "c"}}}
	got, err := store.Many(context.Background(), q, scanString, "select")
	if err != nil || len(got) != 3 || got[2] != "c" {
		t.Fatalf("Many = %v, %v", got, err)
	}

	// empty result is a nil slice, not an error
	empty := memQuerier{rows: &memRows{}}
	got, err = store.Many(context.Background(), empty, scanString, "select")
	if err != nil || got != nil {
		t.Fatalf("empty Many = %v, %v", got, err)
	}
}

type pingSeam struct{ err error }

func (p pingSeam) Exec(context.Context, string, ...any) (store.CommandTag, error) {
	return memTag(0), nil
}
func (p pingSeam) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (p pingSeam) QueryRow(context.Context, string, ...any) store.Row        { return memRow{} }
func (p pingSeam) Tx(ctx context.Context, fn func(q store.RowQuerier) error) error {
	return fn(p)
}
func (p pingSeam) Ping(context.Context) error { return p.err }

func TestGuard(t *testing.T) {
	healthy := &store.Store{PG: pingSeam{}}
	if err := healthy.Guard(context.Background()); err != nil {
		t.Fatalf("healthy guard: %v", err)
	}

	sick := &store.Store{PG: pingSeam{err: errors.New("refused")}}
	if err := sick.Guard(context.Background()); err == nil {
		t.Fatalf("expected guard failure")
	}

	// backends left nil are simply skipped
	if err := (&store.Store{}).Guard(context.Background()); err != nil {
		t.Fatalf("empty store guard: %v", err)
	}
}
