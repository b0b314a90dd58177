// Package pgtest provides in-memory pgx fakes for repository tests.
package pgtest

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	_ pgx.Rows = (*Rows)(nil)
	_ pgx.Row  = Row{}
)

// Call is one recorded statement.
type Call struct {
	SQL  string
	Args []any
}

var placeholder = regexp.MustCompile(`\$(\d+)`)

// Validate reports a statement Postgres would reject at prepare time: a sent
// argument that no placeholder references, or a placeholder with no argument.
func (c Call) Validate() error {
	used := make(map[int]bool)
	highest := 0
	for _, m := range placeholder.FindAllStringSubmatch(c.SQL, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return fmt.Errorf("placeholder %s: %w", m[0], err)
		}
		used[n] = true
		highest = max(highest, n)
	}
	if highest > len(c.Args) {
		return fmt.Errorf("$%d referenced but only %d args sent: %s", highest, len(c.Args), c.SQL)
	}
	for i := 1; i <= len(c.Args); i++ {
		if !used[i] {
			return fmt.Errorf("arg $%d (%v) is sent but never referenced: %s", i, c.Args[i-1], c.SQL)
		}
	}
	return nil
}

// Validate runs Call.Validate over every recorded statement.
func (q *Querier) Validate() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, c := range q.Calls {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("call %d: %w", i, err)
		}
	}
	return nil
}

// Querier records statements and answers them with the configured functions.
// Unset functions return empty results.
type Querier struct {
	mu    sync.Mutex
	Calls []Call

	QueryFn    func(sql string, args []any) (pgx.Rows, error)
	QueryRowFn func(sql string, args []any) pgx.Row
	ExecFn     func(sql string, args []any) (pgconn.CommandTag, error)
}

func (q *Querier) record(sql string, args []any) {
	q.mu.Lock()
	q.Calls = append(q.Calls, Call{SQL: sql, Args: args})
	q.mu.Unlock()
}

// Query implements postgres.Querier.
func (q *Querier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.record(sql, args)
	if q.QueryFn != nil {
		return q.QueryFn(sql, args)
	}
	return NewRows(), nil
}

// QueryRow implements postgres.Querier.
func (q *Querier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.record(sql, args)
	if q.QueryRowFn != nil {
		return q.QueryRowFn(sql, args)
	}
	return Row{Err: pgx.ErrNoRows}
}

// Exec implements postgres.Querier.
func (q *Querier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.record(sql, args)
	if q.ExecFn != nil {
		return q.ExecFn(sql, args)
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

// Row is a single-row result.
type Row struct {
	Values []any
	Err    error
}

// Scan copies Values into dest.
func (r Row) Scan(dest ...any) error {
	if r.Err != nil {
		return r.Err
	}
	return assign(r.Values, dest)
}

// Rows iterates over fixed values.
type Rows struct {
	rows   [][]any
	pos    int
	err    error
	closed bool
}

// NewRows creates a result set; each element is one row.
func NewRows(rows ...[]any) *Rows {
	return &Rows{rows: rows, pos: -1}
}

// WithErr makes Err report err after iteration.
func (r *Rows) WithErr(err error) *Rows {
	r.err = err
	return r
}

// Closed reports whether Close was called.
func (r *Rows) Closed() bool { return r.closed }

func (r *Rows) Close() { r.closed = true }
func (r *Rows) Err() error { return r.err }
func (r *Rows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag("SELECT") }
func (r *Rows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *Rows) RawValues() [][]byte { return nil }
func (r *Rows) Conn() *pgx.Conn { return nil }

func (r *Rows) Next() bool {
	if r.closed {
		return false
	}
	r.pos++
	if r.pos >= len(r.rows) {
		r.closed = true
		return false
	}
	return true
}

func (r *Rows) Scan(dest ...any) error {
	if r.pos < 0 || r.pos >= len(r.rows) {
		return fmt.Errorf("scan outside of row")
	}
	return assign(r.rows[r.pos], dest)
}

func (r *Rows) Values() ([]any, error) {
	if r.pos < 0 || r.pos >= len(r.rows) {
		return nil, fmt.Errorf("values outside of row")
	}
	return r.rows[r.pos], nil
}

// assign sets *dest[i] = values[i]. A nil value zeroes the destination.
func assign(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: %d values into %d destinations", len(values), len(dest))
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d)
		if dv.Kind() != reflect.Pointer || dv.IsNil() {
			return fmt.Errorf("scan: destination %d is not a pointer", i)
		}
		target := dv.Elem()
		if values[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		v := reflect.ValueOf(values[i])
		switch {
		case v.Type().AssignableTo(target.Type()):
			target.Set(v)
		case target.Kind() == reflect.Pointer && v.Type().AssignableTo(target.Type().Elem()):
			p := reflect.New(target.Type().Elem())
			p.Elem().Set(v)
			target.Set(p)
		case v.Type().ConvertibleTo(target.Type()):
			target.Set(v.Convert(target.Type()))
		default:
			return fmt.Errorf("scan: cannot assign %T to %s", values[i], target.Type())
		}
	}
	return nil
}
