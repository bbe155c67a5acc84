// Package sqlstore implements domain.PersistentStore over database/sql. The
// postgres and sqlite packages supply the driver and a Dialect; everything
// else (queries, column codecs, error mapping) is shared.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"eaccore/internal/persistence/schema"
	"eaccore/pkg/domain"
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.PersistentStore = (*Store)(nil)

// timeLayout is fixed width so text timestamps sort chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Dialect captures the differences between SQL engines.
type Dialect struct {
	Name string
	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder func(n int) string
	// TimeAsText stores timestamps as fixed-width UTC text instead of native values.
	TimeAsText bool
	// WrapError adapts driver errors before they are wrapped in domain errors.
	WrapError func(error) error
	// DDL is the schema script applied by Migrate.
	DDL string
}

// Store is a database/sql backed persistent store.
type Store struct {
	db  *sql.DB
	d   Dialect
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used to stamp updated_at on partial updates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New wraps an open database handle.
func New(db *sql.DB, d Dialect, opts ...Option) *Store {
	if d.Placeholder == nil {
		d.Placeholder = func(int) string { return "?" }
	}
	s := &Store{db: db, d: d, now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Migrate applies the dialect DDL. Every statement is idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema.Statements(s.d.DDL) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute ddl: %w", s.wrap(err))
		}
	}
	return nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Dialect returns the configured dialect name.
func (s *Store) Dialect() string { return s.d.Name }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) wrap(err error) error {
	if err == nil || s.d.WrapError == nil {
		return err
	}
	return s.d.WrapError(err)
}

// rebind rewrites ? placeholders into the dialect form.
func (s *Store) rebind(query string) string {
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(s.d.Placeholder(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) fail(op string, entity domain.EntityType, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.NewPersistenceError(op, entity, s.wrap(err))
}

type scanner interface {
	Scan(dest ...any) error
}

// table describes how one entity maps onto its columns. columns[0] is the
// primary key; values and scan use the same order.
type table[T any] struct {
	name    string
	entity  domain.EntityType
	columns []string
	values  func(e *encoder, v T) []any
	scan    func(d *decoder, row scanner) (T, error)
	base    func(v *T) *domain.Base
}

func (t table[T]) selectSQL() string {
	return "SELECT " + strings.Join(t.columns, ", ") + " FROM " + t.name
}

func insertRow[T any](ctx context.Context, s *Store, t table[T], v T) (T, error) {
	op := "insert " + string(t.entity)
	enc := &encoder{textTime: s.d.TimeAsText}
	args := t.values(enc, v)
	if enc.err != nil {
		return v, s.fail(op, t.entity, enc.err)
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.name, strings.Join(t.columns, ", "), marks)
	if _, err := s.db.ExecContext(ctx, s.rebind(query), args...); err != nil {
		return v, s.fail(op, t.entity, err)
	}
	return v, nil
}

func getRow[T any](ctx context.Context, q queryer, s *Store, t table[T], id string) (T, error) {
	row := q.QueryRowContext(ctx, s.rebind(t.selectSQL()+" WHERE id = ?"), id)
	v, err := t.scan(&decoder{}, row)
	if errors.Is(err, sql.ErrNoRows) {
		return v, domain.NewNotFoundError(t.entity, id)
	}
	if err != nil {
		return v, s.fail("get "+string(t.entity), t.entity, err)
	}
	return v, nil
}

func listRows[T any](ctx context.Context, s *Store, t table[T], where string, args ...any) ([]T, error) {
	op := "list " + string(t.entity)
	query := t.selectSQL()
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY created_at DESC, id DESC"
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, s.fail(op, t.entity, err)
	}
	defer func() { _ = rows.Close() }()
	out := make([]T, 0)
	for rows.Next() {
		v, err := t.scan(&decoder{}, rows)
		if err != nil {
			return nil, s.fail(op, t.entity, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail(op, t.entity, err)
	}
	return out, nil
}

func rowsByIDs[T any](ctx context.Context, s *Store, t table[T], ids []string) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	return listRows(ctx, s, t, "id IN ("+marks+")", args...)
}

// updateRow reads, patches and rewrites a row inside one transaction.
func updateRow[T any](ctx context.Context, s *Store, t table[T], id string, apply func(*T)) (T, error) {
	op := "update " + string(t.entity)
	var zero T
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return zero, s.fail(op, t.entity, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	v, err := getRow(ctx, tx, s, t, id)
	if err != nil {
		return zero, err
	}
	apply(&v)
	t.base(&v).UpdatedAt = s.now()
	enc := &encoder{textTime: s.d.TimeAsText}
	args := t.values(enc, v)
	if enc.err != nil {
		return zero, s.fail(op, t.entity, enc.err)
	}
	sets := make([]string, 0, len(t.columns)-1)
	for _, c := range t.columns[1:] {
		sets = append(sets, c+" = ?")
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", t.name, strings.Join(sets, ", "))
	if _, err := tx.ExecContext(ctx, s.rebind(query), append(args[1:], id)...); err != nil {
		return zero, s.fail(op, t.entity, err)
	}
	if err := tx.Commit(); err != nil {
		return zero, s.fail(op, t.entity, err)
	}
	committed = true
	return v, nil
}

func deleteRow[T any](ctx context.Context, s *Store, t table[T], id string) error {
	op := "delete " + string(t.entity)
	res, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM "+t.name+" WHERE id = ?"), id)
	if err != nil {
		return s.fail(op, t.entity, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return s.fail(op, t.entity, err)
	}
	if n == 0 {
		return domain.NewNotFoundError(t.entity, id)
	}
	return nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// encoder turns Go values into column arguments. Nil or empty slices and nil
// pointers become SQL NULL.
type encoder struct {
	textTime bool
	err      error
}

func (e *encoder) json(v any) any {
	if e.err != nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		e.err = err
		return nil
	}
	switch string(b) {
	case "null", "[]":
		return nil
	}
	return string(b)
}

func (e *encoder) time(t time.Time) any {
	if e.textTime {
		return t.UTC().Format(timeLayout)
	}
	return t.UTC()
}

func (e *encoder) optTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return e.time(*t)
}

func optString(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

// decoder collects column conversion failures for one row.
type decoder struct {
	err error
}

func (d *decoder) json(ns sql.NullString, dst any) {
	if d.err != nil || !ns.Valid {
		return
	}
	if err := json.Unmarshal([]byte(ns.String), dst); err != nil {
		d.err = fmt.Errorf("decode json column: %w", err)
	}
}

func (d *decoder) time(src any) time.Time {
	t, err := parseTime(src)
	if err != nil && d.err == nil {
		d.err = err
	}
	return t
}

func (d *decoder) optTime(src any) *time.Time {
	if src == nil {
		return nil
	}
	t := d.time(src)
	return &t
}

func parseTime(src any) (time.Time, error) {
	switch v := src.(type) {
	case time.Time:
		return v.UTC(), nil
	case string:
		return parseTimeText(v)
	case []byte:
		return parseTimeText(string(v))
	default:
		return time.Time{}, fmt.Errorf("unsupported time value %T", src)
	}
}

func parseTimeText(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t.UTC(), nil
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
