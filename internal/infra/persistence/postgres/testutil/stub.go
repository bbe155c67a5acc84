// Package testutil provides an in-memory database/sql driver that speaks the
// narrow slice of Postgres-flavoured SQL issued by the sqlstore repositories.
package testutil

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"
)

// StubConn records statements and keeps rows per table.
type StubConn struct {
	mu         sync.Mutex
	Execs      []string
	Tables     map[string][]map[string]any
	FailExec   bool
	FailPing   bool
	FailBegin  bool
	FailTables map[string]bool
	FailCommit bool
}

// NewStubDB registers a sql.DB backed by an in-memory stub connection.
func NewStubDB() (*sql.DB, *StubConn) {
	conn := &StubConn{Tables: make(map[string][]map[string]any)}
	name := fmt.Sprintf("stubpg%d", time.Now().UnixNano())
	sql.Register(name, &stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		panic(err)
	}
	return db, conn
}

type stubDriver struct {
	conn *StubConn
}

func (d *stubDriver) Open(string) (driver.Conn, error) {
	return d.conn, nil
}

// Prepare implements driver.Conn.
func (c *StubConn) Prepare(string) (driver.Stmt, error) { return nil, fmt.Errorf("not implemented") }

// Close implements driver.Conn.
func (c *StubConn) Close() error { return nil }

// Begin implements driver.Conn.
func (c *StubConn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

// Ping implements driver.Pinger.
func (c *StubConn) Ping(_ context.Context) error {
	if c.FailPing {
		return fmt.Errorf("ping fail")
	}
	return nil
}

// BeginTx implements driver.ConnBeginTx.
func (c *StubConn) BeginTx(_ context.Context, _ driver.TxOptions) (driver.Tx, error) {
	if c.FailBegin {
		return nil, fmt.Errorf("begin fail")
	}
	return &stubTx{conn: c}, nil
}

// ExecContext implements driver.ExecerContext for INSERT, UPDATE, DELETE and DDL.
func (c *StubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Execs = append(c.Execs, query)
	if c.FailExec {
		return nil, fmt.Errorf("exec fail")
	}
	verb := strings.ToUpper(strings.Fields(query)[0])
	switch verb {
	case "INSERT":
		table, cols, err := parseInsert(query)
		if err != nil {
			return nil, err
		}
		if c.FailTables[table] {
			return nil, fmt.Errorf("exec fail for %s", table)
		}
		if len(cols) != len(args) {
			return nil, fmt.Errorf("column/arg mismatch for %s", table)
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			row[col] = args[i].Value
		}
		for _, existing := range c.Tables[table] {
			if existing["id"] == row["id"] {
				return nil, fmt.Errorf("duplicate key value violates unique constraint \"%s_pkey\"", table)
			}
		}
		c.Tables[table] = append(c.Tables[table], row)
		return driver.RowsAffected(1), nil
	case "UPDATE":
		table, sets, where, err := parseUpdate(query)
		if err != nil {
			return nil, err
		}
		var n int64
		for _, row := range c.Tables[table] {
			if !matches(row, where, args) {
				continue
			}
			for col, idx := range sets {
				row[col] = args[idx].Value
			}
			n++
		}
		return driver.RowsAffected(n), nil
	case "DELETE":
		table, where, err := parseDelete(query)
		if err != nil {
			return nil, err
		}
		var kept []map[string]any
		var n int64
		for _, row := range c.Tables[table] {
			if matches(row, where, args) {
				n++
				continue
			}
			kept = append(kept, row)
		}
		c.Tables[table] = kept
		return driver.RowsAffected(n), nil
	}
	return driver.RowsAffected(0), nil
}

// QueryContext implements driver.QueryerContext. WHERE clauses made of
// "col = $n" terms joined by AND and "id IN (...)" are honoured; ORDER BY is ignored.
func (c *StubConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	table, cols, where, err := parseSelect(query)
	if err != nil {
		return nil, err
	}
	if c.FailTables[table] {
		return nil, fmt.Errorf("query fail for %s", table)
	}
	values := make([][]driver.Value, 0)
	for _, row := range c.Tables[table] {
		if !matches(row, where, args) {
			continue
		}
		vals := make([]driver.Value, len(cols))
		for i, col := range cols {
			vals[i] = row[col]
		}
		values = append(values, vals)
	}
	return &stubRows{cols: cols, rows: values}, nil
}

type stubTx struct {
	conn *StubConn
}

func (t *stubTx) Commit() error {
	if t.conn.FailCommit {
		return fmt.Errorf("commit fail")
	}
	return nil
}
func (t *stubTx) Rollback() error { return nil }

type stubRows struct {
	cols []string
	rows [][]driver.Value
	idx  int
}

func (r *stubRows) Columns() []string { return r.cols }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.idx])
	r.idx++
	return nil
}

// predicate is one parsed WHERE term: column equals any of the listed args.
type predicate struct {
	col  string
	args []int
}

func matches(row map[string]any, where []predicate, args []driver.NamedValue) bool {
	for _, p := range where {
		hit := false
		for _, idx := range p.args {
			if idx < len(args) && row[p.col] == args[idx].Value {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func parseWhere(clause string) ([]predicate, error) {
	clause = strings.TrimSpace(clause)
	if i := strings.Index(strings.ToUpper(clause), " ORDER BY "); i >= 0 {
		clause = clause[:i]
	}
	if clause == "" {
		return nil, nil
	}
	var preds []predicate
	for _, term := range strings.Split(clause, " AND ") {
		term = strings.TrimSpace(term)
		if col, list, ok := strings.Cut(term, " IN "); ok {
			list = strings.Trim(strings.TrimSpace(list), "()")
			p := predicate{col: strings.ToLower(strings.TrimSpace(col))}
			for _, ph := range strings.Split(list, ",") {
				idx, err := placeholderIndex(ph)
				if err != nil {
					return nil, err
				}
				p.args = append(p.args, idx)
			}
			preds = append(preds, p)
			continue
		}
		col, ph, ok := strings.Cut(term, "=")
		if !ok {
			return nil, fmt.Errorf("cannot parse predicate: %s", term)
		}
		idx, err := placeholderIndex(ph)
		if err != nil {
			return nil, err
		}
		preds = append(preds, predicate{col: strings.ToLower(strings.TrimSpace(col)), args: []int{idx}})
	}
	return preds, nil
}

func placeholderIndex(ph string) (int, error) {
	ph = strings.TrimSpace(ph)
	if !strings.HasPrefix(ph, "$") {
		return 0, fmt.Errorf("expected $n placeholder, got %q", ph)
	}
	n, err := strconv.Atoi(ph[1:])
	if err != nil {
		return 0, err
	}
	return n - 1, nil
}

func splitWhere(rest string) (string, string) {
	up := strings.ToUpper(rest)
	if i := strings.Index(up, " WHERE "); i >= 0 {
		return rest[:i], rest[i+len(" WHERE "):]
	}
	if i := strings.Index(up, " ORDER BY "); i >= 0 {
		return rest[:i], ""
	}
	return rest, ""
}

func parseInsert(query string) (string, []string, error) {
	up := strings.ToUpper(query)
	intoIdx := strings.Index(up, "INTO ")
	if intoIdx == -1 {
		return "", nil, fmt.Errorf("cannot parse insert: %s", query)
	}
	rest := strings.TrimSpace(query[intoIdx+len("INTO "):])
	open := strings.Index(rest, "(")
	closeIdx := strings.Index(rest, ")")
	if open == -1 || closeIdx == -1 || closeIdx <= open {
		return "", nil, fmt.Errorf("cannot parse insert: %s", query)
	}
	table := strings.ToLower(strings.TrimSpace(rest[:open]))
	return table, splitColumns(rest[open+1 : closeIdx]), nil
}

func parseUpdate(query string) (string, map[string]int, []predicate, error) {
	rest := strings.TrimSpace(query[len("UPDATE "):])
	table, body, ok := strings.Cut(rest, " SET ")
	if !ok {
		return "", nil, nil, fmt.Errorf("cannot parse update: %s", query)
	}
	setClause, whereClause := splitWhere(body)
	sets := make(map[string]int)
	for _, assign := range strings.Split(setClause, ",") {
		col, ph, ok := strings.Cut(assign, "=")
		if !ok {
			return "", nil, nil, fmt.Errorf("cannot parse assignment: %s", assign)
		}
		idx, err := placeholderIndex(ph)
		if err != nil {
			return "", nil, nil, err
		}
		sets[strings.ToLower(strings.TrimSpace(col))] = idx
	}
	where, err := parseWhere(whereClause)
	if err != nil {
		return "", nil, nil, err
	}
	return strings.ToLower(strings.TrimSpace(table)), sets, where, nil
}

func parseDelete(query string) (string, []predicate, error) {
	rest := strings.TrimSpace(query[len("DELETE FROM "):])
	table, whereClause := splitWhere(rest)
	where, err := parseWhere(whereClause)
	if err != nil {
		return "", nil, err
	}
	return strings.ToLower(strings.TrimSpace(table)), where, nil
}

func parseSelect(query string) (string, []string, []predicate, error) {
	lower := strings.ToLower(query)
	fromIdx := strings.Index(lower, " from ")
	if !strings.HasPrefix(lower, "select ") || fromIdx == -1 {
		return "", nil, nil, fmt.Errorf("cannot parse select: %s", query)
	}
	cols := splitColumns(query[len("select "):fromIdx])
	table, whereClause := splitWhere(strings.TrimSpace(query[fromIdx+len(" from "):]))
	where, err := parseWhere(whereClause)
	if err != nil {
		return "", nil, nil, err
	}
	return strings.ToLower(strings.TrimSpace(table)), cols, where, nil
}

func splitColumns(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, strings.ToLower(strings.TrimSpace(part)))
	}
	return out
}
