// Package schema embeds the relational DDL for the five entity tables.
package schema

import (
	_ "embed"
	"strings"
)

//go:embed sqlite.sql
var sqlite string

//go:embed postgres.sql
var postgres string

// SQLite returns the SQLite DDL.
func SQLite() string { return sqlite }

// Postgres returns the Postgres DDL.
func Postgres() string { return postgres }

// Statements splits a DDL script into statements that can be executed one at
// a time. Blank lines and whole-line "--" comments are dropped; a statement
// ends at a line whose last character is ';'. An unterminated tail is kept.
func Statements(ddl string) []string {
	var (
		out []string
		cur strings.Builder
	)
	for line := range strings.Lines(ddl) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		cur.WriteString(strings.TrimRight(line, "\r\n"))
		cur.WriteByte('\n')
		if strings.HasSuffix(trimmed, ";") {
			out = append(out, strings.TrimSpace(cur.String()))
			cur.Reset()
		}
	}
	if tail := strings.TrimSpace(cur.String()); tail != "" {
		out = append(out, tail)
	}
	return out
}
