package schema

import (
	"strings"
	"testing"
)

func TestStatementsDropsComments(t *testing.T) {
	stmts := Statements("-- header\nCREATE TABLE a (id TEXT);\n\n-- next\nCREATE INDEX i\n  ON a (id);\nSELECT 1")
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d: %q", len(stmts), stmts)
	}
	if stmts[1] != "CREATE INDEX i\n  ON a (id);" {
		t.Fatalf("multi-line statement mangled: %q", stmts[1])
	}
	if stmts[2] != "SELECT 1" {
		t.Fatalf("expected unterminated tail kept, got %q", stmts[2])
	}
}

func TestBundlesSplitCleanly(t *testing.T) {
	for name, ddl := range map[string]string{"sqlite": SQLite(), "postgres": Postgres()} {
		stmts := Statements(ddl)
		if len(stmts) == 0 {
			t.Fatalf("%s: no statements", name)
		}
		for _, stmt := range stmts {
			if !strings.HasSuffix(stmt, ";") {
				t.Fatalf("%s: statement missing terminator: %q", name, stmt)
			}
		}
	}
}

func TestBundlesDeclareEveryTable(t *testing.T) {
	for _, table := range []string{"documents", "certificates", "production_sources", "organizations", "events"} {
		for name, ddl := range map[string]string{"sqlite": SQLite(), "postgres": Postgres()} {
			if !strings.Contains(ddl, "CREATE TABLE IF NOT EXISTS "+table+" (") {
				t.Fatalf("%s bundle missing table %s", name, table)
			}
		}
	}
}
