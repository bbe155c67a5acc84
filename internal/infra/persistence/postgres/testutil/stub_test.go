package testutil

import (
	"context"
	"database/sql/driver"
	"testing"
)

func TestStubDBStoresAndQueriesRows(t *testing.T) {
	ctx := context.Background()
	_, conn := NewStubDB()

	if err := conn.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	for _, id := range []string{"doc-1", "doc-2"} {
		if _, err := conn.ExecContext(ctx, "INSERT INTO documents (id, url) VALUES ($1, $2)", []driver.NamedValue{
			{Value: id},
			{Value: "https://x/" + id},
		}); err != nil {
			t.Fatalf("ExecContext insert: %v", err)
		}
	}
	if _, err := conn.ExecContext(ctx, "INSERT INTO documents (id, url) VALUES ($1, $2)", []driver.NamedValue{{Value: "doc-1"}, {Value: "dup"}}); err == nil {
		t.Fatalf("expected duplicate key error")
	}

	res, err := conn.ExecContext(ctx, "UPDATE documents SET url = $1 WHERE id = $2", []driver.NamedValue{{Value: "https://y"}, {Value: "doc-2"}})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if n, _ := res.RowsAffected(); n != 1 {
		t.Fatalf("expected one updated row, got %d", n)
	}

	rows, err := conn.QueryContext(ctx, "SELECT id, url FROM documents WHERE id IN ($1, $2) ORDER BY created_at DESC", []driver.NamedValue{{Value: "doc-2"}, {Value: "missing"}})
	if err != nil {
		t.Fatalf("QueryContext: %v", err)
	}
	dest := make([]driver.Value, 2)
	if err := rows.Next(dest); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if dest[0] != "doc-2" || dest[1] != "https://y" {
		t.Fatalf("unexpected row values: %v", dest)
	}
	if err := rows.Next(dest); err == nil {
		t.Fatalf("expected a single filtered row")
	}

	res, err = conn.ExecContext(ctx, "DELETE FROM documents WHERE id = $1", []driver.NamedValue{{Value: "doc-1"}})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n, _ := res.RowsAffected(); n != 1 || len(conn.Tables["documents"]) != 1 {
		t.Fatalf("expected one row removed, affected %d, left %v", n, conn.Tables["documents"])
	}
}

func TestStubDBParseErrors(t *testing.T) {
	_, conn := NewStubDB()
	if _, err := conn.QueryContext(context.Background(), "SELECT id FROM documents WHERE id = ?", []driver.NamedValue{{Value: "x"}}); err == nil {
		t.Fatalf("expected placeholder style error")
	}
	if _, err := conn.ExecContext(context.Background(), "INSERT INTO broken VALUES", nil); err == nil {
		t.Fatalf("expected insert parse error")
	}
}
