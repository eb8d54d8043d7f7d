package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTest(t *testing.T) *Manager {
	t.Helper()
	m, err := Open(Options{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "loanserve.db")})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	if err := m.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	return m
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	t.Parallel()

	m := openTest(t)

	// Second run must be a structural no-op.
	if err := m.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("second EnsureSchema() error = %v", err)
	}

	var tables int
	err := m.reader.QueryRowContext(context.Background(), `
SELECT COUNT(*) FROM sqlite_master
WHERE type = 'table' AND name IN ('ModelInputs', 'Predictions', 'ModelPerformance')
`).Scan(&tables)
	if err != nil {
		t.Fatalf("count tables: %v", err)
	}
	if tables != 3 {
		t.Fatalf("tables = %d, want 3", tables)
	}
}

func TestOpenEnforcesForeignKeys(t *testing.T) {
	t.Parallel()

	m := openTest(t)

	var fk int
	if err := m.writer.QueryRowContext(context.Background(), "PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query pragma: %v", err)
	}
	if fk != 1 {
		t.Fatalf("foreign_keys = %d, want 1", fk)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	t.Parallel()

	if _, err := Open(Options{Driver: "oracle"}); err == nil {
		t.Fatal("Open() with unknown driver should fail")
	}
}

func TestRowCountsOnFreshSchema(t *testing.T) {
	t.Parallel()

	m := openTest(t)
	inputs, predictions, metrics, err := m.RowCounts(context.Background())
	if err != nil {
		t.Fatalf("RowCounts() error = %v", err)
	}
	if inputs != 0 || predictions != 0 || metrics != 0 {
		t.Fatalf("counts = %d/%d/%d, want 0/0/0", inputs, predictions, metrics)
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	want := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	cases := []struct {
		name string
		in   any
	}{
		{"time", want},
		{"sqlite text", "2025-03-14 09:26:53"},
		{"bytes", []byte("2025-03-14 09:26:53")},
		{"rfc3339", "2025-03-14T09:26:53Z"},
	}
	for _, tc := range cases {
		got, err := parseTimestamp(tc.in)
		if err != nil {
			t.Fatalf("%s: parseTimestamp() error = %v", tc.name, err)
		}
		if !got.Equal(want) {
			t.Fatalf("%s: parseTimestamp() = %v, want %v", tc.name, got, want)
		}
	}

	if _, err := parseTimestamp(nil); err == nil {
		t.Fatal("parseTimestamp(nil) should fail")
	}
	if _, err := parseTimestamp("not a date"); err == nil {
		t.Fatal("parseTimestamp(garbage) should fail")
	}
}
