package store

import (
	"context"
	"path/filepath"
	"testing"
)

func TestRecordInputReturnsGeneratedID(t *testing.T) {
	t.Parallel()

	m := openTest(t)
	ctx := context.Background()

	first, err := m.RecordInput(ctx, Features{Age: 30, Income: 50000, CreditScore: 700, LoanAmount: 20000})
	if err != nil {
		t.Fatalf("RecordInput() error = %v", err)
	}
	second, err := m.RecordInput(ctx, Features{Age: 52, Income: 64000, CreditScore: 610, LoanAmount: 9000})
	if err != nil {
		t.Fatalf("RecordInput() error = %v", err)
	}
	if second <= first {
		t.Fatalf("ids not monotonic: %d then %d", first, second)
	}
}

func TestRecordInputIDSurvivesConcurrentSessions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "loanserve.db")
	ctx := context.Background()

	a, err := Open(Options{Driver: "sqlite", Path: path})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = a.Close() }()
	if err := a.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}

	b, err := Open(Options{Driver: "sqlite", Path: path})
	if err != nil {
		t.Fatalf("Open() second session error = %v", err)
	}
	defer func() { _ = b.Close() }()

	// Interleave inserts across two sessions and check each returned id
	// points at the row holding that session's feature values.
	idA1, err := a.RecordInput(ctx, Features{Age: 21, Income: 1000, CreditScore: 301, LoanAmount: 100})
	if err != nil {
		t.Fatalf("session A insert: %v", err)
	}
	idB, err := b.RecordInput(ctx, Features{Age: 22, Income: 2000, CreditScore: 302, LoanAmount: 200})
	if err != nil {
		t.Fatalf("session B insert: %v", err)
	}
	idA2, err := a.RecordInput(ctx, Features{Age: 23, Income: 3000, CreditScore: 303, LoanAmount: 300})
	if err != nil {
		t.Fatalf("session A second insert: %v", err)
	}

	for _, tc := range []struct {
		id  int64
		age float64
	}{
		{idA1, 21}, {idB, 22}, {idA2, 23},
	} {
		var age float64
		if err := a.reader.QueryRowContext(ctx, "SELECT Age FROM ModelInputs WHERE InputID = ?", tc.id).Scan(&age); err != nil {
			t.Fatalf("read row %d: %v", tc.id, err)
		}
		if age != tc.age {
			t.Fatalf("row %d has Age %v, want %v", tc.id, age, tc.age)
		}
	}
}
