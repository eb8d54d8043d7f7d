package store

import (
	"context"
	"errors"
	"testing"
)

func TestHistoryEmptySchemaYieldsNoRows(t *testing.T) {
	t.Parallel()

	m := openTest(t)
	rows, err := m.History(context.Background(), 5)
	if err != nil {
		t.Fatalf("History() on empty schema error = %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(rows))
	}
}

func TestHistoryRejectsNonPositiveLimit(t *testing.T) {
	t.Parallel()

	m := openTest(t)
	for _, limit := range []int{0, -1, -100} {
		if _, err := m.History(context.Background(), limit); !errors.Is(err, ErrBadLimit) {
			t.Fatalf("History(%d) error = %v, want ErrBadLimit", limit, err)
		}
	}
}

func TestHistoryOrderingAndBound(t *testing.T) {
	t.Parallel()

	m := openTest(t)
	ctx := context.Background()

	ids := make([]int64, 0, 3)
	for i, f := range []Features{
		{Age: 30, Income: 50000, CreditScore: 700, LoanAmount: 20000},
		{Age: 45, Income: 90000, CreditScore: 810, LoanAmount: 5000},
		{Age: 26, Income: 28000, CreditScore: 520, LoanAmount: 35000},
	} {
		label := i % 2
		id, err := m.RecordScore(ctx, f, label, [2]float64{0.4, 0.6})
		if err != nil {
			t.Fatalf("RecordScore() #%d error = %v", i, err)
		}
		ids = append(ids, id)
	}

	rows, err := m.History(ctx, 2)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	// Most recent first; ties on timestamp break on PredictionID.
	if rows[0].InputID != ids[2] || rows[1].InputID != ids[1] {
		t.Fatalf("order = [%d %d], want [%d %d]", rows[0].InputID, rows[1].InputID, ids[2], ids[1])
	}
	if rows[0].PredictedAt.Before(rows[1].PredictedAt) {
		t.Fatalf("timestamps increasing: %v then %v", rows[0].PredictedAt, rows[1].PredictedAt)
	}

	all, err := m.History(ctx, 50)
	if err != nil {
		t.Fatalf("History(50) error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("rows = %d, want all 3", len(all))
	}
}

func TestHistoryReturnsAllJoinedFields(t *testing.T) {
	t.Parallel()

	m := openTest(t)
	ctx := context.Background()

	f := Features{Age: 30, Income: 50000, CreditScore: 700, LoanAmount: 20000}
	id, err := m.RecordScore(ctx, f, 1, [2]float64{0.3, 0.7})
	if err != nil {
		t.Fatalf("RecordScore() error = %v", err)
	}

	rows, err := m.History(ctx, 1)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}

	row := rows[0]
	if row.InputID != id {
		t.Fatalf("InputID = %d, want %d", row.InputID, id)
	}
	if row.Age != f.Age || row.Income != f.Income || row.CreditScore != f.CreditScore || row.LoanAmount != f.LoanAmount {
		t.Fatalf("feature columns = %+v, want %+v", row, f)
	}
	if row.Label != 1 || row.Confidence != 0.7 || row.Probability0 != 0.3 || row.Probability1 != 0.7 {
		t.Fatalf("prediction columns wrong: %+v", row)
	}
	if row.SubmittedAt.IsZero() || row.PredictedAt.IsZero() {
		t.Fatalf("timestamps not populated: %+v", row)
	}
}
