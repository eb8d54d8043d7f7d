package store

import (
	"context"
	"errors"
	"testing"
)

func TestRecordPredictionRejectsUnknownInput(t *testing.T) {
	t.Parallel()

	m := openTest(t)

	err := m.RecordPrediction(context.Background(), 999999, 1, [2]float64{0.2, 0.8})
	if err == nil {
		t.Fatal("RecordPrediction() with unknown input id should fail")
	}
	if !errors.Is(err, ErrConstraint) {
		t.Fatalf("error = %v, want ErrConstraint", err)
	}

	_, predictions, _, err := m.RowCounts(context.Background())
	if err != nil {
		t.Fatalf("RowCounts() error = %v", err)
	}
	if predictions != 0 {
		t.Fatalf("prediction rows = %d, want 0", predictions)
	}
}

func TestRecordPredictionStoresConfidenceAndProbabilities(t *testing.T) {
	t.Parallel()

	m := openTest(t)
	ctx := context.Background()

	inputID, err := m.RecordInput(ctx, Features{Age: 30, Income: 50000, CreditScore: 700, LoanAmount: 20000})
	if err != nil {
		t.Fatalf("RecordInput() error = %v", err)
	}
	if err := m.RecordPrediction(ctx, inputID, 1, [2]float64{0.25, 0.75}); err != nil {
		t.Fatalf("RecordPrediction() error = %v", err)
	}

	var (
		label      int
		confidence float64
		p0, p1     float64
	)
	err = m.reader.QueryRowContext(ctx, `
SELECT PredictionValue, Confidence, Probability_0, Probability_1
FROM Predictions WHERE InputID = ?
`, inputID).Scan(&label, &confidence, &p0, &p1)
	if err != nil {
		t.Fatalf("read back prediction: %v", err)
	}
	if label != 1 {
		t.Fatalf("label = %d, want 1", label)
	}
	if confidence != 0.75 {
		t.Fatalf("confidence = %v, want 0.75 (max of probabilities)", confidence)
	}
	if p0 != 0.25 || p1 != 0.75 {
		t.Fatalf("probabilities = %v/%v, want 0.25/0.75", p0, p1)
	}
}

func TestRecordScoreWritesBothRowsAtomically(t *testing.T) {
	t.Parallel()

	m := openTest(t)
	ctx := context.Background()

	inputID, err := m.RecordScore(ctx, Features{Age: 44, Income: 81000, CreditScore: 790, LoanAmount: 12000}, 1, [2]float64{0.1, 0.9})
	if err != nil {
		t.Fatalf("RecordScore() error = %v", err)
	}
	if inputID < 1 {
		t.Fatalf("inputID = %d, want >= 1", inputID)
	}

	inputs, predictions, _, err := m.RowCounts(ctx)
	if err != nil {
		t.Fatalf("RowCounts() error = %v", err)
	}
	if inputs != 1 || predictions != 1 {
		t.Fatalf("rows = %d inputs / %d predictions, want 1/1", inputs, predictions)
	}

	var linked int64
	if err := m.reader.QueryRowContext(ctx, "SELECT InputID FROM Predictions").Scan(&linked); err != nil {
		t.Fatalf("read prediction link: %v", err)
	}
	if linked != inputID {
		t.Fatalf("prediction references input %d, want %d", linked, inputID)
	}
}

func TestRecordScoreRollsBackOnPredictionFailure(t *testing.T) {
	t.Parallel()

	m := openTest(t)
	ctx := context.Background()

	// Drop the Predictions table so the second insert inside the
	// transaction fails; the input row must not survive.
	if _, err := m.writer.ExecContext(ctx, "DROP TABLE Predictions"); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	_, err := m.RecordScore(ctx, Features{Age: 51, Income: 30000, CreditScore: 480, LoanAmount: 40000}, 0, [2]float64{0.8, 0.2})
	if err == nil {
		t.Fatal("RecordScore() should fail without a Predictions table")
	}

	var inputs int64
	if err := m.reader.QueryRowContext(ctx, "SELECT COUNT(*) FROM ModelInputs").Scan(&inputs); err != nil {
		t.Fatalf("count inputs: %v", err)
	}
	if inputs != 0 {
		t.Fatalf("orphaned input rows = %d, want 0", inputs)
	}
}
