package store

import (
	"context"
	"fmt"
	"math"
)

const insertPredictionSQL = `
INSERT INTO Predictions (InputID, PredictionValue, Confidence, Probability_0, Probability_1)
VALUES (?, ?, ?, ?, ?)
`

// RecordPrediction persists one prediction row referencing an existing
// ModelInput. The referenced id must already exist; the store rejects the
// insert otherwise and the failure surfaces as ErrConstraint. Confidence is
// stored as max(probabilities) alongside both raw probabilities.
func (m *Manager) RecordPrediction(ctx context.Context, inputID int64, label int, probs [2]float64) error {
	confidence := math.Max(probs[0], probs[1])
	_, err := m.writer.ExecContext(ctx, insertPredictionSQL, inputID, label, confidence, probs[0], probs[1])
	if err != nil {
		return classify("insert prediction", err, ErrQuery)
	}
	return nil
}

// RecordScore writes the input row and its prediction row in one
// transaction. A failure on either insert rolls the whole request back, so
// no orphaned ModelInput is left behind. Returns the generated InputID.
func (m *Manager) RecordScore(ctx context.Context, f Features, label int, probs [2]float64) (int64, error) {
	tx, err := m.writer.BeginTx(ctx, nil)
	if err != nil {
		return 0, classify("begin score tx", err, ErrConnectivity)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, insertInputSQL, f.Age, f.Income, f.CreditScore, f.LoanAmount)
	if err != nil {
		return 0, classify("insert model input", err, ErrQuery)
	}
	inputID, err := res.LastInsertId()
	if err != nil {
		return 0, classify("input id readback", err, ErrQuery)
	}

	confidence := math.Max(probs[0], probs[1])
	if _, err := tx.ExecContext(ctx, insertPredictionSQL, inputID, label, confidence, probs[0], probs[1]); err != nil {
		return 0, classify("insert prediction", err, ErrQuery)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit score tx: %w: %w", ErrConnectivity, err)
	}
	return inputID, nil
}
