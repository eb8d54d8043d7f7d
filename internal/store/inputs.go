package store

import (
	"context"
)

// Features is one validated applicant feature vector. The caller is trusted
// to have range-checked the values; out-of-range inputs are stored and
// scored as-is.
type Features struct {
	Age         float64
	Income      float64
	CreditScore float64
	LoanAmount  float64
}

func (f Features) Vector() [4]float64 {
	return [4]float64{f.Age, f.Income, f.CreditScore, f.LoanAmount}
}

const insertInputSQL = `
INSERT INTO ModelInputs (Age, Income, CreditScore, LoanAmount)
VALUES (?, ?, ?, ?)
`

// RecordInput persists one feature vector and returns the generated InputID
// of that exact row. The id comes from the same statement execution, and the
// writer handle holds a single connection, so inserts from other sessions
// cannot be observed as this row's id.
func (m *Manager) RecordInput(ctx context.Context, f Features) (int64, error) {
	res, err := m.writer.ExecContext(ctx, insertInputSQL, f.Age, f.Income, f.CreditScore, f.LoanAmount)
	if err != nil {
		return 0, classify("insert model input", err, ErrQuery)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, classify("input id readback", err, ErrQuery)
	}
	return id, nil
}
