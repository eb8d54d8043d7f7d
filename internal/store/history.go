package store

import (
	"context"
	"time"
)

// HistoryRow is one joined input+prediction record.
type HistoryRow struct {
	InputID      int64
	Age          float64
	Income       float64
	CreditScore  float64
	LoanAmount   float64
	SubmittedAt  time.Time
	PredictionID int64
	Label        int
	Confidence   float64
	Probability0 float64
	Probability1 float64
	PredictedAt  time.Time
}

const historySQL = `
SELECT
  i.InputID, i.Age, i.Income, i.CreditScore, i.LoanAmount, i.InputDate,
  p.PredictionID, p.PredictionValue, p.Confidence, p.Probability_0, p.Probability_1, p.PredictionDate
FROM ModelInputs i
INNER JOIN Predictions p ON p.InputID = i.InputID
ORDER BY p.PredictionDate DESC, p.PredictionID DESC
LIMIT ?
`

// History returns at most limit joined rows, most recent prediction first.
// The PredictionID tiebreak keeps the order deterministic when several rows
// land inside the same timestamp tick. An empty store yields an empty slice,
// not an error. A non-positive limit is a caller bug and fails with
// ErrBadLimit rather than being clamped.
func (m *Manager) History(ctx context.Context, limit int) ([]HistoryRow, error) {
	if limit < 1 {
		return nil, ErrBadLimit
	}

	rows, err := m.reader.QueryContext(ctx, historySQL, limit)
	if err != nil {
		return nil, classify("query history", err, ErrQuery)
	}
	defer rows.Close()

	out := make([]HistoryRow, 0, limit)
	for rows.Next() {
		var (
			row         HistoryRow
			inputDate   any
			predictDate any
		)
		if err := rows.Scan(
			&row.InputID,
			&row.Age,
			&row.Income,
			&row.CreditScore,
			&row.LoanAmount,
			&inputDate,
			&row.PredictionID,
			&row.Label,
			&row.Confidence,
			&row.Probability0,
			&row.Probability1,
			&predictDate,
		); err != nil {
			return nil, classify("scan history row", err, ErrQuery)
		}
		if row.SubmittedAt, err = parseTimestamp(inputDate); err != nil {
			return nil, classify("parse input date", err, ErrQuery)
		}
		if row.PredictedAt, err = parseTimestamp(predictDate); err != nil {
			return nil, classify("parse prediction date", err, ErrQuery)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate history", err, ErrQuery)
	}
	return out, nil
}
