package store

import (
	"context"
	"time"
)

// MetricRow is one recorded model-quality measurement.
type MetricRow struct {
	PerformanceID int64
	Name          string
	Value         float64
	MeasuredAt    time.Time
}

// RecordMetric appends one named measurement. Every call is a new row;
// repeated names are distinct measurement points, never updates.
func (m *Manager) RecordMetric(ctx context.Context, name string, value float64) error {
	_, err := m.writer.ExecContext(ctx,
		`INSERT INTO ModelPerformance (MetricName, MetricValue) VALUES (?, ?)`,
		name, value)
	if err != nil {
		return classify("insert metric", err, ErrQuery)
	}
	return nil
}

// MetricHistory returns up to limit measurements, newest first. An empty
// name matches every metric.
func (m *Manager) MetricHistory(ctx context.Context, name string, limit int) ([]MetricRow, error) {
	if limit < 1 {
		return nil, ErrBadLimit
	}

	query := `
SELECT PerformanceID, MetricName, MetricValue, MeasurementDate
FROM ModelPerformance
WHERE (? = '' OR MetricName = ?)
ORDER BY MeasurementDate DESC, PerformanceID DESC
LIMIT ?
`
	rows, err := m.reader.QueryContext(ctx, query, name, name, limit)
	if err != nil {
		return nil, classify("query metrics", err, ErrQuery)
	}
	defer rows.Close()

	out := make([]MetricRow, 0, limit)
	for rows.Next() {
		var (
			row      MetricRow
			measured any
		)
		if err := rows.Scan(&row.PerformanceID, &row.Name, &row.Value, &measured); err != nil {
			return nil, classify("scan metric row", err, ErrQuery)
		}
		if row.MeasuredAt, err = parseTimestamp(measured); err != nil {
			return nil, classify("parse measurement date", err, ErrQuery)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate metrics", err, ErrQuery)
	}
	return out, nil
}
