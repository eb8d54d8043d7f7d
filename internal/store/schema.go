package store

import (
	"context"
	"fmt"
)

type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectMySQL
)

func (d Dialect) driverName() string {
	if d == DialectMySQL {
		return "mysql"
	}
	return "sqlite"
}

func (d Dialect) String() string {
	if d == DialectMySQL {
		return "mysql"
	}
	return "sqlite"
}

var sqliteDDL = []string{
	`CREATE TABLE IF NOT EXISTS ModelInputs (
  InputID INTEGER PRIMARY KEY AUTOINCREMENT,
  Age REAL NOT NULL,
  Income REAL NOT NULL,
  CreditScore REAL NOT NULL,
  LoanAmount REAL NOT NULL,
  InputDate TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE TABLE IF NOT EXISTS Predictions (
  PredictionID INTEGER PRIMARY KEY AUTOINCREMENT,
  InputID INTEGER NOT NULL REFERENCES ModelInputs (InputID),
  PredictionValue INTEGER NOT NULL,
  PredictionDate TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  Confidence REAL NOT NULL,
  Probability_0 REAL NOT NULL,
  Probability_1 REAL NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_predictions_input ON Predictions (InputID)`,
	`CREATE TABLE IF NOT EXISTS ModelPerformance (
  PerformanceID INTEGER PRIMARY KEY AUTOINCREMENT,
  MetricName TEXT NOT NULL,
  MetricValue REAL NOT NULL,
  MeasurementDate TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
}

var mysqlDDL = []string{
	`CREATE TABLE IF NOT EXISTS ModelInputs (
  InputID BIGINT AUTO_INCREMENT PRIMARY KEY,
  Age DOUBLE NOT NULL,
  Income DOUBLE NOT NULL,
  CreditScore DOUBLE NOT NULL,
  LoanAmount DOUBLE NOT NULL,
  InputDate TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE TABLE IF NOT EXISTS Predictions (
  PredictionID BIGINT AUTO_INCREMENT PRIMARY KEY,
  InputID BIGINT NOT NULL,
  PredictionValue INT NOT NULL,
  PredictionDate TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
  Confidence DOUBLE NOT NULL,
  Probability_0 DOUBLE NOT NULL,
  Probability_1 DOUBLE NOT NULL,
  FOREIGN KEY (InputID) REFERENCES ModelInputs (InputID)
)`,
	`CREATE TABLE IF NOT EXISTS ModelPerformance (
  PerformanceID BIGINT AUTO_INCREMENT PRIMARY KEY,
  MetricName VARCHAR(64) NOT NULL,
  MetricValue DOUBLE NOT NULL,
  MeasurementDate TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
}

// EnsureSchema creates the three tables if they are absent. Each statement is
// a conditional create, so running it on every startup is a no-op once the
// schema exists. Data operations issued before a successful EnsureSchema fail
// with their own errors rather than assuming the tables are there.
func (m *Manager) EnsureSchema(ctx context.Context) error {
	ddl := sqliteDDL
	if m.dialect == DialectMySQL {
		ddl = mysqlDDL
	}
	for _, stmt := range ddl {
		if _, err := m.writer.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w: %w", ErrSchema, err)
		}
	}
	return nil
}
