package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	_ "modernc.org/sqlite"
)

// Manager owns the process-wide handles to the relational store. The writer
// handle is capped at a single open connection so that every insert and its
// LastInsertId resolve on the same connection, and concurrent callers
// serialize at the store rather than interleaving writes.
type Manager struct {
	dialect Dialect
	path    string
	writer  *sql.DB
	reader  *sql.DB
}

type Options struct {
	Driver   string // "sqlite" or "mysql"
	Path     string // sqlite database file
	Host     string // mysql host:port
	Database string
	User     string
	Password string
}

type HealthStats struct {
	DBStatus    string
	DBSizeBytes int64
}

const pragmaSQL = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 10000;
PRAGMA temp_store = MEMORY;
PRAGMA foreign_keys = ON;
`

func init() {
	sqlite.RegisterConnectionHook(func(conn sqlite.ExecQuerierContext, _ string) error {
		_, err := conn.ExecContext(context.Background(), pragmaSQL, []driver.NamedValue{})
		return err
	})
}

// Open constructs the store handles without dialing the server; database/sql
// establishes the actual connection lazily on first use, so a store that is
// down at startup surfaces per-operation errors instead of failing the
// process. Callers that need to confirm reachability use Ping or WaitReady.
func Open(opts Options) (*Manager, error) {
	m := &Manager{}

	var dsn string
	switch opts.Driver {
	case "", "sqlite":
		m.dialect = DialectSQLite
		m.path = opts.Path
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		dsn = "file:" + opts.Path
	case "mysql":
		m.dialect = DialectMySQL
		cfg := mysql.NewConfig()
		cfg.Net = "tcp"
		cfg.Addr = opts.Host
		cfg.DBName = opts.Database
		cfg.User = opts.User
		cfg.Passwd = opts.Password
		cfg.ParseTime = true
		dsn = cfg.FormatDSN()
	default:
		return nil, fmt.Errorf("unsupported db driver %q", opts.Driver)
	}

	writer, err := sql.Open(m.dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open writer db: %w", err)
	}
	writer.SetMaxOpenConns(1)
	writer.SetMaxIdleConns(1)
	writer.SetConnMaxLifetime(0)

	reader, err := sql.Open(m.dialect.driverName(), dsn)
	if err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("open reader db: %w", err)
	}
	reader.SetMaxOpenConns(4)
	reader.SetMaxIdleConns(4)

	m.writer = writer
	m.reader = reader
	return m, nil
}

func (m *Manager) Dialect() Dialect {
	return m.dialect
}

func (m *Manager) Ping(ctx context.Context) error {
	if err := m.writer.PingContext(ctx); err != nil {
		return fmt.Errorf("ping writer: %w: %w", ErrConnectivity, err)
	}
	if err := m.reader.PingContext(ctx); err != nil {
		return fmt.Errorf("ping reader: %w: %w", ErrConnectivity, err)
	}
	return nil
}

func (m *Manager) WaitReady(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if err := m.Ping(ctx); err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("store did not become ready within %s", timeout)
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func (m *Manager) Close() error {
	var errs []error
	if err := m.writer.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := m.reader.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (m *Manager) Stats() HealthStats {
	stats := HealthStats{
		DBStatus: "ok",
	}
	if err := m.Ping(context.Background()); err != nil {
		stats.DBStatus = "error"
	}
	if m.path != "" {
		if fi, err := os.Stat(m.path); err == nil {
			stats.DBSizeBytes = fi.Size()
		}
	}
	return stats
}

// RowCounts reports how many rows each table holds, for health reporting.
func (m *Manager) RowCounts(ctx context.Context) (inputs, predictions, metrics int64, err error) {
	query := `
SELECT
  (SELECT COUNT(*) FROM ModelInputs),
  (SELECT COUNT(*) FROM Predictions),
  (SELECT COUNT(*) FROM ModelPerformance)
`
	if err = m.reader.QueryRowContext(ctx, query).Scan(&inputs, &predictions, &metrics); err != nil {
		return 0, 0, 0, classify("count rows", err, ErrQuery)
	}
	return inputs, predictions, metrics, nil
}

// parseTimestamp normalizes the timestamp representations the two drivers
// hand back: mysql with parseTime=true yields time.Time, sqlite yields the
// text CURRENT_TIMESTAMP produced for defaulted columns.
func parseTimestamp(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return parseTimestampString(t)
	case []byte:
		return parseTimestampString(string(t))
	case nil:
		return time.Time{}, errors.New("timestamp is null")
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
}

func parseTimestampString(s string) (time.Time, error) {
	for _, layout := range []string{
		"2006-01-02 15:04:05",
		"2006-01-02 15:04:05.999999999",
		time.RFC3339Nano,
		time.RFC3339,
	} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
