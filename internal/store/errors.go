package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Sentinel errors for the store failure taxonomy. Every exported operation
// wraps its failure in exactly one of these, so callers branch with
// errors.Is instead of inspecting driver types.
var (
	// ErrConnectivity: the store cannot be reached or the connection was
	// lost mid-operation.
	ErrConnectivity = errors.New("store unreachable")
	// ErrSchema: table creation failed.
	ErrSchema = errors.New("schema initialization failed")
	// ErrConstraint: an insert violated referential or type constraints.
	ErrConstraint = errors.New("constraint violation")
	// ErrQuery: a read or join failed on the store side.
	ErrQuery = errors.New("query failed")
	// ErrBadLimit: a history bound was not a positive integer.
	ErrBadLimit = errors.New("limit must be positive")
)

const mysqlErrNoReferencedRow = 1452

func isConstraintViolation(err error) bool {
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		return serr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == mysqlErrNoReferencedRow
	}
	return false
}

func isConnectivity(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// classify wraps a driver error with the matching sentinel, falling back to
// the caller-supplied kind when the error is neither a constraint nor a
// connectivity failure.
func classify(op string, err error, fallback error) error {
	kind := fallback
	switch {
	case isConstraintViolation(err):
		kind = ErrConstraint
	case isConnectivity(err):
		kind = ErrConnectivity
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
