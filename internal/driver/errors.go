package driver

import (
	sqldriver "database/sql/driver"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes that indicate the server is reachable but not
// yet accepting connections.
const (
	pgCannotConnectNow = "57P03"
	pgAdminShutdown    = "57P01"
)

// IsTransient reports whether an error is a connection-level failure that
// is likely to resolve on its own, e.g. the server is still starting up.
// Only idempotent checks should be retried on these.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgCannotConnectNow || pgErr.Code == pgAdminShutdown
	}

	if errors.Is(err, sqldriver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// Some drivers flatten the cause into the message.
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset by peer") ||
		strings.Contains(msg, "the database system is starting up")
}
