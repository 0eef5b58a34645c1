package approval

import (
	"errors"
	"strings"
)

var (
	// Creation errors, never retried.
	ErrChainAlreadyExists = errors.New("approval chain already exists for this request")
	ErrInvalidChain       = errors.New("approver list is empty or malformed")

	// Authorization/state errors, surfaced to the caller as a rejected action.
	ErrNoActionableStep      = errors.New("no pending step at the request's current level")
	ErrUnauthorized          = errors.New("actor is not the designated approver for this step")
	ErrUnauthorizedRejection = errors.New("actor is not the designated approver; rejection denied")
	ErrReasonRequired        = errors.New("rejection reason is required")

	ErrUnknownRequestKind = errors.New("no request accessor registered for kind")

	// ErrConflict marks transient lock/serialization failures. The operation
	// committed nothing and is safe to retry with backoff.
	ErrConflict = errors.New("transaction conflict, retry")
)

// sqlStater is satisfied by pgconn.PgError without importing the driver here.
type sqlStater interface {
	SQLState() string
}

// isConflictErr reports whether err is a transient locking or serialization
// failure rather than a logical one.
func isConflictErr(err error) bool {
	var st sqlStater
	if errors.As(err, &st) {
		switch st.SQLState() {
		case "40001", "40P01", "55P03": // serialization, deadlock, lock_not_available
			return true
		}
	}
	// SQLite surfaces writer contention as busy/locked text errors.
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "SQLITE_BUSY")
}

// isUniqueViolationErr reports whether err is a unique-index violation.
func isUniqueViolationErr(err error) bool {
	var st sqlStater
	if errors.As(err, &st) && st.SQLState() == "23505" {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLITE_CONSTRAINT_UNIQUE")
}
