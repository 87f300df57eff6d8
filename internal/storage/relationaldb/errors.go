package relationaldb

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrInvalidDriver         = errors.New("invalid database driver")
	ErrMissingDSN            = errors.New("database dsn is required")
	ErrInvalidMaxOpenConns   = errors.New("max open connections must be >= 0")
	ErrInvalidMaxIdleConns   = errors.New("max idle connections must be >= 0")
	ErrMaxIdleExceedsMaxOpen = errors.New("max idle connections cannot exceed max open connections")
	ErrInvalidTimeout        = errors.New("timeout must be positive")

	// Connection errors
	ErrDatabaseClosed   = errors.New("database connection is closed")
	ErrConnectionFailed = errors.New("failed to connect to database")

	// Data errors
	ErrInvalidDataFormat = errors.New("invalid data format")
	ErrInvalidLimit      = errors.New("invalid query limit")
)

// DatabaseError records the operation that failed alongside the cause
type DatabaseError struct {
	Op  string
	Msg string
	Err error
}

func (e *DatabaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("relationaldb %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("relationaldb %s: %s", e.Op, e.Msg)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

func newError(op, msg string, err error) error {
	return &DatabaseError{Op: op, Msg: msg, Err: err}
}
