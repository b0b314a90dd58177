package db

import "errors"

// ErrKeyNotFound signals a missing cache key.
var ErrKeyNotFound = errors.New("db: key not found")

// Op constants name the failing command or statement for error context.
const (
	OpPing    = "PING"
	OpGet     = "GET"
	OpMGet    = "MGET"
	OpSet     = "SET"
	OpQuery   = "QUERY"
	OpScan    = "SCAN"
	OpExec    = "EXEC"
	OpMigrate = "MIGRATE"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
