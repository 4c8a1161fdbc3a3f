package db

import "errors"

var (
	ErrFailedToParseDBConfig    = errors.New("db: failed to parse database configuration")
	ErrFailedToOpenDBConnection = errors.New("db: failed to open database connection")
	ErrHealthcheckFailed        = errors.New("db: healthcheck failed")

	// ErrShutdownTimeout is returned when connections are still in use as
	// the shutdown context ends.
	ErrShutdownTimeout = errors.New("db: pool did not close before shutdown timeout")
)
