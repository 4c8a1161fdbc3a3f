package routecache

import "errors"

var (
	ErrNotFound         = errors.New("routecache: table not found")
	ErrVersionMismatch  = errors.New("routecache: schema version mismatch")
	ErrUncacheableRoute = errors.New("routecache: route handler cannot be cached")
	ErrDecode           = errors.New("routecache: failed to decode table")
	ErrEncode           = errors.New("routecache: failed to encode table")
	ErrInvalidTable     = errors.New("routecache: invalid table")
)
