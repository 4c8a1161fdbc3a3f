package routefile

import "errors"

var (
	ErrInvalidPattern = errors.New("routefile: invalid glob pattern")
	ErrNoFiles        = errors.New("routefile: no definition files matched")
	ErrParse          = errors.New("routefile: failed to parse definitions")
	ErrInvalidRoute   = errors.New("routefile: invalid route definition")
)
