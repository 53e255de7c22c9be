package compiler

import (
	"errors"
	"fmt"
)

var (
	ErrKindNotSpecified = errors.New("kind not specified")
	ErrDuplicateKind    = errors.New("kind specified more than once")
	ErrNotAscending     = errors.New("lower_limit must be ascending")
	ErrNoCategories     = errors.New("category not specified")
	ErrUnknownDirective = errors.New("unknown directive")
	ErrBadArguments     = errors.New("bad arguments")
	ErrBadPattern       = errors.New("bad pattern")
)

// ConfigError is a fatal config validation failure. Line is 0 when the error
// concerns the config as a whole rather than one directive.
type ConfigError struct {
	Source string
	Line   int
	Err    error
	Detail string
}

func (e *ConfigError) Error() string {
	loc := e.Source
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.Source, e.Line)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %v: %s", loc, e.Err, e.Detail)
	}
	return fmt.Sprintf("%s: %v", loc, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
