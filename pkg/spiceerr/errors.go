// Package spiceerr defines the error taxonomy surfaced across parsing,
// assembly, and solving: ParseError, InvalidConfig, SingularMatrix,
// NonConvergence, and IoError. Callers distinguish kinds with errors.Is.
package spiceerr

import (
	"errors"
	"fmt"
)

var (
	ErrParse          = errors.New("parse error")
	ErrInvalidConfig  = errors.New("invalid config")
	ErrSingularMatrix = errors.New("singular matrix")
	ErrNonConvergence = errors.New("newton iteration did not converge")
	ErrIO             = errors.New("io error")
	ErrUnsupported    = errors.New("unsupported")
)

// Parse builds a ParseError from a format string and arguments; the result
// matches ErrParse under errors.Is.
func Parse(format string, a ...any) error { return wrap(ErrParse, format, a...) }

// Config builds an InvalidConfig error matching ErrInvalidConfig.
func Config(format string, a ...any) error { return wrap(ErrInvalidConfig, format, a...) }

// Singular builds a SingularMatrix error matching ErrSingularMatrix.
func Singular(format string, a ...any) error { return wrap(ErrSingularMatrix, format, a...) }

// NonConvergence builds a NonConvergence error matching ErrNonConvergence.
func NonConvergence(format string, a ...any) error { return wrap(ErrNonConvergence, format, a...) }

// IO builds an IoError matching ErrIO.
func IO(format string, a ...any) error { return wrap(ErrIO, format, a...) }

// Unsupported builds an unsupported-operation error matching ErrUnsupported.
func Unsupported(format string, a ...any) error { return wrap(ErrUnsupported, format, a...) }

func wrap(kind error, format string, a ...any) error {
	msg := format
	if len(a) > 0 {
		msg = fmt.Sprintf(format, a...)
	}
	return &taggedError{kind: kind, msg: msg}
}

type taggedError struct {
	kind error
	msg  string
}

func (e *taggedError) Error() string { return e.msg }
func (e *taggedError) Unwrap() error { return e.kind }
