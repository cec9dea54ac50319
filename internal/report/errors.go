package report

import (
	"errors"
	"fmt"
)

// Kind classifies a failure by the pipeline stage that produced it.
type Kind int

const (
	KindConfig Kind = iota + 1
	KindTransport
	KindParse
	KindFormat
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindTransport:
		return "transport"
	case KindParse:
		return "parse"
	case KindFormat:
		return "format"
	default:
		return "unknown"
	}
}

var (
	ErrUnknownTeam     = errors.New("team not in the configuration")
	ErrNoData          = errors.New("no data returned")
	ErrMalformedRecord = errors.New("malformed record")
	ErrUnknownStatus   = errors.New("unknown status")
)

// Error is the error type shared by every stage of a report.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so errors.Is(err, &Error{Kind: KindParse}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Err == nil
}

func ConfigError(op string, err error) error {
	return &Error{Kind: KindConfig, Op: op, Err: err}
}

func TransportError(op string, err error) error {
	return &Error{Kind: KindTransport, Op: op, Err: err}
}

func ParseError(op string, err error) error {
	return &Error{Kind: KindParse, Op: op, Err: err}
}

func FormatError(op string, err error) error {
	return &Error{Kind: KindFormat, Op: op, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
