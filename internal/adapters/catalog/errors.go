package catalog

import (
	"errors"
	"fmt"
)

// Sentinel kinds for page fetch failures.
var (
	ErrTransport = errors.New("catalog transport failed")
	ErrStatus    = errors.New("catalog returned non-success status")
	ErrParse     = errors.New("catalog response malformed")
)

// Kind classifies a PageError.
type Kind int

// Page error kinds.
const (
	KindTransport Kind = iota + 1
	KindStatus
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindTransport:
		return ErrTransport
	case KindStatus:
		return ErrStatus
	case KindParse:
		return ErrParse
	default:
		return nil
	}
}

// PageError reports why a page could not be turned into a batch. Both the
// kind sentinel and the underlying cause match errors.Is.
type PageError struct {
	Kind       Kind
	Page       int
	StatusCode int
	Err        error
}

func (e *PageError) Error() string {
	msg := fmt.Sprintf("page %d: %s", e.Page, e.Kind.sentinel())
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PageError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
