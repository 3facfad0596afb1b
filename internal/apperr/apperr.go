// Package apperr is the error taxonomy shared by the data, service and HTTP
// layers. Handlers switch on Kind to pick a status code and page.
package apperr

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/lib/pq"
)

type Kind int

const (
	Unknown Kind = iota
	NotFound
	Validation
	Constraint
	StoreUnavailable
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case Validation:
		return "validation"
	case Constraint:
		return "constraint_violation"
	case StoreUnavailable:
		return "store_unavailable"
	default:
		return "unknown"
	}
}

// Error carries a Kind, the operation that failed and, for validation
// failures, a message per form field.
type Error struct {
	Kind   Kind
	Op     string
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Invalid(op string, fields map[string]string) *Error {
	return &Error{Kind: Validation, Op: op, Fields: fields, Err: errors.New("invalid form submission")}
}

// KindOf returns the Kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// FieldsOf returns per-field validation messages, if any.
func FieldsOf(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

// FromStore classifies a raw error returned by bun or the SQL driver.
// Errors that are already classified pass through unchanged.
func FromStore(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return New(classify(err), op, err)
}

func classify(err error) Kind {
	if errors.Is(err, sql.ErrNoRows) {
		return NotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "23":
			return Constraint
		case "08", "53", "57":
			return StoreUnavailable
		}
		return Unknown
	}

	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return StoreUnavailable
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return StoreUnavailable
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "constraint failed"):
		return Constraint
	case strings.Contains(msg, "sql: database is closed"),
		strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "unable to open database"):
		return StoreUnavailable
	}
	return Unknown
}
