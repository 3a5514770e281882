package column

import (
	"errors"
	"fmt"

	"github.com/danthegoodman1/mstable/table"
)

// Code is the outcome class of a column operation. Callers branch on the code, the wrapped
// error only carries detail.
type Code int

const (
	OK Code = iota
	TableNoFile
	ArraySlicerError
	TableError
)

func (c Code) String() string {
	switch c {
	case OK:
		return "OK"
	case TableNoFile:
		return "TABLE_NO_FILE"
	case ArraySlicerError:
		return "ARRAY_SLICER_ERROR"
	case TableError:
		return "TABLE_ERROR"
	default:
		return fmt.Sprintf("Code(%d)", int(c))
	}
}

// Error is the only error type returned by this package.
type Error struct {
	Code   Code
	Column string
	Err    error
}

func (e *Error) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Err)
	}
	return fmt.Sprintf("%s: column %q: %s", e.Code, e.Column, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf classifies any error, including ones produced outside this package such as a failed
// table open. A nil error is OK.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	if errors.Is(err, table.ErrTableNoFile) {
		return TableNoFile
	}
	var se *table.ArraySlicerError
	if errors.As(err, &se) {
		return ArraySlicerError
	}
	return TableError
}

func wrap(column string, err error) error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		if ce.Column == "" {
			ce.Column = column
		}
		return err
	}
	return &Error{Code: CodeOf(err), Column: column, Err: err}
}

// recoverTo turns a panic in the deferring entry point into a TableError stored in *err.
func recoverTo(column string, err *error) {
	if r := recover(); r != nil {
		logger.Error().Str("column", column).Interface("panic", r).Msg("recovered panic in column operation")
		*err = &Error{Code: TableError, Column: column, Err: fmt.Errorf("panic: %v", r)}
	}
}
