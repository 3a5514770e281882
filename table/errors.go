package table

import "errors"

var (
	ErrTableNoFile      = errors.New("table does not exist")
	ErrTableClosed      = errors.New("table is closed")
	ErrInvalidDesc      = errors.New("invalid table description")
	ErrInvalidDataType  = errors.New("invalid data type")
	ErrNoSuchColumn     = errors.New("no such column")
	ErrTypeMismatch     = errors.New("column data type mismatch")
	ErrColumnKind       = errors.New("wrong column kind")
	ErrRowOutOfRange    = errors.New("row out of range")
	ErrUndefinedCell    = errors.New("array cell is undefined")
	ErrShapeMismatch    = errors.New("array shape does not match")
	ErrShapeConformance = errors.New("array shapes vary between rows")
)

// ArraySlicerError is returned when a Slicer does not fit the array it is applied to.
type ArraySlicerError struct {
	Reason string
}

func (e *ArraySlicerError) Error() string {
	return "ArraySlicerError: " + e.Reason
}
