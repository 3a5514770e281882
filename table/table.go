package table

import (
	"fmt"
)

type (
	// Table is an open table: a description plus typed in-memory storage for every column.
	// It does no locking, callers sharing a Table between goroutines must synchronise.
	Table struct {
		desc   TableDesc
		nrow   int
		stores map[string]store
		closed bool
	}

	store interface {
		isDefined(row int) bool
		cellShape(row int) Shape
	}

	scalarStore[T Element] struct {
		values []T
	}

	// fixedStore keeps all cells of a fixed-shape column back to back, row slowest.
	fixedStore[T Element] struct {
		shape  Shape
		values []T
	}

	varStore[T Element] struct {
		cells []varCell[T]
	}

	varCell[T Element] struct {
		defined bool
		shape   Shape
		data    []T
	}
)

// MaxElements bounds the number of values, or variable-shape cells, a single column may hold.
const MaxElements = 1 << 28

// New allocates a table with nrow rows. Scalar and fixed-shape cells start zeroed,
// variable-shape cells start undefined.
func New(desc TableDesc, nrow int) (*Table, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if nrow < 0 {
		return nil, fmt.Errorf("%w: negative row count %d", ErrInvalidDesc, nrow)
	}
	for _, cd := range desc.Columns {
		if err := checkColumnSize(cd, nrow); err != nil {
			return nil, err
		}
	}
	t := &Table{
		desc:   desc.clone(),
		nrow:   nrow,
		stores: make(map[string]store, len(desc.Columns)),
	}
	for _, cd := range t.desc.Columns {
		switch cd.Type {
		case Bool:
			t.stores[cd.Name] = newStore[bool](cd, nrow)
		case Int32:
			t.stores[cd.Name] = newStore[int32](cd, nrow)
		case Float32:
			t.stores[cd.Name] = newStore[float32](cd, nrow)
		case Float64:
			t.stores[cd.Name] = newStore[float64](cd, nrow)
		case Complex64:
			t.stores[cd.Name] = newStore[complex64](cd, nrow)
		}
	}
	return t, nil
}

// checkColumnSize rejects columns whose storage would exceed MaxElements.
func checkColumnSize(cd ColumnDesc, nrow int) error {
	per := 1
	if cd.IsFixedShape() {
		n, err := cd.Shape.elements()
		if err != nil {
			return fmt.Errorf("%w: column %q: %s", ErrInvalidDesc, cd.Name, err)
		}
		per = n
	}
	if per != 0 && nrow > MaxElements/per {
		return fmt.Errorf("%w: column %q with %d rows of %d elements exceeds %d elements", ErrInvalidDesc, cd.Name, nrow, per, MaxElements)
	}
	return nil
}

func newStore[T Element](cd ColumnDesc, nrow int) store {
	switch {
	case cd.IsScalar():
		return &scalarStore[T]{values: make([]T, nrow)}
	case cd.IsFixedShape():
		return &fixedStore[T]{shape: cd.Shape.Clone(), values: make([]T, nrow*cd.Shape.Product())}
	default:
		return &varStore[T]{cells: make([]varCell[T], nrow)}
	}
}

func (td TableDesc) clone() TableDesc {
	c := td
	c.Columns = make([]ColumnDesc, len(td.Columns))
	for i, cd := range td.Columns {
		cd.Shape = cd.Shape.Clone()
		c.Columns[i] = cd
	}
	return c
}

// Desc returns a copy of the table description.
func (t *Table) Desc() TableDesc {
	return t.desc.clone()
}

func (t *Table) NRow() int {
	return t.nrow
}

func (t *Table) IsColumn(name string) bool {
	return t.desc.IsColumn(name)
}

func (t *Table) ColumnDesc(name string) (ColumnDesc, error) {
	if t.closed {
		return ColumnDesc{}, ErrTableClosed
	}
	cd, ok := t.desc.Column(name)
	if !ok {
		return ColumnDesc{}, fmt.Errorf("%w: %q", ErrNoSuchColumn, name)
	}
	cd.Shape = cd.Shape.Clone()
	return cd, nil
}

// IsDefined reports whether the cell holds a value. Scalar and fixed-shape cells always do.
func (t *Table) IsDefined(name string, row int) (bool, error) {
	_, st, err := t.lookup(name)
	if err != nil {
		return false, err
	}
	if err := t.checkRow(row); err != nil {
		return false, err
	}
	return st.isDefined(row), nil
}

// CellShape is the shape of one cell, empty for scalars.
func (t *Table) CellShape(name string, row int) (Shape, error) {
	_, st, err := t.lookup(name)
	if err != nil {
		return nil, err
	}
	if err := t.checkRow(row); err != nil {
		return nil, err
	}
	if !st.isDefined(row) {
		return nil, fmt.Errorf("%w: column %q row %d", ErrUndefinedCell, name, row)
	}
	return st.cellShape(row).Clone(), nil
}

// Close releases the storage. Any later access fails with ErrTableClosed.
func (t *Table) Close() error {
	if t.closed {
		return ErrTableClosed
	}
	t.closed = true
	t.stores = nil
	return nil
}

func (t *Table) lookup(name string) (ColumnDesc, store, error) {
	if t.closed {
		return ColumnDesc{}, nil, ErrTableClosed
	}
	cd, ok := t.desc.Column(name)
	if !ok {
		return ColumnDesc{}, nil, fmt.Errorf("%w: %q", ErrNoSuchColumn, name)
	}
	return cd, t.stores[name], nil
}

func (t *Table) checkRow(row int) error {
	if row < 0 || row >= t.nrow {
		return fmt.Errorf("%w: row %d, table has %d rows", ErrRowOutOfRange, row, t.nrow)
	}
	return nil
}

func (s *scalarStore[T]) isDefined(int) bool { return true }

func (s *scalarStore[T]) cellShape(int) Shape { return Shape{} }

func (s *fixedStore[T]) isDefined(int) bool { return true }

func (s *fixedStore[T]) cellShape(int) Shape { return s.shape }

func (s *fixedStore[T]) cell(row int) []T {
	n := s.shape.Product()
	return s.values[row*n : (row+1)*n]
}

func (s *varStore[T]) isDefined(row int) bool { return s.cells[row].defined }

func (s *varStore[T]) cellShape(row int) Shape { return s.cells[row].shape }
