package table

import "fmt"

type (
	// ScalarColumn gives typed access to a scalar column.
	ScalarColumn[T Element] struct {
		t    *Table
		name string
		s    *scalarStore[T]
	}

	// ArrayColumn gives typed access to an array column, fixed or variable shape.
	ArrayColumn[T Element] struct {
		t     *Table
		desc  ColumnDesc
		fixed *fixedStore[T]
		vary  *varStore[T]
	}
)

func typedStore[T Element](t *Table, name string, wantArray bool) (ColumnDesc, store, error) {
	cd, st, err := t.lookup(name)
	if err != nil {
		return cd, nil, err
	}
	if cd.Array != wantArray {
		kind := "scalar"
		if cd.Array {
			kind = "array"
		}
		return cd, nil, fmt.Errorf("%w: column %q is a %s column", ErrColumnKind, name, kind)
	}
	if want := DataTypeOf[T](); cd.Type != want {
		return cd, nil, fmt.Errorf("%w: column %q holds %s, not %s", ErrTypeMismatch, name, cd.Type, want)
	}
	return cd, st, nil
}

func NewScalarColumn[T Element](t *Table, name string) (ScalarColumn[T], error) {
	_, st, err := typedStore[T](t, name, false)
	if err != nil {
		return ScalarColumn[T]{}, err
	}
	return ScalarColumn[T]{t: t, name: name, s: st.(*scalarStore[T])}, nil
}

func (c ScalarColumn[T]) Get(row int) (T, error) {
	var zero T
	if c.t.closed {
		return zero, ErrTableClosed
	}
	if err := c.t.checkRow(row); err != nil {
		return zero, err
	}
	return c.s.values[row], nil
}

func (c ScalarColumn[T]) Put(row int, v T) error {
	if c.t.closed {
		return ErrTableClosed
	}
	if err := c.t.checkRow(row); err != nil {
		return err
	}
	c.s.values[row] = v
	return nil
}

// GetColumn returns every row as a 1-D array. The array is a view of table storage.
func (c ScalarColumn[T]) GetColumn() (Array[T], error) {
	if c.t.closed {
		return Array[T]{}, ErrTableClosed
	}
	return view(Shape{c.t.nrow}, c.s.values), nil
}

func (c ScalarColumn[T]) PutColumn(values []T) error {
	if c.t.closed {
		return ErrTableClosed
	}
	if len(values) != c.t.nrow {
		return fmt.Errorf("%w: column %q needs %d values, got %d", ErrShapeMismatch, c.name, c.t.nrow, len(values))
	}
	copy(c.s.values, values)
	return nil
}

func NewArrayColumn[T Element](t *Table, name string) (ArrayColumn[T], error) {
	cd, st, err := typedStore[T](t, name, true)
	if err != nil {
		return ArrayColumn[T]{}, err
	}
	c := ArrayColumn[T]{t: t, desc: cd}
	if cd.IsFixedShape() {
		c.fixed = st.(*fixedStore[T])
	} else {
		c.vary = st.(*varStore[T])
	}
	return c, nil
}

func (c ArrayColumn[T]) check(row int) error {
	if c.t.closed {
		return ErrTableClosed
	}
	return c.t.checkRow(row)
}

func (c ArrayColumn[T]) IsDefined(row int) (bool, error) {
	if err := c.check(row); err != nil {
		return false, err
	}
	if c.fixed != nil {
		return true, nil
	}
	return c.vary.cells[row].defined, nil
}

func (c ArrayColumn[T]) Shape(row int) (Shape, error) {
	if err := c.check(row); err != nil {
		return nil, err
	}
	if c.fixed != nil {
		return c.fixed.shape.Clone(), nil
	}
	cell := c.vary.cells[row]
	if !cell.defined {
		return nil, fmt.Errorf("%w: column %q row %d", ErrUndefinedCell, c.desc.Name, row)
	}
	return cell.shape.Clone(), nil
}

func (c ArrayColumn[T]) NDim(row int) (int, error) {
	shape, err := c.Shape(row)
	if err != nil {
		return 0, err
	}
	return len(shape), nil
}

// Get copies one cell out of the table.
func (c ArrayColumn[T]) Get(row int) (Array[T], error) {
	if err := c.check(row); err != nil {
		return Array[T]{}, err
	}
	shape, data, err := c.cell(row)
	if err != nil {
		return Array[T]{}, err
	}
	out := make([]T, len(data))
	copy(out, data)
	return Array[T]{shape: shape.Clone(), data: out, owned: true}, nil
}

// Put stores a copy of a into one cell. Fixed-shape columns only accept the declared shape.
func (c ArrayColumn[T]) Put(row int, a Array[T]) error {
	if err := c.check(row); err != nil {
		return err
	}
	if n, err := a.shape.elements(); err != nil || n != len(a.data) {
		return fmt.Errorf("%w: column %q got an array of %d elements with shape %s", ErrShapeMismatch, c.desc.Name, len(a.data), a.shape)
	}
	if c.fixed != nil {
		if !a.shape.Equal(c.fixed.shape) {
			return fmt.Errorf("%w: column %q is fixed at %s, got %s", ErrShapeMismatch, c.desc.Name, c.fixed.shape, a.shape)
		}
		copy(c.fixed.cell(row), a.data)
		return nil
	}
	if c.desc.NDim > 0 && a.NDim() != c.desc.NDim {
		return fmt.Errorf("%w: column %q has %d axes, got %s", ErrShapeMismatch, c.desc.Name, c.desc.NDim, a.shape)
	}
	data := make([]T, len(a.data))
	copy(data, a.data)
	c.vary.cells[row] = varCell[T]{defined: true, shape: a.shape.Clone(), data: data}
	return nil
}

func (c ArrayColumn[T]) cell(row int) (Shape, []T, error) {
	if c.fixed != nil {
		return c.fixed.shape, c.fixed.cell(row), nil
	}
	cell := c.vary.cells[row]
	if !cell.defined {
		return nil, nil, fmt.Errorf("%w: column %q row %d", ErrUndefinedCell, c.desc.Name, row)
	}
	return cell.shape, cell.data, nil
}

// GetColumn returns all cells stacked along a trailing row axis. For fixed-shape columns the
// array is a view of table storage; variable-shape cells are gathered into a new array and
// must all be defined with one common shape.
func (c ArrayColumn[T]) GetColumn() (Array[T], error) {
	if c.t.closed {
		return Array[T]{}, ErrTableClosed
	}
	nrow := c.t.nrow
	if c.fixed != nil {
		return view(c.fixed.shape.Append(nrow), c.fixed.values), nil
	}
	if nrow == 0 {
		return Array[T]{shape: Shape{0}, data: []T{}, owned: true}, nil
	}
	first, _, err := c.cell(0)
	if err != nil {
		return Array[T]{}, err
	}
	n := first.Product()
	out := make([]T, n*nrow)
	for row := 0; row < nrow; row++ {
		shape, data, err := c.cell(row)
		if err != nil {
			return Array[T]{}, err
		}
		if !shape.Equal(first) {
			return Array[T]{}, fmt.Errorf("%w: column %q row %d has %s, row 0 has %s", ErrShapeConformance, c.desc.Name, row, shape, first)
		}
		copy(out[row*n:(row+1)*n], data)
	}
	return Array[T]{shape: first.Append(nrow), data: out, owned: true}, nil
}

// GetColumnSlice applies sl to every cell and stacks the regions along a trailing row axis.
// A region that does not fit a cell fails with *ArraySlicerError.
func (c ArrayColumn[T]) GetColumnSlice(sl Slicer) (Array[T], error) {
	if c.t.closed {
		return Array[T]{}, ErrTableClosed
	}
	nrow := c.t.nrow
	length := sl.Length()
	if c.fixed != nil {
		if _, err := sl.Apply(c.fixed.shape); err != nil {
			return Array[T]{}, err
		}
	}
	n := length.Product()
	out := make([]T, n*nrow)
	for row := 0; row < nrow; row++ {
		shape, data, err := c.cell(row)
		if err != nil {
			return Array[T]{}, err
		}
		if c.vary != nil {
			if _, err := sl.Apply(shape); err != nil {
				return Array[T]{}, err
			}
		}
		extract(out[row*n:(row+1)*n], data, shape, sl.start, length)
	}
	return Array[T]{shape: length.Append(nrow), data: out, owned: true}, nil
}

// PutColumn overwrites every cell from a, whose shape must be a cell shape plus the row axis.
func (c ArrayColumn[T]) PutColumn(a Array[T]) error {
	if c.t.closed {
		return ErrTableClosed
	}
	nrow := c.t.nrow
	if a.NDim() == 0 || a.shape[a.NDim()-1] != nrow {
		return fmt.Errorf("%w: column %q needs a trailing axis of %d rows, got %s", ErrShapeMismatch, c.desc.Name, nrow, a.shape)
	}
	cellShape := a.shape[:a.NDim()-1].Clone()
	if c.fixed != nil {
		if !cellShape.Equal(c.fixed.shape) {
			return fmt.Errorf("%w: column %q is fixed at %s, got %s", ErrShapeMismatch, c.desc.Name, c.fixed.shape, cellShape)
		}
		copy(c.fixed.values, a.data)
		return nil
	}
	n := cellShape.Product()
	for row := 0; row < nrow; row++ {
		cell, err := NewArray(cellShape, a.data[row*n:(row+1)*n])
		if err != nil {
			return err
		}
		if err := c.Put(row, cell); err != nil {
			return err
		}
	}
	return nil
}
