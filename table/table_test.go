package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDesc() TableDesc {
	return NewTableDesc("obs",
		ScalarColumnDesc("TIME", Float64),
		ScalarColumnDesc("FLAG_ROW", Bool),
		FixedArrayColumnDesc("DATA", Complex64, Shape{4, 2}),
		ArrayColumnDesc("WEIGHT", Float32, 1),
	)
}

func TestNewTable(t *testing.T) {
	tbl, err := New(testDesc(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.NRow())
	assert.True(t, tbl.IsColumn("DATA"))
	assert.False(t, tbl.IsColumn("nope"))

	cd, err := tbl.ColumnDesc("DATA")
	require.NoError(t, err)
	assert.True(t, cd.IsFixedShape())
	assert.Equal(t, Shape{4, 2}, cd.Shape)

	_, err = tbl.ColumnDesc("nope")
	assert.ErrorIs(t, err, ErrNoSuchColumn)

	assert.Contains(t, tbl.Desc().ID, "tbl_")
}

func TestNewTableInvalid(t *testing.T) {
	cases := map[string]TableDesc{
		"no columns":     {Name: "x"},
		"no name":        {Columns: []ColumnDesc{ScalarColumnDesc("a", Int32)}},
		"bad type":       NewTableDesc("x", ColumnDesc{Name: "a", Type: 3}),
		"duplicate":      NewTableDesc("x", ScalarColumnDesc("a", Int32), ScalarColumnDesc("a", Bool)),
		"scalar shaped":  NewTableDesc("x", ColumnDesc{Name: "a", Type: Int32, Shape: Shape{2}}),
		"fixed no shape": NewTableDesc("x", ColumnDesc{Name: "a", Type: Int32, Array: true, Options: FixedShape}),
		"negative axis":  NewTableDesc("x", FixedArrayColumnDesc("a", Int32, Shape{-1})),
	}
	for name, desc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(desc, 1)
			assert.ErrorIs(t, err, ErrInvalidDesc)
		})
	}

	_, err := New(testDesc(), -1)
	assert.ErrorIs(t, err, ErrInvalidDesc)
}

func TestDefinedAndCellShape(t *testing.T) {
	tbl, err := New(testDesc(), 2)
	require.NoError(t, err)

	ok, err := tbl.IsDefined("TIME", 0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tbl.IsDefined("WEIGHT", 1)
	require.NoError(t, err)
	assert.False(t, ok)

	shape, err := tbl.CellShape("DATA", 1)
	require.NoError(t, err)
	assert.Equal(t, Shape{4, 2}, shape)

	shape, err = tbl.CellShape("TIME", 0)
	require.NoError(t, err)
	assert.Empty(t, shape)

	_, err = tbl.CellShape("WEIGHT", 0)
	assert.ErrorIs(t, err, ErrUndefinedCell)

	_, err = tbl.IsDefined("TIME", 2)
	assert.ErrorIs(t, err, ErrRowOutOfRange)
}

func TestClose(t *testing.T) {
	tbl, err := New(testDesc(), 1)
	require.NoError(t, err)
	require.NoError(t, tbl.Close())
	assert.ErrorIs(t, tbl.Close(), ErrTableClosed)

	_, err = tbl.ColumnDesc("TIME")
	assert.ErrorIs(t, err, ErrTableClosed)
	_, err = NewScalarColumn[float64](tbl, "TIME")
	assert.ErrorIs(t, err, ErrTableClosed)
}

func TestScalarColumn(t *testing.T) {
	tbl, err := New(testDesc(), 3)
	require.NoError(t, err)

	col, err := NewScalarColumn[float64](tbl, "TIME")
	require.NoError(t, err)
	require.NoError(t, col.PutColumn([]float64{1, 2, 3}))
	require.NoError(t, col.Put(1, 20))

	v, err := col.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 20.0, v)

	arr, err := col.GetColumn()
	require.NoError(t, err)
	assert.Equal(t, Shape{3}, arr.Shape())
	data, owned := arr.Storage()
	assert.False(t, owned)
	assert.Equal(t, []float64{1, 20, 3}, data)

	assert.ErrorIs(t, col.PutColumn([]float64{1}), ErrShapeMismatch)
	_, err = col.Get(3)
	assert.ErrorIs(t, err, ErrRowOutOfRange)
}

func TestColumnAccessorChecks(t *testing.T) {
	tbl, err := New(testDesc(), 1)
	require.NoError(t, err)

	_, err = NewScalarColumn[float32](tbl, "TIME")
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = NewScalarColumn[complex64](tbl, "DATA")
	assert.ErrorIs(t, err, ErrColumnKind)

	_, err = NewArrayColumn[float64](tbl, "TIME")
	assert.ErrorIs(t, err, ErrColumnKind)

	_, err = NewArrayColumn[int32](tbl, "nope")
	assert.ErrorIs(t, err, ErrNoSuchColumn)
}

func fillData(t *testing.T, tbl *Table) ArrayColumn[complex64] {
	t.Helper()
	col, err := NewArrayColumn[complex64](tbl, "DATA")
	require.NoError(t, err)
	for row := 0; row < tbl.NRow(); row++ {
		data := make([]complex64, 8)
		for i := range data {
			data[i] = complex(float32(row*100+i), float32(-i))
		}
		cell, err := NewArray(Shape{4, 2}, data)
		require.NoError(t, err)
		require.NoError(t, col.Put(row, cell))
	}
	return col
}

func TestFixedArrayColumn(t *testing.T) {
	tbl, err := New(testDesc(), 3)
	require.NoError(t, err)
	col := fillData(t, tbl)

	arr, err := col.GetColumn()
	require.NoError(t, err)
	assert.Equal(t, Shape{4, 2, 3}, arr.Shape())
	assert.Equal(t, 24, arr.NElements())
	_, owned := arr.Storage()
	assert.False(t, owned)
	// element (i, j) of row r
	assert.Equal(t, complex64(complex(205, -5)), arr.At(1, 1, 2))

	cell, err := col.Get(1)
	require.NoError(t, err)
	data, owned := cell.Storage()
	assert.True(t, owned)
	assert.Equal(t, complex64(complex(100, 0)), data[0])

	bad, err := NewArray(Shape{2, 2}, make([]complex64, 4))
	require.NoError(t, err)
	assert.ErrorIs(t, col.Put(0, bad), ErrShapeMismatch)
}

func TestFixedArrayColumnSlice(t *testing.T) {
	tbl, err := New(testDesc(), 3)
	require.NoError(t, err)
	col := fillData(t, tbl)

	sl, err := NewSlicer([]int{0, 0}, []int{1, 1})
	require.NoError(t, err)
	arr, err := col.GetColumnSlice(sl)
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 2, 3}, arr.Shape())
	data, owned := arr.Storage()
	assert.True(t, owned)
	require.Len(t, data, 12)
	// row 2 block: (0,0)=200 (1,0)=201 (0,1)=204 (1,1)=205
	assert.Equal(t, []complex64{complex(200, 0), complex(201, -1), complex(204, -4), complex(205, -5)}, data[8:])

	sl, err = NewSlicer([]int{0, 0}, []int{4, 1})
	require.NoError(t, err)
	_, err = col.GetColumnSlice(sl)
	var se *ArraySlicerError
	assert.True(t, errors.As(err, &se))

	sl, err = NewSlicer([]int{0}, []int{1})
	require.NoError(t, err)
	_, err = col.GetColumnSlice(sl)
	assert.True(t, errors.As(err, &se))
}

func TestVariableArrayColumn(t *testing.T) {
	tbl, err := New(testDesc(), 2)
	require.NoError(t, err)
	col, err := NewArrayColumn[float32](tbl, "WEIGHT")
	require.NoError(t, err)

	_, err = col.GetColumn()
	assert.ErrorIs(t, err, ErrUndefinedCell)

	a, err := NewArray(Shape{3}, []float32{1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, col.Put(0, a))

	ok, err := col.IsDefined(0)
	require.NoError(t, err)
	assert.True(t, ok)
	ndim, err := col.NDim(0)
	require.NoError(t, err)
	assert.Equal(t, 1, ndim)

	two, err := NewArray(Shape{1, 1}, []float32{1})
	require.NoError(t, err)
	assert.ErrorIs(t, col.Put(1, two), ErrShapeMismatch)

	b, err := NewArray(Shape{2}, []float32{4, 5})
	require.NoError(t, err)
	require.NoError(t, col.Put(1, b))
	_, err = col.GetColumn()
	assert.ErrorIs(t, err, ErrShapeConformance)

	b, err = NewArray(Shape{3}, []float32{4, 5, 6})
	require.NoError(t, err)
	require.NoError(t, col.Put(1, b))
	arr, err := col.GetColumn()
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 2}, arr.Shape())
	data, owned := arr.Storage()
	assert.True(t, owned)
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, data)

	sl, err := NewSlicer([]int{1}, []int{2})
	require.NoError(t, err)
	arr, err = col.GetColumnSlice(sl)
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 2}, arr.Shape())
	data, _ = arr.Storage()
	assert.Equal(t, []float32{2, 3, 5, 6}, data)
}

func TestPutColumn(t *testing.T) {
	tbl, err := New(testDesc(), 2)
	require.NoError(t, err)

	w, err := NewArrayColumn[float32](tbl, "WEIGHT")
	require.NoError(t, err)
	all, err := NewArray(Shape{2, 2}, []float32{1, 2, 3, 4})
	require.NoError(t, err)
	require.NoError(t, w.PutColumn(all))
	cell, err := w.Get(1)
	require.NoError(t, err)
	data, _ := cell.Storage()
	assert.Equal(t, []float32{3, 4}, data)

	short, err := NewArray(Shape{2, 1}, []float32{1, 2})
	require.NoError(t, err)
	assert.ErrorIs(t, w.PutColumn(short), ErrShapeMismatch)

	d, err := NewArrayColumn[complex64](tbl, "DATA")
	require.NoError(t, err)
	full, err := NewArray(Shape{4, 2, 2}, make([]complex64, 16))
	require.NoError(t, err)
	require.NoError(t, d.PutColumn(full))
}

func TestSlicer(t *testing.T) {
	sl, err := NewSlicer([]int{1, 0}, []int{2, 3})
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 4}, sl.Length())
	assert.Equal(t, 2, sl.NDim())

	length, err := sl.Apply(Shape{3, 4})
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 4}, length)

	_, err = sl.Apply(Shape{2, 4})
	var se *ArraySlicerError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, se.Error(), "ArraySlicerError")

	_, err = NewSlicer([]int{0}, []int{0, 1})
	assert.True(t, errors.As(err, &se))
	_, err = NewSlicer([]int{2}, []int{1})
	assert.True(t, errors.As(err, &se))
	_, err = NewSlicer([]int{-1}, []int{1})
	assert.True(t, errors.As(err, &se))
}

func TestDataType(t *testing.T) {
	dt, err := ParseDataType("Complex64")
	require.NoError(t, err)
	assert.Equal(t, Complex64, dt)

	dt, err = ParseDataType("5")
	require.NoError(t, err)
	assert.Equal(t, Int32, dt)

	_, err = ParseDataType("string")
	assert.ErrorIs(t, err, ErrInvalidDataType)

	assert.Equal(t, Float32, DataTypeOf[float32]())
	assert.Equal(t, Bool, DataTypeOf[bool]())
	assert.Equal(t, "DataType(3)", DataType(3).String())
}

func TestNewTableTooLarge(t *testing.T) {
	_, err := New(testDesc(), 1<<62)
	assert.ErrorIs(t, err, ErrInvalidDesc)

	// the product of the axes overflows int
	huge := NewTableDesc("x", FixedArrayColumnDesc("DATA", Float32, Shape{1 << 32, 1 << 32}))
	_, err = New(huge, 2)
	assert.ErrorIs(t, err, ErrInvalidDesc)

	wide := NewTableDesc("x", FixedArrayColumnDesc("DATA", Float32, Shape{1 << 20, 1 << 10}))
	_, err = New(wide, 1)
	assert.ErrorIs(t, err, ErrInvalidDesc)

	// no rows, nothing to allocate
	_, err = New(wide, 0)
	assert.NoError(t, err)
}

func TestNegativeShape(t *testing.T) {
	_, err := NewArray(Shape{-1, -2}, []float32{1, 2})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = NewArray(Shape{2, -1}, []float32{})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	tbl, err := New(testDesc(), 1)
	require.NoError(t, err)
	col, err := NewArrayColumn[float32](tbl, "WEIGHT")
	require.NoError(t, err)

	// a zero Array claims one element and holds none
	assert.ErrorIs(t, col.Put(0, Array[float32]{}), ErrShapeMismatch)
	ok, err := col.IsDefined(0)
	require.NoError(t, err)
	assert.False(t, ok)
}
