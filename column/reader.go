package column

import (
	"fmt"

	"github.com/danthegoodman1/mstable/gologger"
	"github.com/danthegoodman1/mstable/table"
	"github.com/danthegoodman1/mstable/utils"
)

var logger = gologger.NewLogger()

type (
	// Result is the output of a typed read. Data belongs to the caller and never aliases
	// table storage. Shape has the row count as its last axis.
	Result[T table.Element] struct {
		Data  []T
		Shape table.Shape
	}

	// Buffer is a Result whose element type is picked at runtime. Exactly one of the
	// slices matching Type is set.
	Buffer struct {
		Type       table.DataType
		Shape      table.Shape
		Bools      []bool
		Int32s     []int32
		Float32s   []float32
		Float64s   []float64
		Complex64s []complex64
	}
)

func (r Result[T]) NDim() int {
	return len(r.Shape)
}

func (b Buffer) NDim() int {
	return len(b.Shape)
}

// Len is the number of elements held, whichever slice carries them.
func (b Buffer) Len() int {
	switch b.Type {
	case table.Bool:
		return len(b.Bools)
	case table.Int32:
		return len(b.Int32s)
	case table.Float32:
		return len(b.Float32s)
	case table.Float64:
		return len(b.Float64s)
	case table.Complex64:
		return len(b.Complex64s)
	}
	return 0
}

// ReadBool reads a bool column.
func ReadBool(t *table.Table, name string, region *Region) (Result[bool], error) {
	return read[bool](t, name, region)
}

// ReadInt32 reads an int32 column.
func ReadInt32(t *table.Table, name string, region *Region) (Result[int32], error) {
	return read[int32](t, name, region)
}

// ReadFloat32 reads a float32 column.
func ReadFloat32(t *table.Table, name string, region *Region) (Result[float32], error) {
	return read[float32](t, name, region)
}

// ReadFloat64 reads a float64 column.
func ReadFloat64(t *table.Table, name string, region *Region) (Result[float64], error) {
	return read[float64](t, name, region)
}

// ReadComplex64 reads a complex64 column.
func ReadComplex64(t *table.Table, name string, region *Region) (Result[complex64], error) {
	return read[complex64](t, name, region)
}

// Read dispatches on the declared element type of the column.
func Read(t *table.Table, name string, region *Region) (buf Buffer, err error) {
	defer recoverTo(name, &err)
	dt, err := DeclaredType(t, name)
	if err != nil {
		return Buffer{}, err
	}
	switch dt {
	case table.Bool:
		r, err := ReadBool(t, name, region)
		if err != nil {
			return Buffer{}, err
		}
		return Buffer{Type: dt, Shape: r.Shape, Bools: r.Data}, nil
	case table.Int32:
		r, err := ReadInt32(t, name, region)
		if err != nil {
			return Buffer{}, err
		}
		return Buffer{Type: dt, Shape: r.Shape, Int32s: r.Data}, nil
	case table.Float32:
		r, err := ReadFloat32(t, name, region)
		if err != nil {
			return Buffer{}, err
		}
		return Buffer{Type: dt, Shape: r.Shape, Float32s: r.Data}, nil
	case table.Float64:
		r, err := ReadFloat64(t, name, region)
		if err != nil {
			return Buffer{}, err
		}
		return Buffer{Type: dt, Shape: r.Shape, Float64s: r.Data}, nil
	case table.Complex64:
		r, err := ReadComplex64(t, name, region)
		if err != nil {
			return Buffer{}, err
		}
		return Buffer{Type: dt, Shape: r.Shape, Complex64s: r.Data}, nil
	}
	return Buffer{}, &Error{Code: TableError, Column: name, Err: fmt.Errorf("%w: %s", table.ErrInvalidDataType, dt)}
}

// read gets the whole column, or the region of every cell when one is given, as a single
// caller-owned array. Scalar columns ignore the region.
func read[T table.Element](t *table.Table, name string, region *Region) (res Result[T], err error) {
	defer func() {
		if err != nil {
			res = Result[T]{}
		}
	}()
	defer recoverTo(name, &err)

	cd, err := t.ColumnDesc(name)
	if err != nil {
		return Result[T]{}, wrap(name, err)
	}
	if want := table.DataTypeOf[T](); cd.Type != want {
		return Result[T]{}, &Error{Code: TableError, Column: name, Err: fmt.Errorf("%w: column holds %s, read as %s", table.ErrTypeMismatch, cd.Type, want)}
	}

	var arr table.Array[T]
	if cd.IsScalar() {
		col, err := table.NewScalarColumn[T](t, name)
		if err != nil {
			return Result[T]{}, wrap(name, err)
		}
		if arr, err = col.GetColumn(); err != nil {
			return Result[T]{}, wrap(name, err)
		}
	} else {
		col, err := table.NewArrayColumn[T](t, name)
		if err != nil {
			return Result[T]{}, wrap(name, err)
		}
		if region.NAxes() > 0 {
			sl, err := Translate(region.Lower, region.Upper)
			if err != nil {
				return Result[T]{}, wrap(name, err)
			}
			arr, err = col.GetColumnSlice(sl)
			if err != nil {
				return Result[T]{}, wrap(name, err)
			}
		} else if arr, err = col.GetColumn(); err != nil {
			return Result[T]{}, wrap(name, err)
		}
	}

	data, owned := arr.Storage()
	if !owned {
		data = utils.CloneSlice(data)
	}
	res = Result[T]{Data: data, Shape: arr.Shape()}
	logger.Debug().Str("column", name).Str("shape", res.Shape.String()).Bool("copied", !owned).Msg("read column")
	return res, nil
}
