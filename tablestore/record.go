package tablestore

import (
	"fmt"

	"github.com/danthegoodman1/mstable/table"
)

type (
	// cellRecord is one parquet row. Row -1 holds a whole column (scalar and fixed-shape
	// columns) or marks a variable-shape column. Row >= 0 holds one defined variable-shape cell.
	cellRecord struct {
		Column  string    `parquet:"name=column, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
		Row     int64     `parquet:"name=row, type=INT64"`
		Shape   []int32   `parquet:"name=shape, type=INT32, repetitiontype=REPEATED"`
		Bools   []bool    `parquet:"name=bools, type=BOOLEAN, repetitiontype=REPEATED"`
		Ints    []int32   `parquet:"name=ints, type=INT32, repetitiontype=REPEATED"`
		Floats  []float32 `parquet:"name=floats, type=FLOAT, repetitiontype=REPEATED"`
		Doubles []float64 `parquet:"name=doubles, type=DOUBLE, repetitiontype=REPEATED"`
	}
)

const wholeColumn = -1

func newRecord[T table.Element](column string, row int, shape table.Shape, data []T) cellRecord {
	rec := cellRecord{Column: column, Row: int64(row), Shape: make([]int32, len(shape))}
	for i, d := range shape {
		rec.Shape[i] = int32(d)
	}
	switch v := any(data).(type) {
	case []bool:
		rec.Bools = v
	case []int32:
		rec.Ints = v
	case []float32:
		rec.Floats = v
	case []float64:
		rec.Doubles = v
	case []complex64:
		// re, im pairs
		rec.Floats = make([]float32, 0, 2*len(v))
		for _, c := range v {
			rec.Floats = append(rec.Floats, real(c), imag(c))
		}
	}
	return rec
}

func (rec cellRecord) shape() table.Shape {
	s := make(table.Shape, len(rec.Shape))
	for i, d := range rec.Shape {
		s[i] = int(d)
	}
	return s
}

func recordValues[T table.Element](rec cellRecord) ([]T, error) {
	var out any
	switch table.DataTypeOf[T]() {
	case table.Bool:
		out = rec.Bools
	case table.Int32:
		out = rec.Ints
	case table.Float32:
		out = rec.Floats
	case table.Float64:
		out = rec.Doubles
	case table.Complex64:
		if len(rec.Floats)%2 != 0 {
			return nil, fmt.Errorf("column %q row %d has an odd number of complex parts", rec.Column, rec.Row)
		}
		c := make([]complex64, len(rec.Floats)/2)
		for i := range c {
			c[i] = complex(rec.Floats[2*i], rec.Floats[2*i+1])
		}
		out = c
	}
	return out.([]T), nil
}

// decodeRecord stores the values of rec into the matching column of t.
func decodeRecord[T table.Element](t *table.Table, cd table.ColumnDesc, rec cellRecord) error {
	values, err := recordValues[T](rec)
	if err != nil {
		return err
	}
	if cd.IsScalar() {
		if rec.Row != wholeColumn {
			return fmt.Errorf("scalar column %q stored per row", cd.Name)
		}
		col, err := table.NewScalarColumn[T](t, cd.Name)
		if err != nil {
			return err
		}
		return col.PutColumn(values)
	}

	col, err := table.NewArrayColumn[T](t, cd.Name)
	if err != nil {
		return err
	}
	switch {
	case cd.IsFixedShape() && rec.Row == wholeColumn:
		arr, err := table.NewArray(rec.shape(), values)
		if err != nil {
			return err
		}
		return col.PutColumn(arr)
	case cd.IsFixedShape():
		return fmt.Errorf("fixed-shape column %q stored per row", cd.Name)
	case rec.Row == wholeColumn:
		return nil
	}
	if rec.Row < 0 || rec.Row >= int64(t.NRow()) {
		return fmt.Errorf("%w: column %q row %d", table.ErrRowOutOfRange, cd.Name, rec.Row)
	}
	arr, err := table.NewArray(rec.shape(), values)
	if err != nil {
		return err
	}
	return col.Put(int(rec.Row), arr)
}

// encodeColumn turns one column into records, reading through the typed accessors.
func encodeColumn[T table.Element](t *table.Table, cd table.ColumnDesc) ([]cellRecord, error) {
	if cd.IsScalar() {
		col, err := table.NewScalarColumn[T](t, cd.Name)
		if err != nil {
			return nil, err
		}
		arr, err := col.GetColumn()
		if err != nil {
			return nil, err
		}
		data, _ := arr.Storage()
		return []cellRecord{newRecord(cd.Name, wholeColumn, arr.Shape(), data)}, nil
	}

	col, err := table.NewArrayColumn[T](t, cd.Name)
	if err != nil {
		return nil, err
	}
	if cd.IsFixedShape() {
		arr, err := col.GetColumn()
		if err != nil {
			return nil, err
		}
		data, _ := arr.Storage()
		return []cellRecord{newRecord(cd.Name, wholeColumn, arr.Shape(), data)}, nil
	}

	recs := []cellRecord{newRecord[T](cd.Name, wholeColumn, nil, nil)}
	for row := 0; row < t.NRow(); row++ {
		defined, err := col.IsDefined(row)
		if err != nil {
			return nil, err
		}
		if !defined {
			continue
		}
		arr, err := col.Get(row)
		if err != nil {
			return nil, err
		}
		data, _ := arr.Storage()
		recs = append(recs, newRecord(cd.Name, row, arr.Shape(), data))
	}
	return recs, nil
}
