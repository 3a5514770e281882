package column

import "github.com/danthegoodman1/mstable/table"

// ColumnInfo is the element type of a column together with its resolved shape.
type ColumnInfo struct {
	Type  table.DataType `json:"type"`
	Shape table.Shape    `json:"shape"`
}

func (ci ColumnInfo) NDim() int {
	return len(ci.Shape)
}

// ResolveShape returns the shape of a full read of the column, row count last, without
// scanning the rows:
//
//   - scalar: [nrow]
//   - fixed shape: declared shape + [nrow]
//   - variable shape, row 0 defined: shape of row 0 + [nrow]
//   - otherwise: [nrow]
//
// For variable-shape columns row 0 stands in for every row. Rows with other shapes are only
// detected by a full read, which fails instead of trusting this shape.
func ResolveShape(t *table.Table, name string) (shape table.Shape, err error) {
	defer recoverTo(name, &err)
	cd, err := t.ColumnDesc(name)
	if err != nil {
		return nil, wrap(name, err)
	}
	nrow := t.NRow()
	switch {
	case cd.IsScalar():
		return table.Shape{nrow}, nil
	case cd.IsFixedShape():
		return cd.Shape.Append(nrow), nil
	}
	if nrow > 0 {
		defined, err := t.IsDefined(name, 0)
		if err != nil {
			return nil, wrap(name, err)
		}
		if defined {
			cell, err := t.CellShape(name, 0)
			if err != nil {
				return nil, wrap(name, err)
			}
			return cell.Append(nrow), nil
		}
	}
	logger.Debug().Str("column", name).Int("nrow", nrow).Msg("no defined first row, falling back to row count shape")
	return table.Shape{nrow}, nil
}

// Info returns the element type and resolved shape in one call.
func Info(t *table.Table, name string) (ColumnInfo, error) {
	dt, err := DeclaredType(t, name)
	if err != nil {
		return ColumnInfo{}, err
	}
	shape, err := ResolveShape(t, name)
	if err != nil {
		return ColumnInfo{}, err
	}
	return ColumnInfo{Type: dt, Shape: shape}, nil
}
