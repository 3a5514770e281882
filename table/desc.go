package table

import (
	"fmt"

	"github.com/danthegoodman1/mstable/utils"
	"github.com/go-playground/validator/v10"
)

type (
	// Option is a bitmask of column storage options.
	Option int

	ColumnDesc struct {
		Name string   `json:"name" validate:"required"`
		Type DataType `json:"type" validate:"oneof=0 5 7 8 9"`
		// Array is false for scalar columns.
		Array   bool   `json:"array"`
		Options Option `json:"options,omitempty"`
		// NDim is the dimensionality of every cell, 0 when it may vary (or for scalars).
		NDim int `json:"ndim,omitempty" validate:"gte=0"`
		// Shape is the declared per-row shape of a fixed-shape column.
		Shape   Shape  `json:"shape,omitempty" validate:"dive,gte=0"`
		Comment string `json:"comment,omitempty"`
	}

	TableDesc struct {
		ID      string       `json:"id"`
		Name    string       `json:"name" validate:"required"`
		Columns []ColumnDesc `json:"columns" validate:"required,min=1,dive"`
	}
)

// FixedShape marks an array column whose cells all have the declared shape.
const FixedShape Option = 4

var validate = validator.New()

func ScalarColumnDesc(name string, dt DataType) ColumnDesc {
	return ColumnDesc{Name: name, Type: dt}
}

// FixedArrayColumnDesc describes an array column where every row has the given shape.
func FixedArrayColumnDesc(name string, dt DataType, shape Shape) ColumnDesc {
	return ColumnDesc{
		Name:    name,
		Type:    dt,
		Array:   true,
		Options: FixedShape,
		NDim:    len(shape),
		Shape:   shape.Clone(),
	}
}

// ArrayColumnDesc describes a variable-shape array column. ndim 0 allows any dimensionality.
func ArrayColumnDesc(name string, dt DataType, ndim int) ColumnDesc {
	return ColumnDesc{Name: name, Type: dt, Array: true, NDim: ndim}
}

func (cd ColumnDesc) IsScalar() bool {
	return !cd.Array
}

func (cd ColumnDesc) IsFixedShape() bool {
	return cd.Options&FixedShape == FixedShape
}

func (cd ColumnDesc) check() error {
	switch {
	case cd.IsScalar() && (cd.IsFixedShape() || len(cd.Shape) > 0 || cd.NDim != 0):
		return fmt.Errorf("%w: scalar column %q cannot declare a shape", ErrInvalidDesc, cd.Name)
	case cd.IsFixedShape() && len(cd.Shape) == 0:
		return fmt.Errorf("%w: fixed-shape column %q has no shape", ErrInvalidDesc, cd.Name)
	case cd.IsFixedShape() && cd.NDim != len(cd.Shape):
		return fmt.Errorf("%w: column %q ndim %d does not match shape %s", ErrInvalidDesc, cd.Name, cd.NDim, cd.Shape)
	case cd.Array && !cd.IsFixedShape() && len(cd.Shape) > 0:
		return fmt.Errorf("%w: variable-shape column %q cannot declare a shape", ErrInvalidDesc, cd.Name)
	}
	return nil
}

// NewTableDesc builds a description with a fresh k-sorted ID.
func NewTableDesc(name string, columns ...ColumnDesc) TableDesc {
	return TableDesc{
		ID:      utils.GenKSortedID("tbl_"),
		Name:    name,
		Columns: columns,
	}
}

func (td TableDesc) Validate() error {
	if err := validate.Struct(td); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDesc, err)
	}
	seen := make(map[string]bool, len(td.Columns))
	for _, cd := range td.Columns {
		if seen[cd.Name] {
			return fmt.Errorf("%w: duplicate column %q", ErrInvalidDesc, cd.Name)
		}
		seen[cd.Name] = true
		if err := cd.check(); err != nil {
			return err
		}
	}
	return nil
}

// Column looks up a column description by name.
func (td TableDesc) Column(name string) (ColumnDesc, bool) {
	for _, cd := range td.Columns {
		if cd.Name == name {
			return cd, true
		}
	}
	return ColumnDesc{}, false
}

func (td TableDesc) IsColumn(name string) bool {
	_, ok := td.Column(name)
	return ok
}

func (td TableDesc) ColumnNames() []string {
	names := make([]string, len(td.Columns))
	for i, cd := range td.Columns {
		names[i] = cd.Name
	}
	return names
}
