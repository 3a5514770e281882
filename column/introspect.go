package column

import "github.com/danthegoodman1/mstable/table"

// Descriptor summarises a column's schema. It is built from the table on every call.
type Descriptor struct {
	Name         string         `json:"name"`
	ElementType  table.DataType `json:"element_type"`
	IsScalar     bool           `json:"is_scalar"`
	IsFixedShape bool           `json:"is_fixed_shape"`
}

// Exists reports whether the table schema declares the column.
func Exists(t *table.Table, name string) bool {
	return t != nil && t.IsColumn(name)
}

// DeclaredType is the schema element type. A missing column is a TableError.
func DeclaredType(t *table.Table, name string) (dt table.DataType, err error) {
	defer recoverTo(name, &err)
	cd, err := t.ColumnDesc(name)
	if err != nil {
		return 0, wrap(name, err)
	}
	return cd.Type, nil
}

// IsFixedShape reports the schema flag only, whether or not any row holds data.
func IsFixedShape(t *table.Table, name string) (fixed bool, err error) {
	defer recoverTo(name, &err)
	cd, err := t.ColumnDesc(name)
	if err != nil {
		return false, wrap(name, err)
	}
	return cd.IsFixedShape(), nil
}

// Describe returns the schema summary of one column.
func Describe(t *table.Table, name string) (d Descriptor, err error) {
	defer recoverTo(name, &err)
	cd, err := t.ColumnDesc(name)
	if err != nil {
		return Descriptor{}, wrap(name, err)
	}
	return Descriptor{
		Name:         cd.Name,
		ElementType:  cd.Type,
		IsScalar:     cd.IsScalar(),
		IsFixedShape: cd.IsFixedShape(),
	}, nil
}
