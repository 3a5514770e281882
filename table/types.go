package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type (
	// DataType is the element type of a column. The values are the type codes of the
	// table system, so they can be compared with codes reported by other tools.
	DataType int

	// Element is the closed set of Go types a column can hold.
	Element interface {
		bool | int32 | float32 | float64 | complex64
	}

	// Shape holds per-axis extents, fastest-varying axis first. For a shape [a, b] element
	// (i, j) lives at flat offset i + a*j.
	Shape []int
)

const (
	Bool      DataType = 0
	Int32     DataType = 5
	Float32   DataType = 7
	Float64   DataType = 8
	Complex64 DataType = 9
)

var dataTypeNames = map[DataType]string{
	Bool:      "bool",
	Int32:     "int32",
	Float32:   "float32",
	Float64:   "float64",
	Complex64: "complex64",
}

func (dt DataType) String() string {
	if name, ok := dataTypeNames[dt]; ok {
		return name
	}
	return "DataType(" + strconv.Itoa(int(dt)) + ")"
}

func (dt DataType) Valid() bool {
	_, ok := dataTypeNames[dt]
	return ok
}

func (dt DataType) MarshalText() ([]byte, error) {
	if !dt.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDataType, int(dt))
	}
	return []byte(dt.String()), nil
}

func (dt *DataType) UnmarshalText(b []byte) error {
	parsed, err := ParseDataType(string(b))
	if err != nil {
		return err
	}
	*dt = parsed
	return nil
}

// ParseDataType accepts either the type name or its numeric code.
func ParseDataType(s string) (DataType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for dt, name := range dataTypeNames {
		if name == s {
			return dt, nil
		}
	}
	if code, err := strconv.Atoi(s); err == nil && DataType(code).Valid() {
		return DataType(code), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDataType, s)
}

// DataTypeOf returns the DataType matching the Go element type T.
func DataTypeOf[T Element]() DataType {
	var zero T
	switch any(zero).(type) {
	case bool:
		return Bool
	case int32:
		return Int32
	case float32:
		return Float32
	case float64:
		return Float64
	default:
		return Complex64
	}
}

// Product is the number of elements a shape covers. The empty shape covers one element.
func (s Shape) Product() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// elements is Product with checks: every extent must be non-negative and the product must fit
// in an int.
func (s Shape) elements() (int, error) {
	n := 1
	for i, d := range s {
		if d < 0 {
			return 0, fmt.Errorf("negative extent %d on axis %d of %s", d, i, s)
		}
		if d != 0 && n > math.MaxInt/d {
			return 0, fmt.Errorf("shape %s overflows the element count", s)
		}
		n *= d
	}
	return n, nil
}

func (s Shape) Equal(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

func (s Shape) Clone() Shape {
	if s == nil {
		return nil
	}
	c := make(Shape, len(s))
	copy(c, s)
	return c
}

// Append returns a new shape with the extra axes added after the existing ones.
func (s Shape) Append(axes ...int) Shape {
	c := make(Shape, 0, len(s)+len(axes))
	c = append(c, s...)
	return append(c, axes...)
}

func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = strconv.Itoa(d)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// strides gives the flat offset step of every axis.
func (s Shape) strides() []int {
	st := make([]int, len(s))
	step := 1
	for i, d := range s {
		st[i] = step
		step *= d
	}
	return st
}
