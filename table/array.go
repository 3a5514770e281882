package table

import "fmt"

// Array is an n-dimensional block of elements stored flat, fastest-varying axis first.
type Array[T Element] struct {
	shape Shape
	data  []T
	// owned is false when data is a view of table storage.
	owned bool
}

// NewArray wraps data with the given shape. The array takes ownership of data.
// Extents must be non-negative.
func NewArray[T Element](shape Shape, data []T) (Array[T], error) {
	n, err := shape.elements()
	if err != nil {
		return Array[T]{}, fmt.Errorf("%w: %s", ErrShapeMismatch, err)
	}
	if n != len(data) {
		return Array[T]{}, fmt.Errorf("%w: shape %s needs %d elements, got %d", ErrShapeMismatch, shape, n, len(data))
	}
	return Array[T]{shape: shape.Clone(), data: data, owned: true}, nil
}

func view[T Element](shape Shape, data []T) Array[T] {
	return Array[T]{shape: shape, data: data}
}

func (a Array[T]) Shape() Shape {
	return a.shape.Clone()
}

func (a Array[T]) NDim() int {
	return len(a.shape)
}

func (a Array[T]) NElements() int {
	return len(a.data)
}

// At returns the element at the given per-axis position.
func (a Array[T]) At(pos ...int) T {
	off := 0
	for i, st := range a.shape.strides() {
		off += pos[i] * st
	}
	return a.data[off]
}

// Storage hands out the flat data. When owned is true the slice belongs to this array alone
// and the caller may keep it. When owned is false the slice aliases table storage and must be
// copied before it is modified or kept past the next write to the table.
func (a Array[T]) Storage() (data []T, owned bool) {
	return a.data, a.owned
}

// extract copies the block of src (shaped srcShape) starting at start with the given length
// into dst, walking the block fastest axis first.
func extract[T Element](dst, src []T, srcShape Shape, start []int, length Shape) {
	n := length.Product()
	if n == 0 {
		return
	}
	strides := srcShape.strides()
	idx := make([]int, len(length))
	for i := 0; i < n; i++ {
		off := 0
		for k := range idx {
			off += (start[k] + idx[k]) * strides[k]
		}
		dst[i] = src[off]
		for k := range idx {
			idx[k]++
			if idx[k] < length[k] {
				break
			}
			idx[k] = 0
		}
	}
}
