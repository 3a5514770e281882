package table

import "fmt"

// Slicer selects a rectangular region of an array cell. Both corners are inclusive.
type Slicer struct {
	start []int
	last  []int
}

func NewSlicer(start, last []int) (Slicer, error) {
	if len(start) != len(last) {
		return Slicer{}, &ArraySlicerError{Reason: fmt.Sprintf("start has %d axes, last has %d", len(start), len(last))}
	}
	for i := range start {
		if start[i] < 0 || last[i] < 0 {
			return Slicer{}, &ArraySlicerError{Reason: fmt.Sprintf("negative index on axis %d", i)}
		}
		if start[i] > last[i] {
			return Slicer{}, &ArraySlicerError{Reason: fmt.Sprintf("start %d > last %d on axis %d", start[i], last[i], i)}
		}
	}
	s := Slicer{start: make([]int, len(start)), last: make([]int, len(last))}
	copy(s.start, start)
	copy(s.last, last)
	return s, nil
}

func (s Slicer) NDim() int {
	return len(s.start)
}

func (s Slicer) Start() []int {
	return append([]int(nil), s.start...)
}

func (s Slicer) Last() []int {
	return append([]int(nil), s.last...)
}

// Length is the shape of the selected region.
func (s Slicer) Length() Shape {
	l := make(Shape, len(s.start))
	for i := range s.start {
		l[i] = s.last[i] - s.start[i] + 1
	}
	return l
}

// Apply checks the slicer against a cell shape and returns the region length.
func (s Slicer) Apply(cellShape Shape) (Shape, error) {
	if len(s.start) != len(cellShape) {
		return nil, &ArraySlicerError{Reason: fmt.Sprintf("slicer has %d axes, array has %d", len(s.start), len(cellShape))}
	}
	for i := range s.start {
		if s.last[i] >= cellShape[i] {
			return nil, &ArraySlicerError{Reason: fmt.Sprintf("last %d beyond extent %d on axis %d", s.last[i], cellShape[i], i)}
		}
	}
	return s.Length(), nil
}

func (s Slicer) String() string {
	return fmt.Sprintf("%v..%v", s.start, s.last)
}
