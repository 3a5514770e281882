package column

import "github.com/danthegoodman1/mstable/table"

// Region is a per-cell bounding box. Upper is the last included index on each axis, not one
// past it. A nil or zero-axis Region means the whole cell.
type Region struct {
	Lower []int `json:"lower"`
	Upper []int `json:"upper"`
}

// NewRegion builds a Region from its end-inclusive corners.
func NewRegion(lower, upper []int) *Region {
	return &Region{Lower: lower, Upper: upper}
}

// NAxes is the number of axes the region constrains.
func (r *Region) NAxes() int {
	if r == nil {
		return 0
	}
	if len(r.Upper) > len(r.Lower) {
		return len(r.Upper)
	}
	return len(r.Lower)
}

// Translate turns an end-inclusive bounding box into a table slicer. Mismatched lengths,
// negative indices and lower > upper are ARRAY_SLICER_ERROR.
func Translate(lower, upper []int) (table.Slicer, error) {
	sl, err := table.NewSlicer(lower, upper)
	if err != nil {
		return table.Slicer{}, wrap("", err)
	}
	return sl, nil
}
