package tensor

import (
	"fmt"

	gosymgen "github.com/njchilds90/gosymgen"
)

// BroadcastShapes combines shapes with numpy broadcasting rules: shapes are
// aligned on their trailing axes and each axis must agree or be 1.
func BroadcastShapes(shapes ...[]int) ([]int, error) {
	rank := 0
	for _, s := range shapes {
		if len(s) > rank {
			rank = len(s)
		}
	}
	out := make([]int, rank)
	for i := range out {
		out[i] = 1
	}
	for _, s := range shapes {
		pad := rank - len(s)
		for ax, n := range s {
			switch cur := out[pad+ax]; {
			case n == cur || n == 1:
			case cur == 1:
				out[pad+ax] = n
			default:
				return nil, fmt.Errorf("tensor: shapes %v cannot be broadcast together: %w", shapes, gosymgen.ErrShape)
			}
		}
	}
	return out, nil
}

// BroadcastTo materializes d at the larger shape, repeating values along
// broadcast axes.
func BroadcastTo(d *Dense, shape []int) (*Dense, error) {
	got, err := BroadcastShapes(d.shape, shape)
	if err != nil {
		return nil, err
	}
	if len(got) != len(shape) {
		return nil, fmt.Errorf("tensor: cannot broadcast %v to %v: %w", d.shape, shape, gosymgen.ErrShape)
	}
	for i := range got {
		if got[i] != shape[i] {
			return nil, fmt.Errorf("tensor: cannot broadcast %v to %v: %w", d.shape, shape, gosymgen.ErrShape)
		}
	}

	out := &Dense{shape: append([]int{}, shape...), data: make([]float64, gosymgen.ShapeSize(shape))}
	pad := len(shape) - len(d.shape)
	src := make([]int, len(d.shape))
	for flat, idx := range gosymgen.Ndindex(shape) {
		for ax := range src {
			if d.shape[ax] == 1 {
				src[ax] = 0
			} else {
				src[ax] = idx[pad+ax]
			}
		}
		off, _ := gosymgen.Offset(d.shape, src)
		out.data[flat] = d.data[off]
	}
	return out, nil
}

// SplitTrailing checks that d ends with the trailing shape and returns the
// leading batch shape.
func SplitTrailing(d *Dense, trailing []int) ([]int, error) {
	lead := len(d.shape) - len(trailing)
	if lead < 0 {
		return nil, fmt.Errorf("tensor: shape %v does not end with %v: %w", d.shape, trailing, gosymgen.ErrShape)
	}
	for i, n := range trailing {
		if d.shape[lead+i] != n {
			return nil, fmt.Errorf("tensor: shape %v does not end with %v: %w", d.shape, trailing, gosymgen.ErrShape)
		}
	}
	return append([]int{}, d.shape[:lead]...), nil
}
