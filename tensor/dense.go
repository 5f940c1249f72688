// Package tensor provides a small row-major float64 N-d array used to feed
// and collect numeric values of model variables and functions.
// Dense stores its elements in a flat slice, like a numpy C-contiguous array.
package tensor

import (
	"errors"
	"fmt"

	gosymgen "github.com/njchilds90/gosymgen"
)

// ErrIndexOutOfBounds indicates that a multi-index is outside the array.
var ErrIndexOutOfBounds = errors.New("tensor: index out of bounds")

// denseErrorf wraps an underlying error with Dense method context.
func denseErrorf(method string, idx []int, err error) error {
	return fmt.Errorf("Dense.%s(%v): %w", method, idx, err)
}

// Dense is a row-major N-d array of float64 values. A rank-0 Dense holds
// exactly one value.
type Dense struct {
	shape []int     // extent of each axis
	data  []float64 // flat backing storage, length == product of shape
}

// New creates a zero-filled Dense of the given shape.
func New(shape ...int) (*Dense, error) {
	if err := validShape(shape); err != nil {
		return nil, err
	}
	return &Dense{shape: append([]int{}, shape...), data: make([]float64, gosymgen.ShapeSize(shape))}, nil
}

// FromSlice copies data into a Dense of the given shape.
func FromSlice(shape []int, data []float64) (*Dense, error) {
	if err := validShape(shape); err != nil {
		return nil, err
	}
	if len(data) != gosymgen.ShapeSize(shape) {
		return nil, fmt.Errorf("tensor: shape %v needs %d values, got %d: %w",
			shape, gosymgen.ShapeSize(shape), len(data), gosymgen.ErrShape)
	}
	return &Dense{shape: append([]int{}, shape...), data: append([]float64(nil), data...)}, nil
}

// Scalar returns a rank-0 Dense holding v.
func Scalar(v float64) *Dense { return &Dense{shape: []int{}, data: []float64{v}} }

// Vector returns a rank-1 Dense holding vs.
func Vector(vs ...float64) *Dense {
	return &Dense{shape: []int{len(vs)}, data: append([]float64(nil), vs...)}
}

// Empty returns a rank-1 Dense with no elements, the default value of a
// zero-size variable.
func Empty() *Dense { return &Dense{shape: []int{0}} }

func validShape(shape []int) error {
	for _, d := range shape {
		if d < 0 {
			return fmt.Errorf("tensor: negative dimension in %v: %w", shape, gosymgen.ErrShape)
		}
	}
	return nil
}

func (d *Dense) Shape() []int { return append([]int{}, d.shape...) }
func (d *Dense) Rank() int    { return len(d.shape) }
func (d *Dense) Size() int    { return len(d.data) }

// Data returns a copy of the flat row-major storage.
func (d *Dense) Data() []float64 { return append([]float64(nil), d.data...) }

// Clone returns a deep copy of d.
func (d *Dense) Clone() *Dense {
	return &Dense{shape: d.Shape(), data: d.Data()}
}

// At retrieves the element at a full multi-index.
func (d *Dense) At(idx ...int) (float64, error) {
	off, err := d.offset("At", idx)
	if err != nil {
		return 0, err
	}
	return d.data[off], nil
}

// Set stores v at a full multi-index.
func (d *Dense) Set(v float64, idx ...int) error {
	off, err := d.offset("Set", idx)
	if err != nil {
		return err
	}
	d.data[off] = v
	return nil
}

// Fill sets every element to v.
func (d *Dense) Fill(v float64) {
	for i := range d.data {
		d.data[i] = v
	}
}

func (d *Dense) offset(method string, idx []int) (int, error) {
	off, err := gosymgen.Offset(d.shape, idx)
	if err != nil {
		return 0, denseErrorf(method, idx, ErrIndexOutOfBounds)
	}
	return off, nil
}

// Equal reports whether a and b have the same shape and identical values.
func Equal(a, b *Dense) bool {
	if a.Rank() != b.Rank() || len(a.data) != len(b.data) {
		return false
	}
	for i := range a.shape {
		if a.shape[i] != b.shape[i] {
			return false
		}
	}
	for i := range a.data {
		if a.data[i] != b.data[i] {
			return false
		}
	}
	return true
}

func (d *Dense) String() string {
	return fmt.Sprintf("Dense%v%v", d.shape, d.data)
}
