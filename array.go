package gosymgen

import (
	"fmt"
	"strings"
)

// ============================================================
// Array: shaped collection of expressions
// ============================================================

// Array is an immutable row-major array of expressions. A rank-0 array
// holds exactly one element.
type Array struct {
	shape []int
	data  []Expr
}

// NewArray copies shape and data; len(data) must equal the product of
// shape.
func NewArray(shape []int, data []Expr) (*Array, error) {
	for _, d := range shape {
		if d < 0 {
			return nil, fmt.Errorf("negative dimension in %v: %w", shape, ErrShape)
		}
	}
	if len(data) != ShapeSize(shape) {
		return nil, fmt.Errorf("array of shape %v needs %d elements, got %d: %w",
			shape, ShapeSize(shape), len(data), ErrShape)
	}
	return &Array{shape: append([]int{}, shape...), data: append([]Expr(nil), data...)}, nil
}

// Scalar wraps e into a rank-0 array.
func Scalar(e Expr) *Array { return &Array{shape: []int{}, data: []Expr{e}} }

// Vector builds a rank-1 array.
func Vector(elems ...Expr) *Array {
	return &Array{shape: []int{len(elems)}, data: append([]Expr(nil), elems...)}
}

// Stack joins arrays of identical shape along a new leading axis.
func Stack(items ...*Array) (*Array, error) {
	if len(items) == 0 {
		return &Array{shape: []int{0}}, nil
	}
	inner := items[0].shape
	data := make([]Expr, 0, len(items)*len(items[0].data))
	for i, it := range items {
		if !sameShape(it.shape, inner) {
			return nil, fmt.Errorf("item %d has shape %v, expected %v: %w", i, it.shape, inner, ErrShape)
		}
		data = append(data, it.data...)
	}
	return &Array{shape: append([]int{len(items)}, inner...), data: data}, nil
}

func (a *Array) Shape() []int { return append([]int{}, a.shape...) }
func (a *Array) Rank() int    { return len(a.shape) }
func (a *Array) Len() int     { return len(a.data) }
func (a *Array) Flat() []Expr { return append([]Expr(nil), a.data...) }

// At returns the element at a full multi-index and panics when the
// index is out of range, like slice indexing.
func (a *Array) At(idx ...int) Expr {
	off, err := Offset(a.shape, idx)
	if err != nil {
		panic(err)
	}
	return a.data[off]
}

// Index returns the sub-array at position i of the leading axis. Negative
// positions count from the end.
func (a *Array) Index(i int) (*Array, error) {
	if len(a.shape) == 0 {
		return nil, fmt.Errorf("cannot index a scalar: %w", ErrShape)
	}
	n := a.shape[0]
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return nil, fmt.Errorf("index %d out of range for axis of length %d: %w", i, n, ErrShape)
	}
	stride := ShapeSize(a.shape[1:])
	return &Array{
		shape: append([]int{}, a.shape[1:]...),
		data:  append([]Expr(nil), a.data[i*stride:(i+1)*stride]...),
	}, nil
}

// Map applies f to every element.
func (a *Array) Map(f func(Expr) Expr) *Array {
	out := make([]Expr, len(a.data))
	for i, e := range a.data {
		out[i] = f(e)
	}
	return &Array{shape: a.Shape(), data: out}
}

// Simplify simplifies every element.
func (a *Array) Simplify() *Array { return a.Map(Simplify) }

func (a *Array) Equal(b *Array) bool {
	return sameShape(a.shape, b.shape) && equalSlices(a.data, b.data)
}

// FreeSymbols returns the sorted union of the elements' symbols.
func (a *Array) FreeSymbols() []string {
	seen := map[string]struct{}{}
	for _, e := range a.data {
		collectSymbols(e, seen)
	}
	return sortedNames(seen)
}

func (a *Array) String() string {
	if len(a.shape) == 0 {
		return a.data[0].String()
	}
	var sb strings.Builder
	a.writeNested(&sb, 0, 0)
	return sb.String()
}

func (a *Array) writeNested(sb *strings.Builder, axis, offset int) {
	stride := ShapeSize(a.shape[axis+1:])
	sb.WriteString("[")
	for i := 0; i < a.shape[axis]; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		if axis == len(a.shape)-1 {
			sb.WriteString(a.data[offset+i].String())
		} else {
			a.writeNested(sb, axis+1, offset+i*stride)
		}
	}
	sb.WriteString("]")
}

// ShapeSize returns the number of elements of an array of the given
// shape; the empty shape has one element.
func ShapeSize(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// Offset converts a multi-index into a row-major flat offset.
func Offset(shape, idx []int) (int, error) {
	if len(idx) != len(shape) {
		return 0, fmt.Errorf("index %v has rank %d, array has rank %d: %w", idx, len(idx), len(shape), ErrShape)
	}
	off := 0
	for i, k := range idx {
		if k < 0 || k >= shape[i] {
			return 0, fmt.Errorf("index %v out of range for shape %v: %w", idx, shape, ErrShape)
		}
		off = off*shape[i] + k
	}
	return off, nil
}

// Ndindex lists every multi-index of shape in row-major order.
func Ndindex(shape []int) [][]int {
	n := ShapeSize(shape)
	out := make([][]int, n)
	for flat := 0; flat < n; flat++ {
		idx := make([]int, len(shape))
		rem := flat
		for ax := len(shape) - 1; ax >= 0; ax-- {
			idx[ax] = rem % shape[ax]
			rem /= shape[ax]
		}
		out[flat] = idx
	}
	return out
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
