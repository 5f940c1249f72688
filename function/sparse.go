package function

import (
	"fmt"
	"strconv"
	"strings"

	gosymgen "github.com/njchilds90/gosymgen"
	"github.com/njchilds90/gosymgen/variable"
)

// Selector filters the nonzero entries of an output. coords holds one
// coordinate list per output axis, all of the same length; the returned
// mask must have that length too.
type Selector func(coords [][]int) ([]bool, error)

// AllNonzero keeps every nonzero entry.
func AllNonzero(coords [][]int) ([]bool, error) {
	n := 0
	if len(coords) > 0 {
		n = len(coords[0])
	}
	mask := make([]bool, n)
	for i := range mask {
		mask[i] = true
	}
	return mask, nil
}

// Indices are the per-axis coordinates of the entries kept by a sparse
// extraction, in row-major order.
type Indices [][]int

// Len is the number of entries.
func (ix Indices) Len() int {
	if len(ix) == 0 {
		return 0
	}
	return len(ix[0])
}

// Python renders the indices as a tuple of lists: ([0, 1], [1, 1]).
func (ix Indices) Python() string {
	parts := make([]string, len(ix))
	for i, axis := range ix {
		vals := make([]string, len(axis))
		for j, v := range axis {
			vals[j] = strconv.Itoa(v)
		}
		parts[i] = "[" + strings.Join(vals, ", ") + "]"
	}
	switch len(parts) {
	case 0:
		return "()"
	case 1:
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ExtractSparse returns the rank-1 function, named f.Name()+nameSuffix, of
// the structurally nonzero output entries accepted by sel, together with
// their indices. A nil sel keeps every nonzero entry; sel is not called
// when there are none.
func (f *Function) ExtractSparse(nameSuffix string, sel Selector) (*Function, Indices, error) {
	rank := f.out.Rank()
	coords := make([][]int, rank)
	for ax := range coords {
		coords[ax] = []int{}
	}
	var vals []gosymgen.Expr
	flat := f.out.Flat()
	for i, idx := range gosymgen.Ndindex(f.out.Shape()) {
		e := flat[i]
		if gosymgen.IsZero(e) {
			continue
		}
		for ax, k := range idx {
			coords[ax] = append(coords[ax], k)
		}
		vals = append(vals, e)
	}

	mask := make([]bool, len(vals))
	for i := range mask {
		mask[i] = true
	}
	if sel != nil && len(vals) > 0 {
		var err error
		if mask, err = sel(copyCoords(coords)); err != nil {
			return nil, nil, fmt.Errorf("selecting entries of %s: %w", f.name, err)
		}
	}
	if len(mask) != len(vals) {
		return nil, nil, fmt.Errorf("selector for %s returned %d flags for %d entries: %w",
			f.name, len(mask), len(vals), gosymgen.ErrShape)
	}

	kept := make(Indices, rank)
	for ax := range kept {
		kept[ax] = []int{}
	}
	data := []gosymgen.Expr{}
	for k, keep := range mask {
		if !keep {
			continue
		}
		for ax := range kept {
			kept[ax] = append(kept[ax], coords[ax][k])
		}
		data = append(data, vals[k])
	}

	name := f.name + nameSuffix
	if !variable.IsIdentifier(name) {
		return nil, nil, fmt.Errorf("function name %q: %w", name, gosymgen.ErrIdentifier)
	}
	return &Function{
		name: name,
		out:  gosymgen.Vector(data...),
		args: f.Args(),
		base: f.name,
		kind: kindSparse,
	}, kept, nil
}

func copyCoords(coords [][]int) [][]int {
	out := make([][]int, len(coords))
	for i, c := range coords {
		out[i] = append([]int{}, c...)
	}
	return out
}
