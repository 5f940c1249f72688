package compiled

import (
	"fmt"

	gosymgen "github.com/njchilds90/gosymgen"
	"github.com/njchilds90/gosymgen/tensor"
	"github.com/njchilds90/gosymgen/variable"
)

// bound is one validated argument: its element names and its value broadcast to
// the common batch shape.
type bound struct {
	elems []string
	data  []float64
}

func (m *method) call(args map[string]*tensor.Dense) (*tensor.Dense, error) {
	for name := range args {
		if !m.takes(name) {
			return nil, fmt.Errorf("%s got an unexpected argument %q: %w", m.name, name, gosymgen.ErrUnknownKey)
		}
	}

	// Validate trailing shapes and collect the batch shape of every
	// argument that has elements.
	batches := make([][]int, 0, len(m.args))
	for _, a := range m.args {
		val, ok := args[a.Name()]
		if !ok || val == nil {
			return nil, fmt.Errorf("%s: argument %s: %w", m.name, a.Name(), ErrMissingArgument)
		}
		batch, err := tensor.SplitTrailing(val, a.Shape())
		if err != nil {
			return nil, fmt.Errorf("invalid shape for %s, expected %s, got %s: %w",
				a.Name(), variable.ExpectedShape(a.Shape()), variable.PyTuple(val.Shape()), err)
		}
		if a.Size() > 0 {
			batches = append(batches, batch)
		}
	}
	batch, err := tensor.BroadcastShapes(batches...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", m.name, err)
	}

	bounds := make([]bound, 0, len(m.args))
	for _, a := range m.args {
		if a.Size() == 0 {
			continue
		}
		full, err := tensor.BroadcastTo(args[a.Name()], append(append([]int{}, batch...), a.Shape()...))
		if err != nil {
			return nil, fmt.Errorf("%s: argument %s: %w", m.name, a.Name(), err)
		}
		bounds = append(bounds, bound{elems: a.Elements(), data: full.Data()})
	}

	n := gosymgen.ShapeSize(batch)
	size := len(m.out)
	data := make([]float64, n*size)
	env := map[string]float64{}
	for b := 0; b < n; b++ {
		for _, bd := range bounds {
			k := len(bd.elems)
			for i, e := range bd.elems {
				env[e] = bd.data[b*k+i]
			}
		}
		for j, e := range m.out {
			if gosymgen.IsZero(e) {
				continue
			}
			x, err := gosymgen.Evalf(e, env)
			if err != nil {
				return nil, fmt.Errorf("%s: element %d: %w", m.name, j, err)
			}
			data[b*size+j] = x
		}
	}
	return tensor.FromSlice(append(batch, m.shape...), data)
}

func (m *method) takes(name string) bool {
	for _, a := range m.args {
		if a.Name() == name {
			return true
		}
	}
	return false
}
