// Package param binds a subset of a loaded model's arguments to stored
// instance parameters that calls may override.
package param

import (
	"fmt"
	"maps"

	"github.com/njchilds90/gosymgen/compiled"
	"github.com/njchilds90/gosymgen/tensor"
)

// Method is a model function with parameter resolution applied: calling it
// is the same as calling Model.Call with its name.
type Method func(positional []*tensor.Dense, named map[string]*tensor.Dense) (*tensor.Dense, error)

// Model wraps a compiled class with stored parameters. A Model is never
// modified after New; Parametrize returns a new one.
type Model struct {
	class  *compiled.Class
	params map[string]*tensor.Dense
}

// New stores a copy of params. Variables with no elements that params
// does not mention get an empty default of the variable's shape.
func New(class *compiled.Class, params map[string]*tensor.Dense) (*Model, error) {
	stored := maps.Clone(params)
	if stored == nil {
		stored = map[string]*tensor.Dense{}
	}
	for _, v := range class.Variables() {
		if _, ok := stored[v.Name()]; ok || v.Size() != 0 {
			continue
		}
		empty, err := tensor.New(v.Shape()...)
		if err != nil {
			return nil, fmt.Errorf("default for %s: %w", v.Name(), err)
		}
		stored[v.Name()] = empty
	}
	return &Model{class: class, params: stored}, nil
}

// Class returns the wrapped class.
func (m *Model) Class() *compiled.Class { return m.class }

// Params returns a copy of the stored parameters.
func (m *Model) Params() map[string]*tensor.Dense { return maps.Clone(m.params) }

// Parametrize returns a new Model whose parameters are m's overlaid with
// overrides. m is left untouched.
func (m *Model) Parametrize(overrides map[string]*tensor.Dense) *Model {
	next := maps.Clone(m.params)
	maps.Copy(next, overrides)
	return &Model{class: m.class, params: next}
}

// Call resolves fname's arguments against the stored parameters and
// evaluates it.
func (m *Model) Call(fname string, positional []*tensor.Dense, named map[string]*tensor.Dense) (*tensor.Dense, error) {
	sig, err := m.class.Signature(fname)
	if err != nil {
		return nil, err
	}
	args, err := Resolve(sig, positional, named, m.params)
	if err != nil {
		return nil, err
	}
	return m.class.Call(fname, args)
}

// Method returns fname as a Method bound to m.
func (m *Model) Method(fname string) (Method, error) {
	if _, err := m.class.Signature(fname); err != nil {
		return nil, err
	}
	return func(positional []*tensor.Dense, named map[string]*tensor.Dense) (*tensor.Dense, error) {
		return m.Call(fname, positional, named)
	}, nil
}

// Pack builds a value of variable name's shape from element values,
// using fill for the rest.
func (m *Model) Pack(name string, values map[string]float64, fill float64) (*tensor.Dense, error) {
	v, err := m.class.Variable(name)
	if err != nil {
		return nil, err
	}
	return v.Pack(values, fill), nil
}
