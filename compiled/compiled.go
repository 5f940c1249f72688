// Package compiled loads a built model into Go callables that evaluate its
// functions numerically, with the same argument validation and batch
// broadcasting as the emitted Python code.
package compiled

import (
	"errors"
	"fmt"

	gosymgen "github.com/njchilds90/gosymgen"
	"github.com/njchilds90/gosymgen/function"
	"github.com/njchilds90/gosymgen/model"
	"github.com/njchilds90/gosymgen/tensor"
	"github.com/njchilds90/gosymgen/variable"
)

// ErrMissingArgument is returned when a call omits one of the function's
// arguments.
var ErrMissingArgument = errors.New("compiled: missing argument")

// Func evaluates one model function on named argument values.
type Func func(args map[string]*tensor.Dense) (*tensor.Dense, error)

type method struct {
	name  string
	args  []*variable.Array
	out   []gosymgen.Expr
	shape []int
}

// Class is the loaded form of a model. It is read-only and safe for
// concurrent use.
type Class struct {
	name    string
	sigs    []model.Signature
	vars    []*variable.Array
	byVar   map[string]*variable.Array
	methods map[string]*method
	indices map[string]function.Indices
}

// Load turns m into a Class. Load fails only if m's functions reference a
// variable m does not declare.
func Load(m *model.Model) (*Class, error) {
	c := &Class{
		name:    m.ClassName(),
		sigs:    m.Signatures(),
		vars:    m.Variables(),
		byVar:   map[string]*variable.Array{},
		methods: map[string]*method{},
		indices: map[string]function.Indices{},
	}
	for _, v := range c.vars {
		c.byVar[v.Name()] = v
	}
	for _, f := range m.Functions() {
		for _, a := range f.Args() {
			if _, ok := c.byVar[a.Name()]; !ok {
				return nil, fmt.Errorf("loading %s: function %s takes undeclared variable %s: %w",
					c.name, f.Name(), a.Name(), gosymgen.ErrUnknownKey)
			}
		}
		c.methods[f.Name()] = &method{
			name:  f.Name(),
			args:  f.Args(),
			out:   f.Output().Flat(),
			shape: f.Output().Shape(),
		}
	}
	for _, name := range m.SparseNames() {
		ind, _ := m.SparseIndices(name)
		c.indices[name] = ind
	}
	return c, nil
}

func (c *Class) Name() string { return c.name }

// Signatures lists every function's arguments in registration order.
func (c *Class) Signatures() []model.Signature {
	out := make([]model.Signature, len(c.sigs))
	for i, s := range c.sigs {
		out[i] = model.Signature{Name: s.Name, Args: append([]string(nil), s.Args...)}
	}
	return out
}

// Signature returns the argument names of one function.
func (c *Class) Signature(fname string) ([]string, error) {
	m, err := c.method(fname)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(m.args))
	for i, a := range m.args {
		names[i] = a.Name()
	}
	return names, nil
}

// VarSpecs maps every variable to its nested specification.
func (c *Class) VarSpecs() map[string]variable.Spec {
	out := make(map[string]variable.Spec, len(c.vars))
	for _, v := range c.vars {
		out[v.Name()] = v.Spec()
	}
	return out
}

// Variables returns the model variables in declaration order.
func (c *Class) Variables() []*variable.Array { return append([]*variable.Array(nil), c.vars...) }

// Variable looks a variable up by name.
func (c *Class) Variable(name string) (*variable.Array, error) {
	v, ok := c.byVar[name]
	if !ok {
		return nil, fmt.Errorf("%s has no variable %q: %w", c.name, name, gosymgen.ErrUnknownKey)
	}
	return v, nil
}

// SparseIndices returns the nonzero index table of a sparsified function.
func (c *Class) SparseIndices(name string) (function.Indices, bool) {
	ind, ok := c.indices[name]
	return ind, ok
}

// Func returns the callable for fname.
func (c *Class) Func(fname string) (Func, error) {
	m, err := c.method(fname)
	if err != nil {
		return nil, err
	}
	return m.call, nil
}

// Call evaluates fname on args, keyed by argument name.
func (c *Class) Call(fname string, args map[string]*tensor.Dense) (*tensor.Dense, error) {
	m, err := c.method(fname)
	if err != nil {
		return nil, err
	}
	return m.call(args)
}

func (c *Class) method(fname string) (*method, error) {
	m, ok := c.methods[fname]
	if !ok {
		return nil, fmt.Errorf("%s has no function %q: %w", c.name, fname, gosymgen.ErrUnknownKey)
	}
	return m, nil
}
