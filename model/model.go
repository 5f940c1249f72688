// Package model builds a symbolic model from its declaration and emits it
// as a Python class.
//
// Construction runs four phases, each depending on the previous one:
// variables, functions, derivatives and sparse extractions. The first error
// aborts construction. A built Model is read-only.
package model

import (
	"fmt"
	"io"
	"log/slog"

	gosymgen "github.com/njchilds90/gosymgen"
	"github.com/njchilds90/gosymgen/function"
	"github.com/njchilds90/gosymgen/tensor"
	"github.com/njchilds90/gosymgen/variable"
)

// SparseSuffix is appended to a function's name to name its nonzero entries.
const SparseSuffix = "_val"

// Class attributes and runtime methods that functions may not shadow.
var reservedNames = map[string]struct{}{
	"signatures": {}, "var_specs": {}, "parametrize": {}, "call": {}, "call_args": {},
	"decorate": {}, "meta": {}, "pack": {},
}

// Model is a built symbolic model: a symbol table, an ordered function
// registry and the index tables of sparse extractions.
type Model struct {
	name      string
	className string
	vars      *variable.Table
	funcs     []*function.Function
	byName    map[string]*function.Function
	sparse    []string
	indices   map[string]function.Indices
	imports   []string
	meta      *Meta
	logger    *slog.Logger
}

// Option configures New.
type Option func(*Model)

// WithLogger sets the logger construction reports to.
func WithLogger(l *slog.Logger) Option { return func(m *Model) { m.logger = l } }

// New builds the model declared by def.
func New(def *Definition, opts ...Option) (*Model, error) {
	m := &Model{
		name:      def.Name,
		className: def.ClassName,
		byName:    map[string]*function.Function{},
		indices:   map[string]function.Indices{},
		imports:   append([]string(nil), def.Imports...),
		meta:      def.Meta,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(m)
	}
	if m.className == "" {
		m.className = m.name
	}
	if !variable.IsIdentifier(m.className) {
		return nil, fmt.Errorf("model class name %q: %w", m.className, gosymgen.ErrIdentifier)
	}
	log := m.logger.With("model", m.name)

	if err := m.initVariables(def.Variables); err != nil {
		return nil, err
	}
	log.Debug("Variables declared.", "count", m.vars.Len())

	if err := m.initFunctions(def.Functions); err != nil {
		return nil, err
	}
	log.Debug("Functions bound.", "count", len(def.Functions))

	if err := m.initDerivatives(def.Derivatives); err != nil {
		return nil, err
	}
	log.Debug("Derivatives computed.", "count", len(def.Derivatives))

	if err := m.initSparse(def.Sparse); err != nil {
		return nil, err
	}
	log.Debug("Sparse functions extracted.", "count", len(def.Sparse))
	return m, nil
}

func (m *Model) initVariables(decls []VariableDecl) error {
	vars := make([]*variable.Array, 0, len(decls))
	for _, d := range decls {
		var opts []variable.Option
		if d.DType != "" {
			opts = append(opts, variable.WithDType(d.DType))
		}
		v, err := variable.New(d.Name, d.Spec, opts...)
		if err != nil {
			return fmt.Errorf("model %s: %w", m.name, err)
		}
		vars = append(vars, v)
	}
	table, err := variable.NewTable(vars...)
	if err != nil {
		return fmt.Errorf("model %s: %w", m.name, err)
	}
	m.vars = table
	return nil
}

func (m *Model) initFunctions(decls []FunctionDecl) error {
	for _, d := range decls {
		if d.Body == nil {
			return fmt.Errorf("model %s: function %s has no body: %w", m.name, d.Name, gosymgen.ErrNotCallable)
		}
		args := make([]*variable.Array, len(d.Args))
		for i, name := range d.Args {
			v, err := m.vars.Get(name)
			if err != nil {
				return fmt.Errorf("model %s: function %s: %w", m.name, d.Name, err)
			}
			args[i] = v
		}
		out, err := d.Body(args...)
		if err != nil {
			return fmt.Errorf("model %s: evaluating function %s: %w", m.name, d.Name, err)
		}
		f, err := function.New(d.Name, out, args)
		if err != nil {
			return fmt.Errorf("model %s: %w", m.name, err)
		}
		if err := m.register(f); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) initDerivatives(decls []DerivativeDecl) error {
	for _, d := range decls {
		f, ok := m.byName[d.Of]
		if !ok {
			return fmt.Errorf("model %s: derivative %s of unknown function %s: %w", m.name, d.Name, d.Of, gosymgen.ErrUnknownKey)
		}
		if len(d.WRT) == 0 {
			return fmt.Errorf("model %s: derivative %s names no variable: %w", m.name, d.Name, gosymgen.ErrUnknownKey)
		}
		for _, wrtName := range d.WRT {
			wrt, err := m.vars.Get(wrtName)
			if err != nil {
				return fmt.Errorf("model %s: derivative %s: %w", m.name, d.Name, err)
			}
			if f, err = f.Differentiate(wrt, d.Name); err != nil {
				return fmt.Errorf("model %s: %w", m.name, err)
			}
		}
		if err := m.register(f); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) initSparse(decls []SparseDecl) error {
	for _, d := range decls {
		f, ok := m.byName[d.Of]
		if !ok {
			return fmt.Errorf("model %s: sparse extraction of unknown function %s: %w", m.name, d.Of, gosymgen.ErrUnknownKey)
		}
		if _, dup := m.indices[d.Of]; dup {
			return fmt.Errorf("model %s: function %s made sparse twice: %w", m.name, d.Of, gosymgen.ErrNameConflict)
		}
		if _, clash := m.byName[d.Of+"_ind"]; clash {
			return fmt.Errorf("model %s: function %s_ind shadows the index table of %s: %w", m.name, d.Of, d.Of, gosymgen.ErrNameConflict)
		}
		val, ind, err := f.ExtractSparse(SparseSuffix, d.Selector)
		if err != nil {
			return fmt.Errorf("model %s: %w", m.name, err)
		}
		if err := m.register(val); err != nil {
			return err
		}
		m.sparse = append(m.sparse, d.Of)
		m.indices[d.Of] = ind
	}
	return nil
}

func (m *Model) register(f *function.Function) error {
	if _, dup := m.byName[f.Name()]; dup {
		return fmt.Errorf("model %s: function %s defined twice: %w", m.name, f.Name(), gosymgen.ErrNameConflict)
	}
	if _, reserved := reservedNames[f.Name()]; reserved {
		return fmt.Errorf("model %s: function name %s is reserved: %w", m.name, f.Name(), gosymgen.ErrNameConflict)
	}
	for _, s := range m.sparse {
		if f.Name() == s+"_ind" {
			return fmt.Errorf("model %s: function %s shadows an index table: %w", m.name, f.Name(), gosymgen.ErrNameConflict)
		}
	}
	m.funcs = append(m.funcs, f)
	m.byName[f.Name()] = f
	return nil
}

func (m *Model) Name() string      { return m.name }
func (m *Model) ClassName() string { return m.className }
func (m *Model) Meta() *Meta       { return m.meta }

// Variables returns the variables in declaration order.
func (m *Model) Variables() []*variable.Array { return m.vars.Vars() }

// Variable looks a variable up by name.
func (m *Model) Variable(name string) (*variable.Array, error) { return m.vars.Get(name) }

// Functions returns the registered functions in registration order.
func (m *Model) Functions() []*function.Function {
	return append([]*function.Function(nil), m.funcs...)
}

// Function looks a registered function up by name.
func (m *Model) Function(name string) (*function.Function, error) {
	f, ok := m.byName[name]
	if !ok {
		return nil, fmt.Errorf("model %s has no function %q: %w", m.name, name, gosymgen.ErrUnknownKey)
	}
	return f, nil
}

// SparseNames lists the functions with a sparse extraction, in declaration
// order.
func (m *Model) SparseNames() []string { return append([]string(nil), m.sparse...) }

// SparseIndices returns the index table of a sparsified function.
func (m *Model) SparseIndices(name string) (function.Indices, bool) {
	ind, ok := m.indices[name]
	return ind, ok
}

// Signature is the ordered argument list of one function.
type Signature struct {
	Name string
	Args []string
}

// Signatures lists every function's arguments in registration order.
func (m *Model) Signatures() []Signature {
	out := make([]Signature, len(m.funcs))
	for i, f := range m.funcs {
		out[i] = Signature{Name: f.Name(), Args: f.Signature()}
	}
	return out
}

// Pack builds a value of variable name's shape from element values, using
// fill for absent elements.
func (m *Model) Pack(name string, values map[string]float64, fill float64) (*tensor.Dense, error) {
	v, err := m.vars.Get(name)
	if err != nil {
		return nil, err
	}
	return v.Pack(values, fill), nil
}

// Symbols merges the element substitutions of several variable values.
func (m *Model) Symbols(values map[string]*tensor.Dense) (map[string]float64, error) {
	out := map[string]float64{}
	for name, val := range values {
		v, err := m.vars.Get(name)
		if err != nil {
			return nil, err
		}
		subs, err := v.SubstitutionMap(val)
		if err != nil {
			return nil, err
		}
		for k, x := range subs {
			out[k] = x
		}
	}
	return out, nil
}
