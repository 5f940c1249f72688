// Package variable implements named, shaped arrays of scalar symbols and
// the symbol table of a model.
package variable

import (
	"fmt"
	"regexp"

	gosymgen "github.com/njchilds90/gosymgen"
	"github.com/njchilds90/gosymgen/tensor"
)

var identRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

var pythonKeywords = map[string]struct{}{
	"False": {}, "None": {}, "True": {}, "and": {}, "as": {}, "assert": {}, "async": {},
	"await": {}, "break": {}, "class": {}, "continue": {}, "def": {}, "del": {}, "elif": {},
	"else": {}, "except": {}, "finally": {}, "for": {}, "from": {}, "global": {}, "if": {},
	"import": {}, "in": {}, "is": {}, "lambda": {}, "nonlocal": {}, "not": {}, "or": {},
	"pass": {}, "raise": {}, "return": {}, "try": {}, "while": {}, "with": {}, "yield": {},
}

// IsIdentifier reports whether name can be used for a variable, element or
// function of generated code. Names starting with an underscore belong to the
// generated code itself.
func IsIdentifier(name string) bool {
	if !identRe.MatchString(name) {
		return false
	}
	_, kw := pythonKeywords[name]
	return !kw
}

// Array is a typed array variable: a named, shaped group of scalar symbols
// consumed as one argument of generated functions. It is immutable.
type Array struct {
	name  string
	spec  Spec
	shape []int
	elems []*gosymgen.Sym
	index map[string]int
	dtype string
}

// Option configures an Array.
type Option func(*Array)

// WithDType sets the element type used by generated validation code.
func WithDType(dtype string) Option { return func(a *Array) { a.dtype = dtype } }

// New builds a variable from its nested specification. A zero spec makes
// a rank-0 variable whose only element is named after the variable.
func New(name string, spec Spec, opts ...Option) (*Array, error) {
	if !IsIdentifier(name) {
		return nil, fmt.Errorf("variable name %q: %w", name, gosymgen.ErrIdentifier)
	}
	if spec.IsZero() {
		spec = Leaf(name)
	}
	names, shape, err := ElementsAndShape(spec)
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", name, err)
	}

	a := &Array{name: name, spec: spec, shape: shape, index: make(map[string]int, len(names)), dtype: "float64"}
	for _, o := range opts {
		o(a)
	}
	if !IsIdentifier(a.dtype) {
		return nil, fmt.Errorf("variable %s dtype %q: %w", name, a.dtype, gosymgen.ErrIdentifier)
	}

	a.elems = make([]*gosymgen.Sym, len(names))
	for i, n := range names {
		if !IsIdentifier(n) {
			return nil, fmt.Errorf("variable %s element %q: %w", name, n, gosymgen.ErrIdentifier)
		}
		if _, dup := a.index[n]; dup {
			return nil, fmt.Errorf("variable %s repeats element %q: %w", name, n, gosymgen.ErrNameConflict)
		}
		a.index[n] = i
		a.elems[i] = gosymgen.S(n)
	}
	if len(shape) > 0 {
		if _, clash := a.index[name]; clash {
			return nil, fmt.Errorf("variable %s of rank %d has an element of the same name: %w",
				name, len(shape), gosymgen.ErrNameConflict)
		}
	}
	return a, nil
}

// MustNew is New for statically known declarations; it panics on error.
func MustNew(name string, spec Spec, opts ...Option) *Array {
	a, err := New(name, spec, opts...)
	if err != nil {
		panic(err)
	}
	return a
}

func (a *Array) Name() string  { return a.name }
func (a *Array) Spec() Spec    { return a.spec }
func (a *Array) Shape() []int  { return append([]int{}, a.shape...) }
func (a *Array) Rank() int     { return len(a.shape) }
func (a *Array) Size() int     { return len(a.elems) }
func (a *Array) DType() string { return a.dtype }

// Elements returns the element names in row-major order.
func (a *Array) Elements() []string {
	out := make([]string, len(a.elems))
	for i, s := range a.elems {
		out[i] = s.Name()
	}
	return out
}

// Symbols returns the element symbols in row-major order.
func (a *Array) Symbols() []*gosymgen.Sym { return append([]*gosymgen.Sym(nil), a.elems...) }

// Expr returns the variable as a shaped expression array.
func (a *Array) Expr() *gosymgen.Array {
	data := make([]gosymgen.Expr, len(a.elems))
	for i, s := range a.elems {
		data[i] = s
	}
	arr, _ := gosymgen.NewArray(a.shape, data)
	return arr
}

// At returns the element at a full multi-index; it panics when the index is
// out of range.
func (a *Array) At(idx ...int) gosymgen.Expr {
	off, err := gosymgen.Offset(a.shape, idx)
	if err != nil {
		panic(fmt.Sprintf("variable %s: %v", a.name, err))
	}
	return a.elems[off]
}

// Lookup finds an element symbol by name.
func (a *Array) Lookup(name string) (*gosymgen.Sym, bool) {
	i, ok := a.index[name]
	if !ok {
		return nil, false
	}
	return a.elems[i], true
}

// Elem returns the named element; it panics when the variable has no such
// element, which is a declaration error in the calling model body.
func (a *Array) Elem(name string) gosymgen.Expr {
	s, ok := a.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("variable %s has no element %q", a.name, name))
	}
	return s
}

// Symbol returns the only element of a rank-0 variable.
func (a *Array) Symbol() gosymgen.Expr { return a.At() }

// Indices lists the multi-indices of the variable in row-major order.
func (a *Array) Indices() [][]int { return gosymgen.Ndindex(a.shape) }

// Has reports whether sym is one of the variable's elements.
func (a *Array) Has(sym string) bool {
	_, ok := a.index[sym]
	return ok
}

// BroadcastRepresentative names the element whose broadcast shape stands for
// the whole argument; ok is false for zero-size variables.
func (a *Array) BroadcastRepresentative() (string, bool) {
	if len(a.elems) == 0 {
		return "", false
	}
	return a.elems[0].Name(), true
}

// SubstitutionMap maps every element name to the matching entry of value,
// whose shape must equal the declared shape exactly.
func (a *Array) SubstitutionMap(value *tensor.Dense) (map[string]float64, error) {
	if !equalInts(value.Shape(), a.shape) {
		return nil, fmt.Errorf("invalid shape for %s, expected %s, got %s: %w",
			a.name, PyTuple(a.shape), PyTuple(value.Shape()), gosymgen.ErrShape)
	}
	data := value.Data()
	subs := make(map[string]float64, len(a.elems))
	for i, s := range a.elems {
		subs[s.Name()] = data[i]
	}
	return subs, nil
}

// Pack builds a value of the declared shape taking each element from values
// by name and fill where absent.
func (a *Array) Pack(values map[string]float64, fill float64) *tensor.Dense {
	data := make([]float64, len(a.elems))
	for i, s := range a.elems {
		if v, ok := values[s.Name()]; ok {
			data[i] = v
		} else {
			data[i] = fill
		}
	}
	d, _ := tensor.FromSlice(a.shape, data)
	return d
}
