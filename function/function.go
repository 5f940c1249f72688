// Package function pairs a shaped symbolic output with the ordered array
// variables it is a function of.
package function

import (
	"fmt"

	gosymgen "github.com/njchilds90/gosymgen"
	"github.com/njchilds90/gosymgen/variable"
)

// Function is an immutable symbolic function: an output array plus its
// ordered argument variables. Derived functions remember their origin.
type Function struct {
	name string
	out  *gosymgen.Array
	args []*variable.Array

	base string // function this one was derived from
	wrt  string // variable of differentiation, empty for sparse
	kind kind
}

type kind uint8

const (
	kindBase kind = iota
	kindDerivative
	kindSparse
)

// New binds out to args. Every free symbol of out must be an element of one
// of the arguments.
func New(name string, out *gosymgen.Array, args []*variable.Array) (*Function, error) {
	if !variable.IsIdentifier(name) {
		return nil, fmt.Errorf("function name %q: %w", name, gosymgen.ErrIdentifier)
	}
	if out == nil {
		return nil, fmt.Errorf("function %s has no output: %w", name, gosymgen.ErrShape)
	}
	seenArg := map[string]bool{}
	owner := map[string]string{}
	for _, a := range args {
		if seenArg[a.Name()] {
			return nil, fmt.Errorf("function %s takes %s twice: %w", name, a.Name(), gosymgen.ErrNameConflict)
		}
		seenArg[a.Name()] = true
		for _, e := range a.Elements() {
			if other, dup := owner[e]; dup {
				return nil, fmt.Errorf("function %s: element %q of %s also belongs to %s: %w",
					name, e, a.Name(), other, gosymgen.ErrNameConflict)
			}
			owner[e] = a.Name()
		}
	}
	for _, s := range out.FreeSymbols() {
		if _, ok := owner[s]; !ok {
			return nil, fmt.Errorf("function %s uses %s, which no argument provides: %w", name, s, gosymgen.ErrUnboundSymbol)
		}
	}
	return &Function{name: name, out: out, args: append([]*variable.Array(nil), args...)}, nil
}

func (f *Function) Name() string            { return f.name }
func (f *Function) Output() *gosymgen.Array { return f.out }
func (f *Function) Args() []*variable.Array { return append([]*variable.Array(nil), f.args...) }

// Signature returns the argument names in call order.
func (f *Function) Signature() []string {
	names := make([]string, len(f.args))
	for i, a := range f.args {
		names[i] = a.Name()
	}
	return names
}

// DerivedFrom reports the function f was derived from and, for
// derivatives, the variable of differentiation.
func (f *Function) DerivedFrom() (base, wrt string, ok bool) {
	return f.base, f.wrt, f.kind != kindBase
}

// Differentiate returns the function of the same arguments whose output is
// the partial derivative of every output element by every element of wrt,
// with shape out.shape + wrt.shape. A rank-0 wrt contributes an axis of
// length 1. Elements of wrt that f does not depend on yield zeros.
func (f *Function) Differentiate(wrt *variable.Array, newName string) (*Function, error) {
	if !variable.IsIdentifier(newName) {
		return nil, fmt.Errorf("function name %q: %w", newName, gosymgen.ErrIdentifier)
	}
	wrtShape := wrt.Shape()
	if len(wrtShape) == 0 {
		wrtShape = []int{1}
	}
	syms := wrt.Elements()
	src := f.out.Flat()
	data := make([]gosymgen.Expr, 0, len(src)*len(syms))
	for _, e := range src {
		for _, s := range syms {
			data = append(data, gosymgen.Diff(e, s))
		}
	}
	shape := append(f.out.Shape(), wrtShape...)
	out, err := gosymgen.NewArray(shape, data)
	if err != nil {
		return nil, fmt.Errorf("differentiating %s by %s: %w", f.name, wrt.Name(), err)
	}
	return &Function{
		name: newName,
		out:  out,
		args: f.Args(),
		base: f.name,
		wrt:  wrt.Name(),
		kind: kindDerivative,
	}, nil
}
