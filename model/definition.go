package model

import (
	gosymgen "github.com/njchilds90/gosymgen"
	"github.com/njchilds90/gosymgen/function"
	"github.com/njchilds90/gosymgen/variable"
)

// Body computes a function's output from its bound argument variables,
// passed in the order of FunctionDecl.Args.
type Body func(args ...*variable.Array) (*gosymgen.Array, error)

// VariableDecl declares one model variable.
type VariableDecl struct {
	Name  string
	Spec  variable.Spec // zero: scalar named after the variable
	DType string        // empty: float64
}

// FunctionDecl declares a function by the ordered variable names it consumes.
type FunctionDecl struct {
	Name string
	Args []string
	Body Body
}

// DerivativeDecl registers Name as Of differentiated by each WRT variable
// in turn.
type DerivativeDecl struct {
	Name string
	Of   string
	WRT  []string
}

// SparseDecl registers the nonzero entries of Of as Of_val, optionally
// filtered by Selector.
type SparseDecl struct {
	Of       string
	Selector function.Selector
}

// Definition is the complete declaration of a model.
type Definition struct {
	Name        string
	ClassName   string // empty: Name
	Variables   []VariableDecl
	Functions   []FunctionDecl
	Derivatives []DerivativeDecl
	Sparse      []SparseDecl
	Imports     []string
	Meta        *Meta
}
