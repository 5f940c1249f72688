package model

import (
	"log/slog"

	gosymgen "github.com/njchilds90/gosymgen"
	"github.com/njchilds90/gosymgen/function"
	"github.com/njchilds90/gosymgen/variable"
)

// Builder accumulates a Definition and builds it once.
//
//	m, err := model.NewBuilder("Example").
//		Variable("x", variable.Names("u", "v")).
//		Variable("t", variable.Spec{}).
//		Function("f", []string{"t", "x"}, f).
//		Derivative("df_dx", "f", "x").
//		Sparse("df_dx").
//		Build()
type Builder struct {
	def    Definition
	logger *slog.Logger
}

func NewBuilder(name string) *Builder {
	return &Builder{def: Definition{Name: name}}
}

// ClassName overrides the generated class name.
func (b *Builder) ClassName(name string) *Builder {
	b.def.ClassName = name
	return b
}

func (b *Builder) Variable(name string, spec variable.Spec) *Builder {
	b.def.Variables = append(b.def.Variables, VariableDecl{Name: name, Spec: spec})
	return b
}

// TypedVariable declares a variable whose generated validation coerces to
// dtype.
func (b *Builder) TypedVariable(name string, spec variable.Spec, dtype string) *Builder {
	b.def.Variables = append(b.def.Variables, VariableDecl{Name: name, Spec: spec, DType: dtype})
	return b
}

func (b *Builder) Function(name string, args []string, body Body) *Builder {
	b.def.Functions = append(b.def.Functions, FunctionDecl{Name: name, Args: args, Body: body})
	return b
}

// ScalarFunction declares a function with a rank-0 output.
func (b *Builder) ScalarFunction(name string, args []string, body func(args ...*variable.Array) (gosymgen.Expr, error)) *Builder {
	var wrapped Body
	if body != nil {
		wrapped = func(args ...*variable.Array) (*gosymgen.Array, error) {
			e, err := body(args...)
			if err != nil {
				return nil, err
			}
			return gosymgen.Scalar(e), nil
		}
	}
	return b.Function(name, args, wrapped)
}

// Derivative declares name as of differentiated by each wrt variable in
// the order given.
func (b *Builder) Derivative(name, of string, wrt ...string) *Builder {
	b.def.Derivatives = append(b.def.Derivatives, DerivativeDecl{Name: name, Of: of, WRT: wrt})
	return b
}

func (b *Builder) Sparse(of string) *Builder { return b.SparseWhere(of, nil) }

func (b *Builder) SparseWhere(of string, sel function.Selector) *Builder {
	b.def.Sparse = append(b.def.Sparse, SparseDecl{Of: of, Selector: sel})
	return b
}

// Import adds import statements to the emitted module.
func (b *Builder) Import(lines ...string) *Builder {
	b.def.Imports = append(b.def.Imports, lines...)
	return b
}

func (b *Builder) WithMeta(meta *Meta) *Builder {
	b.def.Meta = meta
	return b
}

func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

// Definition returns a copy of the accumulated declaration.
func (b *Builder) Definition() *Definition {
	def := b.def
	def.Variables = append([]VariableDecl(nil), b.def.Variables...)
	def.Functions = append([]FunctionDecl(nil), b.def.Functions...)
	def.Derivatives = append([]DerivativeDecl(nil), b.def.Derivatives...)
	def.Sparse = append([]SparseDecl(nil), b.def.Sparse...)
	def.Imports = append([]string(nil), b.def.Imports...)
	return &def
}

// Build runs New on the accumulated declaration.
func (b *Builder) Build() (*Model, error) {
	var opts []Option
	if b.logger != nil {
		opts = append(opts, WithLogger(b.logger))
	}
	return New(b.Definition(), opts...)
}
