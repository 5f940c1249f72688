package declfile

import (
	"fmt"
	"math/big"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	gosymgen "github.com/njchilds90/gosymgen"
	"github.com/njchilds90/gosymgen/model"
	"github.com/njchilds90/gosymgen/variable"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// exprBody returns a Body that translates expr with the bound argument
// variables in scope.
func exprBody(expr hcl.Expression) model.Body {
	return func(args ...*variable.Array) (*gosymgen.Array, error) {
		return translate(expr, newScope(args))
	}
}

// scope resolves the root names of traversals: argument variables first,
// then their elements, then pi.
type scope struct {
	vars  map[string]*variable.Array
	elems map[string]*gosymgen.Sym
}

func newScope(args []*variable.Array) *scope {
	sc := &scope{vars: map[string]*variable.Array{}, elems: map[string]*gosymgen.Sym{}}
	for _, a := range args {
		sc.vars[a.Name()] = a
		for _, s := range a.Symbols() {
			sc.elems[s.Name()] = s
		}
	}
	return sc
}

var binaryOps = map[*hclsyntax.Operation]func(a, b gosymgen.Expr) gosymgen.Expr{
	hclsyntax.OpAdd:      func(a, b gosymgen.Expr) gosymgen.Expr { return gosymgen.AddOf(a, b) },
	hclsyntax.OpSubtract: gosymgen.SubOf,
	hclsyntax.OpMultiply: func(a, b gosymgen.Expr) gosymgen.Expr { return gosymgen.MulOf(a, b) },
	hclsyntax.OpDivide:   gosymgen.DivOf,
}

// translate converts an HCL syntax tree into a shaped symbolic array.
// Tuples nest, arithmetic and function calls apply elementwise, and a
// scalar operand combines with every element of an array operand.
func translate(expr hcl.Expression, sc *scope) (*gosymgen.Array, error) {
	switch e := expr.(type) {
	case *hclsyntax.LiteralValueExpr:
		n, err := number(e.Val)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Range(), err)
		}
		return gosymgen.Scalar(n), nil

	case *hclsyntax.ParenthesesExpr:
		return translate(e.Expression, sc)

	case *hclsyntax.TemplateWrapExpr:
		return translate(e.Wrapped, sc)

	case *hclsyntax.TupleConsExpr:
		items := make([]*gosymgen.Array, len(e.Exprs))
		for i, x := range e.Exprs {
			item, err := translate(x, sc)
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		out, err := gosymgen.Stack(items...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Range(), err)
		}
		return out, nil

	case *hclsyntax.UnaryOpExpr:
		if e.Op != hclsyntax.OpNegate {
			break
		}
		val, err := translate(e.Val, sc)
		if err != nil {
			return nil, err
		}
		return val.Map(gosymgen.NegOf), nil

	case *hclsyntax.BinaryOpExpr:
		op, ok := binaryOps[e.Op]
		if !ok {
			break
		}
		lhs, err := translate(e.LHS, sc)
		if err != nil {
			return nil, err
		}
		rhs, err := translate(e.RHS, sc)
		if err != nil {
			return nil, err
		}
		return elementwise(e.Range(), []*gosymgen.Array{lhs, rhs}, func(xs []gosymgen.Expr) (gosymgen.Expr, error) {
			return op(xs[0], xs[1]), nil
		})

	case *hclsyntax.FunctionCallExpr:
		if e.ExpandFinal {
			break
		}
		args := make([]*gosymgen.Array, len(e.Args))
		for i, x := range e.Args {
			a, err := translate(x, sc)
			if err != nil {
				return nil, err
			}
			args[i] = a
		}
		return elementwise(e.Range(), args, func(xs []gosymgen.Expr) (gosymgen.Expr, error) {
			return gosymgen.Call(e.Name, xs...)
		})

	case *hclsyntax.ScopeTraversalExpr:
		return sc.traverse(e.Traversal)

	case *hclsyntax.IndexExpr:
		coll, err := translate(e.Collection, sc)
		if err != nil {
			return nil, err
		}
		key, diags := e.Key.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("%s: index must be a constant: %w", e.Key.Range(), gosymgen.ErrUnsupported)
		}
		return index(e.Range(), coll, key)
	}
	return nil, fmt.Errorf("%s: unsupported expression %T: %w", expr.Range(), expr, gosymgen.ErrUnsupported)
}

func (sc *scope) traverse(tr hcl.Traversal) (*gosymgen.Array, error) {
	root := tr.RootName()
	var cur *gosymgen.Array
	v, isVar := sc.vars[root]
	switch {
	case isVar:
		cur = v.Expr()
	case sc.elems[root] != nil:
		cur = gosymgen.Scalar(sc.elems[root])
	case root == "pi":
		cur = gosymgen.Scalar(gosymgen.Pi)
	default:
		return nil, fmt.Errorf("%s: %q is neither an argument nor an element of one: %w",
			tr.SourceRange(), root, gosymgen.ErrUnboundSymbol)
	}

	for i, step := range tr[1:] {
		switch s := step.(type) {
		case hcl.TraverseAttr:
			if !isVar || i != 0 {
				return nil, fmt.Errorf("%s: attribute access is only allowed on an argument: %w", s.SrcRange, gosymgen.ErrUnsupported)
			}
			sym, ok := v.Lookup(s.Name)
			if !ok {
				return nil, fmt.Errorf("%s: %s has no element %q: %w", s.SrcRange, root, s.Name, gosymgen.ErrUnboundSymbol)
			}
			cur = gosymgen.Scalar(sym)
		case hcl.TraverseIndex:
			next, err := index(s.SrcRange, cur, s.Key)
			if err != nil {
				return nil, err
			}
			cur = next
		default:
			return nil, fmt.Errorf("%s: unsupported traversal: %w", step.SourceRange(), gosymgen.ErrUnsupported)
		}
	}
	return cur, nil
}

func index(rng hcl.Range, coll *gosymgen.Array, key cty.Value) (*gosymgen.Array, error) {
	var i int
	if err := gocty.FromCtyValue(key, &i); err != nil {
		return nil, fmt.Errorf("%s: index must be an integer: %w", rng, gosymgen.ErrUnsupported)
	}
	out, err := coll.Index(i)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rng, err)
	}
	return out, nil
}

// elementwise applies f across args. Scalars combine with every element;
// all other arguments must share one shape.
func elementwise(rng hcl.Range, args []*gosymgen.Array, f func([]gosymgen.Expr) (gosymgen.Expr, error)) (*gosymgen.Array, error) {
	var shape []int
	for _, a := range args {
		if a.Rank() == 0 {
			continue
		}
		if shape == nil {
			shape = a.Shape()
			continue
		}
		if !equalShape(shape, a.Shape()) {
			return nil, fmt.Errorf("%s: operands of shape %v and %v: %w", rng, shape, a.Shape(), gosymgen.ErrShape)
		}
	}
	if shape == nil {
		shape = []int{}
	}

	flats := make([][]gosymgen.Expr, len(args))
	for i, a := range args {
		flats[i] = a.Flat()
	}
	n := gosymgen.ShapeSize(shape)
	out := make([]gosymgen.Expr, n)
	xs := make([]gosymgen.Expr, len(args))
	for k := 0; k < n; k++ {
		for i, a := range args {
			if a.Rank() == 0 {
				xs[i] = flats[i][0]
			} else {
				xs[i] = flats[i][k]
			}
		}
		e, err := f(xs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rng, err)
		}
		out[k] = e
	}
	return gosymgen.NewArray(shape, out)
}

func equalShape(a, b []int) bool {
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

// number converts a numeric literal to an exact rational. Decimal literals
// keep their written value: 0.1 becomes 1/10.
func number(v cty.Value) (*gosymgen.Num, error) {
	if v.Type() != cty.Number || v.IsNull() {
		return nil, fmt.Errorf("literal of type %s: %w", v.Type().FriendlyName(), gosymgen.ErrUnsupported)
	}
	bf := v.AsBigFloat()
	r, ok := new(big.Rat).SetString(bf.Text('g', -1))
	if !ok {
		return nil, fmt.Errorf("number %s is not finite: %w", bf.Text('g', -1), gosymgen.ErrUnsupported)
	}
	return gosymgen.NRat(r), nil
}
