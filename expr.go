package gosymgen

import (
	"math/big"
	"sort"
)

// ============================================================
// Core Interface
// ============================================================

// Expr is a node of a symbolic expression tree. Nodes are immutable;
// every operation returns a new tree.
type Expr interface {
	Simplify() Expr
	String() string
	Sub(varName string, value Expr) Expr
	Diff(varName string) Expr
	Equal(other Expr) bool
	exprType() string
}

// ============================================================
// Num: exact rational number
// ============================================================

type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }
func F(p, q int64) *Num {
	if q == 0 {
		panic("gosymgen: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// NFloat converts f exactly; 0.5 becomes 1/2.
func NFloat(f float64) *Num { return &Num{val: new(big.Rat).SetFloat64(f)} }

// NRat copies r.
func NRat(r *big.Rat) *Num { return &Num{val: new(big.Rat).Set(r)} }

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Sub(string, Expr) Expr { return n }
func (n *Num) Diff(string) Expr      { return N(0) }
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) exprType() string      { return "num" }
func (n *Num) Float64() float64      { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.Cmp(big.NewRat(1, 1)) == 0 }
func (n *Num) IsNegOne() bool        { return n.val.Cmp(big.NewRat(-1, 1)) == 0 }
func (n *Num) IsInteger() bool       { return n.val.IsInt() }
func (n *Num) IsNegative() bool      { return n.val.Sign() < 0 }
func (n *Num) Rat() *big.Rat         { return new(big.Rat).Set(n.val) }

// Is reports whether n equals p/q exactly.
func (n *Num) Is(p, q int64) bool { return n.val.Cmp(big.NewRat(p, q)) == 0 }

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }
func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("gosymgen: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val)}
}

// ============================================================
// Sym: scalar symbol
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym             { return &Sym{name: name} }
func (s *Sym) Simplify() Expr        { return s }
func (s *Sym) String() string        { return s.name }
func (s *Sym) Name() string          { return s.name }
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) exprType() string      { return "sym" }
func (s *Sym) Sub(varName string, value Expr) Expr {
	if s.name == varName {
		return value
	}
	return s
}
func (s *Sym) Diff(varName string) Expr {
	if s.name == varName {
		return N(1)
	}
	return N(0)
}

// ============================================================
// Const: named mathematical constant
// ============================================================

type Const struct{ name string }

// Pi is the circle constant.
var Pi = &Const{name: "pi"}

func (c *Const) Simplify() Expr        { return c }
func (c *Const) String() string        { return c.name }
func (c *Const) Name() string          { return c.name }
func (c *Const) Sub(string, Expr) Expr { return c }
func (c *Const) Diff(string) Expr      { return N(0) }
func (c *Const) Equal(other Expr) bool { o, ok := other.(*Const); return ok && c.name == o.name }
func (c *Const) exprType() string      { return "const" }

// ============================================================
// Derivative: unevaluated partial derivative
// ============================================================

// Derivative stands for d(expr)/d(varName) when no closed-form rule is
// known. Printers refuse it.
type Derivative struct {
	expr    Expr
	varName string
}

func (d *Derivative) Simplify() Expr { return &Derivative{expr: d.expr.Simplify(), varName: d.varName} }
func (d *Derivative) String() string { return "D(" + d.expr.String() + ", " + d.varName + ")" }
func (d *Derivative) Sub(varName string, value Expr) Expr {
	if varName == d.varName {
		return d
	}
	return &Derivative{expr: d.expr.Sub(varName, value), varName: d.varName}
}
func (d *Derivative) Diff(varName string) Expr { return &Derivative{expr: d, varName: varName} }
func (d *Derivative) Equal(other Expr) bool {
	o, ok := other.(*Derivative)
	return ok && d.varName == o.varName && d.expr.Equal(o.expr)
}
func (d *Derivative) exprType() string { return "derivative" }
func (d *Derivative) Expr() Expr       { return d.expr }
func (d *Derivative) Var() string      { return d.varName }

// ============================================================
// Top-level helpers
// ============================================================

func Simplify(e Expr) Expr { return e.Simplify() }
func String(e Expr) string { return e.String() }

// Diff returns the simplified partial derivative of expr by varName.
// Differentiating by a symbol that does not occur yields 0.
func Diff(expr Expr, varName string) Expr {
	return expr.Diff(varName).Simplify()
}

// Sub replaces one symbol.
func Sub(expr Expr, varName string, value Expr) Expr {
	return expr.Sub(varName, value).Simplify()
}

// Subs replaces several symbols simultaneously.
func Subs(expr Expr, repl map[string]Expr) Expr {
	return subsExpr(expr, repl).Simplify()
}

func subsExpr(e Expr, repl map[string]Expr) Expr {
	switch v := e.(type) {
	case *Sym:
		if r, ok := repl[v.name]; ok {
			return r
		}
		return v
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = subsExpr(t, repl)
		}
		return &Add{terms: terms}
	case *Mul:
		factors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			factors[i] = subsExpr(f, repl)
		}
		return &Mul{factors: factors}
	case *Pow:
		return &Pow{base: subsExpr(v.base, repl), exp: subsExpr(v.exp, repl)}
	case *Func:
		args := make([]Expr, len(v.args))
		for i, a := range v.args {
			args[i] = subsExpr(a, repl)
		}
		return &Func{name: v.name, args: args}
	case *Derivative:
		inner := make(map[string]Expr, len(repl))
		for k, r := range repl {
			if k != v.varName {
				inner[k] = r
			}
		}
		return &Derivative{expr: subsExpr(v.expr, inner), varName: v.varName}
	}
	return e
}

// IsZero reports whether e simplifies to the number 0.
func IsZero(e Expr) bool {
	n, ok := e.Simplify().(*Num)
	return ok && n.IsZero()
}

// FreeSymbols returns the sorted names of the symbols occurring in e.
func FreeSymbols(e Expr) []string {
	set := map[string]struct{}{}
	collectSymbols(e, set)
	return sortedNames(set)
}

func sortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		for _, a := range v.args {
			collectSymbols(a, out)
		}
	case *Derivative:
		collectSymbols(v.expr, out)
	}
}
