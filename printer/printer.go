// Package printer turns kernel expressions into Python source text.
//
// Str is the base textual form. Numpy and Scipy layer library-qualified
// rewrite rules on top of it without modifying the layer below.
package printer

import (
	"fmt"
	"math/big"
	"strings"

	gosymgen "github.com/njchilds90/gosymgen"
)

// Printer renders expressions for one numeric library.
type Printer interface {
	Print(e gosymgen.Expr) (string, error)
	// Imports lists the import statements the printed code relies on.
	Imports() []string
	// NumpyAlias is the name the array library is imported under.
	NumpyAlias() string
}

// FuncRule renders a call to a named function from its printed arguments.
type FuncRule func(args []string) (string, error)

// PowRule renders base**exp for a numeric exponent. ok is false when the rule
// does not apply and the base form should be used.
type PowRule func(print func(gosymgen.Expr) (string, error), base gosymgen.Expr, exp *gosymgen.Num) (out string, ok bool, err error)

// Operator precedence of the printed Python text.
const (
	precAdd  = 40
	precMul  = 50
	precPow  = 60
	precAtom = 1000
)

// Str is the base Python textual form: operators, rationals, and plain
// name(args) calls.
type Str struct {
	funcs    map[string]FuncRule
	fallback func(name string) FuncRule
	consts   map[string]string
	pow      []PowRule
	imports  []string
	numpy    string
}

// NewStr returns the base printer.
func NewStr() *Str {
	return &Str{
		funcs:    map[string]FuncRule{},
		fallback: plainCall,
		consts:   map[string]string{"pi": "pi"},
		numpy:    "numpy",
	}
}

func plainCall(name string) FuncRule {
	return func(args []string) (string, error) {
		return name + "(" + strings.Join(args, ", ") + ")", nil
	}
}

// extend returns a copy of s with extra function rules, constant spellings,
// power rules and imports. s itself is left unchanged.
func (s *Str) extend(funcs map[string]FuncRule, consts map[string]string, pow PowRule, imports ...string) *Str {
	out := &Str{
		funcs:    make(map[string]FuncRule, len(s.funcs)+len(funcs)),
		fallback: s.fallback,
		consts:   make(map[string]string, len(s.consts)+len(consts)),
		pow:      append([]PowRule(nil), s.pow...),
		imports:  append(append([]string(nil), s.imports...), imports...),
		numpy:    s.numpy,
	}
	for k, v := range s.funcs {
		out.funcs[k] = v
	}
	for k, v := range funcs {
		out.funcs[k] = v
	}
	for k, v := range s.consts {
		out.consts[k] = v
	}
	for k, v := range consts {
		out.consts[k] = v
	}
	if pow != nil {
		out.pow = append([]PowRule{pow}, out.pow...)
	}
	return out
}

func (s *Str) Imports() []string  { return append([]string(nil), s.imports...) }
func (s *Str) NumpyAlias() string { return s.numpy }

// Print renders e as a Python expression.
func (s *Str) Print(e gosymgen.Expr) (string, error) {
	out, _, err := s.print(e)
	return out, err
}

func (s *Str) print(e gosymgen.Expr) (string, int, error) {
	switch v := e.(type) {
	case *gosymgen.Num:
		return printNum(v)
	case *gosymgen.Sym:
		return v.Name(), precAtom, nil
	case *gosymgen.Const:
		name, ok := s.consts[v.Name()]
		if !ok {
			return "", 0, fmt.Errorf("constant %s: %w", v.Name(), gosymgen.ErrUnsupported)
		}
		return name, precAtom, nil
	case *gosymgen.Add:
		return s.printAdd(v)
	case *gosymgen.Mul:
		return s.printMul(v)
	case *gosymgen.Pow:
		return s.printPow(v)
	case *gosymgen.Func:
		return s.printFunc(v)
	case *gosymgen.Derivative:
		return "", 0, fmt.Errorf("unevaluated derivative %s: %w", v.String(), gosymgen.ErrUnsupported)
	}
	return "", 0, fmt.Errorf("expression %s: %w", e.String(), gosymgen.ErrUnsupported)
}

// parens prints e and wraps it when its precedence is below level.
func (s *Str) parens(e gosymgen.Expr, level int) (string, error) {
	out, prec, err := s.print(e)
	if err != nil {
		return "", err
	}
	if prec < level {
		return "(" + out + ")", nil
	}
	return out, nil
}

func printNum(n *gosymgen.Num) (string, int, error) {
	r := n.Rat()
	var out string
	prec := precAtom
	if r.IsInt() {
		out = r.Num().String()
	} else {
		out = r.Num().String() + "/" + r.Denom().String()
		prec = precMul
	}
	if r.Sign() < 0 {
		prec = precAdd
	}
	return out, prec, nil
}

// negative reports whether a sum term carries a leading minus sign.
func negative(e gosymgen.Expr) bool {
	switch v := e.(type) {
	case *gosymgen.Num:
		return v.IsNegative()
	case *gosymgen.Mul:
		fs := v.Factors()
		if c, ok := fs[0].(*gosymgen.Num); ok {
			return c.IsNegative()
		}
	}
	return false
}

func (s *Str) printAdd(a *gosymgen.Add) (string, int, error) {
	var sb strings.Builder
	for i, t := range a.Terms() {
		if i > 0 && negative(t) {
			out, err := s.parens(gosymgen.NegOf(t), precAdd+1)
			if err != nil {
				return "", 0, err
			}
			sb.WriteString(" - " + out)
			continue
		}
		out, err := s.parens(t, precAdd)
		if err != nil {
			return "", 0, err
		}
		if i > 0 {
			sb.WriteString(" + ")
		}
		sb.WriteString(out)
	}
	return sb.String(), precAdd, nil
}

func (s *Str) printMul(m *gosymgen.Mul) (string, int, error) {
	coeff := gosymgen.N(1)
	var num, den []gosymgen.Expr
	for _, f := range m.Factors() {
		if c, ok := f.(*gosymgen.Num); ok {
			coeff = gosymgen.MulOf(coeff, c).(*gosymgen.Num)
			continue
		}
		if p, ok := f.(*gosymgen.Pow); ok {
			if e, ok := p.ExpExpr().(*gosymgen.Num); ok && e.IsNegative() {
				den = append(den, gosymgen.PowOf(p.Base(), gosymgen.NegOf(e)))
				continue
			}
		}
		num = append(num, f)
	}

	sign := ""
	if coeff.IsNegative() {
		sign = "-"
		coeff = gosymgen.NegOf(coeff).(*gosymgen.Num)
	}
	r := coeff.Rat()
	if p := gosymgen.NRat(new(big.Rat).SetInt(r.Num())); !p.IsOne() {
		num = append([]gosymgen.Expr{p}, num...)
	}
	if !r.IsInt() {
		den = append([]gosymgen.Expr{gosymgen.NRat(new(big.Rat).SetInt(r.Denom()))}, den...)
	}

	numStr, err := s.joinFactors(num, precMul)
	if err != nil {
		return "", 0, err
	}
	if numStr == "" {
		numStr = "1"
	}
	out := numStr
	if len(den) == 1 {
		d, err := s.parens(den[0], precMul+1)
		if err != nil {
			return "", 0, err
		}
		out += "/" + d
	} else if len(den) > 1 {
		d, err := s.joinFactors(den, precMul)
		if err != nil {
			return "", 0, err
		}
		out += "/(" + d + ")"
	}
	if sign != "" {
		return sign + out, precAdd, nil
	}
	return out, precMul, nil
}

func (s *Str) joinFactors(fs []gosymgen.Expr, level int) (string, error) {
	parts := make([]string, len(fs))
	for i, f := range fs {
		out, err := s.parens(f, level)
		if err != nil {
			return "", err
		}
		parts[i] = out
	}
	return strings.Join(parts, "*"), nil
}

func (s *Str) printPow(p *gosymgen.Pow) (string, int, error) {
	if e, ok := p.ExpExpr().(*gosymgen.Num); ok {
		for _, rule := range s.pow {
			out, ok, err := rule(s.Print, p.Base(), e)
			if err != nil {
				return "", 0, err
			}
			if ok {
				return out, precAtom, nil
			}
		}
		if e.IsNegOne() {
			b, err := s.parens(p.Base(), precMul+1)
			if err != nil {
				return "", 0, err
			}
			return "1/" + b, precMul, nil
		}
		if e.Is(1, 2) {
			b, err := s.Print(p.Base())
			if err != nil {
				return "", 0, err
			}
			return "sqrt(" + b + ")", precAtom, nil
		}
	}
	b, err := s.parens(p.Base(), precPow+1)
	if err != nil {
		return "", 0, err
	}
	x, err := s.parens(p.ExpExpr(), precPow+1)
	if err != nil {
		return "", 0, err
	}
	return b + "**" + x, precPow, nil
}

func (s *Str) printFunc(f *gosymgen.Func) (string, int, error) {
	args := make([]string, 0, len(f.Args()))
	for _, a := range f.Args() {
		out, err := s.Print(a)
		if err != nil {
			return "", 0, err
		}
		args = append(args, out)
	}
	rule, ok := s.funcs[f.FuncName()]
	if !ok {
		rule = s.fallback(f.FuncName())
	}
	out, err := rule(args)
	if err != nil {
		return "", 0, err
	}
	return out, precAtom, nil
}
