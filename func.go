package gosymgen

import (
	"fmt"
	"math/big"
	"strings"
)

// ============================================================
// Func: named function applications
// ============================================================

type Func struct {
	name string
	args []Expr
}

// arity of every function the kernel knows.
var funcArity = map[string]int{
	"sin": 1, "cos": 1, "tan": 1,
	"exp": 1, "log": 1, "abs": 1,
	"asin": 1, "acos": 1, "atan": 1, "atan2": 2,
	"sinh": 1, "cosh": 1, "tanh": 1,
	"asinh": 1, "acosh": 1, "atanh": 1,
	"floor": 1, "ceil": 1, "sign": 1,
	"erf": 1, "loggamma": 1, "digamma": 1,
}

func funcOf(name string, args ...Expr) *Func { return &Func{name: name, args: args} }

func SinOf(arg Expr) Expr      { return funcOf("sin", arg).Simplify() }
func CosOf(arg Expr) Expr      { return funcOf("cos", arg).Simplify() }
func TanOf(arg Expr) Expr      { return funcOf("tan", arg).Simplify() }
func ExpOf(arg Expr) Expr      { return funcOf("exp", arg).Simplify() }
func LogOf(arg Expr) Expr      { return funcOf("log", arg).Simplify() }
func AbsOf(arg Expr) Expr      { return funcOf("abs", arg).Simplify() }
func AsinOf(arg Expr) Expr     { return funcOf("asin", arg).Simplify() }
func AcosOf(arg Expr) Expr     { return funcOf("acos", arg).Simplify() }
func AtanOf(arg Expr) Expr     { return funcOf("atan", arg).Simplify() }
func Atan2Of(y, x Expr) Expr   { return funcOf("atan2", y, x).Simplify() }
func SinhOf(arg Expr) Expr     { return funcOf("sinh", arg).Simplify() }
func CoshOf(arg Expr) Expr     { return funcOf("cosh", arg).Simplify() }
func TanhOf(arg Expr) Expr     { return funcOf("tanh", arg).Simplify() }
func AsinhOf(arg Expr) Expr    { return funcOf("asinh", arg).Simplify() }
func AcoshOf(arg Expr) Expr    { return funcOf("acosh", arg).Simplify() }
func AtanhOf(arg Expr) Expr    { return funcOf("atanh", arg).Simplify() }
func FloorOf(arg Expr) Expr    { return funcOf("floor", arg).Simplify() }
func CeilOf(arg Expr) Expr     { return funcOf("ceil", arg).Simplify() }
func SignOf(arg Expr) Expr     { return funcOf("sign", arg).Simplify() }
func ErfOf(arg Expr) Expr      { return funcOf("erf", arg).Simplify() }
func LogGammaOf(arg Expr) Expr { return funcOf("loggamma", arg).Simplify() }
func DigammaOf(arg Expr) Expr  { return funcOf("digamma", arg).Simplify() }

// Call applies a function by name. Besides the functions listed in
// funcArity it accepts "sqrt" (one argument) and "pow" (two arguments),
// which build powers.
func Call(name string, args ...Expr) (Expr, error) {
	switch name {
	case "sqrt":
		if len(args) != 1 {
			return nil, fmt.Errorf("sqrt takes 1 argument, got %d: %w", len(args), ErrUnsupported)
		}
		return SqrtOf(args[0]), nil
	case "pow":
		if len(args) != 2 {
			return nil, fmt.Errorf("pow takes 2 arguments, got %d: %w", len(args), ErrUnsupported)
		}
		return PowOf(args[0], args[1]), nil
	}
	arity, ok := funcArity[name]
	if !ok {
		return nil, fmt.Errorf("function %q: %w", name, ErrUnsupported)
	}
	if len(args) != arity {
		return nil, fmt.Errorf("%s takes %d argument(s), got %d: %w", name, arity, len(args), ErrUnsupported)
	}
	return funcOf(name, args...).Simplify(), nil
}

// KnownFunction reports whether Call accepts name.
func KnownFunction(name string) bool {
	_, ok := funcArity[name]
	return ok || name == "sqrt" || name == "pow"
}

// Simplify folds exact identities only; sin(1) stays symbolic.
func (f *Func) Simplify() Expr {
	args := make([]Expr, len(f.args))
	for i, a := range f.args {
		args[i] = a.Simplify()
	}
	arg := args[0]
	switch f.name {
	case "sin", "tan", "sinh", "tanh", "asin", "atan", "asinh", "atanh", "erf":
		if isNumEqual(arg, 0) {
			return N(0)
		}
	case "cos", "cosh":
		if isNumEqual(arg, 0) {
			return N(1)
		}
	case "exp":
		if isNumEqual(arg, 0) {
			return N(1)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "log" {
			return inner.args[0]
		}
	case "log":
		if isNumEqual(arg, 1) {
			return N(0)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "exp" {
			return inner.args[0]
		}
	case "abs":
		if n, ok := arg.(*Num); ok {
			return &Num{val: new(big.Rat).Abs(n.val)}
		}
	case "sign":
		if n, ok := arg.(*Num); ok {
			return N(int64(n.val.Sign()))
		}
	case "floor", "ceil":
		if n, ok := arg.(*Num); ok {
			return roundRat(n, f.name == "ceil")
		}
	}
	return &Func{name: f.name, args: args}
}

func roundRat(n *Num, up bool) *Num {
	if n.val.IsInt() {
		return n
	}
	q := new(big.Int).Div(n.val.Num(), n.val.Denom()) // Euclidean: floor for positive denominators
	if up {
		q.Add(q, big.NewInt(1))
	}
	return &Num{val: new(big.Rat).SetInt(q)}
}

func (f *Func) String() string {
	parts := make([]string, len(f.args))
	for i, a := range f.args {
		parts[i] = a.String()
	}
	return f.name + "(" + strings.Join(parts, ", ") + ")"
}

func (f *Func) Sub(varName string, value Expr) Expr {
	args := make([]Expr, len(f.args))
	for i, a := range f.args {
		args[i] = a.Sub(varName, value)
	}
	return funcOf(f.name, args...).Simplify()
}

// Diff applies the chain rule with the outer derivative of each known
// function.
func (f *Func) Diff(varName string) Expr {
	if f.name == "atan2" {
		y, x := f.args[0], f.args[1]
		num := SubOf(MulOf(x, y.Diff(varName)), MulOf(y, x.Diff(varName)))
		den := AddOf(PowOf(x, N(2)), PowOf(y, N(2)))
		return DivOf(num, den)
	}

	a := f.args[0]
	du := a.Diff(varName)
	if IsZero(du) {
		return N(0)
	}
	one := N(1)
	sq := PowOf(a, N(2))
	var outer Expr
	switch f.name {
	case "sin":
		outer = CosOf(a)
	case "cos":
		outer = NegOf(SinOf(a))
	case "tan":
		outer = AddOf(one, PowOf(TanOf(a), N(2)))
	case "exp":
		outer = ExpOf(a)
	case "log":
		outer = PowOf(a, N(-1))
	case "abs":
		outer = SignOf(a)
	case "asin":
		outer = PowOf(SubOf(one, sq), F(-1, 2))
	case "acos":
		outer = NegOf(PowOf(SubOf(one, sq), F(-1, 2)))
	case "atan":
		outer = PowOf(AddOf(one, sq), N(-1))
	case "sinh":
		outer = CoshOf(a)
	case "cosh":
		outer = SinhOf(a)
	case "tanh":
		outer = SubOf(one, PowOf(TanhOf(a), N(2)))
	case "asinh":
		outer = PowOf(AddOf(sq, one), F(-1, 2))
	case "acosh":
		outer = PowOf(SubOf(sq, one), F(-1, 2))
	case "atanh":
		outer = PowOf(SubOf(one, sq), N(-1))
	case "floor", "ceil", "sign":
		return N(0)
	case "erf":
		outer = MulOf(N(2), PowOf(Pi, F(-1, 2)), ExpOf(NegOf(sq)))
	case "loggamma":
		outer = DigammaOf(a)
	default:
		return MulOf(&Derivative{expr: f, varName: varName})
	}
	return MulOf(outer, du)
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && equalSlices(f.args, o.args)
}

func (f *Func) exprType() string { return "func" }
func (f *Func) FuncName() string { return f.name }
func (f *Func) Args() []Expr     { return append([]Expr(nil), f.args...) }

func isNumEqual(e Expr, v int64) bool {
	n, ok := e.(*Num)
	return ok && n.Is(v, 1)
}
