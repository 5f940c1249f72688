package gosymgen_test

import (
	"errors"
	"math"
	"math/big"
	"testing"

	gosymgen "github.com/njchilds90/gosymgen"
)

// ============================================================
// Num / Sym tests
// ============================================================

func TestNum_Integer(t *testing.T) {
	n := gosymgen.N(42)
	if n.String() != "42" {
		t.Errorf("want 42, got %s", n.String())
	}
}

func TestNum_Rational(t *testing.T) {
	n := gosymgen.F(1, 3)
	if n.String() != "1/3" {
		t.Errorf("want 1/3, got %s", n.String())
	}
}

func TestNum_FloatIsExact(t *testing.T) {
	if !gosymgen.NFloat(0.5).Is(1, 2) {
		t.Error("NFloat(0.5) should equal 1/2")
	}
	if !gosymgen.NFloat(-0.5).Is(-1, 2) {
		t.Error("NFloat(-0.5) should equal -1/2")
	}
}

func TestNum_Diff_IsZero(t *testing.T) {
	result := gosymgen.Diff(gosymgen.N(5), "x")
	if gosymgen.String(result) != "0" {
		t.Errorf("d/dx(5) should be 0, got %s", gosymgen.String(result))
	}
}

func TestSym_Diff(t *testing.T) {
	if got := gosymgen.Diff(gosymgen.S("x"), "x").String(); got != "1" {
		t.Errorf("d/dx(x) should be 1, got %s", got)
	}
	if got := gosymgen.Diff(gosymgen.S("y"), "x").String(); got != "0" {
		t.Errorf("d/dx(y) should be 0, got %s", got)
	}
}

// ============================================================
// Add / Mul / Pow tests
// ============================================================

func TestAdd_Simple(t *testing.T) {
	expr := gosymgen.AddOf(gosymgen.S("x"), gosymgen.N(3))
	if expr.String() != "x + 3" {
		t.Errorf("want 'x + 3', got %s", expr.String())
	}
}

func TestAdd_CollapseToZero(t *testing.T) {
	expr := gosymgen.AddOf(gosymgen.N(1), gosymgen.N(-1))
	if expr.String() != "0" {
		t.Errorf("want 0, got %s", expr.String())
	}
}

func TestAdd_LikeTerms(t *testing.T) {
	x := gosymgen.S("x")
	expr := gosymgen.AddOf(x, x)
	if expr.String() != "2*x" {
		t.Errorf("want '2*x', got %s", expr.String())
	}
	if got := gosymgen.SubOf(expr, gosymgen.MulOf(gosymgen.N(2), x)); !gosymgen.IsZero(got) {
		t.Errorf("2*x - 2*x should be 0, got %s", got.String())
	}
}

func TestAdd_Diff(t *testing.T) {
	// d/dx(x^2 + 3x + 1) = 2x + 3
	x := gosymgen.S("x")
	expr := gosymgen.AddOf(gosymgen.PowOf(x, gosymgen.N(2)), gosymgen.MulOf(gosymgen.N(3), x), gosymgen.N(1))
	d := gosymgen.Diff(expr, "x")
	if d.String() != "2*x + 3" {
		t.Errorf("want '2*x + 3', got %s", d.String())
	}
}

func TestMul_MergesPowers(t *testing.T) {
	x := gosymgen.S("x")
	if got := gosymgen.MulOf(x, x).String(); got != "x^2" {
		t.Errorf("want x^2, got %s", got)
	}
	if got := gosymgen.DivOf(x, x).String(); got != "1" {
		t.Errorf("want 1, got %s", got)
	}
}

func TestMul_ZeroCoefficient(t *testing.T) {
	expr := gosymgen.MulOf(gosymgen.N(0), gosymgen.SinOf(gosymgen.S("x")))
	if !gosymgen.IsZero(expr) {
		t.Errorf("0*sin(x) should be 0, got %s", expr.String())
	}
}

func TestPow_ExponentOneSimplifies(t *testing.T) {
	x := gosymgen.S("x")
	raw := gosymgen.NewPow(x, gosymgen.N(1))
	if raw.String() != "x^1" {
		t.Errorf("NewPow should not simplify, got %s", raw.String())
	}
	if got := raw.Simplify().String(); got != "x" {
		t.Errorf("want x, got %s", got)
	}
}

func TestPow_NumericFolding(t *testing.T) {
	if got := gosymgen.PowOf(gosymgen.N(2), gosymgen.N(-2)).String(); got != "1/4" {
		t.Errorf("want 1/4, got %s", got)
	}
}

func TestPow_HugeExponentStaysSymbolic(t *testing.T) {
	huge, _ := new(big.Int).SetString("18446744073709551618", 10)
	exp := gosymgen.NRat(new(big.Rat).SetInt(huge))
	got := gosymgen.PowOf(gosymgen.N(2), exp)
	if _, ok := got.(*gosymgen.Pow); !ok {
		t.Fatalf("want unevaluated power, got %s", got)
	}
	if got.Equal(gosymgen.N(4)) {
		t.Errorf("exponent was truncated: %s", got)
	}
}

// ============================================================
// Func tests
// ============================================================

func TestFunc_Diff(t *testing.T) {
	x := gosymgen.S("x")
	if got := gosymgen.Diff(gosymgen.SinOf(x), "x").String(); got != "cos(x)" {
		t.Errorf("d/dx(sin(x)) should be cos(x), got %s", got)
	}
	if got := gosymgen.Diff(gosymgen.CosOf(x), "x").String(); got != "-1*sin(x)" {
		t.Errorf("d/dx(cos(x)) should be -1*sin(x), got %s", got)
	}
	if got := gosymgen.Diff(gosymgen.ExpOf(x), "x").String(); got != "exp(x)" {
		t.Errorf("d/dx(exp(x)) should be exp(x), got %s", got)
	}
}

func TestFunc_ExactFolding(t *testing.T) {
	if got := gosymgen.FloorOf(gosymgen.F(-7, 2)).String(); got != "-4" {
		t.Errorf("floor(-7/2) want -4, got %s", got)
	}
	if got := gosymgen.CeilOf(gosymgen.F(-7, 2)).String(); got != "-3" {
		t.Errorf("ceil(-7/2) want -3, got %s", got)
	}
	if got := gosymgen.SinOf(gosymgen.N(1)).String(); got != "sin(1)" {
		t.Errorf("sin(1) should stay symbolic, got %s", got)
	}
	if got := gosymgen.LogOf(gosymgen.ExpOf(gosymgen.S("x"))).String(); got != "x" {
		t.Errorf("log(exp(x)) want x, got %s", got)
	}
}

func TestCall_Unknown(t *testing.T) {
	_, err := gosymgen.Call("frobnicate", gosymgen.S("x"))
	if !errors.Is(err, gosymgen.ErrUnsupported) {
		t.Errorf("want ErrUnsupported, got %v", err)
	}
	_, err = gosymgen.Call("atan2", gosymgen.S("x"))
	if !errors.Is(err, gosymgen.ErrUnsupported) {
		t.Errorf("want ErrUnsupported for wrong arity, got %v", err)
	}
}

func TestCall_PowAndSqrt(t *testing.T) {
	x := gosymgen.S("x")
	e, err := gosymgen.Call("sqrt", x)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.Equal(gosymgen.PowOf(x, gosymgen.F(1, 2))) {
		t.Errorf("sqrt(x) want x^1/2, got %s", e.String())
	}
	e, err = gosymgen.Call("pow", x, gosymgen.N(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.String() != "x^3" {
		t.Errorf("want x^3, got %s", e.String())
	}
}

// Derivative rules are checked against central finite differences.
func TestFunc_DiffMatchesFiniteDifference(t *testing.T) {
	x := gosymgen.S("x")
	y := gosymgen.S("y")
	cases := []struct {
		name string
		expr gosymgen.Expr
		at   float64
	}{
		{"tan", gosymgen.TanOf(x), 0.3},
		{"log", gosymgen.LogOf(gosymgen.MulOf(gosymgen.N(2), x)), 0.7},
		{"asin", gosymgen.AsinOf(x), 0.2},
		{"acos", gosymgen.AcosOf(x), 0.2},
		{"atan", gosymgen.AtanOf(x), 1.5},
		{"sinh", gosymgen.SinhOf(x), 0.4},
		{"cosh", gosymgen.CoshOf(x), 0.4},
		{"tanh", gosymgen.TanhOf(x), 0.4},
		{"asinh", gosymgen.AsinhOf(x), 0.4},
		{"acosh", gosymgen.AcoshOf(x), 1.4},
		{"atanh", gosymgen.AtanhOf(x), 0.4},
		{"erf", gosymgen.ErfOf(x), 0.4},
		{"atan2", gosymgen.Atan2Of(y, x), 0.8},
		{"pow_symbolic_exp", gosymgen.PowOf(x, x), 1.3},
		{"sqrt", gosymgen.SqrtOf(gosymgen.AddOf(x, gosymgen.N(1))), 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := gosymgen.Diff(tc.expr, "x")
			env := map[string]float64{"x": tc.at, "y": 0.6}
			got, err := gosymgen.Evalf(d, env)
			if err != nil {
				t.Fatalf("evaluating %s: %v", d.String(), err)
			}
			const h = 1e-6
			hi, _ := gosymgen.Evalf(tc.expr, map[string]float64{"x": tc.at + h, "y": 0.6})
			lo, _ := gosymgen.Evalf(tc.expr, map[string]float64{"x": tc.at - h, "y": 0.6})
			want := (hi - lo) / (2 * h)
			if math.Abs(got-want) > 1e-5 {
				t.Errorf("d/dx %s at %v: want %v, got %v (%s)", tc.expr.String(), tc.at, want, got, d.String())
			}
		})
	}
}

func TestFunc_LogGammaDerivative(t *testing.T) {
	d := gosymgen.Diff(gosymgen.LogGammaOf(gosymgen.S("x")), "x")
	if d.String() != "digamma(x)" {
		t.Errorf("want digamma(x), got %s", d.String())
	}
	dd := gosymgen.Diff(d, "x")
	if _, ok := dd.(*gosymgen.Derivative); !ok {
		t.Errorf("d/dx digamma(x) should be an unevaluated Derivative, got %T", dd)
	}
}

// ============================================================
// Substitution / symbols / evaluation
// ============================================================

func TestSubs_Simultaneous(t *testing.T) {
	x, y := gosymgen.S("x"), gosymgen.S("y")
	expr := gosymgen.SubOf(x, gosymgen.MulOf(gosymgen.N(2), y))
	swapped := gosymgen.Subs(expr, map[string]gosymgen.Expr{"x": y, "y": x})
	want := gosymgen.SubOf(y, gosymgen.MulOf(gosymgen.N(2), x))
	if !swapped.Equal(want) {
		t.Errorf("want %s, got %s", want.String(), swapped.String())
	}
}

func TestFreeSymbols_Sorted(t *testing.T) {
	expr := gosymgen.AddOf(gosymgen.S("v"), gosymgen.SinOf(gosymgen.S("b")), gosymgen.MulOf(gosymgen.S("a"), gosymgen.Pi))
	got := gosymgen.FreeSymbols(expr)
	want := []string{"a", "b", "v"}
	if len(got) != len(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("want %v, got %v", want, got)
		}
	}
}

func TestEvalf_Unbound(t *testing.T) {
	_, err := gosymgen.Evalf(gosymgen.S("q"), nil)
	if !errors.Is(err, gosymgen.ErrUnboundSymbol) {
		t.Errorf("want ErrUnboundSymbol, got %v", err)
	}
}

func TestEvalf_Pi(t *testing.T) {
	v, err := gosymgen.Evalf(gosymgen.MulOf(gosymgen.N(2), gosymgen.Pi), nil)
	if err != nil || math.Abs(v-2*math.Pi) > 1e-15 {
		t.Errorf("want 2*pi, got %v (%v)", v, err)
	}
}
