package gosymgen

import (
	"fmt"
	"math"
)

// Evalf evaluates e numerically with symbol values taken from env.
func Evalf(e Expr, env map[string]float64) (float64, error) {
	switch v := e.(type) {
	case *Num:
		return v.Float64(), nil
	case *Sym:
		x, ok := env[v.name]
		if !ok {
			return 0, fmt.Errorf("symbol %q has no value: %w", v.name, ErrUnboundSymbol)
		}
		return x, nil
	case *Const:
		if v.name == "pi" {
			return math.Pi, nil
		}
	case *Add:
		acc := 0.0
		for _, t := range v.terms {
			x, err := Evalf(t, env)
			if err != nil {
				return 0, err
			}
			acc += x
		}
		return acc, nil
	case *Mul:
		acc := 1.0
		for _, f := range v.factors {
			x, err := Evalf(f, env)
			if err != nil {
				return 0, err
			}
			acc *= x
		}
		return acc, nil
	case *Pow:
		b, err := Evalf(v.base, env)
		if err != nil {
			return 0, err
		}
		x, err := Evalf(v.exp, env)
		if err != nil {
			return 0, err
		}
		return math.Pow(b, x), nil
	case *Func:
		args := make([]float64, len(v.args))
		for i, a := range v.args {
			x, err := Evalf(a, env)
			if err != nil {
				return 0, err
			}
			args[i] = x
		}
		return evalFunc(v.name, args)
	}
	return 0, fmt.Errorf("cannot evaluate %s: %w", e.String(), ErrUnsupported)
}

func evalFunc(name string, args []float64) (float64, error) {
	x := args[0]
	switch name {
	case "sin":
		return math.Sin(x), nil
	case "cos":
		return math.Cos(x), nil
	case "tan":
		return math.Tan(x), nil
	case "exp":
		return math.Exp(x), nil
	case "log":
		return math.Log(x), nil
	case "abs":
		return math.Abs(x), nil
	case "asin":
		return math.Asin(x), nil
	case "acos":
		return math.Acos(x), nil
	case "atan":
		return math.Atan(x), nil
	case "atan2":
		return math.Atan2(x, args[1]), nil
	case "sinh":
		return math.Sinh(x), nil
	case "cosh":
		return math.Cosh(x), nil
	case "tanh":
		return math.Tanh(x), nil
	case "asinh":
		return math.Asinh(x), nil
	case "acosh":
		return math.Acosh(x), nil
	case "atanh":
		return math.Atanh(x), nil
	case "floor":
		return math.Floor(x), nil
	case "ceil":
		return math.Ceil(x), nil
	case "sign":
		switch {
		case x > 0:
			return 1, nil
		case x < 0:
			return -1, nil
		}
		return 0, nil
	case "erf":
		return math.Erf(x), nil
	case "loggamma":
		lg, _ := math.Lgamma(x)
		return lg, nil
	}
	return 0, fmt.Errorf("cannot evaluate %s numerically: %w", name, ErrUnsupported)
}
