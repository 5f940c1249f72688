package printer

import (
	"fmt"
	"strings"

	gosymgen "github.com/njchilds90/gosymgen"
)

// DefaultNumpyAlias is the name numpy is imported under in generated code.
const DefaultNumpyAlias = "_numpy"

// Numpy prints expressions as numpy calls: inverse trigonometric functions
// become arc*, pi becomes <alias>.pi and square roots use <alias>.sqrt.
type Numpy struct {
	*Str
}

// NewNumpy builds a numpy printer; an empty alias selects DefaultNumpyAlias.
func NewNumpy(alias string) *Numpy {
	if alias == "" {
		alias = DefaultNumpyAlias
	}
	base := NewStr()
	base.fallback = func(name string) FuncRule { return qualified(alias, name) }
	base.numpy = alias

	funcs := map[string]FuncRule{
		"asin":  qualified(alias, "arcsin"),
		"acos":  qualified(alias, "arccos"),
		"atan":  qualified(alias, "arctan"),
		"atan2": qualified(alias, "arctan2"),
		"asinh": qualified(alias, "arcsinh"),
		"acosh": qualified(alias, "arccosh"),
		"atanh": qualified(alias, "arctanh"),
		// numpy has no special functions.
		"erf":      unsupported("erf"),
		"loggamma": unsupported("loggamma"),
		"digamma":  unsupported("digamma"),
	}
	consts := map[string]string{"pi": alias + ".pi"}
	return &Numpy{Str: base.extend(funcs, consts, numpyPow(alias), "import numpy as "+alias)}
}

func qualified(module, name string) FuncRule {
	return func(args []string) (string, error) {
		return module + "." + name + "(" + strings.Join(args, ", ") + ")", nil
	}
}

func unsupported(name string) FuncRule {
	return func([]string) (string, error) {
		return "", fmt.Errorf("function %s is not available in numpy: %w", name, gosymgen.ErrUnsupported)
	}
}

// numpyPow handles the exponents 1/2, -1/2 and exactly 1.
func numpyPow(alias string) PowRule {
	return func(print func(gosymgen.Expr) (string, error), base gosymgen.Expr, exp *gosymgen.Num) (string, bool, error) {
		var format string
		switch {
		case exp.Is(1, 2):
			format = alias + ".sqrt(%s)"
		case exp.Is(-1, 2):
			format = "(1/" + alias + ".sqrt(%s))"
		case exp.IsOne():
			format = "(%s)"
		default:
			return "", false, nil
		}
		b, err := print(base)
		if err != nil {
			return "", false, err
		}
		return fmt.Sprintf(format, b), true, nil
	}
}
