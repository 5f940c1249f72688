package printer

import (
	"fmt"

	gosymgen "github.com/njchilds90/gosymgen"
)

// DefaultScipyAlias is the name scipy is imported under in generated code.
const DefaultScipyAlias = "_scipy"

// Scipy extends Numpy with scipy.special functions.
type Scipy struct {
	*Numpy
	scipy string
}

// NewScipy builds a scipy printer on top of a fresh numpy printer; empty
// aliases select the defaults.
func NewScipy(numpyAlias, scipyAlias string) *Scipy {
	if scipyAlias == "" {
		scipyAlias = DefaultScipyAlias
	}
	special := scipyAlias + ".special"
	funcs := map[string]FuncRule{
		"erf":      qualified(special, "erf"),
		"loggamma": qualified(special, "gammaln"),
		"digamma":  qualified(special, "digamma"),
	}
	np := NewNumpy(numpyAlias)
	layered := np.Str.extend(funcs, nil, nil, "import scipy as "+scipyAlias, "import scipy.special")
	return &Scipy{Numpy: &Numpy{Str: layered}, scipy: scipyAlias}
}

// ScipyAlias is the name scipy is imported under.
func (s *Scipy) ScipyAlias() string { return s.scipy }

// ByName returns the printer called name ("numpy" or "scipy").
func ByName(name, numpyAlias, scipyAlias string) (Printer, error) {
	switch name {
	case "", "numpy":
		return NewNumpy(numpyAlias), nil
	case "scipy":
		return NewScipy(numpyAlias, scipyAlias), nil
	}
	return nil, fmt.Errorf("printer %q: %w", name, gosymgen.ErrUnknownKey)
}
