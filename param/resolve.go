package param

import (
	"fmt"

	gosymgen "github.com/njchilds90/gosymgen"
	"github.com/njchilds90/gosymgen/tensor"
)

// Resolve picks a value for each argument of signature. Call-time values
// win: positional values bind to the leading arguments and named values
// to the rest. Each remaining argument is taken from the first layer that
// holds it, in order, and omitted if none does. Nil values count as absent
// at every level.
//
// More positional values than arguments, or a named value the signature
// does not list, is an ErrUnknownKey.
func Resolve(signature []string, positional []*tensor.Dense, named map[string]*tensor.Dense, layers ...map[string]*tensor.Dense) (map[string]*tensor.Dense, error) {
	if len(positional) > len(signature) {
		return nil, fmt.Errorf("takes %d arguments but %d were given: %w", len(signature), len(positional), gosymgen.ErrUnknownKey)
	}
	for name := range named {
		if !contains(signature, name) {
			return nil, fmt.Errorf("unexpected argument %q: %w", name, gosymgen.ErrUnknownKey)
		}
	}

	out := make(map[string]*tensor.Dense, len(signature))
	for i, name := range signature {
		if i < len(positional) && positional[i] != nil {
			out[name] = positional[i]
			continue
		}
		if v := named[name]; v != nil {
			out[name] = v
			continue
		}
		for _, layer := range layers {
			if v := layer[name]; v != nil {
				out[name] = v
				break
			}
		}
	}
	return out, nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
