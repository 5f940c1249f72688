package declfile

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	gosymgen "github.com/njchilds90/gosymgen"
	"github.com/njchilds90/gosymgen/function"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// whereSelector evaluates expr once per candidate entry with the entry's
// multi-index bound to the list variable i; a true result keeps the entry.
// A rank-0 output has a single candidate, with i empty.
func whereSelector(expr hcl.Expression) function.Selector {
	return func(coords [][]int) ([]bool, error) {
		n := 1
		if len(coords) > 0 {
			n = len(coords[0])
		}
		mask := make([]bool, n)
		idx := make([]int, len(coords))
		for k := range mask {
			for ax := range coords {
				idx[ax] = coords[ax][k]
			}
			i, err := gocty.ToCtyValue(idx, cty.List(cty.Number))
			if err != nil {
				return nil, fmt.Errorf("index %v: %w", idx, err)
			}
			ectx := &hcl.EvalContext{Variables: map[string]cty.Value{"i": i}}
			val, diags := expr.Value(ectx)
			if diags.HasErrors() {
				return nil, fmt.Errorf("where condition at index %v: %w", idx, diags)
			}
			val, err = convert.Convert(val, cty.Bool)
			if err != nil || val.IsNull() || !val.IsKnown() {
				return nil, fmt.Errorf("%s: where condition must be a boolean: %w", expr.Range(), gosymgen.ErrUnsupported)
			}
			mask[k] = val.True()
		}
		return mask, nil
	}
}
