package variable

import (
	"fmt"
	"strconv"
	"strings"
)

// RenderUnpack returns the Python statements that coerce the argument named
// after the variable to an array of its dtype, check its trailing shape and
// bind every element to a local name. Leading batch axes are accepted.
func (a *Array) RenderUnpack(numpyAlias string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s = %s.asarray(%s, dtype=%s.%s)\n", a.name, numpyAlias, a.name, numpyAlias, a.dtype)
	if a.Rank() > 0 {
		fmt.Fprintf(&sb, "if %s.shape[-%d:] != %s:\n", a.name, a.Rank(), PyTuple(a.shape))
		fmt.Fprintf(&sb, "    _msg = \"invalid shape for %s, expected %s, got {}\"\n", a.name, ExpectedShape(a.shape))
		fmt.Fprintf(&sb, "    raise ValueError(_msg.format(%s.shape))\n", a.name)
	}
	if a.Rank() == 0 && a.elems[0].Name() == a.name {
		return sb.String()
	}
	if len(a.elems) > 0 {
		fmt.Fprintf(&sb, "# unpack `%s` array elements\n", a.name)
	}
	for i, idx := range a.Indices() {
		fmt.Fprintf(&sb, "%s = %s%s\n", a.elems[i].Name(), a.name, Subscript(idx))
	}
	return sb.String()
}

// ExpectedShape renders a trailing shape the way shape errors report it,
// e.g. (...,2,1).
func ExpectedShape(shape []int) string {
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = strconv.Itoa(d)
	}
	return "(...," + strings.Join(parts, ",") + ")"
}

// Subscript renders a batch-preserving index: [..., 0, 1], or [...] for the
// empty index.
func Subscript(idx []int) string {
	if len(idx) == 0 {
		return "[...]"
	}
	parts := make([]string, len(idx))
	for i, k := range idx {
		parts[i] = strconv.Itoa(k)
	}
	return "[..., " + strings.Join(parts, ", ") + "]"
}
