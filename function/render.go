package function

import (
	"fmt"
	"strings"

	gosymgen "github.com/njchilds90/gosymgen"
	"github.com/njchilds90/gosymgen/printer"
	"github.com/njchilds90/gosymgen/variable"
)

const indent = "    "

// RenderDefinition emits a Python function definition: argument unpacking
// and validation, a broadcast of one representative element per argument to
// size the output, and one assignment per nonzero output element.
func (f *Function) RenderDefinition(p printer.Printer) (string, error) {
	np := p.NumpyAlias()
	var sb strings.Builder
	fmt.Fprintf(&sb, "def %s(%s):\n", f.name, strings.Join(f.Signature(), ", "))
	fmt.Fprintf(&sb, "%s\"\"\"%s\"\"\"\n", indent, f.doc())

	reps := []string{}
	for _, a := range f.args {
		writeIndented(&sb, a.RenderUnpack(np))
		if r, ok := a.BroadcastRepresentative(); ok {
			reps = append(reps, np+".shape("+r+")")
		}
	}

	fmt.Fprintf(&sb, "%s_shape = %s.broadcast_shapes(%s)\n", indent, np, strings.Join(reps, ", "))
	fmt.Fprintf(&sb, "%s_out = %s.zeros(_shape + %s)\n", indent, np, variable.PyTuple(f.out.Shape()))
	flat := f.out.Flat()
	for i, idx := range gosymgen.Ndindex(f.out.Shape()) {
		if gosymgen.IsZero(flat[i]) {
			continue
		}
		text, err := p.Print(flat[i])
		if err != nil {
			return "", fmt.Errorf("printing %s%v: %w", f.name, idx, err)
		}
		fmt.Fprintf(&sb, "%s_out%s = %s\n", indent, variable.Subscript(idx), text)
	}
	fmt.Fprintf(&sb, "%sreturn _out\n", indent)
	return sb.String(), nil
}

func (f *Function) doc() string {
	switch f.kind {
	case kindDerivative:
		return fmt.Sprintf("Derivative of `%s` with respect to `%s`.", f.base, f.wrt)
	case kindSparse:
		return fmt.Sprintf("Nonzero elements of `%s`.", f.base)
	}
	return fmt.Sprintf("Symbolic function `%s`.", f.name)
}

func writeIndented(sb *strings.Builder, text string) {
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		if line != "\n" {
			sb.WriteString(indent)
		}
		sb.WriteString(line)
	}
}
