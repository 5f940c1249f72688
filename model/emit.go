package model

import (
	"fmt"
	"strings"
	"text/template"

	gosymgen "github.com/njchilds90/gosymgen"
	"github.com/njchilds90/gosymgen/printer"
)

var classTemplate = template.Must(template.New("class").Parse(`class {{.ClassName}}{{.Bases}}:
    """Generated code for symbolic model {{.Name}}"""

    signatures = {{.Signatures}}
    """Model function signatures."""

    var_specs = {{.Specs}}
    """Specification of the model variables."""
{{- range .Sparse}}

    {{.Name}}_ind = {{.Indices}}
    """Nonzero indices of ` + "`{{.Name}}`" + `."""
{{- end}}
{{- range .Functions}}

    @staticmethod
{{.}}
{{- end}}
`))

type sparseTag struct {
	Name    string
	Indices string
}

type classTags struct {
	ClassName  string
	Bases      string
	Name       string
	Signatures string
	Specs      string
	Sparse     []sparseTag
	Functions  []string
}

// EmitClass renders the model as one Python class definition. Printer
// errors are returned unchanged.
func (m *Model) EmitClass(p printer.Printer) (string, error) {
	if err := m.checkAliases(p); err != nil {
		return "", err
	}
	tags := classTags{
		ClassName:  m.className,
		Name:       m.name,
		Signatures: m.pySignatures(),
		Specs:      m.pySpecs(),
	}
	if m.meta != nil {
		tags.Bases = "(metaclass=" + m.meta.String() + ")"
	}
	for _, name := range m.sparse {
		tags.Sparse = append(tags.Sparse, sparseTag{Name: name, Indices: m.indices[name].Python()})
	}
	for _, f := range m.funcs {
		def, err := f.RenderDefinition(p)
		if err != nil {
			return "", err
		}
		tags.Functions = append(tags.Functions, indentLines(strings.TrimRight(def, "\n")))
	}

	var sb strings.Builder
	if err := classTemplate.Execute(&sb, tags); err != nil {
		return "", fmt.Errorf("rendering class %s: %w", m.className, err)
	}
	return sb.String(), nil
}

// EmitModule renders a complete Python module: the printer's imports, the
// model's own imports, the metaclass import or embedded runtime, and the
// class.
func (m *Model) EmitModule(p printer.Printer) (string, error) {
	class, err := m.EmitClass(p)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString(strings.Join(m.Imports(p), "\n"))
	sb.WriteString("\n\n\n")
	if m.meta != nil && m.meta.Embedded() {
		runtime, err := parametrizedRuntime(p.NumpyAlias())
		if err != nil {
			return "", err
		}
		sb.WriteString(runtime)
		sb.WriteString("\n\n")
	}
	sb.WriteString(class)
	return sb.String(), nil
}

// Imports lists the import statements of the emitted module, without
// duplicates.
func (m *Model) Imports(p printer.Printer) []string {
	lines := append(p.Imports(), m.imports...)
	if m.meta != nil {
		if line := m.meta.importLine(); line != "" {
			lines = append(lines, line)
		}
	}
	seen := map[string]bool{}
	out := lines[:0]
	for _, l := range lines {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

func (m *Model) pySignatures() string {
	parts := make([]string, len(m.funcs))
	for i, f := range m.funcs {
		args := make([]string, len(f.Signature()))
		for j, a := range f.Signature() {
			args[j] = "'" + a + "'"
		}
		parts[i] = "'" + f.Name() + "': [" + strings.Join(args, ", ") + "]"
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (m *Model) pySpecs() string {
	vars := m.vars.Vars()
	parts := make([]string, len(vars))
	for i, v := range vars {
		parts[i] = "'" + v.Name() + "': " + v.Spec().String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func indentLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = "    " + l
		}
	}
	return strings.Join(lines, "\n")
}

// checkAliases rejects module aliases that a variable or element name
// would shadow inside the generated functions.
func (m *Model) checkAliases(p printer.Printer) error {
	aliases := []string{p.NumpyAlias()}
	if sp, ok := p.(interface{ ScipyAlias() string }); ok {
		aliases = append(aliases, sp.ScipyAlias())
	}
	for _, a := range aliases {
		if _, ok := m.vars.Lookup(a); ok {
			return fmt.Errorf("module alias %s is also a variable of model %s: %w", a, m.name, gosymgen.ErrNameConflict)
		}
		if owner, ok := m.vars.Owner(a); ok {
			return fmt.Errorf("module alias %s is also an element of %s: %w", a, owner, gosymgen.ErrNameConflict)
		}
	}
	return nil
}
