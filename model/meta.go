package model

import (
	"fmt"
	"strings"

	gosymgen "github.com/njchilds90/gosymgen"
	"github.com/njchilds90/gosymgen/variable"
)

// Meta names the metaclass of the generated class.
type Meta struct {
	Module   string // imported module defining the metaclass; empty when embedded
	QualName string // qualified name inside Module

	embedded bool
}

// ParametrizedMeta selects the parametrized runtime, which is emitted into
// the module itself instead of imported.
func ParametrizedMeta() *Meta {
	return &Meta{QualName: prelude + ".meta", embedded: true}
}

// ParseMeta reads "parametrized" or "package.module:Qual.name".
func ParseMeta(s string) (*Meta, error) {
	if s == "parametrized" {
		return ParametrizedMeta(), nil
	}
	module, qual, ok := strings.Cut(s, ":")
	if !ok || !dotted(module) || !dotted(qual) {
		return nil, fmt.Errorf("metaclass %q, want \"parametrized\" or \"module:QualName\": %w", s, gosymgen.ErrIdentifier)
	}
	return &Meta{Module: module, QualName: qual}, nil
}

func dotted(s string) bool {
	for _, part := range strings.Split(s, ".") {
		if !variable.IsIdentifier(part) {
			return false
		}
	}
	return true
}

// Embedded reports whether the metaclass is part of the generated module.
func (m *Meta) Embedded() bool { return m.embedded }

func (m *Meta) String() string {
	if m.Module == "" {
		return m.QualName
	}
	return m.Module + "." + m.QualName
}

func (m *Meta) importLine() string {
	if m.embedded || m.Module == "" {
		return ""
	}
	return "import " + m.Module
}
