package variable

import (
	"fmt"

	gosymgen "github.com/njchilds90/gosymgen"
)

// Table is the ordered symbol table of a model. Element names are unique
// across all variables, and no variable is named after another variable's
// element.
type Table struct {
	order []string
	vars  map[string]*Array
	owner map[string]string
}

// NewTable indexes vars in the order given.
func NewTable(vars ...*Array) (*Table, error) {
	t := &Table{vars: make(map[string]*Array, len(vars)), owner: map[string]string{}}
	for _, v := range vars {
		if _, dup := t.vars[v.name]; dup {
			return nil, fmt.Errorf("variable %s declared twice: %w", v.name, gosymgen.ErrNameConflict)
		}
		for _, e := range v.Elements() {
			if other, dup := t.owner[e]; dup {
				return nil, fmt.Errorf("element %q of %s already belongs to %s: %w",
					e, v.name, other, gosymgen.ErrNameConflict)
			}
			t.owner[e] = v.name
		}
		t.order = append(t.order, v.name)
		t.vars[v.name] = v
	}
	for _, name := range t.order {
		if other, ok := t.owner[name]; ok && other != name {
			return nil, fmt.Errorf("variable %s shadows an element of %s: %w", name, other, gosymgen.ErrNameConflict)
		}
	}
	return t, nil
}

// Names returns the variable names in declaration order.
func (t *Table) Names() []string { return append([]string(nil), t.order...) }

func (t *Table) Len() int { return len(t.order) }

func (t *Table) Lookup(name string) (*Array, bool) {
	v, ok := t.vars[name]
	return v, ok
}

// Get is Lookup reporting an unknown name as ErrUnknownKey.
func (t *Table) Get(name string) (*Array, error) {
	v, ok := t.vars[name]
	if !ok {
		return nil, fmt.Errorf("no variable named %q: %w", name, gosymgen.ErrUnknownKey)
	}
	return v, nil
}

// Owner returns the variable an element symbol belongs to.
func (t *Table) Owner(element string) (string, bool) {
	v, ok := t.owner[element]
	return v, ok
}

// Vars returns the variables in declaration order.
func (t *Table) Vars() []*Array {
	out := make([]*Array, len(t.order))
	for i, n := range t.order {
		out[i] = t.vars[n]
	}
	return out
}
