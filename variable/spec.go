package variable

import (
	"fmt"
	"strconv"
	"strings"

	gosymgen "github.com/njchilds90/gosymgen"
)

type specKind uint8

const (
	kindNone specKind = iota
	kindLeaf
	kindList
)

// Spec is a nested specification of element names. The zero Spec means
// "no specification": the variable is a scalar named after itself.
type Spec struct {
	kind  specKind
	name  string
	items []Spec
}

// Leaf is a single element name.
func Leaf(name string) Spec { return Spec{kind: kindLeaf, name: name} }

// List nests specifications one level deeper.
func List(items ...Spec) Spec {
	return Spec{kind: kindList, items: append([]Spec{}, items...)}
}

// Names is shorthand for a flat list of leaves.
func Names(names ...string) Spec {
	items := make([]Spec, len(names))
	for i, n := range names {
		items[i] = Leaf(n)
	}
	return Spec{kind: kindList, items: items}
}

func (s Spec) IsZero() bool  { return s.kind == kindNone }
func (s Spec) IsLeaf() bool  { return s.kind == kindLeaf }
func (s Spec) Name() string  { return s.name }
func (s Spec) Items() []Spec { return append([]Spec(nil), s.items...) }
func (s Spec) Equal(o Spec) bool {
	if s.kind != o.kind || s.name != o.name || len(s.items) != len(o.items) {
		return false
	}
	for i := range s.items {
		if !s.items[i].Equal(o.items[i]) {
			return false
		}
	}
	return true
}

// String renders the specification as a Python literal, e.g. ['u', 'v'].
func (s Spec) String() string {
	switch s.kind {
	case kindLeaf:
		return pyString(s.name)
	case kindList:
		parts := make([]string, len(s.items))
		for i, it := range s.items {
			parts[i] = it.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return "None"
}

// ElementsAndShape flattens a nested specification in row-major order and
// infers its shape. Sibling lists must have identical shapes.
func ElementsAndShape(s Spec) ([]string, []int, error) {
	switch s.kind {
	case kindLeaf:
		return []string{s.name}, []int{}, nil
	case kindList:
		if len(s.items) == 0 {
			return []string{}, []int{0}, nil
		}
		var elems []string
		var sub []int
		for i, it := range s.items {
			e, sh, err := ElementsAndShape(it)
			if err != nil {
				return nil, nil, err
			}
			if i == 0 {
				sub = sh
			} else if !equalInts(sub, sh) {
				return nil, nil, fmt.Errorf("item %d has shape %s, item 0 has %s: %w",
					i, PyTuple(sh), PyTuple(sub), gosymgen.ErrShape)
			}
			elems = append(elems, e...)
		}
		return elems, append([]int{len(s.items)}, sub...), nil
	}
	return nil, nil, fmt.Errorf("empty specification: %w", gosymgen.ErrShape)
}

// FromElements rebuilds the nested specification holding elems in
// row-major order.
func FromElements(elems []string, shape []int) (Spec, error) {
	if len(elems) != gosymgen.ShapeSize(shape) {
		return Spec{}, fmt.Errorf("shape %s needs %d elements, got %d: %w",
			PyTuple(shape), gosymgen.ShapeSize(shape), len(elems), gosymgen.ErrShape)
	}
	if len(shape) == 0 {
		return Leaf(elems[0]), nil
	}
	stride := gosymgen.ShapeSize(shape[1:])
	items := make([]Spec, shape[0])
	for i := range items {
		sub, err := FromElements(elems[i*stride:(i+1)*stride], shape[1:])
		if err != nil {
			return Spec{}, err
		}
		items[i] = sub
	}
	return Spec{kind: kindList, items: items}, nil
}

// PyTuple renders a shape as a Python tuple: (), (2,), (2, 1).
func PyTuple(shape []int) string {
	switch len(shape) {
	case 0:
		return "()"
	case 1:
		return "(" + strconv.Itoa(shape[0]) + ",)"
	}
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = strconv.Itoa(d)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func pyString(s string) string { return "'" + strings.ReplaceAll(s, "'", `\'`) + "'" }

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
