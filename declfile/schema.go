package declfile

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// fileRoot decodes the top-level blocks of one declaration file.
type fileRoot struct {
	Models []*ModelBlock `hcl:"model,block"`
	Remain hcl.Body      `hcl:",remain"`
}

// ModelBlock is a `model "Name" { ... }` block.
type ModelBlock struct {
	Name        string             `hcl:"name,label"`
	ClassName   string             `hcl:"class_name,optional"`
	Imports     []string           `hcl:"imports,optional"`
	Meta        string             `hcl:"meta,optional"`
	Variables   []*VariableBlock   `hcl:"variable,block"`
	Functions   []*FunctionBlock   `hcl:"function,block"`
	Derivatives []*DerivativeBlock `hcl:"derivative,block"`
	Sparse      []*SparseBlock     `hcl:"sparse,block"`
}

// VariableBlock declares one array variable. A missing spec makes a scalar
// named after the variable.
type VariableBlock struct {
	Name  string     `hcl:"name,label"`
	Spec  *cty.Value `hcl:"spec,optional"`
	DType string     `hcl:"dtype,optional"`
}

// FunctionBlock declares a function by its arguments and output
// expression. Expr is translated, not evaluated.
type FunctionBlock struct {
	Name string         `hcl:"name,label"`
	Args []string       `hcl:"args"`
	Expr hcl.Expression `hcl:"expr"`
}

type DerivativeBlock struct {
	Name string   `hcl:"name,label"`
	Of   string   `hcl:"of"`
	WRT  []string `hcl:"wrt"`
}

// SparseBlock extracts the nonzero entries of a function. Where, when
// set, is a boolean expression of the index tuple i.
type SparseBlock struct {
	Of    string         `hcl:"of,label"`
	Where hcl.Expression `hcl:"where,optional"`
}
