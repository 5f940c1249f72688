package declfile

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	gosymgen "github.com/njchilds90/gosymgen"
	"github.com/njchilds90/gosymgen/internal/ctxlog"
	"github.com/njchilds90/gosymgen/model"
	"github.com/njchilds90/gosymgen/variable"
	"github.com/zclconf/go-cty/cty"
)

// translateModel converts a decoded model block into a model.Definition.
// Function expressions become Bodies that translate on demand, once the
// argument variables exist.
func translateModel(ctx context.Context, mb *ModelBlock) (*model.Definition, error) {
	logger := ctxlog.FromContext(ctx).With("model", mb.Name)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Translating model declaration.",
		"variables", len(mb.Variables), "functions", len(mb.Functions),
		"derivatives", len(mb.Derivatives), "sparse", len(mb.Sparse))

	def := &model.Definition{
		Name:      mb.Name,
		ClassName: mb.ClassName,
		Imports:   append([]string(nil), mb.Imports...),
	}
	if mb.Meta != "" {
		meta, err := model.ParseMeta(mb.Meta)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", mb.Name, err)
		}
		def.Meta = meta
	}

	for _, vb := range mb.Variables {
		spec, err := specFromValue(vb.Spec)
		if err != nil {
			return nil, fmt.Errorf("model %s: variable %s: %w", mb.Name, vb.Name, err)
		}
		def.Variables = append(def.Variables, model.VariableDecl{Name: vb.Name, Spec: spec, DType: vb.DType})
	}
	for _, fb := range mb.Functions {
		decl := model.FunctionDecl{Name: fb.Name, Args: append([]string(nil), fb.Args...)}
		if isExprDefined(ctx, fb.Expr, "expr") {
			decl.Body = exprBody(fb.Expr)
		}
		def.Functions = append(def.Functions, decl)
	}
	for _, db := range mb.Derivatives {
		def.Derivatives = append(def.Derivatives, model.DerivativeDecl{
			Name: db.Name,
			Of:   db.Of,
			WRT:  append([]string(nil), db.WRT...),
		})
	}
	for _, sb := range mb.Sparse {
		decl := model.SparseDecl{Of: sb.Of}
		if isExprDefined(ctx, sb.Where, "where") {
			decl.Selector = whereSelector(sb.Where)
		}
		def.Sparse = append(def.Sparse, decl)
	}
	return def, nil
}

// specFromValue converts a decoded spec attribute: strings are element
// names and tuples or lists nest one level. A null or absent value is the
// zero Spec.
func specFromValue(v *cty.Value) (variable.Spec, error) {
	if v == nil || v.IsNull() {
		return variable.Spec{}, nil
	}
	return specFromCty(*v)
}

func specFromCty(v cty.Value) (variable.Spec, error) {
	ty := v.Type()
	switch {
	case v.IsNull() || !v.IsKnown():
		return variable.Spec{}, fmt.Errorf("spec contains a null or unknown value: %w", gosymgen.ErrIdentifier)
	case ty == cty.String:
		return variable.Leaf(v.AsString()), nil
	case ty.IsTupleType() || ty.IsListType():
		items := make([]variable.Spec, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			item, err := specFromCty(ev)
			if err != nil {
				return variable.Spec{}, err
			}
			items = append(items, item)
		}
		return variable.List(items...), nil
	}
	return variable.Spec{}, fmt.Errorf("spec element of type %s is not a name: %w", ty.FriendlyName(), gosymgen.ErrIdentifier)
}

// isExprDefined reports whether an optional attribute was written in the
// source. gohcl fills absent expression fields with a zero-width
// placeholder.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	defined := r.End.Byte > r.Start.Byte
	ctxlog.FromContext(ctx).Debug("Checked optional attribute.", "attribute", attrName, "hcl_range", r.String(), "is_defined", defined)
	return defined
}
