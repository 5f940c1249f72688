package model_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	gosymgen "github.com/njchilds90/gosymgen"
	"github.com/njchilds90/gosymgen/function"
	"github.com/njchilds90/gosymgen/model"
	"github.com/njchilds90/gosymgen/printer"
	"github.com/njchilds90/gosymgen/tensor"
	"github.com/njchilds90/gosymgen/variable"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// exampleF is f(t, x) = [x.v, t**2 + x.u].
func exampleF(args ...*variable.Array) (*gosymgen.Array, error) {
	t, x := args[0], args[1]
	return gosymgen.Vector(
		x.Elem("v"),
		gosymgen.AddOf(gosymgen.PowOf(t.Symbol(), gosymgen.N(2)), x.Elem("u")),
	), nil
}

func exampleBuilder() *model.Builder {
	return model.NewBuilder("Example").
		Variable("x", variable.Names("u", "v")).
		Variable("t", variable.Spec{}).
		Variable("y", variable.List(variable.Names("p"), variable.Names("q"))).
		Function("f", []string{"t", "x"}, exampleF).
		Derivative("df_dx", "f", "x").
		Derivative("df_dx_dt", "df_dx", "t").
		Sparse("df_dx")
}

func TestBuildWorkedExample(t *testing.T) {
	m, err := exampleBuilder().Build()
	require.NoError(t, err)

	want := []model.Signature{
		{Name: "f", Args: []string{"t", "x"}},
		{Name: "df_dx", Args: []string{"t", "x"}},
		{Name: "df_dx_dt", Args: []string{"t", "x"}},
		{Name: "df_dx_val", Args: []string{"t", "x"}},
	}
	if diff := cmp.Diff(want, m.Signatures()); diff != "" {
		t.Errorf("signatures mismatch (-want +got):\n%s", diff)
	}

	d, err := m.Function("df_dx_dt")
	require.NoError(t, err)
	require.Equal(t, []int{2, 2, 1}, d.Output().Shape())

	ind, ok := m.SparseIndices("df_dx")
	require.True(t, ok)
	require.Equal(t, function.Indices{{0, 1}, {1, 0}}, ind)
	require.Equal(t, []string{"df_dx"}, m.SparseNames())
	require.Equal(t, "Example", m.ClassName())
}

func TestDerivativeAppliedInOrder(t *testing.T) {
	m, err := exampleBuilder().Derivative("d2", "f", "x", "t").Build()
	require.NoError(t, err)

	chained, err := m.Function("df_dx_dt")
	require.NoError(t, err)
	direct, err := m.Function("d2")
	require.NoError(t, err)
	require.True(t, chained.Output().Equal(direct.Output()))

	m, err = exampleBuilder().Derivative("d3", "f", "t", "x").Build()
	require.NoError(t, err)
	reversed, err := m.Function("d3")
	require.NoError(t, err)
	require.Equal(t, []int{2, 1, 2}, reversed.Output().Shape())
}

func TestDuplicateElementsRejectedBeforeBinding(t *testing.T) {
	called := false
	body := func(args ...*variable.Array) (*gosymgen.Array, error) {
		called = true
		return gosymgen.Scalar(gosymgen.N(1)), nil
	}
	_, err := model.NewBuilder("Dup").
		Variable("x", variable.Names("u", "v")).
		Variable("z", variable.Names("v", "w")).
		Function("g", []string{"x"}, body).
		Build()
	require.ErrorIs(t, err, gosymgen.ErrNameConflict)
	require.False(t, called)
}

func TestConstructionErrors(t *testing.T) {
	cases := []struct {
		name    string
		builder *model.Builder
		wantErr error
	}{
		{
			name:    "nil body",
			builder: exampleBuilder().Function("g", []string{"x"}, nil),
			wantErr: gosymgen.ErrNotCallable,
		},
		{
			name:    "unknown argument",
			builder: exampleBuilder().Function("g", []string{"w"}, exampleF),
			wantErr: gosymgen.ErrUnknownKey,
		},
		{
			name:    "unknown derivative base",
			builder: exampleBuilder().Derivative("dg", "g", "x"),
			wantErr: gosymgen.ErrUnknownKey,
		},
		{
			name:    "unknown derivative variable",
			builder: exampleBuilder().Derivative("df_dw", "f", "w"),
			wantErr: gosymgen.ErrUnknownKey,
		},
		{
			name:    "derivative without variable",
			builder: exampleBuilder().Derivative("df", "f"),
			wantErr: gosymgen.ErrUnknownKey,
		},
		{
			name:    "derivative name reused",
			builder: exampleBuilder().Derivative("f", "f", "x"),
			wantErr: gosymgen.ErrNameConflict,
		},
		{
			name:    "reserved function name",
			builder: exampleBuilder().Function("pack", []string{"t", "x"}, exampleF),
			wantErr: gosymgen.ErrNameConflict,
		},
		{
			name:    "sparse twice",
			builder: exampleBuilder().Sparse("df_dx"),
			wantErr: gosymgen.ErrNameConflict,
		},
		{
			name:    "sparse of unknown function",
			builder: exampleBuilder().Sparse("g"),
			wantErr: gosymgen.ErrUnknownKey,
		},
		{
			name: "unbound symbol",
			builder: exampleBuilder().ScalarFunction("g", []string{"x"}, func(args ...*variable.Array) (gosymgen.Expr, error) {
				return gosymgen.MulOf(args[0].Elem("u"), gosymgen.S("p")), nil
			}),
			wantErr: gosymgen.ErrUnboundSymbol,
		},
		{
			name:    "bad class name",
			builder: exampleBuilder().ClassName("class"),
			wantErr: gosymgen.ErrIdentifier,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.builder.Build()
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestBodyErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	_, err := exampleBuilder().Function("g", []string{"x"}, func(...*variable.Array) (*gosymgen.Array, error) {
		return nil, boom
	}).Build()
	require.ErrorIs(t, err, boom)
}

func TestPack(t *testing.T) {
	m, err := exampleBuilder().Build()
	require.NoError(t, err)

	got, err := m.Pack("y", map[string]float64{"q": 2.5}, 0)
	require.NoError(t, err)
	require.Equal(t, []int{2, 1}, got.Shape())
	require.Equal(t, []float64{0, 2.5}, got.Data())

	got, err = m.Pack("x", map[string]float64{"u": 1}, 7)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 7}, got.Data())

	_, err = m.Pack("nope", nil, 0)
	require.ErrorIs(t, err, gosymgen.ErrUnknownKey)
}

func TestSymbols(t *testing.T) {
	m, err := exampleBuilder().Build()
	require.NoError(t, err)

	x, err := m.Pack("x", map[string]float64{"u": 1, "v": 2}, 0)
	require.NoError(t, err)
	tv, err := m.Pack("t", map[string]float64{"t": 3}, 0)
	require.NoError(t, err)

	subs, err := m.Symbols(map[string]*tensor.Dense{"x": x, "t": tv})
	require.NoError(t, err)
	require.Equal(t, map[string]float64{"u": 1, "v": 2, "t": 3}, subs)
}

func TestEmitClassHeader(t *testing.T) {
	m, err := exampleBuilder().Build()
	require.NoError(t, err)

	got, err := m.EmitClass(printer.NewNumpy(""))
	require.NoError(t, err)
	header := `class Example:
    """Generated code for symbolic model Example"""

    signatures = {'f': ['t', 'x'], 'df_dx': ['t', 'x'], 'df_dx_dt': ['t', 'x'], 'df_dx_val': ['t', 'x']}
    """Model function signatures."""

    var_specs = {'x': ['u', 'v'], 't': 't', 'y': [['p'], ['q']]}
    """Specification of the model variables."""

    df_dx_ind = ([0, 1], [1, 0])
    """Nonzero indices of ` + "`df_dx`" + `."""

    @staticmethod
    def f(t, x):
        """Symbolic function ` + "`f`" + `."""
`
	require.True(t, strings.HasPrefix(got, header), "got:\n%s", got)
	require.Contains(t, got, "\n        _out[..., 1] = t**2 + u\n        return _out\n\n    @staticmethod\n    def df_dx(t, x):\n")
	require.Contains(t, got, "    def df_dx_val(t, x):\n")
	require.Contains(t, got, "        _out[..., 0] = 1\n        _out[..., 1] = 1\n        return _out\n")
	require.True(t, strings.HasSuffix(got, "return _out\n"))
	require.Equal(t, 4, strings.Count(got, "@staticmethod"))
}

func TestEmitModuleImports(t *testing.T) {
	m, err := exampleBuilder().
		Import("import math", "import numpy as _numpy").
		ClassName("ExampleModel").
		Build()
	require.NoError(t, err)

	got, err := m.EmitModule(printer.NewScipy("", ""))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(got,
		"import numpy as _numpy\nimport scipy as _scipy\nimport scipy.special\nimport math\n\n\nclass ExampleModel:\n"), "got:\n%s", got)
}

func TestEmitModuleExternalMeta(t *testing.T) {
	meta, err := model.ParseMeta("mypkg.runtime:ParametrizedModel.meta")
	require.NoError(t, err)
	m, err := exampleBuilder().WithMeta(meta).Build()
	require.NoError(t, err)

	got, err := m.EmitModule(printer.NewNumpy(""))
	require.NoError(t, err)
	require.Contains(t, got, "import numpy as _numpy\nimport mypkg.runtime\n")
	require.Contains(t, got, "class Example(metaclass=mypkg.runtime.ParametrizedModel.meta):\n")
	require.NotContains(t, got, "class _ParametrizedModel")
}

func TestEmitModuleParametrized(t *testing.T) {
	m, err := exampleBuilder().WithMeta(model.ParametrizedMeta()).Build()
	require.NoError(t, err)

	got, err := m.EmitModule(printer.NewNumpy("np"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(got, "import numpy as np\n\n\nclass _ParametrizedModel:\n"), "got:\n%s", got)
	require.Contains(t, got, "self._params = {k: np.asarray(v) for k, v in params.items()}")
	require.Contains(t, got, "ret = np.zeros(fill.shape + spec.shape)")
	require.Contains(t, got, "def {fname}(self{signature}):")
	require.Contains(t, got, "'''\n\n\nclass Example(metaclass=_ParametrizedModel.meta):\n")
}

func TestEmitPrinterErrorPropagates(t *testing.T) {
	m, err := exampleBuilder().ScalarFunction("g", []string{"x"}, func(args ...*variable.Array) (gosymgen.Expr, error) {
		return gosymgen.ErfOf(args[0].Elem("u")), nil
	}).Build()
	require.NoError(t, err)

	_, err = m.EmitModule(printer.NewNumpy(""))
	require.ErrorIs(t, err, gosymgen.ErrUnsupported)

	_, err = m.EmitModule(printer.NewScipy("", ""))
	require.NoError(t, err)
}

func TestEmitRejectsShadowedAliases(t *testing.T) {
	m, err := exampleBuilder().Build()
	require.NoError(t, err)

	for _, p := range []printer.Printer{
		printer.NewNumpy("u"),
		printer.NewNumpy("t"),
		printer.NewScipy("", "x"),
	} {
		_, err := m.EmitModule(p)
		require.ErrorIs(t, err, gosymgen.ErrNameConflict)
	}

	_, err = m.EmitModule(printer.NewNumpy("np"))
	require.NoError(t, err)
}

func TestConcurrentEmission(t *testing.T) {
	m, err := exampleBuilder().WithMeta(model.ParametrizedMeta()).Build()
	require.NoError(t, err)
	p := printer.NewNumpy("")
	want, err := m.EmitModule(p)
	require.NoError(t, err)

	results := make([]string, 8)
	var g errgroup.Group
	for i := range results {
		i := i
		g.Go(func() error {
			out, err := m.EmitModule(p)
			results[i] = out
			return err
		})
	}
	require.NoError(t, g.Wait())
	for _, got := range results {
		require.Equal(t, want, got)
	}
}

func TestParseMeta(t *testing.T) {
	meta, err := model.ParseMeta("parametrized")
	require.NoError(t, err)
	require.True(t, meta.Embedded())
	require.Equal(t, "_ParametrizedModel.meta", meta.String())

	meta, err = model.ParseMeta("pkg.mod:Outer.meta")
	require.NoError(t, err)
	require.False(t, meta.Embedded())
	require.Equal(t, "pkg.mod.Outer.meta", meta.String())

	for _, bad := range []string{"", "pkg.mod", "pkg:", ":x", "pkg:1bad"} {
		_, err := model.ParseMeta(bad)
		require.ErrorIs(t, err, gosymgen.ErrIdentifier, bad)
	}
}
