package variable_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	gosymgen "github.com/njchilds90/gosymgen"
	"github.com/njchilds90/gosymgen/tensor"
	"github.com/njchilds90/gosymgen/variable"
	"github.com/stretchr/testify/require"
)

func TestElementsAndShape(t *testing.T) {
	cases := []struct {
		name      string
		spec      variable.Spec
		wantElems []string
		wantShape []int
	}{
		{"leaf", variable.Leaf("t"), []string{"t"}, []int{}},
		{"flat", variable.Names("u", "v"), []string{"u", "v"}, []int{2}},
		{"column", variable.List(variable.Names("p"), variable.Names("q")), []string{"p", "q"}, []int{2, 1}},
		{"empty", variable.List(), []string{}, []int{0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			elems, shape, err := variable.ElementsAndShape(tc.spec)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.wantElems, elems); diff != "" {
				t.Errorf("elements mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.wantShape, shape); diff != "" {
				t.Errorf("shape mismatch (-want +got):\n%s", diff)
			}

			rebuilt, err := variable.FromElements(elems, shape)
			require.NoError(t, err)
			require.True(t, rebuilt.Equal(tc.spec), "round trip gave %s, want %s", rebuilt, tc.spec)
		})
	}
}

func TestElementsAndShapeRagged(t *testing.T) {
	_, _, err := variable.ElementsAndShape(variable.List(variable.Names("a", "b"), variable.Names("c")))
	require.ErrorIs(t, err, gosymgen.ErrShape)

	_, _, err = variable.ElementsAndShape(variable.List(variable.Leaf("a"), variable.Names("b")))
	require.ErrorIs(t, err, gosymgen.ErrShape)
}

func TestSpecString(t *testing.T) {
	require.Equal(t, "'t'", variable.Leaf("t").String())
	require.Equal(t, "['u', 'v']", variable.Names("u", "v").String())
	require.Equal(t, "[['p'], ['q']]", variable.List(variable.Names("p"), variable.Names("q")).String())
}

func TestPyTuple(t *testing.T) {
	require.Equal(t, "()", variable.PyTuple(nil))
	require.Equal(t, "(2,)", variable.PyTuple([]int{2}))
	require.Equal(t, "(2, 1)", variable.PyTuple([]int{2, 1}))
}

func TestNewValidation(t *testing.T) {
	cases := []struct {
		name    string
		varName string
		spec    variable.Spec
		wantErr error
	}{
		{"keyword", "lambda", variable.Spec{}, gosymgen.ErrIdentifier},
		{"not identifier", "2x", variable.Spec{}, gosymgen.ErrIdentifier},
		{"reserved prefix", "_out", variable.Spec{}, gosymgen.ErrIdentifier},
		{"bad element", "x", variable.Names("u", "for"), gosymgen.ErrIdentifier},
		{"duplicate element", "x", variable.Names("u", "u"), gosymgen.ErrNameConflict},
		{"name equals element", "x", variable.Names("x", "y"), gosymgen.ErrNameConflict},
		{"ragged", "x", variable.List(variable.Names("a"), variable.Leaf("b")), gosymgen.ErrShape},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := variable.New(tc.varName, tc.spec)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestNewScalar(t *testing.T) {
	v, err := variable.New("t", variable.Spec{})
	require.NoError(t, err)
	require.Equal(t, 0, v.Rank())
	require.Equal(t, []string{"t"}, v.Elements())
	require.True(t, v.Symbol().Equal(gosymgen.S("t")))

	// A rank-0 variable may rename its element.
	w, err := variable.New("w", variable.Leaf("omega"))
	require.NoError(t, err)
	require.Equal(t, "omega", w.Symbol().String())
}

func TestRenderUnpackVector(t *testing.T) {
	x := variable.MustNew("x", variable.Names("u", "v"))
	want := "x = _numpy.asarray(x, dtype=_numpy.float64)\n" +
		"if x.shape[-1:] != (2,):\n" +
		"    _msg = \"invalid shape for x, expected (...,2), got {}\"\n" +
		"    raise ValueError(_msg.format(x.shape))\n" +
		"# unpack `x` array elements\n" +
		"u = x[..., 0]\n" +
		"v = x[..., 1]\n"
	if diff := cmp.Diff(want, x.RenderUnpack("_numpy")); diff != "" {
		t.Errorf("unpack mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderUnpackMatrix(t *testing.T) {
	y := variable.MustNew("y", variable.List(variable.Names("p"), variable.Names("q")), variable.WithDType("float32"))
	got := y.RenderUnpack("np")
	require.Contains(t, got, "y = np.asarray(y, dtype=np.float32)\n")
	require.Contains(t, got, "if y.shape[-2:] != (2, 1):\n")
	require.Contains(t, got, "expected (...,2,1)")
	require.Contains(t, got, "p = y[..., 0, 0]\nq = y[..., 1, 0]\n")
}

func TestRenderUnpackScalar(t *testing.T) {
	tv := variable.MustNew("t", variable.Spec{})
	require.Equal(t, "t = _numpy.asarray(t, dtype=_numpy.float64)\n", tv.RenderUnpack("_numpy"))

	w := variable.MustNew("w", variable.Leaf("omega"))
	require.Contains(t, w.RenderUnpack("_numpy"), "omega = w[...]\n")
}

func TestBroadcastRepresentative(t *testing.T) {
	name, ok := variable.MustNew("x", variable.Names("u", "v")).BroadcastRepresentative()
	require.True(t, ok)
	require.Equal(t, "u", name)

	_, ok = variable.MustNew("e", variable.List()).BroadcastRepresentative()
	require.False(t, ok)
}

func TestSubstitutionMap(t *testing.T) {
	y := variable.MustNew("y", variable.List(variable.Names("p"), variable.Names("q")))
	val, err := tensor.FromSlice([]int{2, 1}, []float64{1.5, -2})
	require.NoError(t, err)

	subs, err := y.SubstitutionMap(val)
	require.NoError(t, err)
	require.Equal(t, map[string]float64{"p": 1.5, "q": -2}, subs)

	_, err = y.SubstitutionMap(tensor.Vector(1.5, -2))
	require.ErrorIs(t, err, gosymgen.ErrShape)
}

func TestPack(t *testing.T) {
	y := variable.MustNew("y", variable.List(variable.Names("p"), variable.Names("q")))
	got := y.Pack(map[string]float64{"q": 4, "other": 9}, 0)
	require.Equal(t, []int{2, 1}, got.Shape())
	require.Equal(t, []float64{0, 4}, got.Data())

	filled := y.Pack(nil, -1)
	require.Equal(t, []float64{-1, -1}, filled.Data())
}

func TestTableConflicts(t *testing.T) {
	x := variable.MustNew("x", variable.Names("u", "v"))

	_, err := variable.NewTable(x, variable.MustNew("z", variable.Names("v", "w")))
	require.ErrorIs(t, err, gosymgen.ErrNameConflict)

	_, err = variable.NewTable(x, variable.MustNew("x", variable.Spec{}))
	require.ErrorIs(t, err, gosymgen.ErrNameConflict)

	// A scalar named after another variable's element collides with it.
	_, err = variable.NewTable(x, variable.MustNew("u", variable.Spec{}))
	require.ErrorIs(t, err, gosymgen.ErrNameConflict)

	// A variable named after an element of a later variable.
	_, err = variable.NewTable(variable.MustNew("a", variable.Names("b")), variable.MustNew("c", variable.Names("a")))
	require.ErrorIs(t, err, gosymgen.ErrNameConflict)
}

func TestTableLookup(t *testing.T) {
	tbl, err := variable.NewTable(
		variable.MustNew("x", variable.Names("u", "v")),
		variable.MustNew("t", variable.Spec{}),
	)
	require.NoError(t, err)
	require.Equal(t, []string{"x", "t"}, tbl.Names())

	owner, ok := tbl.Owner("v")
	require.True(t, ok)
	require.Equal(t, "x", owner)

	_, err = tbl.Get("nope")
	require.ErrorIs(t, err, gosymgen.ErrUnknownKey)
}
