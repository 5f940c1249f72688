package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gosymgen "github.com/njchilds90/gosymgen"
	"github.com/njchilds90/gosymgen/internal/cli"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
model "Example" {
  variable "x" { spec = ["u", "v"] }
  variable "t" {}
  function "f" {
    args = ["t", "x"]
    expr = [x.v, pow(t, 2) + x.u]
  }
  derivative "df_dx" {
    of  = "f"
    wrt = ["x"]
  }
  sparse "df_dx" {}
}
`), 0o644))

	var out, errOut bytes.Buffer
	require.NoError(t, run(&out, &errOut, []string{path}))
	src := out.String()
	require.True(t, strings.HasPrefix(src, "import numpy as _numpy\n\n\nclass Example:\n"), src)
	require.Contains(t, src, "    df_dx_ind = ([0, 1], [1, 0])\n")
	require.Contains(t, src, "    def df_dx_val(t, x):\n")
	require.Contains(t, src, "        _out[..., 1] = t**2 + u\n")
}

func TestRunErrors(t *testing.T) {
	var out, errOut bytes.Buffer
	err := run(&out, &errOut, []string{"-printer", "nope", "m.hcl"})
	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))

	path := filepath.Join(t.TempDir(), "empty.hcl")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	err = run(&out, &errOut, []string{path})
	require.ErrorIs(t, err, gosymgen.ErrUnknownKey)
}
