package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/njchilds90/gosymgen/internal/app"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse([]string{"-printer", "SciPy", "-name", "Example", "-o", "gen.py", "-log-level", "DEBUG", "model.hcl"}, &out)
	require.NoError(t, err)
	require.False(t, exit)
	require.Equal(t, &app.Config{
		ModelPath:  "model.hcl",
		ModelName:  "Example",
		Printer:    "scipy",
		OutputPath: "gen.py",
		NumpyAlias: "_numpy",
		ScipyAlias: "_scipy",
		LogFormat:  "text",
		LogLevel:   "debug",
	}, cfg)
}

func TestParseExitsCleanly(t *testing.T) {
	for _, args := range [][]string{{}, {"-h"}} {
		var out bytes.Buffer
		cfg, exit, err := Parse(args, &out)
		require.NoError(t, err)
		require.True(t, exit)
		require.Nil(t, cfg)
		require.Contains(t, out.String(), "Usage:")
	}
}

func TestParseUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"-bogus", "m.hcl"}},
		{"bad log format", []string{"-log-format", "xml", "m.hcl"}},
		{"bad log level", []string{"-log-level", "loud", "m.hcl"}},
		{"bad printer", []string{"-printer", "latex", "m.hcl"}},
		{"two paths", []string{"a.hcl", "b.hcl"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			_, _, err := Parse(tt.args, &out)
			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr), "want *ExitError, got %v", err)
			require.Equal(t, 2, exitErr.Code)
		})
	}
}
