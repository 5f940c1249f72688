package app

import (
	"errors"
	"fmt"

	"github.com/njchilds90/gosymgen/printer"
	"github.com/njchilds90/gosymgen/variable"
)

// Config holds everything an App needs for one run.
type Config struct {
	ModelPath  string // declaration file or directory
	ModelName  string // model to emit; empty when the files declare exactly one
	Printer    string // "numpy" or "scipy"
	OutputPath string // empty: write to the App's output writer

	NumpyAlias string
	ScipyAlias string

	LogFormat string
	LogLevel  string
}

// NewConfig fills defaults and validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ModelPath == "" {
		return nil, errors.New("ModelPath is a required configuration field and cannot be empty")
	}
	if cfg.Printer == "" {
		cfg.Printer = "numpy"
	}
	if cfg.NumpyAlias == "" {
		cfg.NumpyAlias = printer.DefaultNumpyAlias
	}
	if cfg.ScipyAlias == "" {
		cfg.ScipyAlias = printer.DefaultScipyAlias
	}
	if _, err := printer.ByName(cfg.Printer, cfg.NumpyAlias, cfg.ScipyAlias); err != nil {
		return nil, err
	}
	for _, alias := range []string{cfg.NumpyAlias, cfg.ScipyAlias} {
		if !validAlias(alias) {
			return nil, fmt.Errorf("module alias %q is not a valid identifier", alias)
		}
	}
	return &cfg, nil
}

// validAlias accepts identifiers, including the underscore-prefixed names
// generated code uses for its own imports.
func validAlias(s string) bool {
	for len(s) > 0 && s[0] == '_' {
		s = s[1:]
	}
	return variable.IsIdentifier(s)
}
