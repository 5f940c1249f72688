package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	gosymgen "github.com/njchilds90/gosymgen"
	"github.com/njchilds90/gosymgen/declfile"
	"github.com/njchilds90/gosymgen/internal/ctxlog"
	"github.com/njchilds90/gosymgen/model"
	"github.com/njchilds90/gosymgen/printer"
)

// App runs the generator for one Config.
type App struct {
	cfg    *Config
	outW   io.Writer
	logger *slog.Logger
}

// New returns an App that writes the module to outW, unless the config
// names an output file, and logs to logW.
func New(cfg *Config, outW, logW io.Writer) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")
	return &App{cfg: cfg, outW: outW, logger: logger}
}

// Run loads the declarations, builds the selected model and writes the
// emitted module.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "model_path", a.cfg.ModelPath)

	defs, err := declfile.Load(ctx, a.cfg.ModelPath)
	if err != nil {
		return fmt.Errorf("failed to load declarations: %w", err)
	}
	p, err := printer.ByName(a.cfg.Printer, a.cfg.NumpyAlias, a.cfg.ScipyAlias)
	if err != nil {
		return err
	}
	src, err := Generate(ctx, defs, a.cfg.ModelName, p)
	if err != nil {
		return err
	}

	if a.cfg.OutputPath == "" {
		_, err = io.WriteString(a.outW, src)
		return err
	}
	if err := os.WriteFile(a.cfg.OutputPath, []byte(src), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", a.cfg.OutputPath, err)
	}
	a.logger.Info("Module written.", "path", a.cfg.OutputPath, "bytes", len(src))
	return nil
}

// Generate builds the model called name, or the only model when name is
// empty, and emits it as a Python module with p.
func Generate(ctx context.Context, defs []*model.Definition, name string, p printer.Printer) (string, error) {
	logger := ctxlog.FromContext(ctx)
	def, err := selectDefinition(defs, name)
	if err != nil {
		return "", err
	}
	m, err := model.New(def, model.WithLogger(logger))
	if err != nil {
		return "", fmt.Errorf("failed to build model: %w", err)
	}
	src, err := m.EmitModule(p)
	if err != nil {
		return "", fmt.Errorf("failed to emit model %s: %w", m.Name(), err)
	}
	logger.Debug("Module emitted.", "model", m.Name(), "functions", len(m.Functions()))
	return src, nil
}

func selectDefinition(defs []*model.Definition, name string) (*model.Definition, error) {
	names := make([]string, len(defs))
	for i, d := range defs {
		if name != "" && d.Name == name {
			return d, nil
		}
		names[i] = d.Name
	}
	switch {
	case name != "":
		return nil, fmt.Errorf("model %q not declared (have %s): %w", name, strings.Join(names, ", "), gosymgen.ErrUnknownKey)
	case len(defs) == 1:
		return defs[0], nil
	case len(defs) == 0:
		return nil, fmt.Errorf("no model declared: %w", gosymgen.ErrUnknownKey)
	}
	return nil, fmt.Errorf("several models declared (%s), choose one by name: %w", strings.Join(names, ", "), gosymgen.ErrUnknownKey)
}
