package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/njchilds90/gosymgen/internal/app"
	"github.com/njchilds90/gosymgen/printer"
)

// ExitError carries the process exit code for a usage error.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

// Parse processes command-line arguments. It returns the config, whether
// the program should exit cleanly (help was requested or no model given),
// or an *ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("symgen", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
symgen - generate numpy code from symbolic model declarations.

Usage:
  symgen [options] MODEL_PATH

Arguments:
  MODEL_PATH
    Path to a .hcl declaration file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	nameFlag := flagSet.String("name", "", "Model to emit. Required when the files declare more than one.")
	printerFlag := flagSet.String("printer", "numpy", "Expression printer. Options: 'numpy' or 'scipy'.")
	outFlag := flagSet.String("o", "", "Output file. Defaults to standard output.")
	numpyFlag := flagSet.String("numpy-alias", printer.DefaultNumpyAlias, "Name numpy is imported under.")
	scipyFlag := flagSet.String("scipy-alias", printer.DefaultScipyAlias, "Name scipy is imported under.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		slog.Debug("No model path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: "expected exactly one MODEL_PATH"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	cfg, err := app.NewConfig(app.Config{
		ModelPath:  flagSet.Arg(0),
		ModelName:  *nameFlag,
		Printer:    strings.ToLower(*printerFlag),
		OutputPath: *outFlag,
		NumpyAlias: *numpyFlag,
		ScipyAlias: *scipyFlag,
		LogFormat:  logFormat,
		LogLevel:   logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}
