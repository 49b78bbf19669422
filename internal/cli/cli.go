package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/stackforge/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("stackforge", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
stackforge - A typed configuration-synthesis engine.

Usage:
  stackforge [options] [PARAMS_PATH]

Arguments:
  PARAMS_PATH
    Path to an architecture parameter file (.hcl, .json or .yaml).

Options:
`)
		flagSet.PrintDefaults()
	}

	paramsFlag := flagSet.String("params", "", "Path to the parameter file.")
	pFlag := flagSet.String("p", "", "Path to the parameter file (shorthand).")
	outFlag := flagSet.String("out", "", "Path for the emitted document. Empty writes to stdout.")
	envFlag := flagSet.String("env", "", "Environment name; overrides the parameter file.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text', 'json' or 'pretty'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *paramsFlag != "" {
		path = *paramsFlag
	} else if *pFlag != "" {
		path = *pFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Params path determined.", "path", path)

	if path == "" {
		slog.Debug("No params path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" && logFormat != "pretty" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text', 'json' or 'pretty'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ParamsPath:  path,
		OutPath:     *outFlag,
		Environment: *envFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
