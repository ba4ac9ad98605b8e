// Package cli turns command-line arguments into a cart.Config.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/ntBre/go-xtb/internal/cart"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns the Config, whether
// the program should exit cleanly (after -h or without an input file), or
// an *ExitError.
func Parse(args []string, output io.Writer) (*cart.Config, bool, error) {
	flagSet := flag.NewFlagSet("cart", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
cart - energies, gradients and Hessians with xtb.

Usage:
  cart [options] INPUT

Arguments:
  INPUT
    A keyword input file, or a TOML file with a .toml extension.

Options:
`)
		flagSet.PrintDefaults()
	}

	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", 0, "Number of concurrent workers, each with its own engine. 0 keeps the input's value.")
	derivFlag := flagSet.Int("derivative", -1, "0: single point, 1: numerical gradient, 2: Hessian. -1 keeps the input's value.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: "expected exactly one input file"}
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
	if *workersFlag < 0 {
		return nil, false, &ExitError{Code: 2, Message: "invalid workers: must not be negative"}
	}
	if *derivFlag < -1 || *derivFlag > 2 {
		return nil, false, &ExitError{Code: 2, Message: "invalid derivative: must be 0, 1 or 2"}
	}

	return &cart.Config{
		InputFile:  flagSet.Arg(0),
		LogLevel:   logLevel,
		LogFormat:  logFormat,
		Workers:    *workersFlag,
		Derivative: *derivFlag,
	}, false, nil
}
