// Command cart runs single points, numerical gradients and finite-difference
// Hessians with xtb.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/ntBre/go-xtb/internal/cart"
	"github.com/ntBre/go-xtb/internal/cli"
	"github.com/ntBre/go-xtb/internal/ctxlog"
	"github.com/ntBre/go-xtb/libxtb"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:], nil); err != nil {
		stop()
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run parses args, loads the input and runs it, writing results to outW
// and logs to logW. A nil engine selects the native library.
func run(ctx context.Context, outW, logW io.Writer, args []string, engine libxtb.Engine) error {
	cfg, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger := cart.NewLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx = ctxlog.WithLogger(ctx, logger)

	in, err := cart.LoadInput(cfg.InputFile)
	if err != nil {
		return err
	}
	if err := cfg.Apply(in); err != nil {
		return fmt.Errorf("%s: %w", cfg.InputFile, err)
	}

	if _, err := cart.Run(ctx, in, outW, engine); err != nil {
		logger.Error("run failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}
