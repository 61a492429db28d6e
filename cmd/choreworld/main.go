// Package main is the choreworld command line tool.
//
// choreworld renders the weekly chore rotation into a static site and sends
// each person their chores over ntfy. One binary carries every operational
// surface:
//
//	choreworld generate --output public
//	choreworld ntfy-urls --host https://ntfy.sh --output endpoints.json
//	choreworld notify endpoints.json
//	choreworld notify-bins endpoints.json
//	choreworld serve --dir public
//	choreworld version
//
// Runtime settings come from the environment (optionally via a .env file);
// see internal/config for the variables and their defaults. Commands exit 0
// on success, 2 on usage errors, and a per-error-class code otherwise.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/choreworld/choreworld.github.io/internal/cli"
	"github.com/choreworld/choreworld.github.io/internal/config"
	"github.com/choreworld/choreworld.github.io/internal/types"
)

func main() {
	inv, err := cli.ParseInvocation(os.Args[1:])
	if err != nil {
		var invErr *cli.InvocationError
		if errors.As(err, &invErr) {
			// Requested help goes to stdout; actual usage errors to stderr.
			out := os.Stderr
			if invErr.ExitCode == types.ExitOK {
				out = os.Stdout
			}
			fmt.Fprintln(out, invErr.Message)
			os.Exit(invErr.ExitCode)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(types.ExitUsage)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "choreworld: invalid configuration: %v\n", err)
		os.Exit(types.ExitConfig)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := cli.NewApp(cfg, logger, os.Stdout)
	if err := app.Run(ctx, inv); err != nil {
		logger.Error("command failed", "command", string(inv.Command), "error", err)
		os.Exit(cli.ExitStatus(err))
	}
}

// logLevel maps the configured level name to its slog level. The config
// validator has already restricted the value to the known names.
func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
