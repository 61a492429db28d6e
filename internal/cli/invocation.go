// Package cli parses command invocations and executes them against the
// wired services. Parsing is deterministic: it reads no environment and
// touches no files, so a parsed Invocation fully describes the run.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/choreworld/choreworld.github.io/internal/types"
)

// Command names one of the supported subcommands.
type Command string

const (
	CommandGenerate   Command = "generate"
	CommandNtfyURLs   Command = "ntfy-urls"
	CommandNotify     Command = "notify"
	CommandNotifyBins Command = "notify-bins"
	CommandServe      Command = "serve"
	CommandVersion    Command = "version"
)

const usageText = `choreworld renders the weekly chore site and sends the rotation notifications.

Usage:
  choreworld <command> [flags]

Commands:
  generate     Render the site for the current week into an output directory
  ntfy-urls    Mint or refresh each person's notification endpoint
  notify       Send everyone their chores for the week
  notify-bins  Remind whoever has the bins chore that they go out tonight
  serve        Serve a generated site directory for a local preview
  version      Print build information`

// GenerateOptions configures the generate command.
type GenerateOptions struct {
	Output string
}

// NtfyURLsOptions configures the ntfy-urls command. Output "-" writes to
// stdout. Existing merges with the table already at Output, preserving the
// endpoints of people still on a roster.
type NtfyURLsOptions struct {
	Host     string // empty means use the configured host
	Output   string
	Existing bool
	Indent   int
}

// NotifyOptions configures the notify and notify-bins commands.
type NotifyOptions struct {
	EndpointsFile string
	DryRun        bool
}

// ServeOptions configures the serve command.
type ServeOptions struct {
	Dir  string
	Addr string
}

// Invocation is the canonical description of one command run.
type Invocation struct {
	Command  Command
	Generate GenerateOptions
	NtfyURLs NtfyURLsOptions
	Notify   NotifyOptions
	Serve    ServeOptions
}

// InvocationError reports a parse failure together with the exit code the
// process should use.
type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func usageErrorf(format string, args ...any) error {
	return &InvocationError{ExitCode: types.ExitUsage, Message: fmt.Sprintf(format, args...)}
}

// ParseInvocation parses command-line arguments into an Invocation.
func ParseInvocation(args []string) (Invocation, error) {
	if len(args) == 0 {
		return Invocation{}, usageErrorf("%s", usageText)
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case string(CommandGenerate):
		return parseGenerate(rest)
	case string(CommandNtfyURLs):
		return parseNtfyURLs(rest)
	case string(CommandNotify):
		return parseNotify(CommandNotify, rest)
	case string(CommandNotifyBins):
		return parseNotify(CommandNotifyBins, rest)
	case string(CommandServe):
		return parseServe(rest)
	case string(CommandVersion):
		if len(rest) != 0 {
			return Invocation{}, usageErrorf("version takes no arguments")
		}
		return Invocation{Command: CommandVersion}, nil
	case "help", "-h", "--help":
		return Invocation{}, &InvocationError{ExitCode: types.ExitOK, Message: usageText}
	default:
		return Invocation{}, usageErrorf("unknown command %q\n\n%s", cmd, usageText)
	}
}

func parseGenerate(args []string) (Invocation, error) {
	fs := newFlagSet("generate")
	var output string
	fs.StringVar(&output, "output", "", "output directory for the rendered site")
	fs.StringVar(&output, "o", "", "shorthand for --output")

	if err := fs.Parse(args); err != nil {
		return Invocation{}, flagError("generate", err)
	}
	if fs.NArg() != 0 {
		return Invocation{}, usageErrorf("generate: unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if output == "" {
		return Invocation{}, usageErrorf("generate: --output is required")
	}

	return Invocation{
		Command:  CommandGenerate,
		Generate: GenerateOptions{Output: output},
	}, nil
}

func parseNtfyURLs(args []string) (Invocation, error) {
	fs := newFlagSet("ntfy-urls")
	opts := NtfyURLsOptions{}
	fs.StringVar(&opts.Host, "host", "", "notification host to mint endpoints under")
	fs.StringVar(&opts.Output, "output", "-", "table destination; - writes to stdout")
	fs.StringVar(&opts.Output, "o", "-", "shorthand for --output")
	fs.BoolVar(&opts.Existing, "existing", false, "merge with the table already at --output")
	fs.IntVar(&opts.Indent, "indent", 0, "pretty-print with this many spaces; 0 writes compact output")

	if err := fs.Parse(args); err != nil {
		return Invocation{}, flagError("ntfy-urls", err)
	}
	if fs.NArg() != 0 {
		return Invocation{}, usageErrorf("ntfy-urls: unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if opts.Indent < 0 {
		return Invocation{}, usageErrorf("ntfy-urls: --indent must not be negative")
	}
	if opts.Existing && opts.Output == "-" {
		return Invocation{}, usageErrorf("ntfy-urls: --existing requires --output to name a file")
	}

	return Invocation{Command: CommandNtfyURLs, NtfyURLs: opts}, nil
}

func parseNotify(cmd Command, args []string) (Invocation, error) {
	fs := newFlagSet(string(cmd))
	opts := NotifyOptions{}
	fs.BoolVar(&opts.DryRun, "dry-run", false, "compose and log messages without sending them")

	if err := fs.Parse(args); err != nil {
		return Invocation{}, flagError(string(cmd), err)
	}
	if fs.NArg() != 1 {
		return Invocation{}, usageErrorf("%s: exactly one endpoints file argument is required", cmd)
	}
	opts.EndpointsFile = fs.Arg(0)

	return Invocation{Command: cmd, Notify: opts}, nil
}

func parseServe(args []string) (Invocation, error) {
	fs := newFlagSet("serve")
	opts := ServeOptions{}
	fs.StringVar(&opts.Dir, "dir", "public", "generated site directory to serve")
	fs.StringVar(&opts.Addr, "addr", "127.0.0.1:8080", "listen address")

	if err := fs.Parse(args); err != nil {
		return Invocation{}, flagError("serve", err)
	}
	if fs.NArg() != 0 {
		return Invocation{}, usageErrorf("serve: unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	return Invocation{Command: CommandServe, Serve: opts}, nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // parse errors are returned, not printed
	return fs
}

// flagError normalizes flag-package errors: -h becomes a successful usage
// request, anything else a usage error.
func flagError(cmd string, err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return &InvocationError{ExitCode: types.ExitOK, Message: usageText}
	}
	return usageErrorf("%s: %v", cmd, err)
}

// ExitStatus maps an error from parsing or execution to a process exit code.
func ExitStatus(err error) int {
	if err == nil {
		return types.ExitOK
	}
	var invErr *InvocationError
	if errors.As(err, &invErr) {
		return invErr.ExitCode
	}
	var appErr *types.AppError
	if errors.As(err, &appErr) {
		return appErr.ExitStatus()
	}
	return types.ExitInternal
}
