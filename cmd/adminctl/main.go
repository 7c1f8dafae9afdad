// Command adminctl operates the tutoring platform's admin API from a terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/tutorhub/console/internal/cli"
	"github.com/tutorhub/console/internal/config"
	"github.com/tutorhub/console/internal/console"
	apperrors "github.com/tutorhub/console/internal/errors"
	"github.com/tutorhub/console/internal/logging"
	"github.com/tutorhub/console/internal/session"
)

// Exit codes.
const (
	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 2
	exitExpired  = 3
	exitConflict = 4
)

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// app carries what every command needs.
type app struct {
	cfg     *config.Config
	console *console.Console
	out     *cli.Printer
	stdin   io.Reader
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("adminctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML configuration file")
	format := fs.String("o", cli.FormatTable, "output format: table or json")
	path := fs.String("jsonpath", "", "filter JSON output, e.g. $.items[*].email")
	logLevel := fs.String("log-level", "", "override LOG_LEVEL")
	fs.Usage = func() { usage(stderr, fs) }
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	out, err := cli.NewPrinter(stdout, stderr, *format, *path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return exitUsage
	}
	cmd, cmdArgs := rest[0], rest[1:]

	if cmd == "completion" {
		return exitCode(out, runCompletion(out, cmdArgs))
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		out.Error("%v", err)
		return exitFailure
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	log := logging.New("adminctl", cfg.Log.Level, cfg.Log.Format)
	log.SetOutput(stderr)

	c, err := console.New(cfg, console.Options{
		Notifier: session.NotifierFunc(func(_ context.Context, msg string) {
			out.Warning("%s", msg)
		}),
		Navigator: session.NavigatorFunc(func(_ context.Context, loginPath string) {
			out.Info("run `adminctl login` to sign in again (%s)", loginPath)
		}),
		Logger: log,
	})
	if err != nil {
		out.Error("%v", err)
		return exitFailure
	}
	defer c.Close()

	ctx = logging.WithTraceID(ctx, logging.NewTraceID())
	a := &app{cfg: cfg, console: c, out: out, stdin: stdin}

	handler, ok := commands[cmd]
	if !ok {
		out.Error("unknown command %q", cmd)
		fs.Usage()
		return exitUsage
	}
	return exitCode(out, handler(ctx, a, cmdArgs))
}

type command func(ctx context.Context, a *app, args []string) error

var commands map[string]command

func init() {
	commands = map[string]command{
		"login":     runLogin,
		"logout":    runLogout,
		"whoami":    runWhoami,
		"users":     runUsers,
		"roles":     runRoles,
		"teachers":  runTeachers,
		"tx":        runTransactions,
		"price":     runPrice,
		"discounts": runDiscounts,
		"dashboard": runDashboard,
		"coins":     runCoins,
		"watch":     runWatch,
	}
}

func exitCode(out *cli.Printer, err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage):
		return exitUsage
	case apperrors.IsSessionExpired(err):
		// the expiry handler has already told the operator
		return exitExpired
	case apperrors.IsConflict(err):
		out.Error("%s", apperrors.Message(err))
		return exitConflict
	case apperrors.IsValidation(err):
		out.Error("invalid input: %s", apperrors.Message(err))
		return exitUsage
	default:
		out.Error("%s", apperrors.Message(err))
		return exitFailure
	}
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: adminctl [flags] <command> [subcommand] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, name := range []string{"login", "logout", "whoami", "users", "roles", "teachers", "tx", "price", "discounts", "dashboard", "coins", "watch", "completion"} {
		subs := cli.Commands[name]
		if len(subs) == 0 {
			fmt.Fprintf(w, "  %s\n", name)
			continue
		}
		fmt.Fprintf(w, "  %-10s %s\n", name, strings.Join(subs, " | "))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fs.PrintDefaults()
}

func runCompletion(out *cli.Printer, args []string) error {
	fs := flag.NewFlagSet("completion", flag.ContinueOnError)
	fs.SetOutput(out.Err)
	install := fs.Bool("install", false, "install the script under $HOME")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != 1 {
		out.Error("usage: adminctl completion [-install] bash|zsh|fish")
		return errUsage
	}
	shell := fs.Arg(0)
	if !*install {
		return cli.GenerateCompletion(out.Out, shell)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	path, err := cli.InstallCompletion(home, shell)
	if err != nil {
		return err
	}
	out.Success("completion script installed to %s", path)
	return nil
}
