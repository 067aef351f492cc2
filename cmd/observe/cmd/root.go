// Package cmd implements the observe CLI commands.
//
// The command structure follows standard Go CLI patterns with a root command
// that dispatches to subcommands (demo, run). Each subcommand parses its own
// options with go-flags.
package cmd

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/go-drift/observe/cmd/observe/internal/logging"
	"github.com/go-drift/observe/pkg/errors"
)

// Version information set at build time.
var (
	Version   = "v0.1.0"
	BuildTime = "unknown"
)

// Output streams, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Command represents a CLI command.
type Command struct {
	Name        string
	Short       string
	Long        string
	Usage       string
	SubCommands []*Command

	// Options returns a fresh go-flags options struct, or nil if the command
	// takes no options.
	Options func() any
	Run     func(opts any, args []string) error
}

// commonOptions are accepted by every command.
type commonOptions struct {
	LogLevel logging.Level `short:"v" long:"verbosity" default:"warn" value-name:"LEVEL" description:"Log level (debug, info, warn, error)"`
}

func (o *commonOptions) common() *commonOptions { return o }

type hasCommon interface {
	common() *commonOptions
}

var rootCmd = &Command{
	Name:  "observe",
	Short: "observe - reactive values with weakly held observers",
	Long: `observe demonstrates an observable value that notifies weakly held
observers whenever it changes. Observers that are released by their owner
stop receiving updates and are pruned on the next notification.

Use "observe <command> --help" for more information about a command.`,
	Usage: "observe <command> [flags]",
}

// Commands registered with the CLI.
var commands = make(map[string]*Command)

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	rootCmd.SubCommands = append(rootCmd.SubCommands, cmd)
}

// Execute runs the CLI with the given arguments (without the program name).
func Execute(args []string) error {
	if len(args) == 0 {
		printHelp(rootCmd)
		return nil
	}

	switch args[0] {
	case "-h", "--help", "help":
		printHelp(rootCmd)
		return nil
	case "--version", "version":
		fmt.Fprintf(stdout, "observe version %s (built %s)\n", Version, BuildTime)
		return nil
	}

	cmdName := args[0]
	cmd, ok := commands[cmdName]
	if !ok {
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", cmdName)
		printHelp(rootCmd)
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	cmdArgs := args[1:]
	var opts any
	if cmd.Options != nil {
		opts = cmd.Options()
		rest, err := newParser(cmd, opts).ParseArgs(cmdArgs)
		if err != nil {
			var ferr *flags.Error
			if stderrors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
				printCommandHelp(cmd)
				return nil
			}
			return err
		}
		cmdArgs = rest
	} else {
		for _, arg := range cmdArgs {
			if arg == "-h" || arg == "--help" || arg == "help" {
				printCommandHelp(cmd)
				return nil
			}
		}
	}

	if c, ok := opts.(hasCommon); ok {
		setupLogging(c.common().LogLevel.Level)
	}

	return cmd.Run(opts, cmdArgs)
}

func newParser(cmd *Command, opts any) *flags.Parser {
	p := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	p.Name = rootCmd.Name + " " + cmd.Name
	return p
}

func setupLogging(level slog.Level) {
	logger := logging.New(stderr, level)
	slog.SetDefault(logger)
	errors.SetHandler(&errors.LogHandler{
		Logger:  logger,
		Verbose: level <= slog.LevelDebug,
	})
}

func printHelp(cmd *Command) {
	fmt.Fprintln(stdout, cmd.Long)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Usage:")
	fmt.Fprintf(stdout, "  %s\n", cmd.Usage)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Commands:")
	for _, sub := range cmd.SubCommands {
		fmt.Fprintf(stdout, "  %-14s %s\n", sub.Name, sub.Short)
	}
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Flags:")
	fmt.Fprintln(stdout, "  -h, --help           Show help for a command")
	fmt.Fprintln(stdout, "  --version            Show version information")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Examples:")
	fmt.Fprintln(stdout, "  observe demo                     Run the built-in demonstration")
	fmt.Fprintln(stdout, "  observe run scenario.yaml        Replay a scenario")
	fmt.Fprintln(stdout, "  observe run -o chart.png s.yaml  Replay and chart the value history")
}

func printCommandHelp(cmd *Command) {
	fmt.Fprintln(stdout, cmd.Long)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Usage:")
	fmt.Fprintf(stdout, "  %s\n", cmd.Usage)
	if cmd.Options != nil {
		fmt.Fprintln(stdout)
		newParser(cmd, cmd.Options()).WriteHelp(stdout)
	}
}
