// Package commands defines the draftsnap command line.
//
// It uses urfave/cli/v2: draw runs the interactive terminal session,
// replay runs scenario files headless and version prints build details.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dshills/draftsnap/internal/app"
)

// Build information, set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "draftsnap",
		Usage:   "snap-driven drafting in the terminal",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			DrawCommand(),
			ReplayCommand(),
			VersionCommand(),
		},
	}
}

// globalFlags returns the flags available to all commands.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "settings file (toml, yaml or json)",
			EnvVars: []string{"DRAFTSNAP_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "log level: trace, debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "append logs to this file",
		},
	}
}

// GlobalFlags holds the parsed global flags.
type GlobalFlags struct {
	Config   string
	LogLevel string
	LogFile  string
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Config:   c.String("config"),
		LogLevel: c.String("log-level"),
		LogFile:  c.String("log-file"),
	}
}

// options builds application options from the global flags. Logs go to
// the log file when one is given, otherwise to fallback. The returned
// function closes the log file.
func (g *GlobalFlags) options(fallback io.Writer) (app.Options, func(), error) {
	opts := app.Options{ConfigPath: g.Config, LogLevel: g.LogLevel, LogOutput: fallback}
	if g.LogFile == "" {
		return opts, func() {}, nil
	}
	f, err := os.OpenFile(g.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return opts, nil, fmt.Errorf("open log file: %w", err)
	}
	opts.LogOutput = f
	return opts, func() { _ = f.Close() }, nil
}

// VersionCommand prints build information.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print build information",
		Action: func(c *cli.Context) error {
			fmt.Fprintf(c.App.Writer, "draftsnap %s\ncommit: %s\nbuilt: %s\n", Version, Commit, BuildTime)
			return nil
		},
	}
}
