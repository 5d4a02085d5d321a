package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/dshills/draftsnap/internal/app"
	"github.com/dshills/draftsnap/internal/scenario"
)

// ReplayCommand runs scenario files without a terminal and prints a JSON
// summary.
func ReplayCommand() *cli.Command {
	return &cli.Command{
		Name:      "replay",
		Usage:     "run scenario files headless",
		ArgsUsage: "<file or directory>...",
		Flags: []cli.Flag{
			&cli.Float64Flag{
				Name:  "width",
				Usage: "view width in pixels",
				Value: 800,
			},
			&cli.Float64Flag{
				Name:  "height",
				Usage: "view height in pixels",
				Value: 600,
			},
		},
		Action: runReplay,
	}
}

func runReplay(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("replay: no scenario files given")
	}
	files, err := scenarioFiles(c.Args().Slice())
	if err != nil {
		return err
	}

	g := ParseGlobalFlags(c)
	opts, closeLog, err := g.options(c.App.ErrWriter)
	if err != nil {
		return err
	}
	defer closeLog()
	opts.Width, opts.Height = c.Float64("width"), c.Float64("height")

	var sum scenario.Summary
	for _, path := range files {
		rep, err := replayFile(opts, path)
		if rep == nil {
			rep = &scenario.Report{Name: path}
		}
		if err != nil && !errors.Is(err, scenario.ErrFailed) {
			rep.Error = err.Error()
		}
		sum.Add(rep)
	}

	if err := scenario.WriteJSON(c.App.Writer, &sum); err != nil {
		return err
	}
	if sum.Failed > 0 {
		return fmt.Errorf("%d of %d scenario(s): %w", sum.Failed, len(sum.Reports), scenario.ErrFailed)
	}
	return nil
}

// replayFile runs one scenario on a fresh application.
func replayFile(opts app.Options, path string) (*scenario.Report, error) {
	s, err := scenario.Load(path)
	if err != nil {
		return nil, err
	}
	a, err := app.New(opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = a.Shutdown() }()
	return scenario.NewRunner(a).Run(s)
}

// scenarioFiles expands directories into the scenario files they contain,
// sorted by path. Files named on the command line are kept as given.
func scenarioFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		var found []string
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			if _, err := scenario.FormatOf(path); err == nil {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}
