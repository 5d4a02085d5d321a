package commands

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/dshills/draftsnap/internal/app"
	"github.com/dshills/draftsnap/internal/renderer/backend"
)

// DrawCommand runs the interactive session in the terminal.
func DrawCommand() *cli.Command {
	return &cli.Command{
		Name:  "draw",
		Usage: "draw in the terminal",
		Description: "Keys: l line, b box, a array, w wire, f face, ^Z undo, ^Y redo, q quit.\n" +
			"The terminal owns the screen, so logs are dropped unless --log-file is set.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "serve Prometheus metrics on this address, e.g. :9090",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "reload the settings file when it changes",
				Value: true,
			},
		},
		Action: runDraw,
	}
}

func runDraw(c *cli.Context) error {
	g := ParseGlobalFlags(c)
	opts, closeLog, err := g.options(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()
	opts.Watch = c.Bool("watch") && g.Config != ""

	a, err := app.New(opts)
	if err != nil {
		return err
	}
	defer func() { _ = a.Shutdown() }()

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	if addr := c.String("metrics-addr"); addr != "" {
		go func() {
			if err := a.ServeMetrics(ctx, addr); err != nil {
				a.Logger().Error("metrics server stopped", "error", err)
			}
		}()
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	go func() {
		select {
		case <-signals:
			a.Quit()
		case <-ctx.Done():
		}
	}()

	term, err := backend.NewTerminal()
	if err != nil {
		return err
	}
	return a.Run(term)
}
