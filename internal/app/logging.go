package app

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/dshills/draftsnap/internal/config"
)

// LoggerName is the root logger name.
const LoggerName = "draftsnap"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger builds the root logger described by cfg. When w is non-nil it
// replaces the stderr and stdout outputs; a log file named by the "output"
// setting is still used. The returned closer releases that file.
func NewLogger(cfg config.LoggingConfig, w io.Writer) (hclog.Logger, io.Closer, error) {
	level := hclog.LevelFromString(cfg.Level)
	if level == hclog.NoLevel {
		return nil, nil, fmt.Errorf("logging level %q: %w", cfg.Level, config.ErrValidationFailed)
	}

	var closer io.Closer = nopCloser{}
	switch cfg.Output {
	case "", "stderr":
		if w == nil {
			w = os.Stderr
		}
	case "stdout":
		if w == nil {
			w = os.Stdout
		}
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:       LoggerName,
		Level:      level,
		Output:     w,
		JSONFormat: cfg.Format == "json",
	})
	return logger, closer, nil
}
