package config

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/dshills/draftsnap/internal/config/loader"
	"github.com/dshills/draftsnap/internal/config/notify"
	"github.com/dshills/draftsnap/internal/config/watcher"
)

// DefaultEnvPrefix prefixes every environment override, e.g.
// DRAFTSNAP_SNAP_DISTANCE.
const DefaultEnvPrefix = "DRAFTSNAP"

// Config holds the current settings and reloads them on demand.
type Config struct {
	mu       sync.RWMutex
	settings Settings
	path     string
	env      *loader.EnvLoader
	fs       loader.FileSystem
	notifier *notify.Notifier
	watcher  *watcher.Watcher
	logger   hclog.Logger
	closed   bool
}

// Option configures a Config.
type Option func(*Config)

// WithFile reads settings from path (.toml, .yaml or .yml).
func WithFile(path string) Option {
	return func(c *Config) { c.path = path }
}

// WithEnvPrefix changes the environment prefix. An empty prefix disables
// environment overrides.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		if prefix == "" {
			c.env = nil
			return
		}
		c.env = loader.NewEnvLoader(prefix)
	}
}

// WithFileSystem reads files through fsys.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(c *Config) { c.fs = fsys }
}

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a configuration holding the defaults. Call Load to read the
// file and the environment.
func New(opts ...Option) *Config {
	c := &Config{
		settings: Default(),
		env:      loader.NewEnvLoader(DefaultEnvPrefix),
		fs:       loader.DefaultFS(),
		notifier: notify.New(),
		logger:   hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load builds settings from defaults, the file, and the environment, in
// that order, and validates the result. On error the previous settings
// stay in effect. Changed settings are reported to subscribers.
func Load(opts ...Option) (*Config, error) {
	c := New(opts...)
	if err := c.Load(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads the sources again. See the package-level Load.
func (c *Config) Load() error {
	s := Default()
	source := "defaults"
	if c.path != "" {
		fl, err := loader.NewFileLoaderWithFS(c.fs, c.path)
		if err != nil {
			return err
		}
		found, err := fl.Load(&s)
		if err != nil {
			return err
		}
		if found {
			source = c.path
		}
	}
	if c.env != nil {
		if err := c.env.Load(&s); err != nil {
			return err
		}
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("config %s: %w", source, err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	old := c.settings
	c.settings = s.Clone()
	c.mu.Unlock()

	changes := Diff(old, s, source)
	c.logger.Debug("settings loaded", "source", source, "changes", len(changes))
	c.notifier.NotifyAll(changes)
	return nil
}

// Settings returns a copy of the current settings.
func (c *Config) Settings() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings.Clone()
}

// Path returns the settings file, if any.
func (c *Config) Path() string { return c.path }

// Subscribe registers an observer for every change.
func (c *Config) Subscribe(obs notify.Observer) *notify.Subscription {
	return c.notifier.Subscribe(obs)
}

// SubscribePath registers an observer for changes at or below path.
func (c *Config) SubscribePath(path string, obs notify.Observer) *notify.Subscription {
	return c.notifier.SubscribePath(path, obs)
}

// Watch reloads the settings whenever the file changes. Reload failures
// are reported as notify.ChangeError and leave the settings untouched.
func (c *Config) Watch(opts ...watcher.Option) error {
	if c.path == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.watcher != nil {
		return nil
	}

	opts = append([]watcher.Option{watcher.WithLogger(c.logger.Named("watch"))}, opts...)
	w, err := watcher.New(opts...)
	if err != nil {
		return err
	}
	if err := w.Watch(c.path); err != nil {
		_ = w.Stop()
		return err
	}
	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			c.logger.Warn("settings file gone, keeping current settings", "path", ev.Path)
			return
		}
		if err := c.Load(); err != nil {
			c.logger.Error("reload failed", "path", ev.Path, "error", err)
			c.notifier.NotifyError(ev.Path, err)
			return
		}
		c.notifier.NotifyReload(ev.Path)
	})
	w.Start()
	c.watcher = w
	return nil
}

// Close stops watching and drops every subscription.
func (c *Config) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	c.notifier.Close()
	if w != nil {
		return w.Stop()
	}
	return nil
}
