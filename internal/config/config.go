package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dshills/treesel/internal/config/layer"
	"github.com/dshills/treesel/internal/config/loader"
	"github.com/dshills/treesel/internal/config/watcher"
)

// Layer names.
const (
	layerDefaults = "defaults"
	layerFile     = "file"
	layerEnv      = "environment"
	layerSession  = "session"
)

// Config provides access to the merged treesel configuration and reloads
// it when the configuration file changes.
type Config struct {
	mu     sync.RWMutex
	layers *layer.Manager

	path      string
	envPrefix string
	watch     bool
	debounce  time.Duration
	logger    *slog.Logger

	watcher  *watcher.Watcher
	handlers []func(*Config)
}

// Option configures a Config.
type Option func(*Config)

// WithFile sets the configuration file. TOML and YAML are supported.
func WithFile(path string) Option {
	return func(c *Config) {
		c.path = path
	}
}

// WithEnvPrefix sets the environment variable prefix, including the
// trailing underscore.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithWatcher enables reloading when the configuration file changes.
func WithWatcher(enable bool) Option {
	return func(c *Config) {
		c.watch = enable
	}
}

// WithDebounce sets the quiet period before a file change is reloaded.
func WithDebounce(d time.Duration) Option {
	return func(c *Config) {
		c.debounce = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Config holding only the built-in defaults. Call Load to
// read the file and environment.
func New(opts ...Option) *Config {
	c := &Config{
		envPrefix: loader.DefaultEnvPrefix,
		debounce:  100 * time.Millisecond,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "config")

	c.layers = layer.NewManager()
	c.layers.Put(layer.NewWithData(layerDefaults, layer.SourceBuiltin, defaultConfig()))
	return c
}

// DefaultPath returns the default configuration file,
// $XDG_CONFIG_HOME/treesel/treesel.toml or ~/.config/treesel/treesel.toml.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "treesel", "treesel.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "treesel", "treesel.toml")
}

// Path returns the configuration file path, or "" if none is used.
func (c *Config) Path() string {
	return c.path
}

// Load reads the configuration file and environment, validates the result
// and, if enabled, starts watching the file.
func (c *Config) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	layers, err := c.build()
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.layers = layers
	startWatch := c.watch && c.path != "" && c.watcher == nil
	c.mu.Unlock()

	if startWatch {
		if err := c.startWatcher(); err != nil {
			c.logger.Warn("config watcher not started", "path", c.path, "error", err)
		}
	}
	return nil
}

// Reload re-reads the configuration. On failure the previous configuration
// stays in effect. Change handlers run only if a setting changed.
func (c *Config) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	layers, err := c.build()
	if err != nil {
		c.logger.Error("config reload failed", "path", c.path, "error", err)
		return err
	}

	c.mu.Lock()
	old := c.layers.Merge()
	c.layers = layers
	handlers := make([]func(*Config), len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	changed := layer.Diff(old, layers.Merge())
	if len(changed) == 0 {
		return nil
	}
	c.logger.Info("config reloaded", "path", c.path, "changed", changed)
	c.notify(handlers)
	return nil
}

// build assembles and validates a fresh layer set. The session layer is
// carried over from the current configuration.
func (c *Config) build() (*layer.Manager, error) {
	m := layer.NewManager()
	m.Put(layer.NewWithData(layerDefaults, layer.SourceBuiltin, defaultConfig()))

	if c.path != "" {
		fl, err := loader.ForPath(c.path)
		if err != nil {
			return nil, err
		}
		data, err := fl.Load()
		if err != nil {
			return nil, err
		}
		if data != nil {
			l := layer.NewWithData(layerFile, layer.SourceFile, data)
			l.Path = c.path
			m.Put(l)
		}
	}

	env, err := loader.NewEnvLoader(c.envPrefix).Load()
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}
	if len(env) > 0 {
		m.Put(layer.NewWithData(layerEnv, layer.SourceEnv, env))
	}

	c.mu.RLock()
	if s, ok := c.layers.Layer(layerSession); ok {
		m.Put(s.Clone())
	}
	c.mu.RUnlock()

	if err := Validate(m.Merge()); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *Config) startWatcher() error {
	w, err := watcher.New(watcher.WithDebounce(c.debounce), watcher.WithLogger(c.logger))
	if err != nil {
		return err
	}
	if err := w.Watch(c.path); err != nil {
		_ = w.Close()
		return err
	}
	w.OnChange(c.handleFileChange)

	c.mu.Lock()
	c.watcher = w
	c.mu.Unlock()
	return nil
}

func (c *Config) handleFileChange(event watcher.Event) {
	c.logger.Debug("config file event", "path", event.Path, "op", event.Op)
	_ = c.Reload(context.Background())
}

// OnChange registers a handler called after the configuration changes,
// either by reload or by Set.
func (c *Config) OnChange(fn func(*Config)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, fn)
}

func (c *Config) notify(handlers []func(*Config)) {
	for _, fn := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.logger.Error("config change handler panicked", "panic", r)
				}
			}()
			fn(c)
		}()
	}
}

// Close stops watching the configuration file.
func (c *Config) Close() error {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	if w != nil {
		return w.Close()
	}
	return nil
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, _, ok := c.layers.Get(path)
	return v, ok
}

// Source returns the name of the layer that supplies path.
func (c *Config) Source(path string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, name, ok := c.layers.Get(path)
	return name, ok
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		return int(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
	}
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetDuration returns a duration at the given path. Strings use
// time.ParseDuration syntax; bare integers are seconds.
func (c *Config) GetDuration(path string) (time.Duration, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	d, err := toDuration(v)
	if err != nil {
		return 0, &TypeError{Path: path, Expected: "duration", Actual: typeName(v)}
	}
	return d, nil
}

// GetStringSlice returns a string slice at the given path. A single
// string is split on commas.
func (c *Config) GetStringSlice(path string) ([]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}
	s, ok := toStringSlice(v)
	if !ok {
		return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
	}
	return s, nil
}

// Set overrides a value for the rest of the session. The value is
// validated against the merged configuration before it is stored.
func (c *Config) Set(path string, value any) error {
	c.mu.Lock()

	session := layer.New(layerSession, layer.SourceSession)
	if s, ok := c.layers.Layer(layerSession); ok {
		session = s.Clone()
	}
	layer.SetByPath(session.Data, path, value)

	candidate := layer.DeepMerge(c.layers.Merge(), session.Data)
	if err := Validate(candidate); err != nil {
		c.mu.Unlock()
		return err
	}
	c.layers.Put(session)

	handlers := make([]func(*Config), len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	c.notify(handlers)
	return nil
}

// Merged returns the fully merged configuration.
func (c *Config) Merged() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.layers.Merge()
}

func toDuration(v any) (time.Duration, error) {
	switch val := v.(type) {
	case string:
		return time.ParseDuration(val)
	case int64:
		return time.Duration(val) * time.Second, nil
	case int:
		return time.Duration(val) * time.Second, nil
	case time.Duration:
		return val, nil
	default:
		return 0, fmt.Errorf("not a duration: %v", v)
	}
}

func toStringSlice(v any) ([]string, bool) {
	switch val := v.(type) {
	case []string:
		return val, true
	case []any:
		out := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out[i] = s
		}
		return out, true
	case string:
		out := []string{}
		for _, part := range strings.Split(val, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, true
	default:
		return nil, false
	}
}

// defaultConfig returns the built-in settings.
func defaultConfig() map[string]any {
	return map[string]any{
		"selection": map[string]any{
			"pairs":    []any{"()", "{}", "<>", "[]"},
			"disabled": []any{},
		},
		"keymaps": map[string]any{
			"initSelection":   "gnn",
			"nodeIncremental": "grn",
			"nodeDecremental": "grm",
			"visualInner":     "vi",
		},
		"logging": map[string]any{
			"level":  "info",
			"format": "text",
		},
		"parser": map[string]any{
			"cacheTTL": "10m",
		},
	}
}
