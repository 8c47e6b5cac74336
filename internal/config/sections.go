package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dshills/treesel/internal/config/layer"
	"github.com/dshills/treesel/internal/selection/trim"
)

// Section accessors return snapshot structs. Mutating the returned struct
// does not modify the configuration; use Config.Set.

// SelectionConfig holds the selection engine settings.
type SelectionConfig struct {
	// Pairs are the delimiter pairs stripped by trimming, checked in order.
	Pairs []trim.Pair

	// Disabled lists filetypes for which selection is turned off.
	Disabled []string
}

// KeymapConfig holds the key sequences bound to the selection actions.
type KeymapConfig struct {
	InitSelection   string
	NodeIncremental string
	NodeDecremental string
	VisualInner     string
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string

	// Format is text or json.
	Format string
}

// ParserConfig holds syntax parser settings.
type ParserConfig struct {
	// CacheTTL is how long a parsed tree is kept for an unchanged buffer.
	CacheTTL time.Duration
}

// Selection returns the selection settings.
func (c *Config) Selection() SelectionConfig {
	pairs := trim.DefaultPairs()
	if v, ok := c.Get("selection.pairs"); ok {
		if p, err := parsePairs(v); err == nil {
			pairs = p
		}
	}
	return SelectionConfig{
		Pairs:    pairs,
		Disabled: c.getStringSliceOr("selection.disabled", nil),
	}
}

// Keymaps returns the selection key bindings.
func (c *Config) Keymaps() KeymapConfig {
	return KeymapConfig{
		InitSelection:   c.getStringOr("keymaps.initSelection", "gnn"),
		NodeIncremental: c.getStringOr("keymaps.nodeIncremental", "grn"),
		NodeDecremental: c.getStringOr("keymaps.nodeDecremental", "grm"),
		VisualInner:     c.getStringOr("keymaps.visualInner", "vi"),
	}
}

// Logging returns the log settings.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level:  c.getStringOr("logging.level", "info"),
		Format: c.getStringOr("logging.format", "text"),
	}
}

// Parser returns the parser settings.
func (c *Config) Parser() ParserConfig {
	return ParserConfig{
		CacheTTL: c.getDurationOr("parser.cacheTTL", 10*time.Minute),
	}
}

func (c *Config) getStringOr(path, def string) string {
	if v, err := c.GetString(path); err == nil {
		return v
	}
	return def
}

func (c *Config) getDurationOr(path string, def time.Duration) time.Duration {
	if v, err := c.GetDuration(path); err == nil {
		return v
	}
	return def
}

func (c *Config) getStringSliceOr(path string, def []string) []string {
	if v, err := c.GetStringSlice(path); err == nil {
		return v
	}
	return def
}

// parsePairs reads delimiter pairs written as two-character strings ("()"),
// as {open, close} tables, or as one comma-separated string.
func parsePairs(v any) ([]trim.Pair, error) {
	var items []any
	switch val := v.(type) {
	case []any:
		items = val
	case []string:
		for _, s := range val {
			items = append(items, s)
		}
	case string:
		for _, s := range strings.Split(val, ",") {
			if s = strings.TrimSpace(s); s != "" {
				items = append(items, s)
			}
		}
	default:
		return nil, &ValidationError{Path: "selection.pairs", Message: "expected a list of pairs", Value: v}
	}

	pairs := make([]trim.Pair, 0, len(items))
	for _, item := range items {
		var p trim.Pair
		switch val := item.(type) {
		case string:
			if utf8.RuneCountInString(val) != 2 {
				return nil, &ValidationError{Path: "selection.pairs", Message: "pair must be two characters", Value: val}
			}
			r, size := utf8.DecodeRuneInString(val)
			p = trim.Pair{Open: string(r), Close: val[size:]}
		case map[string]any:
			open, _ := val["open"].(string)
			closing, _ := val["close"].(string)
			p = trim.Pair{Open: open, Close: closing}
		default:
			return nil, &ValidationError{Path: "selection.pairs", Message: "unsupported pair", Value: item}
		}
		if !p.Valid() {
			return nil, &ValidationError{Path: "selection.pairs", Message: "delimiters must be single characters", Value: p.String()}
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Validate checks a merged configuration and returns every problem found.
func Validate(data map[string]any) error {
	var errs []error

	if v, ok := layer.GetByPath(data, "selection.pairs"); ok {
		if _, err := parsePairs(v); err != nil {
			errs = append(errs, err)
		}
	}
	if v, ok := layer.GetByPath(data, "selection.disabled"); ok {
		if _, ok := toStringSlice(v); !ok {
			errs = append(errs, &ValidationError{Path: "selection.disabled", Message: "expected a list of filetypes", Value: v})
		}
	}

	for _, key := range []string{"initSelection", "nodeIncremental", "nodeDecremental", "visualInner"} {
		path := "keymaps." + key
		v, ok := layer.GetByPath(data, path)
		if !ok {
			continue
		}
		if s, isStr := v.(string); !isStr || strings.TrimSpace(s) == "" {
			errs = append(errs, &ValidationError{Path: path, Message: "key sequence must be a non-empty string", Value: v})
		}
	}

	errs = append(errs, checkEnum(data, "logging.level", logLevels)...)
	errs = append(errs, checkEnum(data, "logging.format", logFormats)...)

	if v, ok := layer.GetByPath(data, "parser.cacheTTL"); ok {
		if d, err := toDuration(v); err != nil || d < 0 {
			errs = append(errs, &ValidationError{Path: "parser.cacheTTL", Message: "expected a non-negative duration", Value: v})
		}
	}

	return errors.Join(errs...)
}

func checkEnum(data map[string]any, path string, allowed []string) []error {
	v, ok := layer.GetByPath(data, path)
	if !ok {
		return nil
	}
	s, _ := v.(string)
	for _, a := range allowed {
		if strings.EqualFold(s, a) {
			return nil
		}
	}
	return []error{&ValidationError{
		Path:    path,
		Message: fmt.Sprintf("must be one of %s", strings.Join(allowed, ", ")),
		Value:   v,
	}}
}
