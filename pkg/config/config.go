// Package config loads the optional ontoview configuration file.
//
// Files are TOML (.toml) or YAML (.yaml, .yml). Every key is optional;
// missing keys keep the values from [Default]. Unknown keys are rejected so
// that typos surface as errors instead of silently ignored settings.
//
//	[layout]
//	node_width = 200
//	horizontal_gap = 24
//	vertical_spacing = 110
//
//	[view]
//	group_threshold = 15
//	initial_depth = 2
//
//	[cache]
//	redis_addr = "localhost:6379"
//	ttl = "12h"
//
//	[metrics]
//	addr = "localhost:9090"
//
// Command-line flags take precedence over file values; the CLI applies
// only the flags the user actually set.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/ontoview/pkg/errors"
	"github.com/matzehuels/ontoview/pkg/hierarchy"
	"github.com/matzehuels/ontoview/pkg/hierarchy/layout"
)

// Config is the root of the configuration file.
type Config struct {
	Layout  layout.Config `toml:"layout" yaml:"layout"`
	View    ViewConfig    `toml:"view" yaml:"view"`
	Cache   CacheConfig   `toml:"cache" yaml:"cache"`
	Metrics MetricsConfig `toml:"metrics" yaml:"metrics"`
}

// ViewConfig controls the initial interactive state.
type ViewConfig struct {
	// GroupThreshold is the child count above which children are grouped
	// by first letter.
	GroupThreshold int `toml:"group_threshold" yaml:"group_threshold" validate:"min=1"`

	// InitialDepth expands every class shallower than this depth on load.
	// 1 shows the root and its children.
	InitialDepth int `toml:"initial_depth" yaml:"initial_depth" validate:"min=1"`
}

// CacheConfig selects and tunes the cache backend.
type CacheConfig struct {
	// Dir overrides the file cache directory.
	Dir string `toml:"dir" yaml:"dir"`

	// RedisAddr switches to the Redis backend when set.
	RedisAddr string `toml:"redis_addr" yaml:"redis_addr"`

	// TTL overrides the expiry of every cached entry.
	TTL Duration `toml:"ttl" yaml:"ttl"`

	Disabled bool `toml:"disabled" yaml:"disabled"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Addr is the listen address for /metrics. Empty disables the endpoint.
	Addr string `toml:"addr" yaml:"addr" validate:"omitempty,hostname_port"`
}

// Duration is a time.Duration written as a Go duration string ("12h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: layout.DefaultConfig(),
		View: ViewConfig{
			GroupThreshold: hierarchy.DefaultGroupThreshold,
			InitialDepth:   1,
		},
	}
}

var validate = validator.New()

// Validate checks every field, returning an INVALID_CONFIG error naming the
// first offending key.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl: must not be negative")
	}
	return nil
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "validate config")
	}
	e := verrs[0]
	switch e.Tag() {
	case "gt", "gte", "min":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: must be %s %s", e.Namespace(), bound(e.Tag()), e.Param())
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "%s: invalid value %v", e.Namespace(), e.Value())
	}
}

func bound(tag string) string {
	if tag == "gt" {
		return "greater than"
	}
	return "at least"
}

// Load reads the configuration file at path on top of [Default] and
// validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", path)
		}
	default:
		return Config{}, errors.New(errors.ErrCodeInvalidFormat, "%s: config must be .toml, .yaml or .yml", path)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadOrDefault loads path, or returns [Default] when path is empty.
func LoadOrDefault(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
