// Package config resolves the tool configuration from the environment.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/sarchlab/topdown/topdown"
)

// Environment variables.
const (
	EnvHome      = "NPC_HOME"
	EnvVariant   = "TOPDOWN_VARIANT"
	EnvBadSpec   = "TOPDOWN_BADSPEC"
	EnvZeroGuard = "TOPDOWN_ZERO_GUARD"
	EnvDebug     = "TOPDOWN_DEBUG"
)

const (
	defaultVariant = "extended"
	defaultBadSpec = "v2"
)

// ConfigurationError reports a missing or invalid setting.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Key, e.Reason)
}

// Config holds the settings of one run.
type Config struct {
	// BaseDir is the project directory; logs live under BaseDir/build.
	BaseDir string
	// Variant is "minimal" or "extended".
	Variant string
	// BadSpecFormula is "v1" (with RecoveryBubbles) or "v2" (without).
	BadSpecFormula string
	// ZeroGuarded lists metrics that report 0 on a zero denominator in
	// addition to the defaults.
	ZeroGuarded []string
	// Debug enables debug logging.
	Debug bool
}

// Load reads the configuration from the environment through v and
// validates it. A missing NPC_HOME fails before any file is touched.
func Load(v *viper.Viper) (*Config, error) {
	bindings := map[string]string{
		"home":       EnvHome,
		"variant":    EnvVariant,
		"badspec":    EnvBadSpec,
		"zero_guard": EnvZeroGuard,
		"debug":      EnvDebug,
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	v.SetDefault("variant", defaultVariant)
	v.SetDefault("badspec", defaultBadSpec)

	cfg := &Config{
		BaseDir:        strings.TrimSpace(v.GetString("home")),
		Variant:        v.GetString("variant"),
		BadSpecFormula: v.GetString("badspec"),
		ZeroGuarded:    v.GetStringSlice("zero_guard"),
		Debug:          v.GetBool("debug"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if c.BaseDir == "" {
		return &ConfigurationError{Key: EnvHome, Reason: "environment variable is not set"}
	}
	if _, err := topdown.ParseVariant(c.Variant); err != nil {
		return &ConfigurationError{Key: EnvVariant, Reason: err.Error()}
	}
	if _, err := topdown.ParseBadSpecFormula(c.BadSpecFormula); err != nil {
		return &ConfigurationError{Key: EnvBadSpec, Reason: err.Error()}
	}
	return nil
}

// InputPath is the simulator log to analyze.
func (c *Config) InputPath() string {
	return filepath.Join(c.BaseDir, "build", "stderr.log")
}

// OutputDir is where reports are written.
func (c *Config) OutputDir() string {
	return filepath.Join(c.BaseDir, "build")
}

// CalculatorOptions translates the configuration into calculator options.
// Call Validate first.
func (c *Config) CalculatorOptions() []topdown.CalculatorOption {
	variant, _ := topdown.ParseVariant(c.Variant)
	formula, _ := topdown.ParseBadSpecFormula(c.BadSpecFormula)

	opts := []topdown.CalculatorOption{
		topdown.WithVariant(variant),
		topdown.WithBadSpecFormula(formula),
	}
	for _, name := range c.ZeroGuarded {
		opts = append(opts, topdown.WithPolicy(name, topdown.ZeroOnZero))
	}
	return opts
}

// Timestamped reports whether report file names carry a Unix timestamp.
func (c *Config) Timestamped() bool {
	v, _ := topdown.ParseVariant(c.Variant)
	return v == topdown.Extended
}
