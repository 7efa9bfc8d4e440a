// Package config provides configuration loading and access for the overlay.
package config

import (
	_ "embed"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// EnvPrefix prefixes environment overrides, e.g. AFTERGLOW_TRAIL_MAX_AGE_MS.
const EnvPrefix = "AFTERGLOW_"

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Trail     TrailConfig     `yaml:"trail"`
	Overlay   OverlayConfig   `yaml:"overlay"`
	Terminal  TerminalConfig  `yaml:"terminal"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// TrailConfig holds trail appearance and buffer parameters.
type TrailConfig struct {
	MaxAgeMS   int     `yaml:"max_age_ms"`  // Fade duration in milliseconds
	StepPx     float64 `yaml:"step_px"`     // Interpolation spacing
	LineWidth  float64 `yaml:"line_width"`  // Stroke width in surface units
	Color      []int   `yaml:"color"`       // RGB, 0-255
	MaxSamples int     `yaml:"max_samples"` // 0 = unbounded
}

// OverlayConfig holds overlay window and pointer source settings.
type OverlayConfig struct {
	Source         string   `yaml:"source"` // window | hook
	Passthrough    bool     `yaml:"passthrough"`
	Transparent    bool     `yaml:"transparent"`
	Topmost        bool     `yaml:"topmost"`
	FullscreenSize bool     `yaml:"fullscreen_size"`
	QueueSize      int      `yaml:"queue_size"`
	QuitKeys       []string `yaml:"quit_keys"`
}

// TerminalConfig holds terminal backend settings.
type TerminalConfig struct {
	Glyph  string  `yaml:"glyph"`
	StepPx float64 `yaml:"step_px"` // Interpolation spacing in cells
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfWindow     int     `yaml:"perf_window"`
	LogIntervalSec float64 `yaml:"log_interval_sec"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	MaxAge      time.Duration
	TrailColor  color.NRGBA
	LogInterval time.Duration
	Glyph       rune
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults,
// then applies environment overrides. If path is empty, only embedded
// defaults and the environment are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// applyEnv overrides selected fields from AFTERGLOW_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	intVars := map[string]*int{
		"SCREEN_WIDTH":      &c.Screen.Width,
		"SCREEN_HEIGHT":     &c.Screen.Height,
		"SCREEN_TARGET_FPS": &c.Screen.TargetFPS,
		"TRAIL_MAX_AGE_MS":  &c.Trail.MaxAgeMS,
		"TRAIL_MAX_SAMPLES": &c.Trail.MaxSamples,
	}
	for name, dst := range intVars {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("env %s%s: %w", EnvPrefix, name, err)
		}
		*dst = n
	}

	floatVars := map[string]*float64{
		"TRAIL_STEP_PX":    &c.Trail.StepPx,
		"TRAIL_LINE_WIDTH": &c.Trail.LineWidth,
	}
	for name, dst := range floatVars {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("env %s%s: %w", EnvPrefix, name, err)
		}
		*dst = f
	}

	if v, ok := lookup(EnvPrefix + "OVERLAY_SOURCE"); ok {
		c.Overlay.Source = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvPrefix + "OVERLAY_PASSTHROUGH"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("env %sOVERLAY_PASSTHROUGH: %w", EnvPrefix, err)
		}
		c.Overlay.Passthrough = b
	}
	return nil
}

// Validate rejects settings the renderer cannot use.
func (c *Config) Validate() error {
	if c.Trail.MaxAgeMS <= 0 {
		return fmt.Errorf("trail.max_age_ms must be positive, got %d", c.Trail.MaxAgeMS)
	}
	if c.Trail.StepPx <= 0 {
		return fmt.Errorf("trail.step_px must be positive, got %v", c.Trail.StepPx)
	}
	if c.Trail.LineWidth <= 0 {
		return fmt.Errorf("trail.line_width must be positive, got %v", c.Trail.LineWidth)
	}
	if c.Trail.MaxSamples < 0 {
		return fmt.Errorf("trail.max_samples must not be negative, got %d", c.Trail.MaxSamples)
	}
	if len(c.Trail.Color) != 3 {
		return fmt.Errorf("trail.color must have 3 components, got %d", len(c.Trail.Color))
	}
	for _, v := range c.Trail.Color {
		if v < 0 || v > 255 {
			return fmt.Errorf("trail.color components must be in 0-255, got %v", c.Trail.Color)
		}
	}
	if c.Screen.TargetFPS <= 0 {
		return fmt.Errorf("screen.target_fps must be positive, got %d", c.Screen.TargetFPS)
	}
	switch c.Overlay.Source {
	case "window", "hook":
	default:
		return fmt.Errorf("overlay.source must be window or hook, got %q", c.Overlay.Source)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.MaxAge = time.Duration(c.Trail.MaxAgeMS) * time.Millisecond
	c.Derived.TrailColor = color.NRGBA{
		R: uint8(c.Trail.Color[0]),
		G: uint8(c.Trail.Color[1]),
		B: uint8(c.Trail.Color[2]),
		A: 255,
	}
	c.Derived.LogInterval = time.Duration(c.Telemetry.LogIntervalSec * float64(time.Second))

	c.Derived.Glyph = '█'
	if r := []rune(c.Terminal.Glyph); len(r) > 0 {
		c.Derived.Glyph = r[0]
	}
	if c.Terminal.StepPx <= 0 {
		c.Terminal.StepPx = 1
	}
}

// WriteYAML saves the configuration to a file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
