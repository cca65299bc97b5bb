// Package config loads crackfield configuration from defaults, a YAML file and
// CRACKFIELD_ environment variables, in that order of precedence
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/crackfield/crack"
	"github.com/lixenwraith/crackfield/parameter"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "CRACKFIELD_"

// ErrInvalidConfig is returned when a loaded configuration fails validation
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full runtime configuration
type Config struct {
	Effect  EffectConfig  `yaml:"effect" envPrefix:"EFFECT_"`
	Render  RenderConfig  `yaml:"render" envPrefix:"RENDER_"`
	Audio   AudioConfig   `yaml:"audio" envPrefix:"AUDIO_"`
	Metrics MetricsConfig `yaml:"metrics" envPrefix:"METRICS_"`
	Debug   bool          `yaml:"debug" env:"DEBUG"`
}

// EffectConfig mirrors crack.Settings
type EffectConfig struct {
	CrackInterval     time.Duration `yaml:"crack_interval" env:"CRACK_INTERVAL"`
	CrackCount        int           `yaml:"crack_count" env:"CRACK_COUNT"`
	InjectionRadius   float64       `yaml:"injection_radius" env:"INJECTION_RADIUS"`
	InjectionSpeed    float64       `yaml:"injection_speed" env:"INJECTION_SPEED"`
	ScrollSensitivity float64       `yaml:"scroll_sensitivity" env:"SCROLL_SENSITIVITY"`
}

// RenderConfig controls the frame loop and raster
type RenderConfig struct {
	FPS        int     `yaml:"fps" env:"FPS"`
	PixelScale float64 `yaml:"pixel_scale" env:"PIXEL_SCALE"`
	Seed       uint64  `yaml:"seed" env:"SEED"` // 0 seeds from time
}

// AudioConfig controls the injection cue
type AudioConfig struct {
	Enabled bool    `yaml:"enabled" env:"ENABLED"`
	Volume  float64 `yaml:"volume" env:"VOLUME"`
}

// MetricsConfig controls the prometheus endpoint, empty address disables it
type MetricsConfig struct {
	Addr string `yaml:"addr" env:"ADDR"`
}

// Default returns the built-in configuration
func Default() Config {
	s := crack.DefaultSettings()
	return Config{
		Effect: EffectConfig{
			CrackInterval:     s.CrackInterval,
			CrackCount:        s.CrackCount,
			InjectionRadius:   s.InjectionRadius,
			InjectionSpeed:    s.InjectionSpeed,
			ScrollSensitivity: s.ScrollSensitivity,
		},
		Render: RenderConfig{
			FPS:        parameter.DefaultFPS,
			PixelScale: parameter.DefaultPixelScale,
		},
		Audio: AudioConfig{
			Volume: 0.5,
		},
	}
}

// Settings converts the effect section to engine settings
func (c Config) Settings() crack.Settings {
	return crack.Settings{
		CrackInterval:     c.Effect.CrackInterval,
		CrackCount:        c.Effect.CrackCount,
		InjectionRadius:   c.Effect.InjectionRadius,
		InjectionSpeed:    c.Effect.InjectionSpeed,
		ScrollSensitivity: c.Effect.ScrollSensitivity,
	}
}

// FrameInterval returns the target duration of one frame
func (c Config) FrameInterval() time.Duration {
	if c.Render.FPS <= 0 {
		return parameter.FrameUpdateInterval
	}
	return time.Second / time.Duration(c.Render.FPS)
}

// Validate checks every section and joins all problems
func (c Config) Validate() error {
	var errs []error
	if err := c.Settings().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Render.FPS < parameter.MinFPS || c.Render.FPS > parameter.MaxFPS {
		errs = append(errs, fmt.Errorf("render.fps must be within [%d,%d], got %d", parameter.MinFPS, parameter.MaxFPS, c.Render.FPS))
	}
	if !(c.Render.PixelScale > 0) {
		errs = append(errs, fmt.Errorf("render.pixel_scale must be positive, got %v", c.Render.PixelScale))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio.volume must be within [0,1], got %v", c.Audio.Volume))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// Load reads path (optional) over the defaults, applies environment overrides and validates
func Load(path string) (Config, error) {
	return load(path, nil)
}

// load uses environ instead of the process environment when non-nil
func load(path string, environ map[string]string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix, Environment: environ}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Marshal renders the configuration as YAML
func (c Config) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return out, nil
}
