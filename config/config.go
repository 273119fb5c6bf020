package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/vi-scene/tag"
)

type Config struct {
	Engine   EngineConfig   `toml:"engine"`
	Logging  LoggingConfig  `toml:"logging"`
	Terminal TerminalConfig `toml:"terminal"`
	Audio    AudioConfig    `toml:"audio"`
	Scripts  ScriptsConfig  `toml:"scripts"`
	Tags     TagsConfig     `toml:"tags"`
}

type EngineConfig struct {
	MaxTags       int           `toml:"max_tags"`       // tag index slots, 1..64
	FixedStep     time.Duration `toml:"fixed_step"`     // 0 uses the wall clock
	MaxStep       time.Duration `toml:"max_step"`       // wall clock delta clamp
	LinePrecision float64       `toml:"line_precision"` // LineCheck sample spacing
}

type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // console or json
	File   string `toml:"file"`   // the terminal belongs to tcell, logs go here
}

type TerminalConfig struct {
	FrameRate int `toml:"frame_rate"`
}

type AudioConfig struct {
	Enabled    bool          `toml:"enabled"`
	SampleRate int           `toml:"sample_rate"`
	Buffer     time.Duration `toml:"buffer"`
	Volume     float64       `toml:"volume"`
}

type ScriptsConfig struct {
	Dir string `toml:"dir"`
}

type TagsConfig struct {
	File string `toml:"file"`
}

// Load reads path over the defaults and validates the result
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes TOML data over the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxTags:       tag.MaxTags,
			FixedStep:     0,
			MaxStep:       100 * time.Millisecond,
			LinePrecision: 1.0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   "vi-scene.log",
		},
		Terminal: TerminalConfig{
			FrameRate: 60,
		},
		Audio: AudioConfig{
			Enabled:    false,
			SampleRate: 44100,
			Buffer:     100 * time.Millisecond,
			Volume:     0.5,
		},
		Scripts: ScriptsConfig{
			Dir: "scripts",
		},
		Tags: TagsConfig{
			File: "tags.yaml",
		},
	}
}

// Validate rejects values the engine cannot run with
func (c *Config) Validate() error {
	if c.Engine.MaxTags < 1 || c.Engine.MaxTags > tag.MaxTags {
		return fmt.Errorf("engine.max_tags %d not in [1, %d]", c.Engine.MaxTags, tag.MaxTags)
	}
	if c.Engine.FixedStep < 0 || c.Engine.MaxStep < 0 {
		return fmt.Errorf("engine steps must not be negative")
	}
	if c.Engine.LinePrecision <= 0 {
		return fmt.Errorf("engine.line_precision must be positive, got %g", c.Engine.LinePrecision)
	}
	if c.Terminal.FrameRate < 1 {
		return fmt.Errorf("terminal.frame_rate must be positive, got %d", c.Terminal.FrameRate)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	if c.Audio.Enabled && c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio.sample_rate must be positive, got %d", c.Audio.SampleRate)
	}
	return nil
}

// FrameInterval returns the render tick period
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.Terminal.FrameRate)
}
