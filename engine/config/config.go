package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1siamBot/rts-sim/engine/ai"
)

// AIConfig controls the computer opponent
type AIConfig struct {
	Enabled bool `yaml:"enabled"`
	// Rules replaces the default mode selection when non-empty
	Rules []ai.Rule `yaml:"rules"`
}

// FogConfig controls fog of war
type FogConfig struct {
	Enabled bool `yaml:"enabled"`
	// EnemyFog also tracks fog for the AI, so it only sees what its units see
	EnemyFog bool `yaml:"enemy_fog"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config holds runtime settings. Game balance lives in code.
type Config struct {
	Seed     int64        `yaml:"seed"`
	TickRate float64      `yaml:"tick_rate"`
	Map      string       `yaml:"map"` // optional terrain map JSON
	AI       AIConfig     `yaml:"ai"`
	Fog      FogConfig    `yaml:"fog"`
	Log      LogConfig    `yaml:"log"`
	Window   WindowConfig `yaml:"window"`
}

// Default returns the stock configuration
func Default() Config {
	return Config{
		Seed:     1,
		TickRate: 60,
		AI:       AIConfig{Enabled: true},
		Fog:      FogConfig{Enabled: true},
		Log:      LogConfig{Level: "info", Format: "text"},
		Window:   WindowConfig{Width: 1000, Height: 1000},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and compiles custom AI rules
func (c Config) Validate() error {
	var errs []error
	if c.TickRate <= 0 || c.TickRate > 1000 {
		errs = append(errs, fmt.Errorf("tick_rate %v out of range (0, 1000]", c.TickRate))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q: want text or json", c.Log.Format))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window %dx%d: dimensions must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Fog.EnemyFog && !c.Fog.Enabled {
		errs = append(errs, errors.New("fog.enemy_fog requires fog.enabled"))
	}
	if len(c.AI.Rules) > 0 {
		if _, err := ai.CompileRules(c.AI.Rules); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RuleSet compiles the configured AI rules, or the defaults when none are set
func (c Config) RuleSet() (*ai.RuleSet, error) {
	if len(c.AI.Rules) == 0 {
		return ai.CompileRules(ai.DefaultRules())
	}
	return ai.CompileRules(c.AI.Rules)
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return l, fmt.Errorf("log.level %q: %w", s, err)
	}
	return l, nil
}

// Logger builds a slog logger writing to out
func (c Config) Logger(out io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}
