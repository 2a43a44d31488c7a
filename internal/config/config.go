package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/drawlab/lottogen/internal/generator"
	"github.com/drawlab/lottogen/internal/lottery"
)

type Config struct {
	Game      GameConfig      `yaml:"game"`
	Generator GeneratorConfig `yaml:"generator"`
	Source    SourceConfig    `yaml:"source"`
	Storage   StorageConfig   `yaml:"storage"`
	NATS      NATSConfig      `yaml:"nats"`
}

// GameConfig carries the lottery's rules. Nothing about the game is
// hard-coded; EuroMillions is just the shipped default config file.
type GameConfig struct {
	Name         string `yaml:"name"`
	MainCount    int    `yaml:"main_count"`
	MainMin      int    `yaml:"main_min"`
	MainMax      int    `yaml:"main_max"`
	SpecialCount int    `yaml:"special_count"`
	SpecialMin   int    `yaml:"special_min"`
	SpecialMax   int    `yaml:"special_max"`
}

type GeneratorConfig struct {
	PercentileLow       float64              `yaml:"percentile_low"`
	PercentileHigh      float64              `yaml:"percentile_high"`
	GapPercentile       float64              `yaml:"gap_percentile"`
	MultiplesPercentile float64              `yaml:"multiples_percentile"`
	ClusterIntervals    []generator.Interval `yaml:"cluster_intervals"`
	MultiplesBases      []int                `yaml:"multiples_bases"`
	MinHistory          int                  `yaml:"min_history"`
	MaxAttempts         int                  `yaml:"max_attempts"`
	Checks              []string             `yaml:"checks"`
	PatternMinRatio     float64              `yaml:"pattern_min_ratio"`
	MaxRun              int                  `yaml:"max_run"`
}

type SourceConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type StorageConfig struct {
	Directory string `yaml:"directory"`
}

type NATSConfig struct {
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

// Load reads YAML, applies defaults and validates. Generator knobs are only
// range-checked here; the generator itself re-validates eagerly before any
// sampling.
func Load(path string) (Config, error) {
	var cfg Config

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}

	applyDefaults(&cfg)
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Game.Name == "" {
		cfg.Game.Name = "euromillions"
	}
	if cfg.Storage.Directory == "" {
		cfg.Storage.Directory = "data"
	}
	if cfg.NATS.SubjectPrefix == "" {
		cfg.NATS.SubjectPrefix = "lottogen"
	}
}

func validate(cfg Config) error {
	if err := cfg.Rules().Validate(); err != nil {
		return err
	}
	if cfg.Source.URL == "" {
		return errors.New("source.url is required")
	}
	if cfg.Storage.Directory == "" {
		return errors.New("storage.directory is required")
	}
	g := cfg.Generator
	if g.MaxAttempts < 0 {
		return fmt.Errorf("generator.max_attempts must be >= 0")
	}
	if g.MinHistory < 0 {
		return fmt.Errorf("generator.min_history must be >= 0")
	}
	return nil
}

func (c Config) Rules() lottery.Rules {
	return lottery.Rules{
		MainCount:    c.Game.MainCount,
		MainMin:      c.Game.MainMin,
		MainMax:      c.Game.MainMax,
		SpecialCount: c.Game.SpecialCount,
		SpecialMin:   c.Game.SpecialMin,
		SpecialMax:   c.Game.SpecialMax,
	}
}

// GeneratorConfig maps the yaml surface onto the generator's own config.
func (c Config) GeneratorConfig(debug bool) generator.Config {
	g := c.Generator
	return generator.Config{
		Rules:               c.Rules(),
		PercentileLow:       g.PercentileLow,
		PercentileHigh:      g.PercentileHigh,
		GapPercentile:       g.GapPercentile,
		MultiplesPercentile: g.MultiplesPercentile,
		ClusterIntervals:    g.ClusterIntervals,
		MultiplesBases:      g.MultiplesBases,
		MinHistory:          g.MinHistory,
		MaxAttempts:         g.MaxAttempts,
		Checks:              g.Checks,
		PatternMinRatio:     g.PatternMinRatio,
		MaxRun:              g.MaxRun,
		Debug:               debug,
	}
}
