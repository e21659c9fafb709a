// Package config loads table and simulator settings from an HCL file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/lox/holdemcore/game"
	"github.com/lox/holdemcore/sdk/analysis"
)

// Defaults applied to anything the file leaves unset.
const (
	DefaultLogLevel  = "info"
	DefaultStack     = 1000
	DefaultTrials    = 100_000
	DefaultOpponents = 1
	DefaultCacheSize = 256
)

// Config is the complete configuration.
type Config struct {
	LogLevel string       `env:"HOLDEM_LOG_LEVEL"`
	Table    TableConfig  `env-prefix:"HOLDEM_"`
	Equity   EquityConfig `env-prefix:"HOLDEM_"`
}

// TableConfig holds the blind structure of a cash-game table.
type TableConfig struct {
	Name        string `hcl:"name,label"`
	BigBlind    int    `hcl:"big_blind,optional" env:"BIG_BLIND"`
	MinimalUnit int    `hcl:"minimal_unit,optional" env:"MINIMAL_UNIT"`
	Stack       int    `hcl:"stack,optional" env:"STACK"`
}

// EquityConfig holds the simulator settings.
type EquityConfig struct {
	Trials    int    `hcl:"trials,optional" env:"TRIALS"`
	Opponents int    `hcl:"opponents,optional" env:"OPPONENTS"`
	Workers   int    `hcl:"workers,optional" env:"WORKERS"`
	Seed      uint64 `hcl:"seed,optional" env:"SEED"`
	CacheSize int    `hcl:"cache_size,optional" env:"CACHE_SIZE"`
}

// file mirrors the HCL layout. Both blocks are optional.
type file struct {
	LogLevel string        `hcl:"log_level,optional"`
	Table    *TableConfig  `hcl:"table,block"`
	Equity   *EquityConfig `hcl:"equity,block"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads filename, applies defaults and then environment overrides. A
// missing file yields the defaults with overrides applied.
func Load(filename string) (*Config, error) {
	cfg := &Config{}
	if filename != "" {
		if _, err := os.Stat(filename); err == nil {
			if err := cfg.decodeFile(filename); err != nil {
				return nil, err
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	cfg.applyDefaults()

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, nil
}

func (c *Config) decodeFile(filename string) error {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw file
	if diags := gohcl.DecodeBody(f.Body, nil, &raw); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	c.LogLevel = raw.LogLevel
	if raw.Table != nil {
		c.Table = *raw.Table
	}
	if raw.Equity != nil {
		c.Equity = *raw.Equity
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Table.Name == "" {
		c.Table.Name = "main"
	}
	if c.Table.BigBlind == 0 {
		c.Table.BigBlind = game.DefaultBigBlind
	}
	if c.Table.MinimalUnit == 0 {
		c.Table.MinimalUnit = game.DefaultMinimalUnit
	}
	if c.Table.Stack == 0 {
		c.Table.Stack = c.Table.BigBlind * 50 // 50 big blinds
	}
	if c.Equity.Trials == 0 {
		c.Equity.Trials = DefaultTrials
	}
	if c.Equity.Opponents == 0 {
		c.Equity.Opponents = DefaultOpponents
	}
	if c.Equity.CacheSize == 0 {
		c.Equity.CacheSize = DefaultCacheSize
	}
}

// Validate checks the configuration for values the engine would reject.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}

	t := c.Table
	if t.MinimalUnit <= 0 {
		return fmt.Errorf("table %s: minimal unit must be positive", t.Name)
	}
	if t.BigBlind <= 0 {
		return fmt.Errorf("table %s: big blind must be positive", t.Name)
	}
	if t.BigBlind%t.MinimalUnit != 0 {
		return fmt.Errorf("table %s: big blind %d is not a multiple of the minimal unit %d", t.Name, t.BigBlind, t.MinimalUnit)
	}
	if t.Stack < t.BigBlind {
		return fmt.Errorf("table %s: stack must cover the big blind", t.Name)
	}

	e := c.Equity
	if e.Trials <= 0 {
		return fmt.Errorf("equity: trials must be positive")
	}
	if e.Opponents < 1 || e.Opponents > game.MaxSeats-1 {
		return fmt.Errorf("equity: opponents must be between 1 and %d", game.MaxSeats-1)
	}
	if e.Workers < 0 {
		return fmt.Errorf("equity: workers must not be negative")
	}
	if e.CacheSize <= 0 {
		return fmt.Errorf("equity: cache size must be positive")
	}
	return nil
}

// Logger builds a logger writing to stderr at the configured level.
func (c *Config) Logger() *log.Logger {
	level, err := log.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
}

// HandOptions returns the options every hand at the table is played with.
func (t TableConfig) HandOptions(logger *log.Logger) []game.HandOption {
	return []game.HandOption{
		game.WithBigBlind(t.BigBlind),
		game.WithMinimalUnit(t.MinimalUnit),
		game.WithLogger(logger),
	}
}

// SimulatorOptions returns the simulator options for the equity settings.
func (e EquityConfig) SimulatorOptions(logger *log.Logger) []analysis.SimulatorOption {
	return []analysis.SimulatorOption{
		analysis.WithSeed(e.Seed),
		analysis.WithWorkers(e.Workers),
		analysis.WithLogger(logger),
	}
}
