// Package config provides Viper-based configuration loading for the combat engine.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/centaur/internal/game/combat"
	"github.com/cory-johannsen/centaur/internal/game/element"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Rolls keeps debug entries for every dice roll and percentile check.
	Rolls bool `mapstructure:"rolls"`
}

// DatabaseConfig holds the PostgreSQL settings of the encounter archive.
type DatabaseConfig struct {
	// Enabled turns on archiving of turns and outcomes; the other fields are
	// validated only when it is set.
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	// WriteTimeout bounds each archive write.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// CombatConfig holds the calibration constants handed to combat.NewCalculator.
type CombatConfig struct {
	CritChance       int     `mapstructure:"crit_chance"`
	CritMultiplier   float64 `mapstructure:"crit_multiplier"`
	DodgeStanceBonus int     `mapstructure:"dodge_stance_bonus"`
	MaxDodgeChance   int     `mapstructure:"max_dodge_chance"`
	DefendMultiplier float64 `mapstructure:"defend_multiplier"`
	DefenseScale     float64 `mapstructure:"defense_scale"`
	FleeBaseChance   int     `mapstructure:"flee_base_chance"`
	StaminaRegen     int     `mapstructure:"stamina_regen"`
	SpecialCost      int     `mapstructure:"special_cost"`
	SpecialPower     float64 `mapstructure:"special_power"`
}

// Tuning converts c to a combat.Tuning.
func (c CombatConfig) Tuning() combat.Tuning {
	return combat.Tuning{
		CritChance:       c.CritChance,
		CritMultiplier:   c.CritMultiplier,
		DodgeStanceBonus: c.DodgeStanceBonus,
		MaxDodgeChance:   c.MaxDodgeChance,
		DefendMultiplier: c.DefendMultiplier,
		DefenseScale:     c.DefenseScale,
		FleeBaseChance:   c.FleeBaseChance,
		StaminaRegen:     c.StaminaRegen,
		SpecialCost:      c.SpecialCost,
		SpecialPower:     c.SpecialPower,
	}
}

// ContentConfig names the content directories. An empty directory selects
// the built-in defaults for that content kind; enemies have no built-ins.
type ContentConfig struct {
	StatusDir  string `mapstructure:"status_dir"`
	AIDir      string `mapstructure:"ai_dir"`
	EnemiesDir string `mapstructure:"enemies_dir"`
	ItemsDir   string `mapstructure:"items_dir"`
	ScriptsDir string `mapstructure:"scripts_dir"`
	// ScriptInstructionLimit bounds every Lua load and hook call; 0 uses the default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// SimulationConfig drives the batch simulator.
type SimulationConfig struct {
	// Encounters is the number of encounters to run.
	Encounters int `mapstructure:"encounters"`
	// Concurrency bounds how many encounters run at once.
	Concurrency int `mapstructure:"concurrency"`
	// Seed is the base seed; encounter i uses Seed+i. Zero draws a fresh base seed.
	Seed int64 `mapstructure:"seed"`
	// Enemy is the npc definition ID to fight.
	Enemy string `mapstructure:"enemy"`
	// Path is the player's character path.
	Path string `mapstructure:"path"`
	// Terrain is the battlefield terrain name.
	Terrain string `mapstructure:"terrain"`
	// Script is the player's command sequence, cycled until the encounter ends.
	Script []string `mapstructure:"script"`
	// Items is the player's starting inventory, item ID to count.
	Items map[string]int `mapstructure:"items"`
	// MaxTurns abandons an encounter that has not ended after this many turns.
	MaxTurns int `mapstructure:"max_turns"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Combat     CombatConfig     `mapstructure:"combat"`
	Content    ContentConfig    `mapstructure:"content"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Database   DatabaseConfig   `mapstructure:"database"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := c.Combat.Tuning().Validate(); err != nil {
		errs = append(errs, "combat: "+err.Error())
	}
	if c.Content.EnemiesDir == "" {
		errs = append(errs, "content.enemies_dir must not be empty")
	}
	if c.Content.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("content.script_instruction_limit must be >= 0, got %d", c.Content.ScriptInstructionLimit))
	}
	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Database.Enabled {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 || d.MinConns > d.MaxConns {
		errs = append(errs, fmt.Sprintf("database.min_conns must be in [0, max_conns], got %d", d.MinConns))
	}
	if d.WriteTimeout <= 0 {
		errs = append(errs, "database.write_timeout must be positive")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.Encounters < 1 {
		errs = append(errs, fmt.Sprintf("simulation.encounters must be >= 1, got %d", s.Encounters))
	}
	if s.Concurrency < 1 {
		errs = append(errs, fmt.Sprintf("simulation.concurrency must be >= 1, got %d", s.Concurrency))
	}
	if s.Seed < 0 {
		errs = append(errs, fmt.Sprintf("simulation.seed must be >= 0, got %d", s.Seed))
	}
	if s.Enemy == "" {
		errs = append(errs, "simulation.enemy must not be empty")
	}
	if _, err := element.ParseTerrain(s.Terrain); err != nil {
		errs = append(errs, fmt.Sprintf("simulation.terrain: %v", err))
	}
	if len(s.Script) == 0 {
		errs = append(errs, "simulation.script must not be empty")
	}
	for id, n := range s.Items {
		if n < 0 {
			errs = append(errs, fmt.Sprintf("simulation.items[%s] must be >= 0, got %d", id, n))
		}
	}
	if s.MaxTurns < 1 {
		errs = append(errs, fmt.Sprintf("simulation.max_turns must be >= 1, got %d", s.MaxTurns))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Precondition: path is empty or names a readable YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with CENTAUR_ prefix
	v.SetEnvPrefix("CENTAUR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.rolls", false)

	t := combat.DefaultTuning()
	v.SetDefault("combat.crit_chance", t.CritChance)
	v.SetDefault("combat.crit_multiplier", t.CritMultiplier)
	v.SetDefault("combat.dodge_stance_bonus", t.DodgeStanceBonus)
	v.SetDefault("combat.max_dodge_chance", t.MaxDodgeChance)
	v.SetDefault("combat.defend_multiplier", t.DefendMultiplier)
	v.SetDefault("combat.defense_scale", t.DefenseScale)
	v.SetDefault("combat.flee_base_chance", t.FleeBaseChance)
	v.SetDefault("combat.stamina_regen", t.StaminaRegen)
	v.SetDefault("combat.special_cost", t.SpecialCost)
	v.SetDefault("combat.special_power", t.SpecialPower)

	v.SetDefault("content.status_dir", "")
	v.SetDefault("content.ai_dir", "")
	v.SetDefault("content.enemies_dir", "content/enemies")
	v.SetDefault("content.items_dir", "")
	v.SetDefault("content.scripts_dir", "")
	v.SetDefault("content.script_instruction_limit", 0)

	v.SetDefault("simulation.encounters", 100)
	v.SetDefault("simulation.concurrency", 8)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.enemy", "shadow_hound")
	v.SetDefault("simulation.path", "warrior")
	v.SetDefault("simulation.terrain", "plain")
	v.SetDefault("simulation.script", []string{"attack", "attack", "special", "defend"})
	v.SetDefault("simulation.items", map[string]int{"health_potion": 2, "smelling_salts": 1})
	v.SetDefault("simulation.max_turns", 200)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "centaur")
	v.SetDefault("database.password", "centaur")
	v.SetDefault("database.name", "centaur")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.write_timeout", "5s")
}
