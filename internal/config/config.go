// Package config provides Viper-based configuration loading for the combat engine.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings for the encounter log.
type DatabaseConfig struct {
	// Enabled turns encounter persistence on. When false the remaining fields are not validated.
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

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// DifficultyConfig selects a difficulty preset and optional multiplier overrides.
// A zero override keeps the preset value.
type DifficultyConfig struct {
	Preset                 string  `mapstructure:"preset"`
	PlayerDamageMultiplier float64 `mapstructure:"player_damage_multiplier"`
	EnemyDamageMultiplier  float64 `mapstructure:"enemy_damage_multiplier"`
	EnemyHealthMultiplier  float64 `mapstructure:"enemy_health_multiplier"`
	GoldXPMultiplier       float64 `mapstructure:"gold_xp_multiplier"`
}

// CombatConfig holds the tunable constants of the damage and flee formulas.
type CombatConfig struct {
	// CritMultiplier scales base damage on a critical hit.
	CritMultiplier float64 `mapstructure:"crit_multiplier"`
	// BlockChance is the percent chance that an enemy attack is partially blocked.
	BlockChance float64 `mapstructure:"block_chance"`
	// BlockReduction is the fraction of damage removed by a block, in (0, 1].
	BlockReduction float64 `mapstructure:"block_reduction"`
	// EnemyVariance is the +/- fraction applied to enemy damage rolls.
	EnemyVariance float64 `mapstructure:"enemy_variance"`
	// UnarmedDamage is the weapon damage used when no weapon is equipped.
	UnarmedDamage int `mapstructure:"unarmed_damage"`

	FleeBaseChance float64 `mapstructure:"flee_base_chance"`
	FleePerDex     float64 `mapstructure:"flee_per_dex"`
	FleeMinChance  float64 `mapstructure:"flee_min_chance"`
	FleeMaxChance  float64 `mapstructure:"flee_max_chance"`

	// MaxRounds caps an encounter; 0 means unlimited.
	MaxRounds int `mapstructure:"max_rounds"`
}

// ContentConfig points at the YAML catalogs and Lua scripts.
type ContentConfig struct {
	EnemiesDir   string `mapstructure:"enemies_dir"`
	AbilitiesDir string `mapstructure:"abilities_dir"`
	EffectsDir   string `mapstructure:"effects_dir"`
	ItemsDir     string `mapstructure:"items_dir"`
	// ScriptsDir holds effect hook scripts; empty disables scripting.
	ScriptsDir             string `mapstructure:"scripts_dir"`
	ScriptInstructionLimit int    `mapstructure:"script_instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Difficulty DifficultyConfig `mapstructure:"difficulty"`
	Combat     CombatConfig     `mapstructure:"combat"`
	Content    ContentConfig    `mapstructure:"content"`
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
	if err := validateDifficulty(c.Difficulty); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateCombat(c.Combat); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
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

// Presets lists the accepted difficulty preset names.
var Presets = []string{"Easy", "Normal", "Hard", "Expert", "Ironman", "Permadeath", "Apocalypse"}

func validateDifficulty(d DifficultyConfig) error {
	var errs []string
	known := false
	for _, p := range Presets {
		if p == d.Preset {
			known = true
			break
		}
	}
	if !known {
		errs = append(errs, fmt.Sprintf("difficulty.preset must be one of [%s], got %q", strings.Join(Presets, ", "), d.Preset))
	}
	overrides := []struct {
		key string
		val float64
	}{
		{"difficulty.player_damage_multiplier", d.PlayerDamageMultiplier},
		{"difficulty.enemy_damage_multiplier", d.EnemyDamageMultiplier},
		{"difficulty.enemy_health_multiplier", d.EnemyHealthMultiplier},
		{"difficulty.gold_xp_multiplier", d.GoldXPMultiplier},
	}
	for _, o := range overrides {
		if o.val < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0, got %g", o.key, o.val))
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateCombat(c CombatConfig) error {
	var errs []string
	if c.CritMultiplier < 1 {
		errs = append(errs, fmt.Sprintf("combat.crit_multiplier must be >= 1, got %g", c.CritMultiplier))
	}
	if c.BlockChance < 0 || c.BlockChance > 100 {
		errs = append(errs, fmt.Sprintf("combat.block_chance must be 0-100, got %g", c.BlockChance))
	}
	if c.BlockReduction <= 0 || c.BlockReduction > 1 {
		errs = append(errs, fmt.Sprintf("combat.block_reduction must be in (0, 1], got %g", c.BlockReduction))
	}
	if c.EnemyVariance < 0 || c.EnemyVariance >= 1 {
		errs = append(errs, fmt.Sprintf("combat.enemy_variance must be in [0, 1), got %g", c.EnemyVariance))
	}
	if c.UnarmedDamage < 0 {
		errs = append(errs, fmt.Sprintf("combat.unarmed_damage must be >= 0, got %d", c.UnarmedDamage))
	}
	if c.FleeMinChance < 0 || c.FleeMaxChance > 100 || c.FleeMinChance > c.FleeMaxChance {
		errs = append(errs, fmt.Sprintf("combat.flee_min_chance/flee_max_chance must satisfy 0 <= min <= max <= 100, got %g/%g", c.FleeMinChance, c.FleeMaxChance))
	}
	if c.MaxRounds < 0 {
		errs = append(errs, fmt.Sprintf("combat.max_rounds must be >= 0, got %d", c.MaxRounds))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	if c.ScriptInstructionLimit < 0 {
		return fmt.Errorf("content.script_instruction_limit must be >= 0, got %d", c.ScriptInstructionLimit)
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
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
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

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance with REALM_ environment overrides and
// all defaults registered, but no config file.
//
// Postcondition: Returns a non-nil Viper whose Unmarshal yields a valid Config.
func NewViper() *viper.Viper {
	v := viper.New()

	// Environment variable overrides with REALM_ prefix
	v.SetEnvPrefix("REALM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
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

	v.SetDefault("difficulty.preset", "Normal")

	v.SetDefault("combat.crit_multiplier", 2.0)
	v.SetDefault("combat.block_chance", 15.0)
	v.SetDefault("combat.block_reduction", 0.5)
	v.SetDefault("combat.enemy_variance", 0.2)
	v.SetDefault("combat.unarmed_damage", 5)
	v.SetDefault("combat.flee_base_chance", 50.0)
	v.SetDefault("combat.flee_per_dex", 2.5)
	v.SetDefault("combat.flee_min_chance", 10.0)
	v.SetDefault("combat.flee_max_chance", 90.0)
	v.SetDefault("combat.max_rounds", 100)

	v.SetDefault("content.enemies_dir", "content/enemies")
	v.SetDefault("content.abilities_dir", "content/abilities")
	v.SetDefault("content.effects_dir", "content/effects")
	v.SetDefault("content.items_dir", "content/items")
	v.SetDefault("content.scripts_dir", "content/scripts/effects")
	v.SetDefault("content.script_instruction_limit", 100000)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "realm")
	v.SetDefault("database.password", "realm")
	v.SetDefault("database.name", "realm")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")
}
