// Package config provides Viper-based configuration loading for the dungeon server.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	// Host is the bind address for the HTTP listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the HTTP listener.
	Port int `mapstructure:"port"`
	// ReadTimeout bounds reading a whole request.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout bounds writing a response; it must cover narration latency.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// ShutdownTimeout is how long in-flight requests get on shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// GinMode is "debug", "release" or "test".
	GinMode string `mapstructure:"gin_mode"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// GameConfig holds rules and content settings.
type GameConfig struct {
	// ContentDir holds zone YAML files; empty uses the embedded dungeon.
	ContentDir string `mapstructure:"content_dir"`
	// ScriptDir holds one Lua subdirectory per zone; empty uses the embedded scripts.
	ScriptDir string `mapstructure:"script_dir"`
	// ScriptInstructionLimit caps opcodes per hook call; 0 uses the scripting default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
	// Seed seeds the dice; 0 uses crypto/rand.
	Seed int64 `mapstructure:"seed"`
	// StartingHP is the hp and max hp of a new character.
	StartingHP int `mapstructure:"starting_hp"`
	// AttributePoints is the bonus budget spent at character creation.
	AttributePoints int `mapstructure:"attribute_points"`
	// HistoryLimit is how many history entries are sent to the narrator.
	HistoryLimit int `mapstructure:"history_limit"`
}

// NarratorConfig selects and configures the LLM narrator.
type NarratorConfig struct {
	// Provider is "none", "anthropic" or "openai".
	Provider string `mapstructure:"provider"`
	APIKey   string `mapstructure:"api_key"`
	// BaseURL overrides the provider endpoint, e.g. Groq's OpenAI-compatible API.
	BaseURL   string        `mapstructure:"base_url"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Game     GameConfig     `mapstructure:"game"`
	Narrator NarratorConfig `mapstructure:"narrator"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateServer(c.Server); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateNarrator(c.Narrator); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateServer(s ServerConfig) error {
	var errs []string
	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", s.Port))
	}
	if s.ReadTimeout < 0 {
		errs = append(errs, "server.read_timeout must not be negative")
	}
	if s.WriteTimeout < 0 {
		errs = append(errs, "server.write_timeout must not be negative")
	}
	if s.ShutdownTimeout < 0 {
		errs = append(errs, "server.shutdown_timeout must not be negative")
	}
	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[s.GinMode] {
		errs = append(errs, fmt.Sprintf("server.gin_mode must be one of [debug, release, test], got %q", s.GinMode))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
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

func validateGame(g GameConfig) error {
	var errs []string
	if g.StartingHP < 1 {
		errs = append(errs, fmt.Sprintf("game.starting_hp must be >= 1, got %d", g.StartingHP))
	}
	if g.AttributePoints < 0 {
		errs = append(errs, fmt.Sprintf("game.attribute_points must be >= 0, got %d", g.AttributePoints))
	}
	if g.HistoryLimit < 0 {
		errs = append(errs, fmt.Sprintf("game.history_limit must be >= 0, got %d", g.HistoryLimit))
	}
	if g.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("game.script_instruction_limit must be >= 0, got %d", g.ScriptInstructionLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateNarrator(n NarratorConfig) error {
	var errs []string
	switch n.Provider {
	case "none":
	case "anthropic", "openai":
		if n.APIKey == "" {
			errs = append(errs, fmt.Sprintf("narrator.api_key must not be empty for provider %q", n.Provider))
		}
		if n.Model == "" {
			errs = append(errs, "narrator.model must not be empty")
		}
	default:
		errs = append(errs, fmt.Sprintf("narrator.provider must be one of [none, anthropic, openai], got %q", n.Provider))
	}
	if n.MaxTokens < 1 {
		errs = append(errs, fmt.Sprintf("narrator.max_tokens must be >= 1, got %d", n.MaxTokens))
	}
	if n.Timeout <= 0 {
		errs = append(errs, "narrator.timeout must be positive")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result. An empty path skips the file
// and uses defaults plus environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance with defaults and MAZMORRA_ environment
// overrides applied.
func NewViper() *viper.Viper {
	v := viper.New()
	// MAZMORRA_NARRATOR_API_KEY overrides narrator.api_key, and so on.
	v.SetEnvPrefix("MAZMORRA")
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
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.gin_mode", "release")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("game.content_dir", "")
	v.SetDefault("game.script_dir", "")
	v.SetDefault("game.script_instruction_limit", 0)
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.starting_hp", 100)
	v.SetDefault("game.attribute_points", 5)
	v.SetDefault("game.history_limit", 20)

	v.SetDefault("narrator.provider", "none")
	v.SetDefault("narrator.api_key", "")
	v.SetDefault("narrator.base_url", "")
	v.SetDefault("narrator.model", "")
	v.SetDefault("narrator.max_tokens", 600)
	v.SetDefault("narrator.timeout", "30s")
}
