// Package config loads persona-forge settings from ~/.persona-forge/config.yaml
// with PERSONA_* environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/persona-forge/internal/i18n"
)

// #region types
type Config struct {
	LLM         LLMConfig         `mapstructure:"llm" yaml:"llm"`
	Storage     StorageConfig     `mapstructure:"storage" yaml:"storage"`
	UI          UIConfig          `mapstructure:"ui" yaml:"ui"`
	Inspiration InspirationConfig `mapstructure:"inspiration" yaml:"inspiration"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
	Metrics     MetricsConfig     `mapstructure:"metrics" yaml:"metrics"`
}

type LLMConfig struct {
	APIKey    string        `mapstructure:"api_key" yaml:"api_key"`
	Model     string        `mapstructure:"model" yaml:"model"`
	WebSearch bool          `mapstructure:"web_search" yaml:"web_search"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type StorageConfig struct {
	DBPath string `mapstructure:"db_path" yaml:"db_path"`
}

// UIConfig leaves Language empty to detect it from LANG, and Theme empty to
// use the stored or terminal-derived theme.
type UIConfig struct {
	Language string `mapstructure:"language" yaml:"language"`
	Theme    string `mapstructure:"theme" yaml:"theme"`
}

type InspirationConfig struct {
	Cooldown    time.Duration `mapstructure:"cooldown" yaml:"cooldown"`
	AutoRefresh bool          `mapstructure:"auto_refresh" yaml:"auto_refresh"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig.Addr enables the /metrics listener when non-empty.
type MetricsConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}
// #endregion types

// #region defaults
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Model:     "gemini-2.5-flash",
			WebSearch: true,
			Timeout:   2 * time.Minute,
		},
		Storage: StorageConfig{
			DBPath: "~/.persona-forge/persona.db",
		},
		Inspiration: InspirationConfig{
			Cooldown:    12 * time.Hour,
			AutoRefresh: true,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("llm.api_key", d.LLM.APIKey)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.web_search", d.LLM.WebSearch)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("storage.db_path", d.Storage.DBPath)
	v.SetDefault("ui.language", d.UI.Language)
	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("inspiration.cooldown", d.Inspiration.Cooldown)
	v.SetDefault("inspiration.auto_refresh", d.Inspiration.AutoRefresh)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
}
// #endregion defaults

// #region load
// DefaultPath is ~/.persona-forge/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".persona-forge", "config.yaml"), nil
}

func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads path, creating it from Default when missing, then
// applies environment overrides such as PERSONA_LLM_API_KEY. GEMINI_API_KEY
// is accepted for the API key as well.
func LoadFromPath(path string) (*Config, error) {
	path = expandPath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeConfigFile(path, Default()); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("PERSONA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("llm.api_key", "PERSONA_LLM_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind api key env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveToPath writes the configuration as YAML.
func (c *Config) SaveToPath(path string) error {
	path = expandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return writeConfigFile(path, c)
}

// UpdateFile edits the file at path in place. Environment overrides are not
// applied, so values supplied only through the environment are never
// written out.
func UpdateFile(path string, edit func(*Config)) error {
	path = expandPath(path)
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	edit(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	return cfg.SaveToPath(path)
}
// #endregion load

// #region validate
func (c *Config) Validate() error {
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model cannot be empty")
	}
	if c.LLM.Timeout < 0 {
		return fmt.Errorf("llm.timeout cannot be negative")
	}
	if c.UI.Language != "" {
		if _, ok := i18n.ParseLanguage(c.UI.Language); !ok {
			return fmt.Errorf("invalid ui.language '%s'", c.UI.Language)
		}
	}
	if c.UI.Theme != "" {
		if _, ok := i18n.ParseTheme(c.UI.Theme); !ok {
			return fmt.Errorf("invalid ui.theme '%s', must be one of: light, slate, dark, black, amoled", c.UI.Theme)
		}
	}
	if c.Inspiration.Cooldown < 0 {
		return fmt.Errorf("inspiration.cooldown cannot be negative")
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level '%s', must be one of: debug, info, warn, error", c.Logging.Level)
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid log format '%s', must be 'console' or 'json'", c.Logging.Format)
	}
	return nil
}

// Language is the configured UI language, or the one detected from envLang.
func (c *Config) Language(envLang string) i18n.Language {
	if l, ok := i18n.ParseLanguage(c.UI.Language); ok {
		return l
	}
	return i18n.DetectLanguage(envLang)
}
// #endregion validate

func writeConfigFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
