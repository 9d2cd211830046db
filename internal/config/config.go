package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultHost    = "0.0.0.0"
	defaultPort    = 5000
	defaultEnvFile = ".env"
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > .env > Defaults
type Config struct {
	Debug                bool          `yaml:"debug"`
	Host                 string        `yaml:"host"`
	Port                 int           `yaml:"port"`
	ShutdownGracePeriod  time.Duration `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    time.Duration `yaml:"read_header_timeout"`
	WriteTimeout         time.Duration `yaml:"write_timeout"`
	IdleTimeout          time.Duration `yaml:"idle_timeout"`
	EnableRequestLogging bool          `yaml:"enable_request_logging"`
}

// Addr returns the host:port pair the HTTP server binds to.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Debug                *bool  `yaml:"debug"`
	Host                 string `yaml:"host"`
	Port                 *int   `yaml:"port"`
	ShutdownGracePeriod  string `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string `yaml:"read_header_timeout"`
	WriteTimeout         string `yaml:"write_timeout"`
	IdleTimeout          string `yaml:"idle_timeout"`
	EnableRequestLogging *bool  `yaml:"enable_request_logging"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile string
	EnvFile    string
	Debug      *bool
	Host       *string
	Port       *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > .env file > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	envFile := defaultEnvFile
	if overrides != nil && overrides.EnvFile != "" {
		envFile = overrides.EnvFile
	}
	if err := loadDotEnv(envFile); err != nil {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	// Environment (including anything the .env file just exported)
	applyEnvConfig(&cfg)

	// YAML overrides the environment
	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// IsTruthy reports whether value is one of the accepted truthy spellings:
// true, 1, t, yes, y (case-insensitive). Surrounding whitespace is not ignored.
func IsTruthy(value string) bool {
	switch strings.ToLower(value) {
	case "true", "1", "t", "yes", "y":
		return true
	default:
		return false
	}
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Debug:                false,
		Host:                 defaultHost,
		Port:                 defaultPort,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
	}
}

// loadDotEnv exports variables from path into the process environment.
// Variables that are already set keep their values. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	if yamlCfg.Debug != nil {
		cfg.Debug = *yamlCfg.Debug
	}

	if yamlCfg.Host != "" {
		cfg.Host = yamlCfg.Host
	}

	if yamlCfg.Port != nil {
		cfg.Port = *yamlCfg.Port
	}

	applyDuration(&cfg.ShutdownGracePeriod, yamlCfg.ShutdownGracePeriod)
	applyDuration(&cfg.ReadHeaderTimeout, yamlCfg.ReadHeaderTimeout)
	applyDuration(&cfg.WriteTimeout, yamlCfg.WriteTimeout)
	applyDuration(&cfg.IdleTimeout, yamlCfg.IdleTimeout)

	if yamlCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *yamlCfg.EnableRequestLogging
	}
}

func applyDuration(dst *time.Duration, raw string) {
	if raw == "" {
		return
	}
	if d, err := time.ParseDuration(raw); err == nil {
		*dst = d
	}
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if debug, ok := os.LookupEnv("IS_DEBUG"); ok {
		cfg.Debug = IsTruthy(debug)
	}

	if host := firstEnv("FLASK_RUN_HOST", "HOST"); host != "" {
		cfg.Host = host
	}

	if port := firstEnv("FLASK_RUN_PORT", "PORT"); port != "" {
		if value, err := strconv.Atoi(port); err == nil && value >= 0 {
			cfg.Port = value
		}
	}
}

// firstEnv returns the first non-blank value among keys.
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return ""
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.Debug != nil {
		cfg.Debug = *overrides.Debug
	}

	if overrides.Host != nil && *overrides.Host != "" {
		cfg.Host = *overrides.Host
	}

	if overrides.Port != nil && *overrides.Port >= 0 {
		cfg.Port = *overrides.Port
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535, got %d", cfg.Port)
	}
	return nil
}
