package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server" toml:"server"`
	Database DatabaseConfig `yaml:"database" toml:"database"`
	JWT      JWTConfig      `yaml:"jwt" toml:"jwt"`
	Log      LogConfig      `yaml:"log" toml:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int    `yaml:"port" toml:"port" env:"PF_SERVER_PORT"`
	Host string `yaml:"host" toml:"host" env:"PF_SERVER_HOST"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string `yaml:"driver" toml:"driver" env:"PF_DB_DRIVER"` // "postgres" or "memory"
	Host     string `yaml:"host" toml:"host" env:"PF_DB_HOST"`
	Port     int    `yaml:"port" toml:"port" env:"PF_DB_PORT"`
	User     string `yaml:"user" toml:"user" env:"PF_DB_USER"`
	Password string `yaml:"password" toml:"password" env:"PF_DB_PASSWORD"`
	DBName   string `yaml:"dbname" toml:"dbname" env:"PF_DB_NAME"`
	SSLMode  string `yaml:"sslmode" toml:"sslmode" env:"PF_DB_SSLMODE"`
	MaxConns int    `yaml:"max_conns" toml:"max_conns" env:"PF_DB_MAX_CONNS"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string        `yaml:"secret" toml:"secret" env:"PF_JWT_SECRET"`
	Expiry time.Duration `yaml:"expiry" toml:"expiry" env:"PF_JWT_EXPIRY"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `yaml:"level" toml:"level" env:"PF_LOG_LEVEL"`
	Pretty bool   `yaml:"pretty" toml:"pretty" env:"PF_LOG_PRETTY"`
}

// Default returns the configuration used for anything not set elsewhere
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Driver:   DriverPostgres,
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			DBName:   "partner_finder",
			SSLMode:  "disable",
			MaxConns: 10,
		},
		JWT: JWTConfig{
			Expiry: 365 * 24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// Load builds the configuration from defaults, the YAML or TOML file at
// path (optional), a .env file next to it (optional) and PF_* environment
// variables, in increasing order of precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := readFile(path, cfg); err != nil {
			return nil, err
		}

		envFile := filepath.Join(filepath.Dir(path), ".env")
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if err := processStructFields(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	return nil
}

// Validate checks that the configuration can be used to start the server
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required")
	}

	if c.JWT.Expiry <= 0 {
		return fmt.Errorf("jwt expiry must be positive")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d is out of range", c.Server.Port)
	}

	switch c.Database.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("database name is required")
		}
	default:
		return fmt.Errorf("unknown database driver %q (want %q or %q)", c.Database.Driver, DriverPostgres, DriverMemory)
	}

	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
	if c.MaxConns > 0 {
		dsn += fmt.Sprintf(" pool_max_conns=%d", c.MaxConns)
	}
	return dsn
}
