package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Readarr  ReadarrConfig  `yaml:"readarr"`
	Library  LibraryConfig  `yaml:"library"`
	Auth     AuthConfig     `yaml:"auth"`
	Notify   NotifyConfig   `yaml:"notify"`
	Backup   BackupConfig   `yaml:"backup"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int    `yaml:"port"`
	BasePath string `yaml:"base_path"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ReadarrConfig holds connection settings for the Readarr backend.
type ReadarrConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

// LibraryConfig holds local file access settings.
type LibraryConfig struct {
	// MountPath is where the Readarr book library is mounted locally.
	// Paths reported by Readarr are translated onto this mount before
	// files are served.
	MountPath string `yaml:"mount_path"`
}

// User is a single credential record. Password may be a bcrypt hash
// (recognized by its $2 prefix) or plain text.
type User struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// AuthConfig holds the ordered list of allowed users.
type AuthConfig struct {
	Users []User `yaml:"users"`
}

// NotifyConfig holds outbound webhook settings.
type NotifyConfig struct {
	Webhooks []string `yaml:"webhooks"`
}

// BackupConfig holds database backup settings. Path defaults to a backups
// directory next to the database file.
type BackupConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Path           string `yaml:"path"`
	IntervalHours  int    `yaml:"interval_hours"`
	RetentionCount int    `yaml:"retention_count"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	FilePath string `yaml:"file_path"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:     8585,
			BasePath: "",
		},
		Database: DatabaseConfig{
			Path: "/data/lectern.db",
		},
		Readarr: ReadarrConfig{
			URL: "http://localhost:8787",
		},
		Library: LibraryConfig{
			MountPath: "/books",
		},
		Backup: BackupConfig{
			IntervalHours:  24,
			RetentionCount: 7,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads config from a YAML file (if it exists) and overrides with
// environment variables. Environment variables take precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) loadFromEnv() {
	if v := os.Getenv("LECTERN_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("LECTERN_BASE_PATH"); v != "" {
		c.Server.BasePath = v
	}
	if v := os.Getenv("LECTERN_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("LECTERN_READARR_URL"); v != "" {
		c.Readarr.URL = v
	}
	if v := os.Getenv("LECTERN_READARR_API_KEY"); v != "" {
		c.Readarr.APIKey = v
	}
	if v := os.Getenv("LECTERN_BOOKS_PATH"); v != "" {
		c.Library.MountPath = v
	}
	if v := os.Getenv("LECTERN_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LECTERN_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Readarr.URL == "" {
		return fmt.Errorf("readarr url is required")
	}
	c.Readarr.URL = strings.TrimRight(c.Readarr.URL, "/")
	c.Server.BasePath = strings.TrimRight(c.Server.BasePath, "/")
	for i, u := range c.Auth.Users {
		if u.Username == "" || u.Password == "" {
			return fmt.Errorf("auth user %d: username and password are required", i+1)
		}
	}
	return nil
}
