// Package config loads the fruitstock configuration once at startup.
//
// Values are resolved by viper with this precedence: bound command-line flags,
// FRUITSTOCK_* environment variables, a .env file, the YAML config file, and
// finally the defaults below. The returned Config is never mutated afterwards.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "FRUITSTOCK"
	configFileName = "fruitstock"
	configFileType = "yaml"
	defaultEnvFile = ".env"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrInvalid is returned when the loaded configuration cannot be used.
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete, immutable program configuration.
type Config struct {
	Database Database `mapstructure:"database"`
	Auth     Auth     `mapstructure:"auth"`
	Log      Log      `mapstructure:"log"`
}

// Database holds connection settings. Path is used by sqlite, the network
// fields by postgres.
type Database struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// Auth holds the single expected credential pair.
type Auth struct {
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	PasswordHash string `mapstructure:"password_hash"`
}

// Log holds log level and rotation settings.
type Log struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Options controls where Load looks for configuration.
type Options struct {
	// File is an explicit config file. When empty, fruitstock.yaml is looked
	// up in the working directory and a missing file is not an error.
	File string

	// EnvFile is the dotenv file to load. Defaults to .env; a missing file is ignored.
	EnvFile string

	// Flags maps config keys (e.g. "database.path") to command-line flags.
	// Only flags the user actually set override other sources.
	Flags map[string]*pflag.Flag
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "fruitstock.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "fruitstock")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("auth.username", "admin")
	v.SetDefault("auth.password", "")
	v.SetDefault("auth.password_hash", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "fruitstock.log")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
}

// Load resolves the configuration and validates it.
func Load(opts Options) (*Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, flag := range opts.Flags {
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag.Name, err)
		}
	}

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFile(path string) error {
	if path == "" {
		path = defaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration describes a usable setup.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("%w: database.path is required for the sqlite driver", ErrInvalid)
		}
		if InMemorySQLite(c.Database.Path) {
			return fmt.Errorf("%w: database.path %q is an in-memory database; use a file path", ErrInvalid, c.Database.Path)
		}
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("%w: database.host is required for the postgres driver", ErrInvalid)
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("%w: database.port %d is out of range", ErrInvalid, c.Database.Port)
		}
		if c.Database.Name == "" {
			return fmt.Errorf("%w: database.name is required for the postgres driver", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown database.driver %q", ErrInvalid, c.Database.Driver)
	}

	if c.Auth.Username == "" {
		return fmt.Errorf("%w: auth.username must not be empty", ErrInvalid)
	}
	if c.Auth.Password == "" && c.Auth.PasswordHash == "" {
		return fmt.Errorf("%w: auth.password or auth.password_hash must be set", ErrInvalid)
	}
	return nil
}

// InMemorySQLite reports whether path names an in-memory SQLite database.
// Each connection to such a database sees its own empty copy.
func InMemorySQLite(path string) bool {
	p := strings.ToLower(strings.TrimSpace(path))
	return p == ":memory:" || strings.HasPrefix(p, "file::memory:") || strings.Contains(p, "mode=memory")
}
