package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolatedOptions points Load at files inside a fresh temp dir so the
// developer's working directory never leaks into a test.
func isolatedOptions(t *testing.T) (Options, string) {
	t.Helper()
	dir := t.TempDir()
	return Options{EnvFile: filepath.Join(dir, ".env")}, dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FRUITSTOCK_AUTH_PASSWORD", "123")
	opts, _ := isolatedOptions(t)

	cfg, err := Load(opts)
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "fruitstock.db", cfg.Database.Path)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "admin", cfg.Auth.Username)
	assert.Equal(t, "123", cfg.Auth.Password)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 50, cfg.Log.MaxSizeMB)
	assert.True(t, cfg.Log.Compress)
}

func TestLoad_ConfigFile(t *testing.T) {
	opts, dir := isolatedOptions(t)
	opts.File = filepath.Join(dir, "fruitstock.yaml")
	writeFile(t, opts.File, `
database:
  driver: postgres
  host: db.internal
  port: 5433
  name: TBPBO
auth:
  username: owner
  password: secret
log:
  level: debug
`)

	cfg, err := Load(opts)
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "TBPBO", cfg.Database.Name)
	assert.Equal(t, "owner", cfg.Auth.Username)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	opts, dir := isolatedOptions(t)
	opts.File = filepath.Join(dir, "fruitstock.yaml")
	writeFile(t, opts.File, "auth:\n  password: from-file\ndatabase:\n  path: file.db\n")
	t.Setenv("FRUITSTOCK_DATABASE_PATH", "env.db")

	cfg, err := Load(opts)
	require.NoError(t, err)

	assert.Equal(t, "env.db", cfg.Database.Path)
	assert.Equal(t, "from-file", cfg.Auth.Password)
}

func TestLoad_FlagOverridesEnv(t *testing.T) {
	t.Setenv("FRUITSTOCK_AUTH_PASSWORD", "123")
	t.Setenv("FRUITSTOCK_DATABASE_PATH", "env.db")
	opts, _ := isolatedOptions(t)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("db", "", "")
	require.NoError(t, flags.Parse([]string{"--db", "flag.db"}))
	opts.Flags = map[string]*pflag.Flag{"database.path": flags.Lookup("db")}

	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, "flag.db", cfg.Database.Path)
}

func TestLoad_UnsetFlagDoesNotOverride(t *testing.T) {
	t.Setenv("FRUITSTOCK_AUTH_PASSWORD", "123")
	opts, _ := isolatedOptions(t)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("db", "", "")
	require.NoError(t, flags.Parse(nil))
	opts.Flags = map[string]*pflag.Flag{"database.path": flags.Lookup("db")}

	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, "fruitstock.db", cfg.Database.Path)
}

func TestLoad_DotEnvFile(t *testing.T) {
	opts, dir := isolatedOptions(t)
	writeFile(t, filepath.Join(dir, ".env"), "FRUITSTOCK_AUTH_USERNAME=dotenv-user\nFRUITSTOCK_AUTH_PASSWORD=dotenv-pass\n")
	t.Cleanup(func() {
		_ = os.Unsetenv("FRUITSTOCK_AUTH_USERNAME")
		_ = os.Unsetenv("FRUITSTOCK_AUTH_PASSWORD")
	})

	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, "dotenv-user", cfg.Auth.Username)
	assert.Equal(t, "dotenv-pass", cfg.Auth.Password)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Setenv("FRUITSTOCK_AUTH_PASSWORD", "123")
	opts, dir := isolatedOptions(t)
	opts.File = filepath.Join(dir, "missing.yaml")

	_, err := Load(opts)
	require.Error(t, err)
}

func TestLoad_RequiresPassword(t *testing.T) {
	opts, _ := isolatedOptions(t)

	_, err := Load(opts)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestInMemorySQLite(t *testing.T) {
	assert.True(t, InMemorySQLite(":memory:"))
	assert.True(t, InMemorySQLite(" :MEMORY: "))
	assert.True(t, InMemorySQLite("file::memory:?cache=shared"))
	assert.True(t, InMemorySQLite("file:stock?mode=memory"))
	assert.False(t, InMemorySQLite("fruitstock.db"))
	assert.False(t, InMemorySQLite("/var/lib/memory/stock.db"))
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Database: Database{Driver: DriverSQLite, Path: "x.db", Host: "localhost", Port: 5432, Name: "fruitstock"},
			Auth:     Auth{Username: "admin", Password: "123"},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{name: "valid sqlite", mutate: func(c *Config) {}, ok: true},
		{name: "valid postgres", mutate: func(c *Config) { c.Database.Driver = DriverPostgres }, ok: true},
		{name: "hash only", mutate: func(c *Config) { c.Auth.Password = ""; c.Auth.PasswordHash = "$2a$10$x" }, ok: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }},
		{name: "empty sqlite path", mutate: func(c *Config) { c.Database.Path = "" }},
		{name: "in-memory sqlite path", mutate: func(c *Config) { c.Database.Path = ":memory:" }},
		{name: "in-memory sqlite uri", mutate: func(c *Config) { c.Database.Path = "file:stock?mode=memory&cache=shared" }},
		{name: "in-memory path ignored for postgres", mutate: func(c *Config) { c.Database.Driver = DriverPostgres; c.Database.Path = ":memory:" }, ok: true},
		{name: "postgres port out of range", mutate: func(c *Config) { c.Database.Driver = DriverPostgres; c.Database.Port = 70000 }},
		{name: "postgres without host", mutate: func(c *Config) { c.Database.Driver = DriverPostgres; c.Database.Host = "" }},
		{name: "empty username", mutate: func(c *Config) { c.Auth.Username = "" }},
		{name: "no password", mutate: func(c *Config) { c.Auth.Password = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalid)
			}
		})
	}
}
