package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dto-services/internal/match"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("names", DefaultNameMode, "")
	fs.StringSlice("key-names", nil, "")
	fs.String("log-level", DefaultLogLevel, "")
	fs.String("log-format", DefaultLogFormat, "")
	fs.String("store", DefaultDriver, "")
	fs.String("dsn", DefaultDSN, "")

	return fs
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	mode, err := cfg.NameMode()
	require.NoError(t, err)
	assert.Equal(t, match.NamesFold, mode)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, `
matching:
  names: normalized
keys:
  names: [Key, "{Entity}Key"]
messages:
  created: "{name} created"
store:
  driver: sqlite
  dsn: from-file.db
log:
  level: debug
`)

	t.Setenv("DTOSVC_STORE_DSN", "from-env.db")
	t.Setenv("DTOSVC_MESSAGES_NOT_FOUND", "no {name} here")
	t.Setenv("DTOSVC_LOG_FORMAT", "json")

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--log-format=text"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)

	assert.Equal(t, "normalized", cfg.Matching.Names)
	assert.Equal(t, []string{"Key", "{Entity}Key"}, cfg.Keys.Names)
	assert.Equal(t, "{name} created", cfg.Messages.Created)
	assert.Equal(t, "Successfully updated the {name}", cfg.Messages.Updated, "unset keys keep defaults")
	assert.Equal(t, "no {name} here", cfg.Messages.NotFound)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "from-env.db", cfg.Store.DSN, "env overrides file")
	assert.Equal(t, "text", cfg.Log.Format, "flags override env")
	assert.Equal(t, "debug", cfg.Log.Level, "unchanged flags do not override")
}

func TestLoad_EnvList(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DTOSVC_KEYS_NAMES", "Id, Code ,")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Id", "Code"}, cfg.Keys.Names)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)

	_, err = Load(writeConfig(t, "store:\n  driver: postgres\n"), nil)
	assert.ErrorContains(t, err, "unknown store driver")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{name: "default", mutate: func(*Config) {}},
		{name: "bad names", mutate: func(c *Config) { c.Matching.Names = "fuzzy" }, errSubstr: "unknown name matching mode"},
		{name: "no keys", mutate: func(c *Config) { c.Keys.Names = nil }, errSubstr: "keys.names"},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "loud" }, errSubstr: "invalid log level"},
		{name: "bad format", mutate: func(c *Config) { c.Log.Format = "xml" }, errSubstr: "unknown log format"},
		{name: "sqlite without dsn", mutate: func(c *Config) { c.Store.Driver = DriverSQLite; c.Store.DSN = "" }, errSubstr: "store.dsn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)

				return
			}

			assert.ErrorContains(t, err, tt.errSubstr)
		})
	}
}

func TestLogConfig_SlogLevel(t *testing.T) {
	lvl, err := LogConfig{Level: "warn"}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)
}

func TestMessagesConfig_Services(t *testing.T) {
	m := Default().Messages.Services()
	assert.Equal(t, "Success", m.Read)
}
