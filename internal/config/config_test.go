package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "leemaz.log"), cfg.LogFile)
	assert.Equal(t, 3*time.Second, cfg.BootstrapTimeout)
	assert.Equal(t, 5*time.Second, cfg.LoginTimeout)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
}

func TestLoadFrom_File(t *testing.T) {
	dir := t.TempDir()
	yml := "api_url: http://localhost:8001\nlog_level: debug\nbootstrap_timeout: 1500ms\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(yml), 0600))

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8001", cfg.APIURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 1500*time.Millisecond, cfg.BootstrapTimeout)
	assert.Equal(t, 5*time.Second, cfg.LoginTimeout, "unset keys keep defaults")
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("api_url: http://localhost:8001\n"), 0600))
	t.Setenv("LEEMAZ_API_URL", "https://staging.leemaz.com")
	t.Setenv("LEEMAZ_LOGIN_TIMEOUT", "2s")
	t.Setenv("LEEMAZ_HTTP_TIMEOUT", "garbage")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://staging.leemaz.com", cfg.APIURL)
	assert.Equal(t, 2*time.Second, cfg.LoginTimeout)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout, "unparseable env keeps previous value")
}

func TestLoadFrom_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("api_url: [unterminated"), 0600))
	_, err := LoadFrom(dir)
	assert.Error(t, err)
}

func TestLoadFrom_InvalidURL(t *testing.T) {
	t.Setenv("LEEMAZ_API_URL", "not a url")
	_, err := LoadFrom(t.TempDir())
	assert.Error(t, err)
}

func TestSaveThenLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	cfg := Default(dir)
	cfg.APIURL = "http://10.0.2.2:8001"
	require.NoError(t, Save(cfg))

	got, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestReadFile_IgnoresEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("api_url: http://file.example\n"), 0600))
	t.Setenv("LEEMAZ_API_URL", "http://env.example")

	cfg, err := ReadFile(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://file.example", cfg.APIURL)

	loaded, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://env.example", loaded.APIURL)
}

func TestSet(t *testing.T) {
	cfg := Default(t.TempDir())

	require.NoError(t, cfg.Set("api_url", "http://localhost:8001"))
	require.NoError(t, cfg.Set("log_level", "DEBUG"))
	require.NoError(t, cfg.Set("login_timeout", "8s"))
	assert.Equal(t, "http://localhost:8001", cfg.APIURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 8*time.Second, cfg.LoginTimeout)

	v, err := cfg.Get("login_timeout")
	require.NoError(t, err)
	assert.Equal(t, "8s", v)
}

func TestSet_RejectsAndKeepsValue(t *testing.T) {
	cfg := Default(t.TempDir())
	before := cfg

	assert.Error(t, cfg.Set("api_url", "ftp://leemaz.com"))
	assert.Error(t, cfg.Set("log_level", "loud"))
	assert.Error(t, cfg.Set("http_timeout", "-1s"))
	assert.Error(t, cfg.Set("http_timeout", "soon"))
	assert.Error(t, cfg.Set("theme", "dark"))
	assert.Equal(t, before, cfg)

	_, err := cfg.Get("theme")
	assert.Error(t, err)
}

func TestKeysAreGettable(t *testing.T) {
	cfg := Default(t.TempDir())
	for _, k := range Keys {
		_, err := cfg.Get(k)
		assert.NoError(t, err, k)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("warn", &buf)
	log.Info("hidden")
	log.Warn("shown", "op", "bootstrap")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "bootstrap", entry["op"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestOpenLogger(t *testing.T) {
	cfg := Default(t.TempDir())
	cfg.LogFile = filepath.Join(cfg.DataDir, "logs", "leemaz.log")
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	log, closer, err := OpenLogger(cfg)
	require.NoError(t, err)
	log.Info("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}
