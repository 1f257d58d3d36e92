package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setEnvAndRun(t *testing.T, env map[string]string, fn func()) {
	t.Helper()
	for k, v := range env {
		t.Setenv(k, v)
	}
	fn()
}

func withFreshFlagSet(t *testing.T, args []string, fn func()) {
	t.Helper()
	oldSet, oldArgs := flag.CommandLine, os.Args
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	os.Args = append([]string{oldArgs[0]}, args...)
	defer func() { flag.CommandLine, os.Args = oldSet, oldArgs }()
	fn()
}

func writeJSON(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestReadClientEnvironment(t *testing.T) {
	env := map[string]string{
		"API_URL":                "http://api:9000",
		"CLIENT_TIMEOUT":         "3",
		"FLAGS_REFRESH_INTERVAL": "60",
		"FLAGS_TTL":              "bad", // invalid, keeps previous value
		"DATABASE_DSN":           "postgres://u:p@h/db",
		"RECENTS_FILE":           "",
		"DEBUG_ADDR":             "127.0.0.1:9999",
	}
	setEnvAndRun(t, env, func() {
		cfg := &ClientConfig{FlagsTTL: 42, RecentsFile: "x.db"}
		readClientEnvironment(cfg)

		require.Equal(t, "http://api:9000", cfg.APIURL)
		require.Equal(t, 3, cfg.ClientTimeout)
		require.Equal(t, 60, cfg.FlagsRefresh)
		require.Equal(t, 42, cfg.FlagsTTL)
		require.Equal(t, "postgres://u:p@h/db", cfg.DatabaseDsn)
		require.Empty(t, cfg.RecentsFile)
		require.Equal(t, "127.0.0.1:9999", cfg.DebugAddr)
	})
}

func TestNewClientConfig_Defaults(t *testing.T) {
	setEnvAndRun(t, map[string]string{"LOG_FILE": ""}, func() {
		withFreshFlagSet(t, nil, func() {
			cfg := NewClientConfig()
			require.NotNil(t, cfg.Logger)
			require.Equal(t, "http://localhost:8081", cfg.APIURL)
			require.Equal(t, 16, cfg.RecentsQueue)
			require.Equal(t, "-", cfg.StatusInput)
			require.Empty(t, cfg.DebugAddr)
			require.Equal(t, 10*time.Second, cfg.Timeout())
		})
	})
}

func TestNewClientConfig_AddsHTTPPrefix(t *testing.T) {
	env := map[string]string{"API_URL": "srv:9090/", "LOG_FILE": ""}
	setEnvAndRun(t, env, func() {
		withFreshFlagSet(t, nil, func() {
			cfg := NewClientConfig()
			require.Equal(t, "http://srv:9090", cfg.APIURL)
		})
	})
}

func TestNewClientConfig_Priority(t *testing.T) {
	path := writeJSON(t, `{
		"api_url": "http://json:1",
		"client_timeout": "4s",
		"flags_ttl": "2m",
		"recents_file": "json.db",
		"recents_queue": 3,
		"debug_addr": "json:2"
	}`)
	env := map[string]string{"CONFIG": path, "DEBUG_ADDR": "env:3", "LOG_FILE": ""}
	setEnvAndRun(t, env, func() {
		withFreshFlagSet(t, []string{"-a", "http://flag:1", "-q", "8"}, func() {
			cfg := NewClientConfig()
			require.Equal(t, "http://flag:1", cfg.APIURL) // flag beats JSON
			require.Equal(t, 8, cfg.RecentsQueue)
			require.Equal(t, 4, cfg.ClientTimeout) // JSON fills unset flags
			require.Equal(t, 120, cfg.FlagsTTL)
			require.Equal(t, "json.db", cfg.RecentsFile)
			require.Equal(t, "env:3", cfg.DebugAddr) // env beats everything
		})
	})
}

func TestNewMockAPIConfig(t *testing.T) {
	env := map[string]string{"ADDRESS": "127.0.0.1:7070", "LOG_FILE": ""}
	setEnvAndRun(t, env, func() {
		withFreshFlagSet(t, []string{"-toggles", "NewCountryList=true,Beta=false,Flag", "-log", ""}, func() {
			cfg := NewMockAPIConfig()
			require.NotNil(t, cfg.Logger)
			require.Equal(t, "127.0.0.1:7070", cfg.Addr)
			require.Equal(t, map[string]bool{"NewCountryList": true, "Beta": false, "Flag": true}, cfg.Toggles)
		})
	})
}

func TestParseToggles_SkipsInvalid(t *testing.T) {
	require.Equal(t, map[string]bool{"a": false}, parseToggles(" a=false , b=maybe ,,"))
	require.Empty(t, parseToggles(""))
}
