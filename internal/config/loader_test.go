package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

var testDefaults = Defaults{BaseURL: DefaultBaseURL, Timeout: DefaultTimeout}

func TestParse_YAML(t *testing.T) {
	data := `
defaultAccount: Acme
timeout: 20s
accounts:
  Acme:
    apiKey: key-a
    rateLimit: 5
  Beta:
    apiKey: key-b
    baseUrl: https://beta.example.test/api/
    timeout: 1m
`
	cfg, err := Parse([]byte(data), "test.yaml", testDefaults)
	require.NoError(t, err)

	assert.Equal(t, "Acme", cfg.DefaultAccount)
	assert.Equal(t, []string{"Acme", "Beta"}, cfg.Names())

	acme := cfg.Accounts["Acme"]
	assert.Equal(t, DefaultBaseURL, acme.BaseURL)
	assert.Equal(t, 20*time.Second, acme.Timeout)
	assert.Equal(t, 5.0, acme.RateLimit)

	beta := cfg.Accounts["Beta"]
	assert.Equal(t, "https://beta.example.test/api/", beta.BaseURL)
	assert.Equal(t, time.Minute, beta.Timeout)
}

func TestParse_LegacyJSON(t *testing.T) {
	data := `{
  "default_client": "LongRun",
  "clients": {
    "LongRun": {"mcp_key": "k1", "mcp_url": "https://x.test/api"},
    "ATI": {"mcp_key": "k2"}
  }
}`
	cfg, err := Parse([]byte(data), "config.json", testDefaults)
	require.NoError(t, err)

	assert.Equal(t, "LongRun", cfg.DefaultAccount)
	assert.Equal(t, "k1", cfg.Accounts["LongRun"].APIKey)
	assert.Equal(t, "https://x.test/api", cfg.Accounts["LongRun"].BaseURL)
	assert.Equal(t, DefaultBaseURL, cfg.Accounts["ATI"].BaseURL)
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantMsg string
	}{
		{
			name:    "no accounts",
			data:    "accounts: {}\n",
			wantMsg: "at least one account",
		},
		{
			name:    "empty api key",
			data:    "accounts:\n  Acme:\n    apiKey: \"  \"\n",
			wantMsg: `account "Acme" has an empty apiKey`,
		},
		{
			name:    "unknown default",
			data:    "defaultAccount: Zed\naccounts:\n  Beta: {apiKey: b}\n  Acme: {apiKey: a}\n",
			wantMsg: "Available accounts: Acme, Beta",
		},
		{
			name:    "bad timeout",
			data:    "accounts:\n  Acme: {apiKey: a, timeout: soon}\n",
			wantMsg: "invalid timeout",
		},
		{
			name:    "malformed yaml",
			data:    "accounts: [unterminated\n",
			wantMsg: "not valid YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), "bad.yaml", testDefaults)
			require.Error(t, err)
			assert.True(t, IsConfigurationError(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Run("builds the default account", func(t *testing.T) {
		cfg, err := FromEnv(envMap(map[string]string{EnvAPIKey: "env-key"}), Defaults{BaseURL: "https://env.test", Timeout: 5 * time.Second})
		require.NoError(t, err)

		assert.Equal(t, FallbackAccountName, cfg.DefaultAccount)
		assert.Equal(t, Account{Name: "default", APIKey: "env-key", BaseURL: "https://env.test", Timeout: 5 * time.Second}, cfg.Accounts["default"])
		assert.Equal(t, "environment", cfg.Source)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := FromEnv(envMap(nil), testDefaults)
		require.Error(t, err)
		assert.True(t, IsConfigurationError(err))
	})
}

func TestDefaultsFromEnv(t *testing.T) {
	d, err := DefaultsFromEnv(envMap(map[string]string{EnvBaseURL: "https://b.test", EnvTimeout: "12"}))
	require.NoError(t, err)
	assert.Equal(t, Defaults{BaseURL: "https://b.test", Timeout: 12 * time.Second}, d)

	_, err = DefaultsFromEnv(envMap(map[string]string{EnvTimeout: "-3"}))
	assert.Error(t, err)
}

func TestParseTimeout(t *testing.T) {
	tests := map[string]time.Duration{
		"30":    30 * time.Second,
		"2.5":   2500 * time.Millisecond,
		"45s":   45 * time.Second,
		"1m30s": 90 * time.Second,
		"1d":    24 * time.Hour,
	}
	for in, want := range tests {
		got, err := ParseTimeout(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseTimeout("0")
	assert.Error(t, err)
	_, err = ParseTimeout("later")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("explicit path wins", func(t *testing.T) {
		path := writeFile(t, dir, "accounts.yaml", "accounts:\n  Acme: {apiKey: a}\n")
		cfg, err := Load(LoadOptions{Path: path, EnvFiles: []string{}, Getenv: envMap(nil), SearchPaths: []string{}})
		require.NoError(t, err)
		assert.Equal(t, path, cfg.Source)
	})

	t.Run("env var path", func(t *testing.T) {
		path := writeFile(t, dir, "env.yaml", "accounts:\n  Env: {apiKey: e}\n")
		cfg, err := Load(LoadOptions{EnvFiles: []string{}, Getenv: envMap(map[string]string{EnvConfigPath: path}), SearchPaths: []string{}})
		require.NoError(t, err)
		assert.Equal(t, []string{"Env"}, cfg.Names())
	})

	t.Run("missing explicit path is an error", func(t *testing.T) {
		_, err := Load(LoadOptions{Path: filepath.Join(dir, "nope.yaml"), EnvFiles: []string{}, Getenv: envMap(nil)})
		require.Error(t, err)
		assert.True(t, IsConfigurationError(err))
	})

	t.Run("search paths then environment fallback", func(t *testing.T) {
		cfg, err := Load(LoadOptions{
			EnvFiles:    []string{},
			Getenv:      envMap(map[string]string{EnvAPIKey: "k"}),
			SearchPaths: []string{filepath.Join(dir, "absent.yaml")},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"default"}, cfg.Names())
	})

	t.Run("dotenv file is loaded", func(t *testing.T) {
		envFile := writeFile(t, dir, ".env", "BISON_TEST_DOTENV_KEY=from-dotenv\n")
		t.Cleanup(func() { _ = os.Unsetenv("BISON_TEST_DOTENV_KEY") })

		_, _ = Load(LoadOptions{EnvFiles: []string{envFile}, Getenv: envMap(map[string]string{EnvAPIKey: "k"}), SearchPaths: []string{}})
		assert.Equal(t, "from-dotenv", os.Getenv("BISON_TEST_DOTENV_KEY"))
	})
}

func TestConfigurationError_DetailedError(t *testing.T) {
	err := &ConfigurationError{
		FilePath:    "c.yaml",
		ErrorType:   "validation",
		Message:     "bad",
		Accounts:    []string{"A", "B"},
		Suggestions: []string{"fix it"},
	}
	assert.Equal(t, "c.yaml: bad Available accounts: A, B", err.Error())
	detailed := err.DetailedError()
	assert.Contains(t, detailed, "File: c.yaml")
	assert.Contains(t, detailed, "- fix it")
}
