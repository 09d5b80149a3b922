package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/max-longrun/bison-mcp/internal/cli"
	"github.com/max-longrun/bison-mcp/internal/config"
)

func TestSetVersion(t *testing.T) {
	// Test setting version
	testVersion := "1.2.3-test"
	SetVersion(testVersion)

	if rootCmd.Version != testVersion {
		t.Errorf("Expected version to be %s, got %s", testVersion, rootCmd.Version)
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "bison-mcp" {
		t.Errorf("Expected Use to be 'bison-mcp', got %s", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("Expected Short description to be set")
	}

	if rootCmd.Long == "" {
		t.Error("Expected Long description to be set")
	}

	if !rootCmd.SilenceUsage {
		t.Error("Expected SilenceUsage to be true")
	}
}

func TestVersionTemplate(t *testing.T) {
	testCmd := &cobra.Command{
		Use:     "test",
		Version: "1.0.0",
	}

	// Set the same version template as in Execute()
	testCmd.SetVersionTemplate(`{{printf "bison-mcp version %s\n" .Version}}`)

	var buf bytes.Buffer
	testCmd.SetOut(&buf)

	testCmd.SetArgs([]string{"--version"})
	err := testCmd.Execute()
	if err != nil {
		t.Fatalf("Error executing version command: %v", err)
	}

	output := buf.String()
	expected := "bison-mcp version 1.0.0\n"
	if output != expected {
		t.Errorf("Expected version output %q, got %q", expected, output)
	}
}

func TestSubcommands(t *testing.T) {
	commands := rootCmd.Commands()

	expectedCommands := []string{"version", "serve", "call", "tools", "accounts"}
	foundCommands := make(map[string]bool)

	for _, cmd := range commands {
		foundCommands[cmd.Name()] = true
	}

	for _, expected := range expectedCommands {
		if !foundCommands[expected] {
			t.Errorf("Expected subcommand %s to be registered", expected)
		}
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitCodeSuccess},
		{"plain error", errors.New("boom"), ExitCodeError},
		{"configuration error", &config.ConfigurationError{Message: "no accounts"}, ExitCodeConfig},
		{"wrapped configuration error", fmt.Errorf("load: %w", &config.ConfigurationError{Message: "x"}), ExitCodeConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getExitCode(tt.err); got != tt.want {
				t.Errorf("getExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

// fakeAPI serves /users and /tags. Requests with the key "bad-key" get a 401.
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") == "Bearer bad-key" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message":"Unauthenticated."}`)
			return
		}
		switch r.URL.Path {
		case "/users":
			fmt.Fprint(w, `{"data":{"name":"Ann Lee","email":"ann@acme.test","team":{"id":3,"name":"Acme Team"}}}`)
		case "/tags":
			fmt.Fprint(w, `{"data":[{"id":5,"name":"Important"}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"not found"}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// writeConfig writes a two-account configuration file pointing at baseURL.
func writeConfig(t *testing.T, baseURL, betaKey string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := fmt.Sprintf(`defaultAccount: Acme
baseUrl: %s
accounts:
  Acme:
    apiKey: acme-secret-key
  Beta:
    apiKey: %s
    timeout: 10s
`, baseURL, betaKey)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func defaultOutputFlags() cli.OutputFlags {
	return cli.OutputFlags{OutputFormat: string(cli.OutputFormatTable)}
}

// executeCommand runs the root command with args and returns stdout and
// stderr. Package level flag values are reset first.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	configPath, envFiles, logLevel, debug = "", []string{}, "info", false
	accountsListFlags, accountsCheckFlags, toolsListFlags = defaultOutputFlags(), defaultOutputFlags(), defaultOutputFlags()
	accountsShowKeys = false
	toolsPrefix, toolsReadOnly = "", false
	callArgs, callAccount, callReadOnly = "", "", false

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestExecuteCommand_MissingConfigIsConfigurationError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	_, _, err := executeCommand(t, "accounts", "list", "--config", missing)
	if err == nil {
		t.Fatal("expected an error for a missing configuration file")
	}
	if getExitCode(err) != ExitCodeConfig {
		t.Errorf("expected exit code %d, got %d (%v)", ExitCodeConfig, getExitCode(err), err)
	}
	if !strings.Contains(err.Error(), "nope.yaml") {
		t.Errorf("expected the error to name the file, got %v", err)
	}
}
