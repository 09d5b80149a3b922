package config

import (
	"os"
	"path/filepath"

	"github.com/max-longrun/bison-mcp/internal/emailbison"
)

const (
	// EnvAPIKey holds the API key of the single-account fallback.
	EnvAPIKey = "EMAILBISON_API_KEY"
	// EnvBaseURL overrides the process-wide default base URL.
	EnvBaseURL = "EMAILBISON_BASE_URL"
	// EnvTimeout sets the default request timeout in seconds.
	EnvTimeout = "EMAILBISON_TIMEOUT_SECONDS"
	// EnvConfigPath points at a configuration file.
	EnvConfigPath = "EMAILBISON_CONFIG"

	// FallbackAccountName is the name of the account built from the environment.
	FallbackAccountName = "default"

	userConfigDir = ".config/bison-mcp"
)

// DefaultBaseURL is used for accounts that do not name a base URL.
const DefaultBaseURL = emailbison.DefaultBaseURL

// DefaultTimeout is the request timeout when nothing else is configured.
const DefaultTimeout = emailbison.DefaultTimeout

// candidatePaths lists the files checked when no path is given explicitly.
func candidatePaths() []string {
	paths := []string{"config.yaml", "config.yml", "config.json"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, userConfigDir, "config.yaml"),
			filepath.Join(home, userConfigDir, "config.json"),
		)
	}
	return paths
}
