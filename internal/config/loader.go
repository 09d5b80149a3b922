package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/xhit/go-str2duration/v2"
	"gopkg.in/yaml.v3"

	"github.com/max-longrun/bison-mcp/pkg/logging"
)

// Defaults are the process-wide values applied to accounts that leave a
// setting out.
type Defaults struct {
	BaseURL string
	Timeout time.Duration
}

// LoadOptions controls Load.
type LoadOptions struct {
	// Path is an explicit configuration file. When set it must exist.
	Path string
	// EnvFiles are dotenv files loaded before the environment is read.
	// Missing files are ignored. Nil means ".env".
	EnvFiles []string
	// Getenv replaces os.Getenv, mostly for tests.
	Getenv func(string) string
	// SearchPaths replaces the default candidate file list.
	SearchPaths []string
}

func (o LoadOptions) getenv(key string) string {
	if o.Getenv != nil {
		return o.Getenv(key)
	}
	return os.Getenv(key)
}

// Load resolves and validates the configuration: a file when one is found,
// otherwise the single-account environment fallback.
func Load(opts LoadOptions) (Config, error) {
	loadEnvFiles(opts.EnvFiles)

	defaults, err := DefaultsFromEnv(opts.getenv)
	if err != nil {
		return Config{}, err
	}

	path, err := ResolvePath(opts)
	if err != nil {
		return Config{}, err
	}
	if path != "" {
		return LoadFile(path, defaults)
	}

	logging.Info("ConfigLoader", "No configuration file found, falling back to %s", EnvAPIKey)
	return FromEnv(opts.getenv, defaults)
}

// ResolvePath returns the configuration file to use, or "" when no file
// exists and the environment fallback applies.
func ResolvePath(opts LoadOptions) (string, error) {
	explicit := opts.Path
	if explicit == "" {
		explicit = opts.getenv(EnvConfigPath)
	}
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", &ConfigurationError{
				FilePath:    explicit,
				ErrorType:   "io",
				Message:     "configuration file not found.",
				Details:     err.Error(),
				Suggestions: []string{"Check the --config flag or the " + EnvConfigPath + " variable"},
			}
		}
		return explicit, nil
	}

	candidates := opts.SearchPaths
	if candidates == nil {
		candidates = candidatePaths()
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", nil
}

// LoadFile reads and parses a configuration file.
func LoadFile(path string, defaults Defaults) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &ConfigurationError{FilePath: path, ErrorType: "io", Message: "cannot read configuration file.", Details: err.Error()}
	}
	cfg, err := Parse(data, path, defaults)
	if err != nil {
		return Config{}, err
	}
	logging.Info("ConfigLoader", "Loaded %d account(s) from %s", len(cfg.Accounts), path)
	return cfg, nil
}

// Parse decodes YAML or JSON configuration data and validates it. source
// names the data in error messages.
func Parse(data []byte, source string, defaults Defaults) (Config, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Config{}, &ConfigurationError{
			FilePath:    source,
			ErrorType:   "parse",
			Message:     "configuration is not valid YAML or JSON.",
			Details:     err.Error(),
			Suggestions: []string{"Validate the file with a YAML linter"},
		}
	}

	if f.BaseURL != "" {
		defaults.BaseURL = f.BaseURL
	}
	if f.Timeout != "" {
		d, err := ParseTimeout(f.Timeout)
		if err != nil {
			return Config{}, validationError(source, fmt.Sprintf("invalid timeout %q.", f.Timeout), nil, "Use a duration such as 30s or 1m")
		}
		defaults.Timeout = d
	}

	entries := f.Accounts
	if len(entries) == 0 {
		entries = f.LegacyClients
	}

	cfg := Config{
		Accounts:       make(map[string]Account, len(entries)),
		DefaultAccount: firstNonEmpty(f.DefaultAccount, f.LegacyDefault),
		Source:         source,
	}
	for name, entry := range entries {
		acct := Account{
			Name:      name,
			APIKey:    strings.TrimSpace(firstNonEmpty(entry.APIKey, entry.LegacyKey)),
			BaseURL:   strings.TrimSpace(firstNonEmpty(entry.BaseURL, entry.LegacyURL)),
			Timeout:   defaults.Timeout,
			RateLimit: entry.RateLimit,
		}
		if acct.BaseURL == "" {
			acct.BaseURL = defaults.BaseURL
		}
		if entry.Timeout != "" {
			d, err := ParseTimeout(entry.Timeout)
			if err != nil {
				return Config{}, validationError(source, fmt.Sprintf("account %q has an invalid timeout %q.", name, entry.Timeout), nil,
					"Use a duration such as 30s or 1m")
			}
			acct.Timeout = d
		}
		if acct.RateLimit < 0 {
			return Config{}, validationError(source, fmt.Sprintf("account %q has a negative rateLimit.", name), nil)
		}
		cfg.Accounts[name] = acct
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv builds the single-account configuration from EMAILBISON_API_KEY.
func FromEnv(getenv func(string) string, defaults Defaults) (Config, error) {
	apiKey := strings.TrimSpace(getenv(EnvAPIKey))
	if apiKey == "" {
		return Config{}, &ConfigurationError{
			ErrorType: "validation",
			Message:   "neither a configuration file nor " + EnvAPIKey + " was found.",
			Suggestions: []string{
				"Create config.yaml with an 'accounts' section",
				"Or export " + EnvAPIKey,
			},
		}
	}

	cfg := Config{
		Accounts: map[string]Account{
			FallbackAccountName: {
				Name:    FallbackAccountName,
				APIKey:  apiKey,
				BaseURL: defaults.BaseURL,
				Timeout: defaults.Timeout,
			},
		},
		DefaultAccount: FallbackAccountName,
		Source:         "environment",
	}
	return cfg, cfg.Validate()
}

// DefaultsFromEnv reads EMAILBISON_BASE_URL and EMAILBISON_TIMEOUT_SECONDS.
func DefaultsFromEnv(getenv func(string) string) (Defaults, error) {
	d := Defaults{BaseURL: DefaultBaseURL, Timeout: DefaultTimeout}
	if v := strings.TrimSpace(getenv(EnvBaseURL)); v != "" {
		d.BaseURL = v
	}
	if v := strings.TrimSpace(getenv(EnvTimeout)); v != "" {
		timeout, err := ParseTimeout(v)
		if err != nil {
			return Defaults{}, &ConfigurationError{
				ErrorType:   "validation",
				Message:     fmt.Sprintf("%s=%q is not a valid timeout.", EnvTimeout, v),
				Suggestions: []string{"Use a number of seconds such as 30"},
			}
		}
		d.Timeout = timeout
	}
	return d, nil
}

// ParseTimeout accepts a plain number of seconds ("30", "2.5") or a duration
// string understood by go-str2duration ("45s", "1m30s", "1d").
func ParseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		if secs <= 0 {
			return 0, errors.New("timeout must be positive")
		}
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := str2duration.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, errors.New("timeout must be positive")
	}
	return d, nil
}

func loadEnvFiles(files []string) {
	if files == nil {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Overload(f); err != nil {
			logging.Warn("ConfigLoader", "Ignoring unreadable env file %s: %v", f, err)
			continue
		}
		logging.Debug("ConfigLoader", "Loaded environment from %s", f)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
