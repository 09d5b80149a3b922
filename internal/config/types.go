package config

import (
	"sort"
	"time"
)

// Account is one named EmailBison credential with its effective settings.
// Accounts are immutable once loaded; a reload replaces the whole set.
type Account struct {
	Name    string
	APIKey  string
	BaseURL string
	Timeout time.Duration
	// RateLimit is in requests per second; zero disables client-side pacing.
	RateLimit float64
}

// Config is a validated account set.
type Config struct {
	Accounts       map[string]Account
	DefaultAccount string
	// Source is the file the configuration was read from, or "environment".
	Source string
}

// Names returns the account names in sorted order.
func (c Config) Names() []string {
	names := make([]string, 0, len(c.Accounts))
	for name := range c.Accounts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the invariants every registry relies on.
func (c Config) Validate() error {
	names := c.Names()
	if len(names) == 0 {
		return validationError(c.Source, "configuration must contain at least one account.", nil,
			"Add an entry under 'accounts' with an apiKey",
			"Or set "+EnvAPIKey+" to use a single account")
	}
	for _, name := range names {
		if c.Accounts[name].APIKey == "" {
			return validationError(c.Source, "account \""+name+"\" has an empty apiKey.", names,
				"Set 'apiKey' for account "+name)
		}
	}
	if c.DefaultAccount != "" {
		if _, ok := c.Accounts[c.DefaultAccount]; !ok {
			return validationError(c.Source, "defaultAccount \""+c.DefaultAccount+"\" is not a configured account.", names,
				"Set defaultAccount to one of the configured accounts or remove it")
		}
	}
	return nil
}

// accountFile is the on-disk form of one account. The snake_case legacy
// keys are read as fallbacks.
type accountFile struct {
	APIKey    string  `yaml:"apiKey"`
	BaseURL   string  `yaml:"baseUrl"`
	Timeout   string  `yaml:"timeout"`
	RateLimit float64 `yaml:"rateLimit"`

	LegacyKey string `yaml:"mcp_key"`
	LegacyURL string `yaml:"mcp_url"`
}

type file struct {
	DefaultAccount string                 `yaml:"defaultAccount"`
	BaseURL        string                 `yaml:"baseUrl"`
	Timeout        string                 `yaml:"timeout"`
	Accounts       map[string]accountFile `yaml:"accounts"`

	LegacyDefault string                 `yaml:"default_client"`
	LegacyClients map[string]accountFile `yaml:"clients"`
}
