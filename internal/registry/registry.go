// Package registry resolves account names to live EmailBison clients.
//
// Clients are built lazily on first use and cached per account. Concurrent
// first uses of the same account share a single construction. The whole
// account set can be swapped at runtime with Replace, which is how
// configuration reloads are applied.
package registry

import (
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/max-longrun/bison-mcp/internal/config"
	"github.com/max-longrun/bison-mcp/internal/emailbison"
	"github.com/max-longrun/bison-mcp/pkg/logging"
)

// ClientFactory builds a client for an account.
type ClientFactory func(config.Account) (*emailbison.Client, error)

// Option customizes a Registry.
type Option func(*Registry)

// WithObserver attaches a request observer to every client the registry
// builds.
func WithObserver(obs emailbison.RequestObserver) Option {
	return func(r *Registry) { r.observer = obs }
}

// WithHTTPClient makes every built client use hc as its transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(r *Registry) { r.httpClient = hc }
}

// WithFactory replaces the client constructor entirely.
func WithFactory(f ClientFactory) Option {
	return func(r *Registry) { r.factory = f }
}

// WithCacheObserver is called with the number of cached clients whenever it
// changes.
func WithCacheObserver(f func(int)) Option {
	return func(r *Registry) { r.onCacheChange = f }
}

// Registry maps account names to cached clients.
type Registry struct {
	mu         sync.RWMutex
	cfg        config.Config
	cache      map[string]*emailbison.Client
	generation uint64
	// stale holds clients built while the account set changed. They were
	// handed out uncached and are closed by the next CloseAll or Replace.
	stale []*emailbison.Client

	group         singleflight.Group
	factory       ClientFactory
	observer      emailbison.RequestObserver
	httpClient    *http.Client
	onCacheChange func(int)
}

// New validates cfg and returns a registry with an empty cache.
func New(cfg config.Config, opts ...Option) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Registry{
		cfg:   cfg,
		cache: make(map[string]*emailbison.Client),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.factory == nil {
		r.factory = r.defaultFactory
	}

	logging.Info("Registry", "Configured %d account(s), default=%q", len(cfg.Accounts), cfg.DefaultAccount)
	return r, nil
}

func (r *Registry) defaultFactory(acct config.Account) (*emailbison.Client, error) {
	var hc *http.Client
	if r.httpClient != nil {
		copied := *r.httpClient
		hc = &copied
	}
	return emailbison.New(emailbison.Options{
		Account:    acct.Name,
		APIKey:     acct.APIKey,
		BaseURL:    acct.BaseURL,
		Timeout:    acct.Timeout,
		RateLimit:  acct.RateLimit,
		HTTPClient: hc,
		Observer:   r.observer,
	})
}

// Names returns the configured account names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg.Names()
}

// DefaultAccount returns the configured default, or "".
func (r *Registry) DefaultAccount() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg.DefaultAccount
}

// Account returns the configuration of one account.
func (r *Registry) Account(name string) (config.Account, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acct, ok := r.cfg.Accounts[name]
	return acct, ok
}

// CachedCount returns the number of live clients.
func (r *Registry) CachedCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

// Resolve returns the client for name, or for the default account when name
// is empty. Unknown names and a missing default yield a
// *config.ConfigurationError listing every configured account.
func (r *Registry) Resolve(name string) (*emailbison.Client, error) {
	r.mu.RLock()
	if name == "" {
		name = r.cfg.DefaultAccount
		if name == "" {
			names := r.cfg.Names()
			r.mu.RUnlock()
			return nil, &config.ConfigurationError{
				ErrorType: "lookup",
				Message:   "No accountName provided and no defaultAccount is configured. Specify accountName.",
				Accounts:  names,
			}
		}
	}
	acct, ok := r.cfg.Accounts[name]
	if !ok {
		names := r.cfg.Names()
		r.mu.RUnlock()
		return nil, &config.ConfigurationError{
			ErrorType: "lookup",
			Message:   fmt.Sprintf("Account %q not found in configuration.", name),
			Accounts:  names,
		}
	}
	if client, ok := r.cache[name]; ok {
		r.mu.RUnlock()
		return client, nil
	}
	generation := r.generation
	r.mu.RUnlock()

	key := fmt.Sprintf("%d/%s", generation, name)
	result, err, _ := r.group.Do(key, func() (interface{}, error) {
		r.mu.RLock()
		if client, ok := r.cache[name]; ok && r.generation == generation {
			r.mu.RUnlock()
			return client, nil
		}
		r.mu.RUnlock()

		client, err := r.factory(acct)
		if err != nil {
			return nil, &config.ConfigurationError{
				ErrorType: "validation",
				Message:   fmt.Sprintf("cannot create client for account %q: %v", name, err),
			}
		}

		r.mu.Lock()
		if r.generation != generation {
			// The account set changed while building; hand out the client
			// for this call only.
			r.stale = append(r.stale, client)
			r.mu.Unlock()
			logging.Debug("Registry", "Account set changed while building client for %s", name)
			return client, nil
		}
		r.cache[name] = client
		count := len(r.cache)
		r.mu.Unlock()

		r.notifyCache(count)
		logging.Debug("Registry", "Created client for account %s (%s)", name, acct.BaseURL)
		return client, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*emailbison.Client), nil
}

// Replace swaps in a new account set. The cache is cleared and the previous
// clients are closed. An invalid cfg leaves the registry untouched.
func (r *Registry) Replace(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	old, stale := r.cache, r.stale
	r.cfg = cfg
	r.cache = make(map[string]*emailbison.Client)
	r.stale = nil
	r.generation++
	r.mu.Unlock()

	closeClients(old)
	closeStale(stale)
	r.notifyCache(0)
	logging.Info("Registry", "Replaced account set: %d account(s), default=%q", len(cfg.Accounts), cfg.DefaultAccount)
	return nil
}

// CloseAll closes every cached client and empties the cache. Later calls to
// Resolve build fresh clients.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	old, stale := r.cache, r.stale
	r.cache = make(map[string]*emailbison.Client)
	r.stale = nil
	r.generation++
	r.mu.Unlock()

	closeClients(old)
	closeStale(stale)
	r.notifyCache(0)
	if len(old) > 0 {
		logging.Debug("Registry", "Closed %d cached client(s)", len(old))
	}
}

func (r *Registry) notifyCache(n int) {
	if r.onCacheChange != nil {
		r.onCacheChange(n)
	}
}

func closeClients(clients map[string]*emailbison.Client) {
	for name, client := range clients {
		if err := client.Close(); err != nil {
			logging.Warn("Registry", "Closing client for %s: %v", name, err)
		}
	}
}

func closeStale(clients []*emailbison.Client) {
	for _, client := range clients {
		if err := client.Close(); err != nil {
			logging.Warn("Registry", "Closing client for %s: %v", client.Account(), err)
		}
	}
}
