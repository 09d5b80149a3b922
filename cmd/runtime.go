package cmd

import (
	"os"

	"github.com/max-longrun/bison-mcp/internal/config"
	"github.com/max-longrun/bison-mcp/internal/metrics"
	"github.com/max-longrun/bison-mcp/internal/registry"
	"github.com/max-longrun/bison-mcp/internal/tools"
)

// runtime is the wired object graph shared by serve, call and accounts.
type runtime struct {
	config     config.Config
	configFile string
	defaults   config.Defaults
	metrics    *metrics.Metrics
	registry   *registry.Registry
	dispatcher *tools.Dispatcher
}

func loadOptions() config.LoadOptions {
	return config.LoadOptions{Path: configPath, EnvFiles: envFiles}
}

// newRuntime loads the account configuration and builds the registry and
// dispatcher on top of it.
func newRuntime(readOnly bool) (*runtime, error) {
	opts := loadOptions()
	cfg, err := config.Load(opts)
	if err != nil {
		return nil, err
	}
	configFile, err := config.ResolvePath(opts)
	if err != nil {
		return nil, err
	}
	defaults, err := config.DefaultsFromEnv(os.Getenv)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	reg, err := registry.New(cfg,
		registry.WithObserver(m.ObserveAPIRequest),
		registry.WithCacheObserver(m.SetCachedClients),
	)
	if err != nil {
		return nil, err
	}

	return &runtime{
		config:     cfg,
		configFile: configFile,
		defaults:   defaults,
		metrics:    m,
		registry:   reg,
		dispatcher: tools.NewDispatcher(reg, tools.WithReadOnly(readOnly), tools.WithObserver(m)),
	}, nil
}

func (r *runtime) Close() {
	r.registry.CloseAll()
}
