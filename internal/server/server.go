package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/max-longrun/bison-mcp/internal/config"
	"github.com/max-longrun/bison-mcp/internal/metrics"
	"github.com/max-longrun/bison-mcp/internal/tools"
	"github.com/max-longrun/bison-mcp/pkg/logging"
)

// Name is the server name announced during MCP initialization.
const Name = "bison-mcp"

const shutdownTimeout = 5 * time.Second

// Transport selects how MCP messages reach the server.
type Transport string

const (
	TransportStdio          Transport = "stdio"
	TransportSSE            Transport = "sse"
	TransportStreamableHTTP Transport = "streamable-http"
)

// ParseTransport accepts the transport names used on the command line.
func ParseTransport(s string) (Transport, error) {
	switch t := Transport(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return TransportStdio, nil
	case TransportStdio, TransportSSE, TransportStreamableHTTP:
		return t, nil
	case "http", "streamable":
		return TransportStreamableHTTP, nil
	default:
		return "", fmt.Errorf("unknown transport %q (expected stdio, sse or streamable-http)", s)
	}
}

const instructions = `Tools for leads, campaigns, replies, sender emails, tags and workspaces of the EmailBison API.

Read document:emailbison/api-reference, document:emailbison/pagination and document:emailbison/entity-ids before calling tools.

Accounts: every tool takes an optional accountName argument. Call A_List_Accounts to see the configured accounts. Use accountName to reach another account; do not use W_Switch_Workspace for that.

Entity IDs: the API takes IDs, not names. List tags, timezones, campaigns, leads, sender emails or workspaces first and use their id.

Pagination: list results end with a PAGINATION REMINDER. When it lists remaining pages, fetch them before answering.

Sequence steps: call C_Get_Campaign_Sequence_Steps before C_Update_Campaign_Sequence_Steps and keep each step's id. Variables use single braces and upper case, e.g. {FIRST_NAME}. With thread_reply=true leave "Re:" out of the subject.

Confirm identifiers with the user before calling tools that change state.`

// Config holds the runtime settings of a Server.
type Config struct {
	Version   string
	Transport Transport
	// Addr is the listen address of the HTTP transports.
	Addr string
	// PublicURL is the externally visible base URL announced by the SSE
	// transport. Empty means http://<Addr>.
	PublicURL string
	// MetricsAddr starts a separate listener for /metrics and /healthz.
	MetricsAddr string
	// AllowedOrigins configures CORS on the HTTP listeners. Empty allows all.
	AllowedOrigins []string
	// WatchPath enables configuration hot reload for the given file.
	WatchPath string
	Defaults  config.Defaults
}

// Server serves the tool catalog over MCP.
type Server struct {
	config     Config
	dispatcher *tools.Dispatcher
	metrics    *metrics.Metrics
	mcpServer  *mcpserver.MCPServer

	// Transport-specific servers
	sseServer            *mcpserver.SSEServer
	streamableHTTPServer *mcpserver.StreamableHTTPServer
	stdioServer          *mcpserver.StdioServer

	httpServer    *http.Server
	metricsServer *http.Server
	listenAddr    string
	watcher       *config.Watcher

	// Lifecycle management
	ctx        context.Context
	cancelFunc context.CancelFunc
	done       chan struct{}
	wg         sync.WaitGroup
	mu         sync.RWMutex
	started    bool
}

// New builds the MCP server and registers tools, resources and prompts.
// Nothing listens until Start.
func New(cfg Config, dispatcher *tools.Dispatcher, m *metrics.Metrics) *Server {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if m == nil {
		m = metrics.New()
	}

	s := &Server{
		config:     cfg,
		dispatcher: dispatcher,
		metrics:    m,
	}
	s.mcpServer = mcpserver.NewMCPServer(
		Name,
		cfg.Version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, true),
		mcpserver.WithPromptCapabilities(true),
		mcpserver.WithInstructions(instructions),
		mcpserver.WithRecovery(),
	)
	s.mcpServer.AddTools(s.serverTools()...)
	s.mcpServer.AddResources(serverResources()...)
	s.mcpServer.AddPrompts(serverPrompts()...)
	return s
}

// MCPServer exposes the underlying mcp-go server, mostly for in-process use.
func (s *Server) MCPServer() *mcpserver.MCPServer { return s.mcpServer }

// Addr returns the bound address of the HTTP transport once started.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listenAddr
}

// Done is closed when the stdio transport ends, for example because the
// client closed stdin. It is nil for the HTTP transports.
func (s *Server) Done() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.done
}

func (s *Server) serverTools() []mcpserver.ServerTool {
	accounts := s.dispatcher.Registry().Names()
	catalog := s.dispatcher.Tools()
	out := make([]mcpserver.ServerTool, 0, len(catalog))
	for _, t := range catalog {
		out = append(out, mcpserver.ServerTool{
			Tool:    t.MCPTool(accounts),
			Handler: s.handleTool,
		})
	}
	return out
}

// handleTool never returns a protocol error; failures travel as error
// flagged results.
func (s *Server) handleTool(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.dispatcher.CallTool(ctx, req.Params.Name, req.GetArguments()), nil
}

// Reload swaps in a new account set and re-publishes the tool list.
func (s *Server) Reload(cfg config.Config) error {
	if err := s.dispatcher.Registry().Replace(cfg); err != nil {
		return err
	}
	s.mcpServer.SetTools(s.serverTools()...)
	logging.Info("Server", "Reloaded configuration from %s with accounts: %s", cfg.Source, strings.Join(cfg.Names(), ", "))
	return nil
}

// Start starts the configured transport, the optional metrics listener and
// the configuration watcher.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("server already started")
	}
	s.ctx, s.cancelFunc = context.WithCancel(ctx)
	s.started = true
	s.mu.Unlock()

	if err := s.startTransport(); err != nil {
		s.cancelFunc()
		s.mu.Lock()
		s.started = false
		s.mu.Unlock()
		return err
	}

	if s.config.MetricsAddr != "" {
		if err := s.startMetricsListener(); err != nil {
			_ = s.Stop(context.Background())
			return err
		}
	}

	if s.config.WatchPath != "" {
		watcher := config.NewWatcher(s.config.WatchPath, s.config.Defaults, 0, func(cfg config.Config) {
			if err := s.Reload(cfg); err != nil {
				logging.Error("Server", err, "Ignoring invalid configuration from %s", s.config.WatchPath)
			}
		})
		if err := watcher.Start(s.ctx); err != nil {
			logging.Warn("Server", "Configuration hot reload disabled: %v", err)
		} else {
			s.mu.Lock()
			s.watcher = watcher
			s.mu.Unlock()
		}
	}

	if sent, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		logging.Warn("Server", "Failed to notify systemd: %v", err)
	} else if sent {
		logging.Debug("Server", "Notified systemd readiness")
	}
	return nil
}

func (s *Server) startTransport() error {
	switch s.config.Transport {
	case TransportStdio:
		logging.Info("Server", "Starting MCP server with stdio transport")
		stdio := mcpserver.NewStdioServer(s.mcpServer)
		done := make(chan struct{})
		s.mu.Lock()
		s.stdioServer = stdio
		s.done = done
		s.mu.Unlock()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer close(done)
			if err := stdio.Listen(s.ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
				logging.Error("Server", err, "Stdio server error")
			}
		}()
		return nil

	case TransportSSE:
		httpSrv := &http.Server{ReadHeaderTimeout: 10 * time.Second}
		ln, err := net.Listen("tcp", s.config.Addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
		}
		publicURL := s.config.PublicURL
		if publicURL == "" {
			publicURL = "http://" + ln.Addr().String()
		}
		logging.Info("Server", "Starting MCP server with SSE transport on %s", ln.Addr())
		sse := mcpserver.NewSSEServer(
			s.mcpServer,
			mcpserver.WithBaseURL(publicURL),
			mcpserver.WithSSEEndpoint("/sse"),
			mcpserver.WithMessageEndpoint("/message"),
			mcpserver.WithKeepAlive(true),
			mcpserver.WithKeepAliveInterval(30*time.Second),
			mcpserver.WithHTTPServer(httpSrv),
		)
		httpSrv.Handler = s.httpHandler(func(r *routerSetup) {
			r.handle("/sse", sse)
			r.handle("/message", sse)
		})
		s.mu.Lock()
		s.sseServer = sse
		s.httpServer = httpSrv
		s.listenAddr = ln.Addr().String()
		s.mu.Unlock()
		s.serve("SSE server", httpSrv, ln)
		return nil

	case TransportStreamableHTTP:
		ln, err := net.Listen("tcp", s.config.Addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
		}
		logging.Info("Server", "Starting MCP server with streamable-http transport on %s", ln.Addr())
		streamable := mcpserver.NewStreamableHTTPServer(s.mcpServer, mcpserver.WithEndpointPath("/mcp"))
		httpSrv := &http.Server{
			ReadHeaderTimeout: 10 * time.Second,
			Handler: s.httpHandler(func(r *routerSetup) {
				r.handle("/mcp", streamable)
			}),
		}
		s.mu.Lock()
		s.streamableHTTPServer = streamable
		s.httpServer = httpSrv
		s.listenAddr = ln.Addr().String()
		s.mu.Unlock()
		s.serve("Streamable HTTP server", httpSrv, ln)
		return nil

	default:
		return fmt.Errorf("unsupported transport %q", s.config.Transport)
	}
}

func (s *Server) startMetricsListener() error {
	ln, err := net.Listen("tcp", s.config.MetricsAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.MetricsAddr, err)
	}
	logging.Info("Server", "Serving metrics on %s", ln.Addr())
	srv := &http.Server{
		ReadHeaderTimeout: 10 * time.Second,
		Handler:           s.httpHandler(nil),
	}
	s.mu.Lock()
	s.metricsServer = srv
	s.mu.Unlock()
	s.serve("Metrics server", srv, ln)
	return nil
}

func (s *Server) serve(name string, srv *http.Server, ln net.Listener) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server", err, "%s error", name)
		}
	}()
}

// Stop shuts every listener down, waiting at most five seconds for open
// requests, and closes all cached API clients.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return fmt.Errorf("server not started")
	}
	logging.Info("Server", "Stopping MCP server")

	cancelFunc := s.cancelFunc
	sseServer := s.sseServer
	httpServer := s.httpServer
	metricsServer := s.metricsServer
	watcher := s.watcher
	s.mu.Unlock()

	if watcher != nil {
		watcher.Stop()
	}
	if cancelFunc != nil {
		cancelFunc()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	// The SSE server owns httpServer and closes its sessions first.
	if sseServer != nil {
		if err := sseServer.Shutdown(shutdownCtx); err != nil {
			logging.Error("Server", err, "Error shutting down SSE server")
		}
	} else if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logging.Error("Server", err, "Error shutting down streamable HTTP server")
		}
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Error("Server", err, "Error shutting down metrics server")
		}
	}

	// Stdio server stops on context cancellation, no explicit shutdown needed.
	s.wg.Wait()

	s.dispatcher.Registry().CloseAll()

	s.mu.Lock()
	s.started = false
	s.sseServer = nil
	s.streamableHTTPServer = nil
	s.stdioServer = nil
	s.httpServer = nil
	s.metricsServer = nil
	s.watcher = nil
	s.listenAddr = ""
	s.mu.Unlock()
	return nil
}
