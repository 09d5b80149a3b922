package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/max-longrun/bison-mcp/pkg/logging"
)

// routerSetup lets a transport mount its MCP endpoints next to the
// operational ones.
type routerSetup struct {
	router *mux.Router
}

func (r *routerSetup) handle(path string, h http.Handler) {
	r.router.Handle(path, h)
}

// httpHandler builds the router shared by every HTTP listener: /metrics,
// /healthz and whatever mount adds, behind the metrics middleware and CORS.
func (s *Server) httpHandler(mount func(*routerSetup)) http.Handler {
	router := mux.NewRouter()
	router.Use(s.metrics.Middleware)
	router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	if mount != nil {
		mount(&routerSetup{router: router})
	}

	origins := s.config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Mcp-Session-Id"},
	})
	return c.Handler(router)
}

// HealthStatus is the /healthz response body.
type HealthStatus struct {
	Status         string   `json:"status"`
	Version        string   `json:"version"`
	Transport      string   `json:"transport"`
	Accounts       []string `json:"accounts"`
	DefaultAccount string   `json:"defaultAccount,omitempty"`
	CachedClients  int      `json:"cachedClients"`
	ReadOnly       bool     `json:"readOnly"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	reg := s.dispatcher.Registry()
	status := HealthStatus{
		Status:         "ok",
		Version:        s.config.Version,
		Transport:      string(s.config.Transport),
		Accounts:       reg.Names(),
		DefaultAccount: reg.DefaultAccount(),
		CachedClients:  reg.CachedCount(),
		ReadOnly:       s.dispatcher.ReadOnly(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		logging.Debug("Server", "Failed to write health response: %v", err)
	}
}
