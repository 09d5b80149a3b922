package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveToolCall(t *testing.T) {
	m := New()
	m.ObserveToolCall("L_List_Leads", OutcomeSuccess, 10*time.Millisecond)
	m.ObserveToolCall("L_List_Leads", OutcomeSuccess, 20*time.Millisecond)
	m.ObserveToolCall("L_List_Leads", OutcomeError, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.toolCalls.WithLabelValues("L_List_Leads", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.toolCalls.WithLabelValues("L_List_Leads", OutcomeError)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.toolDuration))
}

func TestObserveAPIRequest(t *testing.T) {
	m := New()
	m.ObserveAPIRequest("Acme", http.MethodGet, 200, time.Millisecond)
	m.ObserveAPIRequest("Acme", http.MethodPost, 422, time.Millisecond)
	m.ObserveAPIRequest("Beta", http.MethodGet, 0, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.apiRequests.WithLabelValues("Acme", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.apiRequests.WithLabelValues("Acme", "POST", "422")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.apiRequests.WithLabelValues("Beta", "GET", "transport_error")))
}

func TestSetCachedClients(t *testing.T) {
	m := New()
	m.SetCachedClients(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.cachedClients))
	m.SetCachedClients(0)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.cachedClients))
}

func TestHandlerAndMiddleware(t *testing.T) {
	m := New()
	router := mux.NewRouter()
	router.Use(m.Middleware)
	router.Path("/metrics").Handler(m.Handler())
	router.HandleFunc("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/items/7")
	require.NoError(t, err)
	resp.Body.Close()

	m.SetCachedClients(2)
	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "bison_mcp_cached_clients 2")
	assert.Contains(t, string(body), `bison_mcp_http_duration_seconds_count{path="/items/{id}"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestRegistryGather(t *testing.T) {
	m := New()
	m.ObserveToolCall("T_List_Tags", OutcomeSuccess, 10*time.Millisecond)
	m.ObserveToolCall("T_List_Tags", OutcomeSuccess, 20*time.Millisecond)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, fam := range families {
		byName[fam.GetName()] = fam
	}

	duration := byName["bison_mcp_tool_call_duration_seconds"]
	require.NotNil(t, duration)
	assert.Equal(t, dto.MetricType_HISTOGRAM, duration.GetType())
	require.Len(t, duration.GetMetric(), 1)
	assert.Equal(t, uint64(2), duration.GetMetric()[0].GetHistogram().GetSampleCount())

	assert.Contains(t, byName, "go_goroutines")
}
