package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/max-longrun/bison-mcp/internal/emailbison"
	"github.com/max-longrun/bison-mcp/internal/metrics"
	"github.com/max-longrun/bison-mcp/internal/pagination"
	"github.com/max-longrun/bison-mcp/internal/registry"
	"github.com/max-longrun/bison-mcp/pkg/logging"
)

// ToolObserver receives one observation per finished tool call.
type ToolObserver interface {
	ObserveToolCall(tool, outcome string, elapsed time.Duration)
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithReadOnly refuses every tool not marked ReadOnly.
func WithReadOnly(readOnly bool) Option {
	return func(d *Dispatcher) { d.readOnly = readOnly }
}

// WithObserver reports tool calls to obs, typically *metrics.Metrics.
func WithObserver(obs ToolObserver) Option {
	return func(d *Dispatcher) { d.observer = obs }
}

// Dispatcher runs tool calls against the account registry.
type Dispatcher struct {
	registry *registry.Registry
	tools    map[string]ToolMetadata
	handlers map[string]handlerFunc
	readOnly bool
	observer ToolObserver
}

// NewDispatcher returns a dispatcher over the full catalog.
func NewDispatcher(reg *registry.Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: reg,
		tools:    make(map[string]ToolMetadata),
		handlers: allHandlers(),
	}
	for _, t := range Catalog() {
		d.tools[t.Name] = t
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the account registry the dispatcher resolves against.
func (d *Dispatcher) Registry() *registry.Registry { return d.registry }

// ReadOnly reports whether mutating tools are refused.
func (d *Dispatcher) ReadOnly() bool { return d.readOnly }

// Tools returns the catalog, sorted by name.
func (d *Dispatcher) Tools() []ToolMetadata { return Catalog() }

// Allowed reports whether name exists and may run in the current mode.
func (d *Dispatcher) Allowed(name string) bool {
	t, ok := d.tools[name]
	return ok && (!d.readOnly || t.ReadOnly)
}

// CallTool runs one tool. It never returns nil and never panics; every
// failure is reported as an error-flagged result.
func (d *Dispatcher) CallTool(ctx context.Context, name string, arguments map[string]any) (result *mcp.CallToolResult) {
	callID := uuid.New().String()
	start := time.Now()
	outcome := metrics.OutcomeSuccess

	defer func() {
		if r := recover(); r != nil {
			logging.Error("Dispatcher", fmt.Errorf("%v", r), "[%s] Tool %s panicked", callID, name)
			outcome = metrics.OutcomeError
			result = mcp.NewToolResultError(fmt.Sprintf("Tool execution error: %v", r))
		}
		if d.observer != nil {
			d.observer.ObserveToolCall(name, outcome, time.Since(start))
		}
	}()

	meta, ok := d.tools[name]
	if !ok {
		outcome = metrics.OutcomeUnknown
		logging.Warn("Dispatcher", "[%s] Unknown tool %s", callID, name)
		return mcp.NewToolResultError("Unknown tool: " + name)
	}
	if d.readOnly && !meta.ReadOnly {
		outcome = metrics.OutcomeDenied
		logging.Warn("Dispatcher", "[%s] Refused %s in read-only mode", callID, name)
		return mcp.NewToolResultError(fmt.Sprintf("Tool execution error: %s is disabled because the server runs in read-only mode.", name))
	}

	a, account := splitAccount(arguments)
	logging.Debug("Dispatcher", "[%s] Calling %s (account=%q)", callID, name, account)

	payload, err := d.invoke(ctx, meta, account, a)
	if err != nil {
		outcome = metrics.OutcomeError
		logging.Warn("Dispatcher", "[%s] %s failed after %s: %v", callID, name, time.Since(start).Round(time.Millisecond), err)
		return mcp.NewToolResultError(ErrorText(err))
	}

	logging.Debug("Dispatcher", "[%s] %s succeeded in %s", callID, name, time.Since(start).Round(time.Millisecond))
	return render(meta, payload)
}

func (d *Dispatcher) invoke(ctx context.Context, meta ToolMetadata, account string, a args) (any, error) {
	if meta.Name == ListAccountsTool {
		return d.listAccounts(), nil
	}
	handler, ok := d.handlers[meta.Name]
	if !ok {
		return nil, fmt.Errorf("no handler registered for %s", meta.Name)
	}
	client, err := d.registry.Resolve(account)
	if err != nil {
		return nil, err
	}
	return handler(ctx, client, a)
}

func (d *Dispatcher) listAccounts() map[string]any {
	def := d.registry.DefaultAccount()
	var accounts []any
	for _, name := range d.registry.Names() {
		acct, _ := d.registry.Account(name)
		baseURL := acct.BaseURL
		if baseURL == "" {
			baseURL = emailbison.DefaultBaseURL
		}
		accounts = append(accounts, map[string]any{
			"name":      name,
			"baseUrl":   strings.TrimRight(baseURL, "/"),
			"isDefault": name == def,
		})
	}
	return map[string]any{
		"accounts":       accounts,
		"defaultAccount": def,
	}
}

// splitAccount removes the account selector from arguments. accountName
// wins over the client_name alias. The input map is not modified.
func splitAccount(arguments map[string]any) (args, string) {
	a := make(args, len(arguments))
	for k, v := range arguments {
		a[k] = v
	}
	account := a.optString(AccountArgument)
	if account == "" {
		account = a.optString(ClientNameAlias)
	}
	delete(a, AccountArgument)
	delete(a, ClientNameAlias)
	return a, strings.TrimSpace(account)
}

// ErrorText is the message of an error-flagged result for err.
func ErrorText(err error) string {
	var apiErr *emailbison.APIError
	if errors.As(err, &apiErr) {
		return "EmailBison API error: " + apiErr.Error()
	}
	return "Tool execution error: " + err.Error()
}

func render(meta ToolMetadata, payload any) *mcp.CallToolResult {
	text := RenderPayload(payload)
	if meta.Paginated || pagination.IsEnvelope(payload) {
		text += pagination.Advise(payload).Reminder()
	}

	content := []mcp.Content{mcp.NewTextContent(text)}
	if meta.Notice != "" {
		content = append(content, mcp.NewTextContent(meta.Notice))
	}

	structured := payload
	if _, ok := payload.(map[string]any); !ok {
		structured = map[string]any{"result": payload}
	}

	return &mcp.CallToolResult{
		Content:           content,
		StructuredContent: structured,
	}
}

// RenderPayload renders a decoded response as indented JSON with sorted
// keys. Text responses are returned unchanged.
func RenderPayload(payload any) string {
	if s, ok := payload.(string); ok {
		return s
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Sprint(payload)
	}
	return strings.TrimRight(buf.String(), "\n")
}
