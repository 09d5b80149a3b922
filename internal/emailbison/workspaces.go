package emailbison

import (
	"context"
	"fmt"
	"net/http"

	"github.com/max-longrun/bison-mcp/internal/normalize"
)

// AccountDetails returns the authenticated user and their workspace. It is
// also the cheapest call to verify that an API key works.
func (c *Client) AccountDetails(ctx context.Context) (any, error) {
	return c.Request(ctx, http.MethodGet, "/users", nil, nil)
}

func (c *Client) ListCustomVariables(ctx context.Context) (any, error) {
	return c.Request(ctx, http.MethodGet, "/custom-variables", nil, nil)
}

func (c *Client) CreateCustomVariable(ctx context.Context, name string) (any, error) {
	return c.Request(ctx, http.MethodPost, "/custom-variables", nil, map[string]any{"name": name})
}

func (c *Client) ListWorkspaces(ctx context.Context) (any, error) {
	return c.Request(ctx, http.MethodGet, "/workspaces/v1.1", nil, nil)
}

func (c *Client) CreateWorkspace(ctx context.Context, name string) (any, error) {
	return c.Request(ctx, http.MethodPost, "/workspaces/v1.1", nil, map[string]any{"name": name})
}

func (c *Client) SwitchWorkspace(ctx context.Context, teamID int) (any, error) {
	return c.Request(ctx, http.MethodPost, "/workspaces/v1.1/switch-workspace", nil, map[string]any{"team_id": teamID})
}

func (c *Client) UpdateWorkspace(ctx context.Context, teamID int, name string) (any, error) {
	return c.Request(ctx, http.MethodPut, fmt.Sprintf("/workspaces/v1.1/%d", teamID), nil, map[string]any{"name": name})
}

func (c *Client) GetWorkspaceDetails(ctx context.Context, teamID int) (any, error) {
	return c.Request(ctx, http.MethodGet, fmt.Sprintf("/workspaces/v1.1/%d", teamID), nil, nil)
}

func (c *Client) InviteTeamMember(ctx context.Context, email, role string) (any, error) {
	return c.Request(ctx, http.MethodPost, "/workspaces/v1.1/invite-members", nil, map[string]any{"email": email, "role": role})
}

func (c *Client) GetWorkspaceStats(ctx context.Context, r DateRange) (any, error) {
	return c.Request(ctx, http.MethodGet, "/workspaces/v1.1/stats", normalize.Query(r.fields()), nil)
}

func (c *Client) GetWorkspaceLineAreaChartStats(ctx context.Context, r DateRange) (any, error) {
	return c.Request(ctx, http.MethodGet, "/workspaces/v1.1/line-area-chart-stats", normalize.Query(r.fields()), nil)
}
