package tools

import (
	"context"

	"github.com/max-longrun/bison-mcp/internal/emailbison"
)

var teamIDParam = required(integer("team_id", "ID of the workspace (team), see W_List_Workspaces."))

var workspaceTools = []ToolMetadata{
	{
		Name:        "W_Get_Account_Details",
		Title:       "W. Get Account Details",
		Description: "Fetch the authenticated user and the current workspace.",
		ReadOnly:    true,
	},
	{
		Name:        "W_List_Custom_Variables",
		Title:       "W. List Custom Variables",
		Description: "List the custom lead variables of the workspace.",
		ReadOnly:    true,
	},
	{
		Name:        "W_Create_Custom_Variable",
		Title:       "W. Create Custom Variable",
		Description: "Create a custom lead variable.",
		Parameters:  []ParameterMetadata{required(str("name", "Name of the variable."))},
	},
	{
		Name:        "W_List_Workspaces",
		Title:       "W. List Workspaces",
		Description: "List the workspaces the user belongs to.",
		ReadOnly:    true,
	},
	{
		Name:        "W_Create_Workspace",
		Title:       "W. Create Workspace",
		Description: "Create a workspace.",
		Parameters:  []ParameterMetadata{required(str("name", "Name of the workspace."))},
	},
	{
		Name:        "W_Switch_Workspace",
		Title:       "W. Switch Workspace",
		Description: "Switch the current workspace of the API key.",
		Parameters:  []ParameterMetadata{teamIDParam},
	},
	{
		Name:        "W_Update_Workspace",
		Title:       "W. Update Workspace",
		Description: "Rename a workspace.",
		Parameters:  []ParameterMetadata{teamIDParam, required(str("name", "New name."))},
	},
	{
		Name:        "W_Get_Workspace_Details",
		Title:       "W. Get Workspace Details",
		Description: "Fetch one workspace.",
		Parameters:  []ParameterMetadata{teamIDParam},
		ReadOnly:    true,
	},
	{
		Name:        "W_Invite_Team_Member",
		Title:       "W. Invite Team Member",
		Description: "Invite a user to the current workspace.",
		Parameters: []ParameterMetadata{
			required(str("email", "Email address to invite.")),
			required(enum("role", "Role of the new member.", "admin", "editor", "client", "reviewer")),
		},
	},
	{
		Name:        "W_Get_Workspace_Stats",
		Title:       "W. Get Workspace Stats",
		Description: "Summary statistics of the workspace for a date range.",
		Parameters:  []ParameterMetadata{startDateParam, endDateParam},
		ReadOnly:    true,
	},
	{
		Name:        "W_Get_Workspace_Line_Area_Chart_Stats",
		Title:       "W. Get Workspace Line Area Chart Stats",
		Description: "Per-day event counts of the workspace for a date range.",
		Parameters:  []ParameterMetadata{startDateParam, endDateParam},
		ReadOnly:    true,
	},
}

var workspaceHandlers = map[string]handlerFunc{
	"W_Get_Account_Details":                 noArgs((*emailbison.Client).AccountDetails),
	"W_List_Custom_Variables":               noArgs((*emailbison.Client).ListCustomVariables),
	"W_Create_Custom_Variable":              withName((*emailbison.Client).CreateCustomVariable),
	"W_List_Workspaces":                     noArgs((*emailbison.Client).ListWorkspaces),
	"W_Create_Workspace":                    withName((*emailbison.Client).CreateWorkspace),
	"W_Switch_Workspace":                    withTeamID((*emailbison.Client).SwitchWorkspace),
	"W_Update_Workspace":                    updateWorkspace,
	"W_Get_Workspace_Details":               withTeamID((*emailbison.Client).GetWorkspaceDetails),
	"W_Invite_Team_Member":                  inviteTeamMember,
	"W_Get_Workspace_Stats":                 withRange((*emailbison.Client).GetWorkspaceStats),
	"W_Get_Workspace_Line_Area_Chart_Stats": withRange((*emailbison.Client).GetWorkspaceLineAreaChartStats),
}

func withName(call func(*emailbison.Client, context.Context, string) (any, error)) handlerFunc {
	return func(ctx context.Context, c *emailbison.Client, a args) (any, error) {
		name, err := a.requireString("name")
		if err != nil {
			return nil, err
		}
		return call(c, ctx, name)
	}
}

func withTeamID(call func(*emailbison.Client, context.Context, int) (any, error)) handlerFunc {
	return func(ctx context.Context, c *emailbison.Client, a args) (any, error) {
		id, err := a.requireInt("team_id")
		if err != nil {
			return nil, err
		}
		return call(c, ctx, id)
	}
}

func withRange(call func(*emailbison.Client, context.Context, emailbison.DateRange) (any, error)) handlerFunc {
	return func(ctx context.Context, c *emailbison.Client, a args) (any, error) {
		r, err := dateRange(a)
		if err != nil {
			return nil, err
		}
		return call(c, ctx, r)
	}
}

func updateWorkspace(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	id, err := a.requireInt("team_id")
	if err != nil {
		return nil, err
	}
	name, err := a.requireString("name")
	if err != nil {
		return nil, err
	}
	return c.UpdateWorkspace(ctx, id, name)
}

func inviteTeamMember(ctx context.Context, c *emailbison.Client, a args) (any, error) {
	email, err := a.requireString("email")
	if err != nil {
		return nil, err
	}
	role, err := a.requireString("role")
	if err != nil {
		return nil, err
	}
	return c.InviteTeamMember(ctx, email, role)
}
