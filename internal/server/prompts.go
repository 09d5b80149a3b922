package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

const promptAccountArgument = "accountName"

// promptDef renders the user message of one prompt from its arguments.
type promptDef struct {
	name        string
	description string
	arguments   []promptArgument
	render      func(args map[string]string) string
}

type promptArgument struct {
	name        string
	description string
	fallback    string
}

var accountPromptArgument = promptArgument{
	name:        promptAccountArgument,
	description: "Configured account to run the tools against. Defaults to the default account.",
}

var prompts = []promptDef{
	{
		name:        "list-interested-leads",
		description: "Retrieve leads that have been flagged as interested.",
		arguments: []promptArgument{
			{name: "days", description: "How far back to look, in days.", fallback: "14"},
			accountPromptArgument,
		},
		render: func(args map[string]string) string {
			return fmt.Sprintf("Find every lead that responded positively in the last %s days and is marked as interested. "+
				"Use R_List_Replies with interested=true and fetch every page. "+
				"Return their names, email, last activity and any associated tags.", args["days"])
		},
	},
	{
		name:        "review-active-campaigns",
		description: "Audit the current campaigns and summarise status, engagement and next steps.",
		arguments:   []promptArgument{accountPromptArgument},
		render: func(map[string]string) string {
			return "List all non-completed campaigns with send volumes, reply counts and any that may need attention. " +
				"Highlight paused campaigns separately."
		},
	},
	{
		name:        "summarise-account-limits",
		description: "Review account metadata and highlight current workspace limits.",
		arguments:   []promptArgument{accountPromptArgument},
		render: func(map[string]string) string {
			return "Retrieve my EmailBison account details with W_Get_Account_Details and summarise the sender email limit, " +
				"warmup status and any quota metrics I should watch."
		},
	},
	{
		name:        "filter-leads-by-tag",
		description: "Fetch a tag ID before filtering leads by it.",
		arguments: []promptArgument{
			{name: "tag", description: "Tag name to filter by.", fallback: "Important"},
			accountPromptArgument,
		},
		render: func(args map[string]string) string {
			return fmt.Sprintf("Find all leads tagged '%s'. Start with T_List_Tags to obtain the tag ID, "+
				"then call L_List_Leads with that ID in tag_ids.", args["tag"])
		},
	},
	{
		name:        "pagination-example",
		description: "Fetch a number of results that may span several pages.",
		arguments: []promptArgument{
			{name: "tag", description: "Tag name to filter by.", fallback: "Google"},
			{name: "count", description: "How many lead names to return.", fallback: "15"},
			accountPromptArgument,
		},
		render: func(args map[string]string) string {
			var b strings.Builder
			fmt.Fprintf(&b, "Get me the first %s names of leads that have the tag '%s'.\n", args["count"], args["tag"])
			b.WriteString("L_List_Leads returns paginated results, so:\n")
			fmt.Fprintf(&b, "1. Call T_List_Tags to find the ID of the '%s' tag.\n", args["tag"])
			b.WriteString("2. Call L_List_Leads with tag_ids=[<tag id>] and page=1.\n")
			b.WriteString("3. Read the PAGINATION REMINDER at the end of the result.\n")
			fmt.Fprintf(&b, "4. While fewer than %s leads are collected and pages remain, fetch the next page.\n", args["count"])
			fmt.Fprintf(&b, "5. Combine the pages and return the first %s names.\n", args["count"])
			b.WriteString("Never assume page 1 contains all results.")
			return b.String()
		},
	},
}

// resolve fills fallbacks into a copy of the caller's arguments.
func (p promptDef) resolve(given map[string]string) map[string]string {
	args := make(map[string]string, len(p.arguments))
	for _, a := range p.arguments {
		v := strings.TrimSpace(given[a.name])
		if v == "" {
			v = a.fallback
		}
		args[a.name] = v
	}
	return args
}

func (p promptDef) message(given map[string]string) string {
	args := p.resolve(given)
	text := p.render(args)
	if account := args[promptAccountArgument]; account != "" {
		text += fmt.Sprintf("\nUse accountName %q for every tool call.", account)
	}
	return text
}

func (p promptDef) mcpPrompt() mcp.Prompt {
	opts := []mcp.PromptOption{mcp.WithPromptDescription(p.description)}
	for _, a := range p.arguments {
		opts = append(opts, mcp.WithArgument(a.name, mcp.ArgumentDescription(a.description)))
	}
	return mcp.NewPrompt(p.name, opts...)
}

// serverPrompts returns every canned prompt with its handler.
func serverPrompts() []mcpserver.ServerPrompt {
	out := make([]mcpserver.ServerPrompt, 0, len(prompts))
	for _, p := range prompts {
		out = append(out, mcpserver.ServerPrompt{
			Prompt: p.mcpPrompt(),
			Handler: func(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
				return mcp.NewGetPromptResult(p.description, []mcp.PromptMessage{
					mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(p.message(req.Params.Arguments))),
				}), nil
			},
		})
	}
	return out
}
