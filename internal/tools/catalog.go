package tools

import (
	"context"
	"sort"

	"github.com/max-longrun/bison-mcp/internal/emailbison"
)

// ListAccountsTool reports the configured accounts without calling the API.
const ListAccountsTool = "A_List_Accounts"

// handlerFunc runs one tool against a resolved client.
type handlerFunc func(ctx context.Context, c *emailbison.Client, a args) (any, error)

var accountTools = []ToolMetadata{
	{
		Name:  ListAccountsTool,
		Title: "A. List Accounts",
		Description: "List the configured EmailBison accounts and the default account. Pass one of the names as " +
			"accountName to any other tool to run it against that account.",
		ReadOnly: true,
	},
}

var toolGroups = [][]ToolMetadata{
	accountTools,
	leadTools,
	campaignTools,
	replyTools,
	senderTools,
	workspaceTools,
	tagTools,
}

var handlerGroups = []map[string]handlerFunc{
	leadHandlers,
	campaignHandlers,
	replyHandlers,
	senderHandlers,
	workspaceHandlers,
	tagHandlers,
}

// Catalog returns the metadata of every tool, sorted by name.
func Catalog() []ToolMetadata {
	var all []ToolMetadata
	for _, group := range toolGroups {
		all = append(all, group...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

// Lookup returns the metadata of one tool.
func Lookup(name string) (ToolMetadata, bool) {
	for _, group := range toolGroups {
		for _, t := range group {
			if t.Name == name {
				return t, true
			}
		}
	}
	return ToolMetadata{}, false
}

func allHandlers() map[string]handlerFunc {
	out := make(map[string]handlerFunc)
	for _, group := range handlerGroups {
		for name, h := range group {
			out[name] = h
		}
	}
	return out
}
