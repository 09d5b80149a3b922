package tools

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogMatchesHandlers(t *testing.T) {
	handlers := allHandlers()
	seen := map[string]bool{}

	for _, tool := range Catalog() {
		assert.False(t, seen[tool.Name], "duplicate tool %s", tool.Name)
		seen[tool.Name] = true

		if tool.Name == ListAccountsTool {
			continue
		}
		_, ok := handlers[tool.Name]
		assert.True(t, ok, "tool %s has no handler", tool.Name)
	}

	for name := range handlers {
		assert.True(t, seen[name], "handler %s has no catalog entry", name)
	}
}

func TestCatalog(t *testing.T) {
	catalog := Catalog()
	require.Len(t, catalog, 75)

	for i := 1; i < len(catalog); i++ {
		assert.Less(t, catalog[i-1].Name, catalog[i].Name)
	}

	for _, tool := range catalog {
		t.Run(tool.Name, func(t *testing.T) {
			assert.NotEmpty(t, tool.Description)
			assert.NotEmpty(t, tool.Title)
			assert.Regexp(t, `^[ACLMRTW]_[A-Z]`, tool.Name)
			assert.Equal(t, tool.Name[:1], tool.Title[:1])

			params := map[string]bool{}
			for _, p := range tool.Parameters {
				assert.False(t, params[p.Name], "duplicate parameter %s", p.Name)
				params[p.Name] = true
				assert.NotEqual(t, AccountArgument, p.Name)
				assert.NotEqual(t, ClientNameAlias, p.Name)
			}
		})
	}
}

func TestCatalog_PaginatedTools(t *testing.T) {
	var paginated []string
	for _, tool := range Catalog() {
		if tool.Paginated {
			paginated = append(paginated, tool.Name)
			assert.True(t, tool.ReadOnly, tool.Name)
		}
	}
	assert.Equal(t, []string{
		"C_Get_Campaign_Leads",
		"C_Get_Campaign_Replies",
		"C_List_Campaigns",
		"L_List_Leads",
		"R_List_Replies",
	}, paginated)
}

func TestCatalog_MutatingToolsAreNotReadOnly(t *testing.T) {
	for _, tool := range Catalog() {
		verb := strings.Split(tool.Name, "_")[1]
		switch verb {
		case "Create", "Update", "Delete", "Archive", "Remove", "Attach", "Send", "Unsubscribe",
			"Pause", "Resume", "Duplicate", "Import", "Stop", "Enable", "Disable", "Switch", "Invite",
			"Compose", "Bulk":
			assert.False(t, tool.ReadOnly, tool.Name)
		case "List", "Get":
			assert.True(t, tool.ReadOnly, tool.Name)
		default:
			t.Errorf("unexpected verb %q in %s", verb, tool.Name)
		}
	}
}

func TestLookup(t *testing.T) {
	tool, ok := Lookup("T_List_Tags")
	require.True(t, ok)
	assert.Contains(t, tool.Notice, "tag IDs")

	_, ok = Lookup("Nope")
	assert.False(t, ok)
}

func TestConvertToMCPSchema(t *testing.T) {
	params := []ParameterMetadata{
		required(integer("campaign_id", "Campaign.")),
		withDefault(integer("page", "Page."), 1),
		array("tag_ids", "integer", "Tags."),
	}

	schema := ConvertToMCPSchema(params, []string{"Beta", "Acme"})

	assert.Equal(t, "object", schema.Type)
	assert.Equal(t, []string{"campaign_id"}, schema.Required)
	assert.Equal(t, map[string]interface{}{"type": "integer", "description": "Campaign."}, schema.Properties["campaign_id"])
	assert.Equal(t, 1, schema.Properties["page"].(map[string]interface{})["default"])

	tags := schema.Properties["tag_ids"].(map[string]interface{})
	assert.Equal(t, "array", tags["type"])
	assert.Equal(t, "Tags.", tags["description"])

	account := schema.Properties[AccountArgument].(map[string]interface{})
	assert.Equal(t, "string", account["type"])
	assert.Equal(t, []string{"Acme", "Beta"}, account["enum"])
}

func TestConvertToMCPSchema_NoAccounts(t *testing.T) {
	schema := ConvertToMCPSchema(nil, nil)
	assert.Empty(t, schema.Required)
	account := schema.Properties[AccountArgument].(map[string]interface{})
	_, hasEnum := account["enum"]
	assert.False(t, hasEnum)
}

func TestMCPTool(t *testing.T) {
	tool, ok := Lookup("C_Archive_Campaign")
	require.True(t, ok)

	mcpTool := tool.MCPTool([]string{"Acme"})
	assert.Equal(t, "C_Archive_Campaign", mcpTool.Name)
	assert.Equal(t, []string{"campaign_id"}, mcpTool.InputSchema.Required)
	require.NotNil(t, mcpTool.Annotations.ReadOnlyHint)
	assert.False(t, *mcpTool.Annotations.ReadOnlyHint)
	assert.True(t, *mcpTool.Annotations.DestructiveHint)
	assert.Equal(t, "C. Archive Campaign", mcpTool.Annotations.Title)
}
