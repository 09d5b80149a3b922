package tools

import (
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
)

// AccountArgument selects the configured account of a call. ClientNameAlias
// is the older spelling and is accepted as well.
const (
	AccountArgument = "accountName"
	ClientNameAlias = "client_name"
)

// ToolMetadata describes one tool of the catalog.
type ToolMetadata struct {
	Name        string
	Title       string
	Description string
	Parameters  []ParameterMetadata
	// ReadOnly tools never change remote state and stay available in
	// read-only mode.
	ReadOnly bool
	// Paginated tools get a pagination reminder appended to their output.
	Paginated bool
	// Notice is appended to successful results as an extra text block.
	Notice string
}

// ParameterMetadata describes one tool parameter.
type ParameterMetadata struct {
	Name        string
	Type        string // "string", "integer", "boolean", "array", "object"
	Required    bool
	Description string
	Default     interface{}
	// Schema, when set, replaces the basic Type based property schema.
	Schema map[string]interface{}
}

// ConvertToMCPSchema converts parameter metadata to an MCP input schema. An
// optional accountName property listing the configured accounts is added
// to every schema.
func ConvertToMCPSchema(params []ParameterMetadata, accounts []string) mcp.ToolInputSchema {
	properties := make(map[string]interface{})
	required := []string{}

	for _, param := range params {
		var propSchema map[string]interface{}

		if len(param.Schema) > 0 {
			propSchema = make(map[string]interface{}, len(param.Schema)+2)
			for key, value := range param.Schema {
				propSchema[key] = value
			}
			if param.Description != "" {
				propSchema["description"] = param.Description
			}
		} else {
			propSchema = map[string]interface{}{
				"type":        param.Type,
				"description": param.Description,
			}
		}

		if param.Default != nil {
			propSchema["default"] = param.Default
		}

		properties[param.Name] = propSchema

		if param.Required {
			required = append(required, param.Name)
		}
	}

	properties[AccountArgument] = accountProperty(accounts)

	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

func accountProperty(accounts []string) map[string]interface{} {
	prop := map[string]interface{}{
		"type":        "string",
		"description": "Configured account to run against. Omit to use the default account.",
	}
	if len(accounts) > 0 {
		names := append([]string(nil), accounts...)
		sort.Strings(names)
		prop["enum"] = names
	}
	return prop
}

// MCPTool returns the MCP form of the tool.
func (t ToolMetadata) MCPTool(accounts []string) mcp.Tool {
	return mcp.Tool{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: ConvertToMCPSchema(t.Parameters, accounts),
		Annotations: mcp.ToolAnnotation{
			Title:           t.Title,
			ReadOnlyHint:    boolPtr(t.ReadOnly),
			DestructiveHint: boolPtr(!t.ReadOnly),
			OpenWorldHint:   boolPtr(true),
		},
	}
}

func boolPtr(b bool) *bool { return &b }

// Parameter helpers keep the catalog readable.

func str(name, desc string) ParameterMetadata {
	return ParameterMetadata{Name: name, Type: "string", Description: desc}
}

func integer(name, desc string) ParameterMetadata {
	return ParameterMetadata{Name: name, Type: "integer", Description: desc}
}

func boolean(name, desc string) ParameterMetadata {
	return ParameterMetadata{Name: name, Type: "boolean", Description: desc}
}

func object(name, desc string) ParameterMetadata {
	return ParameterMetadata{Name: name, Type: "object", Description: desc}
}

func array(name, itemType, desc string) ParameterMetadata {
	return ParameterMetadata{
		Name:        name,
		Description: desc,
		Schema: map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": itemType},
		},
	}
}

func enum(name, desc string, values ...string) ParameterMetadata {
	return ParameterMetadata{
		Name:        name,
		Description: desc,
		Schema:      map[string]interface{}{"type": "string", "enum": values},
	}
}

func required(p ParameterMetadata) ParameterMetadata {
	p.Required = true
	return p
}

func withDefault(p ParameterMetadata, v interface{}) ParameterMetadata {
	p.Default = v
	return p
}
