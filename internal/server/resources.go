package server

import (
	"context"
	"embed"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

//go:embed docs/*.md
var docsFS embed.FS

const (
	resourceScheme = "document:emailbison/"
	markdownMIME   = "text/markdown"
)

// document is one static documentation resource.
type document struct {
	slug        string
	title       string
	description string
}

var documents = []document{
	{"api-reference", "EmailBison API Reference", "Endpoints and how tool arguments are sent to them. Read before calling any tool."},
	{"pagination", "EmailBison Pagination Guide", "How paginated results are reported and how to fetch every page."},
	{"entity-ids", "Entity ID Requirements", "Which arguments take IDs and which tool lists them."},
	{"filters", "EmailBison Filtering Guide", "Filter keys, value formats and the tag_ids shorthand."},
	{"tags", "Workspace Tags", "Listing tags and attaching them to leads, campaigns and sender emails."},
	{"accounts", "Multiple Accounts", "Selecting an account with accountName and configuring several accounts."},
}

func (d document) uri() string { return resourceScheme + d.slug }

func (d document) text() (string, error) {
	data, err := docsFS.ReadFile("docs/" + d.slug + ".md")
	if err != nil {
		return "", fmt.Errorf("failed to read document %s: %w", d.slug, err)
	}
	return string(data), nil
}

// serverResources returns every documentation resource with its read handler.
func serverResources() []mcpserver.ServerResource {
	resources := make([]mcpserver.ServerResource, 0, len(documents))
	for _, doc := range documents {
		resources = append(resources, mcpserver.ServerResource{
			Resource: mcp.NewResource(doc.uri(), doc.title,
				mcp.WithResourceDescription(doc.description),
				mcp.WithMIMEType(markdownMIME),
			),
			Handler: func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
				text, err := doc.text()
				if err != nil {
					return nil, err
				}
				return []mcp.ResourceContents{
					mcp.TextResourceContents{URI: req.Params.URI, MIMEType: markdownMIME, Text: text},
				}, nil
			},
		})
	}
	return resources
}
