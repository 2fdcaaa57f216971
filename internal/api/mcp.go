package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sunlit/persona/internal/compiler"
	"github.com/sunlit/persona/internal/gate"
	"github.com/sunlit/persona/internal/persona"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Manager *persona.Manager
	Gate    *gate.Gate
}

// NewMCPServer creates an MCP server exposing the persona document to AI
// clients: the compiled prompt as a tool, the raw document as a resource, and
// a tool to grow the relationship graph mid-conversation.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"persona",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("persona exposes the owner's structured profile and compiled system prompt. Use get_persona_prompt at session start to understand who you are assisting."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("get_persona_prompt",
			mcp.WithDescription("Compile the owner's persona document into the full system prompt and return it. Also stamps the document's last_updated date."),
		),
		mcpGetPrompt(deps),
	)

	s.AddTool(
		mcp.NewTool("add_person",
			mcp.WithDescription("Add a contact to one of the owner's relationship categories."),
			mcp.WithString("category_id", mcp.Description("Category id, rel-1 through rel-8"), mcp.Required()),
			mcp.WithString("alias", mcp.Description("Contact alias, e.g. A总"), mcp.Required()),
			mcp.WithString("role", mcp.Description("The contact's role relative to the owner")),
			mcp.WithString("focus_points", mcp.Description("What the contact cares about most")),
		),
		mcpAddPerson(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"persona://document",
			"Persona Document",
			mcp.WithResourceDescription("Current persona document as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceDocument(deps),
	)

	return s
}

func mcpGetPrompt(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := deps.Gate.Require(); err != nil {
			return mcpError("activation required before generating"), nil
		}

		next := deps.Manager.Apply(func(d persona.Document) persona.Document {
			return compiler.Generate(d, deps.Manager.Now())
		})
		return mcpText(next.SystemPromptSummaryZH), nil
	}
}

func mcpAddPerson(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		categoryID, err := req.RequireString("category_id")
		if err != nil {
			return mcpError("category_id is required"), nil
		}
		alias, err := req.RequireString("alias")
		if err != nil {
			return mcpError("alias is required"), nil
		}
		role := req.GetString("role", "")
		focus := req.GetString("focus_points", "")

		var newID string
		deps.Manager.Apply(func(d persona.Document) persona.Document {
			next, id := d.AddPerson(categoryID)
			if id == "" {
				return d
			}
			newID = id
			return next.UpdatePerson(categoryID, id, func(p persona.Person) persona.Person {
				p.Alias = alias
				p.RoleToMe = role
				p.FocusPoints = focus
				return p
			})
		})
		if newID == "" {
			return mcpError(fmt.Sprintf("unknown category %q", categoryID)), nil
		}

		return mcpText(fmt.Sprintf("Added %s to %s (id %s)", alias, categoryID, newID)), nil
	}
}

func mcpResourceDocument(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		doc := deps.Manager.Snapshot()

		b, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal document: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
