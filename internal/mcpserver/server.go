// Package mcpserver exposes the capture and filing operations as MCP
// (Model Context Protocol) tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/pnx/internal/appstore"
	"github.com/starford/pnx/internal/classifier"
	"github.com/starford/pnx/internal/models"
)

const rulesURI = "pnx://rules"

// Server wraps the MCP server with pnx tools.
type Server struct {
	mcp   *server.MCPServer
	store *appstore.Store
	tools map[string]server.ToolHandlerFunc
}

// New creates a new MCP server with all tools registered.
func New(store *appstore.Store, version string) *Server {
	s := &Server{store: store, tools: map[string]server.ToolHandlerFunc{}}

	s.mcp = server.NewMCPServer(
		"pnx",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.addTool(mcp.NewTool("suggest_category",
		mcp.WithDescription("Score text against the categorization rules without creating an item."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Item title")),
		mcp.WithString("description", mcp.Description("Optional description")),
		mcp.WithString("file_name", mcp.Description("Optional file name, e.g. lease.pdf")),
		mcp.WithString("mime_type", mcp.Description("Optional MIME type")),
	), s.suggestCategory)

	s.addTool(mcp.NewTool("add_item",
		mcp.WithDescription("Capture a new item. A category is suggested when auto-suggest is enabled."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Item title")),
		mcp.WithString("media_type", mcp.Required(), mcp.Enum("photo", "video", "audio", "file")),
		mcp.WithString("description", mcp.Description("Optional description")),
		mcp.WithString("file_name", mcp.Description("Optional file name")),
		mcp.WithString("mime_type", mcp.Description("Optional MIME type")),
	), s.addItem)

	s.addTool(mcp.NewTool("approve_item",
		mcp.WithDescription("File an item under a category. The approval teaches the suggestion rules."),
		mcp.WithString("item_id", mcp.Required()),
		mcp.WithString("category_id", mcp.Required()),
	), s.approveItem)

	s.addTool(mcp.NewTool("reject_suggestion",
		mcp.WithDescription("Drop the suggested category of an item."),
		mcp.WithString("item_id", mcp.Required()),
	), s.rejectSuggestion)

	s.addTool(mcp.NewTool("list_items",
		mcp.WithDescription("List items, newest first."),
		mcp.WithString("status", mcp.Description("Optional status filter"), mcp.Enum("needs_approval", "approved")),
	), s.listItems)

	s.addTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List categories."),
	), s.listCategories)

	s.addTool(mcp.NewTool("add_category",
		mcp.WithDescription("Create a category."),
		mcp.WithString("name", mcp.Required()),
		mcp.WithString("color", mcp.Description("Hex color #RRGGBB"), mcp.DefaultString("#6AA8FF")),
		mcp.WithString("icon", mcp.DefaultString("📁")),
	), s.addCategory)

	s.addTool(mcp.NewTool("remove_category",
		mcp.WithDescription("Delete a category. Items filed under it return to needs_approval."),
		mcp.WithString("category_id", mcp.Required()),
	), s.removeCategory)

	s.registerRecordTools()

	s.mcp.AddResource(
		mcp.NewResource(rulesURI, "Categorization rules",
			mcp.WithResourceDescription("Seed and learned keyword rules used to suggest categories."),
			mcp.WithMIMEType("application/json"),
		),
		s.readRulesResource,
	)

	return s
}

// addTool registers a tool and keeps its handler addressable by name.
func (s *Server) addTool(tool mcp.Tool, h server.ToolHandlerFunc) {
	s.tools[tool.Name] = h
	s.mcp.AddTool(tool, h)
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) suggestCategory(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	in := classifier.SuggestInput{
		Title:       title,
		Description: req.GetString("description", ""),
		FileName:    req.GetString("file_name", ""),
		MimeType:    req.GetString("mime_type", ""),
	}
	scores := s.store.Classifier().Scores(in)
	cat, ok := classifier.Best(scores)
	if !ok {
		return mcp.NewToolResultText("no suggestion"), nil
	}
	return jsonResult(map[string]any{
		"categoryId": cat,
		"scores":     classifier.Ranked(scores),
	})
}

func (s *Server) addItem(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mt := models.MediaType(req.GetString("media_type", ""))
	if !mt.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("invalid media_type %q", mt)), nil
	}
	item := s.store.AddItem(models.NewItem{
		Title:       title,
		Description: req.GetString("description", ""),
		MediaType:   mt,
		FileName:    req.GetString("file_name", ""),
		MimeType:    req.GetString("mime_type", ""),
	})
	return jsonResult(item)
}

func (s *Server) approveItem(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	itemID, err := req.RequireString("item_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	categoryID, err := req.RequireString("category_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, ok := s.store.Item(itemID); !ok {
		return mcp.NewToolResultError(fmt.Sprintf("item not found: %s", itemID)), nil
	}
	if _, ok := s.store.Category(categoryID); !ok {
		return mcp.NewToolResultError(fmt.Sprintf("category not found: %s", categoryID)), nil
	}
	s.store.ApproveItem(itemID, categoryID)
	item, _ := s.store.Item(itemID)
	return jsonResult(item)
}

func (s *Server) rejectSuggestion(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	itemID, err := req.RequireString("item_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, ok := s.store.Item(itemID); !ok {
		return mcp.NewToolResultError(fmt.Sprintf("item not found: %s", itemID)), nil
	}
	s.store.RejectSuggestion(itemID)
	return mcp.NewToolResultText(fmt.Sprintf("rejected: %s", itemID)), nil
}

func (s *Server) listItems(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := models.Status(req.GetString("status", ""))
	items := []models.Item{}
	for _, it := range s.store.Snapshot().Items {
		if status == "" || it.Status == status {
			items = append(items, it)
		}
	}
	return jsonResult(items)
}

func (s *Server) listCategories(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.store.Snapshot().Categories)
}

func (s *Server) addCategory(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	in := models.NewCategory{
		Name:  name,
		Color: req.GetString("color", "#6AA8FF"),
		Icon:  req.GetString("icon", "📁"),
	}
	if err := in.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.store.AddCategory(in))
}

func (s *Server) removeCategory(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("category_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, ok := s.store.Category(id); !ok {
		return mcp.NewToolResultError(fmt.Sprintf("category not found: %s", id)), nil
	}
	s.store.RemoveCategory(id)
	return mcp.NewToolResultText(fmt.Sprintf("removed: %s", id)), nil
}

func (s *Server) readRulesResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	out, err := json.MarshalIndent(s.store.Classifier().LoadRules(), "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      rulesURI,
			MIMEType: "application/json",
			Text:     string(out),
		},
	}, nil
}
