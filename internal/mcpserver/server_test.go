package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/pnx/internal/appstore"
	"github.com/starford/pnx/internal/models"
	"github.com/starford/pnx/internal/testutil"
)

func testServer(t *testing.T) (*Server, *appstore.Store) {
	t.Helper()
	store := testutil.TestStore(t)
	return New(store, "test"), store
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	h, ok := srv.tools[name]
	if !ok {
		t.Fatalf("unknown tool: %s", name)
	}
	result, err := h(ctx, req)
	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestSuggestCategory(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "suggest_category", map[string]any{"title": "Court Order"})
	if !strings.Contains(resultText(r), `"categoryId": "cat_legal"`) {
		t.Errorf("result = %q", resultText(r))
	}

	r = callTool(t, srv, "suggest_category", map[string]any{"title": "random text"})
	if resultText(r) != "no suggestion" {
		t.Errorf("result = %q", resultText(r))
	}

	r = callTool(t, srv, "suggest_category", map[string]any{})
	if !r.IsError {
		t.Error("missing title should be an error")
	}
}

func TestAddApproveFlow(t *testing.T) {
	srv, store := testServer(t)
	r := callTool(t, srv, "add_item", map[string]any{"title": "Rent receipt", "media_type": "photo"})
	if r.IsError {
		t.Fatalf("add_item: %s", resultText(r))
	}
	var item models.Item
	if err := json.Unmarshal([]byte(resultText(r)), &item); err != nil {
		t.Fatal(err)
	}
	if item.SuggestedCategoryID != "cat_bills" {
		t.Errorf("suggested = %q", item.SuggestedCategoryID)
	}

	r = callTool(t, srv, "approve_item", map[string]any{"item_id": item.ID, "category_id": "cat_bills"})
	if r.IsError {
		t.Fatalf("approve_item: %s", resultText(r))
	}
	got, _ := store.Item(item.ID)
	if got.Status != models.StatusApproved {
		t.Errorf("status = %q", got.Status)
	}

	r = callTool(t, srv, "list_items", map[string]any{"status": "approved"})
	if !strings.Contains(resultText(r), item.ID) {
		t.Errorf("approved list missing item: %s", resultText(r))
	}
}

func TestAddItemInvalidMediaType(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "add_item", map[string]any{"title": "x", "media_type": "hologram"})
	if !r.IsError {
		t.Error("expected error for invalid media type")
	}
}

func TestApproveUnknown(t *testing.T) {
	srv, store := testServer(t)
	r := callTool(t, srv, "approve_item", map[string]any{"item_id": "itm_nope", "category_id": "cat_docs"})
	if !r.IsError {
		t.Error("expected error for unknown item")
	}
	item := store.AddItem(models.NewItem{Title: "x", MediaType: models.MediaFile})
	r = callTool(t, srv, "approve_item", map[string]any{"item_id": item.ID, "category_id": "cat_nope"})
	if !r.IsError {
		t.Error("expected error for unknown category")
	}
}

func TestRejectSuggestion(t *testing.T) {
	srv, store := testServer(t)
	item := store.AddItem(models.NewItem{Title: "Screenshot", MediaType: models.MediaPhoto})
	r := callTool(t, srv, "reject_suggestion", map[string]any{"item_id": item.ID})
	if r.IsError {
		t.Fatal(resultText(r))
	}
	if got, _ := store.Item(item.ID); got.SuggestedCategoryID != "" {
		t.Errorf("suggestion not cleared: %+v", got)
	}
}

func TestCategoryTools(t *testing.T) {
	srv, store := testServer(t)
	r := callTool(t, srv, "add_category", map[string]any{"name": "Medical"})
	var cat models.Category
	if err := json.Unmarshal([]byte(resultText(r)), &cat); err != nil {
		t.Fatal(err)
	}
	if cat.Color != "#6AA8FF" {
		t.Errorf("default color = %q", cat.Color)
	}

	r = callTool(t, srv, "list_categories", map[string]any{})
	if !strings.Contains(resultText(r), "Medical") {
		t.Errorf("list missing category: %s", resultText(r))
	}

	r = callTool(t, srv, "remove_category", map[string]any{"category_id": cat.ID})
	if r.IsError {
		t.Fatal(resultText(r))
	}
	if _, ok := store.Category(cat.ID); ok {
		t.Error("category not removed")
	}
	r = callTool(t, srv, "remove_category", map[string]any{"category_id": cat.ID})
	if !r.IsError {
		t.Error("expected error removing unknown category")
	}
}

func TestRulesResource(t *testing.T) {
	srv, _ := testServer(t)
	contents, err := srv.readRulesResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	text := contents[0].(mcp.TextResourceContents).Text
	if !strings.Contains(text, `"r_bills"`) {
		t.Errorf("rules resource = %s", text)
	}
}

func TestAddCategoryRejectsInvalidColor(t *testing.T) {
	srv, store := testServer(t)
	before := len(store.Snapshot().Categories)
	r := callTool(t, srv, "add_category", map[string]any{"name": "Medical", "color": "red"})
	if !r.IsError {
		t.Fatalf("named color accepted: %s", resultText(r))
	}
	if got := len(store.Snapshot().Categories); got != before {
		t.Errorf("categories = %d, want %d", got, before)
	}
}
