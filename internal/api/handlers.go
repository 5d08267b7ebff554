package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/pnx/internal/apperr"
	"github.com/starford/pnx/internal/appstore"
	"github.com/starford/pnx/internal/checksum"
	"github.com/starford/pnx/internal/classifier"
	"github.com/starford/pnx/internal/models"
)

// Handler holds API route handlers.
type Handler struct {
	store *appstore.Store
}

// NewHandler creates a new Handler.
func NewHandler(store *appstore.Store) *Handler {
	return &Handler{store: store}
}

// bind decodes and validates a request body, writing a 400 on failure.
func bind(w http.ResponseWriter, r *http.Request, v validation.Validatable) bool {
	if err := decodeJSON(w, r, v); err != nil {
		writeJSON(w, statusFor(err), errorBody(err.Error()))
		return false
	}
	if err := v.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return false
	}
	return true
}

// GetDocument handles GET /api/document. The ETag is the SHA-256 of the
// encoded document, so views can poll cheaply with If-None-Match.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc := h.store.Snapshot()
	raw, err := json.Marshal(doc)
	if err != nil {
		slog.Error("encode document failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	etag := `"` + checksum.Sum(raw) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

// GetSettings handles GET /api/settings.
func (h *Handler) GetSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Settings())
}

// SetUserName handles PUT /api/settings/user-name.
func (h *Handler) SetUserName(w http.ResponseWriter, r *http.Request) {
	var req UserNameRequest
	if !bind(w, r, &req) {
		return
	}
	h.store.SetUserName(req.Name)
	writeJSON(w, http.StatusOK, h.store.Settings())
}

// SetAutoSuggest handles PUT /api/settings/auto-suggest.
func (h *Handler) SetAutoSuggest(w http.ResponseWriter, r *http.Request) {
	var req AutoSuggestRequest
	if !bind(w, r, &req) {
		return
	}
	h.store.ToggleAutoSuggest(*req.Enabled)
	writeJSON(w, http.StatusOK, h.store.Settings())
}

// ListCategories handles GET /api/categories.
func (h *Handler) ListCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": h.store.Snapshot().Categories,
	})
}

// GetCategory handles GET /api/categories/{id}.
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	cat, ok := h.store.Category(chi.URLParam(r, "id"))
	if !ok {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// CreateCategory handles POST /api/categories.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if !bind(w, r, &req) {
		return
	}
	cat := h.store.AddCategory(models.NewCategory(req))
	writeJSON(w, http.StatusCreated, cat)
}

// DeleteCategory handles DELETE /api/categories/{id}.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.store.Category(id); !ok {
		writeNotFound(w)
		return
	}
	h.store.RemoveCategory(id)
	w.WriteHeader(http.StatusNoContent)
}

// ListItems handles GET /api/items with optional status and category filters.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := models.Status(q.Get("status"))
	category := q.Get("category")

	items := []models.Item{}
	for _, it := range h.store.Snapshot().Items {
		if status != "" && it.Status != status {
			continue
		}
		if category != "" && it.ApprovedCategoryID != category && it.SuggestedCategoryID != category {
			continue
		}
		items = append(items, it)
	}
	writeJSON(w, http.StatusOK, ItemListResponse{Items: items, Total: len(items)})
}

// GetItem handles GET /api/items/{id}.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, ok := h.store.Item(chi.URLParam(r, "id"))
	if !ok {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// CreateItem handles POST /api/items.
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if !bind(w, r, &req) {
		return
	}
	item := h.store.AddItem(models.NewItem(req))
	writeJSON(w, http.StatusCreated, item)
}

// PatchItem handles PATCH /api/items/{id}.
func (h *Handler) PatchItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.store.Item(id); !ok {
		writeNotFound(w)
		return
	}
	var req PatchItemRequest
	if !bind(w, r, &req) {
		return
	}
	h.store.UpdateItem(id, models.ItemPatch(req))
	h.writeItem(w, id)
}

// ApproveItem handles POST /api/items/{id}/approve.
func (h *Handler) ApproveItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.store.Item(id); !ok {
		writeNotFound(w)
		return
	}
	var req ApproveRequest
	if !bind(w, r, &req) {
		return
	}
	if _, ok := h.store.Category(req.CategoryID); !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("unknown category"))
		return
	}
	h.store.ApproveItem(id, req.CategoryID)
	h.writeItem(w, id)
}

// RejectSuggestion handles POST /api/items/{id}/reject.
func (h *Handler) RejectSuggestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.store.Item(id); !ok {
		writeNotFound(w)
		return
	}
	h.store.RejectSuggestion(id)
	h.writeItem(w, id)
}

func (h *Handler) writeItem(w http.ResponseWriter, id string) {
	item, ok := h.store.Item(id)
	if !ok {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Suggest handles POST /api/suggest. It scores without creating an item.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req SuggestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, statusFor(err), errorBody(err.Error()))
		return
	}
	scores := h.store.Classifier().Scores(req)
	resp := SuggestResponse{Scores: classifier.Ranked(scores)}
	if resp.Scores == nil {
		resp.Scores = []classifier.Score{}
	}
	if cat, ok := classifier.Best(scores); ok {
		resp.CategoryID = &cat
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListRules handles GET /api/rules.
func (h *Handler) ListRules(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"rules": h.store.Classifier().LoadRules(),
	})
}

// statusFor maps an error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidInput):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
