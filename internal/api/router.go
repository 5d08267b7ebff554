package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/pnx/internal/appstore"
)

// NewRouter creates a chi router with all API routes mounted.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(store *appstore.Store, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(store)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/document", h.GetDocument)

	r.Route("/settings", func(r chi.Router) {
		r.Get("/", h.GetSettings)
		r.Put("/user-name", h.SetUserName)
		r.Put("/auto-suggest", h.SetAutoSuggest)
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Post("/", h.CreateCategory)
		r.Get("/{id}", h.GetCategory)
		r.Delete("/{id}", h.DeleteCategory)
	})

	r.Route("/items", func(r chi.Router) {
		r.Get("/", h.ListItems)
		r.Post("/", h.CreateItem)
		r.Get("/{id}", h.GetItem)
		r.Patch("/{id}", h.PatchItem)
		r.Post("/{id}/approve", h.ApproveItem)
		r.Post("/{id}/reject", h.RejectSuggestion)
	})

	r.Get("/finances/summary", h.GetFinanceSummary)

	r.Route("/bills", func(r chi.Router) {
		r.Get("/", h.ListBills)
		r.Post("/", h.CreateBill)
		r.Put("/{id}/status", h.SetBillStatus)
		r.Delete("/{id}", h.DeleteBill)
	})

	r.Route("/expenses", func(r chi.Router) {
		r.Get("/", h.ListExpenses)
		r.Post("/", h.CreateExpense)
		r.Delete("/{id}", h.DeleteExpense)
	})

	r.Route("/threads", func(r chi.Router) {
		r.Get("/", h.ListThreads)
		r.Post("/", h.CreateThread)
		r.Get("/{id}", h.GetThread)
		r.Post("/{id}/notes", h.AddThreadNote)
		r.Post("/{id}/tasks", h.AddThreadTask)
		r.Post("/{id}/tasks/{taskID}/toggle", h.ToggleThreadTask)
	})

	r.Post("/suggest", h.Suggest)
	r.Get("/rules", h.ListRules)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
