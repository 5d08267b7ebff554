package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/pnx/internal/models"
)

// GetFinanceSummary handles GET /api/finances/summary?month=yyyy-mm.
func (h *Handler) GetFinanceSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.FinanceSummary(r.URL.Query().Get("month")))
}

// ListBills handles GET /api/bills.
func (h *Handler) ListBills(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"bills": h.store.Records().Bills})
}

// CreateBill handles POST /api/bills.
func (h *Handler) CreateBill(w http.ResponseWriter, r *http.Request) {
	var req CreateBillRequest
	if !bind(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusCreated, h.store.AddBill(models.NewBill(req)))
}

// SetBillStatus handles PUT /api/bills/{id}/status.
func (h *Handler) SetBillStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.store.Bill(id); !ok {
		writeNotFound(w)
		return
	}
	var req BillStatusRequest
	if !bind(w, r, &req) {
		return
	}
	h.store.SetBillStatus(id, req.Status)
	bill, _ := h.store.Bill(id)
	writeJSON(w, http.StatusOK, bill)
}

// DeleteBill handles DELETE /api/bills/{id}.
func (h *Handler) DeleteBill(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.store.Bill(id); !ok {
		writeNotFound(w)
		return
	}
	h.store.RemoveBill(id)
	w.WriteHeader(http.StatusNoContent)
}

// ListExpenses handles GET /api/expenses with an optional month=yyyy-mm filter.
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	expenses := []models.Expense{}
	for _, e := range h.store.Records().Expenses {
		if month == "" || strings.HasPrefix(e.Date, month) {
			expenses = append(expenses, e)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"expenses": expenses})
}

// CreateExpense handles POST /api/expenses.
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req CreateExpenseRequest
	if !bind(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusCreated, h.store.AddExpense(models.NewExpense(req)))
}

// DeleteExpense handles DELETE /api/expenses/{id}.
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for _, e := range h.store.Records().Expenses {
		if e.ID == id {
			h.store.RemoveExpense(id)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeNotFound(w)
}

// ListThreads handles GET /api/threads.
func (h *Handler) ListThreads(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"threads": h.store.Records().Legal.Threads})
}

// CreateThread handles POST /api/threads.
func (h *Handler) CreateThread(w http.ResponseWriter, r *http.Request) {
	var req CreateThreadRequest
	if !bind(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusCreated, h.store.AddThread(models.NewThread(req)))
}

// GetThread handles GET /api/threads/{id}.
func (h *Handler) GetThread(w http.ResponseWriter, r *http.Request) {
	thread, ok := h.store.Thread(chi.URLParam(r, "id"))
	if !ok {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, thread)
}

// AddThreadNote handles POST /api/threads/{id}/notes.
func (h *Handler) AddThreadNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.store.Thread(id); !ok {
		writeNotFound(w)
		return
	}
	var req ThreadNoteRequest
	if !bind(w, r, &req) {
		return
	}
	note, ok := h.store.AddThreadNote(id, req.Text)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("note text is blank"))
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// AddThreadTask handles POST /api/threads/{id}/tasks.
func (h *Handler) AddThreadTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.store.Thread(id); !ok {
		writeNotFound(w)
		return
	}
	var req ThreadTaskRequest
	if !bind(w, r, &req) {
		return
	}
	task, ok := h.store.AddThreadTask(id, req.Title)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("task title is blank"))
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// ToggleThreadTask handles POST /api/threads/{id}/tasks/{taskID}/toggle.
func (h *Handler) ToggleThreadTask(w http.ResponseWriter, r *http.Request) {
	id, taskID := chi.URLParam(r, "id"), chi.URLParam(r, "taskID")
	thread, ok := h.store.Thread(id)
	if !ok || !hasTask(thread, taskID) {
		writeNotFound(w)
		return
	}
	h.store.ToggleThreadTask(id, taskID)
	thread, _ = h.store.Thread(id)
	writeJSON(w, http.StatusOK, thread)
}

func hasTask(t models.LegalThread, taskID string) bool {
	for _, k := range t.Tasks {
		if k.ID == taskID {
			return true
		}
	}
	return false
}
