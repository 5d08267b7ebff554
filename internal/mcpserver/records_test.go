package mcpserver

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/starford/pnx/internal/models"
)

func TestBillTools(t *testing.T) {
	srv, store := testServer(t)

	r := callTool(t, srv, "add_bill", map[string]any{"name": "Water", "amount": 38.5, "due_day": 12.0, "autopay": true})
	if r.IsError {
		t.Fatalf("add_bill: %s", resultText(r))
	}
	var bill models.Bill
	if err := json.Unmarshal([]byte(resultText(r)), &bill); err != nil {
		t.Fatal(err)
	}
	if bill.DueDay != 12 || !bill.Autopay || bill.Status != models.BillOK {
		t.Errorf("bill = %+v", bill)
	}

	r = callTool(t, srv, "set_bill_status", map[string]any{"bill_id": bill.ID, "status": "due"})
	if r.IsError {
		t.Fatal(resultText(r))
	}

	r = callTool(t, srv, "finance_summary", map[string]any{})
	var sum models.FinanceSummary
	if err := json.Unmarshal([]byte(resultText(r)), &sum); err != nil {
		t.Fatal(err)
	}
	if sum.BillCount != 4 || sum.BillsDue != 2 {
		t.Errorf("summary = %+v", sum)
	}

	r = callTool(t, srv, "remove_bill", map[string]any{"bill_id": bill.ID})
	if r.IsError {
		t.Fatal(resultText(r))
	}
	if _, ok := store.Bill(bill.ID); ok {
		t.Error("bill not removed")
	}

	for _, args := range []map[string]any{
		{"name": "Gym", "amount": 10.0, "due_day": 0.0},
		{"name": "Gym", "amount": 10.0, "due_day": 5.0, "status": "paid"},
	} {
		if r := callTool(t, srv, "add_bill", args); !r.IsError {
			t.Errorf("add_bill %v accepted", args)
		}
	}
	if r := callTool(t, srv, "set_bill_status", map[string]any{"bill_id": "bill_missing", "status": "ok"}); !r.IsError {
		t.Error("unknown bill accepted")
	}
}

func TestExpenseTools(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "add_expense", map[string]any{"vendor": "Cafe", "amount": 4.5, "date": "2025-01-10"})
	if r.IsError {
		t.Fatalf("add_expense: %s", resultText(r))
	}
	var exp models.Expense
	if err := json.Unmarshal([]byte(resultText(r)), &exp); err != nil {
		t.Fatal(err)
	}

	r = callTool(t, srv, "list_expenses", map[string]any{"month": "2025-01"})
	var listed []models.Expense
	if err := json.Unmarshal([]byte(resultText(r)), &listed); err != nil {
		t.Fatal(err)
	}
	if len(listed) != 1 || listed[0].ID != exp.ID {
		t.Errorf("listed = %+v", listed)
	}

	if r := callTool(t, srv, "add_expense", map[string]any{"vendor": "Cafe", "amount": 1.0, "date": "Jan 10"}); !r.IsError {
		t.Error("bad date accepted")
	}
	if r := callTool(t, srv, "remove_expense", map[string]any{"expense_id": exp.ID}); r.IsError {
		t.Fatal(resultText(r))
	}
	if r := callTool(t, srv, "remove_expense", map[string]any{"expense_id": exp.ID}); !r.IsError {
		t.Error("second removal should fail")
	}
}

func TestThreadTools(t *testing.T) {
	srv, store := testServer(t)

	r := callTool(t, srv, "add_thread", map[string]any{"type": "custody", "title": "School pickups"})
	if r.IsError {
		t.Fatalf("add_thread: %s", resultText(r))
	}
	var thread models.LegalThread
	if err := json.Unmarshal([]byte(resultText(r)), &thread); err != nil {
		t.Fatal(err)
	}

	if r := callTool(t, srv, "add_thread_note", map[string]any{"thread_id": thread.ID, "text": "Tuesday swap agreed"}); r.IsError {
		t.Fatal(resultText(r))
	}
	r = callTool(t, srv, "add_thread_task", map[string]any{"thread_id": thread.ID, "title": "Confirm in writing"})
	var task models.ThreadTask
	if err := json.Unmarshal([]byte(resultText(r)), &task); err != nil {
		t.Fatal(err)
	}

	r = callTool(t, srv, "toggle_thread_task", map[string]any{"thread_id": thread.ID, "task_id": task.ID})
	if r.IsError {
		t.Fatal(resultText(r))
	}
	got, _ := store.Thread(thread.ID)
	if len(got.Notes) != 1 || !got.Tasks[0].Done {
		t.Errorf("thread = %+v", got)
	}

	r = callTool(t, srv, "list_threads", map[string]any{})
	if !strings.Contains(resultText(r), "School pickups") {
		t.Errorf("list_threads missing thread: %s", resultText(r))
	}

	for name, args := range map[string]map[string]any{
		"add_thread":         {"type": "criminal"},
		"add_thread_note":    {"thread_id": "thr_missing", "text": "x"},
		"add_thread_task":    {"thread_id": thread.ID, "title": "  "},
		"toggle_thread_task": {"thread_id": thread.ID, "task_id": "task_missing"},
	} {
		if r := callTool(t, srv, name, args); !r.IsError {
			t.Errorf("%s %v accepted", name, args)
		}
	}
}
