package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/pnx/internal/models"
)

func (s *Server) registerRecordTools() {
	s.addTool(mcp.NewTool("finance_summary",
		mcp.WithDescription("Count bills, bills due or late, and total expenses for a month."),
		mcp.WithString("month", mcp.Description("yyyy-mm; defaults to the current month")),
	), s.financeSummary)

	s.addTool(mcp.NewTool("list_bills",
		mcp.WithDescription("List recurring bills."),
	), s.listBills)

	s.addTool(mcp.NewTool("add_bill",
		mcp.WithDescription("Track a recurring bill."),
		mcp.WithString("name", mcp.Required()),
		mcp.WithNumber("amount", mcp.Required()),
		mcp.WithNumber("due_day", mcp.Required(), mcp.Description("Day of month, 1-31")),
		mcp.WithString("website", mcp.Description("Payment page URL")),
		mcp.WithBoolean("autopay"),
		mcp.WithString("status", mcp.Enum("ok", "due", "late")),
	), s.addBill)

	s.addTool(mcp.NewTool("set_bill_status",
		mcp.WithDescription("Mark a bill ok, due or late."),
		mcp.WithString("bill_id", mcp.Required()),
		mcp.WithString("status", mcp.Required(), mcp.Enum("ok", "due", "late")),
	), s.setBillStatus)

	s.addTool(mcp.NewTool("remove_bill",
		mcp.WithDescription("Stop tracking a bill."),
		mcp.WithString("bill_id", mcp.Required()),
	), s.removeBill)

	s.addTool(mcp.NewTool("list_expenses",
		mcp.WithDescription("List expenses, newest first."),
		mcp.WithString("month", mcp.Description("Optional yyyy-mm filter")),
	), s.listExpenses)

	s.addTool(mcp.NewTool("add_expense",
		mcp.WithDescription("Record an expense."),
		mcp.WithString("vendor", mcp.Required()),
		mcp.WithNumber("amount", mcp.Required()),
		mcp.WithString("date", mcp.Required(), mcp.Description("yyyy-mm-dd")),
		mcp.WithString("category"),
		mcp.WithString("website"),
	), s.addExpense)

	s.addTool(mcp.NewTool("remove_expense",
		mcp.WithDescription("Delete an expense."),
		mcp.WithString("expense_id", mcp.Required()),
	), s.removeExpense)

	s.addTool(mcp.NewTool("list_threads",
		mcp.WithDescription("List legal threads with their notes and tasks."),
	), s.listThreads)

	s.addTool(mcp.NewTool("add_thread",
		mcp.WithDescription("Open a legal thread."),
		mcp.WithString("type", mcp.Required(), mcp.Enum("personal", "divorce", "custody", "other")),
		mcp.WithString("title", mcp.Description("Defaults to a title derived from the type")),
	), s.addThread)

	s.addTool(mcp.NewTool("add_thread_note",
		mcp.WithDescription("Add a note to a legal thread."),
		mcp.WithString("thread_id", mcp.Required()),
		mcp.WithString("text", mcp.Required()),
	), s.addThreadNote)

	s.addTool(mcp.NewTool("add_thread_task",
		mcp.WithDescription("Add an open task to a legal thread."),
		mcp.WithString("thread_id", mcp.Required()),
		mcp.WithString("title", mcp.Required()),
	), s.addThreadTask)

	s.addTool(mcp.NewTool("toggle_thread_task",
		mcp.WithDescription("Flip a task between open and done."),
		mcp.WithString("thread_id", mcp.Required()),
		mcp.WithString("task_id", mcp.Required()),
	), s.toggleThreadTask)
}

func (s *Server) financeSummary(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.store.FinanceSummary(req.GetString("month", "")))
}

func (s *Server) listBills(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.store.Records().Bills)
}

func (s *Server) addBill(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	in := models.NewBill{
		Name:    name,
		Amount:  req.GetFloat("amount", 0),
		DueDay:  int(req.GetFloat("due_day", 0)),
		Website: req.GetString("website", ""),
		Autopay: req.GetBool("autopay", false),
		Status:  models.BillStatus(req.GetString("status", "")),
	}
	if err := in.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.store.AddBill(in))
}

func (s *Server) setBillStatus(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("bill_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	status := models.BillStatus(req.GetString("status", ""))
	switch status {
	case models.BillOK, models.BillDue, models.BillLate:
	default:
		return mcp.NewToolResultError(fmt.Sprintf("invalid status %q", status)), nil
	}
	if _, ok := s.store.Bill(id); !ok {
		return mcp.NewToolResultError(fmt.Sprintf("bill not found: %s", id)), nil
	}
	s.store.SetBillStatus(id, status)
	bill, _ := s.store.Bill(id)
	return jsonResult(bill)
}

func (s *Server) removeBill(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("bill_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, ok := s.store.Bill(id); !ok {
		return mcp.NewToolResultError(fmt.Sprintf("bill not found: %s", id)), nil
	}
	s.store.RemoveBill(id)
	return mcp.NewToolResultText(fmt.Sprintf("removed: %s", id)), nil
}

func (s *Server) listExpenses(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	month := req.GetString("month", "")
	out := []models.Expense{}
	for _, e := range s.store.Records().Expenses {
		if month == "" || strings.HasPrefix(e.Date, month) {
			out = append(out, e)
		}
	}
	return jsonResult(out)
}

func (s *Server) addExpense(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	vendor, err := req.RequireString("vendor")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	in := models.NewExpense{
		Vendor:   vendor,
		Amount:   req.GetFloat("amount", 0),
		Date:     req.GetString("date", ""),
		Category: req.GetString("category", ""),
		Website:  req.GetString("website", ""),
	}
	if err := in.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.store.AddExpense(in))
}

func (s *Server) removeExpense(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("expense_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	for _, e := range s.store.Records().Expenses {
		if e.ID == id {
			s.store.RemoveExpense(id)
			return mcp.NewToolResultText(fmt.Sprintf("removed: %s", id)), nil
		}
	}
	return mcp.NewToolResultError(fmt.Sprintf("expense not found: %s", id)), nil
}

func (s *Server) listThreads(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.store.Records().Legal.Threads)
}

func (s *Server) addThread(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in := models.NewThread{
		Type:  models.ThreadType(req.GetString("type", "")),
		Title: req.GetString("title", ""),
	}
	if err := in.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.store.AddThread(in))
}

func (s *Server) addThreadNote(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("thread_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, ok := s.store.Thread(id); !ok {
		return mcp.NewToolResultError(fmt.Sprintf("thread not found: %s", id)), nil
	}
	note, ok := s.store.AddThreadNote(id, req.GetString("text", ""))
	if !ok {
		return mcp.NewToolResultError("text is required"), nil
	}
	return jsonResult(note)
}

func (s *Server) addThreadTask(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("thread_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, ok := s.store.Thread(id); !ok {
		return mcp.NewToolResultError(fmt.Sprintf("thread not found: %s", id)), nil
	}
	task, ok := s.store.AddThreadTask(id, req.GetString("title", ""))
	if !ok {
		return mcp.NewToolResultError("title is required"), nil
	}
	return jsonResult(task)
}

func (s *Server) toggleThreadTask(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("thread_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	taskID, err := req.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	thread, ok := s.store.Thread(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("thread not found: %s", id)), nil
	}
	found := false
	for _, k := range thread.Tasks {
		found = found || k.ID == taskID
	}
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("task not found: %s", taskID)), nil
	}
	s.store.ToggleThreadTask(id, taskID)
	thread, _ = s.store.Thread(id)
	return jsonResult(thread)
}
