package appstore

import (
	"strings"

	"github.com/starford/pnx/internal/models"
)

// Records returns a deep copy of the bills, expenses and legal threads.
func (s *Store) Records() models.Records {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Clone()
}

// AddBill appends a bill and returns it. An empty status is stored as ok.
func (s *Store) AddBill(in models.NewBill) models.Bill {
	var bill models.Bill
	s.mutateRecords(func() bool {
		bill = models.Bill{
			ID:      s.newID("bill"),
			Name:    in.Name,
			Amount:  in.Amount,
			DueDay:  in.DueDay,
			Website: in.Website,
			Autopay: in.Autopay,
			Status:  in.Status,
		}
		if bill.Status == "" {
			bill.Status = models.BillOK
		}
		s.rec.Bills = append(s.rec.Bills, bill)
		return true
	})
	return bill
}

// RemoveBill deletes a bill. Unknown ids are ignored.
func (s *Store) RemoveBill(id string) {
	s.mutateRecords(func() bool {
		idx := s.billIndex(id)
		if idx < 0 {
			return false
		}
		s.rec.Bills = append(s.rec.Bills[:idx:idx], s.rec.Bills[idx+1:]...)
		return true
	})
}

// SetBillStatus marks a bill ok, due or late. Unknown ids are ignored.
func (s *Store) SetBillStatus(id string, status models.BillStatus) {
	s.mutateRecords(func() bool {
		idx := s.billIndex(id)
		if idx < 0 || s.rec.Bills[idx].Status == status {
			return false
		}
		s.rec.Bills[idx].Status = status
		return true
	})
}

// Bill looks up a bill by id.
func (s *Store) Bill(id string) (models.Bill, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.billIndex(id); idx >= 0 {
		return s.rec.Bills[idx], true
	}
	return models.Bill{}, false
}

func (s *Store) billIndex(id string) int {
	for i := range s.rec.Bills {
		if s.rec.Bills[i].ID == id {
			return i
		}
	}
	return -1
}

// AddExpense records an expense and puts it first.
func (s *Store) AddExpense(in models.NewExpense) models.Expense {
	var exp models.Expense
	s.mutateRecords(func() bool {
		exp = models.Expense{
			ID:       s.newID("exp"),
			Vendor:   in.Vendor,
			Amount:   in.Amount,
			Date:     in.Date,
			Category: in.Category,
			Website:  in.Website,
		}
		s.rec.Expenses = append([]models.Expense{exp}, s.rec.Expenses...)
		return true
	})
	return exp
}

// RemoveExpense deletes an expense. Unknown ids are ignored.
func (s *Store) RemoveExpense(id string) {
	s.mutateRecords(func() bool {
		for i := range s.rec.Expenses {
			if s.rec.Expenses[i].ID == id {
				s.rec.Expenses = append(s.rec.Expenses[:i:i], s.rec.Expenses[i+1:]...)
				return true
			}
		}
		return false
	})
}

// FinanceSummary counts bills, bills due or late, and the expense total
// for month (yyyy-mm). An empty month means the current one.
func (s *Store) FinanceSummary(month string) models.FinanceSummary {
	if month == "" {
		month = s.now().Format("2006-01")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := models.FinanceSummary{Month: month, BillCount: len(s.rec.Bills)}
	for _, b := range s.rec.Bills {
		if b.Status == models.BillDue || b.Status == models.BillLate {
			sum.BillsDue++
		}
	}
	for _, e := range s.rec.Expenses {
		if strings.HasPrefix(e.Date, month) {
			sum.MonthExpenses += e.Amount
		}
	}
	return sum
}

// AddThread opens a legal thread and puts it first.
func (s *Store) AddThread(in models.NewThread) models.LegalThread {
	var thread models.LegalThread
	s.mutateRecords(func() bool {
		title := strings.TrimSpace(in.Title)
		if title == "" {
			title = in.Type.DefaultTitle()
		}
		thread = models.LegalThread{
			ID:    s.newID("thr"),
			Type:  in.Type,
			Title: title,
			Notes: []models.ThreadNote{},
			Tasks: []models.ThreadTask{},
		}
		s.rec.Legal.Threads = append([]models.LegalThread{thread}, s.rec.Legal.Threads...)
		return true
	})
	return thread.Clone()
}

// Thread looks up a legal thread by id.
func (s *Store) Thread(id string) (models.LegalThread, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.threadIndex(id); idx >= 0 {
		return s.rec.Legal.Threads[idx].Clone(), true
	}
	return models.LegalThread{}, false
}

func (s *Store) threadIndex(id string) int {
	for i := range s.rec.Legal.Threads {
		if s.rec.Legal.Threads[i].ID == id {
			return i
		}
	}
	return -1
}

// AddThreadNote puts a note first in a thread. Blank text and unknown
// threads are ignored and report false.
func (s *Store) AddThreadNote(threadID, text string) (models.ThreadNote, bool) {
	var note models.ThreadNote
	var ok bool
	text = strings.TrimSpace(text)
	s.mutateRecords(func() bool {
		idx := s.threadIndex(threadID)
		if idx < 0 || text == "" {
			return false
		}
		note = models.ThreadNote{ID: s.newID("note"), CreatedAt: s.now().UnixMilli(), Text: text}
		t := &s.rec.Legal.Threads[idx]
		t.Notes = append([]models.ThreadNote{note}, t.Notes...)
		ok = true
		return true
	})
	return note, ok
}

// AddThreadTask puts an open task first in a thread. Blank titles and
// unknown threads are ignored and report false.
func (s *Store) AddThreadTask(threadID, title string) (models.ThreadTask, bool) {
	var task models.ThreadTask
	var ok bool
	title = strings.TrimSpace(title)
	s.mutateRecords(func() bool {
		idx := s.threadIndex(threadID)
		if idx < 0 || title == "" {
			return false
		}
		task = models.ThreadTask{ID: s.newID("task"), Title: title}
		t := &s.rec.Legal.Threads[idx]
		t.Tasks = append([]models.ThreadTask{task}, t.Tasks...)
		ok = true
		return true
	})
	return task, ok
}

// ToggleThreadTask flips a task between open and done. Unknown threads or
// tasks are ignored.
func (s *Store) ToggleThreadTask(threadID, taskID string) {
	s.mutateRecords(func() bool {
		idx := s.threadIndex(threadID)
		if idx < 0 {
			return false
		}
		tasks := s.rec.Legal.Threads[idx].Tasks
		for i := range tasks {
			if tasks[i].ID == taskID {
				tasks[i].Done = !tasks[i].Done
				return true
			}
		}
		return false
	})
}
