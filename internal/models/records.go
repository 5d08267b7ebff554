package models

// BillStatus is the payment state of a recurring bill.
type BillStatus string

const (
	BillOK   BillStatus = "ok"
	BillDue  BillStatus = "due"
	BillLate BillStatus = "late"
)

// Bill is a recurring payment due on the same day each month.
type Bill struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Amount  float64    `json:"amount"`
	DueDay  int        `json:"dueDay"`
	Website string     `json:"website,omitempty"`
	Autopay bool       `json:"autopay,omitempty"`
	Status  BillStatus `json:"status"`
}

// Expense is a one-off spend. Date is yyyy-mm-dd.
type Expense struct {
	ID       string  `json:"id"`
	Vendor   string  `json:"vendor"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
	Category string  `json:"category"`
	Website  string  `json:"website,omitempty"`
}

// ThreadType classifies a legal thread.
type ThreadType string

const (
	ThreadPersonal ThreadType = "personal"
	ThreadDivorce  ThreadType = "divorce"
	ThreadCustody  ThreadType = "custody"
	ThreadOther    ThreadType = "other"
)

// DefaultTitle is the title given to a new thread when none is supplied.
func (t ThreadType) DefaultTitle() string {
	switch t {
	case ThreadDivorce:
		return "Divorce thread"
	case ThreadCustody:
		return "Custody thread"
	case ThreadPersonal:
		return "Personal legal"
	}
	return "Other legal"
}

// ThreadNote is a dated free-text entry in a legal thread.
type ThreadNote struct {
	ID        string `json:"id"`
	CreatedAt int64  `json:"createdAt"` // unix milliseconds
	Text      string `json:"text"`
}

// ThreadTask is a checklist entry in a legal thread.
type ThreadTask struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// LegalThread keeps the notes and tasks of one informal legal matter together.
// Notes and tasks are newest first.
type LegalThread struct {
	ID    string       `json:"id"`
	Type  ThreadType   `json:"type"`
	Title string       `json:"title"`
	Notes []ThreadNote `json:"notes"`
	Tasks []ThreadTask `json:"tasks"`
}

// OpenTasks counts tasks not yet done.
func (t LegalThread) OpenTasks() int {
	n := 0
	for _, k := range t.Tasks {
		if !k.Done {
			n++
		}
	}
	return n
}

// Legal groups the legal threads.
type Legal struct {
	Threads []LegalThread `json:"threads"`
}

// Records holds the finance and legal data tracked next to the document.
type Records struct {
	Bills    []Bill    `json:"bills"`
	Expenses []Expense `json:"expenses"`
	Legal    Legal     `json:"legal"`
}

// Clone returns a deep copy of r.
func (r Records) Clone() Records {
	out := Records{}
	if r.Bills != nil {
		out.Bills = append(make([]Bill, 0, len(r.Bills)), r.Bills...)
	}
	if r.Expenses != nil {
		out.Expenses = append(make([]Expense, 0, len(r.Expenses)), r.Expenses...)
	}
	if r.Legal.Threads != nil {
		out.Legal.Threads = make([]LegalThread, len(r.Legal.Threads))
		for i, t := range r.Legal.Threads {
			out.Legal.Threads[i] = t.Clone()
		}
	}
	return out
}

// Clone returns a copy of t that shares no slices with the original.
func (t LegalThread) Clone() LegalThread {
	if t.Notes != nil {
		t.Notes = append(make([]ThreadNote, 0, len(t.Notes)), t.Notes...)
	}
	if t.Tasks != nil {
		t.Tasks = append(make([]ThreadTask, 0, len(t.Tasks)), t.Tasks...)
	}
	return t
}

// FinanceSummary is the at-a-glance view of bills and expenses.
type FinanceSummary struct {
	Month         string  `json:"month"` // yyyy-mm
	BillCount     int     `json:"billCount"`
	BillsDue      int     `json:"billsDue"` // due or late
	MonthExpenses float64 `json:"monthExpenses"`
}

// NewBill is the input for adding a bill. An empty Status means ok.
type NewBill struct {
	Name    string     `json:"name"`
	Amount  float64    `json:"amount"`
	DueDay  int        `json:"dueDay"`
	Website string     `json:"website,omitempty"`
	Autopay bool       `json:"autopay,omitempty"`
	Status  BillStatus `json:"status,omitempty"`
}

// NewExpense is the input for recording an expense.
type NewExpense struct {
	Vendor   string  `json:"vendor"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
	Category string  `json:"category"`
	Website  string  `json:"website,omitempty"`
}

// NewThread is the input for opening a legal thread. An empty Title is
// replaced by the type's default title.
type NewThread struct {
	Type  ThreadType `json:"type"`
	Title string     `json:"title,omitempty"`
}
