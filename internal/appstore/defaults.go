package appstore

import (
	"errors"
	"time"

	"github.com/starford/pnx/internal/models"
)

// Storage keys.
const (
	DocumentKey = "pnx_db_v1"
	RecordsKey  = "pnx_records_v1"
)

var (
	errIncompleteDocument = errors.New("document lacks categories or items")
	errIncompleteRecords  = errors.New("records lack bills, expenses or threads")
)

func checkDocument(d models.Document) error {
	if d.Categories == nil || d.Items == nil {
		return errIncompleteDocument
	}
	return nil
}

func checkRecords(r models.Records) error {
	if r.Bills == nil || r.Expenses == nil || r.Legal.Threads == nil {
		return errIncompleteRecords
	}
	return nil
}

// DefaultCategories returns the seeded categories. Their ids match the
// classifier's seed rules.
func DefaultCategories() []models.Category {
	return []models.Category{
		{ID: "cat_docs", Name: "Documents", Color: "#6AA8FF", Icon: "📄"},
		{ID: "cat_bills", Name: "Bills & Expenses", Color: "#F4A44D", Icon: "💳"},
		{ID: "cat_legal", Name: "Legal", Color: "#FF5DA2", Icon: "⚖️"},
		{ID: "cat_photos", Name: "Photos", Color: "#4EE7FF", Icon: "📸"},
		{ID: "cat_voice", Name: "Voice Notes", Color: "#66F2B4", Icon: "🎙️"},
		{ID: "cat_cases", Name: "Case Evidence", Color: "#A78BFA", Icon: "🧾"},
	}
}

// DefaultDocument returns a fresh seeded document with two demo items
// dated relative to now.
func DefaultDocument(now time.Time) models.Document {
	return models.Document{
		Categories: DefaultCategories(),
		Items: []models.Item{
			{
				ID:                  "itm_demo_1",
				CreatedAt:           now.Add(-48 * time.Hour).UnixMilli(),
				Title:               "Sample: Bank statement",
				Description:         "Demo item to show the tiles + approval flow.",
				MediaType:           models.MediaFile,
				FileName:            "bank_statement.pdf",
				MimeType:            "application/pdf",
				SizeBytes:           248000,
				SuggestedCategoryID: "cat_bills",
				ApprovedCategoryID:  "cat_bills",
				Status:              models.StatusApproved,
				Tags:                []string{"demo", "finance"},
			},
			{
				ID:                  "itm_demo_2",
				CreatedAt:           now.Add(-20 * time.Hour).UnixMilli(),
				Title:               "Sample: Voice note about timeline",
				Description:         "A demo voice note entry.",
				MediaType:           models.MediaAudio,
				FileName:            "voice_note.webm",
				MimeType:            "audio/webm",
				SizeBytes:           98000,
				SuggestedCategoryID: "cat_voice",
				Status:              models.StatusNeedsApproval,
			},
		},
		Settings: models.Settings{
			UserDisplayName:    "Sarah Johnson",
			AutoSuggestEnabled: true,
		},
	}
}

// DefaultRecords returns demo bills, expenses and legal threads dated
// relative to now.
func DefaultRecords(now time.Time) models.Records {
	day := func(daysAgo int) string {
		return now.AddDate(0, 0, -daysAgo).Format(time.DateOnly)
	}
	return models.Records{
		Bills: []models.Bill{
			{ID: "bill_demo_1", Name: "Electric", Amount: 164.22, DueDay: 15, Website: "https://example.com/pay", Status: models.BillDue},
			{ID: "bill_demo_2", Name: "Internet", Amount: 79.99, DueDay: 7, Website: "https://example.com/pay", Autopay: true, Status: models.BillOK},
			{ID: "bill_demo_3", Name: "Car Insurance", Amount: 142.10, DueDay: 28, Website: "https://example.com/pay", Status: models.BillOK},
		},
		Expenses: []models.Expense{
			{ID: "exp_demo_1", Vendor: "Grocery", Amount: 92.14, Date: day(2), Category: "Home & Life", Website: "https://example.com/receipt"},
			{ID: "exp_demo_2", Vendor: "Pharmacy", Amount: 18.77, Date: day(5), Category: "Home & Life"},
			{ID: "exp_demo_3", Vendor: "Gas", Amount: 41.09, Date: day(1), Category: "Home & Life"},
		},
		Legal: models.Legal{
			Threads: []models.LegalThread{
				{
					ID:    "thr_demo_1",
					Type:  models.ThreadDivorce,
					Title: "Divorce planning",
					Notes: []models.ThreadNote{
						{ID: "note_demo_1", CreatedAt: now.Add(-30 * time.Hour).UnixMilli(), Text: "Collect bank statements, tax returns, and shared account history."},
					},
					Tasks: []models.ThreadTask{
						{ID: "task_demo_1", Title: "Upload last 6 months statements"},
						{ID: "task_demo_2", Title: "List shared assets & debts", Done: true},
					},
				},
				{
					ID:    "thr_demo_2",
					Type:  models.ThreadCustody,
					Title: "Custody schedule ideas",
					Notes: []models.ThreadNote{
						{ID: "note_demo_2", CreatedAt: now.Add(-10 * time.Hour).UnixMilli(), Text: "Draft proposed weekday/weekend split and holiday rotation."},
					},
					Tasks: []models.ThreadTask{
						{ID: "task_demo_3", Title: "Write ideal weekly schedule"},
					},
				},
			},
		},
	}
}
