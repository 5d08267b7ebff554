package models

import "testing"

func TestNewCategoryValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      NewCategory
		wantErr bool
	}{
		{"valid", NewCategory{Name: "Medical", Color: "#aabbcc", Icon: "🩺"}, false},
		{"named color", NewCategory{Name: "Medical", Color: "red", Icon: "🩺"}, true},
		{"short hex", NewCategory{Name: "Medical", Color: "#abc", Icon: "🩺"}, true},
		{"no name", NewCategory{Color: "#aabbcc", Icon: "🩺"}, true},
		{"no icon", NewCategory{Name: "Medical", Color: "#aabbcc"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.in.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewBillValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      NewBill
		wantErr bool
	}{
		{"valid", NewBill{Name: "Electric", Amount: 10, DueDay: 15, Website: "https://pay.example.com"}, false},
		{"status late", NewBill{Name: "Electric", DueDay: 1, Status: BillLate}, false},
		{"due day zero", NewBill{Name: "Electric", Amount: 10}, true},
		{"due day 32", NewBill{Name: "Electric", DueDay: 32}, true},
		{"negative amount", NewBill{Name: "Electric", Amount: -1, DueDay: 2}, true},
		{"bad status", NewBill{Name: "Electric", DueDay: 2, Status: "paid"}, true},
		{"bad website", NewBill{Name: "Electric", DueDay: 2, Website: "pay here"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.in.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewExpenseValidate(t *testing.T) {
	if err := (NewExpense{Vendor: "Gas", Amount: 30, Date: "2026-03-01"}).Validate(); err != nil {
		t.Errorf("valid expense: %v", err)
	}
	if err := (NewExpense{Vendor: "Gas", Amount: 30, Date: "03/01/2026"}).Validate(); err == nil {
		t.Error("non-ISO date accepted")
	}
	if err := (NewExpense{Amount: 30, Date: "2026-03-01"}).Validate(); err == nil {
		t.Error("missing vendor accepted")
	}
}

func TestNewThreadValidate(t *testing.T) {
	if err := (NewThread{Type: ThreadDivorce}).Validate(); err != nil {
		t.Errorf("valid thread: %v", err)
	}
	if err := (NewThread{Type: "criminal"}).Validate(); err == nil {
		t.Error("unknown type accepted")
	}
	if got := ThreadType("").DefaultTitle(); got != "Other legal" {
		t.Errorf("DefaultTitle = %q", got)
	}
}
