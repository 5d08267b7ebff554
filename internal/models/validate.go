package models

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	webURLRe   = regexp.MustCompile(`^https?://\S+$`)
)

// Validate checks a category before it is stored.
func (c NewCategory) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 80)),
		validation.Field(&c.Color, validation.Required, validation.Match(hexColorRe).Error("must be a #RRGGBB color")),
		validation.Field(&c.Icon, validation.Required),
	)
}

// Validate checks a bill before it is stored.
func (b NewBill) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&b.Amount, validation.Min(0.0)),
		validation.Field(&b.DueDay, validation.Required, validation.Min(1), validation.Max(31)),
		validation.Field(&b.Website, validation.Match(webURLRe).Error("must be an http(s) URL")),
		validation.Field(&b.Status, validation.In(BillOK, BillDue, BillLate)),
	)
}

// Validate checks an expense before it is stored.
func (e NewExpense) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Vendor, validation.Required, validation.Length(1, 120)),
		validation.Field(&e.Amount, validation.Min(0.0)),
		validation.Field(&e.Date, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&e.Website, validation.Match(webURLRe).Error("must be an http(s) URL")),
	)
}

// Validate checks a thread before it is opened.
func (t NewThread) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Type, validation.Required, validation.In(ThreadPersonal, ThreadDivorce, ThreadCustody, ThreadOther)),
		validation.Field(&t.Title, validation.Length(0, 200)),
	)
}
