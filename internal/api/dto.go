package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/pnx/internal/classifier"
	"github.com/starford/pnx/internal/models"
)

var mediaTypes = []any{models.MediaPhoto, models.MediaVideo, models.MediaAudio, models.MediaFile}

// UserNameRequest is the body of PUT /settings/user-name.
type UserNameRequest struct {
	Name string `json:"name"`
}

// Validate validates the request.
func (r UserNameRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 120)),
	)
}

// AutoSuggestRequest is the body of PUT /settings/auto-suggest.
type AutoSuggestRequest struct {
	Enabled *bool `json:"enabled"`
}

// Validate validates the request.
func (r AutoSuggestRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Enabled, validation.NotNil),
	)
}

// CreateCategoryRequest is the body of POST /categories.
type CreateCategoryRequest models.NewCategory

// Validate validates the request.
func (r CreateCategoryRequest) Validate() error {
	return models.NewCategory(r).Validate()
}

// CreateItemRequest is the body of POST /items.
type CreateItemRequest models.NewItem

// Validate validates the request.
func (r CreateItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.MediaType, validation.Required, validation.In(mediaTypes...)),
		validation.Field(&r.SizeBytes, validation.Min(0)),
	)
}

// PatchItemRequest is the body of PATCH /items/{id}.
type PatchItemRequest models.ItemPatch

// Validate validates the request.
func (r PatchItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.MediaType, validation.NilOrNotEmpty, validation.In(mediaTypes...)),
		validation.Field(&r.Status, validation.NilOrNotEmpty, validation.In(models.StatusNeedsApproval, models.StatusApproved)),
		validation.Field(&r.SizeBytes, validation.Min(0)),
	)
}

// ApproveRequest is the body of POST /items/{id}/approve.
type ApproveRequest struct {
	CategoryID string `json:"categoryId"`
}

// Validate validates the request.
func (r ApproveRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CategoryID, validation.Required),
	)
}

// SuggestRequest is the body of POST /suggest.
type SuggestRequest = classifier.SuggestInput

// SuggestResponse carries the winning category (nil when nothing matched)
// and every matching category ranked by score.
type SuggestResponse struct {
	CategoryID *string            `json:"categoryId"`
	Scores     []classifier.Score `json:"scores"`
}

// ItemListResponse wraps item listings.
type ItemListResponse struct {
	Items []models.Item `json:"items"`
	Total int           `json:"total"`
}

// CreateBillRequest is the body of POST /bills.
type CreateBillRequest models.NewBill

// Validate validates the request.
func (r CreateBillRequest) Validate() error {
	return models.NewBill(r).Validate()
}

// BillStatusRequest is the body of PUT /bills/{id}/status.
type BillStatusRequest struct {
	Status models.BillStatus `json:"status"`
}

// Validate validates the request.
func (r BillStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.In(models.BillOK, models.BillDue, models.BillLate)),
	)
}

// CreateExpenseRequest is the body of POST /expenses.
type CreateExpenseRequest models.NewExpense

// Validate validates the request.
func (r CreateExpenseRequest) Validate() error {
	return models.NewExpense(r).Validate()
}

// CreateThreadRequest is the body of POST /threads.
type CreateThreadRequest models.NewThread

// Validate validates the request.
func (r CreateThreadRequest) Validate() error {
	return models.NewThread(r).Validate()
}

// ThreadNoteRequest is the body of POST /threads/{id}/notes.
type ThreadNoteRequest struct {
	Text string `json:"text"`
}

// Validate validates the request.
func (r ThreadNoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required, validation.Length(1, 4000)),
	)
}

// ThreadTaskRequest is the body of POST /threads/{id}/tasks.
type ThreadTaskRequest struct {
	Title string `json:"title"`
}

// Validate validates the request.
func (r ThreadTaskRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
	)
}
