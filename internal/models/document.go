// Package models defines the domain types for pnx.
package models

// MediaType is the kind of captured artifact.
type MediaType string

const (
	MediaPhoto MediaType = "photo"
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
	MediaFile  MediaType = "file"
)

// Valid reports whether m is one of the known media types.
func (m MediaType) Valid() bool {
	switch m {
	case MediaPhoto, MediaVideo, MediaAudio, MediaFile:
		return true
	}
	return false
}

// Status is the approval state of an item.
type Status string

const (
	StatusNeedsApproval Status = "needs_approval"
	StatusApproved      Status = "approved"
)

// Category is a label items can be filed under.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"` // "#RRGGBB"
	Icon  string `json:"icon"`
}

// Item is a captured or uploaded artifact.
//
// CreatedAt is milliseconds since the Unix epoch, matching the persisted
// document shape. LocalURL points at a transient media blob and is not
// meaningful across sessions.
type Item struct {
	ID                  string    `json:"id"`
	CreatedAt           int64     `json:"createdAt"`
	Title               string    `json:"title"`
	Description         string    `json:"description,omitempty"`
	MediaType           MediaType `json:"mediaType"`
	FileName            string    `json:"fileName,omitempty"`
	MimeType            string    `json:"mimeType,omitempty"`
	SizeBytes           int64     `json:"sizeBytes,omitempty"`
	LocalURL            string    `json:"localUrl,omitempty"`
	SuggestedCategoryID string    `json:"suggestedCategoryId,omitempty"`
	ApprovedCategoryID  string    `json:"approvedCategoryId,omitempty"`
	Status              Status    `json:"status"`
	Tags                []string  `json:"tags,omitempty"`
}

// Settings holds the singleton user preferences.
type Settings struct {
	UserDisplayName    string `json:"userDisplayName"`
	AutoSuggestEnabled bool   `json:"autoSuggestEnabled"`
}

// Document is the aggregate persisted business state.
// Items are ordered newest first.
type Document struct {
	Categories []Category `json:"categories"`
	Items      []Item     `json:"items"`
	Settings   Settings   `json:"settings"`
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	out := Document{Settings: d.Settings}
	if d.Categories != nil {
		out.Categories = make([]Category, len(d.Categories))
		copy(out.Categories, d.Categories)
	}
	if d.Items != nil {
		out.Items = make([]Item, len(d.Items))
		for i, it := range d.Items {
			out.Items[i] = it.Clone()
		}
	}
	return out
}

// Clone returns a copy of it that shares no slices with the original.
func (it Item) Clone() Item {
	if it.Tags != nil {
		tags := make([]string, len(it.Tags))
		copy(tags, it.Tags)
		it.Tags = tags
	}
	return it
}

// NewCategory is the input for creating a category.
type NewCategory struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// NewItem is the input for capturing an item. The store assigns the id,
// creation time and status.
type NewItem struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	MediaType   MediaType `json:"mediaType"`
	FileName    string    `json:"fileName,omitempty"`
	MimeType    string    `json:"mimeType,omitempty"`
	SizeBytes   int64     `json:"sizeBytes,omitempty"`
	LocalURL    string    `json:"localUrl,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
}

// ItemPatch is a partial update. Nil fields leave the item untouched.
type ItemPatch struct {
	Title               *string    `json:"title,omitempty"`
	Description         *string    `json:"description,omitempty"`
	MediaType           *MediaType `json:"mediaType,omitempty"`
	FileName            *string    `json:"fileName,omitempty"`
	MimeType            *string    `json:"mimeType,omitempty"`
	SizeBytes           *int64     `json:"sizeBytes,omitempty"`
	LocalURL            *string    `json:"localUrl,omitempty"`
	SuggestedCategoryID *string    `json:"suggestedCategoryId,omitempty"`
	ApprovedCategoryID  *string    `json:"approvedCategoryId,omitempty"`
	Status              *Status    `json:"status,omitempty"`
	Tags                *[]string  `json:"tags,omitempty"`
}

// Apply shallow-merges p into it and returns the result.
func (p ItemPatch) Apply(it Item) Item {
	if p.Title != nil {
		it.Title = *p.Title
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.MediaType != nil {
		it.MediaType = *p.MediaType
	}
	if p.FileName != nil {
		it.FileName = *p.FileName
	}
	if p.MimeType != nil {
		it.MimeType = *p.MimeType
	}
	if p.SizeBytes != nil {
		it.SizeBytes = *p.SizeBytes
	}
	if p.LocalURL != nil {
		it.LocalURL = *p.LocalURL
	}
	if p.SuggestedCategoryID != nil {
		it.SuggestedCategoryID = *p.SuggestedCategoryID
	}
	if p.ApprovedCategoryID != nil {
		it.ApprovedCategoryID = *p.ApprovedCategoryID
	}
	if p.Status != nil {
		it.Status = *p.Status
	}
	if p.Tags != nil {
		it.Tags = append([]string(nil), (*p.Tags)...)
	}
	return it
}
