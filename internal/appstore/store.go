// Package appstore owns the in-memory document, persists it after every
// mutation and notifies subscribers so views can re-render.
package appstore

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/pnx/internal/classifier"
	"github.com/starford/pnx/internal/kv"
	"github.com/starford/pnx/internal/models"
)

// Listener is called after every mutation.
type Listener func()

type subscription struct {
	id uint64
	fn Listener
}

// Store is the application data store.
//
// Every mutation runs to completion (mutate, persist, notify) before it
// returns. mu serializes callers; listeners run after it is released so
// they may read the store.
type Store struct {
	mu  sync.Mutex
	doc models.Document
	rec models.Records
	rev uint64

	kv     kv.Store
	cls    *classifier.Classifier
	logger *slog.Logger
	now    func() time.Time
	newID  func(prefix string) string

	subMu  sync.Mutex
	subs   []subscription
	nextID uint64
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithClock overrides the time source used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator overrides id generation.
func WithIDGenerator(fn func(prefix string) string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// NewID returns prefix followed by a random hex id, e.g. "itm_3f2a...".
func NewID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// New loads the document and the finance/legal records from store, seeding
// defaults for whichever is missing or unreadable.
func New(store kv.Store, cls *classifier.Classifier, opts ...Option) *Store {
	s := &Store{
		kv:     store,
		cls:    cls,
		logger: slog.Default(),
		now:    time.Now,
		newID:  NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.doc = kv.Load(s.kv, DocumentKey, func() models.Document {
		return DefaultDocument(s.now())
	}, s.logger, checkDocument)
	s.rec = kv.Load(s.kv, RecordsKey, func() models.Records {
		return DefaultRecords(s.now())
	}, s.logger, checkRecords)
	return s
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Revision counts mutations applied since the store was created.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rev
}

// Subscribe registers fn and returns a function that removes it. Calling
// the returned function more than once is harmless.
func (s *Store) Subscribe(fn Listener) func() {
	s.subMu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// emit calls the listeners registered at the moment of the call, in
// registration order.
func (s *Store) emit() {
	s.subMu.Lock()
	snapshot := make([]subscription, len(s.subs))
	copy(snapshot, s.subs)
	s.subMu.Unlock()

	for _, sub := range snapshot {
		sub.fn()
	}
}

func (s *Store) saveDocument() {
	kv.Save(s.kv, DocumentKey, s.doc, s.logger)
}

func (s *Store) saveRecords() {
	kv.Save(s.kv, RecordsKey, s.rec, s.logger)
}

// apply runs fn under the lock and, if it reports a change, bumps the
// revision, calls save and notifies listeners.
func (s *Store) apply(fn func() bool, save func()) {
	s.mu.Lock()
	changed := fn()
	if changed {
		s.rev++
		save()
	}
	s.mu.Unlock()
	if changed {
		s.emit()
	}
}

// mutate applies a document change.
func (s *Store) mutate(fn func() bool) {
	s.apply(fn, s.saveDocument)
}

// mutateRecords applies a finance or legal change.
func (s *Store) mutateRecords(fn func() bool) {
	s.apply(fn, s.saveRecords)
}

func (s *Store) itemIndex(id string) int {
	for i := range s.doc.Items {
		if s.doc.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// SetUserName updates the display name.
func (s *Store) SetUserName(name string) {
	s.mutate(func() bool {
		s.doc.Settings.UserDisplayName = name
		return true
	})
}

// ToggleAutoSuggest enables or disables suggestions for new items.
func (s *Store) ToggleAutoSuggest(enabled bool) {
	s.mutate(func() bool {
		s.doc.Settings.AutoSuggestEnabled = enabled
		return true
	})
}

// AddCategory creates a category and puts it first.
func (s *Store) AddCategory(in models.NewCategory) models.Category {
	var cat models.Category
	s.mutate(func() bool {
		cat = models.Category{
			ID:    s.newID("cat"),
			Name:  in.Name,
			Color: in.Color,
			Icon:  in.Icon,
		}
		s.doc.Categories = append([]models.Category{cat}, s.doc.Categories...)
		return true
	})
	return cat
}

// RemoveCategory deletes a category. Items approved under it go back to
// needs_approval and lose the reference; suggestions pointing at it are
// cleared. Unknown ids are ignored.
func (s *Store) RemoveCategory(id string) {
	s.mutate(func() bool {
		kept := s.doc.Categories[:0:0]
		found := false
		for _, c := range s.doc.Categories {
			if c.ID == id {
				found = true
				continue
			}
			kept = append(kept, c)
		}
		if !found {
			return false
		}
		s.doc.Categories = kept

		for i := range s.doc.Items {
			it := &s.doc.Items[i]
			if it.ApprovedCategoryID == id {
				it.ApprovedCategoryID = ""
				it.Status = models.StatusNeedsApproval
			}
			if it.SuggestedCategoryID == id {
				it.SuggestedCategoryID = ""
			}
		}
		return true
	})
}

// AddItem captures a new item. When auto-suggest is on the classifier's
// suggestion, if any, is recorded. The item is put first and returned.
func (s *Store) AddItem(in models.NewItem) models.Item {
	var item models.Item
	s.mutate(func() bool {
		item = models.Item{
			ID:          s.newID("itm"),
			CreatedAt:   s.now().UnixMilli(),
			Title:       in.Title,
			Description: in.Description,
			MediaType:   in.MediaType,
			FileName:    in.FileName,
			MimeType:    in.MimeType,
			SizeBytes:   in.SizeBytes,
			LocalURL:    in.LocalURL,
			Status:      models.StatusNeedsApproval,
		}
		if len(in.Tags) > 0 {
			item.Tags = append([]string(nil), in.Tags...)
		}
		if s.doc.Settings.AutoSuggestEnabled && s.cls != nil {
			if cat, ok := s.cls.Suggest(classifier.SuggestInput{
				Title:       item.Title,
				Description: item.Description,
				FileName:    item.FileName,
				MimeType:    item.MimeType,
			}); ok {
				item.SuggestedCategoryID = cat
			}
		}
		s.doc.Items = append([]models.Item{item}, s.doc.Items...)
		return true
	})
	s.logger.Debug("appstore: item added",
		slog.String("id", item.ID), slog.String("suggested", item.SuggestedCategoryID))
	return item.Clone()
}

// ApproveItem files an item under categoryID and feeds the approval to
// the classifier. Unknown items are ignored.
func (s *Store) ApproveItem(itemID, categoryID string) {
	s.mutate(func() bool {
		idx := s.itemIndex(itemID)
		if idx < 0 {
			return false
		}
		it := &s.doc.Items[idx]
		it.ApprovedCategoryID = categoryID
		it.Status = models.StatusApproved
		if s.cls != nil {
			s.cls.Learn(*it)
		}
		return true
	})
}

// RejectSuggestion drops an item's suggested category. Unknown items are
// ignored.
func (s *Store) RejectSuggestion(itemID string) {
	s.mutate(func() bool {
		idx := s.itemIndex(itemID)
		if idx < 0 {
			return false
		}
		it := &s.doc.Items[idx]
		it.SuggestedCategoryID = ""
		it.Status = models.StatusNeedsApproval
		return true
	})
}

// UpdateItem shallow-merges patch into an item. Unknown items are ignored.
func (s *Store) UpdateItem(itemID string, patch models.ItemPatch) {
	s.mutate(func() bool {
		idx := s.itemIndex(itemID)
		if idx < 0 {
			return false
		}
		s.doc.Items[idx] = patch.Apply(s.doc.Items[idx])
		return true
	})
}

// Category looks up a category by id.
func (s *Store) Category(id string) (models.Category, bool) {
	if id == "" {
		return models.Category{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.doc.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return models.Category{}, false
}

// Item looks up an item by id.
func (s *Store) Item(id string) (models.Item, bool) {
	if id == "" {
		return models.Item{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.itemIndex(id); idx >= 0 {
		return s.doc.Items[idx].Clone(), true
	}
	return models.Item{}, false
}

// Settings returns the current settings.
func (s *Store) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Settings
}

// Classifier returns the classifier the store suggests with.
func (s *Store) Classifier() *classifier.Classifier {
	return s.cls
}
