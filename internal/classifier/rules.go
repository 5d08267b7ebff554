// Package classifier implements keyword-weighted category suggestion and
// the approval feedback loop that grows per-category learned rules.
package classifier

import (
	"errors"
	"log/slog"

	"github.com/starford/pnx/internal/kv"
	"github.com/starford/pnx/internal/models"
)

// RulesKey is the storage key of the persisted rule set.
const RulesKey = "pnx_rules_v1"

// Classifier scores items against a persisted rule set.
type Classifier struct {
	store   kv.Store
	logger  *slog.Logger
	onLearn func()
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithLogger sets the logger used for storage warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *Classifier) {
		c.logger = l
	}
}

// WithLearnHook registers fn to run after a learned rule is persisted.
func WithLearnHook(fn func()) Option {
	return func(c *Classifier) {
		c.onLearn = fn
	}
}

// New creates a Classifier backed by store.
func New(store kv.Store, opts ...Option) *Classifier {
	c := &Classifier{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SeedRules returns the built-in rules, one per default category.
func SeedRules() []models.Rule {
	return []models.Rule{
		{ID: "r_docs", Contains: []string{"pdf", "statement", "document", "lease", "contract"}, CategoryID: "cat_docs", Weight: 1.0},
		{ID: "r_bills", Contains: []string{"bill", "invoice", "payment", "rent", "utility", "bank"}, CategoryID: "cat_bills", Weight: 1.2},
		{ID: "r_legal", Contains: []string{"court", "custody", "divorce", "order", "attorney", "legal"}, CategoryID: "cat_legal", Weight: 1.2},
		{ID: "r_voice", Contains: []string{"voice", "note", "audio", "recording"}, CategoryID: "cat_voice", Weight: 1.0},
		{ID: "r_photo", Contains: []string{"photo", "image", "jpg", "png", "screenshot"}, CategoryID: "cat_photos", Weight: 1.0},
		{ID: "r_cases", Contains: []string{"evidence", "timeline", "incident", "violation"}, CategoryID: "cat_cases", Weight: 1.1},
	}
}

var errNoRules = errors.New("rule set missing")

func checkRules(rules []models.Rule) error {
	if rules == nil {
		return errNoRules
	}
	return nil
}

// LoadRules returns the persisted rules, seeding them on first use or
// when the stored payload is unreadable or not a rule list.
func (c *Classifier) LoadRules() []models.Rule {
	return kv.Load(c.store, RulesKey, SeedRules, c.logger, checkRules)
}

// SaveRules overwrites the persisted rule set.
func (c *Classifier) SaveRules(rules []models.Rule) {
	kv.Save(c.store, RulesKey, rules, c.logger)
}
