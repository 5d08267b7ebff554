package classifier

import (
	"log/slog"
	"strings"

	"github.com/starford/pnx/internal/models"
)

const (
	// LearnedWeight is below every seed weight so a single approval
	// cannot outvote a seed rule.
	LearnedWeight = 0.6
	// MaxLearnedKeywords caps a learned rule's keyword list.
	MaxLearnedKeywords = 18
	// MaxLearnTokens is how many tokens one approval contributes.
	MaxLearnTokens = 8
	// MinTokenLen drops short filler words.
	MinTokenLen = 4

	learnedPrefix = "learn_"
)

// LearnedRuleID returns the id of the learned rule for categoryID.
func LearnedRuleID(categoryID string) string {
	return learnedPrefix + categoryID
}

// IsLearned reports whether r was produced by the feedback loop.
func IsLearned(r models.Rule) bool {
	return strings.HasPrefix(r.ID, learnedPrefix)
}

// Tokens lowercases title and fileName, splits on runs of characters
// outside [a-z0-9], drops tokens shorter than MinTokenLen and keeps the
// first MaxLearnTokens in order. Duplicates are kept.
func Tokens(title, fileName string) []string {
	s := strings.ToLower(title + " " + fileName)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	var out []string
	for _, f := range fields {
		if len(f) < MinTokenLen {
			continue
		}
		out = append(out, f)
		if len(out) == MaxLearnTokens {
			break
		}
	}
	return out
}

// Learn reinforces the learned rule of item's approved category with
// keywords taken from its title and file name, then persists the rule set.
// Items without an approved category or without usable tokens are ignored.
func (c *Classifier) Learn(item models.Item) {
	categoryID := item.ApprovedCategoryID
	if categoryID == "" {
		return
	}
	tokens := Tokens(item.Title, item.FileName)
	if len(tokens) == 0 {
		return
	}

	rules := c.LoadRules()
	id := LearnedRuleID(categoryID)

	idx := -1
	for i := range rules {
		if rules[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		rules = append(rules, models.Rule{
			ID:         id,
			Contains:   merge(nil, tokens),
			CategoryID: categoryID,
			Weight:     LearnedWeight,
		})
	} else {
		rules[idx].Contains = merge(rules[idx].Contains, tokens)
	}

	c.SaveRules(rules)
	c.logger.Debug("classifier: learned",
		slog.String("rule", id), slog.Int("tokens", len(tokens)))
	if c.onLearn != nil {
		c.onLearn()
	}
}

// merge appends tokens to existing with set semantics, keeping insertion
// order, and drops the oldest entries beyond MaxLearnedKeywords.
func merge(existing, tokens []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(tokens))
	out := make([]string, 0, len(existing)+len(tokens))
	for _, group := range [][]string{existing, tokens} {
		for _, t := range group {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	if len(out) > MaxLearnedKeywords {
		out = out[len(out)-MaxLearnedKeywords:]
	}
	return out
}
