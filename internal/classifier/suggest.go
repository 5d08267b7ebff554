package classifier

import (
	"sort"
	"strings"

	"github.com/starford/pnx/internal/models"
)

// SuggestInput carries the text fields an item is scored on.
type SuggestInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	FileName    string `json:"fileName,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// Score is the accumulated weight of one category.
type Score struct {
	CategoryID string  `json:"categoryId"`
	Score      float64 `json:"score"`
}

func haystack(in SuggestInput) string {
	return strings.ToLower(in.Title + " " + in.Description + " " + in.FileName + " " + in.MimeType)
}

// Scores returns every category that matched at least one keyword, in the
// order each category first received weight while walking the rule set.
//
// Matching is substring containment: "billing" matches "bill".
func (c *Classifier) Scores(in SuggestInput) []Score {
	return scoreRules(c.LoadRules(), in)
}

func scoreRules(rules []models.Rule, in SuggestInput) []Score {
	hay := haystack(in)
	var out []Score
	pos := make(map[string]int)
	for _, r := range rules {
		for _, kw := range r.Contains {
			if kw == "" || !strings.Contains(hay, kw) {
				continue
			}
			i, ok := pos[r.CategoryID]
			if !ok {
				i = len(out)
				pos[r.CategoryID] = i
				out = append(out, Score{CategoryID: r.CategoryID})
			}
			out[i].Score += r.Weight
		}
	}
	return out
}

// Suggest returns the category with the strictly highest score. On a tie
// the category that was scored first wins; that order follows the rule
// list and is not stable across rule-set reorderings.
func (c *Classifier) Suggest(in SuggestInput) (string, bool) {
	return Best(c.Scores(in))
}

// Best picks the winner from one Scores result with the same tie rule as
// Suggest. Callers that also show the scores use it so both come from a
// single read of the rule set.
func Best(scores []Score) (string, bool) {
	if len(scores) == 0 {
		return "", false
	}
	top := scores[0]
	for _, s := range scores[1:] {
		if s.Score > top.Score {
			top = s
		}
	}
	return top.CategoryID, true
}

// Ranked returns scores sorted by descending score, ties kept in scan order.
func Ranked(scores []Score) []Score {
	out := append([]Score(nil), scores...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
