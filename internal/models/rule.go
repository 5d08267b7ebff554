package models

// Rule is a keyword-triggered classifier rule. Every keyword in Contains
// that occurs in an item's text adds Weight to CategoryID's score.
//
// CategoryID is a weak reference and is not checked against the live
// category set.
type Rule struct {
	ID         string   `json:"id"`
	Contains   []string `json:"contains"`
	CategoryID string   `json:"categoryId"`
	Weight     float64  `json:"weight"`
}
