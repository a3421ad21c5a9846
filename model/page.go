package model

// ScoredPage is one hit in a page search result. NameScore counts query
// token matches in the page label, HintScore counts matches in the page's
// search hints; results are ordered best first.
type ScoredPage struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	NameScore int    `json:"name_score"`
	HintScore int    `json:"hint_score"`
}

// Change describes a single setting value update, delivered to observers
// after a write has been validated and stored.
type Change struct {
	Section string      `json:"section"`
	Key     string      `json:"key"`
	Value   interface{} `json:"value"`
}
