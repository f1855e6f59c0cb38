package domain

// MatchCandidate is a ranked fuzzy-match suggestion. Score is in [0,1] and
// increases with string similarity.
type MatchCandidate struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Address *string `json:"address,omitempty"`
	Score   float64 `json:"score"`
}
