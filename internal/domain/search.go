package domain

// Search parameter defaults mirror the service's documented behavior.
const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 100
	DefaultMinScore    = 0.7
)

// SearchResult is a single search hit. Results are ephemeral: they live
// only for the duration of one response and are never persisted.
type SearchResult struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Content    string            `json:"content"`
	Score      float64           `json:"score"`
	Highlights []string          `json:"highlights,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// SearchParams are the tunable knobs of one search call.
type SearchParams struct {
	Limit    int
	MinScore float64
}

// Clamp forces params into their documented ranges, applying defaults for
// zero values.
func (p SearchParams) Clamp() SearchParams {
	if p.Limit <= 0 {
		p.Limit = DefaultSearchLimit
	}
	if p.Limit > MaxSearchLimit {
		p.Limit = MaxSearchLimit
	}
	if p.MinScore < 0 {
		p.MinScore = 0
	}
	if p.MinScore > 1 {
		p.MinScore = 1
	}
	return p
}
