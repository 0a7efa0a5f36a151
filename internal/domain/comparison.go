package domain

// CompareRequest represents a comparison request from the API
type CompareRequest struct {
	Keyword string `json:"keyword" binding:"required"`
}

// SourceResult holds the per-source part of a comparison
type SourceResult struct {
	Source          SourceName `json:"source"`
	MatchPercentage float64    `json:"matchPercentage"` // 0-100, two decimals
	Total           int        `json:"total"`
	TopProducts     []Product  `json:"topProducts"`
}

// SearchLink is a single auxiliary web search hit
type SearchLink struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// ComparisonResult is the aggregate output of one keyword comparison.
type ComparisonResult struct {
	Keyword         string         `json:"keyword"`
	Sources         []SourceResult `json:"sources"`
	MatchedProducts []MatchedGroup `json:"matchedProducts"`
	Summary         string         `json:"summary"`
	SearchLinks     []SearchLink   `json:"searchLinks"`
}

// Source returns the result for the named source, if it was compared.
func (r *ComparisonResult) Source(name SourceName) (SourceResult, bool) {
	for _, s := range r.Sources {
		if s.Source == name {
			return s, true
		}
	}
	return SourceResult{}, false
}

// SummaryRequest carries the subset of a comparison handed to the summary
// collaborator.
type SummaryRequest struct {
	Keyword string
	Samples []SourceProducts
	Groups  []MatchedGroup
}
