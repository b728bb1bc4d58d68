package dto

import "time"

type SearchHistoryEntry struct {
	ID        string            `json:"id"`
	Query     string            `json:"query"`
	Filters   map[string]string `json:"filters,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type SearchHistoryResponse struct {
	Entries []*SearchHistoryEntry `json:"entries"`
}

type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}
