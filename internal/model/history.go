package model

import "time"

// HistoryEntry is one saved vibe in a user's history. Entries are immutable
// once written; they are only listed newest-first or dropped when the list is
// trimmed.
type HistoryEntry struct {
	ID                string    `json:"id"`
	UserID            string    `json:"userId"`
	Description       string    `json:"description"`
	Mood              string    `json:"mood"`
	Genre             string    `json:"genre"`
	EnergyLevel       string    `json:"energy_level"`
	AestheticKeywords []string  `json:"aesthetic_keywords"`
	SuggestedMusic    string    `json:"suggested_music"`
	CreatedAt         time.Time `json:"createdAt"`
}

// NewHistoryEntry builds an entry from a generation outcome. The ID and
// timestamp are filled in by the history service when the entry is recorded.
func NewHistoryEntry(userID, description string, result *VibeResult) *HistoryEntry {
	return &HistoryEntry{
		UserID:            userID,
		Description:       description,
		Mood:              result.Mood,
		Genre:             result.Genre,
		EnergyLevel:       result.EnergyLevel,
		AestheticKeywords: result.AestheticKeywords,
		SuggestedMusic:    result.SuggestedMusic,
	}
}

// HistoryListResponse represents the response for the history listing endpoint
type HistoryListResponse struct {
	Entries []HistoryEntry `json:"entries"`
}
