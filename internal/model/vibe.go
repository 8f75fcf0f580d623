package model

import "strings"

// EnergyLow, EnergyMedium and EnergyHigh are the energy levels the prompt
// asks for. The model occasionally answers with something else; the value is
// passed through verbatim and the client picks a fallback icon.
const (
	EnergyLow    = "low"
	EnergyMedium = "medium"
	EnergyHigh   = "high"
)

// UnknownField is the placeholder for scalar fields missing from the model output.
const UnknownField = "Unknown"

// VibeGenerateRequest represents the request body for vibe generation
type VibeGenerateRequest struct {
	Description string `json:"description" validate:"required,min=1"`
}

// VibeResult is the structured music vibe produced from a free-text
// description. A result is either fully populated (missing scalars defaulted
// to UnknownField) or the request fails; partial results are never surfaced.
type VibeResult struct {
	Mood              string   `json:"mood"`
	Genre             string   `json:"genre"`
	EnergyLevel       string   `json:"energy_level"`
	AestheticKeywords []string `json:"aesthetic_keywords"`
	SuggestedMusic    string   `json:"suggested_music"`
}

// SearchURL builds a YouTube search link for the suggested music.
// Spaces and hyphens become '+' in the query.
func (r *VibeResult) SearchURL() string {
	query := strings.NewReplacer(" ", "+", "-", "+").Replace(r.SuggestedMusic)
	return "https://www.youtube.com/results?search_query=" + query
}

// VibeGenerateResponse represents the response for vibe generation
type VibeGenerateResponse struct {
	Result    *VibeResult `json:"result"`
	SearchURL string      `json:"searchUrl"`
	Warning   string      `json:"warning,omitempty"`
}
