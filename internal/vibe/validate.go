package vibe

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/musicu/api/internal/model"
)

// SchemaError is returned when the raw model output cannot be turned into a
// VibeResult at all. Missing individual fields are not a SchemaError — they
// are defaulted instead — but an unparsable payload is always rejected with
// no partial-field salvage.
type SchemaError struct {
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid model output (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid model output (%s)", e.Reason)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// ParseResult parses raw model output into a VibeResult.
//
// The payload is untrusted text even though JSON output mode was requested:
// a prose wrapper around a single JSON object is tolerated, missing scalar
// fields default to model.UnknownField, missing keywords default to an empty
// slice, and unexpected extra fields are ignored.
func ParseResult(raw string) (*model.VibeResult, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &SchemaError{Reason: "empty output"}
	}

	var payload struct {
		Mood              *string  `json:"mood"`
		Genre             *string  `json:"genre"`
		EnergyLevel       *string  `json:"energy_level"`
		AestheticKeywords []string `json:"aesthetic_keywords"`
		SuggestedMusic    *string  `json:"suggested_music"`
	}

	if err := json.Unmarshal([]byte(extractJSON(raw)), &payload); err != nil {
		return nil, &SchemaError{Reason: "parse error", Err: err}
	}

	keywords := make([]string, 0, len(payload.AestheticKeywords))
	for _, kw := range payload.AestheticKeywords {
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}

	return &model.VibeResult{
		Mood:              stringOrUnknown(payload.Mood),
		Genre:             stringOrUnknown(payload.Genre),
		EnergyLevel:       stringOrUnknown(payload.EnergyLevel),
		AestheticKeywords: keywords,
		SuggestedMusic:    stringOrUnknown(payload.SuggestedMusic),
	}, nil
}

func stringOrUnknown(s *string) string {
	if s == nil || *s == "" {
		return model.UnknownField
	}
	return *s
}

// extractJSON attempts to extract a JSON object from a response that may
// contain extra text around it.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")

	if start != -1 && end != -1 && end > start {
		return s[start : end+1]
	}
	return s
}
