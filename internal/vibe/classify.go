package vibe

import "strings"

// ErrorKind is the user-facing failure category for a vibe request.
type ErrorKind string

const (
	// KindCredential means the upstream service rejected authorization.
	KindCredential ErrorKind = "credential"
	// KindRateLimit means the usage quota is exhausted.
	KindRateLimit ErrorKind = "rate_limit"
	// KindGeneric covers every other generation or parsing failure.
	KindGeneric ErrorKind = "generic"
)

var (
	credentialMarkers = []string{"api_key", "api key", "unauthorized", "permission"}
	rateLimitMarkers  = []string{"quota", "limit"}
)

// Classify maps a generation or schema failure onto an ErrorKind by scanning
// the message for case-insensitive substrings. The upstream API surfaces no
// structured error code, so this text heuristic is the best available signal
// and can misclassify when the upstream wording changes.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindGeneric
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range credentialMarkers {
		if strings.Contains(msg, marker) {
			return KindCredential
		}
	}
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return KindRateLimit
		}
	}
	return KindGeneric
}

// UserMessage returns the instruction shown to the user for a failure of the
// given kind. The generic message carries the underlying diagnostic.
func UserMessage(kind ErrorKind, err error) string {
	switch kind {
	case KindCredential:
		return "The AI service rejected the configured credentials. Obtain a valid Gemini API key and verify GEMINI_API_KEY is set correctly."
	case KindRateLimit:
		return "The AI service usage quota is exhausted. Please retry later."
	default:
		diagnostic := ""
		if err != nil {
			diagnostic = err.Error() + ". "
		}
		return diagnostic + "Check your connectivity and retry."
	}
}
