package vibe

import (
	"context"
	"log"
	"strings"

	"github.com/musicu/api/internal/client"
	"github.com/musicu/api/internal/model"
)

// State tracks where a vibe request is in its lifecycle. Succeeded and Failed
// are terminal; there are no retries between states.
type State string

const (
	StateIdle       State = "idle"
	StateBuilding   State = "building"
	StateCalling    State = "calling"
	StateValidating State = "validating"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// shortDescriptionWords is the threshold below which the user gets an
// advisory warning. Generation still proceeds.
const shortDescriptionWords = 10

const shortDescriptionWarning = "Your description is quite short. A few more words about yourself usually gives a better match."

// Recorder persists one history entry. Record is fire-and-forget from the
// orchestrator's point of view: its error is logged and never changes the
// generation outcome.
type Recorder interface {
	Record(entry *model.HistoryEntry) error
}

// Outcome is the terminal result of one vibe request: either a populated
// VibeResult or a classified error, never both, plus an optional advisory
// warning.
type Outcome struct {
	State   State
	Result  *model.VibeResult
	Kind    ErrorKind
	Message string
	Warning string
}

// Orchestrator turns raw user text into a validated VibeResult by building
// the prompt, making a single Gemini call, validating the response contract
// and classifying any failure.
type Orchestrator struct {
	gemini  *client.GeminiClient
	history Recorder
}

// NewOrchestrator creates a vibe orchestrator. history may be nil when no
// persistence is wired (e.g. tests).
func NewOrchestrator(gemini *client.GeminiClient, history Recorder) *Orchestrator {
	return &Orchestrator{
		gemini:  gemini,
		history: history,
	}
}

// Generate runs one request through Building → Calling → Validating. On
// success with an authenticated session the result is handed to the history
// recorder; a recorder failure is logged only.
func (o *Orchestrator) Generate(ctx context.Context, session model.Session, description string) *Outcome {
	out := &Outcome{State: StateIdle}

	if len(strings.Fields(description)) < shortDescriptionWords {
		out.Warning = shortDescriptionWarning
	}

	out.State = StateBuilding
	system, user := BuildPrompt(description)

	// Use a mock response if the client is not configured
	if o.gemini == nil || !o.gemini.IsConfigured() {
		out.State = StateSucceeded
		out.Result = mockResult()
		o.record(session, description, out.Result)
		return out
	}

	out.State = StateCalling
	raw, err := o.gemini.GenerateContent(ctx, system, user)
	if err != nil {
		return o.fail(out, err)
	}

	out.State = StateValidating
	result, err := ParseResult(raw)
	if err != nil {
		return o.fail(out, err)
	}

	out.State = StateSucceeded
	out.Result = result
	o.record(session, description, result)
	return out
}

func (o *Orchestrator) fail(out *Outcome, err error) *Outcome {
	kind := Classify(err)
	out.State = StateFailed
	out.Kind = kind
	out.Message = UserMessage(kind, err)
	return out
}

func (o *Orchestrator) record(session model.Session, description string, result *model.VibeResult) {
	if !session.IsAuthenticated() || o.history == nil {
		return
	}

	entry := model.NewHistoryEntry(session.UserID, description, result)
	if err := o.history.Record(entry); err != nil {
		log.Printf("Failed to save vibe to history for user %s: %v", session.UserID, err)
	}
}

// mockResult mirrors the shape of a real generation for development and
// testing when no API key is configured.
func mockResult() *model.VibeResult {
	return &model.VibeResult{
		Mood:              "Dreamy",
		Genre:             "Indie Pop",
		EnergyLevel:       model.EnergyMedium,
		AestheticKeywords: []string{"sunset", "polaroid", "city lights"},
		SuggestedMusic:    "Tame Impala - The Less I Know The Better",
	}
}
