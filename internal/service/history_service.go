package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/musicu/api/internal/model"
	"github.com/musicu/api/internal/store"
)

// TaskTypeHistorySave is the asynq task for fire-and-forget history writes.
const TaskTypeHistorySave = "history:save"

// DefaultHistoryLimit is how many entries the history listing returns when no
// limit is given.
const DefaultHistoryLimit = 10

// HistoryService manages the per-user vibe history. Writes go through an
// asynq queue so a slow or failing store never blocks the generation path;
// without an asynq client (tests, single-process dev) writes go straight to
// the store.
type HistoryService struct {
	store       *store.HistoryStore
	asynqClient *asynq.Client
}

func NewHistoryService(historyStore *store.HistoryStore, asynqClient *asynq.Client) *HistoryService {
	return &HistoryService{
		store:       historyStore,
		asynqClient: asynqClient,
	}
}

// Record queues one history entry for persistence, stamping its ID and
// creation time. The entry is never updated after this point.
func (s *HistoryService) Record(entry *model.HistoryEntry) error {
	entry.ID = uuid.New().String()
	entry.CreatedAt = time.Now()

	if s.asynqClient == nil {
		return s.Save(context.Background(), entry)
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	// MaxRetry 0: a lost history write must never resurface later as
	// user-visible behavior.
	_, err = s.asynqClient.Enqueue(
		asynq.NewTask(TaskTypeHistorySave, payload),
		asynq.Queue("history"),
		asynq.MaxRetry(0),
		asynq.Retention(time.Hour),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue history write: %w", err)
	}
	return nil
}

// Save writes an entry to the store. Called by the history worker.
func (s *HistoryService) Save(ctx context.Context, entry *model.HistoryEntry) error {
	return s.store.Save(ctx, entry)
}

// ListRecent returns a user's saved vibes, newest first.
func (s *HistoryService) ListRecent(ctx context.Context, userID string, limit int) ([]model.HistoryEntry, error) {
	if limit <= 0 || limit > DefaultHistoryLimit {
		limit = DefaultHistoryLimit
	}
	return s.store.ListRecent(ctx, userID, limit)
}
