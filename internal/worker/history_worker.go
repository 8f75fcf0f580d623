package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"github.com/musicu/api/internal/model"
	"github.com/musicu/api/internal/service"
)

// HistoryWorker persists queued vibe history entries. Persistence is
// fire-and-forget end to end: a failed write is logged and dropped, never
// retried and never surfaced to the user.
type HistoryWorker struct {
	historyService *service.HistoryService
}

// NewHistoryWorker creates a new history worker
func NewHistoryWorker(historyService *service.HistoryService) *HistoryWorker {
	return &HistoryWorker{historyService: historyService}
}

// ProcessTask handles one history:save task
func (w *HistoryWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var entry model.HistoryEntry
	if err := json.Unmarshal(t.Payload(), &entry); err != nil {
		return fmt.Errorf("failed to unmarshal history entry: %w", err)
	}

	if err := w.historyService.Save(ctx, &entry); err != nil {
		log.Printf("Failed to save history entry %s for user %s: %v", entry.ID, entry.UserID, err)
	}
	return nil
}
