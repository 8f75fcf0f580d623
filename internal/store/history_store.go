package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/musicu/api/internal/model"
)

// maxHistoryEntries caps the per-user history list; older entries fall off.
const maxHistoryEntries = 50

// HistoryStore persists vibe history as a per-user Redis list, newest first.
// Entries are immutable once written; the store never updates them.
type HistoryStore struct {
	redis *redis.Client
}

func NewHistoryStore(redisClient *redis.Client) *HistoryStore {
	return &HistoryStore{redis: redisClient}
}

// Save prepends an entry to the user's history and trims the list to the cap.
func (s *HistoryStore) Save(ctx context.Context, entry *model.HistoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	key := historyKey(entry.UserID)
	if err := s.redis.LPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("failed to save history entry: %w", err)
	}
	return s.redis.LTrim(ctx, key, 0, maxHistoryEntries-1).Err()
}

// ListRecent returns up to limit entries for a user, newest first.
func (s *HistoryStore) ListRecent(ctx context.Context, userID string, limit int) ([]model.HistoryEntry, error) {
	if limit <= 0 {
		return []model.HistoryEntry{}, nil
	}

	items, err := s.redis.LRange(ctx, historyKey(userID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	entries := make([]model.HistoryEntry, 0, len(items))
	for _, item := range items {
		var entry model.HistoryEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			// Skip undecodable entries rather than failing the whole listing
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func historyKey(userID string) string {
	return fmt.Sprintf("history:%s", userID)
}
