package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/and161185/vpnclient/internal/errs"
	"github.com/and161185/vpnclient/model"
	"github.com/google/uuid"
)

// MemStorage keeps recent connections in process memory.
type MemStorage struct {
	recents map[string]*model.RecentConnection // by intent key
	mu      sync.RWMutex
}

func NewMemStorage() *MemStorage {
	return &MemStorage{
		recents: make(map[string]*model.RecentConnection),
	}
}

func (store *MemStorage) InsertOrUpdateForConnection(ctx context.Context, intent model.ConnectIntent, timestamp int64) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	key := intent.Key()
	if existing, ok := store.recents[key]; ok {
		existing.LastConnectionAttempt = timestamp
		return nil
	}
	store.recents[key] = &model.RecentConnection{
		ID:                    uuid.NewString(),
		ConnectIntent:         intent,
		LastConnectionAttempt: timestamp,
	}
	return nil
}

func (store *MemStorage) GetRecents(ctx context.Context, limit int) ([]model.RecentConnection, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	result := make([]model.RecentConnection, 0, len(store.recents))
	for _, r := range store.recents {
		result = append(result, *r)
	}
	SortRecents(result)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (store *MemStorage) Delete(ctx context.Context, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	for key, r := range store.recents {
		if r.ID == id {
			delete(store.recents, key)
			return nil
		}
	}
	return errs.ErrRecentNotFound
}

func (store *MemStorage) Ping(ctx context.Context) error {
	return nil
}

func (store *MemStorage) Close() error {
	return nil
}

// SortRecents orders rows newest first, breaking ties by ID.
func SortRecents(rows []model.RecentConnection) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].LastConnectionAttempt != rows[j].LastConnectionAttempt {
			return rows[i].LastConnectionAttempt > rows[j].LastConnectionAttempt
		}
		return rows[i].ID < rows[j].ID
	})
}
