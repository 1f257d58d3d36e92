// Package storage defines the recent connections store.
package storage

import (
	"context"

	"github.com/and161185/vpnclient/model"
)

//go:generate mockgen -source=storage.go -destination=mocks/mock_storage.go -package=mocks

// RecentsStore persists the recent connections history.
type RecentsStore interface {
	// InsertOrUpdateForConnection upserts the row keyed by intent and sets
	// its last connection attempt to timestamp (Unix millis).
	InsertOrUpdateForConnection(ctx context.Context, intent model.ConnectIntent, timestamp int64) error
	// GetRecents returns rows ordered by last connection attempt, newest
	// first. A limit <= 0 returns every row.
	GetRecents(ctx context.Context, limit int) ([]model.RecentConnection, error)
	// Delete removes a row by ID, returning errs.ErrRecentNotFound if absent.
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}
