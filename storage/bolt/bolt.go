// Package bolt stores recent connections in a bbolt file on the device.
package bolt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/and161185/vpnclient/internal/errs"
	"github.com/and161185/vpnclient/model"
	"github.com/and161185/vpnclient/storage/inmemory"
	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var recentsBucket = []byte("recent_connections")

var errStop = errors.New("stop iteration")

type BoltStorage struct {
	db *bolt.DB
}

// NewBoltStorage opens (creating if needed) the database at path.
func NewBoltStorage(path string) (*BoltStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create bolt dir: %w", err)
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(recentsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &BoltStorage{db: db}, nil
}

func (store *BoltStorage) InsertOrUpdateForConnection(ctx context.Context, intent model.ConnectIntent, timestamp int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := []byte(intent.Key())
	return store.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(recentsBucket)
		row := model.RecentConnection{ID: uuid.NewString(), ConnectIntent: intent}
		if raw := b.Get(key); raw != nil {
			if err := json.Unmarshal(raw, &row); err != nil {
				return fmt.Errorf("decode recent %q: %w", key, err)
			}
		}
		row.LastConnectionAttempt = timestamp
		raw, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("encode recent: %w", err)
		}
		return b.Put(key, raw)
	})
}

func (store *BoltStorage) GetRecents(ctx context.Context, limit int) ([]model.RecentConnection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []model.RecentConnection
	err := store.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(recentsBucket).ForEach(func(k, v []byte) error {
			var row model.RecentConnection
			if err := json.Unmarshal(v, &row); err != nil {
				return fmt.Errorf("decode recent %q: %w", k, err)
			}
			rows = append(rows, row)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	inmemory.SortRecents(rows)
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (store *BoltStorage) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return store.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(recentsBucket)
		var found []byte
		err := b.ForEach(func(k, v []byte) error {
			var row model.RecentConnection
			if err := json.Unmarshal(v, &row); err != nil {
				return fmt.Errorf("decode recent %q: %w", k, err)
			}
			if row.ID == id {
				found = append([]byte(nil), k...)
				return errStop
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStop) {
			return err
		}
		if found == nil {
			return errs.ErrRecentNotFound
		}
		return b.Delete(found)
	})
}

func (store *BoltStorage) Ping(ctx context.Context) error {
	return store.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(recentsBucket) == nil {
			return errors.New("recents bucket missing")
		}
		return nil
	})
}

func (store *BoltStorage) Close() error {
	return store.db.Close()
}
