package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/and161185/vpnclient/internal/errs"
	"github.com/and161185/vpnclient/internal/utils"
	"github.com/and161185/vpnclient/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS recent_connections (
	id                      TEXT PRIMARY KEY,
	intent_key              TEXT NOT NULL UNIQUE,
	intent                  JSONB NOT NULL,
	last_connection_attempt BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS recent_connections_last_attempt_idx
	ON recent_connections (last_connection_attempt DESC);`

const upsertRecent = `
INSERT INTO recent_connections (id, intent_key, intent, last_connection_attempt)
VALUES ($1, $2, $3, $4)
ON CONFLICT (intent_key) DO UPDATE
	SET last_connection_attempt = EXCLUDED.last_connection_attempt`

const selectRecents = `
SELECT id, intent, last_connection_attempt
FROM recent_connections
ORDER BY last_connection_attempt DESC, id`

type PostgresStorage struct {
	db *pgxpool.Pool
}

// NewPostgresStorage connects to DatabaseDsn and creates the schema.
func NewPostgresStorage(ctx context.Context, DatabaseDsn string) (*PostgresStorage, error) {
	db, err := pgxpool.New(ctx, DatabaseDsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	store := &PostgresStorage{db: db}
	err = utils.WithRetry(ctx, func() error {
		_, err := db.Exec(ctx, schema)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return store, nil
}

func (store *PostgresStorage) InsertOrUpdateForConnection(ctx context.Context, intent model.ConnectIntent, timestamp int64) error {
	raw, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("encode intent: %w", err)
	}
	return utils.WithRetry(ctx, func() error {
		_, err := store.db.Exec(ctx, upsertRecent, uuid.NewString(), intent.Key(), raw, timestamp)
		return err
	})
}

func (store *PostgresStorage) GetRecents(ctx context.Context, limit int) ([]model.RecentConnection, error) {
	query := selectRecents
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	var result []model.RecentConnection
	err := utils.WithRetry(ctx, func() error {
		rows, err := store.db.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		result = result[:0]
		for rows.Next() {
			row, err := scanRecent(rows)
			if err != nil {
				return err
			}
			result = append(result, row)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("get recents: %w", err)
	}
	return result, nil
}

func scanRecent(rows pgx.Row) (model.RecentConnection, error) {
	var (
		row model.RecentConnection
		raw []byte
	)
	if err := rows.Scan(&row.ID, &raw, &row.LastConnectionAttempt); err != nil {
		return row, err
	}
	if err := json.Unmarshal(raw, &row.ConnectIntent); err != nil {
		return row, fmt.Errorf("decode intent of %s: %w", row.ID, err)
	}
	return row, nil
}

func (store *PostgresStorage) Delete(ctx context.Context, id string) error {
	var affected int64
	err := utils.WithRetry(ctx, func() error {
		tag, err := store.db.Exec(ctx, `DELETE FROM recent_connections WHERE id = $1`, id)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete recent: %w", err)
	}
	if affected == 0 {
		return errs.ErrRecentNotFound
	}
	return nil
}

func (store *PostgresStorage) Ping(ctx context.Context) error {
	if store.db == nil {
		return errors.New("no database pool")
	}
	return store.db.Ping(ctx)
}

func (store *PostgresStorage) Close() error {
	store.db.Close()
	return nil
}
