package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// snapshotKeyPrefix matches the storage key format of the original client.
const snapshotKeyPrefix = "medmatch_user:"

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func snapshotKey(id uuid.UUID) string { return snapshotKeyPrefix + id.String() }

func (r *repoPG) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	var data []byte
	err := r.pool.QueryRow(ctx,
		`SELECT data FROM user_snapshot WHERE key = $1`, snapshotKey(id)).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeUser(data)
}

func (r *repoPG) FindByEmail(ctx context.Context, email string) (*User, error) {
	var data []byte
	err := r.pool.QueryRow(ctx,
		`SELECT data FROM user_snapshot WHERE data->>'email' = $1 ORDER BY updated_at DESC LIMIT 1`,
		email).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeUser(data)
}

func (r *repoPG) Save(ctx context.Context, user *User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user snapshot: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO user_snapshot (key, data) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
		snapshotKey(user.ID), data)
	if err != nil {
		return fmt.Errorf("save user snapshot: %w", err)
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM user_snapshot WHERE key = $1`, snapshotKey(id))
	return err
}

func decodeUser(data []byte) (*User, error) {
	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decode user snapshot: %w", err)
	}
	return &user, nil
}
