package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound marks a missing user snapshot.
var ErrNotFound = errors.New("user snapshot not found")

// Repository persists whole user snapshots. Writes replace the snapshot
// atomically; there are no partial updates.
type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}
