package triage

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores completed analyses. History is append-only; entries are
// never updated or deleted.
type Repository interface {
	Append(ctx context.Context, item *HistoryItem) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*HistoryItem, int, error)
}
