package triage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// listHistoryQuery orders by insertion sequence as a tiebreaker so two
// analyses recorded in the same microsecond keep most-recent-first order.
const listHistoryQuery = `
	SELECT id, user_id, symptoms, result, created_at
	FROM triage_history
	WHERE user_id = $1
	ORDER BY created_at DESC, seq DESC
	LIMIT $2 OFFSET $3`

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) Append(ctx context.Context, item *HistoryItem) error {
	item.ID = uuid.New()
	result, err := json.Marshal(item.Result)
	if err != nil {
		return fmt.Errorf("encode analysis result: %w", err)
	}
	err = r.pool.QueryRow(ctx, `
		INSERT INTO triage_history (id, user_id, symptoms, result)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		item.ID, item.UserID, item.Symptoms, result).Scan(&item.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert triage history: %w", err)
	}
	return nil
}

func (r *repoPG) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*HistoryItem, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM triage_history WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, listHistoryQuery, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*HistoryItem
	for rows.Next() {
		item, err := scanHistoryItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func scanHistoryItem(row pgx.Row) (*HistoryItem, error) {
	var item HistoryItem
	var result []byte
	if err := row.Scan(&item.ID, &item.UserID, &item.Symptoms, &result, &item.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(result, &item.Result); err != nil {
		return nil, fmt.Errorf("decode analysis result: %w", err)
	}
	return &item, nil
}
