package postgres

import (
	"context"

	"github.com/shelterly/shelterly/internal/core/domain"
)

// NeedRepo implements ports.NeedRepository with pgx.
type NeedRepo struct {
	db *DB
}

// NewNeedRepo creates a new NeedRepo.
func NewNeedRepo(db *DB) *NeedRepo {
	return &NeedRepo{db: db}
}

// ListByShelter returns a shelter's non-deleted needs, newest first.
func (r *NeedRepo) ListByShelter(ctx context.Context, shelterID string) ([]domain.Need, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, shelter_id, category, title, description, urgency,
		       target_quantity, current_quantity, unit, is_fulfilled, created_at
		FROM needs
		WHERE shelter_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`, shelterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var needs []domain.Need
	for rows.Next() {
		var n domain.Need
		if err := rows.Scan(
			&n.ID, &n.ShelterID, &n.Category, &n.Title, &n.Description, &n.Urgency,
			&n.TargetQuantity, &n.CurrentQuantity, &n.Unit, &n.IsFulfilled, &n.CreatedAt,
		); err != nil {
			return nil, err
		}
		needs = append(needs, n)
	}
	return needs, rows.Err()
}
