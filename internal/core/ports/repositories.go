package ports

import (
	"context"

	"github.com/shelterly/shelterly/internal/core/domain"
)

// ProfileRepository reads and updates shelter profiles in the external store.
type ProfileRepository interface {
	// ListVerified returns a page of verified profiles ordered by creation
	// time descending, plus the total number of verified profiles.
	ListVerified(ctx context.Context, limit, offset int) ([]domain.Profile, int, error)

	// GetVerifiedByID returns a verified profile or domain.ErrNotFound.
	GetVerifiedByID(ctx context.Context, id string) (*domain.Profile, error)

	// GetByID returns any profile regardless of status, or domain.ErrNotFound.
	GetByID(ctx context.Context, id string) (*domain.Profile, error)

	// Update applies the non-nil fields and bumps updated_at.
	Update(ctx context.Context, id string, upd domain.ProfileUpdate) (*domain.UpdateResult, error)

	// SetVerificationDocPath records the storage path of an uploaded
	// verification document on the profile.
	SetVerificationDocPath(ctx context.Context, id, path string) error
}

// NeedRepository reads donation needs in the external store.
type NeedRepository interface {
	// ListByShelter returns the shelter's non-deleted needs.
	ListByShelter(ctx context.Context, shelterID string) ([]domain.Need, error)
}
