package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shelterly/shelterly/internal/core/domain"
)

// ProfileRepo implements ports.ProfileRepository with pgx.
// Locations are read back as WKT via ST_AsText and left unparsed; the core
// parses them (and falls back) on demand.
type ProfileRepo struct {
	db *DB
}

// NewProfileRepo creates a new ProfileRepo.
func NewProfileRepo(db *DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

const profileColumns = `
	id, role, status, COALESCE(name, ''), COALESCE(nip, ''),
	COALESCE(city, ''), COALESCE(address, ''),
	ST_AsText(location::geometry),
	phone_number, website_url, verification_doc_path,
	ai_usage_count, created_at, updated_at`

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	var loc *string
	err := row.Scan(
		&p.ID, &p.Role, &p.Status, &p.Name, &p.NIP,
		&p.City, &p.Address, &loc,
		&p.PhoneNumber, &p.WebsiteURL, &p.VerificationDocPath,
		&p.AIUsageCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Location = loc
	return &p, nil
}

// ListVerified returns a page of verified profiles ordered by created_at
// descending, plus the total count of verified profiles.
func (r *ProfileRepo) ListVerified(ctx context.Context, limit, offset int) ([]domain.Profile, int, error) {
	rows, err := r.db.Pool.Query(ctx, fmt.Sprintf(`
		SELECT %s, count(*) OVER () AS total
		FROM profiles
		WHERE status = 'verified'
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, profileColumns), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var profiles []domain.Profile
	total := 0
	for rows.Next() {
		var p domain.Profile
		var loc *string
		if err := rows.Scan(
			&p.ID, &p.Role, &p.Status, &p.Name, &p.NIP,
			&p.City, &p.Address, &loc,
			&p.PhoneNumber, &p.WebsiteURL, &p.VerificationDocPath,
			&p.AIUsageCount, &p.CreatedAt, &p.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, err
		}
		p.Location = loc
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// The windowed count is absent when the page is past the end.
	if total == 0 && offset > 0 {
		if err := r.db.Pool.QueryRow(ctx,
			`SELECT count(*) FROM profiles WHERE status = 'verified'`,
		).Scan(&total); err != nil {
			return nil, 0, err
		}
	}

	return profiles, total, nil
}

// GetVerifiedByID returns a verified profile by UUID.
func (r *ProfileRepo) GetVerifiedByID(ctx context.Context, id string) (*domain.Profile, error) {
	p, err := scanProfile(r.db.Pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM profiles WHERE id = $1 AND status = 'verified'
	`, profileColumns), id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return p, err
}

// GetByID returns a profile by UUID regardless of status.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	p, err := scanProfile(r.db.Pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM profiles WHERE id = $1
	`, profileColumns), id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return p, err
}

// Update applies the non-nil fields of upd and bumps updated_at. The Clear
// flags set the matching column to NULL.
func (r *ProfileRepo) Update(ctx context.Context, id string, upd domain.ProfileUpdate) (*domain.UpdateResult, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	add := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.City != nil {
		add("city", *upd.City)
	}
	if upd.Address != nil {
		add("address", *upd.Address)
	}
	if upd.PhoneNumber != nil {
		add("phone_number", *upd.PhoneNumber)
	} else if upd.ClearPhoneNumber {
		add("phone_number", nil)
	}
	if upd.WebsiteURL != nil {
		add("website_url", *upd.WebsiteURL)
	} else if upd.ClearWebsiteURL {
		add("website_url", nil)
	}

	var res domain.UpdateResult
	err := r.db.Pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE profiles SET %s
		WHERE id = $1
		RETURNING id, COALESCE(name, ''), COALESCE(city, ''), updated_at
	`, strings.Join(sets, ", ")), args...).Scan(&res.ID, &res.Name, &res.City, &res.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// SetVerificationDocPath records the storage path of an uploaded document.
func (r *ProfileRepo) SetVerificationDocPath(ctx context.Context, id, path string) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE profiles SET verification_doc_path = $2, updated_at = now()
		WHERE id = $1
	`, id, path)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
