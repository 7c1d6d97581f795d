// ===============================
// internal/repositories/profile_repository.go - Profile persistence
// ===============================

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"luemtv/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

const profileColumns = `id, email, role, created_at`

type ProfileRepository struct {
	db     *sqlx.DB
	logger zerolog.Logger
}

func NewProfileRepository(db *sqlx.DB, logger zerolog.Logger) *ProfileRepository {
	return &ProfileRepository{
		db:     db,
		logger: logger.With().Str("component", "profile_repository").Logger(),
	}
}

// ListProfiles returns profiles by email, optionally filtered by a
// case-insensitive email substring.
func (r *ProfileRepository) ListProfiles(ctx context.Context, q string) ([]models.Profile, error) {
	var profiles []models.Profile
	var err error

	if q == "" {
		err = r.db.SelectContext(ctx, &profiles,
			`SELECT `+profileColumns+` FROM profiles ORDER BY email ASC`)
	} else {
		err = r.db.SelectContext(ctx, &profiles,
			`SELECT `+profileColumns+` FROM profiles WHERE email ILIKE $1 ORDER BY email ASC`,
			likePattern(q))
	}
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	return keepValid(profiles, r.logger, "profiles"), nil
}

func (r *ProfileRepository) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	err := r.db.GetContext(ctx, &p, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", id, err)
	}

	p.Normalize()
	if err := p.Valid(); err != nil {
		r.logger.Warn().Err(err).Str("id", id).Msg("Malformed profile row")
		return nil, ErrNotFound
	}
	return &p, nil
}

// CreateProfile inserts p. An existing id yields ErrDuplicate.
func (r *ProfileRepository) CreateProfile(ctx context.Context, p *models.Profile) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO profiles (id, email, role) VALUES ($1, $2, $3)
		RETURNING created_at`,
		p.ID, p.Email, p.Role,
	).Scan(&p.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) UpdateProfile(ctx context.Context, p *models.Profile) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET email = $2, role = $3 WHERE id = $1`,
		p.ID, p.Email, p.Role)
	if err != nil {
		return fmt.Errorf("update profile %s: %w", p.ID, err)
	}
	return expectOne(res)
}

func (r *ProfileRepository) DeleteProfile(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete profile %s: %w", id, err)
	}
	return expectOne(res)
}
