package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tarotnautica/backend/internal/database"
	"github.com/tarotnautica/backend/internal/models"
)

// ErrProfileNotFound is returned when no ledger profile exists for a user.
var ErrProfileNotFound = errors.New("profile not found")

const profileColumns = `user_id, gems, subscribed, basic_used, clarity_used, deep_used, reset_date, updated_at`

// ProfileRepository handles ledger profile persistence.
type ProfileRepository struct {
	db *database.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *database.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get retrieves a profile without locking. Use for read-only display paths.
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE user_id = $1
	`, userID)
	return scanProfile(row)
}

// GetForUpdate retrieves a profile inside tx with a row lock. Concurrent
// ledger mutations for the same account serialize on this lock, which is
// what keeps two simultaneous debits from both seeing a stale balance.
func (r *ProfileRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*models.Profile, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE user_id = $1
		FOR UPDATE
	`, userID)
	return scanProfile(row)
}

// SaveTx writes the full profile state back inside tx.
func (r *ProfileRepository) SaveTx(ctx context.Context, tx pgx.Tx, p *models.Profile) error {
	p.UpdatedAt = time.Now()
	tag, err := tx.Exec(ctx, `
		UPDATE profiles
		SET gems = $2, subscribed = $3, basic_used = $4, clarity_used = $5,
		    deep_used = $6, reset_date = $7, updated_at = $8
		WHERE user_id = $1
	`, p.UserID, p.Gems, p.Subscribed, p.BasicUsed, p.ClarityUsed, p.DeepUsed, p.ResetDate, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.UserID, &p.Gems, &p.Subscribed,
		&p.BasicUsed, &p.ClarityUsed, &p.DeepUsed, &p.ResetDate, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}
