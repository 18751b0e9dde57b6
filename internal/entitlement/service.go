package entitlement

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tarotnautica/backend/internal/database"
	"github.com/tarotnautica/backend/internal/models"
	"github.com/tarotnautica/backend/internal/repository"
)

// Service executes ledger operations as row-locked transactions. Each
// operation reads the profile with FOR UPDATE, applies the pure rule
// functions, and writes the result back, so concurrent requests for the same
// account serialize instead of double-spending.
type Service struct {
	db       *database.DB
	profiles *repository.ProfileRepository
	catalog  *repository.CatalogRepository
	now      func() time.Time
}

// NewService creates a new ledger service.
func NewService(db *database.DB, profiles *repository.ProfileRepository, catalog *repository.CatalogRepository) *Service {
	return &Service{
		db:       db,
		profiles: profiles,
		catalog:  catalog,
		now:      time.Now,
	}
}

// AuthorizeAndConsume runs the authorization decision for one use of a tier.
// The profile is persisted even on denial so the lazy monthly reset commits
// regardless of the outcome.
func (s *Service) AuthorizeAndConsume(ctx context.Context, userID string, rule TierRule, tier Tier) (Outcome, *models.Profile, error) {
	var (
		outcome Outcome
		profile *models.Profile
	)
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		p, err := s.profiles.GetForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		outcome = AuthorizeAndConsume(p, rule, tier, s.now())
		profile = p
		return s.profiles.SaveTx(ctx, tx, p)
	})
	if err != nil {
		return Outcome{}, nil, err
	}
	return outcome, profile, nil
}

// Credit adds gems to a user's balance. Fails with ErrInvalidQuantity for a
// non-positive amount, leaving the ledger untouched.
func (s *Service) Credit(ctx context.Context, userID string, amount int) (*models.Profile, error) {
	var profile *models.Profile
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		p, err := s.profiles.GetForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := Credit(p, amount); err != nil {
			return err
		}
		profile = p
		return s.profiles.SaveTx(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// PurchaseItem debits an item's price and appends the purchase record in one
// transaction. On any rule failure the transaction rolls back and the ledger
// is unchanged.
func (s *Service) PurchaseItem(ctx context.Context, userID string, item *models.Item) (*models.Profile, error) {
	var profile *models.Profile
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		p, err := s.profiles.GetForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		owned, err := s.catalog.OwnsTx(ctx, tx, userID, item.ID)
		if err != nil {
			return err
		}
		if err := PurchaseItem(p, owned, item); err != nil {
			return err
		}
		if err := s.profiles.SaveTx(ctx, tx, p); err != nil {
			return err
		}
		profile = p
		return s.catalog.RecordPurchaseTx(ctx, tx, userID, item.ID)
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// ActivateSubscription flips the subscribed flag, granting the transition
// benefits at most once per unsubscribed-to-subscribed transition. Returns
// the updated profile and whether benefits were granted.
func (s *Service) ActivateSubscription(ctx context.Context, userID string) (*models.Profile, bool, error) {
	var (
		profile *models.Profile
		granted bool
	)
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		p, err := s.profiles.GetForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		granted = ActivateSubscription(p, s.now())
		profile = p
		return s.profiles.SaveTx(ctx, tx, p)
	})
	if err != nil {
		return nil, false, err
	}
	return profile, granted, nil
}

// CancelSubscription clears the subscribed flag.
func (s *Service) CancelSubscription(ctx context.Context, userID string) (*models.Profile, error) {
	var profile *models.Profile
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		p, err := s.profiles.GetForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		CancelSubscription(p)
		profile = p
		return s.profiles.SaveTx(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}
