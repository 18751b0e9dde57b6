package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tarotnautica/backend/internal/database"
	"github.com/tarotnautica/backend/internal/models"
)

// ErrItemNotFound is returned when a catalog item does not exist or is inactive.
var ErrItemNotFound = errors.New("item not found")

// CatalogRepository handles spells, potions and their purchase records.
type CatalogRepository struct {
	db *database.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *database.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListItems returns active items of one kind, optionally filtered by category.
func (r *CatalogRepository) ListItems(ctx context.Context, kind, category string) ([]models.Item, error) {
	query := `
		SELECT id, kind, title, description, price_gems, category, is_active, created_at
		FROM items
		WHERE kind = $1 AND is_active = TRUE
	`
	args := []interface{}{kind}
	if category != "" {
		query += ` AND category = $2`
		args = append(args, category)
	}
	query += ` ORDER BY id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		var it models.Item
		if err := rows.Scan(&it.ID, &it.Kind, &it.Title, &it.Description,
			&it.PriceGems, &it.Category, &it.IsActive, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetActiveItem returns one active item of the given kind.
func (r *CatalogRepository) GetActiveItem(ctx context.Context, kind string, id int64) (*models.Item, error) {
	var it models.Item
	err := r.db.QueryRow(ctx, `
		SELECT id, kind, title, description, price_gems, category, is_active, created_at
		FROM items
		WHERE id = $1 AND kind = $2 AND is_active = TRUE
	`, id, kind).Scan(&it.ID, &it.Kind, &it.Title, &it.Description,
		&it.PriceGems, &it.Category, &it.IsActive, &it.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &it, nil
}

// OwnsTx reports inside tx whether the user already purchased the item.
func (r *CatalogRepository) OwnsTx(ctx context.Context, tx pgx.Tx, userID string, itemID int64) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM purchases WHERE user_id = $1 AND item_id = $2)
	`, userID, itemID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check purchase: %w", err)
	}
	return exists, nil
}

// RecordPurchaseTx appends a purchase row inside tx. The (user, item) unique
// constraint backstops the ownership check under concurrency.
func (r *CatalogRepository) RecordPurchaseTx(ctx context.Context, tx pgx.Tx, userID string, itemID int64) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO purchases (user_id, item_id) VALUES ($1, $2)
	`, userID, itemID)
	if err != nil {
		return fmt.Errorf("failed to record purchase: %w", err)
	}
	return nil
}

// ListOwnedIDs returns the IDs of items of one kind the user has purchased.
func (r *CatalogRepository) ListOwnedIDs(ctx context.Context, userID, kind string) ([]int64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.item_id
		FROM purchases p
		JOIN items i ON i.id = p.item_id
		WHERE p.user_id = $1 AND i.kind = $2
		ORDER BY p.item_id
	`, userID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned items: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan owned item: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
