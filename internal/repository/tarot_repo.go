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

var (
	// ErrCardNotFound is returned when a tarot card does not exist.
	ErrCardNotFound = errors.New("card not found")
	// ErrSpreadTypeNotFound is returned when a spread type does not exist.
	ErrSpreadTypeNotFound = errors.New("spread type not found")
	// ErrReadingNotFound is returned when a reading does not exist or belongs
	// to another user.
	ErrReadingNotFound = errors.New("reading not found")
)

// TarotRepository handles cards, spread types and recorded readings.
type TarotRepository struct {
	db *database.DB
}

// NewTarotRepository creates a new tarot repository
func NewTarotRepository(db *database.DB) *TarotRepository {
	return &TarotRepository{db: db}
}

const cardColumns = `id, name, number, image_name, meaning_upright, meaning_reversed`

// ListCards returns all tarot cards ordered by arcana number.
func (r *TarotRepository) ListCards(ctx context.Context) ([]models.Card, error) {
	rows, err := r.db.Query(ctx, `SELECT `+cardColumns+` FROM cards ORDER BY number`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	cards := []models.Card{}
	for rows.Next() {
		var c models.Card
		if err := rows.Scan(&c.ID, &c.Name, &c.Number, &c.ImageName,
			&c.MeaningUpright, &c.MeaningReversed); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// GetCard returns a single card by ID.
func (r *TarotRepository) GetCard(ctx context.Context, id int64) (*models.Card, error) {
	var c models.Card
	err := r.db.QueryRow(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Number, &c.ImageName, &c.MeaningUpright, &c.MeaningReversed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return &c, nil
}

const spreadColumns = `id, name, tier, num_cards, description, gem_cost, monthly_free_limit, layout`

// ListSpreadTypes returns all spread types.
func (r *TarotRepository) ListSpreadTypes(ctx context.Context) ([]models.SpreadType, error) {
	rows, err := r.db.Query(ctx, `SELECT `+spreadColumns+` FROM spread_types ORDER BY num_cards`)
	if err != nil {
		return nil, fmt.Errorf("failed to list spread types: %w", err)
	}
	defer rows.Close()

	spreads := []models.SpreadType{}
	for rows.Next() {
		var s models.SpreadType
		if err := rows.Scan(&s.ID, &s.Name, &s.Tier, &s.NumCards, &s.Description,
			&s.GemCost, &s.MonthlyFreeLimit, &s.Layout); err != nil {
			return nil, fmt.Errorf("failed to scan spread type: %w", err)
		}
		spreads = append(spreads, s)
	}
	return spreads, rows.Err()
}

// GetSpreadType returns a single spread type by ID.
func (r *TarotRepository) GetSpreadType(ctx context.Context, id int64) (*models.SpreadType, error) {
	var s models.SpreadType
	err := r.db.QueryRow(ctx, `SELECT `+spreadColumns+` FROM spread_types WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.Tier, &s.NumCards, &s.Description,
			&s.GemCost, &s.MonthlyFreeLimit, &s.Layout)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSpreadTypeNotFound
		}
		return nil, fmt.Errorf("failed to get spread type: %w", err)
	}
	return &s, nil
}

// CreateReading stores a reading and its placed cards in one transaction.
func (r *TarotRepository) CreateReading(ctx context.Context, reading *models.Reading) error {
	reading.CreatedAt = time.Now()
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO readings (user_id, spread_type_id, question, interpretation, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, reading.UserID, reading.SpreadTypeID, reading.Question,
			reading.Interpretation, reading.CreatedAt).Scan(&reading.ID)
		if err != nil {
			return fmt.Errorf("failed to create reading: %w", err)
		}

		for i := range reading.Cards {
			rc := &reading.Cards[i]
			rc.ReadingID = reading.ID
			_, err := tx.Exec(ctx, `
				INSERT INTO reading_cards (reading_id, card_id, position, reversed)
				VALUES ($1, $2, $3, $4)
			`, rc.ReadingID, rc.CardID, rc.Position, rc.Reversed)
			if err != nil {
				return fmt.Errorf("failed to create reading card: %w", err)
			}
		}
		return nil
	})
}

// SetInterpretation stores the generated narrative for a reading.
func (r *TarotRepository) SetInterpretation(ctx context.Context, readingID int64, text string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE readings SET interpretation = $2 WHERE id = $1
	`, readingID, text)
	if err != nil {
		return fmt.Errorf("failed to set interpretation: %w", err)
	}
	return nil
}

// ListReadings returns a user's readings, most recent first, without cards.
func (r *TarotRepository) ListReadings(ctx context.Context, userID string, limit int) ([]models.Reading, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, `
		SELECT t.id, t.user_id, t.spread_type_id, t.question, t.interpretation, t.created_at, s.name
		FROM readings t
		JOIN spread_types s ON s.id = t.spread_type_id
		WHERE t.user_id = $1
		ORDER BY t.created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list readings: %w", err)
	}
	defer rows.Close()

	readings := []models.Reading{}
	for rows.Next() {
		var t models.Reading
		if err := rows.Scan(&t.ID, &t.UserID, &t.SpreadTypeID, &t.Question,
			&t.Interpretation, &t.CreatedAt, &t.SpreadName); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		readings = append(readings, t)
	}
	return readings, rows.Err()
}

// GetReading returns one of the user's readings with its cards.
func (r *TarotRepository) GetReading(ctx context.Context, userID string, id int64) (*models.Reading, error) {
	var t models.Reading
	err := r.db.QueryRow(ctx, `
		SELECT t.id, t.user_id, t.spread_type_id, t.question, t.interpretation, t.created_at, s.name
		FROM readings t
		JOIN spread_types s ON s.id = t.spread_type_id
		WHERE t.id = $1 AND t.user_id = $2
	`, id, userID).Scan(&t.ID, &t.UserID, &t.SpreadTypeID, &t.Question,
		&t.Interpretation, &t.CreatedAt, &t.SpreadName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReadingNotFound
		}
		return nil, fmt.Errorf("failed to get reading: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT rc.card_id, rc.position, rc.reversed,
		       c.name, c.number, c.image_name, c.meaning_upright, c.meaning_reversed
		FROM reading_cards rc
		JOIN cards c ON c.id = rc.card_id
		WHERE rc.reading_id = $1
		ORDER BY rc.position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get reading cards: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rc models.ReadingCard
		rc.ReadingID = id
		if err := rows.Scan(&rc.CardID, &rc.Position, &rc.Reversed,
			&rc.CardName, &rc.CardNumber, &rc.ImageName,
			&rc.MeaningUpright, &rc.MeaningReversed); err != nil {
			return nil, fmt.Errorf("failed to scan reading card: %w", err)
		}
		t.Cards = append(t.Cards, rc)
	}
	return &t, rows.Err()
}
