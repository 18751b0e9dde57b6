package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/tarotnautica/backend/internal/ai"
	"github.com/tarotnautica/backend/internal/cache"
	"github.com/tarotnautica/backend/internal/entitlement"
	"github.com/tarotnautica/backend/internal/models"
	"github.com/tarotnautica/backend/internal/repository"
	"github.com/tarotnautica/backend/internal/tarot"
)

// ReadingService handles business logic for tarot readings: authorization
// against the ledger, the card draw, persistence and interpretation.
type ReadingService struct {
	tarotRepo   *repository.TarotRepository
	ledger      *entitlement.Service
	interpreter *ai.Interpreter
	cache       *cache.Redis
	cacheTTL    time.Duration
	newRng      func() *rand.Rand
}

// NewReadingService creates a new reading service
func NewReadingService(tarotRepo *repository.TarotRepository, ledger *entitlement.Service, interpreter *ai.Interpreter, redisCache *cache.Redis, cacheTTL time.Duration) *ReadingService {
	return &ReadingService{
		tarotRepo:   tarotRepo,
		ledger:      ledger,
		interpreter: interpreter,
		cache:       redisCache,
		cacheTTL:    cacheTTL,
		newRng: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// ReadingResult is the outcome of a reading request: the stored reading plus
// how the ledger paid for it.
type ReadingResult struct {
	Reading *models.Reading     `json:"reading"`
	Outcome entitlement.Outcome `json:"outcome"`
	Profile *models.Profile     `json:"profile"`
}

// CreateReading authorizes one use of the spread's tier, draws the cards,
// stores the reading and attaches an interpretation. The debit is final once
// authorization succeeds; interpretation failures degrade to a scripted
// narrative and never undo the reading.
func (s *ReadingService) CreateReading(ctx context.Context, userID string, spreadTypeID int64, question string) (*ReadingResult, error) {
	spread, err := s.tarotRepo.GetSpreadType(ctx, spreadTypeID)
	if err != nil {
		return nil, err
	}

	tier, rule, err := entitlement.RuleForSpread(spread)
	if err != nil {
		return nil, err
	}

	// Load and validate the deck before the debit so a catalog failure or an
	// undersized deck cannot charge the user.
	deck, err := s.listCards(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load deck: %w", err)
	}
	if len(deck) < spread.NumCards {
		return nil, tarot.ErrNotEnoughCards
	}

	outcome, profile, err := s.ledger.AuthorizeAndConsume(ctx, userID, rule, tier)
	if err != nil {
		return nil, err
	}
	if !outcome.Allowed {
		return &ReadingResult{Outcome: outcome, Profile: profile}, entitlement.ErrInsufficientGems
	}

	drawn, err := tarot.Draw(s.newRng(), deck, spread.NumCards)
	if err != nil {
		return nil, err
	}

	reading := &models.Reading{
		UserID:       userID,
		SpreadTypeID: spread.ID,
		Question:     question,
		SpreadName:   spread.Name,
	}
	for _, d := range drawn {
		reading.Cards = append(reading.Cards, models.ReadingCard{
			CardID:          d.Card.ID,
			Position:        d.Position,
			Reversed:        d.Reversed,
			CardName:        d.Card.Name,
			CardNumber:      d.Card.Number,
			ImageName:       d.Card.ImageName,
			MeaningUpright:  d.Card.MeaningUpright,
			MeaningReversed: d.Card.MeaningReversed,
		})
	}

	// The debit committed with the authorization above; a storage failure here
	// loses the charge without producing a reading. Accepted: the ledger and
	// the reading store are separate transactions.
	if err := s.tarotRepo.CreateReading(ctx, reading); err != nil {
		return nil, fmt.Errorf("failed to store reading: %w", err)
	}

	reading.Interpretation = s.interpreter.Interpret(ctx, interpretationData(spread, question, reading.Cards))
	if err := s.tarotRepo.SetInterpretation(ctx, reading.ID, reading.Interpretation); err != nil {
		// The reading and the debit stand; the stored row just keeps an
		// empty interpretation.
		log.Printf("[readings] Failed to store interpretation for reading %d: %v", reading.ID, err)
	}

	return &ReadingResult{Reading: reading, Outcome: outcome, Profile: profile}, nil
}

// interpretationData maps a stored reading onto the prompt input.
func interpretationData(spread *models.SpreadType, question string, cards []models.ReadingCard) ai.InterpretationData {
	data := ai.InterpretationData{
		Question:   question,
		SpreadName: spread.Name,
	}
	for _, c := range cards {
		orientation := "upright"
		if c.Reversed {
			orientation = "reversed"
		}
		data.Cards = append(data.Cards, ai.CardLine{
			Position:     c.Position,
			PositionName: tarot.PositionName(spread.Tier, c.Position),
			CardName:     c.CardName,
			Orientation:  orientation,
			Meaning:      c.Meaning(),
		})
	}
	return data
}

// ListReadings returns the user's reading history, newest first.
func (s *ReadingService) ListReadings(ctx context.Context, userID string, limit int) ([]models.Reading, error) {
	return s.tarotRepo.ListReadings(ctx, userID, limit)
}

// GetReading returns one of the user's readings with its cards.
func (s *ReadingService) GetReading(ctx context.Context, userID string, id int64) (*models.Reading, error) {
	return s.tarotRepo.GetReading(ctx, userID, id)
}

// ListSpreadTypes returns the spread catalog, cached briefly since it only
// changes on reseed.
func (s *ReadingService) ListSpreadTypes(ctx context.Context) ([]models.SpreadType, error) {
	cacheKey := cache.GenerateCacheKey("tarot:spreads")

	var spreads []models.SpreadType
	if s.cache != nil && s.cache.GetJSON(ctx, cacheKey, &spreads) {
		return spreads, nil
	}

	spreads, err := s.tarotRepo.ListSpreadTypes(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetJSON(ctx, cacheKey, spreads, s.cacheTTL)
	}
	return spreads, nil
}

// ListCards returns the card catalog.
func (s *ReadingService) ListCards(ctx context.Context) ([]models.Card, error) {
	return s.listCards(ctx)
}

func (s *ReadingService) listCards(ctx context.Context) ([]models.Card, error) {
	cacheKey := cache.GenerateCacheKey("tarot:cards")

	var cards []models.Card
	if s.cache != nil && s.cache.GetJSON(ctx, cacheKey, &cards) {
		return cards, nil
	}

	cards, err := s.tarotRepo.ListCards(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetJSON(ctx, cacheKey, cards, s.cacheTTL)
	}
	return cards, nil
}

// GetCard returns a single card.
func (s *ReadingService) GetCard(ctx context.Context, id int64) (*models.Card, error) {
	return s.tarotRepo.GetCard(ctx, id)
}

// CatalogPolicy builds the entitlement policy from the stored spread catalog.
func (s *ReadingService) CatalogPolicy(ctx context.Context) (*entitlement.Policy, error) {
	spreads, err := s.ListSpreadTypes(ctx)
	if err != nil {
		return nil, err
	}
	return entitlement.CatalogPolicy(spreads), nil
}
