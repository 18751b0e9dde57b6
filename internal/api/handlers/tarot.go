package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tarotnautica/backend/internal/api/request"
	"github.com/tarotnautica/backend/internal/auth"
	"github.com/tarotnautica/backend/internal/entitlement"
	"github.com/tarotnautica/backend/internal/repository"
	"github.com/tarotnautica/backend/internal/service"
)

// TarotHandler serves the card catalog, the spread catalog and readings.
type TarotHandler struct {
	readings *service.ReadingService
}

// NewTarotHandler creates a new tarot handler
func NewTarotHandler(readings *service.ReadingService) *TarotHandler {
	return &TarotHandler{readings: readings}
}

// ListCards handles GET /api/v1/cards
func (h *TarotHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.readings.ListCards(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "Failed to list cards")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"cards": cards,
		"count": len(cards),
	})
}

// GetCard handles GET /api/v1/cards/{id}
func (h *TarotHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetURLParamInt(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid card ID")
		return
	}

	card, err := h.readings.GetCard(r.Context(), id)
	if err != nil {
		if err == repository.ErrCardNotFound {
			writeError(w, http.StatusNotFound, "not_found", "Card not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", "Failed to load card")
		return
	}

	writeJSON(w, http.StatusOK, card)
}

// ListSpreadTypes handles GET /api/v1/spreads
func (h *TarotHandler) ListSpreadTypes(w http.ResponseWriter, r *http.Request) {
	spreads, err := h.readings.ListSpreadTypes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "Failed to list spreads")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"spreads": spreads,
		"count":   len(spreads),
	})
}

// CreateReadingRequest asks for a reading of one spread type.
type CreateReadingRequest struct {
	SpreadTypeID int64  `json:"spread_type_id"`
	Question     string `json:"question"`
}

// CreateReading handles POST /api/v1/readings
func (h *TarotHandler) CreateReading(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())

	var req CreateReadingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	req.Question = strings.TrimSpace(req.Question)

	result, err := h.readings.CreateReading(r.Context(), userID, req.SpreadTypeID, req.Question)
	if err != nil {
		switch err {
		case repository.ErrSpreadTypeNotFound:
			writeError(w, http.StatusNotFound, "not_found", "Spread type not found")
		case entitlement.ErrInsufficientGems:
			resp := map[string]interface{}{
				"error":   "insufficient_gems",
				"message": "No free readings left and not enough gems",
			}
			if result != nil && result.Profile != nil {
				resp["gems"] = result.Profile.Gems
			}
			writeJSON(w, http.StatusPaymentRequired, resp)
		case entitlement.ErrUnknownTier:
			writeError(w, http.StatusBadRequest, "unknown_tier", "Spread has an unknown tier")
		default:
			writeError(w, http.StatusInternalServerError, "server_error", "Failed to create reading")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"reading":      result.Reading,
		"reason":       string(result.Outcome.Reason),
		"gems_charged": result.Outcome.GemsCharged,
		"gems":         result.Profile.Gems,
	})
}

// ListReadings handles GET /api/v1/readings
func (h *TarotHandler) ListReadings(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())
	limit := request.GetQueryIntWithRange(r, "limit", 50, 1, 100)

	readings, err := h.readings.ListReadings(r.Context(), userID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "Failed to list readings")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"readings": readings,
		"count":    len(readings),
	})
}

// GetReading handles GET /api/v1/readings/{id}
func (h *TarotHandler) GetReading(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())

	id, err := request.GetURLParamInt(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid reading ID")
		return
	}

	reading, err := h.readings.GetReading(r.Context(), userID, id)
	if err != nil {
		if err == repository.ErrReadingNotFound {
			writeError(w, http.StatusNotFound, "not_found", "Reading not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", "Failed to load reading")
		return
	}

	writeJSON(w, http.StatusOK, reading)
}
