package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tarotnautica/backend/internal/auth"
	"github.com/tarotnautica/backend/internal/entitlement"
	"github.com/tarotnautica/backend/internal/models"
	"github.com/tarotnautica/backend/internal/repository"
	"github.com/tarotnautica/backend/internal/service"
)

// ProfileHandler handles the ledger-facing profile endpoints: balance,
// subscription flag, usage counters, direct credits / debits.
type ProfileHandler struct {
	profileRepo *repository.ProfileRepository
	ledger      *entitlement.Service
	readings    *service.ReadingService
	legacy      *entitlement.Policy
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileRepo *repository.ProfileRepository, ledger *entitlement.Service, readings *service.ReadingService) *ProfileHandler {
	return &ProfileHandler{
		profileRepo: profileRepo,
		ledger:      ledger,
		readings:    readings,
		legacy:      entitlement.LegacyPolicy(),
	}
}

// TierUsage reports one tier's monthly usage against its free limit.
type TierUsage struct {
	Tier    string `json:"tier"`
	Used    int    `json:"used"`
	Limit   int    `json:"limit"`
	GemCost int    `json:"gem_cost"`
}

// ProfileResponse is the full ledger view for an account.
type ProfileResponse struct {
	Gems       int         `json:"gems"`
	Subscribed bool        `json:"subscribed"`
	ResetDate  time.Time   `json:"reset_date"`
	Usage      []TierUsage `json:"usage"`
}

// GetProfile returns the user's ledger state
// GET /api/v1/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())

	profile, err := h.profileRepo.Get(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "Profile not found")
		return
	}

	policy, err := h.readings.CatalogPolicy(r.Context())
	if err != nil {
		// Fall back to the fixed limits if the catalog is unavailable.
		policy = h.legacy
	}

	writeJSON(w, http.StatusOK, profileResponse(profile, policy))
}

func profileResponse(profile *models.Profile, policy *entitlement.Policy) *ProfileResponse {
	resp := &ProfileResponse{
		Gems:       profile.Gems,
		Subscribed: profile.Subscribed,
		ResetDate:  profile.ResetDate,
	}
	for _, tier := range entitlement.Tiers() {
		rule, err := policy.Rule(tier)
		if err != nil {
			continue
		}
		resp.Usage = append(resp.Usage, TierUsage{
			Tier:    tier.String(),
			Used:    entitlement.UsedFor(profile, tier),
			Limit:   rule.MonthlyFreeLimit,
			GemCost: rule.GemCost,
		})
	}
	return resp
}

// PurchaseGemsRequest is a manual gem credit.
type PurchaseGemsRequest struct {
	Amount int `json:"amount"`
}

// PurchaseGems credits gems to the user's balance
// POST /api/v1/gems/purchase
func (h *ProfileHandler) PurchaseGems(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())

	var req PurchaseGemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	profile, err := h.ledger.Credit(r.Context(), userID, req.Amount)
	if err != nil {
		if err == entitlement.ErrInvalidQuantity {
			writeError(w, http.StatusBadRequest, "invalid_quantity", "Amount must be positive")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", "Failed to credit gems")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"gems":     profile.Gems,
		"credited": req.Amount,
	})
}

// UseReadingRequest debits one reading of a tier without drawing cards.
type UseReadingRequest struct {
	Tier string `json:"tier"`
}

// UseReading authorizes and consumes one reading against the fixed limits
// POST /api/v1/readings/use
func (h *ProfileHandler) UseReading(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())

	var req UseReadingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	tier, err := entitlement.ParseTier(req.Tier)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_tier", "Unknown reading tier")
		return
	}

	rule, err := h.legacy.Rule(tier)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_tier", "Unknown reading tier")
		return
	}

	outcome, profile, err := h.ledger.AuthorizeAndConsume(r.Context(), userID, rule, tier)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "Failed to process reading")
		return
	}

	if !outcome.Allowed {
		writeJSON(w, http.StatusPaymentRequired, map[string]interface{}{
			"error":   "insufficient_gems",
			"message": "No free readings left and not enough gems",
			"gems":    profile.Gems,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"allowed":      true,
		"reason":       string(outcome.Reason),
		"gems_charged": outcome.GemsCharged,
		"gems":         profile.Gems,
	})
}

// ActivateSubscription flips the subscription flag on
// POST /api/v1/subscription/activate
func (h *ProfileHandler) ActivateSubscription(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())

	profile, granted, err := h.ledger.ActivateSubscription(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "Failed to activate subscription")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"subscribed":    profile.Subscribed,
		"bonus_granted": granted,
		"gems":          profile.Gems,
	})
}

// CancelSubscription flips the subscription flag off
// POST /api/v1/subscription/cancel
func (h *ProfileHandler) CancelSubscription(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r.Context())

	profile, err := h.ledger.CancelSubscription(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "Failed to cancel subscription")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"subscribed": profile.Subscribed,
		"gems":       profile.Gems,
	})
}
