package handlers

import (
	"net/http"

	"github.com/tarotnautica/backend/internal/api/request"
	"github.com/tarotnautica/backend/internal/auth"
	"github.com/tarotnautica/backend/internal/entitlement"
	"github.com/tarotnautica/backend/internal/models"
	"github.com/tarotnautica/backend/internal/repository"
)

// CatalogHandler serves the spell and potion catalog and purchases against
// the ledger.
type CatalogHandler struct {
	catalogRepo *repository.CatalogRepository
	ledger      *entitlement.Service
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogRepo *repository.CatalogRepository, ledger *entitlement.Service) *CatalogHandler {
	return &CatalogHandler{
		catalogRepo: catalogRepo,
		ledger:      ledger,
	}
}

// listItems lists active items of one kind, optionally filtered by category
func (h *CatalogHandler) listItems(w http.ResponseWriter, r *http.Request, kind string) {
	category := request.GetQueryString(r, "category", "")
	if category != "" && !models.IsValidCategory(category) {
		writeError(w, http.StatusBadRequest, "invalid_category", "Unknown category")
		return
	}

	items, err := h.catalogRepo.ListItems(r.Context(), kind, category)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "Failed to list items")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

// ListSpells handles GET /api/v1/spells
func (h *CatalogHandler) ListSpells(w http.ResponseWriter, r *http.Request) {
	h.listItems(w, r, models.KindSpell)
}

// ListPotions handles GET /api/v1/potions
func (h *CatalogHandler) ListPotions(w http.ResponseWriter, r *http.Request) {
	h.listItems(w, r, models.KindPotion)
}

// purchase buys one item of the given kind for the authenticated user
func (h *CatalogHandler) purchase(w http.ResponseWriter, r *http.Request, kind string) {
	userID := auth.GetUserID(r.Context())

	itemID, err := request.GetURLParamInt(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid item ID")
		return
	}

	item, err := h.catalogRepo.GetActiveItem(r.Context(), kind, itemID)
	if err != nil {
		if err == repository.ErrItemNotFound {
			writeError(w, http.StatusNotFound, "not_found", "Item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", "Failed to load item")
		return
	}

	profile, err := h.ledger.PurchaseItem(r.Context(), userID, item)
	if err != nil {
		switch err {
		case entitlement.ErrAlreadyOwned:
			writeError(w, http.StatusConflict, "already_owned", "You already own this item")
		case entitlement.ErrSubscriptionRequired:
			writeError(w, http.StatusForbidden, "subscription_required", "Potions require an active subscription")
		case entitlement.ErrInsufficientGems:
			writeError(w, http.StatusPaymentRequired, "insufficient_gems", "Not enough gems")
		default:
			writeError(w, http.StatusInternalServerError, "server_error", "Failed to complete purchase")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"item_id": item.ID,
		"title":   item.Title,
		"charged": item.PriceGems,
		"gems":    profile.Gems,
	})
}

// PurchaseSpell handles POST /api/v1/spells/{id}/purchase
func (h *CatalogHandler) PurchaseSpell(w http.ResponseWriter, r *http.Request) {
	h.purchase(w, r, models.KindSpell)
}

// PurchasePotion handles POST /api/v1/potions/{id}/purchase
func (h *CatalogHandler) PurchasePotion(w http.ResponseWriter, r *http.Request) {
	h.purchase(w, r, models.KindPotion)
}

// listOwned lists the IDs of items the user has unlocked
func (h *CatalogHandler) listOwned(w http.ResponseWriter, r *http.Request, kind string) {
	userID := auth.GetUserID(r.Context())

	ids, err := h.catalogRepo.ListOwnedIDs(r.Context(), userID, kind)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "Failed to list owned items")
		return
	}
	if ids == nil {
		ids = []int64{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"owned": ids,
	})
}

// OwnedSpells handles GET /api/v1/spells/owned
func (h *CatalogHandler) OwnedSpells(w http.ResponseWriter, r *http.Request) {
	h.listOwned(w, r, models.KindSpell)
}

// OwnedPotions handles GET /api/v1/potions/owned
func (h *CatalogHandler) OwnedPotions(w http.ResponseWriter, r *http.Request) {
	h.listOwned(w, r, models.KindPotion)
}
