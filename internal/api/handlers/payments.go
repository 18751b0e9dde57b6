package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/tarotnautica/backend/internal/api/request"
	"github.com/tarotnautica/backend/internal/auth"
	"github.com/tarotnautica/backend/internal/repository"
	"github.com/tarotnautica/backend/internal/service"
)

// Stripe caps webhook payloads at 64KB; anything bigger is not a real event.
const maxWebhookBody = 65536

// PaymentHandler exposes the Stripe and PayPal flows.
type PaymentHandler struct {
	payments *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// userIdentity pulls the user ID and email from the request claims.
func userIdentity(r *http.Request) (string, string) {
	claims := auth.GetClaims(r.Context())
	if claims == nil {
		return "", ""
	}
	return claims.UserID, claims.Email
}

// CreateStripeIntent handles POST /api/v1/payments/stripe/intent
func (h *PaymentHandler) CreateStripeIntent(w http.ResponseWriter, r *http.Request) {
	userID, email := userIdentity(r)

	result, err := h.payments.CreateStripeGemIntent(r.Context(), userID, email)
	if err != nil {
		log.Printf("[payments] Failed to create stripe intent for user %s: %v", userID, err)
		writeError(w, http.StatusBadGateway, "provider_error", "Failed to start payment")
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// CreateStripeSubscription handles POST /api/v1/payments/stripe/subscription
func (h *PaymentHandler) CreateStripeSubscription(w http.ResponseWriter, r *http.Request) {
	userID, email := userIdentity(r)

	result, err := h.payments.CreateStripeSubscription(r.Context(), userID, email)
	if err != nil {
		log.Printf("[payments] Failed to create stripe subscription for user %s: %v", userID, err)
		writeError(w, http.StatusBadGateway, "provider_error", "Failed to start subscription")
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// CancelStripeSubscription handles POST /api/v1/payments/stripe/subscription/cancel
func (h *PaymentHandler) CancelStripeSubscription(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIdentity(r)

	if err := h.payments.CancelStripeSubscription(r.Context(), userID); err != nil {
		if err == repository.ErrSubscriptionNotFound {
			writeError(w, http.StatusNotFound, "not_found", "No active subscription")
			return
		}
		log.Printf("[payments] Failed to cancel stripe subscription for user %s: %v", userID, err)
		writeError(w, http.StatusBadGateway, "provider_error", "Failed to cancel subscription")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "cancel_scheduled",
	})
}

// StripeWebhook handles POST /api/v1/webhooks/stripe
func (h *PaymentHandler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Failed to read payload")
		return
	}

	if err := h.payments.HandleStripeWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		log.Printf("[payments] Stripe webhook rejected: %v", err)
		writeError(w, http.StatusBadRequest, "webhook_error", "Webhook rejected")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"received": "true"})
}

// CreatePayPalOrder handles POST /api/v1/payments/paypal/order
func (h *PaymentHandler) CreatePayPalOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIdentity(r)

	result, err := h.payments.CreatePayPalOrder(r.Context(), userID)
	if err != nil {
		log.Printf("[payments] Failed to create paypal order for user %s: %v", userID, err)
		writeError(w, http.StatusBadGateway, "provider_error", "Failed to create order")
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// CapturePayPalOrder handles POST /api/v1/payments/paypal/order/{orderID}/capture
func (h *PaymentHandler) CapturePayPalOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIdentity(r)

	orderID := request.GetURLParam(r, "orderID")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "Order ID required")
		return
	}

	profile, err := h.payments.CapturePayPalOrder(r.Context(), userID, orderID)
	if err != nil {
		switch err {
		case repository.ErrPaymentNotFound:
			writeError(w, http.StatusNotFound, "not_found", "Order not found")
		case service.ErrOrderNotCompleted:
			writeError(w, http.StatusConflict, "order_incomplete", "Order was not completed")
		default:
			log.Printf("[payments] Failed to capture paypal order %s: %v", orderID, err)
			writeError(w, http.StatusBadGateway, "provider_error", "Failed to capture order")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "completed",
		"gems":   profile.Gems,
	})
}

// CreatePayPalSubscription handles POST /api/v1/payments/paypal/subscription
func (h *PaymentHandler) CreatePayPalSubscription(w http.ResponseWriter, r *http.Request) {
	userID, email := userIdentity(r)

	result, err := h.payments.CreatePayPalSubscription(r.Context(), userID, email)
	if err != nil {
		log.Printf("[payments] Failed to create paypal subscription for user %s: %v", userID, err)
		writeError(w, http.StatusBadGateway, "provider_error", "Failed to start subscription")
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// PayPalSubscriptionRequest names a provider subscription.
type PayPalSubscriptionRequest struct {
	SubscriptionID string `json:"subscription_id"`
}

// ActivatePayPalSubscription handles POST /api/v1/payments/paypal/subscription/activate
func (h *PaymentHandler) ActivatePayPalSubscription(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIdentity(r)

	var req PayPalSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SubscriptionID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "Subscription ID required")
		return
	}

	profile, err := h.payments.ActivatePayPalSubscription(r.Context(), userID, req.SubscriptionID)
	if err != nil {
		if err == repository.ErrSubscriptionNotFound {
			writeError(w, http.StatusNotFound, "not_found", "Subscription not found")
			return
		}
		log.Printf("[payments] Failed to activate paypal subscription %s: %v", req.SubscriptionID, err)
		writeError(w, http.StatusInternalServerError, "server_error", "Failed to activate subscription")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"subscribed": profile.Subscribed,
		"gems":       profile.Gems,
	})
}

// CancelPayPalSubscription handles POST /api/v1/payments/paypal/subscription/cancel
func (h *PaymentHandler) CancelPayPalSubscription(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIdentity(r)

	var req PayPalSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SubscriptionID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "Subscription ID required")
		return
	}

	profile, err := h.payments.CancelPayPalSubscription(r.Context(), userID, req.SubscriptionID)
	if err != nil {
		log.Printf("[payments] Failed to cancel paypal subscription %s: %v", req.SubscriptionID, err)
		writeError(w, http.StatusBadGateway, "provider_error", "Failed to cancel subscription")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"subscribed": profile.Subscribed,
	})
}
