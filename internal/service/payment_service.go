package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stripe/stripe-go/v79"

	"github.com/tarotnautica/backend/internal/database"
	"github.com/tarotnautica/backend/internal/entitlement"
	"github.com/tarotnautica/backend/internal/models"
	"github.com/tarotnautica/backend/internal/payments"
	"github.com/tarotnautica/backend/internal/repository"
)

// ErrOrderNotCompleted is returned when a provider reports an order that is
// not in a completed state.
var ErrOrderNotCompleted = errors.New("order is not completed")

// GemPack describes the single purchasable gem pack.
type GemPack struct {
	PriceCents int64
	Gems       int
	Currency   string
}

// PaymentService coordinates payment providers with the ledger: it records
// provider objects, and turns confirmed payment events into ledger credits
// exactly once.
type PaymentService struct {
	db          *database.DB
	paymentRepo *repository.PaymentRepository
	profiles    *repository.ProfileRepository
	ledger      *entitlement.Service
	stripe      *payments.StripeGateway
	paypal      *payments.PayPalClient
	pack        GemPack
}

// NewPaymentService creates a new payment service
func NewPaymentService(db *database.DB, paymentRepo *repository.PaymentRepository, profiles *repository.ProfileRepository, ledger *entitlement.Service, stripeGW *payments.StripeGateway, paypal *payments.PayPalClient, pack GemPack) *PaymentService {
	if pack.Currency == "" {
		pack.Currency = "usd"
	}
	return &PaymentService{
		db:          db,
		paymentRepo: paymentRepo,
		profiles:    profiles,
		ledger:      ledger,
		stripe:      stripeGW,
		paypal:      paypal,
		pack:        pack,
	}
}

// Pack returns the configured gem pack.
func (s *PaymentService) Pack() GemPack {
	return s.pack
}

// ensureStripeCustomer returns the user's Stripe customer ID, creating the
// customer on first use.
func (s *PaymentService) ensureStripeCustomer(ctx context.Context, userID, email string) (string, error) {
	customerID, err := s.paymentRepo.GetStripeCustomerID(ctx, userID)
	if err == nil {
		return customerID, nil
	}
	if !errors.Is(err, repository.ErrPaymentNotFound) {
		return "", err
	}

	customerID, err = s.stripe.CreateCustomer(email, userID)
	if err != nil {
		return "", err
	}
	if err := s.paymentRepo.SaveStripeCustomerID(ctx, userID, customerID); err != nil {
		return "", err
	}
	return customerID, nil
}

// StripeIntentResult is what the frontend needs to confirm a payment.
type StripeIntentResult struct {
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
	AmountCents     int64  `json:"amount_cents"`
	Gems            int    `json:"gems"`
}

// CreateStripeGemIntent creates a payment intent for one gem pack and records
// it as pending.
func (s *PaymentService) CreateStripeGemIntent(ctx context.Context, userID, email string) (*StripeIntentResult, error) {
	customerID, err := s.ensureStripeCustomer(ctx, userID, email)
	if err != nil {
		return nil, err
	}

	intentID, clientSecret, err := s.stripe.CreatePaymentIntent(customerID, s.pack.PriceCents, models.PaymentTypeGems, userID)
	if err != nil {
		return nil, err
	}

	payment := &models.StripePayment{
		ID:              uuid.New().String(),
		UserID:          userID,
		PaymentIntentID: intentID,
		AmountCents:     s.pack.PriceCents,
		Currency:        s.pack.Currency,
		Status:          models.PaymentPending,
		PaymentType:     models.PaymentTypeGems,
		GemsAmount:      s.pack.Gems,
	}
	if err := s.paymentRepo.CreateStripePayment(ctx, payment); err != nil {
		return nil, err
	}

	return &StripeIntentResult{
		PaymentIntentID: intentID,
		ClientSecret:    clientSecret,
		AmountCents:     s.pack.PriceCents,
		Gems:            s.pack.Gems,
	}, nil
}

// StripeSubscriptionResult is returned on subscription creation.
type StripeSubscriptionResult struct {
	SubscriptionID string `json:"subscription_id"`
	ClientSecret   string `json:"client_secret,omitempty"`
	Status         string `json:"status"`
}

// CreateStripeSubscription starts an incomplete subscription; it becomes
// active when the invoice.paid webhook arrives.
func (s *PaymentService) CreateStripeSubscription(ctx context.Context, userID, email string) (*StripeSubscriptionResult, error) {
	customerID, err := s.ensureStripeCustomer(ctx, userID, email)
	if err != nil {
		return nil, err
	}

	sub, err := s.stripe.CreateSubscription(customerID, userID)
	if err != nil {
		return nil, err
	}

	record := &models.StripeSubscription{
		UserID:         userID,
		SubscriptionID: sub.ID,
		Status:         models.SubscriptionPending,
	}
	if sub.CurrentPeriodEnd > 0 {
		record.CurrentPeriodEnd = time.Unix(sub.CurrentPeriodEnd, 0)
	}
	if err := s.paymentRepo.UpsertStripeSubscription(ctx, record); err != nil {
		return nil, err
	}

	result := &StripeSubscriptionResult{
		SubscriptionID: sub.ID,
		Status:         string(sub.Status),
	}
	if sub.LatestInvoice != nil && sub.LatestInvoice.PaymentIntent != nil {
		result.ClientSecret = sub.LatestInvoice.PaymentIntent.ClientSecret
	}
	return result, nil
}

// CancelStripeSubscription flags the user's subscription to end at period
// close. The ledger flag stays on until the deletion webhook arrives.
func (s *PaymentService) CancelStripeSubscription(ctx context.Context, userID string) error {
	record, err := s.paymentRepo.GetActiveStripeSubscription(ctx, userID)
	if err != nil {
		return err
	}

	if _, err := s.stripe.CancelAtPeriodEnd(record.SubscriptionID); err != nil {
		return err
	}

	return s.paymentRepo.SetStripeSubscriptionStatus(ctx, record.SubscriptionID, record.Status, true)
}

// HandleStripeWebhook verifies and dispatches a Stripe event. Unhandled event
// types are acknowledged without action.
func (s *PaymentService) HandleStripeWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.stripe.VerifyWebhook(payload, signature)
	if err != nil {
		return err
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return fmt.Errorf("failed to parse payment intent event: %w", err)
		}
		return s.ApplyStripePaymentSucceeded(ctx, intent.ID)

	case "invoice.paid":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return fmt.Errorf("failed to parse invoice event: %w", err)
		}
		if invoice.Subscription == nil {
			return nil
		}
		return s.applyStripeSubscriptionPaid(ctx, invoice.Subscription.ID, time.Unix(invoice.PeriodEnd, 0))

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("failed to parse subscription event: %w", err)
		}
		return s.applyStripeSubscriptionDeleted(ctx, sub.ID)

	default:
		log.Printf("[payments] Ignoring stripe event type %s", event.Type)
		return nil
	}
}

// ApplyStripePaymentSucceeded marks a pending payment completed and credits
// its gems. The payment row is locked, and the credit only fires on the
// pending-to-completed transition, so webhook replays are no-ops.
func (s *PaymentService) ApplyStripePaymentSucceeded(ctx context.Context, paymentIntentID string) error {
	return s.db.WithTx(ctx, func(tx pgx.Tx) error {
		payment, err := s.paymentRepo.GetStripePaymentForUpdate(ctx, tx, paymentIntentID)
		if err != nil {
			if errors.Is(err, repository.ErrPaymentNotFound) {
				log.Printf("[payments] Stripe intent %s has no payment record", paymentIntentID)
				return nil
			}
			return err
		}
		if payment.Status != models.PaymentPending {
			return nil
		}

		if err := s.paymentRepo.SetStripePaymentStatusTx(ctx, tx, payment.ID, models.PaymentCompleted); err != nil {
			return err
		}
		if payment.PaymentType != models.PaymentTypeGems || payment.GemsAmount <= 0 {
			return nil
		}
		return s.creditTx(ctx, tx, payment.UserID, payment.GemsAmount)
	})
}

// applyStripeSubscriptionPaid activates the subscription record and flips the
// ledger through the single activation transition, so repeated invoices never
// stack bonuses.
func (s *PaymentService) applyStripeSubscriptionPaid(ctx context.Context, subscriptionID string, periodEnd time.Time) error {
	record, err := s.paymentRepo.GetStripeSubscriptionBySubID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			log.Printf("[payments] Stripe subscription %s has no record", subscriptionID)
			return nil
		}
		return err
	}

	record.Status = models.SubscriptionActive
	record.CurrentPeriodEnd = periodEnd
	if err := s.paymentRepo.UpsertStripeSubscription(ctx, record); err != nil {
		return err
	}

	_, granted, err := s.ledger.ActivateSubscription(ctx, record.UserID)
	if err != nil {
		return err
	}
	if granted {
		log.Printf("[payments] Subscription %s activated for user %s", subscriptionID, record.UserID)
	}
	return nil
}

// applyStripeSubscriptionDeleted marks the record canceled and clears the
// ledger flag.
func (s *PaymentService) applyStripeSubscriptionDeleted(ctx context.Context, subscriptionID string) error {
	record, err := s.paymentRepo.GetStripeSubscriptionBySubID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return nil
		}
		return err
	}

	if err := s.paymentRepo.SetStripeSubscriptionStatus(ctx, subscriptionID, models.SubscriptionCanceled, false); err != nil {
		return err
	}

	_, err = s.ledger.CancelSubscription(ctx, record.UserID)
	return err
}

// creditTx credits gems inside an existing transaction, locking the profile
// row.
func (s *PaymentService) creditTx(ctx context.Context, tx pgx.Tx, userID string, gems int) error {
	profile, err := s.profiles.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return err
	}
	if err := entitlement.Credit(profile, gems); err != nil {
		return err
	}
	return s.profiles.SaveTx(ctx, tx, profile)
}

// PayPalOrderResult is returned on order creation.
type PayPalOrderResult struct {
	OrderID     string `json:"order_id"`
	Status      string `json:"status"`
	AmountCents int64  `json:"amount_cents"`
	Gems        int    `json:"gems"`
}

// CreatePayPalOrder creates a PayPal order for one gem pack and records it as
// pending.
func (s *PaymentService) CreatePayPalOrder(ctx context.Context, userID string) (*PayPalOrderResult, error) {
	order, err := s.paypal.CreateOrder(ctx, s.pack.PriceCents, "USD", s.pack.Gems)
	if err != nil {
		return nil, err
	}

	record := &models.PayPalOrder{
		ID:          uuid.New().String(),
		UserID:      userID,
		OrderID:     order.ID,
		AmountCents: s.pack.PriceCents,
		Currency:    s.pack.Currency,
		GemsAmount:  s.pack.Gems,
		Status:      models.PaymentPending,
	}
	if err := s.paymentRepo.CreatePayPalOrder(ctx, record); err != nil {
		return nil, err
	}

	return &PayPalOrderResult{
		OrderID:     order.ID,
		Status:      order.Status,
		AmountCents: s.pack.PriceCents,
		Gems:        s.pack.Gems,
	}, nil
}

// CapturePayPalOrder captures an approved order and credits its gems once.
// Repeat captures of the same order do not credit again.
func (s *PaymentService) CapturePayPalOrder(ctx context.Context, userID, orderID string) (*models.Profile, error) {
	order, err := s.paypal.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != "COMPLETED" {
		return nil, ErrOrderNotCompleted
	}

	err = s.db.WithTx(ctx, func(tx pgx.Tx) error {
		record, err := s.paymentRepo.GetPayPalOrderForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if record.UserID != userID {
			return repository.ErrPaymentNotFound
		}
		if record.Status != models.PaymentPending {
			return nil
		}

		if err := s.paymentRepo.SetPayPalOrderStatusTx(ctx, tx, record.ID, models.PaymentCompleted); err != nil {
			return err
		}
		return s.creditTx(ctx, tx, record.UserID, record.GemsAmount)
	})
	if err != nil {
		return nil, err
	}

	return s.profiles.Get(ctx, userID)
}

// PayPalSubscriptionResult is returned on subscription creation.
type PayPalSubscriptionResult struct {
	SubscriptionID string `json:"subscription_id"`
	Status         string `json:"status"`
	ApproveURL     string `json:"approve_url,omitempty"`
}

// CreatePayPalSubscription creates a billing subscription the user still has
// to approve.
func (s *PaymentService) CreatePayPalSubscription(ctx context.Context, userID, email string) (*PayPalSubscriptionResult, error) {
	sub, err := s.paypal.CreateSubscription(ctx, email)
	if err != nil {
		return nil, err
	}

	record := &models.PayPalSubscription{
		UserID:         userID,
		SubscriptionID: sub.ID,
		Status:         models.SubscriptionPending,
	}
	if err := s.paymentRepo.UpsertPayPalSubscription(ctx, record); err != nil {
		return nil, err
	}

	return &PayPalSubscriptionResult{
		SubscriptionID: sub.ID,
		Status:         sub.Status,
		ApproveURL:     sub.ApproveURL(),
	}, nil
}

// ownedPayPalSubscription loads a subscription record and verifies it belongs
// to the user. A record owned by someone else reads as not found, so
// subscription IDs cannot be used to probe or flip other accounts.
func (s *PaymentService) ownedPayPalSubscription(ctx context.Context, userID, subscriptionID string) (*models.PayPalSubscription, error) {
	record, err := s.paymentRepo.GetPayPalSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	return requireSubscriptionOwner(record, userID)
}

func requireSubscriptionOwner(record *models.PayPalSubscription, userID string) (*models.PayPalSubscription, error) {
	if record.UserID != userID {
		return nil, repository.ErrSubscriptionNotFound
	}
	return record, nil
}

// ActivatePayPalSubscription confirms an approved subscription and flips the
// ledger through the activation transition.
func (s *PaymentService) ActivatePayPalSubscription(ctx context.Context, userID, subscriptionID string) (*models.Profile, error) {
	if _, err := s.ownedPayPalSubscription(ctx, userID, subscriptionID); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.SetPayPalSubscriptionStatus(ctx, subscriptionID, models.SubscriptionActive); err != nil {
		return nil, err
	}

	profile, _, err := s.ledger.ActivateSubscription(ctx, userID)
	return profile, err
}

// CancelPayPalSubscription cancels the provider subscription and clears the
// ledger flag.
func (s *PaymentService) CancelPayPalSubscription(ctx context.Context, userID, subscriptionID string) (*models.Profile, error) {
	if _, err := s.ownedPayPalSubscription(ctx, userID, subscriptionID); err != nil {
		return nil, err
	}
	if err := s.paypal.CancelSubscription(ctx, subscriptionID); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.SetPayPalSubscriptionStatus(ctx, subscriptionID, models.SubscriptionCanceled); err != nil {
		return nil, err
	}

	return s.ledger.CancelSubscription(ctx, userID)
}
