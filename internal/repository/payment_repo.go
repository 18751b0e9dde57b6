package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tarotnautica/backend/internal/database"
	"github.com/tarotnautica/backend/internal/models"
)

var (
	// ErrPaymentNotFound is returned when a payment record does not exist.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrSubscriptionNotFound is returned when a subscription record does not exist.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

// PaymentRepository handles provider payment and subscription records.
type PaymentRepository struct {
	db *database.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *database.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// GetStripeCustomerID returns the stored Stripe customer ID for a user, or
// empty string when none exists yet.
func (r *PaymentRepository) GetStripeCustomerID(ctx context.Context, userID string) (string, error) {
	var id string
	err := r.db.QueryRow(ctx, `
		SELECT customer_id FROM stripe_customers WHERE user_id = $1
	`, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get stripe customer: %w", err)
	}
	return id, nil
}

// SaveStripeCustomerID stores the Stripe customer ID for a user.
func (r *PaymentRepository) SaveStripeCustomerID(ctx context.Context, userID, customerID string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO stripe_customers (user_id, customer_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET customer_id = EXCLUDED.customer_id
	`, userID, customerID)
	if err != nil {
		return fmt.Errorf("failed to save stripe customer: %w", err)
	}
	return nil
}

// CreateStripePayment records a pending payment intent.
func (r *PaymentRepository) CreateStripePayment(ctx context.Context, p *models.StripePayment) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = models.PaymentPending
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO stripe_payments (id, user_id, payment_intent_id, amount_cents, currency, status, payment_type, gems_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, p.ID, p.UserID, p.PaymentIntentID, p.AmountCents, p.Currency, p.Status,
		p.PaymentType, p.GemsAmount, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create stripe payment: %w", err)
	}
	return nil
}

// GetStripePaymentForUpdate loads a payment by intent ID inside tx with a row
// lock, so a webhook replay cannot race a concurrent completion.
func (r *PaymentRepository) GetStripePaymentForUpdate(ctx context.Context, tx pgx.Tx, paymentIntentID string) (*models.StripePayment, error) {
	var p models.StripePayment
	err := tx.QueryRow(ctx, `
		SELECT id, user_id, payment_intent_id, amount_cents, currency, status, payment_type, gems_amount, created_at, updated_at
		FROM stripe_payments
		WHERE payment_intent_id = $1
		FOR UPDATE
	`, paymentIntentID).Scan(&p.ID, &p.UserID, &p.PaymentIntentID, &p.AmountCents,
		&p.Currency, &p.Status, &p.PaymentType, &p.GemsAmount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get stripe payment: %w", err)
	}
	return &p, nil
}

// SetStripePaymentStatusTx updates a payment's status inside tx.
func (r *PaymentRepository) SetStripePaymentStatusTx(ctx context.Context, tx pgx.Tx, id, status string) error {
	_, err := tx.Exec(ctx, `
		UPDATE stripe_payments SET status = $2, updated_at = now() WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update stripe payment: %w", err)
	}
	return nil
}

// UpsertStripeSubscription stores or updates a user's Stripe subscription.
func (r *PaymentRepository) UpsertStripeSubscription(ctx context.Context, s *models.StripeSubscription) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO stripe_subscriptions (user_id, subscription_id, status, current_period_end, cancel_at_period_end)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET subscription_id = EXCLUDED.subscription_id,
		    status = EXCLUDED.status,
		    current_period_end = EXCLUDED.current_period_end,
		    cancel_at_period_end = EXCLUDED.cancel_at_period_end,
		    updated_at = now()
	`, s.UserID, s.SubscriptionID, s.Status, s.CurrentPeriodEnd, s.CancelAtEnd)
	if err != nil {
		return fmt.Errorf("failed to upsert stripe subscription: %w", err)
	}
	return nil
}

// GetStripeSubscriptionBySubID finds the subscription record for a provider
// subscription ID.
func (r *PaymentRepository) GetStripeSubscriptionBySubID(ctx context.Context, subscriptionID string) (*models.StripeSubscription, error) {
	var s models.StripeSubscription
	err := r.db.QueryRow(ctx, `
		SELECT user_id, subscription_id, status, current_period_end, cancel_at_period_end, created_at, updated_at
		FROM stripe_subscriptions
		WHERE subscription_id = $1
	`, subscriptionID).Scan(&s.UserID, &s.SubscriptionID, &s.Status,
		&s.CurrentPeriodEnd, &s.CancelAtEnd, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get stripe subscription: %w", err)
	}
	return &s, nil
}

// GetActiveStripeSubscription returns the user's active subscription record.
func (r *PaymentRepository) GetActiveStripeSubscription(ctx context.Context, userID string) (*models.StripeSubscription, error) {
	var s models.StripeSubscription
	err := r.db.QueryRow(ctx, `
		SELECT user_id, subscription_id, status, current_period_end, cancel_at_period_end, created_at, updated_at
		FROM stripe_subscriptions
		WHERE user_id = $1 AND status = $2
	`, userID, models.SubscriptionActive).Scan(&s.UserID, &s.SubscriptionID, &s.Status,
		&s.CurrentPeriodEnd, &s.CancelAtEnd, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get stripe subscription: %w", err)
	}
	return &s, nil
}

// SetStripeSubscriptionStatus updates status and cancel flag by subscription ID.
func (r *PaymentRepository) SetStripeSubscriptionStatus(ctx context.Context, subscriptionID, status string, cancelAtEnd bool) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE stripe_subscriptions
		SET status = $2, cancel_at_period_end = $3, updated_at = now()
		WHERE subscription_id = $1
	`, subscriptionID, status, cancelAtEnd)
	if err != nil {
		return fmt.Errorf("failed to update stripe subscription: %w", err)
	}
	if tag == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

// CreatePayPalOrder records a PayPal checkout order.
func (r *PaymentRepository) CreatePayPalOrder(ctx context.Context, o *models.PayPalOrder) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now
	if o.Status == "" {
		o.Status = models.PaymentPending
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO paypal_orders (id, user_id, order_id, amount_cents, currency, gems_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, o.ID, o.UserID, o.OrderID, o.AmountCents, o.Currency, o.GemsAmount,
		o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create paypal order: %w", err)
	}
	return nil
}

// GetPayPalOrderForUpdate loads an order by provider order ID inside tx with
// a row lock.
func (r *PaymentRepository) GetPayPalOrderForUpdate(ctx context.Context, tx pgx.Tx, orderID string) (*models.PayPalOrder, error) {
	var o models.PayPalOrder
	err := tx.QueryRow(ctx, `
		SELECT id, user_id, order_id, amount_cents, currency, gems_amount, status, created_at, updated_at
		FROM paypal_orders
		WHERE order_id = $1
		FOR UPDATE
	`, orderID).Scan(&o.ID, &o.UserID, &o.OrderID, &o.AmountCents, &o.Currency,
		&o.GemsAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get paypal order: %w", err)
	}
	return &o, nil
}

// SetPayPalOrderStatusTx updates an order's status inside tx.
func (r *PaymentRepository) SetPayPalOrderStatusTx(ctx context.Context, tx pgx.Tx, id, status string) error {
	_, err := tx.Exec(ctx, `
		UPDATE paypal_orders SET status = $2, updated_at = now() WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update paypal order: %w", err)
	}
	return nil
}

// UpsertPayPalSubscription stores or updates a PayPal subscription record.
func (r *PaymentRepository) UpsertPayPalSubscription(ctx context.Context, s *models.PayPalSubscription) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO paypal_subscriptions (user_id, subscription_id, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (subscription_id) DO UPDATE
		SET status = EXCLUDED.status, updated_at = now()
	`, s.UserID, s.SubscriptionID, s.Status)
	if err != nil {
		return fmt.Errorf("failed to upsert paypal subscription: %w", err)
	}
	return nil
}

// GetPayPalSubscription returns a subscription record by its provider ID.
func (r *PaymentRepository) GetPayPalSubscription(ctx context.Context, subscriptionID string) (*models.PayPalSubscription, error) {
	var s models.PayPalSubscription
	err := r.db.QueryRow(ctx, `
		SELECT user_id, subscription_id, status, created_at, updated_at
		FROM paypal_subscriptions
		WHERE subscription_id = $1
	`, subscriptionID).Scan(&s.UserID, &s.SubscriptionID, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get paypal subscription: %w", err)
	}
	return &s, nil
}

// SetPayPalSubscriptionStatus updates a subscription's status.
func (r *PaymentRepository) SetPayPalSubscriptionStatus(ctx context.Context, subscriptionID, status string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE paypal_subscriptions SET status = $2, updated_at = now() WHERE subscription_id = $1
	`, subscriptionID, status)
	if err != nil {
		return fmt.Errorf("failed to update paypal subscription: %w", err)
	}
	if tag == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}
