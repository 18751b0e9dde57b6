package payments

import (
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

// StripeGateway wraps the Stripe SDK behind an explicit client so the API
// key never lives in package-level state.
type StripeGateway struct {
	api           *client.API
	priceID       string
	webhookSecret string
}

// StripeConfig configures the Stripe gateway.
type StripeConfig struct {
	SecretKey           string
	SubscriptionPriceID string
	WebhookSecret       string
}

// NewStripeGateway creates a Stripe gateway.
func NewStripeGateway(cfg StripeConfig) *StripeGateway {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &StripeGateway{
		api:           api,
		priceID:       cfg.SubscriptionPriceID,
		webhookSecret: cfg.WebhookSecret,
	}
}

// CreateCustomer creates a Stripe customer for a user.
func (g *StripeGateway) CreateCustomer(email, userID string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	params.AddMetadata("user_id", userID)

	cust, err := g.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create stripe customer: %w", err)
	}
	return cust.ID, nil
}

// CreatePaymentIntent creates a payment intent and returns its ID and client
// secret.
func (g *StripeGateway) CreatePaymentIntent(customerID string, amountCents int64, paymentType, userID string) (string, string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		Customer: stripe.String(customerID),
	}
	params.AddMetadata("payment_type", paymentType)
	params.AddMetadata("user_id", userID)

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", "", fmt.Errorf("failed to create payment intent: %w", err)
	}
	return intent.ID, intent.ClientSecret, nil
}

// CreateSubscription creates an incomplete subscription on the configured
// price and returns the subscription.
func (g *StripeGateway) CreateSubscription(customerID, userID string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionParams{
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(g.priceID)},
		},
		PaymentBehavior: stripe.String("default_incomplete"),
	}
	params.AddExpand("latest_invoice.payment_intent")
	params.AddMetadata("user_id", userID)

	sub, err := g.api.Subscriptions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create stripe subscription: %w", err)
	}
	return sub, nil
}

// CancelAtPeriodEnd flags a subscription to end at the current period close.
func (g *StripeGateway) CancelAtPeriodEnd(subscriptionID string) (*stripe.Subscription, error) {
	sub, err := g.api.Subscriptions.Update(subscriptionID, &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to cancel stripe subscription: %w", err)
	}
	return sub, nil
}

// VerifyWebhook checks the webhook signature and parses the event.
func (g *StripeGateway) VerifyWebhook(payload []byte, signature string) (stripe.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return stripe.Event{}, fmt.Errorf("webhook signature verification failed: %w", err)
	}
	return event, nil
}
