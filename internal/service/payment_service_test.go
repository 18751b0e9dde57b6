package service

import (
	"errors"
	"testing"

	"github.com/tarotnautica/backend/internal/models"
	"github.com/tarotnautica/backend/internal/repository"
)

func TestRequireSubscriptionOwner(t *testing.T) {
	record := &models.PayPalSubscription{
		UserID:         "user-1",
		SubscriptionID: "I-ABC123",
		Status:         models.SubscriptionPending,
	}

	t.Run("owner gets the record", func(t *testing.T) {
		got, err := requireSubscriptionOwner(record, "user-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != record {
			t.Fatal("expected the same record back")
		}
	})

	t.Run("another user reads as not found", func(t *testing.T) {
		_, err := requireSubscriptionOwner(record, "user-2")
		if !errors.Is(err, repository.ErrSubscriptionNotFound) {
			t.Fatalf("error = %v, want ErrSubscriptionNotFound", err)
		}
	})
}

func TestNewPaymentServiceDefaultsCurrency(t *testing.T) {
	svc := NewPaymentService(nil, nil, nil, nil, nil, nil, GemPack{PriceCents: 499, Gems: 100})
	if svc.Pack().Currency != "usd" {
		t.Fatalf("currency = %q, want usd", svc.Pack().Currency)
	}

	svc = NewPaymentService(nil, nil, nil, nil, nil, nil, GemPack{PriceCents: 499, Gems: 100, Currency: "eur"})
	if svc.Pack().Currency != "eur" {
		t.Fatalf("currency = %q, want eur", svc.Pack().Currency)
	}
}
