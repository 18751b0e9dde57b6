package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestPayPal(t *testing.T, handler http.Handler) (*PayPalClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewPayPalClient(PayPalConfig{
		ClientID: "client-id",
		Secret:   "secret",
		BaseURL:  srv.URL,
	}, NewMemoryTokenStore())
	return client, srv
}

func TestPayPalTokenCached(t *testing.T) {
	var tokenCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "secret" {
			t.Errorf("missing or wrong basic auth: %q %q", user, pass)
		}
		json.NewEncoder(w).Encode(tokenResponse{AccessToken: "tok", ExpiresIn: 3600})
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Order{ID: "ORDER-1", Status: "CREATED"})
	})

	client, _ := newTestPayPal(t, mux)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		order, err := client.CreateOrder(ctx, 999, "USD", 100)
		if err != nil {
			t.Fatalf("CreateOrder error = %v", err)
		}
		if order.ID != "ORDER-1" {
			t.Fatalf("order ID = %q", order.ID)
		}
	}

	if tokenCalls != 1 {
		t.Fatalf("token endpoint called %d times, want 1 (cached)", tokenCalls)
	}
}

func TestPayPalCaptureOrder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(tokenResponse{AccessToken: "tok", ExpiresIn: 3600})
	})
	mux.HandleFunc("/v2/checkout/orders/ORDER-9/capture", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Order{ID: "ORDER-9", Status: "COMPLETED"})
	})

	client, _ := newTestPayPal(t, mux)
	order, err := client.CaptureOrder(context.Background(), "ORDER-9")
	if err != nil {
		t.Fatalf("CaptureOrder error = %v", err)
	}
	if order.Status != "COMPLETED" {
		t.Fatalf("status = %q, want COMPLETED", order.Status)
	}
}

func TestPayPalErrorSurfaces(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(tokenResponse{AccessToken: "tok", ExpiresIn: 3600})
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"name":"INVALID_REQUEST"}`, http.StatusUnprocessableEntity)
	})

	client, _ := newTestPayPal(t, mux)
	if _, err := client.CreateOrder(context.Background(), 999, "USD", 100); err == nil {
		t.Fatal("CreateOrder should surface provider errors")
	}
}

func TestCentsToValue(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{999, "9.99"},
		{100, "1.00"},
		{5, "0.05"},
		{1050, "10.50"},
	}
	for _, tt := range tests {
		if got := centsToValue(tt.cents); got != tt.want {
			t.Errorf("centsToValue(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestSubscriptionApproveURL(t *testing.T) {
	sub := &Subscription{}
	sub.Links = []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	}{
		{Href: "https://paypal.test/self", Rel: "self"},
		{Href: "https://paypal.test/approve", Rel: "approve"},
	}
	if got := sub.ApproveURL(); got != "https://paypal.test/approve" {
		t.Fatalf("ApproveURL = %q", got)
	}
	if got := (&Subscription{}).ApproveURL(); got != "" {
		t.Fatalf("ApproveURL on empty = %q, want empty", got)
	}
}
