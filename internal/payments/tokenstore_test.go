package payments

import (
	"testing"
	"time"
)

func TestMemoryTokenStore(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryTokenStore()
	store.now = func() time.Time { return now }

	t.Run("empty store has no token", func(t *testing.T) {
		if _, ok := store.Get(); ok {
			t.Fatal("empty store should return no token")
		}
	})

	t.Run("valid token is returned", func(t *testing.T) {
		store.Set("tok-1", 10*time.Minute)
		token, ok := store.Get()
		if !ok || token != "tok-1" {
			t.Fatalf("Get = (%q, %v), want (tok-1, true)", token, ok)
		}
	})

	t.Run("token expires with margin", func(t *testing.T) {
		store.Set("tok-2", 10*time.Minute)
		// The margin trims one minute: at 9m30s the token is already stale.
		now = now.Add(9*time.Minute + 30*time.Second)
		if _, ok := store.Get(); ok {
			t.Fatal("token should be treated as expired before provider expiry")
		}
	})

	t.Run("short lifetime kept as-is", func(t *testing.T) {
		store.Set("tok-3", 30*time.Second)
		token, ok := store.Get()
		if !ok || token != "tok-3" {
			t.Fatalf("Get = (%q, %v), want (tok-3, true)", token, ok)
		}
		now = now.Add(31 * time.Second)
		if _, ok := store.Get(); ok {
			t.Fatal("token should expire after its short lifetime")
		}
	})
}
