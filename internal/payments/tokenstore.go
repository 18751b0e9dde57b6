package payments

import (
	"sync"
	"time"
)

// TokenStore caches a provider OAuth access token with an explicit expiry.
// It is injected into the PayPal client so token caching is never hidden
// module state.
type TokenStore interface {
	// Get returns the cached token and whether it is still valid.
	Get() (string, bool)
	// Set stores a token valid for the given duration.
	Set(token string, expiresIn time.Duration)
}

// expiryMargin is subtracted from the provider-reported lifetime so a token
// is refreshed before it can expire mid-request.
const expiryMargin = 60 * time.Second

// MemoryTokenStore is a concurrency-safe in-memory TokenStore.
type MemoryTokenStore struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
	now       func() time.Time
}

// NewMemoryTokenStore creates an empty in-memory token store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{now: time.Now}
}

// Get returns the cached token if it has not expired.
func (s *MemoryTokenStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" || s.now().After(s.expiresAt) {
		return "", false
	}
	return s.token, true
}

// Set stores a token, trimming the lifetime by a safety margin.
func (s *MemoryTokenStore) Set(token string, expiresIn time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if expiresIn > expiryMargin {
		expiresIn -= expiryMargin
	}
	s.token = token
	s.expiresAt = s.now().Add(expiresIn)
}
