package handlers

import (
	"testing"

	"github.com/tarotnautica/backend/internal/entitlement"
	"github.com/tarotnautica/backend/internal/models"
)

func TestProfileResponse(t *testing.T) {
	profile := &models.Profile{
		Gems:        42,
		Subscribed:  true,
		BasicUsed:   3,
		ClarityUsed: 1,
		DeepUsed:    0,
	}

	resp := profileResponse(profile, entitlement.LegacyPolicy())

	if resp.Gems != 42 || !resp.Subscribed {
		t.Errorf("resp = %+v", resp)
	}
	if len(resp.Usage) != 3 {
		t.Fatalf("usage entries = %d, want 3", len(resp.Usage))
	}

	byTier := make(map[string]TierUsage)
	for _, u := range resp.Usage {
		byTier[u.Tier] = u
	}

	if u := byTier["basic"]; u.Used != 3 || u.Limit != 100 || u.GemCost != 1 {
		t.Errorf("basic usage = %+v", u)
	}
	if u := byTier["clarity"]; u.Used != 1 || u.Limit != 50 || u.GemCost != 2 {
		t.Errorf("clarity usage = %+v", u)
	}
	if u := byTier["deep"]; u.Used != 0 || u.Limit != 30 || u.GemCost != 7 {
		t.Errorf("deep usage = %+v", u)
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"luz@example.com", true},
		{"a.b+c@sub.example.org", true},
		{"not-an-email", false},
		{"@example.com", false},
		{"user@", false},
	}
	for _, tt := range tests {
		if got := isValidEmail(tt.email); got != tt.want {
			t.Errorf("isValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}
