package ratelimit

import "testing"

func TestLimitsWithAuthenticatedPerMinute(t *testing.T) {
	t.Run("override applies to authenticated plan only", func(t *testing.T) {
		limits := LimitsWithAuthenticatedPerMinute(250)

		if got := limits[PlanAuthenticated].RequestsPerMinute; got != 250 {
			t.Fatalf("authenticated per-minute = %d, want 250", got)
		}
		if limits[PlanAuthenticated].RequestsPerDay != DefaultLimits[PlanAuthenticated].RequestsPerDay {
			t.Fatal("per-day allowance should keep the default")
		}
		if limits[PlanAnonymous] != DefaultLimits[PlanAnonymous] {
			t.Fatal("anonymous plan should keep the default")
		}
	})

	t.Run("non-positive keeps defaults", func(t *testing.T) {
		for _, v := range []int{0, -5} {
			limits := LimitsWithAuthenticatedPerMinute(v)
			if limits[PlanAuthenticated] != DefaultLimits[PlanAuthenticated] {
				t.Fatalf("override %d should keep the default, got %+v", v, limits[PlanAuthenticated])
			}
		}
	})

	t.Run("defaults map is not mutated", func(t *testing.T) {
		before := DefaultLimits[PlanAuthenticated]
		_ = LimitsWithAuthenticatedPerMinute(999)
		if DefaultLimits[PlanAuthenticated] != before {
			t.Fatal("DefaultLimits mutated by override")
		}
	})
}

func TestGetLimitForPlan(t *testing.T) {
	limiter := NewRateLimiterWithLimits(nil, LimitsWithAuthenticatedPerMinute(42))

	if got := limiter.GetLimitForPlan(PlanAuthenticated).RequestsPerMinute; got != 42 {
		t.Fatalf("authenticated limit = %d, want 42", got)
	}
	if got := limiter.GetLimitForPlan("unknown"); got != DefaultLimits[PlanAnonymous] {
		t.Fatalf("unknown plan limit = %+v, want anonymous default", got)
	}
}
