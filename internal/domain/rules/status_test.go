package rules

import (
	"testing"
	"time"
)

func TestEvaluateTiersStrictInequality(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	future := now.Add(time.Second)
	exact := now
	past := now.Add(-time.Second)

	status := EvaluateTiers(TierExpiries{Gold: &future, Silver: &exact, Featured: &past}, now)

	if !status.IsGold {
		t.Fatalf("expiry after now must be active")
	}
	if status.IsSilver {
		t.Fatalf("expiry equal to now must count as expired")
	}
	if status.IsFeatured {
		t.Fatalf("expiry before now must be inactive")
	}
	if status.IsPublic || status.IsVerifiedPhotos {
		t.Fatalf("nil expiries must yield false, got %+v", status)
	}
}

func TestEvaluateTiersAxesAreIndependent(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)

	status := EvaluateTiers(TierExpiries{
		Gold:           &future,
		Featured:       &future,
		VerifiedPhotos: &future,
		Public:         &future,
	}, now)

	if !status.IsGold || !status.IsFeatured || !status.IsVerifiedPhotos || !status.IsPublic {
		t.Fatalf("stacked tiers must all be active, got %+v", status)
	}
	if status.IsSilver {
		t.Fatalf("silver was never purchased, got %+v", status)
	}
}

func TestEvaluateTiersMonotonicExpiry(t *testing.T) {
	expiry := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	before := expiry.Add(-time.Hour)
	after := expiry.Add(time.Hour)

	e := TierExpiries{Gold: &expiry}
	if !EvaluateTiers(e, before).IsGold {
		t.Fatalf("gold must be active before its expiry")
	}
	if EvaluateTiers(e, after).IsGold {
		t.Fatalf("gold must stay inactive after its expiry without a new write")
	}
}
