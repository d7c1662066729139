package rules

import "time"

// TierExpiries carries the five independent expiry axes of a profile. Any
// combination can be active at once: gold, featured and verified photos are
// separate purchases, not levels of one enum.
type TierExpiries struct {
	Gold           *time.Time
	Silver         *time.Time
	Featured       *time.Time
	VerifiedPhotos *time.Time
	Public         *time.Time
}

type TierStatus struct {
	IsPublic         bool `json:"is_public"`
	IsGold           bool `json:"is_gold"`
	IsSilver         bool `json:"is_silver"`
	IsFeatured       bool `json:"is_featured"`
	IsVerifiedPhotos bool `json:"is_verified_photos"`
}

// EvaluateTiers derives tier flags from stored expiries at the given instant.
// An axis is active iff its expiry is set and strictly after now; a timestamp
// equal to now counts as expired. The result must never be persisted: tiers
// lapse by wall clock alone, with no job to turn them off.
func EvaluateTiers(e TierExpiries, now time.Time) TierStatus {
	return TierStatus{
		IsPublic:         tierActive(e.Public, now),
		IsGold:           tierActive(e.Gold, now),
		IsSilver:         tierActive(e.Silver, now),
		IsFeatured:       tierActive(e.Featured, now),
		IsVerifiedPhotos: tierActive(e.VerifiedPhotos, now),
	}
}

func tierActive(expiry *time.Time, now time.Time) bool {
	return expiry != nil && expiry.After(now)
}
