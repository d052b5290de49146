package matching

import (
	"math"
	"time"

	"bloodlink/pkg/types"
)

const day = 24 * time.Hour

// Clock returns the current time. Handlers hold one so tests can pin "now".
type Clock func() time.Time

// Eligibility works out whether a donor whose last donation was lastDonation may
// donate again at now. A nil lastDonation means the donor never donated.
// Non-positive cooldownDays fall back to the default cooldown.
func Eligibility(lastDonation *time.Time, cooldownDays int, now time.Time) types.EligibilityResult {
	if lastDonation == nil {
		return types.EligibilityResult{IsEligible: true}
	}

	if cooldownDays <= 0 {
		cooldownDays = types.DefaultEligibilityDays
	}

	daysSince := DaysSince(*lastDonation, now)
	if daysSince >= cooldownDays {
		return types.EligibilityResult{IsEligible: true}
	}

	remaining := max(0, cooldownDays-daysSince)
	next := lastDonation.Add(time.Duration(cooldownDays) * day)

	return types.EligibilityResult{
		IsEligible:       false,
		DaysRemaining:    &remaining,
		NextEligibleDate: &next,
	}
}

// DaysSince counts whole days from then to now, rounding down. A then in the
// future gives a negative count.
func DaysSince(then, now time.Time) int {
	return int(math.Floor(now.Sub(then).Hours() / 24))
}
