package recruitment

import "time"

// LifecycleState is the authoritative state of a posting, derived from its age.
type LifecycleState string

const (
	StateActive       LifecycleState = "active"
	StateReviewClosed LifecycleState = "review_closed"
	StateExpired      LifecycleState = "expired"
)

const (
	// ReviewWindowStart is the age at which new applications stop.
	ReviewWindowStart = 20 * time.Hour

	// ExpiryAge is the age at which a posting becomes subject to reconciliation.
	ExpiryAge = 24 * time.Hour
)

// ComputeState maps a posting's age to its lifecycle state.
// It is pure: the cached status column on the posting is never consulted.
func ComputeState(createdAt, now time.Time) LifecycleState {
	age := now.Sub(createdAt)
	switch {
	case age < ReviewWindowStart:
		return StateActive
	case age < ExpiryAge:
		return StateReviewClosed
	default:
		return StateExpired
	}
}

// AcceptsApplications reports whether new applications may be submitted.
func (s LifecycleState) AcceptsApplications() bool {
	return s == StateActive
}

// ExpiryThreshold returns the creation time before which postings are expired.
func ExpiryThreshold(now time.Time) time.Time {
	return now.Add(-ExpiryAge)
}

// ActiveThreshold returns the creation time after which postings are still active.
func ActiveThreshold(now time.Time) time.Time {
	return now.Add(-ReviewWindowStart)
}
