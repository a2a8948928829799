package recruitment

import (
	"context"
	"errors"
)

// Domain errors for the recruitment module.
var (
	ErrInvalidRequest = errors.New("invalid request")

	// Lookup errors
	ErrPostingNotFound     = errors.New("posting not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrPodNotFound         = errors.New("pod not found")

	// Application workflow errors
	ErrSelfApplication      = errors.New("cannot apply to your own posting")
	ErrPostingClosed        = errors.New("posting is not accepting applications")
	ErrDuplicateApplication = errors.New("application already exists for this posting")
	ErrAlreadyMember        = errors.New("user is already a confirmed member")
	ErrNotAuthorized        = errors.New("not authorized")
	ErrAlreadyProcessed     = errors.New("application has already been processed")
	ErrCapacityExceeded     = errors.New("team is already full")
	ErrDoubleBooking        = errors.New("user is already on a team for this event")

	// Materialization errors
	ErrAlreadyMaterialized = errors.New("posting has already been materialized")
	ErrLinkConflict        = errors.New("posting is linked to a different pod")
)

// Error kinds exposed to API callers.
const (
	KindInvalidRequest       = "invalid_request"
	KindNotFound             = "not_found"
	KindSelfApplication      = "self_application"
	KindPostingClosed        = "posting_closed"
	KindDuplicateApplication = "duplicate_application"
	KindAlreadyMember        = "already_member"
	KindNotAuthorized        = "not_authorized"
	KindAlreadyProcessed     = "already_processed"
	KindCapacityExceeded     = "capacity_exceeded"
	KindDoubleBooking        = "double_booking"
	KindConflict             = "conflict"
	KindTimeout              = "timeout"
	KindInternal             = "internal"
)

var kinds = []struct {
	err  error
	kind string
}{
	{ErrInvalidRequest, KindInvalidRequest},
	{ErrPostingNotFound, KindNotFound},
	{ErrApplicationNotFound, KindNotFound},
	{ErrPodNotFound, KindNotFound},
	{ErrSelfApplication, KindSelfApplication},
	{ErrPostingClosed, KindPostingClosed},
	{ErrDuplicateApplication, KindDuplicateApplication},
	{ErrAlreadyMember, KindAlreadyMember},
	{ErrNotAuthorized, KindNotAuthorized},
	{ErrAlreadyProcessed, KindAlreadyProcessed},
	{ErrCapacityExceeded, KindCapacityExceeded},
	{ErrDoubleBooking, KindDoubleBooking},
	{ErrAlreadyMaterialized, KindConflict},
	{ErrLinkConflict, KindConflict},
}

// Kind returns the machine-readable kind of err.
// Anything that is not a business refusal is reported as internal.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindInternal
}

// IsBusinessError reports whether err is a rule refusal rather than a
// storage or transport failure. Business errors are never retried.
func IsBusinessError(err error) bool {
	switch Kind(err) {
	case "", KindInternal, KindTimeout:
		return false
	default:
		return true
	}
}
