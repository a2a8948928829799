package recruitment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IsAvailable reports whether the user is free to join a new team for the event.
// A nil event means no event scoping, so the user is always available.
func (d *Domain) IsAvailable(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	return d.isAvailable(ctx, eventID, userID, nil)
}

// isAvailable checks pods scoped to the event first, then the confirmed lists
// of postings for the same event except excludePostingID.
func (d *Domain) isAvailable(ctx context.Context, eventID, userID uuid.UUID, excludePostingID *uuid.UUID) (bool, error) {
	if eventID == uuid.Nil {
		return true, nil
	}

	inPod, err := d.podDB.ExistsMember(ctx, eventID, userID)
	if err != nil {
		return false, fmt.Errorf("check pod membership: %w", err)
	}
	if inPod {
		return false, nil
	}

	confirmed, err := d.postingDB.ExistsConfirmedMember(ctx, eventID, userID, excludePostingID)
	if err != nil {
		return false, fmt.Errorf("check confirmed postings: %w", err)
	}
	if confirmed {
		return false, nil
	}

	return true, nil
}

// requireAvailable returns ErrDoubleBooking if the user is taken for the event.
func (d *Domain) requireAvailable(ctx context.Context, eventID, userID uuid.UUID, excludePostingID *uuid.UUID) error {
	ok, err := d.isAvailable(ctx, eventID, userID, excludePostingID)
	if err != nil {
		return err
	}
	if !ok {
		d.logger.Debug("double booking refused",
			zap.String("event_id", eventID.String()),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("%w: event %s", ErrDoubleBooking, eventID)
	}
	return nil
}

// memberLockKey names the transaction lock that serializes acceptances of one
// user within one event across different postings.
func memberLockKey(eventID, userID uuid.UUID) string {
	return "recruitment:member:" + eventID.String() + ":" + userID.String()
}
