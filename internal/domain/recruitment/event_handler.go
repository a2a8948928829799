package recruitment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/infra/events"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/port/outbound"
)

// BroadcastTopic is the channel real-time gateways subscribe to.
const BroadcastTopic = "recruitment:events"

// Notification types.
const (
	NotifyApplicationReceived = "RECRUITMENT_APPLICATION_RECEIVED"
	NotifyApplicationAccepted = "RECRUITMENT_APPLICATION_ACCEPTED"
	NotifyApplicationRejected = "RECRUITMENT_APPLICATION_REJECTED"
	NotifyPodCreated          = "POD_CREATED"
	NotifyRecruitmentEnded    = "RECRUITMENT_ENDED"
	NotifyPodDeleted          = "POD_DELETED"
)

// EventHandler turns recruitment events into user notifications and
// broadcasts for real-time clients.
type EventHandler struct {
	notifier    outbound.NotificationPort
	broadcaster outbound.BroadcastPort
	logger      *zap.Logger
}

// NewEventHandler creates a new recruitment event handler.
func NewEventHandler(notifier outbound.NotificationPort, broadcaster outbound.BroadcastPort, logger *zap.Logger) *EventHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventHandler{
		notifier:    notifier,
		broadcaster: broadcaster,
		logger:      logger.Named("recruitment.events"),
	}
}

// Handles returns the list of event types this handler can process.
func (h *EventHandler) Handles() []string {
	return []string{
		events.ApplicationSubmittedType,
		events.ApplicationAcceptedType,
		events.ApplicationRejectedType,
		events.PodMaterializedType,
		events.PostingExpiredType,
		events.PodDeletedType,
	}
}

// Handle notifies the users an event concerns, then broadcasts it.
// A notification failure does not prevent the broadcast.
func (h *EventHandler) Handle(ctx context.Context, event events.Event) error {
	var notifyErr error
	switch e := event.(type) {
	case *events.ApplicationSubmittedEvent:
		notifyErr = h.notify(ctx, e.AuthorID, &outbound.Notification{
			Type:    NotifyApplicationReceived,
			Title:   "New application",
			Message: fmt.Sprintf("Someone applied to join %q.", e.PostingTitle),
			RefType: "posting",
			RefID:   e.PostingID,
			Data: map[string]any{
				"application_id": e.ApplicationID.String(),
				"applicant_id":   e.ApplicantID.String(),
			},
		})
	case *events.ApplicationAcceptedEvent:
		notifyErr = h.notify(ctx, e.ApplicantID, &outbound.Notification{
			Type:    NotifyApplicationAccepted,
			Title:   "Application accepted",
			Message: fmt.Sprintf("You have been accepted onto %q.", e.PostingTitle),
			RefType: "posting",
			RefID:   e.PostingID,
			Data:    map[string]any{"application_id": e.ApplicationID.String()},
		})
	case *events.ApplicationRejectedEvent:
		notifyErr = h.notify(ctx, e.ApplicantID, &outbound.Notification{
			Type:    NotifyApplicationRejected,
			Title:   "Application declined",
			Message: fmt.Sprintf("Your application to %q was declined.", e.PostingTitle),
			RefType: "posting",
			RefID:   e.PostingID,
			Data: map[string]any{
				"application_id": e.ApplicationID.String(),
				"reason":         e.Reason,
				"note":           e.Note,
			},
		})
	case *events.PodMaterializedEvent:
		notifyErr = h.notifyAll(ctx, e.MemberIDs, &outbound.Notification{
			Type:    NotifyPodCreated,
			Title:   "Your team is ready",
			Message: fmt.Sprintf("Pod %q has been created.", e.PodName),
			RefType: "pod",
			RefID:   e.PodID,
		})
	case *events.PostingExpiredEvent:
		if e.Outcome == events.OutcomeNoApplications || e.Outcome == events.OutcomeRecruitmentFailed {
			notifyErr = h.notify(ctx, e.AuthorID, &outbound.Notification{
				Type:    NotifyRecruitmentEnded,
				Title:   "Recruitment ended",
				Message: fmt.Sprintf("%q closed without forming a team.", e.PostingTitle),
				RefType: "posting",
				RefID:   e.PostingID,
				Data:    map[string]any{"outcome": e.Outcome},
			})
		}
	case *events.PodDeletedEvent:
		notifyErr = h.notifyAll(ctx, e.MemberIDs, &outbound.Notification{
			Type:    NotifyPodDeleted,
			Title:   "Pod deleted",
			Message: fmt.Sprintf("Pod %q has been deleted.", e.PodName),
			RefType: "pod",
			RefID:   e.PodID,
		})
	default:
		h.logger.Warn("unhandled event type",
			zap.String("event_type", event.EventType()),
		)
		return nil
	}

	broadcastErr := h.broadcast(ctx, event)
	if notifyErr != nil {
		return notifyErr
	}
	return broadcastErr
}

func (h *EventHandler) notify(ctx context.Context, userID uuid.UUID, n *outbound.Notification) error {
	if h.notifier == nil {
		return nil
	}
	if err := h.notifier.Notify(ctx, userID, n); err != nil {
		return fmt.Errorf("notify %s: %w", userID, err)
	}
	return nil
}

// notifyAll notifies every user and returns the first failure.
func (h *EventHandler) notifyAll(ctx context.Context, userIDs []uuid.UUID, n *outbound.Notification) error {
	var first error
	for _, id := range userIDs {
		if err := h.notify(ctx, id, n); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (h *EventHandler) broadcast(ctx context.Context, event events.Event) error {
	if h.broadcaster == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", event.EventType(), err)
	}
	if err := h.broadcaster.Broadcast(ctx, BroadcastTopic, payload); err != nil {
		return fmt.Errorf("broadcast %s: %w", event.EventType(), err)
	}
	return nil
}
