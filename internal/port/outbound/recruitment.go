package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/model"
)

// PostingDatabasePort defines recruitment posting persistence operations.
type PostingDatabasePort interface {
	// Create creates a new posting.
	Create(ctx context.Context, posting *model.RecruitmentPosting) error

	// FindByID retrieves a posting by ID.
	FindByID(ctx context.Context, id uuid.UUID) (*model.RecruitmentPosting, error)

	// FindByIDForUpdate retrieves a posting and locks it until the surrounding
	// transaction ends. Outside a transaction it behaves like FindByID.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.RecruitmentPosting, error)

	// FindByEvent lists postings for an event created after the given time.
	FindByEvent(ctx context.Context, eventID uuid.UUID, createdAfter time.Time) ([]*model.RecruitmentPosting, error)

	// FindCreatedBefore lists postings created strictly before the threshold, oldest first.
	FindCreatedBefore(ctx context.Context, threshold time.Time, limit int) ([]*model.RecruitmentPosting, error)

	// FindByLinkedPod lists postings linked to a pod.
	FindByLinkedPod(ctx context.Context, podID uuid.UUID) ([]*model.RecruitmentPosting, error)

	// ExistsConfirmedMember reports whether the user is confirmed on any posting
	// for the event, ignoring the excluded posting when one is given.
	ExistsConfirmedMember(ctx context.Context, eventID, userID uuid.UUID, excludePostingID *uuid.UUID) (bool, error)

	// AddConfirmedMember appends the user to the confirmed-member list if absent.
	AddConfirmedMember(ctx context.Context, postingID, userID uuid.UUID) error

	// SetLinkedPod writes the pod link if it is still unset.
	// Returns ErrConflict if the posting is linked to a different pod.
	SetLinkedPod(ctx context.Context, postingID, podID uuid.UUID) error

	// CloseStale flips the advisory status to closed for open postings created before the threshold.
	CloseStale(ctx context.Context, threshold time.Time) (int64, error)

	// Delete deletes a posting.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ApplicationDecision describes a status transition out of pending.
type ApplicationDecision struct {
	Status    model.ApplicationStatus
	Reason    string
	Note      string
	DecidedAt time.Time
}

// ApplicationDatabasePort defines recruitment application persistence operations.
type ApplicationDatabasePort interface {
	// Create creates a new application.
	// Returns ErrDuplicate when a non-rejected application already exists for the pair.
	Create(ctx context.Context, application *model.RecruitmentApplication) error

	// FindByID retrieves an application by ID.
	FindByID(ctx context.Context, id uuid.UUID) (*model.RecruitmentApplication, error)

	// FindOpenByApplicant retrieves the non-rejected application of a user for a posting.
	FindOpenByApplicant(ctx context.Context, postingID, applicantID uuid.UUID) (*model.RecruitmentApplication, error)

	// FindByPosting lists applications for a posting.
	FindByPosting(ctx context.Context, postingID uuid.UUID) ([]*model.RecruitmentApplication, error)

	// FindByApplicant lists applications submitted by a user.
	FindByApplicant(ctx context.Context, applicantID uuid.UUID, limit, offset int) ([]*model.RecruitmentApplication, error)

	// FindAcceptedApplicants lists the applicants accepted onto a posting.
	FindAcceptedApplicants(ctx context.Context, postingID uuid.UUID) ([]uuid.UUID, error)

	// CountByPosting counts all applications for a posting, whatever their status.
	CountByPosting(ctx context.Context, postingID uuid.UUID) (int64, error)

	// Decide moves a pending application to the decided status.
	// Returns ErrConflict if the application is no longer pending.
	Decide(ctx context.Context, id uuid.UUID, decision ApplicationDecision) error

	// DeleteByPosting deletes all applications for a posting.
	DeleteByPosting(ctx context.Context, postingID uuid.UUID) error
}

// PodDatabasePort defines pod persistence operations.
type PodDatabasePort interface {
	// Create creates a new pod.
	Create(ctx context.Context, pod *model.Pod) error

	// FindByID retrieves a pod by ID.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pod, error)

	// FindByLinkedPosting retrieves the pod materialized from a posting.
	FindByLinkedPosting(ctx context.Context, postingID uuid.UUID) (*model.Pod, error)

	// ExistsMember reports whether the user belongs to any active pod for the event.
	ExistsMember(ctx context.Context, eventID, userID uuid.UUID) (bool, error)

	// Delete deletes a pod.
	Delete(ctx context.Context, id uuid.UUID) error
}

// PodMessageDatabasePort defines the chat cleanup needed when a pod goes away.
type PodMessageDatabasePort interface {
	// DeleteByPod deletes all messages scoped to a pod.
	DeleteByPod(ctx context.Context, podID uuid.UUID) (int64, error)
}

// RecruitmentTransactionPort defines transaction support for recruitment.
type RecruitmentTransactionPort interface {
	// RunInTransaction executes the given function within a transaction.
	// Nested calls join the outer transaction.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// LockKey takes a lock on key that is held until the surrounding
	// transaction ends. Outside a transaction it is a no-op.
	LockKey(ctx context.Context, key string) error
}

// Notification is a user-facing notification payload.
type Notification struct {
	Type    string         `json:"type"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	RefType string         `json:"ref_type,omitempty"`
	RefID   uuid.UUID      `json:"ref_id"`
	Data    map[string]any `json:"data,omitempty"`
}

// NotificationPort delivers notifications to users.
type NotificationPort interface {
	// Notify sends a notification to a user. Delivery is best effort.
	Notify(ctx context.Context, userID uuid.UUID, notification *Notification) error
}

// EventStatsPort refreshes statistics for a campus event.
type EventStatsPort interface {
	// RefreshEventStats asks the statistics service to recompute an event's numbers.
	RefreshEventStats(ctx context.Context, eventID uuid.UUID) error
}
