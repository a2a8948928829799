package inbound

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/model"
)

// --- Request/Response Types ---

// CreatePostingInput represents a request to open a recruitment posting.
type CreatePostingInput struct {
	EventID        *uuid.UUID `json:"event_id"`
	Title          string     `json:"title" binding:"required,min=1,max=120"`
	Content        string     `json:"content" binding:"max=2000"`
	RequiredSkills []string   `json:"required_skills" binding:"max=20,dive,min=1,max=50"`
	MaxTeamSize    int        `json:"max_team_size" binding:"omitempty,min=2,max=50"`
}

// ApplyInput represents a request to join a posting.
type ApplyInput struct {
	Message string `json:"message" binding:"max=1000"`
}

// RejectInput represents a rejection decision.
type RejectInput struct {
	Reason string `json:"reason" binding:"max=100"`
	Note   string `json:"note" binding:"max=1000"`
}

// PostingOutput represents a posting in API responses.
// State is always computed at read time.
type PostingOutput struct {
	ID                 uuid.UUID           `json:"id"`
	AuthorID           uuid.UUID           `json:"author_id"`
	EventID            *uuid.UUID          `json:"event_id,omitempty"`
	Title              string              `json:"title"`
	Content            string              `json:"content,omitempty"`
	RequiredSkills     []string            `json:"required_skills"`
	MaxTeamSize        int                 `json:"max_team_size"`
	ConfirmedMemberIDs []uuid.UUID         `json:"confirmed_member_ids"`
	LinkedPodID        *uuid.UUID          `json:"linked_pod_id,omitempty"`
	Status             model.PostingStatus `json:"status"`
	State              string              `json:"state"`
	CreatedAt          time.Time           `json:"created_at"`
	ReviewClosesAt     time.Time           `json:"review_closes_at"`
	ExpiresAt          time.Time           `json:"expires_at"`
}

// AvailabilityOutput represents an availability answer.
type AvailabilityOutput struct {
	EventID   *uuid.UUID `json:"event_id,omitempty"`
	UserID    uuid.UUID  `json:"user_id"`
	Available bool       `json:"available"`
}

// ReconcileReport summarises one reconciliation pass.
type ReconcileReport struct {
	Scanned      int         `json:"scanned"`
	Skipped      int         `json:"skipped"`
	Materialized int         `json:"materialized"`
	Repaired     int         `json:"repaired"`
	Deleted      int         `json:"deleted"`
	Retained     int         `json:"retained"`
	Failed       int         `json:"failed"`
	Closed       int64       `json:"closed"`
	Events       []uuid.UUID `json:"events,omitempty"`
}

// CleanupReport summarises one long-stop cleanup pass.
type CleanupReport struct {
	Scanned  int `json:"scanned"`
	Deleted  int `json:"deleted"`
	Retained int `json:"retained"`
	Failed   int `json:"failed"`
}

// --- Domain Interface ---

// RecruitmentDomain defines the recruitment domain service interface.
type RecruitmentDomain interface {
	// Posting operations
	CreatePosting(ctx context.Context, authorID uuid.UUID, input *CreatePostingInput) (*PostingOutput, error)
	GetPosting(ctx context.Context, postingID uuid.UUID) (*PostingOutput, error)
	ListEventPostings(ctx context.Context, eventID uuid.UUID) ([]*PostingOutput, error)
	DeletePosting(ctx context.Context, postingID, actingUserID uuid.UUID) error

	// Application workflow
	Apply(ctx context.Context, postingID, applicantID uuid.UUID, message string) (*model.RecruitmentApplication, error)
	Accept(ctx context.Context, postingID, applicationID, actingUserID uuid.UUID) (*model.RecruitmentApplication, error)
	Reject(ctx context.Context, postingID, applicationID, actingUserID uuid.UUID, reason, note string) (*model.RecruitmentApplication, error)
	ListPostingApplications(ctx context.Context, postingID, actingUserID uuid.UUID) ([]*model.RecruitmentApplication, error)
	ListMyApplications(ctx context.Context, applicantID uuid.UUID, limit, offset int) ([]*model.RecruitmentApplication, error)

	// Availability
	IsAvailable(ctx context.Context, eventID, userID uuid.UUID) (bool, error)

	// Pod operations
	GetPod(ctx context.Context, podID uuid.UUID) (*model.Pod, error)
	DeletePod(ctx context.Context, podID, actingUserID uuid.UUID) error

	// Background passes
	Reconcile(ctx context.Context) (*ReconcileReport, error)
	CleanupExpired(ctx context.Context) (*CleanupReport, error)
}

// --- HTTP Port Interfaces ---

// PostingHttpPort defines posting HTTP handlers.
type PostingHttpPort interface {
	CreatePosting(c *gin.Context)
	GetPosting(c *gin.Context)
	ListEventPostings(c *gin.Context)
	DeletePosting(c *gin.Context)
	GetAvailability(c *gin.Context)
}

// ApplicationHttpPort defines application workflow HTTP handlers.
type ApplicationHttpPort interface {
	Apply(c *gin.Context)
	Accept(c *gin.Context)
	Reject(c *gin.Context)
	ListPostingApplications(c *gin.Context)
	ListMyApplications(c *gin.Context)
}

// PodHttpPort defines pod HTTP handlers.
type PodHttpPort interface {
	GetPod(c *gin.Context)
	DeletePod(c *gin.Context)
}

// RecruitmentHttpPort combines all recruitment HTTP handlers.
type RecruitmentHttpPort interface {
	PostingHttpPort
	ApplicationHttpPort
	PodHttpPort
}
