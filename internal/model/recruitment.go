package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostingStatus is the advisory display status of a posting.
// Authoritative state is always recomputed from the posting's age.
type PostingStatus string

const (
	PostingStatusOpen   PostingStatus = "open"
	PostingStatusClosed PostingStatus = "closed"
)

// ApplicationStatus represents the status of an application.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// IsValid checks if the status is a valid application status.
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	default:
		return false
	}
}

// PodStatus represents the status of a pod.
type PodStatus string

const (
	PodStatusActive   PodStatus = "active"
	PodStatusArchived PodStatus = "archived"
)

// RecruitmentPosting is an open call for teammates.
type RecruitmentPosting struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AuthorID       uuid.UUID      `json:"author_id" gorm:"type:uuid;not null;index"`
	EventID        *uuid.UUID     `json:"event_id,omitempty" gorm:"type:uuid;index:idx_postings_event_created"`
	Title          string         `json:"title" gorm:"not null"`
	Content        string         `json:"content,omitempty"`
	RequiredSkills pq.StringArray `json:"required_skills" gorm:"type:text[];not null;default:'{}'"`
	MaxTeamSize    int            `json:"max_team_size" gorm:"not null"`

	// ConfirmedMemberIDs always contains the author.
	ConfirmedMemberIDs pq.StringArray `json:"confirmed_member_ids" gorm:"type:text[];not null;default:'{}'"`

	// LinkedPodID is written once by materialization and never cleared.
	LinkedPodID *uuid.UUID    `json:"linked_pod_id,omitempty" gorm:"type:uuid;uniqueIndex"`
	Status      PostingStatus `json:"status" gorm:"not null;default:open"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;index;index:idx_postings_event_created"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (RecruitmentPosting) TableName() string {
	return "recruitment_postings"
}

// IsMaterialized returns true once the posting has been linked to a pod.
func (p *RecruitmentPosting) IsMaterialized() bool {
	return p.LinkedPodID != nil
}

// IsAuthor checks if the given user authored the posting.
func (p *RecruitmentPosting) IsAuthor(userID uuid.UUID) bool {
	return p.AuthorID == userID
}

// HasConfirmedMember checks if the user is in the confirmed-member list.
// The author is always considered confirmed.
func (p *RecruitmentPosting) HasConfirmedMember(userID uuid.UUID) bool {
	if p.AuthorID == userID {
		return true
	}
	id := userID.String()
	for _, m := range p.ConfirmedMemberIDs {
		if m == id {
			return true
		}
	}
	return false
}

// ConfirmedMembers returns the parsed confirmed-member list.
// Malformed entries are skipped.
func (p *RecruitmentPosting) ConfirmedMembers() []uuid.UUID {
	return ParseUUIDs(p.ConfirmedMemberIDs)
}

// RecruitmentApplication is one user's request to join one posting.
type RecruitmentApplication struct {
	ID              uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PostingID       uuid.UUID         `json:"posting_id" gorm:"type:uuid;not null;index"`
	ApplicantID     uuid.UUID         `json:"applicant_id" gorm:"type:uuid;not null;index"`
	Message         string            `json:"message,omitempty"`
	Status          ApplicationStatus `json:"status" gorm:"not null;default:pending;index"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
	RejectionNote   string            `json:"rejection_note,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	DecidedAt       *time.Time        `json:"decided_at,omitempty"`
}

// TableName returns the database table name.
func (RecruitmentApplication) TableName() string {
	return "recruitment_applications"
}

// IsPending returns true if the application has not been decided yet.
func (a *RecruitmentApplication) IsPending() bool {
	return a.Status == ApplicationStatusPending
}

// Pod is a durable team materialized from a successful recruitment.
type Pod struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID         uuid.UUID      `json:"owner_id" gorm:"type:uuid;not null;index"`
	Name            string         `json:"name" gorm:"not null"`
	Description     string         `json:"description,omitempty"`
	MemberIDs       pq.StringArray `json:"member_ids" gorm:"type:text[];not null;default:'{}'"`
	Capacity        int            `json:"capacity" gorm:"not null"`
	Topics          pq.StringArray `json:"topics" gorm:"type:text[];not null;default:'{}'"`
	EventID         *uuid.UUID     `json:"event_id,omitempty" gorm:"type:uuid;index"`
	LinkedPostingID *uuid.UUID     `json:"linked_posting_id,omitempty" gorm:"type:uuid;index"`
	Status          PodStatus      `json:"status" gorm:"not null;default:active"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// TableName returns the database table name.
func (Pod) TableName() string {
	return "pods"
}

// Members returns the parsed member list.
func (p *Pod) Members() []uuid.UUID {
	return ParseUUIDs(p.MemberIDs)
}

// HasMember checks if the user belongs to the pod.
func (p *Pod) HasMember(userID uuid.UUID) bool {
	id := userID.String()
	for _, m := range p.MemberIDs {
		if m == id {
			return true
		}
	}
	return false
}

// PodMessage is a chat record scoped to a pod. Delivery is handled elsewhere;
// the recruitment core only removes these when their pod is deleted.
type PodMessage struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PodID     uuid.UUID `json:"pod_id" gorm:"type:uuid;not null;index"`
	SenderID  uuid.UUID `json:"sender_id" gorm:"type:uuid;not null"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (PodMessage) TableName() string {
	return "pod_messages"
}

// ParseUUIDs converts a string array into UUIDs, skipping malformed values.
func ParseUUIDs(values []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}

// UUIDStrings converts UUIDs into a string array suitable for text[] columns.
func UUIDStrings(ids []uuid.UUID) pq.StringArray {
	out := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
