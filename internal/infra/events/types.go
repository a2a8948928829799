package events

import "github.com/google/uuid"

// Recruitment event type constants.
const (
	ApplicationSubmittedType = "ApplicationSubmitted"
	ApplicationAcceptedType  = "ApplicationAccepted"
	ApplicationRejectedType  = "ApplicationRejected"
	PodMaterializedType      = "PodMaterialized"
	PostingExpiredType       = "PostingExpired"
	PodDeletedType           = "PodDeleted"
)

// Subject kinds.
const (
	SubjectPosting = "RecruitmentPosting"
	SubjectPod     = "Pod"
)

// Posting outcomes reported by PostingExpiredEvent.
const (
	OutcomeMaterialized      = "materialized"
	OutcomeNoApplications    = "no_applications"
	OutcomeRecruitmentFailed = "recruitment_failed"
	OutcomeCascade           = "pod_deleted"
)

// ApplicationSubmittedEvent is emitted when a user applies to a posting.
type ApplicationSubmittedEvent struct {
	Envelope

	PostingID     uuid.UUID  `json:"posting_id"`
	PostingTitle  string     `json:"posting_title"`
	ApplicationID uuid.UUID  `json:"application_id"`
	ApplicantID   uuid.UUID  `json:"applicant_id"`
	AuthorID      uuid.UUID  `json:"author_id"`
	CampusEventID *uuid.UUID `json:"event_id,omitempty"`
}

// NewApplicationSubmittedEvent creates a new ApplicationSubmittedEvent.
func NewApplicationSubmittedEvent(postingID uuid.UUID, title string, applicationID, applicantID, authorID uuid.UUID, eventID *uuid.UUID) *ApplicationSubmittedEvent {
	return &ApplicationSubmittedEvent{
		Envelope:      newEnvelope(ApplicationSubmittedType, postingID, SubjectPosting),
		PostingID:     postingID,
		PostingTitle:  title,
		ApplicationID: applicationID,
		ApplicantID:   applicantID,
		AuthorID:      authorID,
		CampusEventID: eventID,
	}
}

// ApplicationAcceptedEvent is emitted when the author accepts an applicant.
type ApplicationAcceptedEvent struct {
	Envelope

	PostingID     uuid.UUID  `json:"posting_id"`
	PostingTitle  string     `json:"posting_title"`
	ApplicationID uuid.UUID  `json:"application_id"`
	ApplicantID   uuid.UUID  `json:"applicant_id"`
	AuthorID      uuid.UUID  `json:"author_id"`
	CampusEventID *uuid.UUID `json:"event_id,omitempty"`

	// ConfirmedCount includes the author.
	ConfirmedCount int `json:"confirmed_count"`
}

// NewApplicationAcceptedEvent creates a new ApplicationAcceptedEvent.
func NewApplicationAcceptedEvent(postingID uuid.UUID, title string, applicationID, applicantID, authorID uuid.UUID, eventID *uuid.UUID, confirmed int) *ApplicationAcceptedEvent {
	return &ApplicationAcceptedEvent{
		Envelope:       newEnvelope(ApplicationAcceptedType, postingID, SubjectPosting),
		PostingID:      postingID,
		PostingTitle:   title,
		ApplicationID:  applicationID,
		ApplicantID:    applicantID,
		AuthorID:       authorID,
		CampusEventID:  eventID,
		ConfirmedCount: confirmed,
	}
}

// ApplicationRejectedEvent is emitted when the author rejects an applicant.
type ApplicationRejectedEvent struct {
	Envelope

	PostingID     uuid.UUID `json:"posting_id"`
	PostingTitle  string    `json:"posting_title"`
	ApplicationID uuid.UUID `json:"application_id"`
	ApplicantID   uuid.UUID `json:"applicant_id"`
	AuthorID      uuid.UUID `json:"author_id"`
	Reason        string    `json:"reason,omitempty"`
	Note          string    `json:"note,omitempty"`
}

// NewApplicationRejectedEvent creates a new ApplicationRejectedEvent.
func NewApplicationRejectedEvent(postingID uuid.UUID, title string, applicationID, applicantID, authorID uuid.UUID, reason, note string) *ApplicationRejectedEvent {
	return &ApplicationRejectedEvent{
		Envelope:      newEnvelope(ApplicationRejectedType, postingID, SubjectPosting),
		PostingID:     postingID,
		PostingTitle:  title,
		ApplicationID: applicationID,
		ApplicantID:   applicantID,
		AuthorID:      authorID,
		Reason:        reason,
		Note:          note,
	}
}

// PodMaterializedEvent is emitted when a posting has been turned into a pod.
type PodMaterializedEvent struct {
	Envelope

	PodID         uuid.UUID   `json:"pod_id"`
	PodName       string      `json:"pod_name"`
	PostingID     uuid.UUID   `json:"posting_id"`
	OwnerID       uuid.UUID   `json:"owner_id"`
	MemberIDs     []uuid.UUID `json:"member_ids"`
	CampusEventID *uuid.UUID  `json:"event_id,omitempty"`

	// Repaired is set when an orphan pod was re-linked instead of created.
	Repaired bool `json:"repaired,omitempty"`
}

// NewPodMaterializedEvent creates a new PodMaterializedEvent.
func NewPodMaterializedEvent(podID uuid.UUID, name string, postingID, ownerID uuid.UUID, members []uuid.UUID, eventID *uuid.UUID, repaired bool) *PodMaterializedEvent {
	return &PodMaterializedEvent{
		Envelope:      newEnvelope(PodMaterializedType, podID, SubjectPod),
		PodID:         podID,
		PodName:       name,
		PostingID:     postingID,
		OwnerID:       ownerID,
		MemberIDs:     members,
		CampusEventID: eventID,
		Repaired:      repaired,
	}
}

// PostingExpiredEvent is emitted when a posting is removed.
type PostingExpiredEvent struct {
	Envelope

	PostingID     uuid.UUID  `json:"posting_id"`
	PostingTitle  string     `json:"posting_title"`
	AuthorID      uuid.UUID  `json:"author_id"`
	CampusEventID *uuid.UUID `json:"event_id,omitempty"`
	LinkedPodID   *uuid.UUID `json:"linked_pod_id,omitempty"`
	Outcome       string     `json:"outcome"`
}

// NewPostingExpiredEvent creates a new PostingExpiredEvent.
func NewPostingExpiredEvent(postingID uuid.UUID, title string, authorID uuid.UUID, eventID, podID *uuid.UUID, outcome string) *PostingExpiredEvent {
	return &PostingExpiredEvent{
		Envelope:      newEnvelope(PostingExpiredType, postingID, SubjectPosting),
		PostingID:     postingID,
		PostingTitle:  title,
		AuthorID:      authorID,
		CampusEventID: eventID,
		LinkedPodID:   podID,
		Outcome:       outcome,
	}
}

// PodDeletedEvent is emitted after a pod and its dependents are removed.
type PodDeletedEvent struct {
	Envelope

	PodID           uuid.UUID   `json:"pod_id"`
	PodName         string      `json:"pod_name"`
	OwnerID         uuid.UUID   `json:"owner_id"`
	MemberIDs       []uuid.UUID `json:"member_ids"`
	CampusEventID   *uuid.UUID  `json:"event_id,omitempty"`
	MessagesDeleted int64       `json:"messages_deleted"`
	PostingsDeleted int         `json:"postings_deleted"`
}

// NewPodDeletedEvent creates a new PodDeletedEvent.
func NewPodDeletedEvent(podID uuid.UUID, name string, ownerID uuid.UUID, members []uuid.UUID, eventID *uuid.UUID, messages int64, postings int) *PodDeletedEvent {
	return &PodDeletedEvent{
		Envelope:        newEnvelope(PodDeletedType, podID, SubjectPod),
		PodID:           podID,
		PodName:         name,
		OwnerID:         ownerID,
		MemberIDs:       members,
		CampusEventID:   eventID,
		MessagesDeleted: messages,
		PostingsDeleted: postings,
	}
}
