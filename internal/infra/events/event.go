package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is a recruitment fact that other components react to.
type Event interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	// SubjectID is the posting or pod the event is about.
	SubjectID() uuid.UUID
}

// Envelope carries the identity every event shares. It is embedded in each
// concrete event so the fields serialize alongside the payload.
type Envelope struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	Subject     uuid.UUID `json:"subject_id"`
	SubjectKind string    `json:"subject_type"`
}

func (e Envelope) EventID() uuid.UUID    { return e.ID }
func (e Envelope) EventType() string     { return e.Type }
func (e Envelope) OccurredAt() time.Time { return e.Timestamp }
func (e Envelope) SubjectID() uuid.UUID  { return e.Subject }

func newEnvelope(eventType string, subject uuid.UUID, kind string) Envelope {
	return Envelope{
		ID:          uuid.New(),
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		Subject:     subject,
		SubjectKind: kind,
	}
}

// Handler reacts to the event types it lists.
// Handle may see the same event more than once and must tolerate that.
type Handler interface {
	Handles() []string
	Handle(ctx context.Context, event Event) error
}
