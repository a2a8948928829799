package recruitment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/model"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/port/inbound"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/port/outbound"
)

const tracerName = "github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/domain/recruitment"

// Recorder receives workflow and reconciliation counters.
type Recorder interface {
	RecordRecruitmentOperation(operation, kind string)
	RecordReconcileOutcome(job, outcome string, count int)
}

type nopRecorder struct{}

func (nopRecorder) RecordRecruitmentOperation(string, string)  {}
func (nopRecorder) RecordReconcileOutcome(string, string, int) {}

// Option configures a Domain.
type Option func(*Domain)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(d *Domain) {
		if now != nil {
			d.now = now
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(d *Domain) {
		if r != nil {
			d.recorder = r
		}
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(d *Domain) {
		if t != nil {
			d.tracer = t
		}
	}
}

// Domain implements the recruitment lifecycle and pod materialization logic.
type Domain struct {
	postingDB     outbound.PostingDatabasePort
	applicationDB outbound.ApplicationDatabasePort
	podDB         outbound.PodDatabasePort
	messageDB     outbound.PodMessageDatabasePort
	txPort        outbound.RecruitmentTransactionPort
	publisher     outbound.EventPublisherPort
	stats         outbound.EventStatsPort
	cfg           *Config
	logger        *zap.Logger

	recorder Recorder
	tracer   trace.Tracer
	now      func() time.Time
}

var _ inbound.RecruitmentDomain = (*Domain)(nil)

// NewDomain creates a new recruitment domain.
func NewDomain(
	postingDB outbound.PostingDatabasePort,
	applicationDB outbound.ApplicationDatabasePort,
	podDB outbound.PodDatabasePort,
	messageDB outbound.PodMessageDatabasePort,
	txPort outbound.RecruitmentTransactionPort,
	publisher outbound.EventPublisherPort,
	stats outbound.EventStatsPort,
	cfg *Config,
	logger *zap.Logger,
	opts ...Option,
) *Domain {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.applyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &Domain{
		postingDB:     postingDB,
		applicationDB: applicationDB,
		podDB:         podDB,
		messageDB:     messageDB,
		txPort:        txPort,
		publisher:     publisher,
		stats:         stats,
		cfg:           cfg,
		logger:        logger.Named("recruitment"),
		recorder:      nopRecorder{},
		tracer:        otel.Tracer(tracerName),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// startSpan opens a span and returns a finisher that records the outcome.
func (d *Domain) startSpan(ctx context.Context, operation string) (context.Context, func(*error)) {
	ctx, span := d.tracer.Start(ctx, "recruitment."+operation)
	return ctx, func(errp *error) {
		var err error
		if errp != nil {
			err = *errp
		}
		if err != nil {
			span.RecordError(err)
			if !IsBusinessError(err) {
				span.SetStatus(codes.Error, err.Error())
			}
		}
		d.recorder.RecordRecruitmentOperation(operation, outcomeKind(err))
		span.End()
	}
}

func outcomeKind(err error) string {
	if err == nil {
		return "ok"
	}
	return Kind(err)
}

// publish hands an event to the publisher. Failures are logged only.
func (d *Domain) publish(ctx context.Context, event interface{}) {
	if d.publisher == nil {
		return
	}
	if err := d.publisher.Publish(ctx, event); err != nil {
		d.logger.Warn("failed to publish event", zap.Error(err))
	}
}

func (d *Domain) findPosting(ctx context.Context, id uuid.UUID, forUpdate bool) (*model.RecruitmentPosting, error) {
	var (
		posting *model.RecruitmentPosting
		err     error
	)
	if forUpdate {
		posting, err = d.postingDB.FindByIDForUpdate(ctx, id)
	} else {
		posting, err = d.postingDB.FindByID(ctx, id)
	}
	if err != nil {
		return nil, translateNotFound(err, ErrPostingNotFound)
	}
	return posting, nil
}

// findPostingApplication loads an application and checks it belongs to the posting.
func (d *Domain) findPostingApplication(ctx context.Context, postingID, applicationID uuid.UUID) (*model.RecruitmentApplication, error) {
	app, err := d.applicationDB.FindByID(ctx, applicationID)
	if err != nil {
		return nil, translateNotFound(err, ErrApplicationNotFound)
	}
	if app.PostingID != postingID {
		return nil, ErrApplicationNotFound
	}
	return app, nil
}

func translateNotFound(err, target error) error {
	if errors.Is(err, outbound.ErrNotFound) {
		return target
	}
	return err
}

// teamSize returns the effective maximum team size of a posting.
func (d *Domain) teamSize(p *model.RecruitmentPosting) int {
	if p.MaxTeamSize > 0 {
		return p.MaxTeamSize
	}
	return d.cfg.DefaultPodCapacity
}

// memberSet returns the author followed by the given members, deduplicated.
func memberSet(authorID uuid.UUID, members []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(members)+1)
	out := make([]uuid.UUID, 0, len(members)+1)
	seen[authorID] = struct{}{}
	out = append(out, authorID)
	for _, m := range members {
		if m == uuid.Nil {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

func eventKey(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}

func (d *Domain) toPostingOutput(p *model.RecruitmentPosting) *inbound.PostingOutput {
	skills := []string(p.RequiredSkills)
	if skills == nil {
		skills = []string{}
	}
	return &inbound.PostingOutput{
		ID:                 p.ID,
		AuthorID:           p.AuthorID,
		EventID:            p.EventID,
		Title:              p.Title,
		Content:            p.Content,
		RequiredSkills:     skills,
		MaxTeamSize:        p.MaxTeamSize,
		ConfirmedMemberIDs: memberSet(p.AuthorID, p.ConfirmedMembers()),
		LinkedPodID:        p.LinkedPodID,
		Status:             p.Status,
		State:              string(ComputeState(p.CreatedAt, d.now())),
		CreatedAt:          p.CreatedAt,
		ReviewClosesAt:     p.CreatedAt.Add(ReviewWindowStart),
		ExpiresAt:          p.CreatedAt.Add(ExpiryAge),
	}
}
