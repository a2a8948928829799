package recruitment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/infra/events"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/model"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/port/outbound"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// ========== Apply ==========

// Apply submits an application to a posting.
// Checks run in order: self, closed, duplicate, already member.
// Apply never checks double booking; that gate belongs to Accept.
func (d *Domain) Apply(ctx context.Context, postingID, applicantID uuid.UUID, message string) (app *model.RecruitmentApplication, err error) {
	ctx, finish := d.startSpan(ctx, "Apply")
	defer finish(&err)

	posting, err := d.findPosting(ctx, postingID, false)
	if err != nil {
		return nil, err
	}

	if posting.IsAuthor(applicantID) {
		return nil, ErrSelfApplication
	}

	now := d.now()
	if state := ComputeState(posting.CreatedAt, now); !state.AcceptsApplications() || posting.IsMaterialized() {
		return nil, fmt.Errorf("%w: posting is %s", ErrPostingClosed, state)
	}

	existing, err := d.applicationDB.FindOpenByApplicant(ctx, postingID, applicantID)
	if err != nil && !errors.Is(err, outbound.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateApplication
	}

	if posting.HasConfirmedMember(applicantID) {
		return nil, ErrAlreadyMember
	}

	app = &model.RecruitmentApplication{
		ID:          uuid.New(),
		PostingID:   postingID,
		ApplicantID: applicantID,
		Message:     strings.TrimSpace(message),
		Status:      model.ApplicationStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := d.applicationDB.Create(ctx, app); err != nil {
		if errors.Is(err, outbound.ErrDuplicate) {
			return nil, ErrDuplicateApplication
		}
		return nil, err
	}

	d.logger.Info("application submitted",
		zap.String("posting_id", postingID.String()),
		zap.String("application_id", app.ID.String()),
		zap.String("applicant_id", applicantID.String()),
	)

	d.publish(ctx, events.NewApplicationSubmittedEvent(
		posting.ID, posting.Title, app.ID, applicantID, posting.AuthorID, posting.EventID,
	))
	return app, nil
}

// ========== Accept ==========

// Accept confirms an applicant onto the posting.
// The posting row is locked for the whole decision, so concurrent decisions
// on the same posting serialize and only one can move an application out of
// pending. The status change and the member-list append commit together.
func (d *Domain) Accept(ctx context.Context, postingID, applicationID, actingUserID uuid.UUID) (app *model.RecruitmentApplication, err error) {
	ctx, finish := d.startSpan(ctx, "Accept")
	defer finish(&err)

	var (
		posting   *model.RecruitmentPosting
		confirmed int
	)

	err = d.txPort.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		posting, err = d.findPosting(txCtx, postingID, true)
		if err != nil {
			return err
		}
		if !posting.IsAuthor(actingUserID) {
			return ErrNotAuthorized
		}

		app, err = d.findPostingApplication(txCtx, postingID, applicationID)
		if err != nil {
			return err
		}
		if !app.IsPending() {
			return fmt.Errorf("%w: status is %s", ErrAlreadyProcessed, app.Status)
		}
		if posting.IsMaterialized() {
			return fmt.Errorf("%w: already materialized", ErrPostingClosed)
		}

		members := memberSet(posting.AuthorID, posting.ConfirmedMembers())
		if limit := d.teamSize(posting); len(members) >= limit {
			return fmt.Errorf("%w: %d of %d seats taken", ErrCapacityExceeded, len(members), limit)
		}

		if posting.EventID != nil {
			if err := d.txPort.LockKey(txCtx, memberLockKey(*posting.EventID, app.ApplicantID)); err != nil {
				return err
			}
			if err := d.requireAvailable(txCtx, *posting.EventID, app.ApplicantID, &posting.ID); err != nil {
				return err
			}
		}

		decidedAt := d.now()
		err = d.applicationDB.Decide(txCtx, app.ID, outbound.ApplicationDecision{
			Status:    model.ApplicationStatusAccepted,
			DecidedAt: decidedAt,
		})
		if err != nil {
			if errors.Is(err, outbound.ErrConflict) {
				return ErrAlreadyProcessed
			}
			return err
		}
		if err := d.postingDB.AddConfirmedMember(txCtx, posting.ID, app.ApplicantID); err != nil {
			return err
		}

		app.Status = model.ApplicationStatusAccepted
		app.DecidedAt = &decidedAt
		app.UpdatedAt = decidedAt
		confirmed = len(members) + 1
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.logger.Info("application accepted",
		zap.String("posting_id", postingID.String()),
		zap.String("application_id", app.ID.String()),
		zap.String("applicant_id", app.ApplicantID.String()),
		zap.Int("confirmed", confirmed),
	)

	d.publish(ctx, events.NewApplicationAcceptedEvent(
		posting.ID, posting.Title, app.ID, app.ApplicantID, posting.AuthorID, posting.EventID, confirmed,
	))
	return app, nil
}

// ========== Reject ==========

// Reject declines an application. The member list is left untouched.
func (d *Domain) Reject(ctx context.Context, postingID, applicationID, actingUserID uuid.UUID, reason, note string) (app *model.RecruitmentApplication, err error) {
	ctx, finish := d.startSpan(ctx, "Reject")
	defer finish(&err)

	reason = strings.TrimSpace(reason)
	note = strings.TrimSpace(note)

	var posting *model.RecruitmentPosting

	err = d.txPort.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		posting, err = d.findPosting(txCtx, postingID, true)
		if err != nil {
			return err
		}
		if !posting.IsAuthor(actingUserID) {
			return ErrNotAuthorized
		}

		app, err = d.findPostingApplication(txCtx, postingID, applicationID)
		if err != nil {
			return err
		}
		if !app.IsPending() {
			return fmt.Errorf("%w: status is %s", ErrAlreadyProcessed, app.Status)
		}

		decidedAt := d.now()
		err = d.applicationDB.Decide(txCtx, app.ID, outbound.ApplicationDecision{
			Status:    model.ApplicationStatusRejected,
			Reason:    reason,
			Note:      note,
			DecidedAt: decidedAt,
		})
		if err != nil {
			if errors.Is(err, outbound.ErrConflict) {
				return ErrAlreadyProcessed
			}
			return err
		}

		app.Status = model.ApplicationStatusRejected
		app.RejectionReason = reason
		app.RejectionNote = note
		app.DecidedAt = &decidedAt
		app.UpdatedAt = decidedAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.logger.Info("application rejected",
		zap.String("posting_id", postingID.String()),
		zap.String("application_id", app.ID.String()),
		zap.String("applicant_id", app.ApplicantID.String()),
	)

	d.publish(ctx, events.NewApplicationRejectedEvent(
		posting.ID, posting.Title, app.ID, app.ApplicantID, posting.AuthorID, reason, note,
	))
	return app, nil
}

// ========== Queries ==========

// ListPostingApplications lists applications for a posting. Author only.
func (d *Domain) ListPostingApplications(ctx context.Context, postingID, actingUserID uuid.UUID) ([]*model.RecruitmentApplication, error) {
	posting, err := d.findPosting(ctx, postingID, false)
	if err != nil {
		return nil, err
	}
	if !posting.IsAuthor(actingUserID) {
		return nil, ErrNotAuthorized
	}
	return d.applicationDB.FindByPosting(ctx, postingID)
}

// ListMyApplications lists the applications a user has submitted.
func (d *Domain) ListMyApplications(ctx context.Context, applicantID uuid.UUID, limit, offset int) ([]*model.RecruitmentApplication, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return d.applicationDB.FindByApplicant(ctx, applicantID, limit, offset)
}
