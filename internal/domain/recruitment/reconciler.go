package recruitment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/infra/events"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/model"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/port/inbound"
)

// Job names reported to the recorder.
const (
	JobReconcile = "reconcile"
	JobCleanup   = "cleanup"
)

// Per-posting outcomes of a pass.
const (
	outcomeSkipped      = "skipped"
	outcomeMaterialized = "materialized"
	outcomeRepaired     = "repaired"
	outcomeDeleted      = "deleted"
	outcomeRetained     = "retained"
	outcomeFailed       = "failed"
)

// resolution is what happened to one expired posting.
type resolution struct {
	posting      *model.RecruitmentPosting
	skipped      bool
	deleted      bool
	applications int64
	built        *materialization
}

// Reconcile resolves every expired posting to a pod or to nothing.
// Each posting is handled in its own transaction. A failure on one posting is
// logged and counted, and the pass moves on.
func (d *Domain) Reconcile(ctx context.Context) (report *inbound.ReconcileReport, err error) {
	ctx, finish := d.startSpan(ctx, "Reconcile")
	defer finish(&err)

	now := d.now()
	postings, err := d.postingDB.FindCreatedBefore(ctx, ExpiryThreshold(now), d.cfg.ReconcileBatchSize)
	if err != nil {
		return nil, err
	}

	report = &inbound.ReconcileReport{Scanned: len(postings)}
	touched := newEventSet()

	// Work finished before a cancellation is still refreshed and recorded.
	var cancelled error
	for _, p := range postings {
		if cancelled = ctx.Err(); cancelled != nil {
			break
		}
		if p.IsMaterialized() {
			report.Skipped++
			continue
		}

		res, err := d.resolvePosting(ctx, p.ID, true)
		if err != nil {
			report.Failed++
			d.logger.Error("reconcile posting failed",
				zap.String("posting_id", p.ID.String()),
				zap.Error(err),
			)
			continue
		}

		switch {
		case res.skipped:
			report.Skipped++
		case res.built != nil && res.built.repaired:
			report.Repaired++
		case res.built != nil:
			report.Materialized++
		}
		if res.deleted {
			report.Deleted++
		} else if !res.skipped {
			report.Retained++
		}
		if res.built != nil || res.deleted {
			touched.add(res.posting.EventID)
		}
		d.announce(ctx, res)
	}

	if cancelled == nil {
		closed, err := d.postingDB.CloseStale(ctx, ActiveThreshold(now))
		if err != nil {
			d.logger.Warn("failed to refresh posting status", zap.Error(err))
		}
		report.Closed = closed
	}

	report.Events = touched.list()
	d.refreshStats(ctx, report.Events)

	d.recordPass(JobReconcile, map[string]int{
		outcomeSkipped:      report.Skipped,
		outcomeMaterialized: report.Materialized,
		outcomeRepaired:     report.Repaired,
		outcomeDeleted:      report.Deleted,
		outcomeRetained:     report.Retained,
		outcomeFailed:       report.Failed,
	})

	if report.Scanned > 0 {
		d.logger.Info("reconcile pass finished",
			zap.Int("scanned", report.Scanned),
			zap.Int("materialized", report.Materialized),
			zap.Int("repaired", report.Repaired),
			zap.Int("deleted", report.Deleted),
			zap.Int("retained", report.Retained),
			zap.Int("failed", report.Failed),
		)
	}
	return report, cancelled
}

// CleanupExpired is the long-stop sweep for expired postings a reconcile pass
// left behind. It applies the same deletion gate but never materializes.
func (d *Domain) CleanupExpired(ctx context.Context) (report *inbound.CleanupReport, err error) {
	ctx, finish := d.startSpan(ctx, "CleanupExpired")
	defer finish(&err)

	postings, err := d.postingDB.FindCreatedBefore(ctx, ExpiryThreshold(d.now()), d.cfg.ReconcileBatchSize)
	if err != nil {
		return nil, err
	}

	report = &inbound.CleanupReport{Scanned: len(postings)}
	touched := newEventSet()

	var cancelled error
	for _, p := range postings {
		if cancelled = ctx.Err(); cancelled != nil {
			break
		}
		res, err := d.resolvePosting(ctx, p.ID, false)
		if err != nil {
			report.Failed++
			d.logger.Error("cleanup posting failed",
				zap.String("posting_id", p.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if res.skipped {
			continue
		}
		if res.deleted {
			report.Deleted++
			touched.add(res.posting.EventID)
			d.announce(ctx, res)
		} else {
			report.Retained++
		}
	}

	d.refreshStats(ctx, touched.list())
	d.recordPass(JobCleanup, map[string]int{
		outcomeDeleted:  report.Deleted,
		outcomeRetained: report.Retained,
		outcomeFailed:   report.Failed,
	})

	if report.Deleted > 0 || report.Failed > 0 {
		d.logger.Info("cleanup pass finished",
			zap.Int("scanned", report.Scanned),
			zap.Int("deleted", report.Deleted),
			zap.Int("retained", report.Retained),
			zap.Int("failed", report.Failed),
		)
	}
	return report, cancelled
}

// resolvePosting locks one expired posting and decides its fate.
// With materialize unset, linked postings are not skipped and no pod is built.
func (d *Domain) resolvePosting(ctx context.Context, postingID uuid.UUID, materialize bool) (*resolution, error) {
	res := &resolution{}

	err := d.txPort.RunInTransaction(ctx, func(txCtx context.Context) error {
		posting, err := d.findPosting(txCtx, postingID, true)
		if err != nil {
			if errors.Is(err, ErrPostingNotFound) {
				// Deleted by a concurrent pass.
				res.skipped = true
				return nil
			}
			return err
		}
		res.posting = posting

		if materialize && posting.IsMaterialized() {
			res.skipped = true
			return nil
		}

		accepted, err := d.applicationDB.FindAcceptedApplicants(txCtx, posting.ID)
		if err != nil {
			return err
		}
		members := memberSet(posting.AuthorID, accepted)

		if materialize && !posting.IsMaterialized() && len(members) >= MinPodMembers {
			built, err := d.materialize(txCtx, posting, accepted)
			if err != nil {
				return err
			}
			res.built = built
		}

		res.applications, err = d.applicationDB.CountByPosting(txCtx, posting.ID)
		if err != nil {
			return err
		}

		if !shouldDelete(posting, res.applications, len(members)) {
			return nil
		}
		if err := d.applicationDB.DeleteByPosting(txCtx, posting.ID); err != nil {
			return err
		}
		if err := d.postingDB.Delete(txCtx, posting.ID); err != nil {
			return err
		}
		res.deleted = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// shouldDelete is the deletion gate for expired postings. A posting goes once
// it is linked to a pod, once it never drew an application, or once its
// recruitment has failed for want of members. A posting with enough members
// but no link yet is kept for the pass that materializes it.
func shouldDelete(posting *model.RecruitmentPosting, applications int64, members int) bool {
	return posting.IsMaterialized() || applications == 0 || members < MinPodMembers
}

// announce publishes the events for a resolved posting.
func (d *Domain) announce(ctx context.Context, res *resolution) {
	if res.posting == nil {
		return
	}
	p := res.posting
	if res.built != nil {
		d.publish(ctx, events.NewPodMaterializedEvent(
			res.built.pod.ID, res.built.pod.Name, p.ID, p.AuthorID, res.built.members, p.EventID, res.built.repaired,
		))
	}
	if !res.deleted {
		return
	}

	outcome := events.OutcomeRecruitmentFailed
	switch {
	case p.IsMaterialized():
		outcome = events.OutcomeMaterialized
	case res.applications == 0:
		outcome = events.OutcomeNoApplications
	}
	d.publish(ctx, events.NewPostingExpiredEvent(p.ID, p.Title, p.AuthorID, p.EventID, p.LinkedPodID, outcome))
}

// refreshStats asks the statistics service to recompute each touched event.
// Calls are bounded by their own timeout, not by the pass context.
// Failures are logged and never returned.
func (d *Domain) refreshStats(ctx context.Context, eventIDs []uuid.UUID) {
	if d.stats == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, id := range eventIDs {
		callCtx, cancel := context.WithTimeout(ctx, d.cfg.StatsRefreshTimeout)
		err := d.stats.RefreshEventStats(callCtx, id)
		cancel()
		if err != nil {
			d.logger.Warn("event stats refresh failed",
				zap.String("event_id", id.String()),
				zap.Error(err),
			)
		}
	}
}

func (d *Domain) recordPass(job string, counts map[string]int) {
	for outcome, n := range counts {
		if n > 0 {
			d.recorder.RecordReconcileOutcome(job, outcome, n)
		}
	}
}

// eventSet collects distinct event identifiers in first-seen order.
type eventSet struct {
	seen  map[uuid.UUID]struct{}
	order []uuid.UUID
}

func newEventSet() *eventSet {
	return &eventSet{seen: make(map[uuid.UUID]struct{})}
}

func (s *eventSet) add(id *uuid.UUID) {
	key := eventKey(id)
	if key == uuid.Nil {
		return
	}
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}
	s.order = append(s.order, key)
}

func (s *eventSet) list() []uuid.UUID {
	return s.order
}
