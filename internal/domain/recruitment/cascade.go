package recruitment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/infra/events"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/model"
)

// cascadeResult summarises one pod removal.
type cascadeResult struct {
	pod      *model.Pod
	messages int64
	postings []*model.RecruitmentPosting
}

// GetPod retrieves a pod by ID.
func (d *Domain) GetPod(ctx context.Context, podID uuid.UUID) (*model.Pod, error) {
	pod, err := d.podDB.FindByID(ctx, podID)
	if err != nil {
		return nil, translateNotFound(err, ErrPodNotFound)
	}
	return pod, nil
}

// DeletePod removes a pod owned by the acting user together with its messages
// and any posting still linked to it. Storage failures are retried; business
// refusals are returned at once.
func (d *Domain) DeletePod(ctx context.Context, podID, actingUserID uuid.UUID) (err error) {
	ctx, finish := d.startSpan(ctx, "DeletePod")
	defer finish(&err)

	var res *cascadeResult
	for attempt := 1; attempt <= d.cfg.CascadeRetries; attempt++ {
		res, err = d.cascadeDeletePod(ctx, podID, actingUserID)
		if err == nil || IsBusinessError(err) || attempt == d.cfg.CascadeRetries {
			break
		}
		d.logger.Warn("pod cascade failed, retrying",
			zap.String("pod_id", podID.String()),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d.cfg.CascadeRetryDelay * time.Duration(attempt)):
		}
	}
	if err != nil {
		return err
	}

	d.logger.Info("pod deleted",
		zap.String("pod_id", podID.String()),
		zap.Int64("messages", res.messages),
		zap.Int("postings", len(res.postings)),
	)

	pod := res.pod
	d.publish(ctx, events.NewPodDeletedEvent(
		pod.ID, pod.Name, pod.OwnerID, pod.Members(), pod.EventID, res.messages, len(res.postings),
	))
	for _, p := range res.postings {
		d.publish(ctx, events.NewPostingExpiredEvent(p.ID, p.Title, p.AuthorID, p.EventID, p.LinkedPodID, events.OutcomeCascade))
	}
	return nil
}

// cascadeDeletePod deletes messages, then linked postings, then the pod, all
// in one transaction.
func (d *Domain) cascadeDeletePod(ctx context.Context, podID, actingUserID uuid.UUID) (*cascadeResult, error) {
	res := &cascadeResult{}

	err := d.txPort.RunInTransaction(ctx, func(txCtx context.Context) error {
		pod, err := d.podDB.FindByID(txCtx, podID)
		if err != nil {
			return translateNotFound(err, ErrPodNotFound)
		}
		if pod.OwnerID != actingUserID {
			return ErrNotAuthorized
		}
		res.pod = pod

		res.messages, err = d.messageDB.DeleteByPod(txCtx, pod.ID)
		if err != nil {
			return err
		}

		postings, err := d.postingDB.FindByLinkedPod(txCtx, pod.ID)
		if err != nil {
			return err
		}
		for _, p := range postings {
			if err := d.applicationDB.DeleteByPosting(txCtx, p.ID); err != nil {
				return err
			}
			if err := d.postingDB.Delete(txCtx, p.ID); err != nil {
				return err
			}
		}
		res.postings = postings

		return d.podDB.Delete(txCtx, pod.ID)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
