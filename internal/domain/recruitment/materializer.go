package recruitment

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/model"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/port/outbound"
)

// materialization is the result of turning a posting into a pod.
type materialization struct {
	pod      *model.Pod
	members  []uuid.UUID
	repaired bool
}

// materialize converts a posting and its confirmed members into a pod.
//
// The pod is written first and the posting link second. When both writes share
// a transaction they commit together; otherwise a failure between them leaves
// an orphan pod, which is found through its posting back-reference and
// re-linked on the next attempt rather than duplicated.
func (d *Domain) materialize(ctx context.Context, posting *model.RecruitmentPosting, confirmed []uuid.UUID) (*materialization, error) {
	if posting.IsMaterialized() {
		return nil, ErrAlreadyMaterialized
	}

	orphan, err := d.podDB.FindByLinkedPosting(ctx, posting.ID)
	if err != nil && !errors.Is(err, outbound.ErrNotFound) {
		return nil, err
	}
	if orphan != nil {
		if err := d.link(ctx, posting, orphan.ID); err != nil {
			return nil, err
		}
		d.logger.Warn("orphan pod re-linked",
			zap.String("posting_id", posting.ID.String()),
			zap.String("pod_id", orphan.ID.String()),
		)
		return &materialization{pod: orphan, members: orphan.Members(), repaired: true}, nil
	}

	members := memberSet(posting.AuthorID, append(posting.ConfirmedMembers(), confirmed...))
	pod := d.buildPod(posting, members)

	if err := d.podDB.Create(ctx, pod); err != nil {
		return nil, err
	}
	if err := d.link(ctx, posting, pod.ID); err != nil {
		d.logger.Error("pod created but posting link failed",
			zap.String("posting_id", posting.ID.String()),
			zap.String("pod_id", pod.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	d.logger.Info("pod materialized",
		zap.String("posting_id", posting.ID.String()),
		zap.String("pod_id", pod.ID.String()),
		zap.Int("members", len(members)),
	)
	return &materialization{pod: pod, members: members}, nil
}

func (d *Domain) link(ctx context.Context, posting *model.RecruitmentPosting, podID uuid.UUID) error {
	if err := d.postingDB.SetLinkedPod(ctx, posting.ID, podID); err != nil {
		if errors.Is(err, outbound.ErrConflict) {
			return ErrLinkConflict
		}
		return err
	}
	posting.LinkedPodID = &podID
	return nil
}

func (d *Domain) buildPod(posting *model.RecruitmentPosting, members []uuid.UUID) *model.Pod {
	name := strings.TrimSpace(posting.Title)
	if name == "" {
		name = DefaultPodName
	}
	capacity := d.teamSize(posting)
	if capacity < len(members) {
		capacity = len(members)
	}
	postingID := posting.ID
	now := d.now()

	return &model.Pod{
		ID:              uuid.New(),
		OwnerID:         posting.AuthorID,
		Name:            name,
		Description:     posting.Content,
		MemberIDs:       model.UUIDStrings(members),
		Capacity:        capacity,
		Topics:          append([]string{}, posting.RequiredSkills...),
		EventID:         posting.EventID,
		LinkedPostingID: &postingID,
		Status:          model.PodStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
