package recruitment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/model"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/port/inbound"
)

// CreatePosting opens a new recruitment posting. The author becomes the first
// confirmed member and must not already be on a team for the event.
func (d *Domain) CreatePosting(ctx context.Context, authorID uuid.UUID, input *inbound.CreatePostingInput) (out *inbound.PostingOutput, err error) {
	ctx, finish := d.startSpan(ctx, "CreatePosting")
	defer finish(&err)

	if input == nil || authorID == uuid.Nil || strings.TrimSpace(input.Title) == "" {
		return nil, ErrInvalidRequest
	}
	size := input.MaxTeamSize
	if size == 0 {
		size = d.cfg.DefaultPodCapacity
	}
	if size < MinPodMembers || size > MaxTeamSizeLimit {
		return nil, fmt.Errorf("%w: max team size must be between %d and %d", ErrInvalidRequest, MinPodMembers, MaxTeamSizeLimit)
	}
	if input.EventID != nil && *input.EventID == uuid.Nil {
		input.EventID = nil
	}

	now := d.now()
	posting := &model.RecruitmentPosting{
		ID:                 uuid.New(),
		AuthorID:           authorID,
		EventID:            input.EventID,
		Title:              strings.TrimSpace(input.Title),
		Content:            strings.TrimSpace(input.Content),
		RequiredSkills:     normalizeSkills(input.RequiredSkills),
		MaxTeamSize:        size,
		ConfirmedMemberIDs: model.UUIDStrings([]uuid.UUID{authorID}),
		Status:             model.PostingStatusOpen,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err = d.txPort.RunInTransaction(ctx, func(txCtx context.Context) error {
		if posting.EventID != nil {
			if err := d.txPort.LockKey(txCtx, memberLockKey(*posting.EventID, authorID)); err != nil {
				return err
			}
			if err := d.requireAvailable(txCtx, *posting.EventID, authorID, nil); err != nil {
				return err
			}
		}
		return d.postingDB.Create(txCtx, posting)
	})
	if err != nil {
		return nil, err
	}

	d.logger.Info("posting created",
		zap.String("posting_id", posting.ID.String()),
		zap.String("author_id", authorID.String()),
		zap.Int("max_team_size", size),
	)
	return d.toPostingOutput(posting), nil
}

// GetPosting returns a posting with its lifecycle state computed now.
func (d *Domain) GetPosting(ctx context.Context, postingID uuid.UUID) (*inbound.PostingOutput, error) {
	posting, err := d.findPosting(ctx, postingID, false)
	if err != nil {
		return nil, err
	}
	return d.toPostingOutput(posting), nil
}

// ListEventPostings lists the postings of an event that still accept applications.
func (d *Domain) ListEventPostings(ctx context.Context, eventID uuid.UUID) ([]*inbound.PostingOutput, error) {
	if eventID == uuid.Nil {
		return nil, ErrInvalidRequest
	}
	postings, err := d.postingDB.FindByEvent(ctx, eventID, ActiveThreshold(d.now()))
	if err != nil {
		return nil, err
	}
	outputs := make([]*inbound.PostingOutput, 0, len(postings))
	for _, p := range postings {
		outputs = append(outputs, d.toPostingOutput(p))
	}
	return outputs, nil
}

// DeletePosting withdraws a posting. Only the author may do so, and only
// while the posting has not been materialized.
func (d *Domain) DeletePosting(ctx context.Context, postingID, actingUserID uuid.UUID) (err error) {
	ctx, finish := d.startSpan(ctx, "DeletePosting")
	defer finish(&err)

	err = d.txPort.RunInTransaction(ctx, func(txCtx context.Context) error {
		posting, err := d.findPosting(txCtx, postingID, true)
		if err != nil {
			return err
		}
		if !posting.IsAuthor(actingUserID) {
			return ErrNotAuthorized
		}
		if posting.IsMaterialized() {
			return fmt.Errorf("%w: already materialized", ErrPostingClosed)
		}
		if err := d.applicationDB.DeleteByPosting(txCtx, posting.ID); err != nil {
			return err
		}
		return d.postingDB.Delete(txCtx, posting.ID)
	})
	if err != nil {
		return err
	}

	d.logger.Info("posting withdrawn",
		zap.String("posting_id", postingID.String()),
		zap.String("author_id", actingUserID.String()),
	)
	return nil
}

func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
