package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/model"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/port/outbound"
)

// ========== Posting Adapter ==========

// PostingAdapter implements PostingDatabasePort.
type PostingAdapter struct {
	db *gorm.DB
}

// NewPostingAdapter creates a new posting adapter.
func NewPostingAdapter(db *gorm.DB) *PostingAdapter {
	return &PostingAdapter{db: db}
}

func (a *PostingAdapter) Create(ctx context.Context, posting *model.RecruitmentPosting) error {
	return translate(conn(ctx, a.db).Create(posting).Error)
}

func (a *PostingAdapter) FindByID(ctx context.Context, id uuid.UUID) (*model.RecruitmentPosting, error) {
	var posting model.RecruitmentPosting
	if err := conn(ctx, a.db).Where("id = ?", id).First(&posting).Error; err != nil {
		return nil, translate(err)
	}
	return &posting, nil
}

func (a *PostingAdapter) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.RecruitmentPosting, error) {
	var posting model.RecruitmentPosting
	err := conn(ctx, a.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&posting).Error
	if err != nil {
		return nil, translate(err)
	}
	return &posting, nil
}

func (a *PostingAdapter) FindByEvent(ctx context.Context, eventID uuid.UUID, createdAfter time.Time) ([]*model.RecruitmentPosting, error) {
	var postings []*model.RecruitmentPosting
	err := conn(ctx, a.db).
		Where("event_id = ? AND created_at > ?", eventID, createdAfter).
		Order("created_at DESC").
		Find(&postings).Error
	if err != nil {
		return nil, err
	}
	return postings, nil
}

func (a *PostingAdapter) FindCreatedBefore(ctx context.Context, threshold time.Time, limit int) ([]*model.RecruitmentPosting, error) {
	if limit <= 0 {
		limit = 500
	}

	var postings []*model.RecruitmentPosting
	err := conn(ctx, a.db).
		Where("created_at < ?", threshold).
		Order("created_at ASC").
		Limit(limit).
		Find(&postings).Error
	if err != nil {
		return nil, err
	}
	return postings, nil
}

func (a *PostingAdapter) FindByLinkedPod(ctx context.Context, podID uuid.UUID) ([]*model.RecruitmentPosting, error) {
	var postings []*model.RecruitmentPosting
	if err := conn(ctx, a.db).Where("linked_pod_id = ?", podID).Find(&postings).Error; err != nil {
		return nil, err
	}
	return postings, nil
}

func (a *PostingAdapter) ExistsConfirmedMember(ctx context.Context, eventID, userID uuid.UUID, excludePostingID *uuid.UUID) (bool, error) {
	q := conn(ctx, a.db).
		Model(&model.RecruitmentPosting{}).
		Where("event_id = ?", eventID).
		Where("(author_id = ? OR ? = ANY(confirmed_member_ids))", userID, userID.String())
	if excludePostingID != nil {
		q = q.Where("id <> ?", *excludePostingID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (a *PostingAdapter) AddConfirmedMember(ctx context.Context, postingID, userID uuid.UUID) error {
	member := userID.String()
	result := conn(ctx, a.db).
		Model(&model.RecruitmentPosting{}).
		Where("id = ? AND NOT (? = ANY(confirmed_member_ids))", postingID, member).
		Updates(map[string]interface{}{
			"confirmed_member_ids": gorm.Expr("array_append(confirmed_member_ids, ?)", member),
			"updated_at":           time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return a.requireExists(ctx, postingID)
	}
	return nil
}

func (a *PostingAdapter) SetLinkedPod(ctx context.Context, postingID, podID uuid.UUID) error {
	result := conn(ctx, a.db).
		Model(&model.RecruitmentPosting{}).
		Where("id = ? AND linked_pod_id IS NULL", postingID).
		Updates(map[string]interface{}{
			"linked_pod_id": podID,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	posting, err := a.FindByID(ctx, postingID)
	if err != nil {
		return err
	}
	if posting.LinkedPodID != nil && *posting.LinkedPodID == podID {
		return nil
	}
	return outbound.ErrConflict
}

func (a *PostingAdapter) CloseStale(ctx context.Context, threshold time.Time) (int64, error) {
	result := conn(ctx, a.db).
		Model(&model.RecruitmentPosting{}).
		Where("status = ? AND created_at < ?", model.PostingStatusOpen, threshold).
		Update("status", model.PostingStatusClosed)
	return result.RowsAffected, result.Error
}

func (a *PostingAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, a.db).Where("id = ?", id).Delete(&model.RecruitmentPosting{}).Error
}

func (a *PostingAdapter) requireExists(ctx context.Context, id uuid.UUID) error {
	var count int64
	err := conn(ctx, a.db).
		Model(&model.RecruitmentPosting{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return outbound.ErrNotFound
	}
	return nil
}

// ========== Application Adapter ==========

// ApplicationAdapter implements ApplicationDatabasePort.
type ApplicationAdapter struct {
	db *gorm.DB
}

// NewApplicationAdapter creates a new application adapter.
func NewApplicationAdapter(db *gorm.DB) *ApplicationAdapter {
	return &ApplicationAdapter{db: db}
}

// Create inserts an application. The partial unique index on
// (posting_id, applicant_id) for non-rejected rows reports duplicates.
func (a *ApplicationAdapter) Create(ctx context.Context, application *model.RecruitmentApplication) error {
	return translate(conn(ctx, a.db).Create(application).Error)
}

func (a *ApplicationAdapter) FindByID(ctx context.Context, id uuid.UUID) (*model.RecruitmentApplication, error) {
	var application model.RecruitmentApplication
	if err := conn(ctx, a.db).Where("id = ?", id).First(&application).Error; err != nil {
		return nil, translate(err)
	}
	return &application, nil
}

func (a *ApplicationAdapter) FindOpenByApplicant(ctx context.Context, postingID, applicantID uuid.UUID) (*model.RecruitmentApplication, error) {
	var application model.RecruitmentApplication
	err := conn(ctx, a.db).
		Where("posting_id = ? AND applicant_id = ? AND status <> ?", postingID, applicantID, model.ApplicationStatusRejected).
		First(&application).Error
	if err != nil {
		return nil, translate(err)
	}
	return &application, nil
}

func (a *ApplicationAdapter) FindByPosting(ctx context.Context, postingID uuid.UUID) ([]*model.RecruitmentApplication, error) {
	var applications []*model.RecruitmentApplication
	err := conn(ctx, a.db).
		Where("posting_id = ?", postingID).
		Order("created_at ASC").
		Find(&applications).Error
	if err != nil {
		return nil, err
	}
	return applications, nil
}

func (a *ApplicationAdapter) FindByApplicant(ctx context.Context, applicantID uuid.UUID, limit, offset int) ([]*model.RecruitmentApplication, error) {
	if limit <= 0 {
		limit = 20
	}

	var applications []*model.RecruitmentApplication
	err := conn(ctx, a.db).
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&applications).Error
	if err != nil {
		return nil, err
	}
	return applications, nil
}

func (a *ApplicationAdapter) FindAcceptedApplicants(ctx context.Context, postingID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := conn(ctx, a.db).
		Model(&model.RecruitmentApplication{}).
		Where("posting_id = ? AND status = ?", postingID, model.ApplicationStatusAccepted).
		Order("created_at ASC").
		Pluck("applicant_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (a *ApplicationAdapter) CountByPosting(ctx context.Context, postingID uuid.UUID) (int64, error) {
	var count int64
	err := conn(ctx, a.db).
		Model(&model.RecruitmentApplication{}).
		Where("posting_id = ?", postingID).
		Count(&count).Error
	return count, err
}

// Decide moves a pending application to its final status. The pending
// condition in the WHERE clause makes the transition happen at most once.
func (a *ApplicationAdapter) Decide(ctx context.Context, id uuid.UUID, decision outbound.ApplicationDecision) error {
	result := conn(ctx, a.db).
		Model(&model.RecruitmentApplication{}).
		Where("id = ? AND status = ?", id, model.ApplicationStatusPending).
		Updates(map[string]interface{}{
			"status":           decision.Status,
			"rejection_reason": decision.Reason,
			"rejection_note":   decision.Note,
			"decided_at":       decision.DecidedAt,
			"updated_at":       decision.DecidedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	err := conn(ctx, a.db).
		Model(&model.RecruitmentApplication{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return outbound.ErrNotFound
	}
	return outbound.ErrConflict
}

func (a *ApplicationAdapter) DeleteByPosting(ctx context.Context, postingID uuid.UUID) error {
	return conn(ctx, a.db).
		Where("posting_id = ?", postingID).
		Delete(&model.RecruitmentApplication{}).Error
}

// Compile-time interface checks
var (
	_ outbound.PostingDatabasePort     = (*PostingAdapter)(nil)
	_ outbound.ApplicationDatabasePort = (*ApplicationAdapter)(nil)
)
