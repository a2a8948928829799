package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/model"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/port/outbound"
)

// ========== Pod Adapter ==========

// PodAdapter implements PodDatabasePort.
type PodAdapter struct {
	db *gorm.DB
}

// NewPodAdapter creates a new pod adapter.
func NewPodAdapter(db *gorm.DB) *PodAdapter {
	return &PodAdapter{db: db}
}

func (a *PodAdapter) Create(ctx context.Context, pod *model.Pod) error {
	return translate(conn(ctx, a.db).Create(pod).Error)
}

func (a *PodAdapter) FindByID(ctx context.Context, id uuid.UUID) (*model.Pod, error) {
	var pod model.Pod
	if err := conn(ctx, a.db).Where("id = ?", id).First(&pod).Error; err != nil {
		return nil, translate(err)
	}
	return &pod, nil
}

func (a *PodAdapter) FindByLinkedPosting(ctx context.Context, postingID uuid.UUID) (*model.Pod, error) {
	var pod model.Pod
	err := conn(ctx, a.db).
		Where("linked_posting_id = ?", postingID).
		Order("created_at ASC").
		First(&pod).Error
	if err != nil {
		return nil, translate(err)
	}
	return &pod, nil
}

func (a *PodAdapter) ExistsMember(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	var count int64
	err := conn(ctx, a.db).
		Model(&model.Pod{}).
		Where("event_id = ? AND status = ? AND ? = ANY(member_ids)", eventID, model.PodStatusActive, userID.String()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (a *PodAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, a.db).Where("id = ?", id).Delete(&model.Pod{}).Error
}

// ========== Pod Message Adapter ==========

// PodMessageAdapter implements PodMessageDatabasePort.
type PodMessageAdapter struct {
	db *gorm.DB
}

// NewPodMessageAdapter creates a new pod message adapter.
func NewPodMessageAdapter(db *gorm.DB) *PodMessageAdapter {
	return &PodMessageAdapter{db: db}
}

func (a *PodMessageAdapter) DeleteByPod(ctx context.Context, podID uuid.UUID) (int64, error) {
	result := conn(ctx, a.db).Where("pod_id = ?", podID).Delete(&model.PodMessage{})
	return result.RowsAffected, result.Error
}

// Compile-time interface checks
var (
	_ outbound.PodDatabasePort        = (*PodAdapter)(nil)
	_ outbound.PodMessageDatabasePort = (*PodMessageAdapter)(nil)
)
