package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/model"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/port/outbound"
)

func TestPodAdapter_ExistsMember(t *testing.T) {
	db, mock := newMockDB(t)
	adapter := NewPodAdapter(db)
	eventID, userID := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "pods" WHERE event_id = \$1 AND status = \$2 AND \$3 = ANY\(member_ids\)`).
		WithArgs(eventID, model.PodStatusActive, userID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := adapter.ExistsMember(context.Background(), eventID, userID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPodAdapter_FindByLinkedPosting(t *testing.T) {
	db, mock := newMockDB(t)
	adapter := NewPodAdapter(db)

	mock.ExpectQuery(`SELECT \* FROM "pods" WHERE linked_posting_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := adapter.FindByLinkedPosting(context.Background(), uuid.New())
	assert.ErrorIs(t, err, outbound.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPodMessageAdapter_DeleteByPod(t *testing.T) {
	db, mock := newMockDB(t)
	adapter := NewPodMessageAdapter(db)
	podID := uuid.New()

	mock.ExpectExec(`DELETE FROM "pod_messages" WHERE pod_id = \$1`).
		WithArgs(podID).
		WillReturnResult(sqlmock.NewResult(0, 7))

	n, err := adapter.DeleteByPod(context.Background(), podID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionAdapter(t *testing.T) {
	ctx := context.Background()

	t.Run("nested calls join the outer transaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		txAdapter := NewTransactionAdapter(db)
		postings := NewPostingAdapter(db)
		id := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec(`SELECT pg_advisory_xact_lock\(hashtext\(\$1\)\)`).
			WithArgs("recruitment:member:x").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM "recruitment_postings" WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := txAdapter.RunInTransaction(ctx, func(txCtx context.Context) error {
			if err := txAdapter.LockKey(txCtx, "recruitment:member:x"); err != nil {
				return err
			}
			return txAdapter.RunInTransaction(txCtx, func(inner context.Context) error {
				return postings.Delete(inner, id)
			})
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error rolls back", func(t *testing.T) {
		db, mock := newMockDB(t)
		txAdapter := NewTransactionAdapter(db)

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := txAdapter.RunInTransaction(ctx, func(context.Context) error {
			return outbound.ErrConflict
		})
		assert.ErrorIs(t, err, outbound.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lock outside a transaction is a no-op", func(t *testing.T) {
		db, mock := newMockDB(t)
		txAdapter := NewTransactionAdapter(db)

		require.NoError(t, txAdapter.LockKey(ctx, "recruitment:member:y"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
