package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/model"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/port/outbound"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestPostingAdapter_FindByID(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		adapter := NewPostingAdapter(db)

		mock.ExpectQuery(`SELECT \* FROM "recruitment_postings" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title", "max_team_size"}).
				AddRow(id.String(), "Hackathon crew", 4))

		posting, err := adapter.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, posting.ID)
		assert.Equal(t, "Hackathon crew", posting.Title)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		adapter := NewPostingAdapter(db)

		mock.ExpectQuery(`SELECT \* FROM "recruitment_postings" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := adapter.FindByID(ctx, id)
		assert.ErrorIs(t, err, outbound.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostingAdapter_FindByIDForUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	adapter := NewPostingAdapter(db)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "recruitment_postings" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id.String()))

	posting, err := adapter.FindByIDForUpdate(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, posting.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostingAdapter_SetLinkedPod(t *testing.T) {
	ctx := context.Background()
	postingID := uuid.New()
	podID := uuid.New()

	t.Run("first link wins", func(t *testing.T) {
		db, mock := newMockDB(t)
		adapter := NewPostingAdapter(db)

		mock.ExpectExec(`UPDATE "recruitment_postings" SET .* WHERE id = \$\d+ AND linked_pod_id IS NULL`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, adapter.SetLinkedPod(ctx, postingID, podID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("same pod is idempotent", func(t *testing.T) {
		db, mock := newMockDB(t)
		adapter := NewPostingAdapter(db)

		mock.ExpectExec(`UPDATE "recruitment_postings" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "recruitment_postings" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "linked_pod_id"}).
				AddRow(postingID.String(), podID.String()))

		require.NoError(t, adapter.SetLinkedPod(ctx, postingID, podID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other pod conflicts", func(t *testing.T) {
		db, mock := newMockDB(t)
		adapter := NewPostingAdapter(db)

		mock.ExpectExec(`UPDATE "recruitment_postings" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "recruitment_postings" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "linked_pod_id"}).
				AddRow(postingID.String(), uuid.New().String()))

		err := adapter.SetLinkedPod(ctx, postingID, podID)
		assert.ErrorIs(t, err, outbound.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing posting", func(t *testing.T) {
		db, mock := newMockDB(t)
		adapter := NewPostingAdapter(db)

		mock.ExpectExec(`UPDATE "recruitment_postings" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "recruitment_postings" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		err := adapter.SetLinkedPod(ctx, postingID, podID)
		assert.ErrorIs(t, err, outbound.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostingAdapter_ExistsConfirmedMember(t *testing.T) {
	ctx := context.Background()
	eventID := uuid.New()
	userID := uuid.New()

	t.Run("member elsewhere", func(t *testing.T) {
		db, mock := newMockDB(t)
		adapter := NewPostingAdapter(db)
		exclude := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "recruitment_postings" WHERE event_id = \$1 AND \(\(author_id = \$2 OR \$3 = ANY\(confirmed_member_ids\)\)\) AND id <> \$4`).
			WithArgs(eventID, userID, userID.String(), exclude).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		ok, err := adapter.ExistsConfirmedMember(ctx, eventID, userID, &exclude)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("free", func(t *testing.T) {
		db, mock := newMockDB(t)
		adapter := NewPostingAdapter(db)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "recruitment_postings"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		ok, err := adapter.ExistsConfirmedMember(ctx, eventID, userID, nil)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostingAdapter_AddConfirmedMember(t *testing.T) {
	ctx := context.Background()

	t.Run("appended", func(t *testing.T) {
		db, mock := newMockDB(t)
		adapter := NewPostingAdapter(db)

		mock.ExpectExec(`UPDATE "recruitment_postings" SET .*array_append`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, adapter.AddConfirmedMember(ctx, uuid.New(), uuid.New()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already present", func(t *testing.T) {
		db, mock := newMockDB(t)
		adapter := NewPostingAdapter(db)

		mock.ExpectExec(`UPDATE "recruitment_postings" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "recruitment_postings" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		require.NoError(t, adapter.AddConfirmedMember(ctx, uuid.New(), uuid.New()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing posting", func(t *testing.T) {
		db, mock := newMockDB(t)
		adapter := NewPostingAdapter(db)

		mock.ExpectExec(`UPDATE "recruitment_postings" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "recruitment_postings" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		err := adapter.AddConfirmedMember(ctx, uuid.New(), uuid.New())
		assert.ErrorIs(t, err, outbound.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostingAdapter_CloseStale(t *testing.T) {
	db, mock := newMockDB(t)
	adapter := NewPostingAdapter(db)
	threshold := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE "recruitment_postings" SET "status"=\$1.* WHERE status = \$\d+ AND created_at < \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := adapter.CloseStale(context.Background(), threshold)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationAdapter_Create(t *testing.T) {
	t.Run("duplicate open application", func(t *testing.T) {
		db, mock := newMockDB(t)
		adapter := NewApplicationAdapter(db)

		mock.ExpectQuery(`INSERT INTO "recruitment_applications"`).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := adapter.Create(context.Background(), &model.RecruitmentApplication{
			PostingID:   uuid.New(),
			ApplicantID: uuid.New(),
			Status:      model.ApplicationStatusPending,
		})
		assert.ErrorIs(t, err, outbound.ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error passes through", func(t *testing.T) {
		db, mock := newMockDB(t)
		adapter := NewApplicationAdapter(db)
		dbErr := errors.New("connection reset")

		mock.ExpectQuery(`INSERT INTO "recruitment_applications"`).
			WillReturnError(dbErr)

		err := adapter.Create(context.Background(), &model.RecruitmentApplication{
			PostingID:   uuid.New(),
			ApplicantID: uuid.New(),
		})
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestApplicationAdapter_Decide(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	decision := outbound.ApplicationDecision{
		Status:    model.ApplicationStatusAccepted,
		DecidedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	t.Run("pending application decided", func(t *testing.T) {
		db, mock := newMockDB(t)
		adapter := NewApplicationAdapter(db)

		mock.ExpectExec(`UPDATE "recruitment_applications" SET .* WHERE id = \$\d+ AND status = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, adapter.Decide(ctx, id, decision))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already decided", func(t *testing.T) {
		db, mock := newMockDB(t)
		adapter := NewApplicationAdapter(db)

		mock.ExpectExec(`UPDATE "recruitment_applications" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "recruitment_applications" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err := adapter.Decide(ctx, id, decision)
		assert.ErrorIs(t, err, outbound.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing application", func(t *testing.T) {
		db, mock := newMockDB(t)
		adapter := NewApplicationAdapter(db)

		mock.ExpectExec(`UPDATE "recruitment_applications" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "recruitment_applications" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		err := adapter.Decide(ctx, id, decision)
		assert.ErrorIs(t, err, outbound.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestApplicationAdapter_FindAcceptedApplicants(t *testing.T) {
	db, mock := newMockDB(t)
	adapter := NewApplicationAdapter(db)
	postingID := uuid.New()
	first, second := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT "applicant_id" FROM "recruitment_applications" WHERE posting_id = \$1 AND status = \$2`).
		WithArgs(postingID, model.ApplicationStatusAccepted).
		WillReturnRows(sqlmock.NewRows([]string{"applicant_id"}).
			AddRow(first.String()).
			AddRow(second.String()))

	ids, err := adapter.FindAcceptedApplicants(context.Background(), postingID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first, second}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
