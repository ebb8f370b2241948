package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/adventurelog/uploadsync/internal/common"
	"github.com/adventurelog/uploadsync/internal/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_InsertsPendingRow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	createdAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	intent := &models.UploadIntent{
		LocalID:      "l1",
		UserID:       "u1",
		ResourceType: common.ResourceTypeAlbum,
		Payload:      models.AlbumPayload{Title: "Lisbon", PhotoCount: 2},
		Files: []models.FileDescriptor{
			{LocalPath: "a.jpg", MimeType: "image/jpeg", Size: 10, OrderIndex: 0},
			{LocalPath: "b.jpg", MimeType: "image/jpeg", Size: 20, OrderIndex: 1},
		},
		Status:    models.StatusPending,
		CreatedAt: createdAt,
	}

	payload, _ := json.Marshal(intent.Payload)
	files, _ := json.Marshal(intent.Files)

	mock.ExpectExec(`(?s)INSERT INTO upload_queue .*VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8\)`).
		WithArgs("l1", "u1", "album", payload, files, "pending", 0, createdAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), intent); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func intentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"local_id", "user_id", "resource_type", "payload", "files", "status",
		"retry_count", "error_message", "remote_album_id", "remote_photo_ids",
		"created_at", "upload_started_at", "upload_completed_at",
	})
}

func TestListActive_ScansRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	payload, _ := json.Marshal(models.AlbumPayload{Title: "Porto", PhotoCount: 1})
	files, _ := json.Marshal([]models.FileDescriptor{{LocalPath: "p.jpg", OrderIndex: 0}})
	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	started := created.Add(time.Minute)

	mock.ExpectQuery(`(?s)SELECT .* FROM upload_queue.*WHERE user_id=\$1 AND status IN \('pending', 'uploading'\).*ORDER BY created_at`).
		WithArgs("u1").
		WillReturnRows(intentRows().
			AddRow("l1", "u1", "album", payload, files, "pending", 0, nil, nil, nil, created, nil, nil).
			AddRow("l2", "u1", "album", payload, files, "uploading", 1, "net down", nil, nil, created, started, nil))

	got, err := repo.ListActive(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].Status != models.StatusPending || got[1].Status != models.StatusUploading {
		t.Fatalf("unexpected statuses: %v %v", got[0].Status, got[1].Status)
	}
	if got[0].Payload.Title != "Porto" {
		t.Fatalf("payload not decoded: %+v", got[0].Payload)
	}
	if got[1].ErrorMessage != "net down" || got[1].RetryCount != 1 {
		t.Fatalf("failure fields not decoded: %+v", got[1])
	}
	if got[1].UploadStartedAt == nil || !got[1].UploadStartedAt.Equal(started) {
		t.Fatalf("upload_started_at not decoded: %+v", got[1].UploadStartedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMarkCompleted_WritesIdentifiers(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	doneAt := time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)
	encoded, _ := json.Marshal([]string{"p1", "p2"})

	mock.ExpectExec(`(?s)UPDATE upload_queue.*SET status='completed', remote_album_id=\$2, remote_photo_ids=\$3,.*error_message=NULL, upload_completed_at=\$4.*WHERE local_id=\$1`).
		WithArgs("l1", "a1", encoded, doneAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkCompleted(context.Background(), "l1", "a1", []string{"p1", "p2"}, doneAt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMarkFailed_IncrementsRetryCount(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)UPDATE upload_queue.*SET status='failed', error_message=\$2, retry_count=retry_count\+1.*WHERE local_id=\$1`).
		WithArgs("l1", "upload failed").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkFailed(context.Background(), "l1", "upload failed"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMarkUploading_WrongRowsAffected(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE upload_queue SET status='uploading', upload_started_at=\$2 WHERE local_id=\$1`).
		WithArgs("missing", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkUploading(context.Background(), "missing", time.Now())
	if err == nil {
		t.Fatal("expected error for zero rows affected")
	}
}

func TestResetToPending_OnlyFailedRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)UPDATE upload_queue.*SET status='pending', error_message=NULL.*WHERE local_id=\$1 AND user_id=\$2 AND status='failed'`).
		WithArgs("l1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.ResetToPending(context.Background(), "l1", "u1")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}
