package imports

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore_AppendJob(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO import_jobs")).
		WithArgs("j1", "p1", "s1", "numbers", "base.csv", 3, 2, 1, 1, "u1", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewPostgresStore(db, 100)
	err = store.AppendJob(context.Background(), Job{
		ID: "j1", ProjectID: "p1", SupplierID: "s1", Kind: KindNumbers, FileName: "base.csv",
		TotalRows: 3, InsertedRows: 2, SkippedRows: 1, DuplicateRows: 1, ActorUserID: "u1", CreatedAt: at,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListJobs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "project_id", "supplier_id", "kind", "file_name",
		"total_rows", "inserted_rows", "skipped_rows", "duplicate_rows", "actor_user_id", "created_at",
	}).AddRow("j2", "p1", "", "calls", "", 5, 5, 0, 0, "u1", at)
	mock.ExpectQuery(regexp.QuoteMeta("FROM import_jobs")).WithArgs("p1", 10).WillReturnRows(rows)

	store := NewPostgresStore(db, 100)
	jobs, err := store.ListJobs(context.Background(), "p1", 10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, KindCalls, jobs[0].Kind)
	assert.Equal(t, 5, jobs[0].InsertedRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
