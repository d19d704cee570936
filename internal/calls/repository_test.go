package calls

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var callColumns = []string{
	"id", "project_id", "phone_normalized", "phone_raw", "status", "is_lead", "call_at",
	"duration_seconds", "call_list", "end_reason", "call_attempt_number",
	"external_call_id", "supplier_number_id", "created_at",
}

func TestRepository_ListByProjectPagesUntilShortPage(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := NewRepository(db, 2)

	mock.ExpectQuery(regexp.QuoteMeta("FROM calls")).
		WithArgs("p1", int64(0), 2).
		WillReturnRows(sqlmock.NewRows(callColumns).
			AddRow(1, "p1", "79990000001", "8 999 000-00-01", "Успешный", true, at, 120, "list-a", nil, 1, "ext-1", 10, at).
			AddRow(2, "p1", "79990000002", "9990000002", nil, false, at, 0, nil, "busy", 1, "ext-2", nil, at))
	mock.ExpectQuery(regexp.QuoteMeta("FROM calls")).
		WithArgs("p1", int64(2), 2).
		WillReturnRows(sqlmock.NewRows(callColumns).
			AddRow(3, "p1", "79990000003", "79990000003", "Ответ", false, at, 30, "", nil, 2, "ext-3", nil, at))

	out, err := repo.ListByProject(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, "Успешный", out[0].Status)
	assert.Equal(t, "list-a", out[0].CallList)
	require.NotNil(t, out[0].SupplierNumberID)
	assert.Equal(t, int64(10), *out[0].SupplierNumberID)

	assert.Equal(t, "", out[1].Status)
	assert.Equal(t, "busy", out[1].EndReason)
	assert.Nil(t, out[1].SupplierNumberID)

	assert.Equal(t, int64(3), out[2].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_InsertBatchCountsInsertedRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := NewRepository(db, 0)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO calls")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO calls")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	n, err := repo.InsertBatch(context.Background(), []Call{
		{ProjectID: "p1", PhoneNormalized: "79990000001", ExternalCallID: "a", CallAt: at},
		{ProjectID: "p1", PhoneNormalized: "79990000001", ExternalCallID: "a", CallAt: at},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCall_DateUsesStoredLocation(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	c := Call{CallAt: time.Date(2024, 3, 1, 1, 30, 0, 0, loc)}
	if got := c.Date(); got != "2024-03-01" {
		t.Fatalf("expected 2024-03-01, got %q", got)
	}
}

func TestRepository_ListByProjectReturnsStoredWallClock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// A driver may hand the value back in any location; the date must not move.
	msk := time.FixedZone("MSK", 3*60*60)
	scanned := time.Date(2024, 3, 1, 1, 30, 0, 0, msk)
	mock.ExpectQuery(regexp.QuoteMeta("FROM calls")).
		WithArgs("p1", int64(0), 10).
		WillReturnRows(sqlmock.NewRows(callColumns).
			AddRow(1, "p1", "79990000001", "79990000001", "answered", false, scanned, 10, nil, nil, 1, "ext-1", nil, scanned))

	out, err := NewRepository(db, 10).ListByProject(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, "2024-03-01", out[0].Date())
	assert.Equal(t, time.UTC, out[0].CallAt.Location())
	assert.Equal(t, 1, out[0].CallAt.Hour())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_InsertBatchWritesWallClock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	msk := time.FixedZone("MSK", 3*60*60)
	at := time.Date(2024, 3, 1, 1, 30, 0, 0, msk)
	want := time.Date(2024, 3, 1, 1, 30, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO calls")).
		WithArgs("p1", "79990000001", "", "", false, want, 0, "", "", 1, "a").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	n, err := NewRepository(db, 0).InsertBatch(context.Background(), []Call{
		{ProjectID: "p1", PhoneNormalized: "79990000001", ExternalCallID: "a", CallAt: at, CallAttemptNumber: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWallClock(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	got := WallClock(time.Date(2024, 2, 29, 23, 59, 0, 0, msk))
	if got.Location() != time.UTC || got.Format("2006-01-02 15:04") != "2024-02-29 23:59" {
		t.Fatalf("unexpected wall clock %v", got)
	}
	if !WallClock(time.Time{}).IsZero() {
		t.Fatalf("zero time must stay zero")
	}
}
