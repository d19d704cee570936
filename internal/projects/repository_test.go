package projects

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_ListByIDsUsesArrayParam(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = ANY($1)")).
		WithArgs("{\"p1\",\"p2\"}").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "has_gck", "created_at"}).
			AddRow("p1", "Alpha", true, now).
			AddRow("p2", "Beta", false, now))

	out, err := NewRepository(db).List(context.Background(), []string{"p1", "p2"})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.True(t, out[0].HasGck)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListEmptyScopeSkipsQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	out, err := NewRepository(db).List(context.Background(), []string{})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}
