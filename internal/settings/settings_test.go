package settings

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCPLThresholds_DefaultsPerKey(t *testing.T) {
	got := ResolveCPLThresholds(map[string]string{
		KeyCPLTargetA: " 450,5 ",
		KeyCPLTargetB: "not-a-number",
		KeyCPLTargetC: "-1",
	})
	assert.True(t, got.A.Equal(decimal.RequireFromString("450.5")))
	assert.True(t, got.B.Equal(DefaultCPLTargetB))
	assert.True(t, got.C.Equal(DefaultCPLTargetC))
}

func TestResolveCPLThresholds_EmptyStoreUsesDefaults(t *testing.T) {
	got := ResolveCPLThresholds(nil)
	assert.Equal(t, "500", got.A.String())
	assert.Equal(t, "1000", got.B.String())
	assert.Equal(t, "2000", got.C.String())
}

func TestRepository_CPLThresholds(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM app_settings")).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).
			AddRow(KeyCPLTargetA, "300").
			AddRow(KeyCPLTargetC, nil))

	got, err := NewRepository(db).CPLThresholds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "300", got.A.String())
	assert.Equal(t, "1000", got.B.String())
	assert.Equal(t, "2000", got.C.String())
}
