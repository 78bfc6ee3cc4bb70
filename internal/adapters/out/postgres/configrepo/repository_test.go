package configrepo_test

import (
	"regexp"
	"testing"
	"time"

	"pickup/internal/adapters/out/postgres/configrepo"
	"pickup/internal/core/domain/model/apiconfig"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mockSQL, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mockSQL
}

var columns = []string{
	"id", "name", "app_key", "app_secret", "access_code", "provider_id", "api_gateway", "valid", "created_at",
}

func TestGormConfigRepository_FindValid(t *testing.T) {
	db, mockSQL := newMockDB(t)
	core, logs := observer.New(zap.WarnLevel)
	repo := configrepo.NewGormConfigRepository(db, zap.New(core))

	goodID, badID := uuid.New(), uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows(columns).
		AddRow(goodID, "main", "key", "s3cr3t", "access", "provider", "https://gw.example.com/link", true, now).
		AddRow(badID, "broken", "", "", "", "", "", true, now)

	mockSQL.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "provider_configs" WHERE valid = $1 ORDER BY created_at, id`)).
		WithArgs(true).
		WillReturnRows(rows)

	got, err := repo.FindValid(t.Context())

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, goodID.String(), got[0].ID().String())
	assert.Equal(t, "https://gw.example.com/link", got[0].APIGateway())
	assert.True(t, got[0].Usable())
	assert.Equal(t, 1, logs.FilterMessage("skipping malformed provider config").Len())
	require.NoError(t, mockSQL.ExpectationsWereMet())
}

func TestGormConfigRepository_Add(t *testing.T) {
	db, mockSQL := newMockDB(t)
	repo := configrepo.NewGormConfigRepository(db, zap.NewNop())

	cfg, err := apiconfig.NewConfig(apiconfig.Params{
		Name:       "main",
		AppSecret:  "s3cr3t",
		ProviderID: "provider",
		APIGateway: "https://gw.example.com/link",
		Valid:      true,
	})
	require.NoError(t, err)

	mockSQL.ExpectExec(regexp.QuoteMeta(`INSERT INTO "provider_configs"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Add(t.Context(), cfg))
	require.NoError(t, mockSQL.ExpectationsWereMet())
}

func TestGormConfigRepository_AddRejectsUnconstructed(t *testing.T) {
	db, _ := newMockDB(t)
	repo := configrepo.NewGormConfigRepository(db, zap.NewNop())

	assert.ErrorIs(t, repo.Add(t.Context(), &apiconfig.Config{}), apiconfig.ErrConfigIsNotConstructed)
}
