package testhelpers

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/poi-service/internal/domain/repository"
	"github.com/poi-service/internal/repository/postgres"
	"go.uber.org/zap"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewUploadRepositoryForTest applies migrations and creates an upload repository
func NewUploadRepositoryForTest(ctx context.Context, db *sqlx.DB, logger *zap.Logger) (repository.UploadRepository, error) {
	pgDB := NewDBForTest(db, logger)
	if err := pgDB.Migrate(ctx); err != nil {
		return nil, err
	}
	return postgres.NewUploadRepository(pgDB), nil
}

// NewEventRepositoryForTest applies migrations and creates a dataset event repository
func NewEventRepositoryForTest(ctx context.Context, db *sqlx.DB, logger *zap.Logger) (repository.DatasetEventRepository, error) {
	pgDB := NewDBForTest(db, logger)
	if err := pgDB.Migrate(ctx); err != nil {
		return nil, err
	}
	return postgres.NewEventRepository(pgDB), nil
}
