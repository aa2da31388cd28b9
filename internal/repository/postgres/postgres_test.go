package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poi-service/internal/repository/postgres/testhelpers"
)

func TestMigrate_RecordsVersionsOnce(t *testing.T) {
	tdb := testhelpers.SetupTestDB(t)
	defer tdb.Close()

	ctx := context.Background()
	db := testhelpers.NewDBForTest(tdb.DB, tdb.Logger)

	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.Migrate(ctx))

	var versions []string
	require.NoError(t, tdb.DB.SelectContext(ctx, &versions, "SELECT version FROM schema_migrations ORDER BY version"))
	assert.Equal(t, []string{
		"001_create_poi_uploads.up.sql",
		"002_create_poi_dataset_events.up.sql",
	}, versions)
}
