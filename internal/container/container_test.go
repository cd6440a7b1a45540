package container

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"polysynth/domain/core"
	"polysynth/internal"
	"polysynth/internal/config"
	"polysynth/internal/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	return &config.Config{
		Seed: 4,
		Categorical: config.CategoricalConfig{
			Fraction: 0.3,
		},
		Output: config.OutputConfig{
			DatasetsDir: filepath.Join(root, "datasets"),
			MetadataDir: filepath.Join(root, "metadata"),
			Format:      config.FormatCSV,
		},
	}
}

func TestNew(t *testing.T) {
	c, err := New(testConfig(t), internal.NewLogger(internal.LogLevelError))
	require.NoError(t, err)

	assert.NotNil(t, c.Artifacts)
	assert.NotNil(t, c.Migrator)
	assert.NotNil(t, c.Generator(1))
	assert.Nil(t, c.Catalog)
	assert.Equal(t, uint64(4), c.Seed)
	assert.Equal(t, uint64(4), c.RunSeed(1))
	assert.Equal(t, uint64(5), c.RunSeed(2))
	assert.NoError(t, c.Close())

	_, err = New(nil, nil)
	assert.Error(t, err)
}

func TestInitWithDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS synthetic_datasets")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	for i := 0; i < 3; i++ {
		mock.ExpectExec("CREATE INDEX").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectClose()

	c, err := New(testConfig(t), internal.NewLogger(internal.LogLevelError))
	require.NoError(t, err)

	require.NoError(t, c.InitWithDatabase(context.Background(), sqlx.NewDb(db, "postgres")))
	assert.NotNil(t, c.Catalog)
	assert.NoError(t, c.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

type failingMigrator struct{}

func (failingMigrator) Run(ctx context.Context, db *sqlx.DB) error {
	return errors.DatabaseError("failed to create catalog table", assert.AnError)
}

func (failingMigrator) Version() string { return "test" }

func TestInitWithDatabase_MigrationFailure(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	c, err := New(testConfig(t), internal.NewLogger(internal.LogLevelError))
	require.NoError(t, err)
	c.Migrator = failingMigrator{}

	err = c.InitWithDatabase(context.Background(), sqlx.NewDb(db, "postgres"))
	assert.Equal(t, errors.CodeDatabaseError, errors.GetCode(err))
	assert.Nil(t, c.Catalog)
	assert.Nil(t, c.DB)
}

func runConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := testConfig(t)
	cfg.Rows = 200
	cfg.Runs = 2
	cfg.Workers = 2
	cfg.BaseName = "poly"
	cfg.Polynomial = config.PolynomialConfig{
		MinVars:     3,
		MaxVars:     6,
		MinDegree:   1,
		MaxDegree:   3,
		MaxTerms:    4,
		MinCoef:     -10,
		MaxCoef:     10,
		MaxAttempts: 10,
	}
	cfg.Targets = config.TargetsConfig{Linear: true}
	cfg.Categorical.None = true
	return cfg
}

func TestGenerator_EachRunReplaysFromItsManifestSeed(t *testing.T) {
	ctx := context.Background()
	c, err := New(runConfig(t), internal.NewLogger(internal.LogLevelError))
	require.NoError(t, err)

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	first, err := c.Generator(1).Run(ctx, core.NewExecutionID(at, 1))
	require.NoError(t, err)
	second, err := c.Generator(2).Run(ctx, core.NewExecutionID(at, 2))
	require.NoError(t, err)

	assert.Equal(t, uint64(4), first.Manifest.Fingerprint.Seed)
	assert.Equal(t, uint64(5), second.Manifest.Fingerprint.Seed)
	assert.NotEqual(t, first.Manifest.Expression, second.Manifest.Expression)

	// a fresh process seeded from run 2's manifest draws run 2's polynomial
	replayCfg := runConfig(t)
	replayCfg.Seed = second.Manifest.Fingerprint.Seed
	replay, err := New(replayCfg, internal.NewLogger(internal.LogLevelError))
	require.NoError(t, err)

	again, err := replay.Generator(1).Run(ctx, core.NewExecutionID(at, 3))
	require.NoError(t, err)
	assert.Equal(t, second.Manifest.Expression, again.Manifest.Expression)
	assert.Equal(t, second.Manifest.Fingerprint.Fingerprint, again.Manifest.Fingerprint.Fingerprint)
}

func TestConnect_RequiresURL(t *testing.T) {
	c, err := New(testConfig(t), nil)
	require.NoError(t, err)

	err = c.Connect(context.Background())
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}
