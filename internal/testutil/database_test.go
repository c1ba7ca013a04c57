package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type liveBackend struct {
	name   string
	driver string
	skip   func(t *testing.T)
	setup  func(t *testing.T) *sql.DB
	clean  func(t *testing.T, db *sql.DB)
}

var liveBackends = []liveBackend{
	{name: "PostgreSQL", driver: "postgres", skip: SkipIfNoPostgres, setup: SetupPostgresDB, clean: CleanupPostgresDB},
	{name: "MySQL", driver: "mysql", skip: SkipIfNoMySQL, setup: SetupMySQLDB, clean: CleanupMySQLDB},
}

func TestBackendDSN(t *testing.T) {
	for _, b := range []backend{postgresBackend, mysqlBackend} {
		t.Run(b.driver, func(t *testing.T) {
			t.Setenv(b.dsnEnv, "")
			assert.Equal(t, b.defaultDSN, b.dsn())

			t.Setenv(b.dsnEnv, "custom-dsn")
			assert.Equal(t, "custom-dsn", b.dsn())
		})
	}

	t.Setenv("TEST_POSTGRES_DSN", "")
	t.Setenv("TEST_MYSQL_DSN", "")
	assert.Equal(t, defaultPostgresTestDSN, GetPostgresTestDSN())
	assert.Equal(t, defaultMySQLTestDSN, GetMySQLTestDSN())
}

func TestGetMigrationsPath(t *testing.T) {
	for _, dir := range []string{"postgresql", "mysql"} {
		t.Run(dir, func(t *testing.T) {
			path, err := getMigrationsPath(dir)
			require.NoError(t, err)
			assert.Equal(t, dir, filepath.Base(path))

			entries, err := os.ReadDir(path)
			require.NoError(t, err)
			assert.NotEmpty(t, entries)
		})
	}

	t.Run("Missing", func(t *testing.T) {
		path, err := getMigrationsPath("sqlite")
		assert.Error(t, err)
		assert.Empty(t, path)
	})
}

func TestGetMigrationsPath_FromNestedDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	root := filepath.Dir(filepath.Dir(nested))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "migrations", "postgresql"), 0o750))

	t.Chdir(nested)

	path, err := getMigrationsPath("postgresql")
	require.NoError(t, err)
	assert.Equal(t, "postgresql", filepath.Base(path))
}

func TestUUIDToDriverValue(t *testing.T) {
	id := uuid.Must(uuid.NewV7())

	value, err := uuidToDriverValue(id, "postgres")
	require.NoError(t, err)
	assert.Equal(t, id, value)

	value, err = uuidToDriverValue(id, "mysql")
	require.NoError(t, err)
	raw, ok := value.([]byte)
	require.True(t, ok)
	assert.Equal(t, id[:], raw)
}

func TestTeardownDB_Nil(t *testing.T) {
	assert.NotPanics(t, func() { TeardownDB(t, nil) })
}

func TestSetupAndCleanup(t *testing.T) {
	for _, b := range liveBackends {
		t.Run(b.name, func(t *testing.T) {
			b.skip(t)

			db := b.setup(t)
			defer TeardownDB(t, db)

			for _, table := range tables {
				assert.Zero(t, CountRows(t, db, table), table)
			}

			clientID := CreateTestClient(t, db, b.driver, "cleanup-client")
			assert.NotEqual(t, uuid.Nil, clientID)
			assert.Equal(t, 1, CountRows(t, db, "clients"))

			b.clean(t, db)
			assert.Zero(t, CountRows(t, db, "clients"))
		})
	}
}

func TestTeardownDB_Closes(t *testing.T) {
	SkipIfNoPostgres(t)

	db := SetupPostgresDB(t)
	TeardownDB(t, db)

	assert.Error(t, db.Ping())
}
