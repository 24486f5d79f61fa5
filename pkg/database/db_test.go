package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebindDollar(t *testing.T) {
	got := rebindDollar("SELECT * FROM users WHERE email = ? AND note = 'why?' AND id = ?")
	assert.Equal(t, "SELECT * FROM users WHERE email = $1 AND note = 'why?' AND id = $2", got)
}

func TestRebindLeavesSQLiteAlone(t *testing.T) {
	db := &DB{Dialect: SQLite}
	assert.Equal(t, "SELECT ?", db.Rebind("SELECT ?"))
}

func TestExtractUpMigration(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a (id INT);\n-- +migrate Down\nDROP TABLE a;\n"
	assert.Equal(t, "\nCREATE TABLE a (id INT);\n", ExtractUpMigration(content))
	assert.Equal(t, "CREATE TABLE b;", ExtractUpMigration("CREATE TABLE b;"))
}

func TestOpenSQLiteAppliesMigrationsOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "safarway.db")

	db, err := OpenSQLite(ctx, path)
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
	require.NoError(t, db.Close())

	// reopening must not re-run the schema
	db, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)

	_, err = db.ExecContext(ctx, "SELECT id, email, agency_id FROM users")
	assert.NoError(t, err)
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	_, err := OpenSQLite(context.Background(), "  ")
	assert.Error(t, err)
}
