package commands

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suhelali14/SafarWay-sub004/internal/auth"
	"github.com/suhelali14/SafarWay-sub004/internal/domain"
	"github.com/suhelali14/SafarWay-sub004/internal/store"
	"github.com/suhelali14/SafarWay-sub004/pkg/database"
)

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "admin.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	st := store.New(db)

	created, err := ensureAdmin(ctx, st, "root@safarway.com", "Root", "first-pass", false)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, created.Role)

	again, err := ensureAdmin(ctx, st, "root@safarway.com", "Root", "second-pass", false)
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
	stored, err := st.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword("first-pass", stored.PasswordHash))

	reset, err := ensureAdmin(ctx, st, "ROOT@safarway.com", "Root", "second-pass", true)
	require.NoError(t, err)
	assert.Equal(t, created.ID, reset.ID)
	stored, err = st.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword("second-pass", stored.PasswordHash))
	assert.False(t, auth.CheckPassword("first-pass", stored.PasswordHash))
}
