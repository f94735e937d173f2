package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "Add Subscriptions Table")
	require.NoError(t, err)

	assert.Contains(t, filepath.Base(mf.UpPath), "add_subscriptions_table.up.sql")
	assert.Contains(t, filepath.Base(mf.DownPath), "add_subscriptions_table.down.sql")

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "Add Subscriptions Table")

	_, err = os.Stat(mf.DownPath)
	require.NoError(t, err)
}

func TestCreateMigrationCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := CreateMigration(dir, "init")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Add Users Table", "add_users_table"},
		{"add-plan-prices", "add_plan_prices"},
		{"  spaced  out  ", "spaced_out"},
		{"Already_Snake_99", "already_snake_99"},
		{"weird!@#chars", "weirdchars"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeName(tt.in), tt.in)
	}
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	_, err := CreateMigration(dir, "first")
	require.NoError(t, err)
	_, err = CreateMigration(dir, "second")
	require.NoError(t, err)

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Len(t, migrations, 2)
}

func TestListMigrationsMissingDirectory(t *testing.T) {
	migrations, err := ListMigrations(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, migrations)
}
