package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophvault/internal/logging"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestOpen_CreatesSchema(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "vault.db")

	db, err := Open(ctx, dsn, logging.Nop())
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"goose_db_version", "users", "logins", "notes", "financial_cards", "identity_cards", "tags"} {
		assert.True(t, tableExists(t, db, table), table)
	}
}

func TestOpen_EnforcesForeignKeys(t *testing.T) {
	ctx := context.Background()

	db, err := Open(ctx, ":memory:", logging.Nop())
	require.NoError(t, err)
	defer db.Close()

	var on int
	require.NoError(t, db.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&on))
	assert.Equal(t, 1, on)

	_, err = db.ExecContext(ctx, `INSERT INTO notes(id, created_by, name) VALUES ('n1', 'nobody', 'x')`)
	require.Error(t, err)
}

func TestMigrate_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "vault.db")

	db, err := Open(ctx, dsn, logging.Nop())
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(ctx, db, logging.Nop()))
	assert.True(t, tableExists(t, db, "logins"))
}

func TestOpen_MigrationFailure(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	boom := errors.New("boom")
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return boom
	}

	_, err := Open(context.Background(), ":memory:", logging.Nop())
	require.ErrorIs(t, err, boom)
}

func TestWithForeignKeys(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"vault.db", "vault.db?_pragma=foreign_keys(1)"},
		{"file:v.db?mode=rwc", "file:v.db?mode=rwc&_pragma=foreign_keys(1)"},
		{"v.db?_pragma=foreign_keys(0)", "v.db?_pragma=foreign_keys(0)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, withForeignKeys(tt.in))
	}
}

func TestIsUniqueViolation(t *testing.T) {
	db, err := Open(context.Background(), ":memory:", logging.Nop())
	require.NoError(t, err)
	defer db.Close()

	insert := `INSERT INTO users (id, name, email, password_hash) VALUES (?, 'n', ?, 'h')`
	_, err = db.Exec(insert, "u1", "a@example.com")
	require.NoError(t, err)

	_, err = db.Exec(insert, "u2", "a@example.com")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err), "duplicate email")

	_, err = db.Exec(insert, "u1", "b@example.com")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err), "duplicate id")

	_, err = db.Exec(`INSERT INTO users (id, email, password_hash) VALUES ('u3', 'c@example.com', 'h')`)
	require.Error(t, err)
	assert.False(t, IsUniqueViolation(err), "NOT NULL is a different constraint")

	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(nil))
}
