package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rescuelink/emergency-data-api/internal/model"
)

// testDB opens the database named by TEST_DATABASE_DSN, or skips. These
// tests need a real MySQL because the primary-address invariant lives in
// transactional SQL, not in Go.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Ping())
	return db
}

func seedUser(t *testing.T, db *sql.DB) string {
	t.Helper()
	id := fmt.Sprintf("test|%d", time.Now().UnixNano())
	_, err := db.Exec("INSERT INTO users (id, email, full_name) VALUES (?,?,?)",
		id, id+"@example.com", "Test User")
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Exec("DELETE FROM users WHERE id = ?", id)
	})
	return id
}

func countPrimaries(t *testing.T, db *sql.DB, userID string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(
		"SELECT COUNT(*) FROM addresses WHERE user_id = ? AND is_primary = TRUE", userID).Scan(&n))
	return n
}

func TestAddressPrimaryInvariant(t *testing.T) {
	db := testDB(t)
	userID := seedUser(t, db)
	repo := NewAddressRepo(db)
	ctx := context.Background()

	first := &model.Address{UserID: userID, Street: "Calle Uno 1", City: "Santiago", Region: "RM", IsPrimary: true}
	require.NoError(t, repo.Create(ctx, first))
	assert.True(t, first.IsPrimary)
	assert.Equal(t, 1, countPrimaries(t, db, userID))

	// A second primary demotes the first.
	second := &model.Address{UserID: userID, Street: "Calle Dos 2", City: "Santiago", Region: "RM", IsPrimary: true}
	require.NoError(t, repo.Create(ctx, second))
	assert.Equal(t, 1, countPrimaries(t, db, userID))

	got, err := repo.GetByIDAndUser(ctx, first.ID, userID)
	require.NoError(t, err)
	assert.False(t, got.IsPrimary)

	// SetPrimary flips it back, still exactly one primary.
	promoted, err := repo.SetPrimary(ctx, first.ID, userID)
	require.NoError(t, err)
	assert.True(t, promoted.IsPrimary)
	assert.Equal(t, 1, countPrimaries(t, db, userID))

	// Promoting the current primary is a no-op.
	_, err = repo.SetPrimary(ctx, first.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, countPrimaries(t, db, userID))
}

func TestAddressPatchPromotion(t *testing.T) {
	db := testDB(t)
	userID := seedUser(t, db)
	repo := NewAddressRepo(db)
	ctx := context.Background()

	a := &model.Address{UserID: userID, Street: "Calle Uno 1", City: "Santiago", Region: "RM", IsPrimary: true}
	require.NoError(t, repo.Create(ctx, a))
	b := &model.Address{UserID: userID, Street: "Calle Dos 2", City: "Santiago", Region: "RM"}
	require.NoError(t, repo.Create(ctx, b))

	isPrimary := true
	updated, err := repo.Update(ctx, b.ID, userID, AddressPatch{IsPrimary: &isPrimary})
	require.NoError(t, err)
	assert.True(t, updated.IsPrimary)
	assert.Equal(t, 1, countPrimaries(t, db, userID))
}

func TestAddressOwnership(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db)
	stranger := seedUser(t, db)
	repo := NewAddressRepo(db)
	ctx := context.Background()

	a := &model.Address{UserID: owner, Street: "Calle Uno 1", City: "Santiago", Region: "RM"}
	require.NoError(t, repo.Create(ctx, a))

	// Another user sees not-found, not forbidden.
	_, err := repo.GetByIDAndUser(ctx, a.ID, stranger)
	assert.ErrorIs(t, err, ErrAddressNotFound)
	_, err = repo.SetPrimary(ctx, a.ID, stranger)
	assert.ErrorIs(t, err, ErrAddressNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, a.ID, stranger), ErrAddressNotFound)

	// The owner still can.
	require.NoError(t, repo.Delete(ctx, a.ID, owner))
}
