package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jondawson917/snappycamper/internal/apperr"
)

func TestUserLifecycle(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()
	username := "user_" + randSuffix()
	t.Cleanup(func() {
		_, _ = db.ExecContext(context.Background(), `DELETE FROM users WHERE username = $1`, username)
	})

	u, err := repo.Register(ctx, username, "bword", "artemis clyde", "MT", false, bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.False(t, u.IsAdmin)

	// Duplicate registration trips the unique constraint, not a raw error.
	_, err = repo.Register(ctx, username, "other", "someone else", "WV", false, bcrypt.MinCost)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// Authentication round trip.
	got, err := repo.Authenticate(ctx, username, "bword")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.Authenticate(ctx, username, "wrong")
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	_, err = repo.Authenticate(ctx, "nobody_"+randSuffix(), "bword")
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	// Partial update: only the provided fields change, and a new password
	// is stored hashed and usable afterwards.
	fullName := "artemisclyde"
	password := "new-password"
	updated, err := repo.Update(ctx, username, UserUpdate{FullName: &fullName, Password: &password}, bcrypt.MinCost)
	require.NoError(t, err)
	assert.Equal(t, fullName, updated.FullName)
	assert.Equal(t, "MT", updated.State)

	_, err = repo.Authenticate(ctx, username, "new-password")
	require.NoError(t, err)

	// Empty update payload never reaches the store.
	_, err = repo.Update(ctx, username, UserUpdate{}, bcrypt.MinCost)
	require.Error(t, err)
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	require.NoError(t, repo.Delete(ctx, username))
	err = repo.Delete(ctx, username)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUserDeleteCascadesReservations(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepo(db)
	reservations := NewReservationRepo(db)
	ctx := context.Background()
	userID, campID := seedPair(t, db)

	require.NoError(t, reservations.Reserve(ctx, userID, campID))

	var username string
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT username FROM users WHERE id = $1`, userID).Scan(&username))
	require.NoError(t, users.Delete(ctx, username))

	assert.Equal(t, 0, countReservations(t, db, userID, campID))
}
