package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harvesterbilling/apperrors"
	"harvesterbilling/models"
)

func TestKVUserRepo_CreateAndLogin(t *testing.T) {
	ctx := context.Background()
	repo := NewKVUserRepo(NewStore(NewMemoryKVStore()))

	user := &models.AppUser{ID: "1", Name: "Ravi", UserID: "ravi", Email: "ravi@example.com", Password: "secret"}
	require.NoError(t, repo.CreateUser(ctx, user))
	assert.True(t, strings.HasPrefix(user.Password, "$2"), "password is stored hashed")

	dup := &models.AppUser{ID: "2", Name: "Other", UserID: "ravi", Password: "x"}
	assert.ErrorIs(t, repo.CreateUser(ctx, dup), apperrors.ErrDuplicateLogin)

	byEmail, err := repo.GetUserByLogin(ctx, "ravi@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, "1", byEmail.ID)

	ok, err := repo.VerifyPassword(ctx, byEmail, "secret")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.VerifyPassword(ctx, byEmail, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	missing, err := repo.GetUserByLogin(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestKVUserRepo_UpgradesPlaintextPassword(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryKVStore())
	require.NoError(t, store.KV.Set(ctx, UsersKey, `[{"id":"7","name":"Old","userId":"old","password":"plain"}]`))
	repo := NewKVUserRepo(store)

	user, err := repo.GetUserByLogin(ctx, "old")
	require.NoError(t, err)
	require.NotNil(t, user)

	ok, err := repo.VerifyPassword(ctx, user, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.VerifyPassword(ctx, user, "plain")
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := repo.GetUserByID(ctx, "7")
	require.NoError(t, err)
	assert.True(t, isBcryptHash(stored.Password))

	ok, err = repo.VerifyPassword(ctx, stored, "plain")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestKVUserRepo_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewKVUserRepo(NewStore(NewMemoryKVStore()))
	require.NoError(t, repo.CreateUser(ctx, &models.AppUser{ID: "1", Name: "A", UserID: "a", Password: "pw"}))
	require.NoError(t, repo.CreateUser(ctx, &models.AppUser{ID: "2", Name: "B", UserID: "b", Password: "pw"}))

	before, _ := repo.GetUserByID(ctx, "1")

	upd := &models.AppUser{ID: "1", Name: "A2", UserID: "a"}
	require.NoError(t, repo.UpdateUser(ctx, upd))
	after, _ := repo.GetUserByID(ctx, "1")
	assert.Equal(t, "A2", after.Name)
	assert.Equal(t, before.Password, after.Password, "empty password keeps the stored hash")

	assert.ErrorIs(t, repo.UpdateUser(ctx, &models.AppUser{ID: "1", Name: "A", UserID: "b"}), apperrors.ErrDuplicateLogin)
	assert.ErrorIs(t, repo.UpdateUser(ctx, &models.AppUser{ID: "9", Name: "Z", UserID: "z"}), apperrors.ErrNotFound)

	found, err := repo.DeleteUser(ctx, "2")
	require.NoError(t, err)
	assert.True(t, found)

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
