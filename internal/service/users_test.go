package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/taskdesk/internal/access"
	"github.com/hongminglow/taskdesk/internal/auth"
	"github.com/hongminglow/taskdesk/internal/models"
	"github.com/hongminglow/taskdesk/internal/storage/memory"
)

func newUserService(t *testing.T) (*UserService, *memory.Store, *auth.PasswordHasher) {
	t.Helper()
	store := memory.NewStore()
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	return NewUserService(store, hasher), store, hasher
}

func sampleUser(id string) NewUser {
	return NewUser{
		UserID:     id,
		Password:   "s3cret!",
		Role:       models.RoleGeneralUser,
		Name:       "Sam Lee",
		Email:      "sam@example.com",
		Department: "Finance",
	}
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc, store, hasher := newUserService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, admin, sampleUser("user010"))
	require.NoError(t, err)
	assert.Empty(t, created.PasswordHash)

	stored, err := store.FindUser(ctx, "user010")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", stored.PasswordHash)
	ok, err := hasher.Verify(stored.PasswordHash, "s3cret!")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCreateUserConflict(t *testing.T) {
	svc, store, _ := newUserService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, admin, sampleUser("user010"))
	require.NoError(t, err)
	before, err := store.FindUser(ctx, "user010")
	require.NoError(t, err)

	again := sampleUser("user010")
	again.Name = "Impostor"
	_, err = svc.Create(ctx, admin, again)
	require.ErrorIs(t, err, ErrConflict)

	after, err := store.FindUser(ctx, "user010")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestListUsersHidesHashes(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()
	for _, id := range []string{"user010", "user011"} {
		_, err := svc.Create(ctx, admin, sampleUser(id))
		require.NoError(t, err)
	}

	users, err := svc.List(ctx, admin)
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, user := range users {
		assert.Empty(t, user.PasswordHash)
	}
}

func TestUpdateUserPatchAndPasswordRotation(t *testing.T) {
	svc, store, hasher := newUserService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, admin, sampleUser("user010"))
	require.NoError(t, err)

	dept := "Operations"
	role := models.RoleAdmin
	updated, err := svc.Update(ctx, admin, "user010", UserPatch{Department: &dept, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "Operations", updated.Department)
	assert.Equal(t, models.RoleAdmin, updated.Role)
	assert.Equal(t, "Sam Lee", updated.Name)
	assert.Empty(t, updated.PasswordHash)

	stored, err := store.FindUser(ctx, "user010")
	require.NoError(t, err)
	ok, err := hasher.Verify(stored.PasswordHash, "s3cret!")
	require.NoError(t, err)
	assert.True(t, ok, "password must survive an update that does not set it")

	password := "n3w-pass"
	_, err = svc.Update(ctx, admin, "user010", UserPatch{Password: &password})
	require.NoError(t, err)

	stored, err = store.FindUser(ctx, "user010")
	require.NoError(t, err)
	ok, err = hasher.Verify(stored.PasswordHash, "n3w-pass")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.Update(ctx, admin, "ghost", UserPatch{Department: &dept})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, admin, sampleUser("user010"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, admin, "user010"))
	require.ErrorIs(t, svc.Delete(ctx, admin, "user010"), ErrNotFound)
}

func TestUserManagementRequiresAdmin(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.List(ctx, alice)
	require.ErrorIs(t, err, access.ErrForbidden)
	_, err = svc.Create(ctx, alice, sampleUser("user010"))
	require.ErrorIs(t, err, access.ErrForbidden)
	name := "x"
	_, err = svc.Update(ctx, alice, "user001", UserPatch{Name: &name})
	require.ErrorIs(t, err, access.ErrForbidden)
	require.ErrorIs(t, svc.Delete(ctx, alice, "user001"), access.ErrForbidden)
}
