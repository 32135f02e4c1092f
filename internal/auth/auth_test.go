package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rogerio-castellano/expiry-tracker/internal/models"
	"github.com/rogerio-castellano/expiry-tracker/internal/repo"
	"github.com/rogerio-castellano/expiry-tracker/internal/validation"
)

var (
	adminActor    = models.Actor{UserID: "1", UserName: "Administrador", IsAdmin: true}
	employeeActor = models.Actor{UserID: "2", UserName: "Empleado Demo"}
	seededAt      = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
)

func TestMain(m *testing.M) {
	hashCost = bcrypt.MinCost
	m.Run()
}

func seededUsers(t *testing.T) (*Users, *repo.Store) {
	t.Helper()
	store := repo.NewStore(repo.NewInMemoryKVStore())
	require.NoError(t, SeedUsers(context.Background(), store, seededAt))
	return NewUsers(store, func() time.Time { return seededAt }, nil), store
}

func TestSeedUsers(t *testing.T) {
	users, store := seededUsers(t)
	ctx := context.Background()

	all, err := store.Users(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "admin", all[0].Username)
	assert.Equal(t, models.RoleAdmin, all[0].Role)
	assert.Equal(t, "Empleado Demo", all[1].Name)
	assert.NotEqual(t, "admin123", all[0].PasswordHash)

	admin, err := users.Authenticate(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "1", admin.ID)

	emp, err := users.Authenticate(ctx, "empleado", "empleado123")
	require.NoError(t, err)
	assert.Equal(t, "2", emp.ID)
}

func TestSeedUsersKeepsExistingCollection(t *testing.T) {
	ctx := context.Background()
	store := repo.NewStore(repo.NewInMemoryKVStore())
	require.NoError(t, store.SaveUsers(ctx, []models.User{}))

	require.NoError(t, SeedUsers(ctx, store, seededAt))

	all, err := store.Users(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAuthenticateRejects(t *testing.T) {
	users, _ := seededUsers(t)
	ctx := context.Background()

	_, err := users.Authenticate(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = users.Authenticate(ctx, "nobody", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserManagementRequiresAdmin(t *testing.T) {
	users, _ := seededUsers(t)
	ctx := context.Background()

	_, err := users.List(ctx, employeeActor)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = users.Create(ctx, employeeActor, UserInput{})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = users.Update(ctx, employeeActor, "1", UserInput{})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, users.Delete(ctx, employeeActor, "1"), ErrForbidden)
}

func TestCreateUser(t *testing.T) {
	users, _ := seededUsers(t)
	ctx := context.Background()

	created, err := users.Create(ctx, adminActor, UserInput{
		Username: " maria ", Password: "secreto1", Name: "María", Email: "maria@example.com", Role: "employee",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "maria", created.Username)
	assert.Equal(t, models.RoleEmployee, created.Role)

	_, err = users.Authenticate(ctx, "maria", "secreto1")
	assert.NoError(t, err)

	_, err = users.Create(ctx, adminActor, UserInput{
		Username: "maria", Password: "x", Name: "Otra", Email: "otra@example.com", Role: "employee",
	})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestCreateUserValidation(t *testing.T) {
	users, _ := seededUsers(t)

	_, err := users.Create(context.Background(), adminActor, UserInput{Username: "x", Email: "not-an-email", Role: "root"})
	require.ErrorIs(t, err, validation.ErrValidation)

	var verr *validation.Error
	require.True(t, errors.As(err, &verr))
	fields := []string{}
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"name", "email", "role", "password"}, fields)
}

func TestUpdateUser(t *testing.T) {
	users, _ := seededUsers(t)
	ctx := context.Background()

	updated, err := users.Update(ctx, adminActor, "2", UserInput{
		Username: "empleado", Name: "Empleado Senior", Email: "empleado@example.com", Role: "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "Empleado Senior", updated.Name)
	assert.Equal(t, models.RoleAdmin, updated.Role)

	_, err = users.Authenticate(ctx, "empleado", "empleado123")
	assert.NoError(t, err, "empty password keeps the current one")

	_, err = users.Update(ctx, adminActor, "2", UserInput{
		Username: "empleado", Password: "nueva123", Name: "Empleado Senior", Email: "empleado@example.com", Role: "admin",
	})
	require.NoError(t, err)
	_, err = users.Authenticate(ctx, "empleado", "nueva123")
	assert.NoError(t, err)

	_, err = users.Update(ctx, adminActor, "2", UserInput{
		Username: "admin", Name: "x", Email: "x@example.com", Role: "employee",
	})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = users.Update(ctx, adminActor, "99", UserInput{
		Username: "z", Name: "z", Email: "z@example.com", Role: "employee",
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	users, store := seededUsers(t)
	ctx := context.Background()

	assert.ErrorIs(t, users.Delete(ctx, adminActor, "1"), ErrCannotDeleteSelf)
	assert.ErrorIs(t, users.Delete(ctx, adminActor, "99"), ErrUserNotFound)
	require.NoError(t, users.Delete(ctx, adminActor, "2"))

	all, err := store.Users(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "1", all[0].ID)
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokens("test-secret", 15*time.Minute)
	user := models.User{ID: "1", Username: "admin", Name: "Administrador", Role: models.RoleAdmin}

	signed, err := tokens.GenerateToken(user)
	require.NoError(t, err)

	claims, err := tokens.TokenClaims("Bearer " + signed)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims["username"])

	actor, err := ActorFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, models.Actor{UserID: "1", UserName: "Administrador", IsAdmin: true}, actor)
}

func TestTokenRejections(t *testing.T) {
	tokens := NewTokens("test-secret", 15*time.Minute)
	user := models.User{ID: "2", Username: "empleado", Role: models.RoleEmployee}

	_, err := tokens.TokenClaims("Token abc")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, err := NewTokens("other-secret", time.Minute).GenerateToken(user)
	require.NoError(t, err)
	_, err = tokens.TokenClaims("Bearer " + other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokens("test-secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, err := expired.GenerateToken(user)
	require.NoError(t, err)
	_, err = tokens.TokenClaims("Bearer " + old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ActorFromClaims(jwt.MapClaims{"role": "admin"})
	assert.ErrorIs(t, err, ErrInvalidToken)
}
