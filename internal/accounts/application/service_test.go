package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accounts "well-analysis/internal/accounts/domain"
	"well-analysis/internal/accounts/infrastructure/memory"
	"well-analysis/internal/auth"
)

var testSecret = []byte("test-secret")

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	opts = append([]Option{WithClock(func() time.Time { return now })}, opts...)
	svc, err := NewService(memory.NewUserRepository(), testSecret, opts...)
	require.NoError(t, err)
	return svc
}

func TestRegisterDefaultsToStudent(t *testing.T) {
	svc := newTestService(t)
	user, err := svc.Register(context.Background(), RegisterInput{Username: "ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleStudent, user.Role)
	assert.NotEqual(t, "secret1", user.PasswordHash)
}

func TestRegisterRejects(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Username: "ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	cases := []struct {
		name string
		in   RegisterInput
		want error
	}{
		{"duplicate username", RegisterInput{Username: "ana", Email: "other@example.com", Password: "secret1"}, accounts.ErrDuplicateUser},
		{"duplicate email", RegisterInput{Username: "bob", Email: "ANA@example.com", Password: "secret1"}, accounts.ErrDuplicateUser},
		{"short password", RegisterInput{Username: "bob", Email: "bob@example.com", Password: "123"}, auth.ErrWeakPassword},
		{"bad email", RegisterInput{Username: "bob", Email: "not-an-email", Password: "secret1"}, accounts.ErrInvalidUser},
		{"unknown role", RegisterInput{Username: "bob", Email: "bob@example.com", Password: "secret1", Role: "driller"}, accounts.ErrInvalidUser},
		{"admin", RegisterInput{Username: "bob", Email: "bob@example.com", Password: "secret1", Role: "admin"}, accounts.ErrInvalidUser},
	}
	for _, tc := range cases {
		_, err := svc.Register(ctx, tc.in)
		assert.ErrorIs(t, err, tc.want, tc.name)
	}
}

func TestAdminRegistrationWhenAllowed(t *testing.T) {
	svc := newTestService(t, WithAdminRegistration(true))
	user, err := svc.Register(context.Background(), RegisterInput{Username: "root", Email: "root@example.com", Password: "secret1", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, user.Role)
}

func TestLoginByUsernameOrEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Username: "demo", Email: "demo@example.com", Password: "demo123", Role: "engineer"})
	require.NoError(t, err)

	for _, login := range []string{"demo", "demo@example.com"} {
		session, err := svc.Login(ctx, login, "demo123")
		require.NoError(t, err, login)
		require.NotNil(t, session.User.LastLogin)

		claims, err := auth.ParseJWT(session.AccessToken, testSecret)
		require.NoError(t, err)
		assert.Equal(t, session.User.ID, claims.Subject)
		assert.Equal(t, string(auth.RoleEngineer), claims.Role)
		assert.Equal(t, 24*time.Hour, session.ExpiresAt.Sub(*session.User.LastLogin))
	}

	_, err = svc.Login(ctx, "demo", "wrong")
	assert.ErrorIs(t, err, accounts.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody", "demo123")
	assert.ErrorIs(t, err, accounts.ErrInvalidCredentials)
}

func TestUpdateProfile(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	ana, err := svc.Register(ctx, RegisterInput{Username: "ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{Username: "bob", Email: "bob@example.com", Password: "secret1"})
	require.NoError(t, err)

	taken := "bob@example.com"
	_, err = svc.UpdateProfile(ctx, ana.ID, ProfileInput{Email: &taken})
	assert.ErrorIs(t, err, accounts.ErrDuplicateUser)

	email, password := "ana@field.example.com", "newsecret"
	updated, err := svc.UpdateProfile(ctx, ana.ID, ProfileInput{Email: &email, Password: &password})
	require.NoError(t, err)
	assert.Equal(t, email, updated.Email)

	_, err = svc.Login(ctx, "ana", "newsecret")
	require.NoError(t, err)

	users, err := svc.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
