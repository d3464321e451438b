package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/support-desk/internal/config"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/identity"
	"github.com/ahmetcoskunkizilkaya/support-desk/internal/testutil"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(testutil.NewDB(t), &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  time.Minute,
		JWTRefreshExpiry: time.Hour,
	})
}

func TestAuthService_RegisterLoginClaims(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	email := gofakeit.Email()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{Email: email, Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "user", resp.User.Role)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Email: email, Password: "another one"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: email, Password: "wrong password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	resp, err = svc.Login(ctx, &dto.LoginRequest{Email: email, Password: "correct horse"})
	require.NoError(t, err)

	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (any, error) { return []byte("test-secret"), nil })
	require.NoError(t, err)
	id, err := identity.FromClaims(token.Claims.(jwt.MapClaims))
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID.String(), id.Subject)
	assert.Equal(t, resp.User.Email, id.Email)
	assert.Equal(t, "user", id.Role)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc := newAuthService(t)
	var verr *ValidationError

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{Email: "not-an-email", Password: "long enough"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)

	_, err = svc.Register(context.Background(), &dto.RegisterRequest{Email: gofakeit.Email(), Password: "short"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)
}

func TestAuthService_RefreshRotatesToken(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{Email: gofakeit.Email(), Password: "correct horse"})
	require.NoError(t, err)

	next, err := svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, next.RefreshToken)

	_, err = svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, svc.Logout(ctx, &dto.LogoutRequest{RefreshToken: next.RefreshToken}))
	_, err = svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: next.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_DeleteAccount(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{Email: gofakeit.Email(), Password: "correct horse"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteAccount(ctx, resp.User.ID, "nope"), ErrInvalidCredentials)
	require.NoError(t, svc.DeleteAccount(ctx, resp.User.ID, "correct horse"))
	assert.ErrorIs(t, svc.DeleteAccount(ctx, resp.User.ID, "correct horse"), ErrUserNotFound)

	count, err := NewUserService(svc.db).Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
