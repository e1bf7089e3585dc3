package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/pkg/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testJWTSecret = []byte("test-secret")

type authFixture struct {
	svc   AuthService
	users *fakeUserRepo
}

func newAuthFixture(t *testing.T) (*authFixture, model.User) {
	t.Helper()
	f := &authFixture{users: newFakeUserRepo()}
	f.svc = NewAuthService(f.users, testJWTSecret)

	hashed, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	user := f.users.add(model.User{
		Username:    "amensah",
		FirstName:   "Ama",
		LastName:    "Mensah",
		Email:       "ama@example.com",
		PhoneNumber: "+233200000001",
		Password:    string(hashed),
		Role:        &model.Role{Name: "Branch Admin"},
	})
	return f, user
}

func TestLoginByPhoneAndEmail(t *testing.T) {
	f, user := newAuthFixture(t)

	for _, identifier := range []string{"+233200000001", "ama@example.com"} {
		resp, err := f.svc.Login(context.Background(), LoginRequest{
			Identifier: identifier,
			Password:   "s3cret-pass",
		})
		require.NoError(t, err, identifier)
		assert.Equal(t, user.ID.String(), resp.User.ID)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
	}
}

func TestLoginIssuesSignedClaims(t *testing.T) {
	f, user := newAuthFixture(t)

	resp, err := f.svc.Login(context.Background(), LoginRequest{
		Identifier: "ama@example.com",
		Password:   "s3cret-pass",
	})
	require.NoError(t, err)

	parsed, err := jwt.Parse(resp.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return testJWTSecret, nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, user.ID.String(), claims["sub"])
	assert.Equal(t, "Branch Admin", claims["role"])
	assert.NotNil(t, claims["exp"])
}

func TestLoginBadCredentials(t *testing.T) {
	f, _ := newAuthFixture(t)

	_, err := f.svc.Login(context.Background(), LoginRequest{
		Identifier: "ama@example.com",
		Password:   "wrong",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "wrong password")

	_, err = f.svc.Login(context.Background(), LoginRequest{
		Identifier: "nobody@example.com",
		Password:   "s3cret-pass",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "unknown identifier")
}

func TestRefreshRotatesToken(t *testing.T) {
	f, _ := newAuthFixture(t)

	login, err := f.svc.Login(context.Background(), LoginRequest{
		Identifier: "ama@example.com",
		Password:   "s3cret-pass",
	})
	require.NoError(t, err)

	refreshed, err := f.svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// the presented token was single use
	_, err = f.svc.Refresh(context.Background(), login.RefreshToken)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindPermissionDenied))
}

func TestLogoutRevokesSessions(t *testing.T) {
	f, user := newAuthFixture(t)

	login, err := f.svc.Login(context.Background(), LoginRequest{
		Identifier: "ama@example.com",
		Password:   "s3cret-pass",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(context.Background(), user.ID))

	_, err = f.svc.Refresh(context.Background(), login.RefreshToken)
	assert.True(t, apperr.IsKind(err, apperr.KindPermissionDenied))
}

func TestChangePassword(t *testing.T) {
	f, user := newAuthFixture(t)

	err := f.svc.ChangePassword(context.Background(), user.ID, ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "brand-new-pass",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "wrong old password")

	login, err := f.svc.Login(context.Background(), LoginRequest{
		Identifier: "ama@example.com",
		Password:   "s3cret-pass",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.ChangePassword(context.Background(), user.ID, ChangePasswordRequest{
		OldPassword: "s3cret-pass",
		NewPassword: "brand-new-pass",
	}))

	// every outstanding session is revoked
	_, err = f.svc.Refresh(context.Background(), login.RefreshToken)
	assert.True(t, apperr.IsKind(err, apperr.KindPermissionDenied))

	_, err = f.svc.Login(context.Background(), LoginRequest{
		Identifier: "ama@example.com",
		Password:   "s3cret-pass",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "old password no longer works")

	_, err = f.svc.Login(context.Background(), LoginRequest{
		Identifier: "ama@example.com",
		Password:   "brand-new-pass",
	})
	require.NoError(t, err)
}
