package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backend/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	allowed map[string]bool
	calls   int
}

func (s *stubChecker) Can(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	s.calls++
	return s.allowed[userID.String()+":"+code], nil
}

func signToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(GetJWTSecret())
	require.NoError(t, err)
	return token
}

func newRouter(code string) (*gin.Engine, *int) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	hits := 0
	router.GET("/guarded", RequirePermission(code), func(c *gin.Context) {
		hits++
		c.Status(http.StatusOK)
	})
	return router, &hits
}

func get(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequirePermissionPanicsOnUnknownCode(t *testing.T) {
	assert.Panics(t, func() { RequirePermission("no_such_permission") })
	assert.NotPanics(t, func() { RequirePermission(model.PermViewMembers) })
}

func TestRequirePermissionAllowsAndDenies(t *testing.T) {
	userID := uuid.New()
	checker := &stubChecker{allowed: map[string]bool{
		userID.String() + ":" + model.PermViewMembers: true,
	}}
	InitPermissionMiddleware(checker)
	ClearPermissionCache(nil)

	router, hits := newRouter(model.PermViewMembers)
	token := signToken(t, userID)

	assert.Equal(t, http.StatusOK, get(router, token).Code)
	assert.Equal(t, 1, *hits)

	denied := uuid.New()
	assert.Equal(t, http.StatusForbidden, get(router, signToken(t, denied)).Code)
	assert.Equal(t, 1, *hits)
}

func TestRequirePermissionRejectsMissingOrBadToken(t *testing.T) {
	InitPermissionMiddleware(&stubChecker{allowed: map[string]bool{}})
	ClearPermissionCache(nil)
	router, hits := newRouter(model.PermViewMembers)

	assert.Equal(t, http.StatusUnauthorized, get(router, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(router, "not-a-jwt").Code)
	assert.Equal(t, 0, *hits)
}

func TestPermissionDecisionsAreCached(t *testing.T) {
	userID := uuid.New()
	checker := &stubChecker{allowed: map[string]bool{
		userID.String() + ":" + model.PermViewMembers: true,
	}}
	InitPermissionMiddleware(checker)
	ClearPermissionCache(nil)

	router, _ := newRouter(model.PermViewMembers)
	token := signToken(t, userID)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, get(router, token).Code)
	}
	assert.Equal(t, 1, checker.calls, "repeat requests hit the cache")

	// a revocation followed by a cache clear takes effect immediately
	delete(checker.allowed, userID.String()+":"+model.PermViewMembers)
	ClearPermissionCache(&userID)
	assert.Equal(t, http.StatusForbidden, get(router, token).Code)
	assert.Equal(t, 2, checker.calls)
}
