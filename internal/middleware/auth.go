package middleware

import (
	"context"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"backend/internal/model"
	"backend/pkg/apperr"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only — DO NOT use in production
	}
	return []byte(secret)
}

// SetTokenCookies sets access_token and refresh_token as HttpOnly cookies
func SetTokenCookies(c *gin.Context, accessToken, refreshToken string) {
	// Production (cross-origin): SameSiteNoneMode + Secure=true
	// Development (same-site):   SameSiteLaxMode  + Secure=false
	sameSite := http.SameSiteLaxMode
	secure := false
	if os.Getenv("GIN_MODE") == "release" || os.Getenv("RENDER") != "" {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	// access_token: 24h, path=/, domain="", secure, HttpOnly
	c.SetCookie("access_token", accessToken, 3600*24, "/", "", secure, true)
	// refresh_token: 7 days, path=/, domain="", secure, HttpOnly
	c.SetCookie("refresh_token", refreshToken, 3600*24*7, "/", "", secure, true)
}

// ClearTokenCookies removes access_token and refresh_token cookies
func ClearTokenCookies(c *gin.Context) {
	sameSite := http.SameSiteLaxMode
	secure := false
	if os.Getenv("GIN_MODE") == "release" || os.Getenv("RENDER") != "" {
		sameSite = http.SameSiteNoneMode
		secure = true
	}

	c.SetSameSite(sameSite)
	c.SetCookie("access_token", "", -1, "/", "", secure, true)
	c.SetCookie("refresh_token", "", -1, "/", "", secure, true)
}

// extractToken pulls the JWT from the access_token cookie, falling back to the
// Authorization header.
func extractToken(c *gin.Context) (string, bool) {
	tokenString, cookieErr := c.Cookie("access_token")
	if cookieErr == nil && tokenString != "" {
		return tokenString, true
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// authenticate parses and validates the JWT, returning the user ID claim.
func authenticate(c *gin.Context) (uuid.UUID, bool) {
	tokenString, ok := extractToken(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing"))
		return uuid.Nil, false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return GetJWTSecret(), nil
	})
	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token"))
		return uuid.Nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token claims"))
		return uuid.Nil, false
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid subject claim"))
		return uuid.Nil, false
	}

	c.Set("userID", userID)
	if role, ok := claims["role"].(string); ok {
		c.Set("userRole", role)
	}
	return userID, true
}

// RequireAuth validates the JWT and stores the user ID in the request context.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authenticate(c); !ok {
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user's ID set by RequireAuth/RequirePermission.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// --- Permission-based middleware ---

// PermissionChecker is the slice of the role service the middleware needs.
type PermissionChecker interface {
	Can(ctx context.Context, userID uuid.UUID, code string) (bool, error)
}

// permCacheEntry stores a cached permission decision for a user with TTL
type permCacheEntry struct {
	allowed   bool
	expiresAt time.Time
}

var (
	permCache    sync.Map // "userID:code" -> permCacheEntry
	permCacheTTL = 5 * time.Minute
)

// checker holds the permission engine reference — set via InitPermissionMiddleware
var checker PermissionChecker

// InitPermissionMiddleware sets the permission engine used by RequirePermission
func InitPermissionMiddleware(c PermissionChecker) {
	checker = c
}

// RequirePermission validates the JWT and checks that the user holds the
// permission, via direct grant, role membership or super admin status.
// Unknown codes are a programming error and fail fast at route registration.
func RequirePermission(code string) gin.HandlerFunc {
	if !model.KnownPermissionCode(code) {
		panic("unknown permission code: " + code)
	}

	return func(c *gin.Context) {
		userID, ok := authenticate(c)
		if !ok {
			return
		}

		allowed, err := userCan(c.Request.Context(), userID, code)
		if err != nil {
			if apperr.IsKind(err, apperr.KindNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Unknown user"))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to verify permissions"))
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: missing permission '"+code+"'"))
			return
		}

		c.Next()
	}
}

// userCan consults the cache before asking the permission engine.
func userCan(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	key := userID.String() + ":" + code
	if entry, ok := permCache.Load(key); ok {
		cached := entry.(permCacheEntry)
		if time.Now().Before(cached.expiresAt) {
			return cached.allowed, nil
		}
	}

	if checker == nil {
		panic("permission middleware not initialized")
	}

	allowed, err := checker.Can(ctx, userID, code)
	if err != nil {
		return false, err
	}

	permCache.Store(key, permCacheEntry{
		allowed:   allowed,
		expiresAt: time.Now().Add(permCacheTTL),
	})
	return allowed, nil
}

// ClearPermissionCache removes cached decisions for a user (or everyone if nil).
// Called after role or grant changes so revocations take effect promptly.
func ClearPermissionCache(userID *uuid.UUID) {
	if userID == nil {
		permCache.Range(func(key, _ interface{}) bool {
			permCache.Delete(key)
			return true
		})
		return
	}
	prefix := userID.String() + ":"
	permCache.Range(func(key, _ interface{}) bool {
		if k, ok := key.(string); ok && strings.HasPrefix(k, prefix) {
			permCache.Delete(key)
		}
		return true
	})
}
