package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"bitemebuddy/auth"
	"bitemebuddy/models"

	"github.com/gin-gonic/gin"
)

// Cookie names shared with the login handlers
const (
	TokenCookie   = "access_token"
	SessionCookie = "session_id"
)

const (
	userKey   = "currentUser"
	bearerKey = "bearerRequest"
	loginPath = "/auth/login"
)

// UserLoader is the part of the store the middleware needs
type UserLoader interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

// AuthRequired resolves the caller from the access_token cookie, falling
// back to an Authorization: Bearer header, and stores the user in the
// context. Browsers are redirected to the login page, HTMX requests get an
// HX-Redirect header and bearer clients a 401 JSON body.
func AuthRequired(tokens *auth.Tokens, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolveUser(c, tokens, users)
		if err != nil {
			abortUnauthenticated(c)
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// OptionalUser sets the current user when a valid token is present and
// never rejects the request
func OptionalUser(tokens *auth.Tokens, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := resolveUser(c, tokens, users); err == nil {
			c.Set(userKey, user)
		}
		c.Next()
	}
}

// RoleRequired enforces that caller has one of the allowed roles
func RoleRequired(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abortUnauthenticated(c)
			return
		}
		if err := auth.Authorize(user.Role, roles...); err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user resolved for this request, or nil
func CurrentUser(c *gin.Context) *models.User {
	val, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := val.(*models.User)
	return user
}

// IsHTMX reports whether the request was issued by htmx
func IsHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// IsBearer reports whether the caller authenticated with an Authorization
// header rather than the browser cookie
func IsBearer(c *gin.Context) bool {
	if c.GetBool(bearerKey) {
		return true
	}
	_, ok := bearerToken(c)
	return ok
}

func resolveUser(c *gin.Context, tokens *auth.Tokens, users UserLoader) (*models.User, error) {
	tokenStr, err := c.Cookie(TokenCookie)
	if err != nil || tokenStr == "" {
		var ok bool
		if tokenStr, ok = bearerToken(c); !ok {
			return nil, auth.ErrUnauthenticated
		}
		c.Set(bearerKey, true)
	}

	claims, err := tokens.Parse(tokenStr)
	if err != nil {
		return nil, err
	}
	user, err := users.GetUser(c.Request.Context(), claims.UserID)
	if err != nil {
		return nil, errors.Join(auth.ErrUnauthenticated, err)
	}
	if user.Username != claims.Username() {
		return nil, auth.ErrUnauthenticated
	}
	return user, nil
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

func abortUnauthenticated(c *gin.Context) {
	switch {
	case IsBearer(c):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
	case IsHTMX(c):
		c.Header("HX-Redirect", loginPath)
		c.AbortWithStatus(http.StatusUnauthorized)
	default:
		c.Redirect(http.StatusFound, loginPath)
		c.Abort()
	}
}
