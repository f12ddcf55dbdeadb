package auth

import (
	"errors"
	"fmt"
	"time"

	"bitemebuddy/models"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("not enough permissions")
)

type Claims struct {
	UserID uint            `json:"user_id"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Username is carried in the standard subject claim
func (c *Claims) Username() string {
	return c.Subject
}

// Tokens issues and parses HS256 access tokens
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is the lifetime of issued tokens, also used as cookie max-age
func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

// Issue creates a signed JWT for a given user
func (t *Tokens) Issue(user *models.User) (string, error) {
	now := t.now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse validates tokenStr and returns its claims. Any failure, including a
// token missing its subject, user id or role, yields ErrUnauthenticated.
func (t *Tokens) Parse(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrUnauthenticated
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(tok *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if claims.Subject == "" || claims.UserID == 0 || !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: incomplete claims", ErrUnauthenticated)
	}
	return claims, nil
}
