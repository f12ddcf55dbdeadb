package auth

import (
	"testing"
	"time"

	"bitemebuddy/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, CheckPassword(hash, "secret123"))
	assert.False(t, CheckPassword(hash, "secret124"))
	assert.False(t, CheckPassword("not-a-hash", "secret123"))
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokens("test-secret", 30*time.Minute)
	user := &models.User{ID: 42, Username: "asha", Role: models.RoleTeamMember}

	signed, err := tokens.Issue(user)
	require.NoError(t, err)

	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "asha", claims.Username())
	assert.Equal(t, models.RoleTeamMember, claims.Role)
}

func TestTokenRejections(t *testing.T) {
	issued := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	tokens := NewTokens("test-secret", 30*time.Minute)
	tokens.now = func() time.Time { return issued }

	user := &models.User{ID: 1, Username: "ravi", Role: models.RoleCustomer}
	signed, err := tokens.Issue(user)
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		_, err := tokens.Parse("")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tokens.Parse("not.a.token")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokens("other-secret", 30*time.Minute)
		other.now = tokens.now
		_, err := other.Parse(signed)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewTokens("test-secret", 30*time.Minute)
		later.now = func() time.Time { return issued.Add(31 * time.Minute) }
		_, err := later.Parse(signed)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("missing subject", func(t *testing.T) {
		claims := Claims{
			UserID: 1,
			Role:   models.RoleCustomer,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(issued.Add(time.Hour)),
			},
		}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = tokens.Parse(raw)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestAuthorize(t *testing.T) {
	assert.NoError(t, Authorize(models.RoleAdmin, models.RoleAdmin))
	assert.NoError(t, Authorize(models.RoleTeamMember, models.RoleAdmin, models.RoleTeamMember))
	assert.ErrorIs(t, Authorize(models.RoleCustomer, models.RoleAdmin), ErrForbidden)
	assert.ErrorIs(t, Authorize(models.RoleCustomer), ErrForbidden)
}
