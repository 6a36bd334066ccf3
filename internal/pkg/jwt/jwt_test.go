//go:build unit

package jwt_test

import (
	"testing"
	"time"

	"courtside/internal/domain/user"
	"courtside/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateToken(t *testing.T) {
	service := jwt.NewService("test-secret")
	userID := uuid.New()

	t.Run("round trip", func(t *testing.T) {
		token, err := service.SignForTest(userID, user.RoleStaff, time.Hour)
		require.NoError(t, err)

		claims, err := service.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, "staff", claims.Role)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := jwt.NewService("other-secret").SignForTest(userID, user.RoleMember, time.Hour)
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := service.SignForTest(userID, user.RoleMember, -time.Minute)
		require.NoError(t, err)

		_, err = service.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrExpiredToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := service.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}
