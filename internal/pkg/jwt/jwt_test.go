package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	s := New("secret", time.Hour)

	token, err := s.GenerateToken(7, 3, "manager")
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, uint(3), claims.HotelID)
	assert.Equal(t, "manager", claims.Role)
}

func TestRejectsForeignAndExpiredTokens(t *testing.T) {
	token, err := New("other", time.Hour).GenerateToken(1, 1, "manager")
	require.NoError(t, err)
	_, err = New("secret", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	old := New("secret", time.Minute)
	old.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err = old.GenerateToken(1, 1, "manager")
	require.NoError(t, err)
	_, err = New("secret", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
