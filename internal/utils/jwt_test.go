package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccessToken(t *testing.T) {
	before := time.Now().UTC()
	tok, err := NewAccessToken("secret", "ivan", 30)
	require.NoError(t, err)
	assert.WithinDuration(t, before.Add(30*time.Minute), tok.Exp, 5*time.Second)

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tok.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, "HS256", parsed.Method.Alg())
	assert.Equal(t, "ivan", claims.Subject)
	assert.NotNil(t, claims.IssuedAt)
}

func TestNewAccessTokenRejectsEmptyInput(t *testing.T) {
	_, err := NewAccessToken("", "ivan", 30)
	assert.Error(t, err)
	_, err = NewAccessToken("secret", "", 30)
	assert.Error(t, err)
}
