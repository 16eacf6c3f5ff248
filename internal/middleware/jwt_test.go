package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/room-reservation/internal/utils"
)

const testSecret = "s3cret"

func serveWith(mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, string) {
	e := echo.New()
	var seen string
	e.POST("/reservations", func(c echo.Context) error {
		seen = currentUserID(c)
		return c.NoContent(http.StatusNoContent)
	}, mw)

	req := httptest.NewRequest(http.MethodPost, "/reservations", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, seen
}

func TestJWTAuthDisabledWithoutSecret(t *testing.T) {
	rec, user := serveWith(JWTAuth(""), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "anon", user)
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, "frank", 5)
	require.NoError(t, err)

	rec, user := serveWith(JWTAuth(testSecret), "Bearer "+tok.Token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "frank", user)
}

func TestJWTAuthRejects(t *testing.T) {
	other, err := utils.NewAccessToken("another-secret", "frank", 5)
	require.NoError(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "frank",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "frank"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing":      "",
		"not bearer":   "Basic Zm9vOmJhcg==",
		"garbage":      "Bearer not-a-jwt",
		"wrong secret": "Bearer " + other.Token,
		"expired":      "Bearer " + expired,
		"no subject":   "Bearer " + noSubject,
		"alg none":     "Bearer " + unsigned,
	} {
		t.Run(name, func(t *testing.T) {
			rec, _ := serveWith(JWTAuth(testSecret), header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
