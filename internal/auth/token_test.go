package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"omnia-tickets/internal/auth"
	"omnia-tickets/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testAdmin(t *testing.T, ttl time.Duration) *auth.Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("omnia-secret"), bcrypt.MinCost)
	require.NoError(t, err)
	return auth.NewAdmin(config.AuthConfig{
		JWTSecret:         "test-jwt-secret",
		AdminUsername:     "admin",
		AdminPasswordHash: string(hash),
		TokenTTL:          ttl,
	})
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	admin := testAdmin(t, time.Hour)

	token, err := admin.Login("admin", "omnia-secret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	subject, err := admin.VerifyToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "admin", subject)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	admin := testAdmin(t, time.Hour)

	_, err := admin.Login("admin", "wrong-password")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = admin.Login("root", "omnia-secret")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	admin := testAdmin(t, time.Hour)

	_, err := admin.VerifyToken("not.a.token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	admin := testAdmin(t, -time.Minute)

	token, err := admin.Login("admin", "omnia-secret")
	require.NoError(t, err)

	_, err = admin.VerifyToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	admin := testAdmin(t, time.Hour)
	other := auth.NewAdmin(config.AuthConfig{
		JWTSecret:     "different-secret",
		AdminUsername: "admin",
		TokenTTL:      time.Hour,
	})

	token, err := admin.Login("admin", "omnia-secret")
	require.NoError(t, err)

	_, err = other.VerifyToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestMiddlewareGuardsAdminRoutes(t *testing.T) {
	admin := testAdmin(t, time.Hour)

	var gotUser string
	handler := admin.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = auth.AdminUser(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("no header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/purchases", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/purchases", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/purchases", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := admin.Login("admin", "omnia-secret")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/purchases", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "admin", gotUser)
	})
}
