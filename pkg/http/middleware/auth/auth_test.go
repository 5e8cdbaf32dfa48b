package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()

	raw, err := jwt.NewWithClaims(method, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	return raw
}

func callMiddleware(t *testing.T, token string) (*httptest.ResponseRecorder, int64, bool) {
	t.Helper()

	t.Setenv("JWT_SECRET", testSecret)

	var (
		gotAccount int64
		gotOK      bool
	)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccount, gotOK = AccountID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/stores", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	NewAuthMiddleware()(next).ServeHTTP(rec, req)

	return rec, gotAccount, gotOK
}

func TestAuthMiddlewareResolvesAccount(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{"account_id": 10})

	rec, accountID, ok := callMiddleware(t, token)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, ok)
	assert.Equal(t, int64(10), accountID)
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	rec, _, ok := callMiddleware(t, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, ok)
}

func TestAuthMiddlewareRejectsForeignSigningMethod(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS512, jwt.MapClaims{"account_id": 10})

	rec, _, ok := callMiddleware(t, token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, ok)
}

func TestAuthMiddlewareRejectsNonPositiveAccount(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{"account_id": 0})

	rec, _, ok := callMiddleware(t, token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, ok)
}
