package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"velora-be/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAuthMiddleware(t *testing.T) {
	mw := AuthMiddleware(testSecret)

	t.Run("ValidToken", func(t *testing.T) {
		var gotID uint
		var gotOK bool
		var gotRole string

		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotID, gotOK = utils.GetUserIDFromContext(r.Context())
			gotRole = utils.GetUserRoleFromContext(r.Context())
		}))

		token := signToken(t, testSecret, jwt.MapClaims{
			"user_id": float64(7),
			"email":   "buyer@example.com",
			"role":    "USER",
		})

		req := httptest.NewRequest("GET", "/cart", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.True(t, gotOK)
		assert.Equal(t, uint(7), gotID)
		assert.Equal(t, "USER", gotRole)
	})

	t.Run("NoTokenPassesAnonymously", func(t *testing.T) {
		var gotOK bool
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, gotOK = utils.GetUserIDFromContext(r.Context())
		}))

		req := httptest.NewRequest("GET", "/cart", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, gotOK)
	})

	t.Run("WrongSecretPassesAnonymously", func(t *testing.T) {
		var gotOK bool
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, gotOK = utils.GetUserIDFromContext(r.Context())
		}))

		token := signToken(t, "other-secret", jwt.MapClaims{"user_id": float64(7)})

		req := httptest.NewRequest("GET", "/cart", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.False(t, gotOK)
	})

	t.Run("AdminRole", func(t *testing.T) {
		var isAdmin bool
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			isAdmin = utils.IsAdmin(r.Context())
		}))

		token := signToken(t, testSecret, jwt.MapClaims{
			"user_id": float64(1),
			"email":   "admin@example.com",
			"role":    utils.RoleAdmin,
		})

		req := httptest.NewRequest("GET", "/orders", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.True(t, isAdmin)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	handler := RateLimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("StrictTierExhausts", func(t *testing.T) {
		var blocked bool
		for i := 0; i < burstStrict+1; i++ {
			req := httptest.NewRequest("POST", "/checkout/initialize", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code == http.StatusTooManyRequests {
				blocked = true
			}
		}
		assert.True(t, blocked)
	})

	t.Run("GeneralTierAllowsMore", func(t *testing.T) {
		for i := 0; i < burstStrict+1; i++ {
			req := httptest.NewRequest("GET", "/cart", nil)
			req.RemoteAddr = "10.0.0.2:1234"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("SeparateIdentitiesSeparateBuckets", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/checkout/initialize", nil)
		req.RemoteAddr = "10.0.0.3:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestResolveRateTier(t *testing.T) {
	webhookReq := httptest.NewRequest("POST", "/webhook/paystack", nil)
	_, _, tier := resolveRateTier(webhookReq)
	assert.Equal(t, "strict", tier)

	cartReq := httptest.NewRequest("GET", "/cart", nil)
	_, _, tier = resolveRateTier(cartReq)
	assert.Equal(t, "general", tier)
}
