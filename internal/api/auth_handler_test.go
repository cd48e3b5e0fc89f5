package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthFlow(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, http.MethodPost, "/api/auth/register", gin.H{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "Ada@Example.com",
		"password":  "Secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	user := body["user"].(map[string]any)
	assert.Equal(t, "ada@example.com", user["email"])
	assert.Equal(t, []any{"user"}, user["roles"])
	assert.NotContains(t, w.Body.String(), "passwordHash")

	access := cookieNamed(w.Result().Cookies(), AccessTokenCookie)
	require.NotNil(t, access)
	assert.True(t, access.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, access.SameSite)
	assert.Equal(t, "/", access.Path)
	assert.Equal(t, 900, access.MaxAge)
	refresh := cookieNamed(w.Result().Cookies(), RefreshTokenCookie)
	require.NotNil(t, refresh)
	assert.Equal(t, 7*24*3600, refresh.MaxAge)

	w = a.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "ada@example.com", "password": "Wrong1234"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decode(t, w)["message"])

	w = a.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "nobody@example.com", "password": "Secret123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decode(t, w)["message"])

	w = a.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "ada@example.com", "password": "Secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	tokens := decode(t, w)["tokens"].(map[string]any)
	assert.NotEmpty(t, tokens["accessToken"])
	assert.NotEmpty(t, tokens["refreshToken"])

	w = a.do(t, http.MethodGet, "/api/auth/me", nil, withCookies(cookies))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ada", decode(t, w)["user"].(map[string]any)["firstName"])

	w = a.do(t, http.MethodGet, "/api/auth/me", nil, withBearer(tokens["accessToken"].(string)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodGet, "/api/auth/me?token="+tokens["accessToken"].(string), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodPost, "/api/auth/logout", nil, withCookies(cookies))
	require.Equal(t, http.StatusNoContent, w.Code)
	cleared := cookieNamed(w.Result().Cookies(), AccessTokenCookie)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
	assert.True(t, cleared.HttpOnly)
	assert.NotNil(t, cookieNamed(w.Result().Cookies(), RefreshTokenCookie))

	// The browser drops both cookies, so the next call carries none.
	w = a.do(t, http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authentication required", decode(t, w)["message"])
}

func TestRegisterValidation(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, http.MethodPost, "/api/auth/register", gin.H{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "ada@example.com",
		"password":  "alllowercase",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Validation failed", body["message"])
	assert.Contains(t, body["details"], map[string]any{"field": "password", "rule": "password"})

	a.register(t, "ada@example.com")
	w = a.do(t, http.MethodPost, "/api/auth/register", gin.H{
		"firstName": "Ada",
		"lastName":  "Again",
		"email":     "ADA@example.com",
		"password":  "Secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email already in use", decode(t, w)["message"])
}

func TestRefreshSources(t *testing.T) {
	a := newTestAPI(t)
	s := a.register(t, "ada@example.com")
	refreshCookie := cookieNamed(s.cookies, RefreshTokenCookie)
	require.NotNil(t, refreshCookie)

	w := a.do(t, http.MethodPost, "/api/auth/refresh", nil, withCookies([]*http.Cookie{refreshCookie}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rotated := decode(t, w)["tokens"].(map[string]any)
	assert.NotEqual(t, refreshCookie.Value, rotated["refreshToken"])
	assert.NotNil(t, cookieNamed(w.Result().Cookies(), AccessTokenCookie))

	w = a.do(t, http.MethodPost, "/api/auth/refresh", nil, withHeader(refreshTokenHeader, rotated["refreshToken"].(string)))
	require.Equal(t, http.StatusOK, w.Code)
	rotated = decode(t, w)["tokens"].(map[string]any)

	w = a.do(t, http.MethodPost, "/api/auth/refresh", gin.H{"refreshToken": rotated["refreshToken"]})
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodPost, "/api/auth/refresh", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Refresh token missing", decode(t, w)["message"])

	w = a.do(t, http.MethodPost, "/api/auth/refresh", gin.H{"refreshToken": "garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// An access token is not a refresh token.
	w = a.do(t, http.MethodPost, "/api/auth/refresh", nil, withHeader(refreshTokenHeader, s.token))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateProfileAndAvatarUnavailable(t *testing.T) {
	a := newTestAPI(t)
	s := a.register(t, "ada@example.com")

	w := a.do(t, http.MethodPatch, "/api/auth/me", gin.H{
		"firstName":   "Augusta",
		"heightCm":    168.5,
		"preferences": gin.H{"measurementSystem": "imperial"},
	}, withBearer(s.token))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	user := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, "Augusta", user["firstName"])
	assert.Equal(t, 168.5, user["heightCm"])
	assert.Equal(t, "imperial", user["preferences"].(map[string]any)["measurementSystem"])

	w = a.do(t, http.MethodPatch, "/api/auth/me", gin.H{"preferences": gin.H{"measurementSystem": "cubits"}}, withBearer(s.token))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodPost, "/api/auth/me/avatar", gin.H{"contentType": "image/png"}, withBearer(s.token))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Something went wrong", decode(t, w)["message"])
}

func TestAuthRateLimit(t *testing.T) {
	a := newTestAPI(t, func(cfg *RouterConfig, _ *Services) {
		cfg.RateLimit.AuthRPS = 0.001
		cfg.RateLimit.AuthBurst = 2
	})

	for i := 0; i < 2; i++ {
		w := a.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "x@example.com", "password": "Secret123"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w := a.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "x@example.com", "password": "Secret123"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}
