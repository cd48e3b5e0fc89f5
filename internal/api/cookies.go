package api

import (
	"net/http"
	"time"

	"vitaltrack/fitness-app/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
	refreshTokenHeader = "X-Refresh-Token"
)

// SessionCookies writes and clears the token cookies. Clearing uses the
// same attributes as writing, otherwise browsers keep the cookie.
type SessionCookies struct {
	Domain     string
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (s SessionCookies) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   s.Domain,
		MaxAge:   maxAge,
		Secure:   s.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// Attach sets both token cookies with lifetimes matching the tokens.
func (s SessionCookies) Attach(c *gin.Context, tokens service.TokenPair) {
	http.SetCookie(c.Writer, s.cookie(AccessTokenCookie, tokens.AccessToken, int(s.AccessTTL.Seconds())))
	http.SetCookie(c.Writer, s.cookie(RefreshTokenCookie, tokens.RefreshToken, int(s.RefreshTTL.Seconds())))
}

// Clear expires both token cookies.
func (s SessionCookies) Clear(c *gin.Context) {
	http.SetCookie(c.Writer, s.cookie(AccessTokenCookie, "", -1))
	http.SetCookie(c.Writer, s.cookie(RefreshTokenCookie, "", -1))
}
