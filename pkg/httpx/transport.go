package httpx

import (
	"net/http"
	"strings"
	"time"
)

// RefreshTokenCookie is the cookie name carrying the refresh token.
const RefreshTokenCookie = "refreshToken"

// TokenTransport moves tokens between HTTP messages and the application:
// access tokens ride the Authorization header, refresh tokens ride an
// HttpOnly cookie.
type TokenTransport struct {
	// CookieDomain is the Domain attribute of the refresh cookie. Omitted
	// from the cookie when set to "localhost", since browsers reject it.
	CookieDomain string

	// CookieSecure marks the refresh cookie Secure. Disable only for local
	// plain-HTTP development.
	CookieSecure bool

	// RefreshTTL bounds the refresh cookie's Max-Age.
	RefreshTTL time.Duration
}

// AccessToken extracts the bearer token from the Authorization header. The
// "Bearer " prefix is required; anything else is treated as absent.
func (t *TokenTransport) AccessToken(r *http.Request) string {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return token
}

// RefreshToken extracts the refresh token from the request cookie. Returns ""
// when the cookie is absent.
func (t *TokenTransport) RefreshToken(r *http.Request) string {
	cookie, err := r.Cookie(RefreshTokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetAuthorization places an access token on the response so clients can pick
// it up and replay it on subsequent requests.
func (t *TokenTransport) SetAuthorization(w http.ResponseWriter, token string) {
	w.Header().Set("Authorization", "Bearer "+token)
}

// SetRefreshCookie installs the refresh token cookie on the response.
func (t *TokenTransport) SetRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, t.refreshCookie(token, int(t.RefreshTTL.Seconds())))
}

// DeleteRefreshCookie expires the refresh token cookie immediately.
func (t *TokenTransport) DeleteRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, t.refreshCookie("", -1))
}

func (t *TokenTransport) refreshCookie(value string, maxAge int) *http.Cookie {
	cookie := &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   t.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if t.CookieDomain != "" && t.CookieDomain != "localhost" {
		cookie.Domain = t.CookieDomain
	}
	return cookie
}
