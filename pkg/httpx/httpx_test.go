package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ploghq/plog/pkg/httpx"
	"github.com/ploghq/plog/pkg/jwtx"
)

const testSecret = "httpx-test-secret-0123456789abcdef"

func TestChainOrdering(t *testing.T) {
	var order []string

	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mw("outer"), mw("inner"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestRecover(t *testing.T) {
	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), httpx.Recover())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var env httpx.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, httpx.StatusFail, env.Status)
}

func TestTokenTransportAccessToken(t *testing.T) {
	transport := &httpx.TokenTransport{}

	t.Run("bearer prefix stripped", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer abc.def.ghi")
		require.Equal(t, "abc.def.ghi", transport.AccessToken(r))
	})

	t.Run("missing prefix treated as absent", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "abc.def.ghi")
		require.Empty(t, transport.AccessToken(r))
	})

	t.Run("absent", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		require.Empty(t, transport.AccessToken(r))
	})
}

func TestTokenTransportRefreshCookie(t *testing.T) {
	transport := &httpx.TokenTransport{
		CookieDomain: "plog.example.com",
		CookieSecure: true,
		RefreshTTL:   14 * 24 * time.Hour,
	}

	rec := httptest.NewRecorder()
	transport.SetRefreshCookie(rec, "refresh-token-value")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	cookie := cookies[0]
	require.Equal(t, httpx.RefreshTokenCookie, cookie.Name)
	require.Equal(t, "refresh-token-value", cookie.Value)
	require.Equal(t, "/", cookie.Path)
	require.Equal(t, "plog.example.com", cookie.Domain)
	require.Equal(t, int((14 * 24 * time.Hour).Seconds()), cookie.MaxAge)
	require.True(t, cookie.HttpOnly)
	require.True(t, cookie.Secure)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	// The cookie must round trip back through a request.
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)
	require.Equal(t, "refresh-token-value", transport.RefreshToken(r))
}

func TestTokenTransportLocalhostDomainOmitted(t *testing.T) {
	transport := &httpx.TokenTransport{CookieDomain: "localhost", RefreshTTL: time.Hour}

	rec := httptest.NewRecorder()
	transport.SetRefreshCookie(rec, "tok")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Empty(t, cookies[0].Domain)
}

func TestTokenTransportDeleteRefreshCookie(t *testing.T) {
	transport := &httpx.TokenTransport{RefreshTTL: time.Hour}

	rec := httptest.NewRecorder()
	transport.DeleteRefreshCookie(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Empty(t, cookies[0].Value)
	require.Negative(t, cookies[0].MaxAge)
}

func TestAuthn(t *testing.T) {
	issuer, err := jwtx.NewIssuer(testSecret, time.Minute, time.Hour)
	require.NoError(t, err)
	verifier := jwtx.NewVerifier(testSecret)
	transport := &httpx.TokenTransport{}

	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := httpx.PrincipalFromContext(r.Context()); ok {
			httpx.WriteSuccess(w, http.StatusOK, p.Email, "")
			return
		}
		httpx.WriteSuccess(w, http.StatusOK, nil, "anonymous")
	})
	h := httpx.Chain(echo, httpx.AuthnMiddleware(verifier, transport))

	t.Run("no token passes through anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "anonymous")
	})

	t.Run("valid token installs principal", func(t *testing.T) {
		var seen httpx.Principal
		capture := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := httpx.PrincipalFromContext(r.Context())
			require.True(t, ok)
			seen = p
			httpx.WriteSuccess(w, http.StatusOK, p.Email, "")
		}), httpx.AuthnMiddleware(verifier, transport))

		token, err := issuer.AccessToken(7, "a@plog.com", "alice")
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		capture.ServeHTTP(rec, r)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "a@plog.com")
		require.EqualValues(t, 7, seen.ID)
		require.Equal(t, "alice", seen.Nickname)
		require.Empty(t, seen.Authorities)
	})

	t.Run("garbage token passes through anonymous", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer not.a.token")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "anonymous")
	})

	t.Run("expired token passes through anonymous", func(t *testing.T) {
		expired, err := issuer.Sign(jwtx.NewAccessClaims(7, "a@plog.com", "alice",
			time.Minute, time.Now().Add(-2*time.Minute)))
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+expired)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "anonymous")
	})
}

func TestAccessPolicy(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := httpx.Chain(next, httpx.AccessPolicy([]httpx.PublicRule{
		{Method: http.MethodPost, Path: "/api/members/sign-in"},
		{Method: http.MethodGet, Path: "/api/posts/"},
	}))

	t.Run("anonymous on public exact path", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/members/sign-in", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("anonymous on public subtree", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/posts/42", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/posts", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("anonymous wrong method rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/posts/42", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("anonymous on protected path rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/members/me", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var env httpx.Envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		require.Equal(t, httpx.StatusFail, env.Status)
	})

	t.Run("authenticated always passes", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/members/me", nil)
		r = r.WithContext(httpx.ContextWithPrincipal(r.Context(), httpx.Principal{ID: 1}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		require.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestRateLimit(t *testing.T) {
	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), httpx.RateLimit(httpx.RateLimitConfig{RequestsPerSecond: 1, Burst: 2}))

	req := func() int {
		r := httptest.NewRequest(http.MethodPost, "/api/members/sign-in", nil)
		r.RemoteAddr = "10.0.0.1:54321"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec.Code
	}

	require.Equal(t, http.StatusNoContent, req())
	require.Equal(t, http.StatusNoContent, req())
	require.Equal(t, http.StatusTooManyRequests, req())

	// A different client gets its own bucket.
	r := httptest.NewRequest(http.MethodPost, "/api/members/sign-in", nil)
	r.RemoteAddr = "10.0.0.2:54321"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	require.Equal(t, http.StatusNoContent, rec.Code)
}
