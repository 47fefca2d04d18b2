package httpx

import (
	"net/http"

	"github.com/ploghq/plog/pkg/jwtx"
	"github.com/ploghq/plog/pkg/slogx"
)

// AuthnMiddleware verifies the access token on incoming requests and attaches the
// resulting Principal to the request context. Requests without a token, or
// with an invalid or expired one, continue as anonymous; rejecting anonymous
// requests is the access policy's job, not this middleware's.
func AuthnMiddleware(verifier jwtx.Verifier, transport *TokenTransport) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := transport.AccessToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				slogx.FromContext(r.Context()).Debug("access token rejected", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			// No roles model; every authenticated member carries an empty
			// authority set.
			principal := Principal{
				ID:       claims.MemberID,
				Email:    claims.Subject,
				Nickname: claims.Nickname,
			}
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
		})
	}
}
