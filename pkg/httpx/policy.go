package httpx

import (
	"net/http"
	"strings"
)

// PublicRule marks a method and path as reachable without authentication. A
// Path ending in "/" matches the whole subtree under it; any other Path
// matches exactly. An empty Method matches every method.
type PublicRule struct {
	Method string
	Path   string
}

func (r PublicRule) matches(method, path string) bool {
	if r.Method != "" && r.Method != method {
		return false
	}
	if strings.HasSuffix(r.Path, "/") {
		return strings.HasPrefix(path, r.Path) || path == strings.TrimSuffix(r.Path, "/")
	}
	return path == r.Path
}

// AccessPolicy rejects anonymous requests to any endpoint not covered by the
// public rules. Authenticated requests always pass; per-resource ownership
// checks belong to the handlers.
func AccessPolicy(public []PublicRule) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := PrincipalFromContext(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}
			for _, rule := range public {
				if rule.matches(r.Method, r.URL.Path) {
					next.ServeHTTP(w, r)
					return
				}
			}
			WriteFail(w, http.StatusUnauthorized, "authentication required")
		})
	}
}
