// Package http wires the public API surface: a stdlib ServeMux with method
// patterns, a global middleware chain, and one handler file per concern.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ploghq/plog/internal/plog/service"
	"github.com/ploghq/plog/internal/plog/store"
	"github.com/ploghq/plog/pkg/httpx"
	"github.com/ploghq/plog/pkg/jwtx"
	"github.com/ploghq/plog/pkg/slogx"
)

// publicRoutes is the fixed anonymous allowlist. Everything else needs an
// authenticated principal. Logout and reissue are listed because both run on
// the refresh cookie, not on a live access token.
var publicRoutes = []httpx.PublicRule{
	{Method: http.MethodPost, Path: "/api/members/sign-up"},
	{Method: http.MethodPost, Path: "/api/members/sign-in"},
	{Method: http.MethodPost, Path: "/api/members/logout"},
	{Method: http.MethodPost, Path: "/api/members/reissue"},
	{Method: http.MethodGet, Path: "/api/posts/"},
	{Method: http.MethodGet, Path: "/livez"},
	{Method: http.MethodGet, Path: "/readyz"},
}

// strictLimit guards credential endpoints against brute force.
var strictLimit = httpx.RateLimitConfig{RequestsPerSecond: 1, Burst: 5}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	transport    *httpx.TokenTransport
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store
	views        store.ViewCounts

	AuthService      *service.AuthService
	MemberService    *service.MemberService
	PostService      *service.PostService
	CommentService   *service.CommentService
	HashTagService   *service.HashTagService
	ImageService     *service.ImageService
	ViewCountService *service.ViewCountService
}

func NewRouter(
	verifier jwtx.Verifier,
	transport *httpx.TokenTransport,
	buildVersion string,
	st store.Store,
	views store.ViewCounts,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		transport:    transport,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
		views:        views,
	}

	// Global chain: request logging, panic recovery, then the fail-open
	// authentication filter followed by the access policy.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recover(),
		httpx.AuthnMiddleware(verifier, transport),
		httpx.AccessPolicy(publicRoutes),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerMembers()
	r.registerPosts()
	r.registerComments()
	r.registerHashTags()
	r.registerImages()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		AuthService: r.AuthService,
		Transport:   r.transport,
	}

	r.Mux.Handle("POST /api/members/sign-up",
		httpx.Chain(http.HandlerFunc(h.HandleSignUp), httpx.RateLimit(strictLimit)))
	r.Mux.Handle("POST /api/members/sign-in",
		httpx.Chain(http.HandlerFunc(h.HandleSignIn), httpx.RateLimit(strictLimit)))
	r.Mux.Handle("POST /api/members/logout", http.HandlerFunc(h.HandleLogout))
	r.Mux.Handle("POST /api/members/reissue",
		httpx.Chain(http.HandlerFunc(h.HandleReissue), httpx.RateLimit(strictLimit)))
}

func (r *Router) registerMembers() {
	h := &MemberHandler{MemberService: r.MemberService}

	r.Mux.Handle("GET /api/members/me", http.HandlerFunc(h.HandleGetMe))
	r.Mux.Handle("PATCH /api/members/me", http.HandlerFunc(h.HandleUpdateMe))
	r.Mux.Handle("PUT /api/members/me/password", http.HandlerFunc(h.HandleChangePassword))
}

func (r *Router) registerPosts() {
	h := &PostHandler{
		PostService:      r.PostService,
		ViewCountService: r.ViewCountService,
	}

	r.Mux.Handle("GET /api/posts", http.HandlerFunc(h.HandleList))
	r.Mux.Handle("POST /api/posts", http.HandlerFunc(h.HandleCreate))
	r.Mux.Handle("GET /api/posts/{id}", http.HandlerFunc(h.HandleGet))
	r.Mux.Handle("PUT /api/posts/{id}", http.HandlerFunc(h.HandleUpdate))
	r.Mux.Handle("DELETE /api/posts/{id}", http.HandlerFunc(h.HandleDelete))
}

func (r *Router) registerComments() {
	h := &CommentHandler{CommentService: r.CommentService}

	r.Mux.Handle("GET /api/posts/{id}/comments", http.HandlerFunc(h.HandleList))
	r.Mux.Handle("POST /api/posts/{id}/comments", http.HandlerFunc(h.HandleCreate))
	r.Mux.Handle("PUT /api/comments/{id}", http.HandlerFunc(h.HandleUpdate))
	r.Mux.Handle("DELETE /api/comments/{id}", http.HandlerFunc(h.HandleDelete))
}

func (r *Router) registerHashTags() {
	h := &HashTagHandler{HashTagService: r.HashTagService}

	r.Mux.Handle("GET /api/hashtags", http.HandlerFunc(h.HandleList))
}

func (r *Router) registerImages() {
	h := &ImageHandler{ImageService: r.ImageService}

	r.Mux.Handle("POST /api/images", http.HandlerFunc(h.HandleUpload))
	r.Mux.Handle("GET /api/images/{id}", http.HandlerFunc(h.HandleGet))
	r.Mux.Handle("DELETE /api/images/{id}", http.HandlerFunc(h.HandleDelete))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.store, r.views))
}
