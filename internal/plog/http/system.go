package http

import (
	"net/http"
	"time"

	"github.com/ploghq/plog/internal/plog/store"
	"github.com/ploghq/plog/pkg/httpx"
	"github.com/ploghq/plog/pkg/slogx"
)

// LivezHandler reports process liveness.
func LivezHandler(startTime time.Time, buildVersion string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteSuccess(w, http.StatusOK, map[string]any{
			"version": buildVersion,
			"uptime":  time.Since(startTime).Round(time.Second).String(),
		}, "")
	})
}

// ReadyzHandler reports readiness: the database must answer a ping, and so
// must the view counter backend when one is configured.
func ReadyzHandler(st store.Store, views store.ViewCounts) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			slogx.FromContext(r.Context()).Error("database ping failed", "error", err)
			httpx.WriteFail(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}

		if views != nil {
			if err := views.Ping(r.Context()); err != nil {
				slogx.FromContext(r.Context()).Error("view counter ping failed", "error", err)
				httpx.WriteFail(w, http.StatusServiceUnavailable, "view counter unavailable")
				return
			}
		}

		httpx.WriteSuccess(w, http.StatusOK, nil, "ready")
	})
}
