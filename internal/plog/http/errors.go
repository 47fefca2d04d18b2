package http

import (
	"errors"
	"net/http"

	"github.com/ploghq/plog/internal/plog/service"
	"github.com/ploghq/plog/pkg/httpx"
	"github.com/ploghq/plog/pkg/slogx"
)

// writeServiceError translates service sentinels into the response envelope.
// Anything unrecognized is logged and answered with a generic 500; internal
// detail never reaches the body.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrCredentialMismatch),
		errors.Is(err, service.ErrInvalidRefresh):
		httpx.WriteFail(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotOwner):
		httpx.WriteFail(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrMemberNotFound),
		errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrCommentNotFound):
		httpx.WriteFail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDuplicateMember):
		httpx.WriteFail(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidSignUp),
		errors.Is(err, service.ErrInvalidPost),
		errors.Is(err, service.ErrInvalidComment),
		errors.Is(err, service.ErrInvalidImage):
		httpx.WriteFail(w, http.StatusBadRequest, err.Error())
	default:
		slogx.FromContext(r.Context()).Error("unhandled service error", "error", err)
		httpx.WriteFail(w, http.StatusInternalServerError, "internal server error")
	}
}
