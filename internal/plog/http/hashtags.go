package http

import (
	"net/http"

	"github.com/ploghq/plog/internal/plog/service"
	"github.com/ploghq/plog/pkg/httpx"
)

type HashTagHandler struct {
	HashTagService *service.HashTagService
}

type hashTagResponse struct {
	Name      string `json:"name"`
	PostCount int64  `json:"postCount"`
}

// HandleList returns every tag in use with its published post count, most
// used first.
func (h *HashTagHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	usage, err := h.HashTagService.ListUsage(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := make([]hashTagResponse, 0, len(usage))
	for _, u := range usage {
		resp = append(resp, hashTagResponse{Name: u.Name, PostCount: u.PostCount})
	}

	httpx.WriteSuccess(w, http.StatusOK, resp, "")
}
