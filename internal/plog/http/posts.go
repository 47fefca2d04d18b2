package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ploghq/plog/internal/plog/domain"
	"github.com/ploghq/plog/internal/plog/service"
	"github.com/ploghq/plog/pkg/httpx"
	"github.com/ploghq/plog/pkg/slogx"
)

type PostHandler struct {
	PostService      *service.PostService
	ViewCountService *service.ViewCountService
}

type postRequest struct {
	Title            string   `json:"title"`
	Content          string   `json:"content"`
	HashTags         []string `json:"hashtags"`
	ThumbnailImageID *int64   `json:"thumbnailImageId"`
}

type postResponse struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Content          string    `json:"content,omitempty"`
	Summary          string    `json:"summary"`
	Author           string    `json:"author"`
	ViewCount        int64     `json:"viewCount"`
	ThumbnailImageID *int64    `json:"thumbnailImageId,omitempty"`
	HashTags         []string  `json:"hashtags"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type postPageResponse struct {
	Posts      []postResponse `json:"posts"`
	Page       int            `json:"page"`
	Size       int            `json:"size"`
	TotalCount int64          `json:"totalCount"`
}

func toPostResponse(p domain.Post, includeContent bool) postResponse {
	resp := postResponse{
		ID:               p.ID,
		Title:            p.Title,
		Summary:          p.Summary,
		Author:           p.AuthorNickname,
		ViewCount:        p.ViewCount,
		ThumbnailImageID: p.ThumbnailImageID,
		HashTags:         p.HashTags,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	if includeContent {
		resp.Content = p.Content
	}
	return resp
}

// HandleCreate publishes a new post owned by the caller.
func (h *PostHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	principal, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteFail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteFail(w, http.StatusBadRequest, "malformed request body")
		return
	}

	post, err := h.PostService.CreatePost(r.Context(), principal.ID, req.Title, req.Content, req.HashTags, req.ThumbnailImageID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusCreated, toPostResponse(post, true), "post published")
}

// HandleGet returns a single post and counts the view. View counting is best
// effort; a dead counter backend never blocks the read.
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.WriteFail(w, http.StatusBadRequest, "invalid post id")
		return
	}

	post, err := h.PostService.GetPost(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.ViewCountService.RecordView(r.Context(), id, httpx.IPKeyExtractor(r)); err != nil {
		slogx.FromContext(r.Context()).Warn("failed to record view", "post_id", id, "error", err)
	}

	httpx.WriteSuccess(w, http.StatusOK, toPostResponse(post, true), "")
}

// HandleList pages through published posts, optionally filtered by hashtag.
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	hashtag := r.URL.Query().Get("hashtag")

	result, err := h.PostService.ListPosts(r.Context(), page, size, hashtag)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := postPageResponse{
		Posts:      make([]postResponse, 0, len(result.Posts)),
		Page:       result.Page,
		Size:       result.Size,
		TotalCount: result.TotalCount,
	}
	for _, p := range result.Posts {
		resp.Posts = append(resp.Posts, toPostResponse(p, false))
	}

	httpx.WriteSuccess(w, http.StatusOK, resp, "")
}

// HandleUpdate rewrites a post the caller owns.
func (h *PostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	principal, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteFail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.WriteFail(w, http.StatusBadRequest, "invalid post id")
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteFail(w, http.StatusBadRequest, "malformed request body")
		return
	}

	post, err := h.PostService.UpdatePost(r.Context(), principal.ID, id, req.Title, req.Content, req.HashTags, req.ThumbnailImageID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, toPostResponse(post, true), "post updated")
}

// HandleDelete tombstones a post the caller owns.
func (h *PostHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	principal, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteFail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.WriteFail(w, http.StatusBadRequest, "invalid post id")
		return
	}

	if err := h.PostService.DeletePost(r.Context(), principal.ID, id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, nil, "post deleted")
}
