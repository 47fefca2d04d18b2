package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/ploghq/plog/internal/plog/domain"
	"github.com/ploghq/plog/internal/plog/service"
	"github.com/ploghq/plog/pkg/httpx"
)

type CommentHandler struct {
	CommentService *service.CommentService
}

type commentRequest struct {
	Content  string `json:"content"`
	ParentID *int64 `json:"parentId"`
}

type commentResponse struct {
	ID        int64             `json:"id"`
	PostID    int64             `json:"postId"`
	Author    string            `json:"author"`
	ParentID  *int64            `json:"parentId,omitempty"`
	Content   string            `json:"content"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Replies   []commentResponse `json:"replies,omitempty"`
}

func toCommentResponse(c domain.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		Author:    c.AuthorNickname,
		ParentID:  c.ParentID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// HandleCreate adds a comment or a one-level reply to a post.
func (h *CommentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	principal, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteFail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	postID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.WriteFail(w, http.StatusBadRequest, "invalid post id")
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteFail(w, http.StatusBadRequest, "malformed request body")
		return
	}

	comment, err := h.CommentService.CreateComment(r.Context(), principal.ID, postID, req.ParentID, req.Content)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusCreated, toCommentResponse(comment), "comment added")
}

// HandleList returns a post's comment threads oldest first.
func (h *CommentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.WriteFail(w, http.StatusBadRequest, "invalid post id")
		return
	}

	threads, err := h.CommentService.ListThreads(r.Context(), postID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := make([]commentResponse, 0, len(threads))
	for _, thread := range threads {
		cr := toCommentResponse(thread.Comment)
		for _, reply := range thread.Replies {
			cr.Replies = append(cr.Replies, toCommentResponse(reply))
		}
		resp = append(resp, cr)
	}

	httpx.WriteSuccess(w, http.StatusOK, resp, "")
}

// HandleUpdate edits a comment the caller owns.
func (h *CommentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	principal, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteFail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.WriteFail(w, http.StatusBadRequest, "invalid comment id")
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteFail(w, http.StatusBadRequest, "malformed request body")
		return
	}

	comment, err := h.CommentService.UpdateComment(r.Context(), principal.ID, id, req.Content)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, toCommentResponse(comment), "comment updated")
}

// HandleDelete removes a comment the caller owns, replies included.
func (h *CommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	principal, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteFail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.WriteFail(w, http.StatusBadRequest, "invalid comment id")
		return
	}

	if err := h.CommentService.DeleteComment(r.Context(), principal.ID, id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, nil, "comment deleted")
}
