package http

import (
	"encoding/json"
	"net/http"

	"github.com/ploghq/plog/internal/plog/service"
	"github.com/ploghq/plog/pkg/httpx"
)

type MemberHandler struct {
	MemberService *service.MemberService
}

type profileResponse struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	Nickname       string `json:"nickname"`
	ProfileImageID *int64 `json:"profileImageId,omitempty"`
}

type updateProfileRequest struct {
	Nickname       string `json:"nickname"`
	ProfileImageID *int64 `json:"profileImageId"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// HandleGetMe returns the authenticated member's profile.
func (h *MemberHandler) HandleGetMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteFail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	member, err := h.MemberService.GetMemberByID(r.Context(), principal.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteSuccess(w, http.StatusOK, profileResponse{
		ID:             member.ID,
		Email:          member.Email,
		Nickname:       member.Nickname,
		ProfileImageID: member.ProfileImageID,
	}, "")
}

// HandleUpdateMe changes the nickname and profile image of the caller.
func (h *MemberHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteFail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteFail(w, http.StatusBadRequest, "malformed request body")
		return
	}

	member, err := h.MemberService.UpdateProfile(r.Context(), principal.ID, req.Nickname, req.ProfileImageID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, profileResponse{
		ID:             member.ID,
		Email:          member.Email,
		Nickname:       member.Nickname,
		ProfileImageID: member.ProfileImageID,
	}, "profile updated")
}

// HandleChangePassword swaps the caller's password after re-checking the
// current one.
func (h *MemberHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	principal, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteFail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteFail(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := h.MemberService.ChangePassword(r.Context(), principal.ID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, nil, "password changed")
}
