package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ploghq/plog/internal/plog/service"
	"github.com/ploghq/plog/pkg/httpx"
)

type AuthHandler struct {
	AuthService *service.AuthService
	Transport   *httpx.TokenTransport
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type memberResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

type signInResponse struct {
	ID          int64  `json:"id"`
	Nickname    string `json:"nickname"`
	AccessToken string `json:"accessToken"`
}

// HandleSignUp registers a new member.
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteFail(w, http.StatusBadRequest, "malformed request body")
		return
	}

	member, err := h.AuthService.SignUp(r.Context(), req.Email, req.Password, req.Nickname)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusCreated, memberResponse{
		ID:       member.ID,
		Email:    member.Email,
		Nickname: member.Nickname,
	}, "welcome aboard")
}

// HandleSignIn checks credentials and hands out the token pair: access token
// in the Authorization header and body, refresh token as an HttpOnly cookie.
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteFail(w, http.StatusBadRequest, "malformed request body")
		return
	}

	result, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.Transport.SetAuthorization(w, result.AccessToken)
	h.Transport.SetRefreshCookie(w, result.RefreshToken)
	httpx.NoCache(w)
	httpx.WriteSuccess(w, http.StatusOK, signInResponse{
		ID:          result.Member.ID,
		Nickname:    result.Member.Nickname,
		AccessToken: result.AccessToken,
	}, fmt.Sprintf("welcome back, %s", result.Member.Nickname))
}

// HandleLogout drops the cached refresh token and expires the cookie. Logging
// out with a dead or missing token still succeeds.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.AuthService.Logout(h.Transport.RefreshToken(r))
	h.Transport.DeleteRefreshCookie(w)
	httpx.WriteSuccess(w, http.StatusOK, nil, "logged out")
}

// HandleReissue trades a valid refresh cookie for a fresh access token. A
// rejected cookie is expired on the way out so clients stop replaying it.
func (h *AuthHandler) HandleReissue(w http.ResponseWriter, r *http.Request) {
	refreshToken := h.Transport.RefreshToken(r)
	if refreshToken == "" {
		httpx.WriteFail(w, http.StatusUnauthorized, "refresh token required")
		return
	}

	accessToken, err := h.AuthService.Reissue(r.Context(), refreshToken)
	if err != nil {
		h.Transport.DeleteRefreshCookie(w)
		writeServiceError(w, r, err)
		return
	}

	h.Transport.SetAuthorization(w, accessToken)
	httpx.NoCache(w)
	httpx.WriteSuccess(w, http.StatusOK, map[string]string{"accessToken": accessToken}, "")
}
