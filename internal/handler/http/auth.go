package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jget-crm/backoffice/internal/domain/auth"
	"github.com/jget-crm/backoffice/internal/handler/http/response"
	"github.com/jget-crm/backoffice/internal/pkg/jwt"
	authservice "github.com/jget-crm/backoffice/internal/service/auth"
)

type AuthHandler struct {
	authService *authservice.Service
	jwtService  jwt.Service
}

func NewAuthHandler(authService *authservice.Service, jwtService jwt.Service) *AuthHandler {
	return &AuthHandler{authService: authService, jwtService: jwtService}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	resp, refreshToken, refreshExpiresAt, err := h.authService.Login(r.Context(), req)
	if err != nil {
		slog.Error("Login failed", "username", req.Username, "error", err)
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, h.jwtService.RefreshTokenCookie(refreshToken, refreshExpiresAt))
	response.Success(w, resp)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	resp, err := h.authService.Refresh(r.Context(), cookie.Value)
	if err != nil {
		slog.Error("Token refresh failed", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("refresh_token"); err == nil {
		_ = h.authService.Logout(r.Context(), cookie.Value)
	}

	expired := h.jwtService.RefreshTokenCookie("", 0)
	expired.MaxAge = -1
	http.SetCookie(w, expired)

	response.SuccessWithMessage(w, "Logged out", nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	resp, err := h.authService.Me(r.Context(), ac.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}
