package authhandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kpiboard/internal/domain/auth"
	"kpiboard/internal/transport/http/api"
	"kpiboard/internal/transport/http/middleware"
	"kpiboard/internal/transport/http/shared"
)

type LoginService interface {
	Login(ctx context.Context, email, password string) (auth.LoginResult, error)
}

type Handler struct {
	Service LoginService
}

func NewHandler(service LoginService) *Handler {
	return &Handler{Service: service}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
	r.With(middleware.RequireAuth).Get("/auth/me", h.HandleMe)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("email", payload.Email, "is required")
	v.Required("password", payload.Password, "is required")
	if v.Reject(w, requestID) {
		return
	}

	result, err := h.Service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) || errors.Is(err, auth.ErrInvalidRole) {
			api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestID)
			return
		}
		slog.Warn("login failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "login_failed", "login failed", requestID)
		return
	}
	api.Success(w, result, requestID)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	api.Success(w, map[string]any{
		"id":          user.UserID,
		"role":        user.RoleName,
		"permissions": auth.RolePermissions[user.RoleName],
	}, middleware.GetRequestID(r.Context()))
}
