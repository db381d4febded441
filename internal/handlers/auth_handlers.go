package handlers

import (
	"net/http"

	"github.com/ryadom/ryadom/internal/service"
	"github.com/sirupsen/logrus"
)

// AuthHandlers exposes the session lifecycle over HTTP on the users service.
// Cookie handling is not its concern; the edge router owns that.
type AuthHandlers struct {
	sessionService *service.SessionService
	logger         *logrus.Logger
}

func NewAuthHandlers(sessionService *service.SessionService, logger *logrus.Logger) *AuthHandlers {
	return &AuthHandlers{
		sessionService: sessionService,
		logger:         logger,
	}
}

type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	pair, err := h.sessionService.Login(r.Context(), req.Email, req.Password, req.RememberMe)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, pair)
}

func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	pair, err := h.sessionService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, pair)
}

// Logout is idempotent: a missing or unknown token still succeeds.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	var req LogoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	if req.RefreshToken != "" {
		if err := h.sessionService.Logout(r.Context(), req.RefreshToken); err != nil {
			respondWithError(w, err)
			return
		}
	}

	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "success"})
}
