package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ryadom/ryadom/internal/apperrors"
	"github.com/ryadom/ryadom/internal/config"
	"github.com/ryadom/ryadom/internal/gateway"
	"github.com/ryadom/ryadom/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

// EdgeHandlers is the public dispatch table. Resource endpoints forward to
// exactly one backend through the gateway client; auth endpoints additionally
// own the session cookies.
type EdgeHandlers struct {
	gateway *gateway.Client
	cfg     *config.EdgeConfig
	logger  *logrus.Logger
}

func NewEdgeHandlers(gw *gateway.Client, cfg *config.EdgeConfig, logger *logrus.Logger) *EdgeHandlers {
	return &EdgeHandlers{
		gateway: gw,
		cfg:     cfg,
		logger:  logger,
	}
}

type AuthStatusResponse struct {
	Status    string `json:"status"`
	ExpiresIn int64  `json:"expires_in"`
}

// AUTH

func (h *EdgeHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	var pair models.TokenPair
	if _, err := h.gateway.DoJSON(r.Context(), http.MethodPost, h.cfg.Downstream.UsersBaseURL, "/auth/login", req, &pair); err != nil {
		respondWithError(w, err)
		return
	}

	h.setAuthCookies(w, r, &pair, req.RememberMe)
	respondWithJSON(w, http.StatusOK, AuthStatusResponse{Status: "success", ExpiresIn: pair.ExpiresIn})
}

// Refresh renews the access token from the refresh_token cookie. On any
// failure both cookies are cleared first, so a client holding a dead token
// does not retry forever with the same stale cookie.
func (h *EdgeHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil {
		h.clearAuthCookies(w, r)
		respondWithError(w, apperrors.InvalidToken("Missing refresh token"))
		return
	}

	var pair models.TokenPair
	if _, err := h.gateway.DoJSON(r.Context(), http.MethodPost, h.cfg.Downstream.UsersBaseURL, "/auth/refresh",
		RefreshRequest{RefreshToken: cookie.Value}, &pair); err != nil {
		h.clearAuthCookies(w, r)
		respondWithError(w, err)
		return
	}

	h.setAuthCookies(w, r, &pair, true)
	respondWithJSON(w, http.StatusOK, AuthStatusResponse{Status: "success", ExpiresIn: pair.ExpiresIn})
}

func (h *EdgeHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil {
		if _, err := h.gateway.DoJSON(r.Context(), http.MethodPost, h.cfg.Downstream.UsersBaseURL, "/auth/logout",
			LogoutRequest{RefreshToken: cookie.Value}, nil); err != nil {
			h.logger.WithError(err).Warn("Downstream logout failed")
		}
	}

	h.clearAuthCookies(w, r)
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "success"})
}

// USERS

func (h *EdgeHandlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	h.forward(w, r, http.MethodPost, h.cfg.Downstream.UsersBaseURL, "/users/", req)
}

func (h *EdgeHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, http.MethodGet, h.cfg.Downstream.UsersBaseURL, "/users/", nil)
}

func (h *EdgeHandlers) GetUser(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, http.MethodGet, h.cfg.Downstream.UsersBaseURL, "/users/"+mux.Vars(r)["id"], nil)
}

func (h *EdgeHandlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	h.forward(w, r, http.MethodPut, h.cfg.Downstream.UsersBaseURL, "/users/"+mux.Vars(r)["id"], req)
}

func (h *EdgeHandlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, http.MethodDelete, h.cfg.Downstream.UsersBaseURL, "/users/"+mux.Vars(r)["id"], nil)
}

// EVENTS

func (h *EdgeHandlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	h.forward(w, r, http.MethodPost, h.cfg.Downstream.EventsBaseURL, "/events/", req)
}

func (h *EdgeHandlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, http.MethodGet, h.cfg.Downstream.EventsBaseURL, "/events/", nil)
}

func (h *EdgeHandlers) GetEvent(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, http.MethodGet, h.cfg.Downstream.EventsBaseURL, "/events/"+mux.Vars(r)["id"], nil)
}

func (h *EdgeHandlers) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	h.forward(w, r, http.MethodPut, h.cfg.Downstream.EventsBaseURL, "/events/"+mux.Vars(r)["id"], req)
}

func (h *EdgeHandlers) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, http.MethodDelete, h.cfg.Downstream.EventsBaseURL, "/events/"+mux.Vars(r)["id"], nil)
}

// MEMBERS

// AddMember composes two downstream calls: the user must exist in the users
// service before the membership write is attempted against the events
// service. The role check happens before any network call, and the events
// store resolves duplicate races with its uniqueness constraint.
func (h *EdgeHandlers) AddMember(w http.ResponseWriter, r *http.Request) {
	var req AddMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	if !models.IsValidRole(req.Role) {
		respondWithError(w, apperrors.Validation("Invalid role "+req.Role))
		return
	}

	if _, _, err := h.gateway.Do(r.Context(), http.MethodGet, h.cfg.Downstream.UsersBaseURL, "/users/"+req.UserID, nil); err != nil {
		respondWithError(w, err)
		return
	}

	h.forward(w, r, http.MethodPost, h.cfg.Downstream.EventsBaseURL, "/events/"+mux.Vars(r)["id"]+"/members/", req)
}

func (h *EdgeHandlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, http.MethodGet, h.cfg.Downstream.EventsBaseURL, "/events/"+mux.Vars(r)["id"]+"/members/", nil)
}

// MAPS

func (h *EdgeHandlers) Geocode(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, http.MethodGet, h.cfg.Downstream.MapsBaseURL, "/geocode?"+r.URL.RawQuery, nil)
}

func (h *EdgeHandlers) StaticMap(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, http.MethodGet, h.cfg.Downstream.MapsBaseURL, "/static-map?"+r.URL.RawQuery, nil)
}

// forward proxies one call and passes the downstream status and body through
// unchanged on success.
func (h *EdgeHandlers) forward(w http.ResponseWriter, r *http.Request, method, baseURL, path string, body interface{}) {
	status, respBody, err := h.gateway.Do(r.Context(), method, baseURL, path, body)
	if err != nil {
		respondWithError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(respBody)
}

func (h *EdgeHandlers) setAuthCookies(w http.ResponseWriter, r *http.Request, pair *models.TokenPair, rememberMe bool) {
	secure := isSecureRequest(r)

	refreshExpiry := h.cfg.JWT.RefreshShortExpiry
	if rememberMe {
		refreshExpiry = h.cfg.JWT.RefreshExpiry
	}

	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int(pair.ExpiresIn),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   int(refreshExpiry.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *EdgeHandlers) clearAuthCookies(w http.ResponseWriter, r *http.Request) {
	secure := isSecureRequest(r)

	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// isSecureRequest reports whether the inbound request arrived over HTTPS,
// either directly or behind a TLS-terminating proxy.
func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}
