package authapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"roster/cmd/internal/auth/session"
	"roster/cmd/internal/auth/token"
	"roster/cmd/internal/httpx"
)

// Handler wires the session lifecycle endpoints: login, access token refresh,
// and logout. The refresh token only ever travels in an HTTP-only cookie.
type Handler struct {
	log *slog.Logger
	cfg Config

	sessions *session.Service
	tokens   *token.Manager
}

// NewHandler constructs an auth Handler.
func NewHandler(log *slog.Logger, cfg Config, sessions *session.Service, tokens *token.Manager) (*Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	if sessions == nil {
		return nil, errors.New("auth: nil session service")
	}
	if tokens == nil {
		return nil, errors.New("auth: nil token manager")
	}
	return &Handler{log: log, cfg: cfg, sessions: sessions, tokens: tokens}, nil
}

// Register wires auth routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("POST /login", h.handleLogin)
	mux.HandleFunc("GET /token", h.handleToken)
	mux.HandleFunc("DELETE /logout", h.handleLogout)
}

// ---- handlers ----

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	issued, err := h.sessions.Login(ctx, now, email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrUserNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "user does not exist")
		case errors.Is(err, session.ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_credentials", "wrong password")
		default:
			h.log.Error("auth.login.fail", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
		}
		return
	}

	h.log.Info("auth.login.ok", "user_id", issued.User.ID)
	h.setRefreshCookie(w, issued.RefreshToken, issued.RefreshExpiresAt)
	httpx.WriteJSON(w, http.StatusOK, tokenResponse{AccessToken: issued.AccessToken})
}

func (h *Handler) handleToken(w http.ResponseWriter, r *http.Request) {
	refreshToken, ok := h.refreshTokenFromCookie(r)
	if !ok {
		// No session cookie at all: nothing to refresh, nothing to report.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	accessToken, _, err := h.sessions.Refresh(ctx, now, refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrSessionNotFound),
			errors.Is(err, token.ErrExpired),
			errors.Is(err, token.ErrInvalidToken):
			httpx.WriteError(w, http.StatusForbidden, "forbidden", "invalid or expired refresh token")
		default:
			h.log.Error("auth.refresh.fail", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tokenResponse{AccessToken: accessToken})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	refreshToken, ok := h.refreshTokenFromCookie(r)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	cleared, err := h.sessions.Logout(ctx, now, refreshToken)
	if err != nil {
		h.log.Error("auth.logout.fail", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}
	if !cleared {
		// Cookie no longer matches a live session; treat as already logged out.
		h.clearRefreshCookie(w)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.log.Info("auth.logout.ok")
	h.clearRefreshCookie(w)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"msg": "logout successful"})
}
