// Package directory exposes the user CRUD endpoints.
//
// Registration is open; every other operation sits behind the bearer-token
// middleware supplied at registration time.
package directory

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"roster/cmd/identity"
	"roster/cmd/internal/httpx"
	"roster/cmd/security/password"
)

// Handler serves the /users routes over a credential store.
type Handler struct {
	log    *slog.Logger
	store  identity.Store
	hasher password.Config

	maxBodyBytes int64
}

// NewHandler constructs a directory Handler.
func NewHandler(log *slog.Logger, store identity.Store, hasher password.Config, maxBodyBytes int64) (*Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	if store == nil {
		return nil, errors.New("directory: nil store")
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = 1 << 20
	}
	return &Handler{log: log, store: store, hasher: hasher, maxBodyBytes: maxBodyBytes}, nil
}

// Register wires the user routes onto mux. requireAuth guards everything
// except user creation, which has to stay open for sign-up.
func (h *Handler) Register(mux *http.ServeMux, requireAuth func(http.Handler) http.Handler) {
	if h == nil || mux == nil {
		return
	}
	if requireAuth == nil {
		requireAuth = func(next http.Handler) http.Handler { return next }
	}
	mux.Handle("GET /users", requireAuth(http.HandlerFunc(h.handleList)))
	mux.HandleFunc("POST /users", h.handleCreate)
	mux.Handle("PUT /users/{id}", requireAuth(http.HandlerFunc(h.handleUpdate)))
	mux.Handle("DELETE /users/{id}", requireAuth(http.HandlerFunc(h.handleDelete)))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		h.log.Error("directory.list.fail", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponses(users))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := httpx.DecodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "name, email and password are required")
		return
	}
	if req.Password != req.ConfPassword {
		httpx.WriteError(w, http.StatusBadRequest, "password_mismatch", "password and confPassword do not match")
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		switch {
		case errors.Is(err, password.ErrPasswordTooShort), errors.Is(err, password.ErrPasswordTooLong):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_password", err.Error())
		default:
			h.log.Error("directory.create.hash.fail", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
		}
		return
	}

	u, err := h.store.CreateUser(r.Context(), identity.CreateUserInput{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Now:          time.Now().UTC(),
	})
	if err != nil {
		switch {
		case identity.IsConflict(err):
			httpx.WriteError(w, http.StatusConflict, "conflict", "email already registered")
		case identity.IsInvalidInput(err):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid input")
		default:
			h.log.Error("directory.create.fail", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
		}
		return
	}

	h.log.Info("directory.create.ok", "user_id", u.ID)
	httpx.WriteJSON(w, http.StatusCreated, userMutationResponse{
		Msg:  "registration successful",
		User: toUserResponse(u),
	})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	var req updateUserRequest
	if err := httpx.DecodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "name and email are required")
		return
	}

	in := identity.UpdateUserInput{
		Name:  name,
		Email: email,
		Now:   time.Now().UTC(),
	}
	if req.Password != "" {
		if req.Password != req.ConfPassword {
			httpx.WriteError(w, http.StatusBadRequest, "password_mismatch", "password and confPassword do not match")
			return
		}
		hash, err := h.hasher.Hash(req.Password)
		if err != nil {
			switch {
			case errors.Is(err, password.ErrPasswordTooShort), errors.Is(err, password.ErrPasswordTooLong):
				httpx.WriteError(w, http.StatusBadRequest, "invalid_password", err.Error())
			default:
				h.log.Error("directory.update.hash.fail", "err", err)
				httpx.WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
			}
			return
		}
		in.PasswordHash = &hash
	}

	u, err := h.store.UpdateUser(r.Context(), id, in)
	if err != nil {
		switch {
		case identity.IsNotFound(err):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "user does not exist")
		case identity.IsConflict(err):
			httpx.WriteError(w, http.StatusConflict, "conflict", "email already registered")
		case identity.IsInvalidInput(err):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "invalid input")
		default:
			h.log.Error("directory.update.fail", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userMutationResponse{
		Msg:  "user updated",
		User: toUserResponse(u),
	})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteUser(r.Context(), id); err != nil {
		switch {
		case identity.IsNotFound(err):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "user does not exist")
		default:
			h.log.Error("directory.delete.fail", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
		}
		return
	}

	h.log.Info("directory.delete.ok", "user_id", id)
	httpx.WriteJSON(w, http.StatusOK, msgResponse{Msg: "user deleted"})
}

func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "user does not exist")
		return 0, false
	}
	return id, true
}
