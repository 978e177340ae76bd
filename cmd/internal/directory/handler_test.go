package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"roster/cmd/identity"
	authapi "roster/cmd/internal/auth/api"
	"roster/cmd/internal/auth/session"
	"roster/cmd/internal/auth/token"
	"roster/cmd/security/password"
)

type testEnv struct {
	mux    *http.ServeMux
	store  *identity.MemoryStore
	tokens *token.Manager
	hasher password.Config
}

// newTestEnv wires the directory routes behind the real auth middleware so
// the tests exercise the same stack the server runs.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tokCfg := token.DefaultConfig()
	tokCfg.AccessSecret = "access-secret-for-tests-0123456789abcdef"
	tokCfg.RefreshSecret = "refresh-secret-for-tests-0123456789abcdef"
	mgr, err := token.NewManager(tokCfg)
	if err != nil {
		t.Fatalf("token.NewManager: %v", err)
	}

	hasher := password.DefaultConfig()
	hasher.Cost = 4

	store := identity.NewMemoryStore()
	sessions := session.NewService(store, mgr, hasher)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	authCfg := authapi.LoadConfigFromEnv()
	auth, err := authapi.NewHandler(log, authCfg, sessions, mgr)
	if err != nil {
		t.Fatalf("authapi.NewHandler: %v", err)
	}

	dir, err := NewHandler(log, store, hasher, 1<<20)
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}

	mux := http.NewServeMux()
	auth.Register(mux)
	dir.Register(mux, auth.RequireAuth)

	return &testEnv{mux: mux, store: store, tokens: mgr, hasher: hasher}
}

func (e *testEnv) do(t *testing.T, method, target, body, bearer string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	if bearer != "" {
		r.Header.Set("Authorization", "Bearer "+bearer)
	}
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.mux.ServeHTTP(w, r)
	return w
}

func (e *testEnv) register(t *testing.T, name, email, pw string) userResponse {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"email":%q,"password":%q,"confPassword":%q}`, name, email, pw, pw)
	w := e.do(t, http.MethodPost, "/users", body, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status = %d, want 201; body %s", email, w.Code, w.Body.String())
	}
	var resp userMutationResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return resp.User
}

func (e *testEnv) accessFor(t *testing.T, id int64) string {
	t.Helper()
	u, err := e.store.GetUserByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	tok, _, err := e.tokens.IssueAccess(u, time.Now().UTC())
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	return tok
}

func TestCreate_OK(t *testing.T) {
	env := newTestEnv(t)

	u := env.register(t, "Ann", "ann@x.com", "p1-secret")
	if u.ID == 0 || u.Name != "Ann" || u.Email != "ann@x.com" {
		t.Fatalf("created user = %+v", u)
	}

	stored, err := env.store.GetUserByID(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if stored.PasswordHash == "p1-secret" || stored.PasswordHash == "" {
		t.Fatalf("password stored without hashing")
	}
	ok, err := env.hasher.Verify(stored.PasswordHash, "p1-secret")
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify: ok=%v err=%v", ok, err)
	}
}

func TestCreate_ShortPassword(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/users",
		`{"name":"Ann","email":"ann@x.com","password":"p1","confPassword":"p1"}`, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", w.Code, w.Body.String())
	}

	// The short password must work end to end, not just pass validation.
	login := env.do(t, http.MethodPost, "/login", `{"email":"ann@x.com","password":"p1"}`, "")
	if login.Code != http.StatusOK {
		t.Fatalf("login with short password: status = %d; body %s", login.Code, login.Body.String())
	}
}

func TestCreate_PasswordMismatch(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/users",
		`{"name":"Ann","email":"ann@x.com","password":"p1-secret","confPassword":"other"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Ann", "ann@x.com", "p1-secret")

	w := env.do(t, http.MethodPost, "/users",
		`{"name":"Other","email":"ANN@X.COM","password":"p2-secret","confPassword":"p2-secret"}`, "")
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}

func TestCreate_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []string{
		`{"email":"a@x.com","password":"p1-secret","confPassword":"p1-secret"}`,
		`{"name":"A","password":"p1-secret","confPassword":"p1-secret"}`,
		`{"name":"A","email":"a@x.com"}`,
	} {
		w := env.do(t, http.MethodPost, "/users", body, "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status = %d, want 400", body, w.Code)
		}
	}
}

func TestList_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/users", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestList_OK(t *testing.T) {
	env := newTestEnv(t)
	a := env.register(t, "Ann", "ann@x.com", "p1-secret")
	env.register(t, "Bob", "bob@x.com", "p2-secret")

	w := env.do(t, http.MethodGet, "/users", "", env.accessFor(t, a.ID))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}

	var users []userResponse
	if err := json.NewDecoder(w.Body).Decode(&users); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("len(users) = %d, want 2", len(users))
	}
	if users[0].Email != "ann@x.com" || users[1].Email != "bob@x.com" {
		t.Fatalf("unexpected listing order: %+v", users)
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Fatalf("listing leaks password material: %s", w.Body.String())
	}
}

func TestUpdate_OK(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "Ann", "ann@x.com", "p1-secret")
	bearer := env.accessFor(t, u.ID)

	w := env.do(t, http.MethodPut, fmt.Sprintf("/users/%d", u.ID),
		`{"name":"Ann B","email":"ann.b@x.com"}`, bearer)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}

	stored, err := env.store.GetUserByID(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if stored.Name != "Ann B" || stored.Email != "ann.b@x.com" {
		t.Fatalf("user not updated: %+v", stored)
	}
	// No password in the request, so the hash stays put.
	if ok, _ := env.hasher.Verify(stored.PasswordHash, "p1-secret"); !ok {
		t.Fatalf("password hash changed on a profile-only update")
	}
}

func TestUpdate_WithPassword(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "Ann", "ann@x.com", "p1-secret")
	bearer := env.accessFor(t, u.ID)

	w := env.do(t, http.MethodPut, fmt.Sprintf("/users/%d", u.ID),
		`{"name":"Ann","email":"ann@x.com","password":"p2-secret","confPassword":"p2-secret"}`, bearer)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}

	stored, err := env.store.GetUserByID(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if ok, _ := env.hasher.Verify(stored.PasswordHash, "p2-secret"); !ok {
		t.Fatalf("new password does not verify")
	}
	if ok, _ := env.hasher.Verify(stored.PasswordHash, "p1-secret"); ok {
		t.Fatalf("old password still verifies")
	}
}

func TestUpdate_PasswordMismatch(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "Ann", "ann@x.com", "p1-secret")
	bearer := env.accessFor(t, u.ID)

	w := env.do(t, http.MethodPut, fmt.Sprintf("/users/%d", u.ID),
		`{"name":"Ann","email":"ann@x.com","password":"p2-secret","confPassword":"nope"}`, bearer)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "Ann", "ann@x.com", "p1-secret")
	bearer := env.accessFor(t, u.ID)

	for _, target := range []string{"/users/9999", "/users/abc", "/users/-1"} {
		w := env.do(t, http.MethodPut, target, `{"name":"X","email":"x@x.com"}`, bearer)
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s: status = %d, want 404", target, w.Code)
		}
	}
}

func TestUpdate_EmailConflict(t *testing.T) {
	env := newTestEnv(t)
	a := env.register(t, "Ann", "ann@x.com", "p1-secret")
	env.register(t, "Bob", "bob@x.com", "p2-secret")
	bearer := env.accessFor(t, a.ID)

	w := env.do(t, http.MethodPut, fmt.Sprintf("/users/%d", a.ID),
		`{"name":"Ann","email":"bob@x.com"}`, bearer)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}

func TestDelete_OK(t *testing.T) {
	env := newTestEnv(t)
	a := env.register(t, "Ann", "ann@x.com", "p1-secret")
	b := env.register(t, "Bob", "bob@x.com", "p2-secret")
	bearer := env.accessFor(t, a.ID)

	w := env.do(t, http.MethodDelete, fmt.Sprintf("/users/%d", b.ID), "", bearer)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}
	if _, err := env.store.GetUserByID(context.Background(), b.ID); !identity.IsNotFound(err) {
		t.Fatalf("user still present after delete: err = %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	env := newTestEnv(t)
	a := env.register(t, "Ann", "ann@x.com", "p1-secret")
	bearer := env.accessFor(t, a.ID)

	w := env.do(t, http.MethodDelete, "/users/9999", "", bearer)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

// TestSessionLifecycle walks the whole contract end to end: register, log in,
// use the access token, lose it to expiry, mint a fresh one from the refresh
// cookie, log out, and confirm the cookie is dead afterwards.
func TestSessionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "Ann", "ann@x.com", "p1-secret")

	// Log in.
	login := env.do(t, http.MethodPost, "/login", `{"email":"ann@x.com","password":"p1-secret"}`, "")
	if login.Code != http.StatusOK {
		t.Fatalf("login: status = %d; body %s", login.Code, login.Body.String())
	}
	var loginResp struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(login.Body).Decode(&loginResp); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	var cookie *http.Cookie
	for _, c := range login.Result().Cookies() {
		if c.Name == "refreshToken" {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatalf("login did not set the refreshToken cookie")
	}

	// The fresh access token opens the protected listing.
	list := env.do(t, http.MethodGet, "/users", "", loginResp.AccessToken)
	if list.Code != http.StatusOK {
		t.Fatalf("list with fresh token: status = %d", list.Code)
	}

	// An access token from beyond its lifetime is rejected.
	user, err := env.store.GetUserByID(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	expired, _, err := env.tokens.IssueAccess(user, time.Now().UTC().Add(-time.Minute))
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	stale := env.do(t, http.MethodGet, "/users", "", expired)
	if stale.Code != http.StatusForbidden {
		t.Fatalf("list with expired token: status = %d, want 403", stale.Code)
	}

	// The refresh cookie mints a replacement without re-entering credentials.
	refresh := env.do(t, http.MethodGet, "/token", "", "", &http.Cookie{Name: cookie.Name, Value: cookie.Value})
	if refresh.Code != http.StatusOK {
		t.Fatalf("refresh: status = %d; body %s", refresh.Code, refresh.Body.String())
	}
	var refreshResp struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(refresh.Body).Decode(&refreshResp); err != nil {
		t.Fatalf("decode refresh: %v", err)
	}
	relist := env.do(t, http.MethodGet, "/users", "", refreshResp.AccessToken)
	if relist.Code != http.StatusOK {
		t.Fatalf("list with refreshed token: status = %d", relist.Code)
	}

	// Log out, then the cookie is useless.
	logout := env.do(t, http.MethodDelete, "/logout", "", "", &http.Cookie{Name: cookie.Name, Value: cookie.Value})
	if logout.Code != http.StatusOK {
		t.Fatalf("logout: status = %d", logout.Code)
	}
	dead := env.do(t, http.MethodGet, "/token", "", "", &http.Cookie{Name: cookie.Name, Value: cookie.Value})
	if dead.Code != http.StatusForbidden {
		t.Fatalf("refresh after logout: status = %d, want 403", dead.Code)
	}
}
