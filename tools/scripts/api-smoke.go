// Package main provides a CI-friendly HTTP smoke test for the roster API.
//
// It validates:
//   - register -> 201
//   - login -> access token + HTTP-only refresh cookie
//   - bearer-gated user listing
//   - access token refresh via GET /token
//   - update and delete round trips
//   - logout kills the refresh cookie
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"
)

type client struct {
	base *url.URL
	http *http.Client
}

func main() {
	var (
		baseURL = flag.String("url", "http://127.0.0.1:8080", "Server base URL")
		email   = flag.String("email", fmt.Sprintf("smoke-%d@example.com", time.Now().UnixNano()), "Email to register with")
		pw      = flag.String("password", "smoke-password-1", "Password to register with")
		timeout = flag.Duration("timeout", 7*time.Second, "Per-request timeout")
		verbose = flag.Bool("v", false, "Verbose output")
	)
	flag.Parse()

	base, err := url.Parse(*baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		fatalf("invalid -url %q: %v", *baseURL, err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		fatalf("cookie jar: %v", err)
	}
	c := &client{
		base: base,
		http: &http.Client{Jar: jar, Timeout: *timeout},
	}

	id := mustRegister(c, *email, *pw)
	if *verbose {
		fmt.Printf("registered: id=%d email=%s\n", id, *email)
	}

	access := mustLogin(c, *email, *pw)
	if !hasRefreshCookie(c) {
		fatalf("login did not set the refreshToken cookie")
	}

	mustListContains(c, access, *email)

	refreshed := mustToken(c, http.StatusOK)
	if refreshed == "" {
		fatalf("refresh returned an empty access token")
	}
	mustListContains(c, refreshed, *email)

	mustUpdate(c, refreshed, id, "Smoke Renamed", *email)
	mustLogout(c)

	// The jar still holds the cleared cookie value only if the server did
	// not expire it; a dead session must yield 403 or 204 here.
	status := tokenStatus(c)
	if status != http.StatusForbidden && status != http.StatusNoContent {
		fatalf("refresh after logout: status=%d", status)
	}

	access = mustLogin(c, *email, *pw)
	mustDelete(c, access, id)

	fmt.Printf("OK: id=%d email=%s\n", id, *email)
}

func (c *client) do(method, path, bearer string, body any) (*http.Response, []byte, error) {
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, nil, err
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}

	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path

	req, err := http.NewRequest(method, u.String(), rd)
	if err != nil {
		return nil, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return resp, nil, err
	}
	return resp, buf.Bytes(), nil
}

func mustRegister(c *client, email, pw string) int64 {
	resp, body, err := c.do(http.MethodPost, "/users", "", map[string]string{
		"name":         "Smoke",
		"email":        email,
		"password":     pw,
		"confPassword": pw,
	})
	if err != nil {
		fatalf("register: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		fatalf("register: status=%d body=%s", resp.StatusCode, body)
	}

	var out struct {
		User struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(body, &out); err != nil || out.User.ID == 0 {
		fatalf("register: bad response body=%s err=%v", body, err)
	}
	return out.User.ID
}

func mustLogin(c *client, email, pw string) string {
	resp, body, err := c.do(http.MethodPost, "/login", "", map[string]string{
		"email":    email,
		"password": pw,
	})
	if err != nil {
		fatalf("login: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		fatalf("login: status=%d body=%s", resp.StatusCode, body)
	}
	return accessTokenFrom(body, "login")
}

func mustToken(c *client, wantStatus int) string {
	resp, body, err := c.do(http.MethodGet, "/token", "", nil)
	if err != nil {
		fatalf("token: %v", err)
	}
	if resp.StatusCode != wantStatus {
		fatalf("token: status=%d want=%d body=%s", resp.StatusCode, wantStatus, body)
	}
	if wantStatus != http.StatusOK {
		return ""
	}
	return accessTokenFrom(body, "token")
}

func tokenStatus(c *client) int {
	resp, _, err := c.do(http.MethodGet, "/token", "", nil)
	if err != nil {
		fatalf("token: %v", err)
	}
	return resp.StatusCode
}

func mustListContains(c *client, bearer, email string) {
	resp, body, err := c.do(http.MethodGet, "/users", bearer, nil)
	if err != nil {
		fatalf("list: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		fatalf("list: status=%d body=%s", resp.StatusCode, body)
	}

	var users []struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &users); err != nil {
		fatalf("list: bad body=%s err=%v", body, err)
	}
	for _, u := range users {
		if u.Email == email {
			return
		}
	}
	fatalf("list: %s not present in %s", email, body)
}

func mustUpdate(c *client, bearer string, id int64, name, email string) {
	resp, body, err := c.do(http.MethodPut, fmt.Sprintf("/users/%d", id), bearer, map[string]string{
		"name":  name,
		"email": email,
	})
	if err != nil {
		fatalf("update: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		fatalf("update: status=%d body=%s", resp.StatusCode, body)
	}
}

func mustDelete(c *client, bearer string, id int64) {
	resp, body, err := c.do(http.MethodDelete, fmt.Sprintf("/users/%d", id), bearer, nil)
	if err != nil {
		fatalf("delete: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		fatalf("delete: status=%d body=%s", resp.StatusCode, body)
	}
}

func mustLogout(c *client) {
	resp, body, err := c.do(http.MethodDelete, "/logout", "", nil)
	if err != nil {
		fatalf("logout: %v", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		fatalf("logout: status=%d body=%s", resp.StatusCode, body)
	}
}

func hasRefreshCookie(c *client) bool {
	for _, ck := range c.http.Jar.Cookies(c.base) {
		if ck.Name == "refreshToken" && ck.Value != "" {
			return true
		}
	}
	return false
}

func accessTokenFrom(body []byte, step string) string {
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		fatalf("%s: bad body=%s err=%v", step, body, err)
	}
	if strings.TrimSpace(out.AccessToken) == "" {
		fatalf("%s: empty accessToken in %s", step, body)
	}
	return out.AccessToken
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "FAIL: "+format+"\n", args...)
	os.Exit(1)
}
