package authapi

import (
	"net/http"
	"os"
	"strconv"
	"strings"
)

// Config controls auth API behavior and cookie security defaults.
type Config struct {
	// RefreshCookieName is the cookie carrying the refresh token.
	RefreshCookieName string

	CookiePath   string
	CookieDomain string
	CookieSecure bool
	// CookieSameSite defaults to Lax; "none" requires Secure in browsers.
	CookieSameSite http.SameSite

	MaxBodyBytes int64
}

// LoadConfigFromEnv loads auth config from environment variables with safe defaults.
func LoadConfigFromEnv() Config {
	cfg := Config{
		RefreshCookieName: envString("ROSTER_AUTH_REFRESH_COOKIE_NAME", "refreshToken"),
		CookiePath:        envString("ROSTER_AUTH_COOKIE_PATH", "/"),
		CookieDomain:      envString("ROSTER_AUTH_COOKIE_DOMAIN", ""),
		CookieSecure:      envBool("ROSTER_AUTH_COOKIE_SECURE", false),
		CookieSameSite:    envSameSite("ROSTER_AUTH_COOKIE_SAMESITE", http.SameSiteLaxMode),
		MaxBodyBytes:      envInt64("ROSTER_AUTH_MAX_BODY_BYTES", 1<<20), // 1 MiB
	}

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	return cfg
}

func envString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envSameSite(key string, def http.SameSite) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "lax":
		return http.SameSiteLaxMode
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return def
	}
}
