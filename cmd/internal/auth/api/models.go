package authapi

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenResponse carries a freshly issued access token. The field name is part
// of the public wire contract consumed by the SPA.
type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}
