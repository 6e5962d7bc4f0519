package models

// TokenResponse is returned by POST /auth/login.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the POST /auth/register request body.
type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// GoogleAuth is returned by GET /auth/google.
type GoogleAuth struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state,omitempty"`
}
