package dto

// TokenRequest payload for POST /auth/token.
type TokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries an issued credential pair.
type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RefreshRequest payload for POST /auth/refresh.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// AccessTokenResponse carries a refreshed access token.
type AccessTokenResponse struct {
	Access string `json:"access"`
}
