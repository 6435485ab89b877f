package dto

// ErrorResponse is the JSON envelope for every failed request.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// TokenRequest is the body of POST /jwt. Fields other than email are ignored.
type TokenRequest struct {
	Email string `json:"email" validate:"required"`
}

// TokenResponse carries a signed access token.
type TokenResponse struct {
	Token string `json:"token"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
	Store  string `json:"store"`
}
