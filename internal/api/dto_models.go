package api

import "petshare-backend-go/internal/models"

// ErrorResponse is a generic structure for returning errors via API.
// User-facing messages stay generic; provider diagnostics are logged
// server-side only.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// CredentialsRequest is the body of the sign-in and sign-up endpoints.
type CredentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// SessionResponse is returned by successful sign-in/up.
type SessionResponse struct {
	Session *models.Session `json:"session"`
}

// FeedResponse is the feed snapshot pushed over the WebSocket and returned
// by the REST endpoint: the full sorted post list, newest first.
type FeedResponse struct {
	Posts   []models.Post `json:"posts"`
	Loading bool          `json:"loading"`
}
