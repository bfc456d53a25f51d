package models

import "time"

// LoginRequest is the body of POST /api/admin/login.
// Missing fields are left empty and rejected as invalid credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned on a successful login.
type TokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UploadResponse is returned after a photo upload.
type UploadResponse struct {
	URL string `json:"url"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// RootResponse identifies the API.
type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
