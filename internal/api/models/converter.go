package models

import "github.com/jon4hz/vitrine/internal/auth"

// ToTokenResponse converts an issued token to its wire form.
func ToTokenResponse(t auth.Token) TokenResponse {
	return TokenResponse{
		Token:     t.Value,
		TokenType: t.Type,
		ExpiresAt: t.ExpiresAt.UTC(),
	}
}
