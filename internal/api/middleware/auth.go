// Package middleware holds the gin middlewares of the vitrine API.
package middleware

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/vitrine/internal/api/models"
	"github.com/jon4hz/vitrine/internal/auth"
)

// UserKey is the context key the authenticated username is stored under.
const UserKey = "user"

const detailUnauthorized = "Could not validate credentials"

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	VerifyToken(token string) (auth.Identity, error)
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			log.Debug("Rejected request", "path", c.Request.URL.Path, "reason", "missing bearer token")
			Unauthorized(c, detailUnauthorized)
			return
		}

		identity, err := v.VerifyToken(token)
		if err != nil {
			log.Debug("Rejected request", "path", c.Request.URL.Path, "error", err)
			Unauthorized(c, detailUnauthorized)
			return
		}

		c.Set(UserKey, identity.Username)
		c.Next()
	}
}

// Unauthorized aborts with 401 and a bearer challenge.
func Unauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Detail: detail})
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, auth.TokenType) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
