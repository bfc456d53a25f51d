package handler

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/vitrine/internal/api/middleware"
	"github.com/jon4hz/vitrine/internal/api/models"
	"github.com/jon4hz/vitrine/internal/auth"
	"github.com/jon4hz/vitrine/internal/upload"
)

const detailInvalidBody = "Invalid request body"

// respondError maps service errors to HTTP replies.
func respondError(c *gin.Context, err error) {
	var maxBytesErr *http.MaxBytesError
	switch {
	case auth.IsAuthError(err):
		log.Debug("Authentication failed", "path", c.Request.URL.Path, "error", err)
		middleware.Unauthorized(c, "Invalid credentials")
	case errors.Is(err, upload.ErrPayloadTooLarge), errors.Is(err, upload.ErrUnsupportedType):
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Detail: err.Error()})
	case errors.As(err, &maxBytesErr):
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{Detail: "Request body too large"})
	default:
		log.Error("Request failed", "path", c.Request.URL.Path, "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{Detail: "internal server error"})
	}
}

// bindError answers a request whose body could not be parsed. The parser's
// message stays in the log.
func bindError(c *gin.Context, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		respondError(c, err)
		return
	}
	log.Debug("Invalid request body", "path", c.Request.URL.Path, "error", err)
	c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Detail: detailInvalidBody})
}
