package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/vitrine/internal/api/models"
	"github.com/jon4hz/vitrine/internal/auth"
	"github.com/jon4hz/vitrine/internal/blobstore"
	"github.com/jon4hz/vitrine/internal/portfolio"
	"github.com/jon4hz/vitrine/internal/resume"
	"github.com/jon4hz/vitrine/internal/upload"
)

// Handler serves the vitrine API.
type Handler struct {
	version     string
	auth        *auth.Authenticator
	portfolio   *portfolio.Service
	uploads     *upload.Handler
	photoLimits upload.Limits
	resume      *resume.Service
}

// New creates a new API handler.
func New(version string, a *auth.Authenticator, p *portfolio.Service, u *upload.Handler, photoLimits upload.Limits, r *resume.Service) *Handler {
	return &Handler{
		version:     version,
		auth:        a,
		portfolio:   p,
		uploads:     u,
		photoLimits: photoLimits,
		resume:      r,
	}
}

// Root identifies the API.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, models.RootResponse{
		Message: "vitrine portfolio API",
		Version: h.version,
	})
}

// Login exchanges admin credentials for a bearer token.
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ToTokenResponse(token))
}

// GetPortfolio returns the portfolio without secrets.
func (h *Handler) GetPortfolio(c *gin.Context) {
	doc, err := h.portfolio.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// SavePortfolio replaces the portfolio.
func (h *Handler) SavePortfolio(c *gin.Context) {
	var doc portfolio.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		bindError(c, err)
		return
	}

	if err := h.portfolio.Save(c.Request.Context(), doc); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Portfolio saved successfully"})
}

// UploadPhoto stores a profile photo.
func (h *Handler) UploadPhoto(c *gin.Context) {
	file, filename, ok := formFile(c, "photo", h.photoLimits)
	if !ok {
		return
	}
	defer file.Close()

	asset, err := h.uploads.Accept(c.Request.Context(), file, filename, h.photoLimits)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.UploadResponse{URL: asset.URL})
}

// UploadResume stores a resume and runs extraction on it.
func (h *Handler) UploadResume(c *gin.Context) {
	file, filename, ok := formFile(c, "file", h.resume.Limits())
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.resume.Upload(c.Request.Context(), file, filename)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ServeUpload streams a stored asset.
func (h *Handler) ServeUpload(c *gin.Context) {
	obj, err := h.uploads.Open(c.Request.Context(), upload.Kind(c.Param("kind")), c.Param("name"))
	if err != nil {
		if !errors.Is(err, blobstore.ErrNotFound) {
			// malformed names are answered like missing ones
			log.Debug("Failed to open upload", "kind", c.Param("kind"), "name", c.Param("name"), "error", err)
		}
		c.JSON(http.StatusNotFound, models.ErrorResponse{Detail: "Not Found"})
		return
	}
	defer obj.Body.Close()

	c.Header("Cache-Control", "public, max-age=86400")
	if !obj.LastModified.IsZero() {
		c.Header("Last-Modified", obj.LastModified.UTC().Format(http.TimeFormat))
	}
	if obj.ContentLength >= 0 {
		c.Header("Content-Length", strconv.FormatInt(obj.ContentLength, 10))
	}
	c.Header("Content-Type", obj.ContentType)
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, obj.Body); err != nil {
		log.Error("Failed to stream upload", "name", c.Param("name"), "error", err)
	}
}

// formFile opens the uploaded file in field. A body cut off by the request
// cap is reported against the route's own size limit.
func formFile(c *gin.Context, field string, limits upload.Limits) (io.ReadCloser, string, bool) {
	header, err := c.FormFile(field)
	var maxBytesErr *http.MaxBytesError
	switch {
	case err == nil:
	case errors.As(err, &maxBytesErr):
		respondError(c, &upload.TooLargeError{Limit: limits.MaxBytes})
		return nil, "", false
	case errors.Is(err, http.ErrMissingFile):
		log.Debug("Missing upload field", "path", c.Request.URL.Path, "field", field)
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Detail: fmt.Sprintf("Missing file field %q", field)})
		return nil, "", false
	default:
		bindError(c, err)
		return nil, "", false
	}
	file, err := header.Open()
	if err != nil {
		respondError(c, err)
		return nil, "", false
	}
	return file, header.Filename, true
}
