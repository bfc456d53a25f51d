// Package api wires the vitrine HTTP server.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/jon4hz/vitrine/internal/api/handler"
	"github.com/jon4hz/vitrine/internal/api/middleware"
	"github.com/jon4hz/vitrine/internal/auth"
	"github.com/jon4hz/vitrine/internal/config"
	"github.com/jon4hz/vitrine/internal/portfolio"
	"github.com/jon4hz/vitrine/internal/resume"
	"github.com/jon4hz/vitrine/internal/upload"
)

// Version is reported by GET /api/.
var Version = "dev"

// Server is the vitrine HTTP server.
type Server struct {
	cfg        *config.Config
	ginEngine  *gin.Engine
	httpServer *http.Server
	auth       *auth.Authenticator
	portfolio  *portfolio.Service
	uploads    *upload.Handler
	resume     *resume.Service
}

// New creates the server and registers all routes.
func New(cfg *config.Config, a *auth.Authenticator, p *portfolio.Service, u *upload.Handler, r *resume.Service, debug bool) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if a == nil || p == nil || u == nil || r == nil {
		return nil, fmt.Errorf("all services are required")
	}

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ginEngine := gin.New()
	ginEngine.Use(gin.Recovery(), middleware.RequestLogger())
	if err := ginEngine.SetTrustedProxies(nil); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	s := &Server{
		cfg:       cfg,
		ginEngine: ginEngine,
		auth:      a,
		portfolio: p,
		uploads:   u,
		resume:    r,
	}
	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:              cfg.Listen,
		Handler:           ginEngine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

func (s *Server) setupMiddleware() {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if s.cfg.AllowsAnyOrigin() {
		// credentials forbid a literal "*", so the request origin is echoed
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		corsCfg.AllowOrigins = s.cfg.CORSOrigins
	}

	s.ginEngine.Use(
		cors.New(corsCfg),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{`^/uploads/`})),
		middleware.LimitBody(s.cfg.MaxRequestBytes()),
	)
}

func (s *Server) setupRoutes() {
	h := handler.New(
		Version,
		s.auth,
		s.portfolio,
		s.uploads,
		upload.PhotoLimits(s.cfg.Uploads),
		s.resume,
	)

	s.ginEngine.GET("/uploads/:kind/:name", h.ServeUpload)

	api := s.ginEngine.Group("/api")
	api.GET("/", h.Root)
	api.GET("/portfolio", h.GetPortfolio)
	api.POST("/admin/login", h.Login)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(s.auth))
	protected.POST("/portfolio", h.SavePortfolio)
	protected.POST("/upload/photo", h.UploadPhoto)
	protected.POST("/resume/upload", h.UploadResume)
}

// ServeHTTP lets the server be used as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.ginEngine.ServeHTTP(w, r)
}

// Run listens on the configured address until Shutdown is called.
func (s *Server) Run() error {
	log.Info("starting API server", "listen", s.cfg.Listen)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
