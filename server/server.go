// Package server is the HTTP transport over the compression service. It
// parses multipart uploads, invokes the service operations and surfaces the
// result metadata as response headers next to the binary payload.
package server

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"imagepress/compressor"
)

// Config holds the transport settings
type Config struct {
	// Listen is the address to bind, e.g. ":8000"
	Listen string

	// MaxUpload is the request body limit in echo's size notation ("25M")
	MaxUpload string

	// CORSOrigins lists the allowed browser origins; empty disables CORS
	CORSOrigins []string
}

// Server wires the echo router to the compression service
type Server struct {
	echo *echo.Echo
	svc  *compressor.Service
	cfg  Config
}

// New builds the router with middleware and routes registered
func New(svc *compressor.Service, cfg Config) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	if cfg.MaxUpload != "" {
		e.Use(middleware.BodyLimit(cfg.MaxUpload))
	}
	if len(cfg.CORSOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.CORSOrigins,
			AllowCredentials: true,
		}))
	}

	s := &Server{echo: e, svc: svc, cfg: cfg}

	e.GET("/", s.handleRoot)
	api := e.Group("/api")
	api.POST("/inspect", s.handleInspect)
	api.POST("/estimate", s.handleEstimate)
	api.POST("/compress", s.handleCompress)

	return s
}

// Start blocks serving requests until Shutdown is called
func (s *Server) Start() error {
	return s.echo.Start(s.cfg.Listen)
}

// Shutdown drains in-flight requests and stops the listener
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
