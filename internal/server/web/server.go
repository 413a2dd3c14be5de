// Package web is the HTTP transport: an echo server translating JSON
// requests into service calls. No business rules live here.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	slogecho "github.com/samber/slog-echo"

	"mydiary/internal/logging"
	"mydiary/internal/server/services"
)

// Server hosts the public HTTP API.
type Server struct {
	echo       *echo.Echo
	httpd      *http.Server
	address    string
	logger     logging.Logger
	owners     *services.OwnerService
	content    *services.ContentService
	moderation *services.ModerationService
	jwtSecret  []byte
}

// NewServer wires routes and middleware around the given services.
func NewServer(addr string, l logging.Logger, os *services.OwnerService, cs *services.ContentService, ms *services.ModerationService, secretKey string) *Server {
	e := echo.New()
	e.HideBanner = true

	s := &Server{
		echo:       e,
		address:    addr,
		logger:     l.With("module", "http_server"),
		owners:     os,
		content:    cs,
		moderation: ms,
		jwtSecret:  []byte(secretKey),
	}

	httpTimeout := 1 * time.Minute
	s.httpd = &http.Server{
		Handler:        e,
		Addr:           addr,
		WriteTimeout:   httpTimeout,
		ReadTimeout:    httpTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	if sl, ok := l.(*logging.SlogLogger); ok {
		e.Use(slogecho.New(sl.Base()))
	}
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("64K"))
	e.Use(s.sessionMiddleware)

	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.echo

	e.GET("/healthz", s.handleHealthz)
	e.GET("/discover", s.handleDiscover)
	e.GET("/search", s.handleSearch)

	e.POST("/create", s.handleCreate)
	e.POST("/register", s.handleRegister)
	e.POST("/login", s.handleLogin)
	e.PUT("/profile", s.handleUpdateProfile, s.requireSession)

	e.GET("/:handle", s.handleListPublic)
	e.POST("/:handle/note", s.handleSubmit)
	e.GET("/:handle/dashboard", s.handleDashboard, s.requireSession)

	e.POST("/note/:id/approve", s.handleTransition, s.requireSession)
	e.POST("/note/:id/archive", s.handleTransition, s.requireSession)
	e.POST("/note/:id/delete", s.handleTransition, s.requireSession)
	e.POST("/note/:id/read", s.handleMarkRead, s.requireSession)
	e.POST("/note/:id/flag", s.handleFlag)
	e.POST("/note/:id/react", s.handleReact)

	e.GET("/moderation/flagged", s.handleListFlagged, s.requireSession)
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.httpd.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.httpd.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
