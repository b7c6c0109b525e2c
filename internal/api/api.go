// Package api serves the forum over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/meditalk/meditalk/internal/api/auth"
	"github.com/meditalk/meditalk/internal/api/handler"
	"github.com/meditalk/meditalk/internal/config"
	"github.com/meditalk/meditalk/internal/content"
	"github.com/meditalk/meditalk/internal/database"
	"github.com/meditalk/meditalk/internal/gravatar"
	"github.com/meditalk/meditalk/internal/notify/email"
	"github.com/meditalk/meditalk/internal/scheduler"
	"github.com/meditalk/meditalk/internal/session"
	"github.com/meditalk/meditalk/internal/static"
)

const sessionCookieName = "meditalk_session"

// Options are the services wired into the server.
type Options struct {
	DB        database.DB
	Directory *session.Directory
	Loader    *content.Loader
	Includer  *content.Includer
	Scheduler *scheduler.Scheduler
	Mailer    *email.Mailer
	Avatars   *gravatar.Resolver
}

type Server struct {
	cfg       *config.Config
	ginEngine *gin.Engine
	gate      *auth.Gate
	handler   *handler.Handler
}

func New(cfg *config.Config, opts Options) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if opts.DB == nil {
		return nil, fmt.Errorf("database is required")
	}
	if opts.Directory == nil {
		return nil, fmt.Errorf("session directory is required")
	}
	if opts.Includer == nil {
		return nil, fmt.Errorf("content includer is required")
	}

	gate := auth.NewGate(opts.Directory)
	s := &Server{
		cfg:       cfg,
		ginEngine: gin.New(),
		gate:      gate,
		handler: handler.New(handler.Options{
			Config:    cfg,
			DB:        opts.DB,
			Gate:      gate,
			Loader:    opts.Loader,
			Includer:  opts.Includer,
			Scheduler: opts.Scheduler,
			Mailer:    opts.Mailer,
			Avatars:   opts.Avatars,
		}),
	}
	s.setupRoutes()
	s.setupAdminRoutes()
	return s, nil
}

func (s *Server) setupSession() {
	store := cookie.NewStore([]byte(s.cfg.SessionKey))
	maxAge := 172800
	if s.cfg.Session != nil && s.cfg.Session.CookieMaxAge > 0 {
		maxAge = s.cfg.Session.CookieMaxAge
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   strings.HasPrefix(s.cfg.ServerURL, "https://"),
		SameSite: http.SameSiteLaxMode,
	})
	s.ginEngine.Use(sessions.Sessions(sessionCookieName, store), s.gate.EnsureSessionID())
}

func (s *Server) setupRoutes() {
	s.ginEngine.Use(gin.Recovery(), requestLogger(), gzip.Gzip(gzip.DefaultCompression))
	s.ginEngine.StaticFS("/static", http.FS(static.FS()))

	s.setupSession()

	h := s.handler
	s.ginEngine.GET("/login", h.LoginPage)
	s.ginEngine.POST("/login", h.Login)
	s.ginEngine.GET("/register", h.RegisterPage)
	s.ginEngine.POST("/register", h.Register)
	s.ginEngine.GET("/pages/:name", h.Page)

	protected := s.ginEngine.Group("/")
	protected.Use(s.gate.RequireAuth())

	protected.GET("/", h.Home)
	protected.GET("/logout", h.Logout)
	protected.GET("/streams/", h.Streams)
	protected.GET("/streams/:section", h.Section)
	protected.GET("/streams/:section/:postId", h.Post)
	protected.POST("/streams/:section/:postId", h.AddComment)
	protected.GET("/new/:section", h.NewPostForm)
	protected.POST("/new/:section", h.CreatePost)
	protected.GET("/user", h.Settings)
	protected.POST("/user", h.UpdateSettings)

	s.ginEngine.NoRoute(h.NotFound)
}

func (s *Server) setupAdminRoutes() {
	adminGroup := s.ginEngine.Group("/admin")
	adminGroup.Use(s.gate.RequireAuth(), s.gate.RequireAdmin())

	adminGroup.GET("", s.handler.Admin)
	adminGroup.POST("", s.handler.AdminAction)
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.ginEngine
}

// Run serves until ctx is canceled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.ginEngine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting MediTalk server", "listen", s.cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
			"ip", c.ClientIP(),
		}
		if status >= http.StatusInternalServerError {
			log.Error("Request", fields...)
			return
		}
		log.Debug("Request", fields...)
	}
}
