// Package http wires the API router and runs the API and metrics servers.
package http

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	cardsHTTP "github.com/allisson/cardvault/internal/cards/http"
	"github.com/allisson/cardvault/internal/metrics"
	userHTTP "github.com/allisson/cardvault/internal/user/http"
	userUseCase "github.com/allisson/cardvault/internal/user/usecase"
)

// readinessTimeout bounds the database ping done by /ready.
const readinessTimeout = 2 * time.Second

// RouterConfig carries the settings SetupRouter needs from the application config.
type RouterConfig struct {
	CORSEnabled      bool
	CORSAllowOrigins string

	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int

	SignInRateLimitEnabled bool
	SignInRateLimitRPS     float64
	SignInRateLimitBurst   int

	MetricsNamespace string
}

// Server represents the API HTTP server
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates a new API server. The router is empty until SetupRouter is called.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		// No write timeout: /v1/cards/stream holds responses open.
		server: newHTTPServer(host, port, 0),
	}
}

func newHTTPServer(host string, port int, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       60 * time.Second,
	}
}

// listen blocks until srv is shut down; a clean shutdown is not an error.
func listen(srv *http.Server, logger *slog.Logger, name string) error {
	logger.Info("starting "+name, slog.String("addr", srv.Addr))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s stopped: %w", name, err)
	}
	return nil
}

// SetupRouter builds the gin engine with all API routes. meterProvider may be nil when
// metrics are disabled.
func (s *Server) SetupRouter(
	cfg RouterConfig,
	users userUseCase.UseCase,
	authHandler *userHTTP.AuthHandler,
	cardHandler *cardsHTTP.CardHandler,
	meterProvider metric.MeterProvider,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if meterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(meterProvider, cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	authenticated := []gin.HandlerFunc{userHTTP.AuthenticationMiddleware(users, s.logger)}
	if cfg.RateLimitEnabled {
		authenticated = append(authenticated, userHTTP.RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, s.logger))
	}

	auth := v1.Group("/auth")
	{
		auth.POST("/signup", authHandler.SignUpHandler)

		signIn := []gin.HandlerFunc{}
		if cfg.SignInRateLimitEnabled {
			signIn = append(signIn,
				userHTTP.SignInRateLimitMiddleware(cfg.SignInRateLimitRPS, cfg.SignInRateLimitBurst, s.logger),
			)
		}
		auth.POST("/signin", append(signIn, authHandler.SignInHandler)...)

		session := auth.Group("", authenticated...)
		session.POST("/signout", authHandler.SignOutHandler)
		session.GET("/me", authHandler.MeHandler)
	}

	cardHandler.RegisterRoutes(v1.Group("/cards", authenticated...))

	s.router = router
}

// healthHandler reports liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the database is reachable.
func (s *Server) readinessHandler(c *gin.Context) {
	database := "ok"
	if s.db == nil {
		database = "error"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.Any("error", err))
			database = "error"
		}
	}

	if database != "ok" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": database},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": database},
	})
}

// GetHandler returns the configured router, or nil before SetupRouter.
func (s *Server) GetHandler() http.Handler {
	if s.router == nil {
		return nil
	}
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured")
	}
	s.server.Handler = s.router
	return listen(s.server, s.logger, "http server")
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
