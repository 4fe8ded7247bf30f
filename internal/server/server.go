package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/taskdesk/internal/auth"
	"github.com/hongminglow/taskdesk/internal/config"
	"github.com/hongminglow/taskdesk/internal/http/handlers"
	"github.com/hongminglow/taskdesk/internal/http/respond"
	"github.com/hongminglow/taskdesk/internal/middleware"
	"github.com/hongminglow/taskdesk/internal/service"
	"github.com/hongminglow/taskdesk/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store, logger *slog.Logger) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           NewHandler(cfg, store, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Leave room for the caller-requested delay on top of normal processing.
		WriteTimeout: 10*time.Second + cfg.MaxDelay,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// NewHandler builds the routed handler tree. Tests mount it on httptest.
func NewHandler(cfg config.Config, store storage.Store, logger *slog.Logger) http.Handler {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	authn := middleware.NewAuthenticator(tokens, logger)
	delay := handlers.NewDelayer(cfg.MaxDelay)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.LimitBody)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respond.Error(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		handlers.NewHealthHandler(time.Now()).Register(r)
		handlers.NewAuthHandler(service.NewAuthService(store, hasher, tokens), delay, logger).Register(r)
		handlers.NewRecordHandler(service.NewRecordService(store), authn, delay, logger).Register(r)
		handlers.NewTaskHandler(service.NewTaskService(store), authn, delay, logger).Register(r)
		handlers.NewUserHandler(service.NewUserService(store, hasher), authn, delay, logger).Register(r)
	})

	return r
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
