package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/config"
	"github.com/yukikurage/task-tracker-api/internal/handlers"
	"github.com/yukikurage/task-tracker-api/internal/logging"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"gorm.io/gorm"
)

// Dependencies are the collaborators the router is built from.
type Dependencies struct {
	DB     *gorm.DB
	Tokens *auth.TokenManager
	Hasher auth.PasswordHasher
	Log    logging.Logger
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// NewRouter wires repositories, services and handlers onto a gin engine.
func NewRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	userRepo := repository.NewUserRepository(deps.DB)
	taskRepo := repository.NewTaskRepository(deps.DB)

	authService := services.NewAuthService(userRepo, deps.Hasher, deps.Tokens)
	taskService := services.NewTaskService(taskRepo, cfg.EnforceTaskOwnership)

	authHandler := handlers.NewAuthHandler(authService, deps.Log.With("component", "auth"))
	taskHandler := handlers.NewTaskHandler(taskService, deps.Log.With("component", "tasks"))
	healthHandler := handlers.NewHealthHandler(time.Now())

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(deps.Log))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", healthHandler.Health)

	// The API is served at the root and under /api, where the web client expects it.
	for _, group := range []*gin.RouterGroup{&r.RouterGroup, r.Group("/api")} {
		// Auth routes (public)
		authRoutes := group.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
		}

		// Task routes (protected)
		tasks := group.Group("/tasks")
		tasks.Use(middleware.RequireAuth(deps.Tokens, deps.Log.With("component", "auth")))
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.PUT("/:id", middleware.RequireTaskID(), taskHandler.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireTaskID(), taskHandler.DeleteTask)
		}
	}

	return r
}

// New builds a ready-to-start HTTP server.
func New(cfg *config.Config, deps Dependencies) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           NewRouter(cfg, deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
