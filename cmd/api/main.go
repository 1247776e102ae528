package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/devconnect/devconnect-go/internal/config"
	"github.com/devconnect/devconnect-go/internal/crypto"
	"github.com/devconnect/devconnect-go/internal/handler"
	"github.com/devconnect/devconnect-go/internal/middleware"
	"github.com/devconnect/devconnect-go/internal/repository/mongodb"
	"github.com/devconnect/devconnect-go/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := mongodb.NewDB(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongodb.Disconnect(context.Background(), db); err != nil {
			logger.Error("disconnecting database", "error", err)
		}
	}()

	tokens, err := crypto.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		logger.Error("invalid JWT configuration", "error", err)
		os.Exit(1)
	}
	passwords := crypto.NewPasswordHasher()

	userRepo := mongodb.NewUserRepository(db)
	postRepo := mongodb.NewPostRepository(db)
	commentRepo := mongodb.NewCommentRepository(db)

	authService := service.NewAuthService(userRepo, tokens, passwords, logger)
	userService := service.NewUserService(userRepo, passwords, logger)
	postService := service.NewPostService(postRepo, userRepo, logger)
	commentService := service.NewCommentService(commentRepo, postRepo, userRepo, logger)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	postHandler := handler.NewPostHandler(postService)
	commentHandler := handler.NewCommentHandler(commentService)

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Auth routes, rate limited per IP.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(5, 10))
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/refresh", authHandler.HandleRefresh)
	})

	// Public routes. chi routes the literal /users/profile segment ahead
	// of the {id} wildcard.
	r.Post("/users", userHandler.HandleCreate)
	r.Get("/users", userHandler.HandleList)
	r.Get("/users/{id}", userHandler.HandleGet)
	r.Get("/posts", postHandler.HandleList)
	r.Get("/posts/{id}", postHandler.HandleGet)
	r.Get("/comments", commentHandler.HandleList)
	r.Get("/comments/{id}", commentHandler.HandleGet)

	// Protected routes.
	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(tokens))

		r.Get("/users/profile", userHandler.HandleProfile)
		r.Put("/users/{id}", userHandler.HandleUpdate)
		r.Delete("/users/{id}", userHandler.HandleDelete)
		r.Put("/users/{id}/change-password", userHandler.HandleChangePassword)
		r.Post("/users/{id}/skills", userHandler.HandleAddSkill)
		r.Put("/users/{id}/skills/{name}", userHandler.HandleUpdateSkill)
		r.Post("/users/{id}/experiences", userHandler.HandleAddExperience)
		r.Put("/users/{id}/experiences", userHandler.HandleUpdateExperience)

		r.Post("/posts", postHandler.HandleCreate)
		r.Put("/posts/{id}", postHandler.HandleUpdate)
		r.Delete("/posts/{id}", postHandler.HandleDelete)

		r.Post("/comments/{postID}", commentHandler.HandleCreate)
		r.Patch("/comments/{id}", commentHandler.HandleUpdate)
		r.Delete("/comments/{id}", commentHandler.HandleDelete)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
