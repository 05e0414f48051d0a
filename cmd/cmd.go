package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pixelgram-backend/internal/config"
	"pixelgram-backend/internal/handlers"
	"pixelgram-backend/internal/middleware"
	"pixelgram-backend/internal/push"
	"pixelgram-backend/internal/repository"
	"pixelgram-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	convRepo := repository.NewConversationRepository(db)

	// Initialize media storage
	uploader, err := services.NewS3Uploader(cfg.AWS)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create S3 uploader")
	}

	// Initialize notification delivery
	hub := services.NewHub()
	var pusher services.Pusher
	if cfg.APNs.Enabled() {
		apns, err := push.NewAPNsSender(cfg.APNs)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create APNs sender")
		}
		pusher = apns
		log.Info().Msg("APNs push delivery enabled")
	}
	notifier := services.NewNotifier(hub, pusher, userRepo)

	// Initialize services
	userService := services.NewUserService(userRepo, postRepo, uploader, cfg.JWT.Secret)
	graphService := services.NewGraphService(userRepo, notifier)
	postService := services.NewPostService(postRepo, commentRepo, userRepo, uploader, notifier)
	messageService := services.NewMessageService(userRepo, convRepo, notifier)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, graphService, cfg.JWT.CookieSecure)
	postHandler := handlers.NewPostHandler(postService)
	messageHandler := handlers.NewMessageHandler(messageService)
	wsHandler := handlers.NewWebSocketHandler(hub, userService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	allowedOrigins := cfg.Server.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(20, time.Minute))
			r.Post("/user/register", userHandler.Register)
			r.Post("/user/login", userHandler.Login)
			r.Post("/user/logout", userHandler.Logout)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(userService))

			r.Get("/user/{user_id}/profile", userHandler.GetProfile)
			r.Post("/user/profile/edit", userHandler.EditProfile)
			r.Get("/user/suggested", userHandler.GetSuggestedUsers)
			r.Post("/user/followOrUnfollow/{user_id}", userHandler.FollowOrUnfollow)
			r.Post("/user/pushToken", userHandler.RegisterPushToken)

			r.Post("/post/addpost", postHandler.AddPost)
			r.Get("/post/all", postHandler.AllPosts)
			r.Get("/post/userpost/all", postHandler.MyPosts)
			r.Post("/post/{post_id}/like", postHandler.Like)
			r.Post("/post/{post_id}/dislike", postHandler.Dislike)
			r.Post("/post/{post_id}/comment", postHandler.AddComment)
			r.Get("/post/{post_id}/comment/all", postHandler.Comments)
			r.Post("/post/{post_id}/bookmark", postHandler.Bookmark)
			r.Delete("/post/delete/{post_id}", postHandler.Delete)

			r.Post("/message/{receiver_id}", messageHandler.Send)
			r.Get("/message/{receiver_id}", messageHandler.Get)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
