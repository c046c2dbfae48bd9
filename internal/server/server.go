package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Shegzy-Dev/Music-Player-Backend/config"
	"github.com/Shegzy-Dev/Music-Player-Backend/internal/db"
	"github.com/Shegzy-Dev/Music-Player-Backend/internal/handlers"
	"github.com/Shegzy-Dev/Music-Player-Backend/internal/mq"
	"github.com/Shegzy-Dev/Music-Player-Backend/internal/services"
	"github.com/Shegzy-Dev/Music-Player-Backend/internal/storage"
	"github.com/Shegzy-Dev/Music-Player-Backend/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	broker     *mq.MQ
}

// New constructs a Server with all dependencies wired from config.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	jwtSecret := strings.TrimSpace(cfg.JWTSecret)
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	blobStorage, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	if err := blobStorage.EnsureBucket(ctx); err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	broker, err := mq.NewFromConfig(ctx, cfg.MQ)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	songRepo := store.NewSongRepository(dbConn)
	commentRepo := store.NewCommentRepository(dbConn)
	playlistRepo := store.NewPlaylistRepository(dbConn)

	userService := services.NewUserService(userRepo)
	songService := services.NewSongService(songRepo, blobStorage, broker)
	commentService := services.NewCommentService(commentRepo)
	playlistService := services.NewPlaylistService(playlistRepo)

	authMiddleware := handlers.RequireAuth(jwtSecret)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, userService, jwtSecret)
	})
	router.Route("/songs", func(r chi.Router) {
		handlers.SongRouter(r, songService, commentService, authMiddleware)
	})
	router.Route("/playlists", func(r chi.Router) {
		handlers.PlaylistRouter(r, playlistService, authMiddleware)
	})
	router.Route("/uploads", func(r chi.Router) {
		handlers.UploadRouter(r, songService)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 5000
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		broker:     broker,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.broker != nil {
		_ = s.broker.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
