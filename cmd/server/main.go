package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"crok/internal/auth"
	"crok/internal/blocktypes"
	"crok/internal/config"
	"crok/internal/handler"
	"crok/internal/middleware"
	"crok/internal/repository/postgres"
	"crok/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	// Log to stdout, plus a rotated file when LOG_DIR is set.
	var logOut io.Writer = os.Stdout
	if dir := os.Getenv("LOG_DIR"); dir != "" {
		logFile, err := config.SetupLogFile(dir, 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Session token manager
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL, logger)
	if err != nil {
		log.Fatalf("Failed to create token manager: %v", err)
	}

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	docRepo := postgres.NewDocumentRepository(repoConfig)
	userRepo := postgres.NewUserRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Initialize block type registry
	registry, err := blocktypes.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize block type registry: %v", err)
	}
	logger.Info("block type registry initialized")

	// Create services
	docService := service.NewDocumentService(docRepo, txManager, logger)
	authService := service.NewAuthService(userRepo, tokens, logger)

	logger.Info("services initialized")

	// Create handlers
	docHandler := handler.NewDocumentHandler(docService, logger)
	authHandler := handler.NewAuthHandler(authService, logger)
	blockTypeHandler := handler.NewBlockTypeHandler(registry)
	healthHandler := handler.NewHealthHandler(pool)

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", healthHandler.Check)

	// Auth routes
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Document routes. Reads stay open so public documents render for
	// anonymous visitors; writes need a session up front.
	mux.HandleFunc("GET /api/documents", docHandler.ListDocuments)
	mux.Handle("POST /api/documents", middleware.RequireAuth(http.HandlerFunc(docHandler.CreateDocument)))
	mux.HandleFunc("GET /api/documents/{id}", docHandler.GetDocument)
	mux.Handle("PATCH /api/documents/{id}", middleware.RequireAuth(http.HandlerFunc(docHandler.UpdateDocument)))
	mux.Handle("DELETE /api/documents/{id}", middleware.RequireAuth(http.HandlerFunc(docHandler.DeleteDocument)))

	// Block type catalog
	mux.HandleFunc("GET /api/block-types", blockTypeHandler.ListBlockTypes)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	root = middleware.Authenticate(tokens)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
