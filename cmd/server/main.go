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

	"coscribe/internal/auth"
	"coscribe/internal/config"
	"coscribe/internal/handler"
	"coscribe/internal/middleware"
	"coscribe/internal/realtime"
	"coscribe/internal/repository/postgres"
	"coscribe/internal/service"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logOut := io.Writer(os.Stdout)
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to setup log file: %v", err)
		}
		defer logFile.Close()
		logOut = logFile
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

	rtCfg, err := config.LoadRealtime(cfg.RealtimeConfigPath)
	if err != nil {
		log.Fatalf("Failed to load realtime config: %v", err)
	}

	// Bearer token verifier backed by the auth service's JWKS endpoint
	verifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer verifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	docRepo := postgres.NewDocumentRepository(repoConfig)
	versionRepo := postgres.NewVersionRepository(repoConfig)
	permRepo := postgres.NewPermissionRepository(repoConfig)
	requestRepo := postgres.NewRequestRepository(repoConfig)
	userRepo := postgres.NewUserRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// The hub owns presence and the transient content cache
	hub := realtime.NewHub(logger)

	// Create services
	gate := service.NewAccessGate(docRepo, permRepo, logger)
	docService := service.NewDocumentService(docRepo, gate, hub, logger)
	versionService := service.NewVersionService(versionRepo, docRepo, gate, hub, logger)
	permService := service.NewPermissionService(permRepo, gate, logger)
	requestService := service.NewRequestService(requestRepo, permRepo, docRepo, userRepo, gate, txManager, logger)
	userService := service.NewUserService(userRepo, logger)

	// Create handlers
	docHandler := handler.NewDocumentHandler(docService, logger)
	versionHandler := handler.NewVersionHandler(versionService, logger)
	permHandler := handler.NewPermissionHandler(permService, logger)
	requestHandler := handler.NewRequestHandler(requestService, logger)
	userHandler := handler.NewUserHandler(userService, logger)
	wsHandler := handler.NewWSHandler(hub, gate, rtCfg, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", docHandler.HealthCheck)

	// Document routes
	mux.HandleFunc("GET /api/documents", docHandler.ListDocuments)
	mux.HandleFunc("POST /api/documents", docHandler.CreateDocument)
	mux.HandleFunc("GET /api/documents/recent", docHandler.ListRecent) // Must come before {id} route
	mux.HandleFunc("GET /api/documents/{id}", docHandler.GetDocument)
	mux.HandleFunc("PUT /api/documents/{id}", docHandler.UpdateDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", docHandler.DeleteDocument)
	mux.HandleFunc("GET /api/user/activity", docHandler.UserActivity)

	// Version routes
	mux.HandleFunc("GET /api/documents/{id}/versions", versionHandler.ListVersions)
	mux.HandleFunc("POST /api/documents/{id}/versions", versionHandler.CreateVersion)
	mux.HandleFunc("GET /api/documents/{id}/versions/compare", versionHandler.CompareVersions)
	mux.HandleFunc("POST /api/documents/{id}/restore", versionHandler.RestoreVersion)
	mux.HandleFunc("GET /api/versions/{id}", versionHandler.GetVersion)
	mux.HandleFunc("PATCH /api/versions/{id}", versionHandler.UpdateVersion)
	mux.HandleFunc("DELETE /api/versions/{id}", versionHandler.DeleteVersion)

	// Permission routes
	mux.HandleFunc("POST /api/permissions", permHandler.GrantPermission)
	mux.HandleFunc("GET /api/documents/{id}/permissions", permHandler.ListPermissions)
	mux.HandleFunc("PUT /api/permissions/{id}", permHandler.UpdatePermission)
	mux.HandleFunc("DELETE /api/permissions/{id}", permHandler.RevokePermission)

	// Request routes
	mux.HandleFunc("POST /api/requests", requestHandler.SendRequest)
	mux.HandleFunc("GET /api/requests", requestHandler.ListRequests)
	mux.HandleFunc("POST /api/requests/{id}/accept", requestHandler.AcceptRequest)
	mux.HandleFunc("DELETE /api/requests/{id}", requestHandler.DeclineRequest)

	// User routes
	mux.HandleFunc("GET /api/users/me", userHandler.Me)
	mux.HandleFunc("GET /api/users/lookup", userHandler.Lookup)

	// Live collaboration
	mux.HandleFunc("GET /ws/documents/{id}", wsHandler.Subscribe)

	// Build middleware chain (applied in reverse order, they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	var root http.Handler = mux
	root = middleware.AuthMiddleware(verifier)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived websocket connections
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
