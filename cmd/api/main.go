//	@title			Hearthside CRM API
//	@version		1.0
//	@description	Backend for Hearthside — CRM for a home-services business (leads, documents, e-signatures).
//
//	@host		localhost:8080
//	@BasePath	/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Bearer token. Format: **Bearer {token}**

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/hearthside/crm/internal/auth"
	"github.com/hearthside/crm/internal/config"
	"github.com/hearthside/crm/internal/db"
	"github.com/hearthside/crm/internal/drive"
	"github.com/hearthside/crm/internal/file"
	"github.com/hearthside/crm/internal/lead"
	appMiddleware "github.com/hearthside/crm/internal/middleware"
	"github.com/hearthside/crm/internal/signature"
	"github.com/hearthside/crm/internal/storage"
	"github.com/hearthside/crm/internal/user"

	_ "github.com/hearthside/crm/docs/swagger"
)

func main() {
	cfg := config.Load()

	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	store, err := storage.NewMinioStore(
		cfg.StorageEndpoint,
		cfg.StorageAccessKey,
		cfg.StorageSecretKey,
		cfg.StorageBucket,
		cfg.StoragePublicBase,
		cfg.StorageUseSSL,
	)
	if err != nil {
		log.Fatalf("object storage init failed: %v", err)
	}

	// Drive backup is optional: without credentials every upload is stored
	// primary-only and deletion skips the drive step.
	var drv drive.Drive
	if cfg.DriveCredentialsFile != "" {
		gd, err := drive.NewGoogleDrive(context.Background(), cfg.DriveCredentialsFile, cfg.DriveFolderID)
		if err != nil {
			log.Fatalf("drive backup init failed: %v", err)
		}
		drv = gd
	} else {
		log.Println("drive backup not configured, uploads will be primary-only")
	}

	// Wire dependencies: repository → service → handler
	userRepo := user.NewRepository(pool)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	authRepo := auth.NewRepository(pool)
	authSvc := auth.NewService(authRepo, userSvc, cfg)
	authHandler := auth.NewHandler(authSvc)

	leadRepo := lead.NewRepository(pool)
	leadSvc := lead.NewService(leadRepo)
	leadHandler := lead.NewHandler(leadSvc)

	fileRepo := file.NewRepository(pool)
	fileSvc := file.NewService(fileRepo, store, drv)
	fileHandler := file.NewHandler(fileSvc)

	sigProvider := signature.NewHTTPProvider(cfg.SignatureAPIBase, cfg.SignatureAPIKey, nil)
	sigResolver := signature.NewResolver(sigProvider, cfg.SignatureAPIBase)
	sigHandler := signature.NewHandler(sigResolver, fileSvc, cfg.SignatureWebhookSecret, nil)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI — available at http://localhost:8080/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/register", authHandler.Register)
		})

		// E-signature provider webhook (authenticated by shared secret)
		r.Post("/webhooks/signature", sigHandler.Webhook)

		// Protected endpoints
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.RequireAuth(cfg.JWTSecret))

			r.Get("/users/me", userHandler.GetMe)

			r.Route("/leads", func(r chi.Router) {
				r.Post("/", leadHandler.Create)
				r.Get("/", leadHandler.List)
				r.Get("/{leadID}", leadHandler.Get)
				r.Patch("/{leadID}", leadHandler.Update)
				r.Delete("/{leadID}", leadHandler.Delete)

				r.Post("/{leadID}/files", fileHandler.Upload)
				r.Get("/{leadID}/files", fileHandler.List)
			})

			r.Route("/files", func(r chi.Router) {
				r.Get("/{fileID}", fileHandler.Get)
				r.Get("/{fileID}/download", fileHandler.Download)
				r.Delete("/{fileID}", fileHandler.Delete)
			})
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("server listening on :%s (env=%s)", cfg.Port, cfg.AppEnv)
		log.Printf("swagger UI at http://localhost:%s/swagger/", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-quit
	log.Println("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}

	log.Println("server stopped")
}
