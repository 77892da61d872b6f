//	@title			Linkpage API
//	@version		1.0
//	@description	Backend for a Linkpage-style site — editable configuration and image hosting.
//
//	@host		localhost:3000
//	@BasePath	/

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

	"github.com/linkpage/service/internal/config"
	"github.com/linkpage/service/internal/docstore"
	appMiddleware "github.com/linkpage/service/internal/middleware"
	"github.com/linkpage/service/internal/response"
	"github.com/linkpage/service/internal/sitedata"
	"github.com/linkpage/service/internal/upload"

	_ "github.com/linkpage/service/docs/swagger"
)

func main() {
	cfg := config.Load()

	var store docstore.Store
	if cfg.DevMode {
		log.Println("DEV_MODE=true: using in-memory document store")
		store = docstore.NewMemory()
	} else {
		pool, err := docstore.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		defer pool.Close()

		if err := docstore.Migrate(cfg.DatabaseURL); err != nil {
			log.Fatalf("database migration failed: %v", err)
		}
		store = docstore.NewPostgres(pool)
	}

	var tokens upload.TokenSource
	if tp, err := upload.NewGoogleTokenProvider(upload.Credentials{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RefreshToken: cfg.GoogleRefreshToken,
	}); err != nil {
		if !cfg.DevMode {
			log.Fatalf("drive credentials: %v", err)
		}
		log.Printf("drive credentials missing, uploads will fail: %v", err)
	} else {
		tokens = tp
	}

	drive := upload.NewDrive(cfg.DriveFolderID, cfg.CDNHost)

	// Wire dependencies: store → service → handler
	siteSvc := sitedata.NewService(store)
	siteHandler := sitedata.NewHandler(siteSvc)

	uploadSvc := upload.NewService(tokens, drive, cfg.MaxUploadBytes)
	uploadHandler := upload.NewHandler(uploadSvc, cfg.MaxUploadBytes)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Swagger UI — available at http://localhost:3000/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api", func(r chi.Router) {
		r.Get("/site-data", siteHandler.GetSiteData)
		r.Post("/site-data", siteHandler.SaveSiteData)
		r.Get("/categories", siteHandler.GetCategories)

		r.Route("/upload", func(r chi.Router) {
			r.Post("/avatar", uploadHandler.UploadAvatar)
			r.Post("/background", uploadHandler.UploadBackground)
			r.Post("/product-image", uploadHandler.UploadProductImage)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("server listening on :%s (env=%s)", cfg.Port, cfg.AppEnv)
		log.Printf("health check at http://localhost:%s/health", cfg.Port)
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
