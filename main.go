package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/familyalbumhq/albumbackend/config"
	"github.com/familyalbumhq/albumbackend/database"
	"github.com/familyalbumhq/albumbackend/handlers"
	"github.com/familyalbumhq/albumbackend/media"
	"github.com/familyalbumhq/albumbackend/models"
	"github.com/familyalbumhq/albumbackend/repository"
	"github.com/familyalbumhq/albumbackend/workers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	dbDir := filepath.Dir(cfg.DatabasePath)
	log.Printf("Ensuring database directory exists: %s", dbDir)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Fatalf("FATAL: Failed to create database directory %s: %v", dbDir, err)
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database schema: %v", err)
	}

	mediaStore, err := media.NewLocalStorage(cfg.MediaStoragePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize media store: %v", err)
	}

	entityRepo := repository.NewEntityRepository(db)
	tagRepo := repository.NewTagRepository(db)
	mediaRepo := repository.NewMediaRepository(db)

	log.Printf("Initializing usage count refresher (Workers: %d, Queue Size: %d)...", cfg.NumCountWorkers, cfg.CountQueueSize)
	countRefresher := workers.NewCountRefresher(entityRepo, cfg.CountQueueSize, cfg.NumCountWorkers)
	defer countRefresher.Stop()

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Serving media from: %s", cfg.MediaStoragePath)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	mediaHandler := &handlers.MediaHandler{
		MediaRepo: mediaRepo,
		TagRepo:   tagRepo,
		Entities:  entityRepo,
		Refresher: countRefresher,
	}
	personHandler := &handlers.EntityHandler{Repo: entityRepo, Kind: models.KindPerson}
	eventHandler := &handlers.EntityHandler{Repo: entityRepo, Kind: models.KindEvent}
	adminHandler := &handlers.AdminHandler{TagRepo: tagRepo, Entities: entityRepo}
	uploadHandler := &handlers.UploadHandler{MediaRepo: mediaRepo, Store: mediaStore}

	r.Route("/api", func(r chi.Router) {
		r.Route("/media", func(r chi.Router) {
			r.Get("/", mediaHandler.ListMedia)
			r.Route("/{filename}", func(r chi.Router) {
				r.Get("/", mediaHandler.GetMedia)
				r.Put("/", mediaHandler.UpdateMedia)
				r.Delete("/", mediaHandler.DeleteMedia)
			})
		})

		r.Route("/people", func(r chi.Router) {
			r.Post("/", personHandler.CreateEntity)
			r.Get("/", personHandler.ListEntities)
			r.Route("/{entity_id}", func(r chi.Router) {
				r.Get("/", personHandler.GetEntity)
				r.Put("/", personHandler.UpdateEntity)
				r.Delete("/", personHandler.DeleteEntity)
			})
		})

		r.Route("/events", func(r chi.Router) {
			r.Post("/", eventHandler.CreateEntity)
			r.Get("/", eventHandler.ListEntities)
			r.Route("/{entity_id}", func(r chi.Router) {
				r.Get("/", eventHandler.GetEntity)
				r.Put("/", eventHandler.UpdateEntity)
				r.Delete("/", eventHandler.DeleteEntity)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/reconcile", adminHandler.Reconcile)
			r.Post("/refresh-counts", adminHandler.RefreshCounts)
		})

		r.Post("/upload", uploadHandler.Upload)

		r.Get("/files/*", handlers.AssetServer(mediaStore))
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	fmt.Printf("Server starting on http://localhost:%s\n", port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
