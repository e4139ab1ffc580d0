package main

import (
	"context"
	"log"
	"time"

	"github.com/pollenmap/pollen-backend-go/internal/api"
	"github.com/pollenmap/pollen-backend-go/internal/cache"
	"github.com/pollenmap/pollen-backend-go/internal/config"
	"github.com/pollenmap/pollen-backend-go/internal/database"
	"github.com/pollenmap/pollen-backend-go/internal/geocode"
	"github.com/pollenmap/pollen-backend-go/internal/handler"
	"github.com/pollenmap/pollen-backend-go/internal/models"
	"github.com/pollenmap/pollen-backend-go/internal/region"
	"github.com/pollenmap/pollen-backend-go/internal/repository"
	"github.com/pollenmap/pollen-backend-go/internal/service"
	"github.com/pollenmap/pollen-backend-go/internal/session"
	"github.com/pollenmap/pollen-backend-go/internal/stream"
	"github.com/pollenmap/pollen-backend-go/internal/upstream"
)

func main() {
	cfg := config.Load()

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	deployRegion, err := region.Load(cfg.RegionKey)
	if err != nil {
		log.Fatal("Failed to load region:", err)
	}

	catalog, err := models.DefaultCatalog()
	if err != nil {
		log.Fatal("Invalid species catalog:", err)
	}

	client := upstream.NewClient(cfg.UpstreamURL)
	geocoder := geocode.NewClient(cfg.GeocoderURL, "pollen-map-backend/1.0")

	gridCache := cache.NewGridCache()
	snapshots := repository.NewSnapshotRepository(database.GetDB())
	maps := service.NewMapService(client, gridCache, snapshots, deployRegion, cfg.PrefetchDepth, cfg.PruneDistance)

	// The sampling axes are the foundation of every coordinate resolution.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := maps.LoadAxes(ctx); err != nil {
		cancel()
		log.Fatal("Failed to load sampling axes:", err)
	}
	cancel()
	maps.WarmStart()

	hub := stream.NewHub()
	sessions := service.NewSessionService(session.NewManager(), maps, hub, catalog, client,
		cfg.TickInterval, cfg.SearchDebounce)
	geocodeSvc := service.NewGeocodeService(geocoder, deployRegion)

	router := api.SetupRouter(cfg, api.Handlers{
		Auth:    handler.NewAuthHandler(cfg.JWTSecret),
		Session: handler.NewSessionHandler(sessions, catalog, deployRegion),
		Map:     handler.NewMapHandler(sessions),
		Chart:   handler.NewChartHandler(sessions),
		Geocode: handler.NewGeocodeHandler(geocodeSvc, sessions),
		Catalog: handler.NewCatalogHandler(catalog),
		Hub:     hub,
	})

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
