package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nutrilog/backend/config"
	httpDelivery "github.com/nutrilog/backend/internal/delivery/http"
	"github.com/nutrilog/backend/internal/infrastructure/cache"
	"github.com/nutrilog/backend/internal/infrastructure/dataset"
	"github.com/nutrilog/backend/internal/infrastructure/localdb"
	"github.com/nutrilog/backend/internal/infrastructure/openfoodfacts"
	"github.com/nutrilog/backend/internal/infrastructure/sharedstore"
	"github.com/nutrilog/backend/internal/usecase"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	if cfg.Server.Environment == "development" {
		log.SetLevel(logrus.DebugLevel)
	}

	log.WithFields(logrus.Fields{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
	}).Info("starting nutrilog backend")

	store, err := localdb.Open(cfg.Database.Path, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open local database")
	}

	// One-shot cleanup of body composition rows written before dates were
	// normalized to midnight; idempotent, so safe to run on every boot.
	if changed, err := store.NormalizeBodyCompositionDates(); err != nil {
		log.WithError(err).Fatal("body composition date migration failed")
	} else if changed > 0 {
		log.WithField("rows", changed).Info("normalized body composition dates")
	}

	searchService := usecase.NewSearchService(
		sharedstore.NewClient(cfg.SharedStore.BaseURL, log),
		openfoodfacts.NewClient(cfg.OpenFoodFacts.BaseURL, cfg.OpenFoodFacts.UserAgent, log),
		dataset.NewLoader(cfg.Dataset.Path, log),
		cache.NewProductCache(cfg.Cache.TTL),
		log,
	)
	foodLogService := usecase.NewFoodLogService(store, log)
	bodyService := usecase.NewBodyMetricsService(store, log)
	workoutService := usecase.NewWorkoutService(store, log)

	handler := httpDelivery.NewHandler(searchService, foodLogService, bodyService, workoutService)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.WithField("addr", addr).Info("server listening")
	if err := router.Run(addr); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
