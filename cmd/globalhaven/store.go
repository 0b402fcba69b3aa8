package main

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/lc3t35/GlobalHaven/internal/model"
	"github.com/lc3t35/GlobalHaven/internal/repository"
	"github.com/lc3t35/GlobalHaven/internal/service"
	"github.com/lc3t35/GlobalHaven/pkg/config"
	"github.com/lc3t35/GlobalHaven/pkg/database"
	"github.com/lc3t35/GlobalHaven/pkg/geocode"
	"github.com/lc3t35/GlobalHaven/pkg/jwtutil"
)

// openStore connects the configured store and brings its schema up to date
func openStore(cfg *config.Config, log *zap.Logger) (repository.Store, error) {
	if cfg.DB.Driver == config.StoreDriverMemory {
		log.Warn("Using the in-memory store, data will not survive a restart")
		return repository.NewMemoryStore(), nil
	}

	db, err := database.InitDB(&cfg.DB, log)
	if err != nil {
		return nil, eris.Wrap(err, "failed to initialize database")
	}
	if err := database.MigrateModels(db, model.AllModels()...); err != nil {
		_ = database.Close(db)
		return nil, eris.Wrap(err, "failed to migrate database")
	}
	log.Info("Database connection established")

	return repository.NewPostgresStore(db, log), nil
}

func closeStore(store repository.Store, log *zap.Logger) {
	if err := store.Close(); err != nil {
		log.Error("Failed to close store", zap.Error(err))
	}
}

func newService(cfg *config.Config, store repository.Store, log *zap.Logger) *service.Service {
	tokens := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey: cfg.JWT.SigningKey,
		Expiration: time.Duration(cfg.JWT.ExpirationMinutes) * time.Minute,
	})

	geocoder := geocode.NewClient(
		geocode.WithBaseURL(cfg.Geocoder.URL),
		geocode.WithUserAgent(cfg.Geocoder.UserAgent),
		geocode.WithRateLimit(cfg.Geocoder.RateLimit),
		geocode.WithTimeout(cfg.Geocoder.Timeout),
		geocode.WithCache(repository.NewGeocodeCache(store)),
		geocode.WithCacheTTL(cfg.Geocoder.CacheTTL),
		geocode.WithMissCacheTTL(cfg.Geocoder.MissCacheTTL),
		geocode.WithLogger(log),
	)

	return service.New(store, tokens, geocoder, log)
}
