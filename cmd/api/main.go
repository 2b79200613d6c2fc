// @title        Medical Courier Tracking API
// @version      1.0
// @description  Driver GPS ingestion with anti-spoofing validation, tracking toggles and polled tracking views.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/medcourier/tracking/internal/api"
	"github.com/medcourier/tracking/internal/api/handler"
	"github.com/medcourier/tracking/internal/core/geo"
	"github.com/medcourier/tracking/internal/core/ports"
	"github.com/medcourier/tracking/internal/core/service"
	"github.com/medcourier/tracking/internal/infrastructure/db/memory"
	"github.com/medcourier/tracking/internal/infrastructure/db/mongo"
	"github.com/medcourier/tracking/internal/infrastructure/db/redis"
	"github.com/medcourier/tracking/internal/infrastructure/geocoding"
	"github.com/medcourier/tracking/internal/infrastructure/queue"
	"github.com/medcourier/tracking/internal/pkg/config"
	"github.com/medcourier/tracking/pkg/logger"
)

// stores is the persistence wiring selected by STORAGE_DRIVER.
type stores struct {
	shipments  ports.ShipmentRepository
	reports    ports.LocationRepository
	facilities ports.FacilityRepository
	replay     service.ReplayStore
	geocoder   ports.Geocoder
	readiness  map[string]handler.Check
	close      func(context.Context)
}

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "tracking",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("service stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		st.close(closeCtx)
	}()

	serializer := queue.NewSerializer(cfg.Serializer.Workers, logger.Component("serializer"))

	ingestCfg := service.IngestionConfig{
		MaxAge:                cfg.Ingestion.MaxAge,
		FutureTolerance:       cfg.Ingestion.FutureTolerance,
		TimestampPolicy:       service.TimestampPolicy(cfg.Ingestion.TimestampPolicy),
		MaxSpeedMPH:           cfg.Ingestion.MaxSpeedMPH,
		ShortInterval:         cfg.Ingestion.ShortInterval,
		ShortIntervalMaxMiles: cfg.Ingestion.ShortIntervalMaxMiles,
		JitterMiles:           cfg.Ingestion.JitterMeters / geo.MetersPerMile,
		MaxAttempts:           cfg.Ingestion.MaxAttempts,
	}

	trackingSvc := service.NewTrackingService(st.shipments, logger.Component("tracking"))
	ingestionSvc := service.NewIngestionService(st.shipments, st.reports, serializer, st.replay, ingestCfg, logger.Component("ingestion"))
	viewSvc := service.NewViewService(st.shipments, st.reports, st.facilities, st.geocoder, service.ViewConfig{
		GeocodeTimeout:     cfg.Geocoder.Timeout,
		GeocodeConcurrency: cfg.Geocoder.Concurrency,
	}, logger.Component("view"))

	e := api.NewRouter(api.Dependencies{
		Tracking:     trackingSvc,
		Ingestion:    ingestionSvc,
		View:         viewSvc,
		JWTSecret:    cfg.JWTSecret,
		MaxBatchSize: cfg.HTTP.MaxBatchSize,
		Readiness:    st.readiness,
		Log:          logger.Component("http"),
	})
	e.Server.ReadTimeout = cfg.HTTP.ReadTimeout
	e.Server.WriteTimeout = cfg.HTTP.WriteTimeout

	// The serializer outlives the HTTP server so in-flight submissions can
	// finish during graceful shutdown.
	serCtx, stopSerializer := context.WithCancel(context.Background())
	defer stopSerializer()
	serializer.Start(serCtx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.StorageDriver).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		err := e.Shutdown(shutdownCtx)
		stopSerializer()
		return err
	})

	return g.Wait()
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	provider := geocoding.NewClient(geocoding.Config{
		BaseURL:   cfg.Geocoder.BaseURL,
		UserAgent: cfg.Geocoder.UserAgent,
		Email:     cfg.Geocoder.Email,
		Timeout:   cfg.Geocoder.Timeout,
	})

	if cfg.StorageDriver == config.StorageMemory {
		ships := memory.NewShipmentRepository()
		facs := memory.NewFacilityRepository()
		if cfg.SeedFile != "" {
			fx, err := memory.LoadFixturesFile(cfg.SeedFile, ships, facs)
			if err != nil {
				return nil, err
			}
			log.Info().Int("shipments", len(fx.Shipments)).Int("facilities", len(fx.Facilities)).Msg("fixtures loaded")
		}
		log.Warn().Msg("using in-memory storage; data is lost on restart")
		return &stores{
			shipments:  ships,
			reports:    memory.NewLocationRepository(),
			facilities: facs,
			geocoder:   provider,
			readiness:  map[string]handler.Check{},
			close:      func(context.Context) {},
		}, nil
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		RetryFor: cfg.Mongo.RetryFor,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		RetryFor: cfg.Redis.RetryFor,
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	ships := mongo.NewShipmentRepository(db)
	reports := mongo.NewLocationRepository(db, logger.Component("location_repository"))
	facs := mongo.NewFacilityRepository(db, logger.Component("facility_repository"))

	if err := ships.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure shipment indexes")
	}
	// The point store's ordering guard depends on its unique index.
	if err := reports.EnsureIndexes(ctx); err != nil {
		_ = rdb.Close()
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &stores{
		shipments:  ships,
		reports:    reports,
		facilities: facs,
		replay:     redis.NewReplayStore(rdb, cfg.Redis.ReplayTTL),
		geocoder:   geocoding.NewCachedGeocoder(provider, redis.NewGeocodeCache(rdb, cfg.Geocoder.CacheTTL), logger.Component("geocoder")),
		readiness: map[string]handler.Check{
			"mongodb": func(ctx context.Context) error { return client.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		close: func(ctx context.Context) {
			if err := rdb.Close(); err != nil {
				log.Warn().Err(err).Msg("redis close")
			}
			if err := client.Disconnect(ctx); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		},
	}, nil
}
