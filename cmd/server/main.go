package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	biometrichandler "warden/internal/biometric/handler"
	biometricmetrics "warden/internal/biometric/metrics"
	biometricservice "warden/internal/biometric/service"
	fingerprintstore "warden/internal/biometric/store/fingerprint"
	photostore "warden/internal/biometric/store/photo"
	"warden/internal/blob"
	custodyhandler "warden/internal/custody/handler"
	custodymetrics "warden/internal/custody/metrics"
	custodyservice "warden/internal/custody/service"
	appearancestore "warden/internal/custody/store/appearance"
	inmatestore "warden/internal/custody/store/inmate"
	movementstore "warden/internal/custody/store/movement"
	"warden/internal/platform/config"
	"warden/internal/platform/httpserver"
	"warden/internal/platform/logger"
	platformmetrics "warden/internal/platform/metrics"
	"warden/internal/platform/middleware"
	platformredis "warden/internal/platform/redis"
	registryhandler "warden/internal/registry/handler"
	registryservice "warden/internal/registry/service"
	courtstore "warden/internal/registry/store/court"
	offensestore "warden/internal/registry/store/offense"
	officerstore "warden/internal/registry/store/officer"
	prisonstore "warden/internal/registry/store/prison"
	statscache "warden/internal/stats/cache"
	statshandler "warden/internal/stats/handler"
	statsmetrics "warden/internal/stats/metrics"
	statsservice "warden/internal/stats/service"
	visithandler "warden/internal/visits/handler"
	visitmetrics "warden/internal/visits/metrics"
	visitservice "warden/internal/visits/service"
	visitstore "warden/internal/visits/store/visit"
	"warden/pkg/platform/audit"
	auditmemory "warden/pkg/platform/audit/store/memory"
	auditpostgres "warden/pkg/platform/audit/store/postgres"
	"warden/pkg/platform/audit/publisher"
)

// main wires stores, services and transport, then runs the HTTP server until
// a shutdown signal. Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Postgres is optional; without DATABASE_URL everything runs in memory,
	// which is how local development operates.
	var db *sql.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return err
		}
		log.Info("using postgres stores")
	} else {
		log.Info("using in-memory stores")
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		log.Info("stats cache backed by redis")
	}

	blobs, err := newBlobStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	var auditStore audit.Store
	if db != nil {
		auditStore = auditpostgres.New(db)
	} else {
		auditStore = auditmemory.NewInMemoryStore()
	}
	var publisherOpts []publisher.Option
	if cfg.AuditBuffer > 0 {
		publisherOpts = append(publisherOpts, publisher.WithAsyncBuffer(cfg.AuditBuffer))
	}
	auditPublisher := publisher.NewPublisher(auditStore, publisherOpts...)
	defer auditPublisher.Close()

	var (
		inmates      custodyservice.InmateStore
		movements    custodyservice.MovementStore
		appearances  custodyservice.AppearanceStore
		photos       biometricservice.PhotoStore
		fingerprints biometricservice.FingerprintStore
		visits       visitservice.VisitStore
		prisons      registryservice.PrisonStore
		officers     registryservice.OfficerStore
		courts       registryservice.CourtStore
		offenses     registryservice.OffenseStore
	)
	if db != nil {
		inmates = inmatestore.NewPostgres(db)
		movements = movementstore.NewPostgres(db)
		appearances = appearancestore.NewPostgres(db)
		photos = photostore.NewPostgres(db)
		fingerprints = fingerprintstore.NewPostgres(db)
		visits = visitstore.NewPostgres(db)
		prisons = prisonstore.NewPostgres(db)
		officers = officerstore.NewPostgres(db)
		courts = courtstore.NewPostgres(db)
		offenses = offensestore.NewPostgres(db)
	} else {
		inmates = inmatestore.New()
		movements = movementstore.New()
		appearances = appearancestore.New()
		photos = photostore.New()
		fingerprints = fingerprintstore.New()
		visits = visitstore.New()
		prisons = prisonstore.New()
		officers = officerstore.New()
		courts = courtstore.New()
		offenses = offensestore.New()
	}

	var dashboardCache statscache.Cache
	if redisClient != nil {
		dashboardCache = statscache.NewRedisCache(redisClient.Client)
	} else {
		dashboardCache = statscache.NewInMemoryCache()
	}
	statsSvc := statsservice.New(inmates, dashboardCache, cfg.StatsTTL,
		statsservice.WithLogger(log),
		statsservice.WithMetrics(statsmetrics.New()),
	)

	custodySvc := custodyservice.New(inmates, movements, appearances,
		custodyservice.WithLogger(log),
		custodyservice.WithAuditPublisher(auditPublisher),
		custodyservice.WithMetrics(custodymetrics.New()),
		custodyservice.WithStatsInvalidator(statsSvc),
	)
	biometricSvc := biometricservice.New(photos, fingerprints, blobs,
		biometricservice.WithLogger(log),
		biometricservice.WithAuditPublisher(auditPublisher),
		biometricservice.WithMetrics(biometricmetrics.New()),
	)
	visitSvc := visitservice.New(visits,
		visitservice.WithLogger(log),
		visitservice.WithAuditPublisher(auditPublisher),
		visitservice.WithMetrics(visitmetrics.New()),
	)
	registrySvc := registryservice.New(prisons, officers, courts, offenses,
		registryservice.WithLogger(log),
		registryservice.WithAuditPublisher(auditPublisher),
	)

	httpMetrics := platformmetrics.New()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Actor)
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.Latency(httpMetrics))
	router.Use(middleware.Timeout(30 * time.Second))

	custodyhandler.New(custodySvc, log).Register(router)
	biometrichandler.New(biometricSvc, log).Register(router)
	visithandler.New(visitSvc, log).Register(router)
	registryhandler.New(registrySvc, log).Register(router)
	statshandler.New(statsSvc, log).Register(router)

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", healthz(db, redisClient))

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting warden", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newBlobStore(ctx context.Context, cfg config.Server, log *slog.Logger) (biometricservice.BlobStore, error) {
	if cfg.GCSBucket == "" {
		log.Info("using in-memory blob store")
		return blob.NewInMemoryStore(), nil
	}
	store, err := blob.NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSCredentialsFile)
	if err != nil {
		return nil, err
	}
	log.Info("using gcs blob store", "bucket", cfg.GCSBucket)
	return store, nil
}

func healthz(db *sql.DB, redisClient *platformredis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
