// Command server runs the reunion registration backend. main wires the
// collaborators from config, falling back to in-memory implementations for
// any collaborator left unconfigured so a bare `go run` serves a working
// development instance.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"reunion/internal/audit"
	"reunion/internal/captcha"
	"reunion/internal/credential"
	galleryhandler "reunion/internal/gallery/handler"
	galleryservice "reunion/internal/gallery/service"
	gallerystore "reunion/internal/gallery/store"
	identityhandler "reunion/internal/identity/handler"
	identityservice "reunion/internal/identity/service"
	identitystore "reunion/internal/identity/store"
	"reunion/internal/identity/token"
	"reunion/internal/notify"
	"reunion/internal/platform/config"
	"reunion/internal/platform/httpserver"
	"reunion/internal/platform/logger"
	"reunion/internal/platform/objectstore"
	"reunion/internal/platform/postgres"
	"reunion/internal/platform/redis"
	ratelimitmetrics "reunion/internal/ratelimit/metrics"
	ratelimitmw "reunion/internal/ratelimit/middleware"
	ratelimitservice "reunion/internal/ratelimit/service"
	"reunion/internal/ratelimit/store/bucket"
	registrationhandler "reunion/internal/registration/handler"
	registrationmetrics "reunion/internal/registration/metrics"
	registrationservice "reunion/internal/registration/service"
	registrationstore "reunion/internal/registration/store"
	httptransport "reunion/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	health := map[string]httptransport.Health{}

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		health["postgres"] = db.Ping
	}

	redisClient, err := redis.New(cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		health["redis"] = func() error { return redisClient.Health(context.Background()) }
	}

	var storage objectstore.Store
	minioStore, err := objectstore.NewMinio(cfg.Storage)
	if err != nil {
		return err
	}
	if minioStore != nil {
		storage = minioStore
	} else {
		log.Warn("no storage endpoint configured, using in-memory object store")
		storage = objectstore.NewInMemoryStore(cfg.Storage.PublicBaseURL)
	}

	var publisher audit.Publisher
	kafkaPublisher, err := audit.NewKafka(cfg.Kafka)
	if err != nil {
		return err
	}
	if kafkaPublisher != nil {
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	var mailer notify.Mailer
	smtpMailer, err := notify.NewSMTP(cfg.SMTP)
	if err != nil {
		return err
	}
	if smtpMailer != nil {
		mailer = smtpMailer
	} else {
		log.Warn("no smtp host configured, email delivery disabled")
		mailer = notify.NewInMemoryMailer()
	}

	var humanCheck captcha.Verifier
	if cfg.Captcha.Secret != "" {
		humanCheck = captcha.NewHTTPVerifier(cfg.Captcha.VerifyURL, cfg.Captcha.Secret, cfg.Captcha.MinScore)
	} else {
		log.Warn("no captcha secret configured, human verification disabled")
		humanCheck = captcha.AlwaysPass{}
	}

	var users identitystore.UserStore = identitystore.NewInMemoryStore()
	var registrations registrationstore.RegistrationStore = registrationstore.NewInMemoryStore()
	var galleryItems gallerystore.ItemStore = gallerystore.NewInMemoryStore()
	if db != nil {
		users = identitystore.NewPostgresStore(db)
		registrations = registrationstore.NewPostgresStore(db)
		galleryItems = gallerystore.NewPostgresStore(db)
	} else {
		log.Warn("no database configured, using in-memory stores")
	}

	var buckets ratelimitservice.Store = bucket.NewInMemoryStore()
	if redisClient != nil {
		buckets = bucket.NewRedis(redisClient.Client)
	}

	tokens := token.NewService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.TokenTTL)

	identitySvc, err := identityservice.New(users, tokens, humanCheck,
		identityservice.WithLogger(log),
		identityservice.WithAuditPublisher(publisher),
	)
	if err != nil {
		return err
	}

	registrationSvc, err := registrationservice.New(
		registrations,
		credential.NewGenerator(storage, cfg.EventID),
		mailer,
		cfg.EventID,
		registrationservice.WithLogger(log),
		registrationservice.WithAuditPublisher(publisher),
		registrationservice.WithMetrics(registrationmetrics.New(registry)),
	)
	if err != nil {
		return err
	}

	gallerySvc, err := galleryservice.New(galleryItems, storage,
		galleryservice.WithLogger(log),
		galleryservice.WithAuditPublisher(publisher),
	)
	if err != nil {
		return err
	}

	limiterSvc, err := ratelimitservice.New(buckets, cfg.RateLimit,
		ratelimitservice.WithLogger(log),
		ratelimitservice.WithMetrics(ratelimitmetrics.New(registry)),
	)
	if err != nil {
		return err
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Identity:      identityhandler.New(identitySvc, log),
		Registrations: registrationhandler.New(registrationSvc, log),
		Gallery:       galleryhandler.New(gallerySvc, log),
		Verifier:      tokens,
		Limiter:       ratelimitmw.New(limiterSvc, log, ratelimitmw.WithAuditPublisher(publisher)),
		Logger:        log,
		Gatherer:      registry,
		HealthChecks:  health,
	})

	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server", "addr", cfg.Addr, "event_id", cfg.EventID)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
