package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	identityservice "onboard/internal/identity/service"
	identitystore "onboard/internal/identity/store"
	"onboard/internal/identity/token"
	orgmetrics "onboard/internal/organization/metrics"
	orgservice "onboard/internal/organization/service"
	orgstore "onboard/internal/organization/store"
	outboxmetrics "onboard/internal/outbox/metrics"
	"onboard/internal/outbox/publisher"
	outboxstore "onboard/internal/outbox/store"
	"onboard/internal/outbox/worker"
	"onboard/internal/platform/config"
	"onboard/internal/platform/httpserver"
	"onboard/internal/platform/logger"
	"onboard/internal/platform/metrics"
	"onboard/internal/platform/postgres"
	"onboard/internal/platform/redis"
	registrystore "onboard/internal/registry/store"
)

func serveCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the outbox publisher",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger.New(cfg.Server.LogLevel))
		},
	}
	cmd.Flags().String("addr", ":8080", "HTTP listen address")
	_ = v.BindPFlag("addr", cmd.Flags().Lookup("addr"))
	return cmd
}

// deps holds everything serve wires together.
type deps struct {
	db        *sql.DB
	redis     *redis.Client
	kafka     *publisher.Kafka
	registry  orgservice.RegistryLookup
	orgs      orgservice.OrganizationStore
	outbox    worker.Store
	sessions  identityservice.SessionStore
	publisher worker.Publisher
}

func (d *deps) close() {
	if d.kafka != nil {
		d.kafka.Close()
	}
	if d.redis != nil {
		_ = d.redis.Close()
	}
	if d.db != nil {
		_ = d.db.Close()
	}
}

func buildDeps(ctx context.Context, cfg *config.Config, log *slog.Logger) (*deps, error) {
	d := &deps{}

	if cfg.Database.URL != "" {
		db, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		d.db = db
		events := outboxstore.NewPostgres(db)
		d.registry = registrystore.NewPostgres(db)
		d.orgs = orgstore.NewPostgres(db, orgstore.WithOutbox(events))
		d.outbox = events
	} else {
		log.WarnContext(ctx, "no database configured, using in-memory stores")
		registry := registrystore.NewInMemory()
		if cfg.Registration.SeedRegistry {
			registrystore.SeedDevelopmentRecords(registry)
		}
		events := outboxstore.NewInMemory()
		d.registry = registry
		d.orgs = orgstore.NewInMemory(orgstore.WithEvents(events))
		d.outbox = events
	}

	client, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		d.close()
		return nil, err
	}
	d.redis = client
	d.sessions = sessionStore(client)

	if len(cfg.Kafka.Brokers) > 0 {
		k, err := publisher.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			d.close()
			return nil, err
		}
		d.kafka = k
		if err := k.EnsureTopic(ctx, 3, 1); err != nil {
			log.WarnContext(ctx, "could not ensure kafka topic", "topic", cfg.Kafka.Topic, "error", err)
		}
		d.publisher = k
	} else {
		d.publisher = publisher.NewLog(log)
	}
	return d, nil
}

func sessionStore(client *redis.Client) identityservice.SessionStore {
	if client == nil {
		return identitystore.NewInMemory()
	}
	return identitystore.NewRedis(client.Client)
}

func serve(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	policy, err := orgservice.ParseRepresentativePolicy(cfg.Registration.RepresentativePolicy)
	if err != nil {
		return err
	}

	d, err := buildDeps(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer d.close()

	reg := metrics.New()

	sessions := identityservice.New(d.sessions,
		token.New(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.Audience),
		identityservice.WithLogger(log),
		identityservice.WithSessionTTL(cfg.Auth.SessionTTL),
	)
	organizations := orgservice.New(d.registry, d.orgs,
		orgservice.WithLogger(log),
		orgservice.WithMetrics(orgmetrics.New(reg)),
		orgservice.WithTracer(otel.Tracer("onboard/organization")),
		orgservice.WithRepresentativePolicy(policy),
		orgservice.WithStoreTimeout(cfg.Registration.StoreTimeout),
	)
	outboxWorker := worker.New(d.outbox, d.publisher,
		worker.WithLogger(log),
		worker.WithMetrics(outboxmetrics.New(reg)),
		worker.WithInterval(cfg.Kafka.PollInterval),
		worker.WithBatchSize(cfg.Kafka.BatchSize),
	)

	router := newRouter(routerDeps{
		logger:         log,
		metrics:        reg,
		organizations:  organizations,
		sessions:       sessions,
		exposeSessions: cfg.IsDevelopment(),
		health:         healthCheck(d),
	})
	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.InfoContext(gctx, "starting onboard", "addr", cfg.Server.Addr, "env", cfg.Environment)
		return httpserver.Serve(gctx, srv, cfg.Server.ShutdownTimeout)
	})
	g.Go(func() error {
		if err := outboxWorker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("outbox worker: %w", err)
		}
		return nil
	})
	err = g.Wait()
	log.Info("onboard stopped")
	return err
}

func healthCheck(d *deps) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if d.db != nil {
			if err := d.db.PingContext(ctx); err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
		}
		if d.redis != nil {
			if err := d.redis.Health(ctx); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
		}
		return nil
	}
}
