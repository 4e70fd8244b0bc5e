package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pankhokiudaan/server/internal/api"
	"github.com/pankhokiudaan/server/internal/apperr"
	"github.com/pankhokiudaan/server/internal/auth"
	"github.com/pankhokiudaan/server/internal/config"
	"github.com/pankhokiudaan/server/internal/domain/admins"
	"github.com/pankhokiudaan/server/internal/domain/events"
	"github.com/pankhokiudaan/server/internal/domain/media"
	"github.com/pankhokiudaan/server/internal/jobs"
	"github.com/pankhokiudaan/server/internal/metrics"
	"github.com/pankhokiudaan/server/internal/notify"
	"github.com/pankhokiudaan/server/internal/storage/postgres"
	"github.com/pankhokiudaan/server/internal/telemetry"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout   = 10 * time.Second
	dbMetricsInterval = 15 * time.Second
)

type serveOptions struct {
	host string
	port int
}

func newServeCommand(global *globalOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server and begin accepting API requests.

The server will:
- Load configuration from .env, the --config file and the environment
- Bootstrap a superadmin if ADMIN_USERNAME, ADMIN_EMAIL and ADMIN_PASSWORD are set
- Start the notification workers when EMAIL_DELIVERY=queue
- Shut down gracefully on SIGINT/SIGTERM

Examples:
  # Start with configuration from the environment
  server serve

  # Start on a specific host and port
  server serve --host 127.0.0.1 --port 9090

  # Start with debug logging
  server serve --log-level debug`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.loadConfig()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			if opts.host != "" {
				cfg.Server.Host = opts.host
			}
			if opts.port != 0 {
				cfg.Server.Port = opts.port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&opts.host, "host", "", "server host address (default: 0.0.0.0)")
	cmd.Flags().IntVar(&opts.port, "port", 0, "server port (default: 5000)")
	return cmd
}

func runServer(ctx context.Context, cfg config.Config) error {
	logger := config.NewLogger(cfg.Logging)
	logger.Info().Str("version", Version).Str("environment", cfg.Environment).Msg("starting server")

	metrics.Init(Version, GitCommit, BuildDate)

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Tracing, Version)
	if err != nil {
		return fmt.Errorf("tracing init: %w", err)
	}
	defer func() {
		tctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(tctx); err != nil {
			logger.Error().Err(err).Msg("tracing shutdown error")
		}
	}()

	pool, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer pool.Close()

	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return fmt.Errorf("repository init failed: %w", err)
	}

	observer := metrics.Observer{}
	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, cfg.Auth.Issuer)
	adminService := admins.NewService(repo.Admins(), tokens, logger).WithLoginObserver(observer)
	eventService := events.NewService(repo.Events(), logger)
	mediaService := media.NewService(repo.Media(), logger).WithViewObserver(observer)

	if err := bootstrapAdmin(ctx, cfg, adminService, logger); err != nil {
		logger.Error().Err(err).Msg("admin bootstrap failed")
	}

	delivery, riverClient, err := newDelivery(cfg, pool, logger)
	if err != nil {
		return err
	}
	relay := notify.NewRelay(cfg.Email, delivery, logger).WithObserver(observer)

	server := &http.Server{
		Addr: fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: api.NewRouter(api.Deps{
			Config:  cfg,
			Logger:  logger,
			Version: Version,
			Auth:    adminService,
			Events:  eventService,
			Media:   mediaService,
			Forms:   relay,
			DB:      pool,
		}),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Not tied to the signal; Stop below drains in-flight jobs first.
	riverCtx, riverCancel := context.WithCancel(context.WithoutCancel(ctx))
	defer riverCancel()
	if riverClient != nil {
		if err := riverClient.Start(riverCtx); err != nil {
			return fmt.Errorf("river workers failed to start: %w", err)
		}
		logger.Info().Msg("notification workers started")
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		metrics.NewDBCollector(pool).Run(gctx, dbMetricsInterval)
		return nil
	})

	if riverClient != nil {
		g.Go(func() error {
			<-gctx.Done()
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := riverClient.Stop(stopCtx); err != nil {
				logger.Error().Err(err).Msg("river workers shutdown error")
				return nil
			}
			logger.Info().Msg("notification workers stopped")
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(sctx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		logger.Info().Msg("server stopped")
		return nil
	})

	return g.Wait()
}

// newDelivery picks how form emails leave the process. The River client is
// nil unless delivery is queued.
func newDelivery(cfg config.Config, pool *pgxpool.Pool, logger zerolog.Logger) (notify.Delivery, *river.Client[pgx.Tx], error) {
	if !cfg.Email.Enabled {
		logger.Warn().Msg("email disabled; form submissions will be logged only")
		return notify.Disabled{Logger: logger}, nil, nil
	}

	sender, err := notify.NewSender(cfg.Email, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("email sender: %w", err)
	}
	if cfg.Email.Delivery != "queue" {
		return notify.Direct{Sender: sender}, nil, nil
	}

	client, err := jobs.NewClient(pool, jobs.NewWorkers(sender, logger), cfg.Jobs, logger,
		[]rivertype.Hook{metrics.NewRiverMetricsHook()})
	if err != nil {
		return nil, nil, fmt.Errorf("river client: %w", err)
	}
	return jobs.NewQueue(client), client, nil
}

// bootstrapAdmin creates the configured superadmin on first start. An
// existing account with the same username or email is left alone.
func bootstrapAdmin(ctx context.Context, cfg config.Config, registrar adminRegistrar, logger zerolog.Logger) error {
	bootstrap := cfg.AdminBootstrap
	if bootstrap.Username == "" || bootstrap.Password == "" || bootstrap.Email == "" {
		logger.Debug().Msg("admin bootstrap env vars not fully set; skipping")
		return nil
	}

	created, err := registrar.Provision(ctx, admins.RegisterParams{
		Username: bootstrap.Username,
		Email:    bootstrap.Email,
		Password: bootstrap.Password,
		Role:     string(auth.RoleSuperAdmin),
	})
	if apperr.Is(err, apperr.KindConflict) {
		return nil
	}
	if err != nil {
		return err
	}

	email := created.Email
	if cfg.Environment == "production" {
		email = config.RedactEmail(email)
	}
	logger.Info().Str("username", created.Username).Str("email", email).Msg("bootstrapped admin user")
	return nil
}

type adminRegistrar interface {
	Provision(ctx context.Context, params admins.RegisterParams) (admins.Summary, error)
}
