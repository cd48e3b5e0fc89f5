package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vitaltrack/fitness-app/internal/api"
	"vitaltrack/fitness-app/internal/config"
	"vitaltrack/fitness-app/internal/logger"
	"vitaltrack/fitness-app/internal/realtime"
	"vitaltrack/fitness-app/internal/repository"
	"vitaltrack/fitness-app/internal/repository/memory"
	"vitaltrack/fitness-app/internal/repository/mongo"
	"vitaltrack/fitness-app/internal/service"
	"vitaltrack/fitness-app/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	Long: `Run the HTTP API and the realtime endpoint until SIGINT or SIGTERM.

The database driver is chosen by database.driver: "mongo" connects to
database.uri, "memory" keeps everything in process and is lost on exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, _ := cmd.Flags().GetString("config")
		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

// loadConfig reads the configuration and sets up the global logger from it.
func loadConfig(dir string) (config.Config, error) {
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(logger.Config{Level: cfg.Log.Level, JSONOutput: cfg.Log.JSON})
	for _, w := range cfg.Warnings() {
		logger.Logger.Warn().Msg(w)
	}
	return cfg, nil
}

// repositories is the persistence backend chosen by database.driver.
type repositories struct {
	users    repository.UserRepository
	goals    repository.GoalRepository
	plans    repository.PlanRepository
	workouts repository.WorkoutRepository
	ping     api.Pinger
	close    func()
}

func openRepositories(ctx context.Context, cfg config.DatabaseConfig) (*repositories, error) {
	log := logger.WithComponent("database")

	switch cfg.Driver {
	case "memory":
		log.Warn().Msg("Using the in-memory store; data is lost on exit")
		store := memory.NewStore()
		return &repositories{
			users:    store.Users(),
			goals:    store.Goals(),
			plans:    store.Plans(),
			workouts: store.Workouts(),
			close:    func() {},
		}, nil
	case "mongo", "":
		client, err := mongo.ConnectDB(ctx, cfg.URI)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		db := client.Database(cfg.Name)
		log.Info().Str("database", cfg.Name).Msg("Database connection established")

		indexCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(indexCtx, db); err != nil {
			log.Error().Err(err).Msg("Index creation failed")
		}

		return &repositories{
			users:    mongo.NewMongoUserRepository(db),
			goals:    mongo.NewMongoGoalRepository(db),
			plans:    mongo.NewMongoPlanRepository(db),
			workouts: mongo.NewMongoWorkoutRepository(db),
			ping: func(ctx context.Context) error {
				return mongo.Ping(ctx, client)
			},
			close: func() {
				log.Info().Msg("Disconnecting MongoDB")
				if err := mongo.DisconnectDB(client); err != nil {
					log.Error().Err(err).Msg("Failed to disconnect MongoDB")
				}
			},
		}, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.WithComponent("server")
	log.Info().Str("version", Version).Str("environment", cfg.Server.Environment).Msg("Starting VitalTrack API")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	repos, err := openRepositories(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer repos.close()

	var files storage.FileStorage
	if cfg.S3.Enabled() {
		files, err = storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		log.Info().Str("bucket", cfg.S3.BucketName).Msg("Avatar storage enabled")
	} else {
		log.Info().Msg("S3 bucket not configured; avatar endpoints will answer 503")
	}

	tokens := service.NewTokenService(service.TokenConfig{
		AccessSecret:  cfg.JWT.AccessSecret,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshSecret: cfg.JWT.RefreshSecret,
		RefreshTTL:    cfg.JWT.RefreshTTL,
	})
	hub := realtime.NewHub()
	authService := service.NewAuthService(repos.users, tokens)

	router := api.NewRouter(api.RouterConfig{
		ClientURL: cfg.Server.ClientURL,
		Cookies: api.SessionCookies{
			Domain:     cfg.Cookie.Domain,
			Secure:     cfg.IsProduction(),
			AccessTTL:  cfg.JWT.AccessTTL,
			RefreshTTL: cfg.JWT.RefreshTTL,
		},
		RateLimit: cfg.RateLimit,
	}, api.Services{
		Auth:     authService,
		Avatars:  service.NewAvatarService(repos.users, files),
		Goals:    service.NewGoalService(repos.goals, hub),
		Plans:    service.NewPlanService(repos.plans, hub),
		Workouts: service.NewWorkoutService(repos.workouts, repos.plans, hub),
		Realtime: realtime.NewServer(hub, authService, cfg.Server.ClientURL),
		Ping:     repos.ping,
	})

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown.
	hub.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("Server exiting")
	return nil
}
