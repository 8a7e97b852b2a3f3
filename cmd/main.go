package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"techblog/internal/handlers"
	"techblog/internal/logger"
	"techblog/internal/repository"
	"techblog/internal/repository/db"
	"techblog/internal/server"
	"techblog/internal/service"
	"techblog/internal/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func main() {
	// init logger
	log := logger.Get(logger.InfoLevel)

	// .env (if present) feeds the environment before viper reads it
	_ = godotenv.Load()

	// load config.yml + env overrides
	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	// context for startup waits and background work
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// open DB and block until it accepts connections
	database, err := openDB(ctx, log)
	if err != nil {
		log.Fatalw("failed to init postgres", "err", err)
	}
	defer func() {
		if cerr := database.Close(); cerr != nil {
			log.Errorw("failed to close postgres", "err", cerr)
		}
	}()

	// object store for cover images
	store, err := openObjectStore(ctx)
	if err != nil {
		log.Fatalw("failed to init object store", "err", err)
	}

	// wire dependencies
	repos := repository.NewRepository(database)
	services := service.NewService(repos, store, service.AuthConfig{
		SigningKey: viper.GetString("auth.signing_key"),
		TokenTTL:   viper.GetDuration("auth.token_ttl"),
	})
	apiHandler := handlers.NewHandler(services, log, handlers.Config{
		AllowedOrigins: viper.GetStringSlice("cors.allowed_origins"),
		SecureCookie:   viper.GetString("env") == "production",
	})

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	viper.SetEnvPrefix("BLOG") // e.g. BLOG_AUTH_SIGNING_KEY, BLOG_DB_DSN
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	return viper.ReadInConfig()
}

// openDB opens the Postgres pool, waits until the database is
// reachable (fixed-delay retry) and applies pending migrations.
func openDB(ctx context.Context, log *logger.Logger) (*sql.DB, error) {
	database, err := db.Open(viper.GetString("db.dsn"))
	if err != nil {
		return nil, err
	}

	if err := db.WaitReady(ctx, database, func(err error) {
		log.Infow("database connection failed, retrying", "err", err)
	}); err != nil {
		_ = database.Close()
		return nil, err
	}
	log.Infow("connected to the database")

	if err := db.Migrate(ctx, database); err != nil {
		_ = database.Close()
		return nil, err
	}
	return database, nil
}

func openObjectStore(ctx context.Context) (storage.ObjectStore, error) {
	return storage.NewS3Store(ctx, storage.S3Config{
		Region:        viper.GetString("s3.region"),
		Bucket:        viper.GetString("s3.bucket"),
		Endpoint:      viper.GetString("s3.endpoint"),
		AccessKey:     viper.GetString("s3.access_key"),
		SecretKey:     viper.GetString("s3.secret_key"),
		PublicBaseURL: viper.GetString("s3.public_base_url"),
	})
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background work
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
