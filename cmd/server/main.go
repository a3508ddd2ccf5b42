package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"shopfront/internal/auth"
	"shopfront/internal/config"
	apphttp "shopfront/internal/http"
	"shopfront/internal/metrics"
	"shopfront/internal/repository"
	"shopfront/internal/repository/mongodb"
	"shopfront/internal/repository/sqlite"
	"shopfront/internal/service"
	"shopfront/internal/storage"
)

type repositories struct {
	users    repository.UserRepository
	products repository.ProductRepository
	close    func()
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	configureLogger(logger, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup database: %v", err)
	}
	defer repos.close()

	if err := repos.users.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := repos.products.Init(ctx); err != nil {
		logger.Fatalf("init product repository: %v", err)
	}

	storageSvc, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}

	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)
	if err != nil {
		logger.Fatalf("setup tokens: %v", err)
	}
	if cfg.Auth.JWTSecret == "secret_ecom" {
		logger.Warn("using the default token secret; set SHOP_AUTH_JWTSECRET")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(apphttp.Config{
		Auth:     service.NewAuthService(repos.users, tokens),
		Carts:    service.NewCartService(repos.users),
		Catalog:  service.NewCatalogService(repos.products),
		Media:    service.NewMediaService(storageSvc, cfg.Server.BaseURL),
		Store:    storageSvc,
		Verifier: tokens,
		Metrics:  metrics.New(),
		Logger:   logger,
	})
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func configureLogger(logger *logrus.Logger, cfg config.Config) {
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logrus.Logger) (repositories, error) {
	switch cfg.Database.Driver {
	case config.DriverMongoDB:
		client, err := mongodb.Connect(ctx, cfg.Database.URI)
		if err != nil {
			return repositories{}, err
		}
		db := client.Database(cfg.Database.Name)
		logger.Infof("using mongodb database %s", cfg.Database.Name)
		return repositories{
			users:    mongodb.NewUserRepository(db),
			products: mongodb.NewProductRepository(db),
			close: func() {
				disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := client.Disconnect(disconnectCtx); err != nil {
					logger.Warnf("disconnect mongodb: %v", err)
				}
			},
		}, nil
	default:
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return repositories{}, err
		}
		logger.Infof("using sqlite database %s", cfg.Database.Path)
		return repositories{
			users:    sqlite.NewUserRepository(db),
			products: sqlite.NewProductRepository(db),
			close:    func() { db.Close() },
		}, nil
	}
}

func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	if cfg.Storage.Backend != config.BackendS3 {
		local, err := storage.NewLocalService(cfg.Storage.Dir)
		if err != nil {
			return nil, err
		}
		logger.Infof("storing media in %s", cfg.Storage.Dir)
		return local, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	remote, err := storage.NewS3Service(client, cfg.Storage.Bucket, cfg.Storage.KeyPrefix)
	if err != nil {
		return nil, err
	}
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return remote, nil
}
