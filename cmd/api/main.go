package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/StellarBearX/stanlendar-sub003/internal/config"
	"github.com/StellarBearX/stanlendar-sub003/internal/db"
	"github.com/StellarBearX/stanlendar-sub003/internal/event"
	apihttp "github.com/StellarBearX/stanlendar-sub003/internal/http"
	"github.com/StellarBearX/stanlendar-sub003/internal/repository"
	"github.com/StellarBearX/stanlendar-sub003/internal/service"
	"github.com/StellarBearX/stanlendar-sub003/internal/source"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := db.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
		logger.Fatal("db migrate", zap.Error(err))
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	jobRepo := repository.NewPgImportJobRepository(pool)
	itemRepo := repository.NewPgImportItemRepository(pool)
	scheduleRepo := repository.NewPgScheduleEventRepository(pool)

	var (
		loginLimiter service.LoginRateLimiter
		tokenStore   service.RefreshTokenStore
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			loginLimiter = service.NewRedisLoginRateLimiter(redisClient,
				time.Duration(cfg.LoginRateWindowMinutes)*time.Minute, cfg.LoginRateMax)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
	}
	if loginLimiter == nil {
		loginLimiter = service.NewLoginRateLimiter(
			time.Duration(cfg.LoginRateWindowMinutes)*time.Minute, cfg.LoginRateMax)
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	publisher := event.NewDisabledPublisher()
	if cfg.AMQPURL != "" {
		amqpPub, err := event.NewAMQPPublisher(cfg.AMQPURL)
		if err != nil {
			logger.Warn("amqp publisher init failed", zap.Error(err))
		} else {
			publisher = amqpPub
			defer amqpPub.Close()
		}
	}

	sources := &source.Router{Local: source.NewLocalSource(cfg.ImportDir)}
	if cfg.AWSRegion != "" {
		s3Source, err := source.NewS3Source(ctx, source.S3Config{
			Region:      cfg.AWSRegion,
			Endpoint:    cfg.S3Endpoint,
			AccessKeyID: cfg.S3AccessKeyID,
			SecretKey:   cfg.S3SecretKey,
		})
		if err != nil {
			logger.Warn("s3 source init failed", zap.Error(err))
		} else {
			sources.S3 = s3Source
		}
	}

	userSvc := service.NewUserService(logger, userRepo, loginLimiter)
	importSvc := service.NewImportService(logger, jobRepo)

	worker := service.NewImportWorker(logger, jobRepo, itemRepo, scheduleRepo, sources, publisher, service.ImportWorkerConfig{
		Workers:      cfg.ImportWorkers,
		ChunkSize:    cfg.ImportChunkSize,
		PollInterval: time.Duration(cfg.ImportPollIntervalMS) * time.Millisecond,
	})
	worker.Start(ctx)

	userHandler := apihttp.NewUserHandler(logger, userSvc, jwtSvc)
	importHandler := apihttp.NewImportHandler(logger, importSvc, jobRepo, itemRepo)
	scheduleHandler := apihttp.NewScheduleHandler(logger, scheduleRepo)
	router := apihttp.NewRouter(logger, jwtSvc, userHandler, importHandler, scheduleHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
