package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"lumenstudio/api/internal/cache"
	"lumenstudio/api/internal/config"
	"lumenstudio/api/internal/database"
	"lumenstudio/api/internal/handlers"
	"lumenstudio/api/internal/jobs"
	"lumenstudio/api/internal/log"
	"lumenstudio/api/internal/repository"
	"lumenstudio/api/internal/server"
	"lumenstudio/api/internal/service"
	"lumenstudio/api/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	if err := database.Migrate(cfg.Postgres.DSN); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}
	if err := objectStore.EnsureBucket(ctx); err != nil {
		logger.Warn().Err(err).Msg("ensure asset bucket failed")
	}

	users := repository.NewUserRepository(dbPool)
	posts := repository.NewPostRepository(dbPool)
	comments := repository.NewCommentRepository(dbPool)
	contacts := repository.NewContactRepository(dbPool)

	lists := cache.NewLists(redisClient, 10*time.Minute)

	authService := service.NewAuthService(users, cfg, logger)
	blogService := service.NewBlogService(posts, comments, lists, objectStore, logger)
	contactService := service.NewContactService(contacts, logger)
	uploadService := service.NewUploadService(objectStore, logger)

	handlerSet := handlers.NewHandlerSet(
		logger, cfg,
		authService, blogService, contactService, uploadService,
		dbPool, redisClient,
	)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(posts, objectStore, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, handlerSet, scheduler, dbPool, redisClient)
}

func waitForShutdown(
	logger zerolog.Logger,
	srv *server.HTTPServer,
	handlerSet handlers.HandlerSet,
	scheduler *jobs.Scheduler,
	db *pgxpool.Pool,
	redisClient *redis.Client,
) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	scheduler.Stop()
	handlerSet.Close()

	db.Close()
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}
