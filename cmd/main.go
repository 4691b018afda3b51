package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yungbote/skillmatch-backend/internal/clients/openai"
	"github.com/yungbote/skillmatch-backend/internal/clients/redis"
	"github.com/yungbote/skillmatch-backend/internal/data/db"
	entryrepo "github.com/yungbote/skillmatch-backend/internal/data/repos/entry"
	matchrepo "github.com/yungbote/skillmatch-backend/internal/data/repos/match"
	notificationrepo "github.com/yungbote/skillmatch-backend/internal/data/repos/notification"
	pushrepo "github.com/yungbote/skillmatch-backend/internal/data/repos/push"
	userrepo "github.com/yungbote/skillmatch-backend/internal/data/repos/user"
	"github.com/yungbote/skillmatch-backend/internal/http/handlers"
	"github.com/yungbote/skillmatch-backend/internal/http/middleware"
	"github.com/yungbote/skillmatch-backend/internal/jobs/sweeper"
	"github.com/yungbote/skillmatch-backend/internal/jobs/worker"
	"github.com/yungbote/skillmatch-backend/internal/observability"
	"github.com/yungbote/skillmatch-backend/internal/pkg/logger"
	"github.com/yungbote/skillmatch-backend/internal/platform/envutil"
	"github.com/yungbote/skillmatch-backend/internal/platform/sendgrid"
	"github.com/yungbote/skillmatch-backend/internal/platform/webpush"
	"github.com/yungbote/skillmatch-backend/internal/server"
	"github.com/yungbote/skillmatch-backend/internal/services"
)

func main() {
	// Logger
	logMode := envutil.Str("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	jwtSecretKey := envutil.Str("JWT_SECRET_KEY", "defaultsecret")
	accessTTL := envutil.Seconds("ACCESS_TOKEN_TTL", time.Hour)
	refreshTTL := envutil.Seconds("REFRESH_TOKEN_TTL", 30*24*time.Hour)
	cronSecret := envutil.Str("CRON_SECRET", "")

	// Tracing
	ctx := context.Background()
	if shutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "skillmatch-backend",
		Environment: envutil.Str("APP_ENV", "development"),
		Version:     envutil.Str("APP_VERSION", "dev"),
	}); shutdown != nil {
		defer func() {
			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(shCtx)
		}()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := db.AutoMigrateAll(postgresService.DB()); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	userRepo := userrepo.NewUserRepo(thePG, log)
	userTokenRepo := userrepo.NewUserTokenRepo(thePG, log)
	entryRepo := entryrepo.NewEntryRepo(thePG, log)
	matchRepo := matchrepo.NewMatchRepo(thePG, log)
	notificationRepo := notificationrepo.NewNotificationRepo(thePG, log)
	pushRepo := pushrepo.NewPushSubscriptionRepo(thePG, log)

	// Clients
	log.Info("Setting up clients...")
	openaiClient, err := openai.NewClient(log)
	if err != nil {
		log.Error("Could not init OpenAI client", "error", err)
		os.Exit(1)
	}
	enrichQueue, err := redis.NewEnrichQueue(log)
	if err != nil {
		log.Error("Could not init enrich queue", "error", err)
		os.Exit(1)
	}
	defer enrichQueue.Close()

	emailClient, err := sendgrid.NewFromEnv(log)
	if err != nil {
		log.Warn("Email disabled", "error", err)
		emailClient = nil
	}
	pushClient, err := webpush.NewFromEnv(log)
	if err != nil {
		log.Warn("Web push disabled", "error", err)
		pushClient = nil
	}

	// Services
	log.Info("Setting up services...")
	classifier := services.NewClassifier(log, openaiClient)
	embedder := services.NewEmbedder(log, openaiClient)
	extractor := services.NewSkillExtractor(log, openaiClient)

	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, accessTTL, refreshTTL)
	userService := services.NewUserService(thePG, log, userRepo)
	entryService := services.NewEntryService(thePG, log, entryRepo, extractor, enrichQueue)
	enrichmentService := services.NewEnrichmentService(thePG, log, entryRepo, classifier, embedder)
	dispatcher := services.NewNotificationDispatcher(thePG, log, matchRepo, notificationRepo, pushRepo, userRepo, emailClient, pushClient)
	matchingService := services.NewMatchingService(thePG, log, entryRepo, matchRepo, dispatcher)
	matchService := services.NewMatchService(thePG, log, matchRepo)
	notificationService := services.NewNotificationService(thePG, log, notificationRepo)
	pushService := services.NewPushService(thePG, log, pushRepo)

	// Jobs
	log.Info("Setting up jobs...")
	enrichWorker := worker.NewEnrichWorker(log, enrichQueue, enrichmentService)
	enrichWorker.Start()
	defer enrichWorker.Stop()

	sweep := sweeper.New(log, matchingService)
	if err := sweep.Start(); err != nil {
		log.Error("Sweeper start failed", "error", err)
		os.Exit(1)
	}
	defer sweep.Stop()

	// Handlers and middleware
	log.Info("Setting up handlers...")
	router := server.NewRouter(server.RouterConfig{
		Log:                 log,
		AuthHandler:         handlers.NewAuthHandler(authService),
		UserHandler:         handlers.NewUserHandler(userService),
		EntryHandler:        handlers.NewEntryHandler(entryService),
		MatchHandler:        handlers.NewMatchHandler(matchService),
		NotificationHandler: handlers.NewNotificationHandler(notificationService),
		PushHandler:         handlers.NewPushHandler(pushService),
		SkillsHandler:       handlers.NewSkillsHandler(extractor),
		CronHandler:         handlers.NewCronHandler(sweep),
		AuthMiddleware:      middleware.NewAuthMiddleware(log, authService),
		CronMiddleware:      middleware.NewCronMiddleware(log, cronSecret),
	})

	// Serve until a signal lands.
	port := envutil.Str("PORT", "8080")
	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", "port", port)
		errCh <- router.Run(":" + port)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		log.Error("Server exited", "error", err)
		os.Exit(1)
	case sig := <-sigCh:
		log.Info("Shutting down", "signal", sig.String())
	}
}
