package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/skillmatch-backend/internal/http/handlers"
	"github.com/yungbote/skillmatch-backend/internal/http/middleware"
	"github.com/yungbote/skillmatch-backend/internal/pkg/logger"
	"github.com/yungbote/skillmatch-backend/internal/platform/envutil"
)

type RouterConfig struct {
	Log                 *logger.Logger
	AuthHandler         *handlers.AuthHandler
	UserHandler         *handlers.UserHandler
	EntryHandler        *handlers.EntryHandler
	MatchHandler        *handlers.MatchHandler
	NotificationHandler *handlers.NotificationHandler
	PushHandler         *handlers.PushHandler
	SkillsHandler       *handlers.SkillsHandler
	CronHandler         *handlers.CronHandler
	AuthMiddleware      *middleware.AuthMiddleware
	CronMiddleware      *middleware.CronMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("skillmatch-backend"))
	router.Use(middleware.AttachTraceContext())
	router.Use(middleware.RequestLog(cfg.Log))

	origins := strings.Split(envutil.Str("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173"), ",")
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	router.POST("/refresh", cfg.AuthHandler.Refresh)

	// Protected
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		protected.POST("/logout", cfg.AuthHandler.Logout)
		protected.GET("/user", cfg.UserHandler.GetMe)

		protected.POST("/entries", cfg.EntryHandler.Create)
		protected.GET("/entries", cfg.EntryHandler.ListMine)
		protected.GET("/entries/:id", cfg.EntryHandler.Get)
		protected.PATCH("/entries/:id/status", cfg.EntryHandler.UpdateStatus)
		protected.POST("/entries/:id/skills", cfg.EntryHandler.TagSkills)
		protected.POST("/entries/:id/enrich", cfg.EntryHandler.RequestEnrichment)

		protected.GET("/matches", cfg.MatchHandler.ListMine)
		protected.GET("/matches/:id", cfg.MatchHandler.Get)

		protected.GET("/notifications", cfg.NotificationHandler.ListMine)
		protected.POST("/notifications/read", cfg.NotificationHandler.MarkRead)

		protected.POST("/push/subscribe", cfg.PushHandler.Subscribe)

		protected.POST("/skills/classify", cfg.SkillsHandler.Classify)
	}

	// Cron (external scheduler)
	cronGroup := router.Group("/internal/cron")
	cronGroup.Use(cfg.CronMiddleware.RequireSecret())
	{
		cronGroup.POST("/run-matching", cfg.CronHandler.RunSweep)
	}

	return router
}
