package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/worktalk/worktalk-backend/internal/config"
	"github.com/worktalk/worktalk-backend/internal/handler"
	"github.com/worktalk/worktalk-backend/internal/middleware"
	"github.com/worktalk/worktalk-backend/internal/migration"
	"github.com/worktalk/worktalk-backend/internal/repository"
	"github.com/worktalk/worktalk-backend/internal/service"
	"github.com/worktalk/worktalk-backend/internal/ws"
	pkgcache "github.com/worktalk/worktalk-backend/pkg/cache"
	"github.com/worktalk/worktalk-backend/pkg/jwt"
	pkglogger "github.com/worktalk/worktalk-backend/pkg/logger"
	pkgredis "github.com/worktalk/worktalk-backend/pkg/redis"
)

// @title           Worktalk Backend API
// @version         1.0
// @description     Organizational messaging platform backend
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	zlog := pkglogger.GetLogger()
	zlog.Info().Str("env", env).Strs("dotenv", dotenvFiles).Msg("starting")

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// MySQL
	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	zlog.Info().Msg("connected to MySQL")

	// Redis (optional: single-instance deployments run without it)
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		zlog.Warn().Err(err).Msg("failed to connect to Redis, continuing without it")
		redisClient = nil
	} else {
		zlog.Info().Msg("connected to Redis")
	}
	cacheService := pkgcache.NewService(redisClient)

	// WebSocket hub (connection registry)
	wsHub := ws.NewHub(redisClient)
	go wsHub.Run()

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)

	// Services
	authz := service.NewAuthzService(userRepo, groupRepo, channelRepo, cfg.Chat.EditWindow)
	policy := service.NewWordListPolicy(cfg.Chat.ForbiddenWords)
	dispatch := service.NewDispatchService(
		messageRepo, attachmentRepo, groupRepo, channelRepo,
		authz, policy, wsHub, cfg.Chat.RejectForbidden,
	)
	reactions := service.NewReactionService(reactionRepo, messageRepo, groupRepo, channelRepo, authz, wsHub)
	reads := service.NewReadService(receiptRepo, messageRepo, authz, wsHub)
	groups := service.NewGroupService(groupRepo, userRepo, cfg.Chat.GroupMaxMembers)
	channels := service.NewChannelService(channelRepo, userRepo)
	conversations := service.NewConversationService(messageRepo, receiptRepo, groupRepo, channelRepo, authz)
	attachments := service.NewAttachmentService(attachmentRepo)
	auth := service.NewAuthService(userRepo, cacheService, service.LogSMSSender{}, jwtManager, cfg.Chat.LoginCodeTTL)

	// Handlers
	authHandler := handler.NewAuthHandler(auth)
	messageHandler := handler.NewMessageHandler(dispatch, reactions, reads)
	conversationHandler := handler.NewConversationHandler(conversations)
	groupHandler := handler.NewGroupHandler(groups)
	channelHandler := handler.NewChannelHandler(channels)
	attachmentHandler := handler.NewAttachmentHandler(attachments)
	wsHandler := handler.NewWSHandler(wsHub, cfg.Server.AllowedOrigins)

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     splitAndTrim(cfg.Server.AllowedOrigins, ","),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID"},
		MaxAge:           86400,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	// Ops surface
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public auth routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/code", authHandler.RequestCode)
		v1.POST("/auth/login", authHandler.Login)
		v1.POST("/auth/refresh", authHandler.Refresh)
	}

	// Authenticated routes
	authed := v1.Group("")
	authed.Use(middleware.JWTAuth(jwtManager))
	{
		authed.POST("/messages", messageHandler.Send)
		authed.PATCH("/messages/:id", messageHandler.Edit)
		authed.DELETE("/messages/:id", messageHandler.Delete)
		authed.POST("/messages/:id/reactions", messageHandler.AddReaction)
		authed.DELETE("/messages/:id/reactions", messageHandler.RemoveReaction)

		authed.POST("/conversations/read", messageHandler.MarkRead)
		authed.GET("/conversations/unread", conversationHandler.Unread)
		authed.GET("/conversations/private/:userID/messages", conversationHandler.PrivateHistory)
		authed.GET("/conversations/groups/:id/messages", conversationHandler.GroupHistory)
		authed.GET("/conversations/channels/:id/messages", conversationHandler.ChannelHistory)

		authed.POST("/groups", groupHandler.Create)
		authed.DELETE("/groups/:id", groupHandler.Delete)
		authed.POST("/groups/:id/members", groupHandler.AddMember)
		authed.DELETE("/groups/:id/members/:userID", groupHandler.RemoveMember)
		authed.POST("/groups/:id/admins", groupHandler.Promote)

		authed.POST("/channels", channelHandler.Create)
		authed.DELETE("/channels/:id", channelHandler.Delete)
		authed.POST("/channels/:id/subscribers", channelHandler.Subscribe)
		authed.DELETE("/channels/:id/subscribers", channelHandler.Unsubscribe)
		authed.PUT("/channels/:id/roles", channelHandler.GrantRole)
		authed.PUT("/channels/:id/posting", channelHandler.SetPosting)

		authed.POST("/attachments", attachmentHandler.Register)
		authed.GET("/attachments/:id", attachmentHandler.Get)
	}

	// WebSocket upgrade
	router.GET("/ws", middleware.JWTAuth(jwtManager), wsHandler.Connect)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	zlog.Info().Str("addr", addr).Msg("listening")
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// splitAndTrim splits a comma-separated list, dropping empty items
func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
