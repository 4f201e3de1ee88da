package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"cmenu/internal/config"
	"cmenu/internal/database"
	"cmenu/internal/handler"
	"cmenu/internal/menu"
	"cmenu/internal/middleware"
	"cmenu/pkg/cmenu"
	"cmenu/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, loaded, err := config.Load("configs/.env")
	if err != nil {
		log.Fatalf("Configuration failed: %v", err)
	}

	l, err := logger.New(cfg.LogLevel, cfg.LogProduction)
	if err != nil {
		log.Fatalf("Logger initialization failed: %v", err)
	}
	defer func() { _ = l.Sync() }()
	if !loaded {
		l.Info("no configs/.env file found, using the process environment")
	}

	gin.SetMode(cfg.GinMode)
	secret := cfg.JWTSecret
	if secret == "" {
		if gin.Mode() == gin.ReleaseMode {
			l.Fatal("JWT_SECRET is required in release mode")
		}
		secret = "development-only-secret"
	}

	tier, err := menu.ParseTier(cfg.Menu.SeedTier)
	if err != nil {
		l.Fatal("invalid seed tier", zap.Error(err))
	}
	dialector, err := database.Dialector(cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		l.Fatal("invalid database configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := []cmenu.Option{
		cmenu.WithLogger(l),
		cmenu.WithTableNames(cfg.Menu.Tables),
		cmenu.WithSeedTier(tier),
		cmenu.WithSeedGroup(cfg.Menu.SeedGroup, cfg.Menu.SeedInfo),
		cmenu.WithTokenSecret([]byte(secret)),
		cmenu.WithMaxOpenConns(cfg.Database.MaxOpenConns),
	}
	if cfg.Admin.Enabled() {
		opts = append(opts, cmenu.WithAdmin(cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password))
	}
	engine, err := cmenu.Initialize(ctx, dialector, opts...)
	if err != nil {
		l.Fatal("menu initialization failed", zap.Error(err))
	}
	defer func() { _ = engine.Close() }()
	l.Info("database ready",
		zap.String("driver", cfg.Database.Driver),
		zap.Bool("seeded", engine.Seeded),
		zap.Bool("admin_created", engine.AdminCreated))
	if !cfg.Admin.Enabled() {
		l.Warn("CMENU_ADMIN_USER and CMENU_ADMIN_PASSWORD are unset; no first account is created")
	}

	auth := middleware.NewAuthenticator([]byte(secret), engine.UserAccounts)
	menuHandler := handler.NewMenuHandler(engine.Bootstrap, engine.Groups, engine.Navigator, auth)
	parameterHandler := handler.NewParameterHandler(engine.ParameterStore, auth)
	greetingHandler := handler.NewGreetingHandler(engine.Greeter, auth)
	userHandler := handler.NewUserHandler(engine.UserAccounts, auth)

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(l))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	api := router.Group("/api")
	menuHandler.RegisterRoutes(api)
	parameterHandler.RegisterRoutes(api)
	greetingHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api)

	l.Info("server listening", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		l.Fatal("server failed", zap.Error(err))
	}
}

// requestLogger logs one line per request through zap.
func requestLogger(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		l.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
		)
	}
}
