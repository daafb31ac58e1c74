package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"retail-nso/admin-portal/admin-portal-backend/internal/auth"
	"retail-nso/admin-portal/admin-portal-backend/internal/config"
	"retail-nso/admin-portal/admin-portal-backend/internal/documents"
	"retail-nso/admin-portal/admin-portal-backend/internal/export"
	"retail-nso/admin-portal/admin-portal-backend/internal/notifications"
	"retail-nso/admin-portal/admin-portal-backend/internal/outlets"
	"retail-nso/admin-portal/admin-portal-backend/internal/session"
	"retail-nso/admin-portal/admin-portal-backend/internal/upstream"
	"retail-nso/admin-portal/admin-portal-backend/internal/vendors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootstrap, _ := zap.NewProduction()
		bootstrap.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger := buildLogger(cfg.Logging.Level)
	defer logger.Sync()

	client := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.RequestTimeout, logger)
	store := session.NewCookieStore(cfg.Session)

	// Notifications
	hub := notifications.NewHub(logger)
	defer hub.Stop()
	notifySvc := notifications.NewService(hub, logger)

	// Outlets
	outletSvc := outlets.NewService(client, notifySvc, logger)

	// Document previews. The portal still serves direct file URLs when the
	// presigner cannot be built, so a missing AWS credential chain is not fatal.
	var presigner documents.Presigner
	if p, err := documents.NewS3Presigner(context.Background(), cfg.Preview.S3Region, cfg.Preview.URLExpiry); err != nil {
		logger.Warn("S3 presigner unavailable, document previews limited to direct URLs", zap.Error(err))
	} else {
		presigner = p
	}
	previewSvc := documents.NewService(presigner, cfg.Preview, logger)

	// Auth + vendors
	authSvc := auth.NewService(client, logger)
	vendorSvc := vendors.NewService(client, logger)

	// Overdue scan
	scanner := notifications.NewOverdueScanner(notifySvc, outletSvc, cfg.Upstream.ServiceToken, logger)
	scanner.Start()
	defer scanner.Stop()

	// Setup Router
	router := gin.Default()

	// CORS Middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Register Routes
	public := router.Group("")
	{
		auth.NewHandler(authSvc, store, logger).RegisterRoutes(public)
	}

	protected := router.Group("", session.RequireAuth(store))
	{
		outlets.NewHandler(outletSvc, previewSvc, logger).RegisterRoutes(protected)
		documents.NewHandler(outletSvc, logger).RegisterRoutes(protected)
		export.NewHandler(outletSvc, logger).RegisterRoutes(protected)
		vendors.NewHandler(vendorSvc, logger).RegisterRoutes(protected)
		notifications.NewHandler(hub, notifySvc, logger).RegisterRoutes(protected)
	}

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	// Start Server
	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen: %s\n", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.Int("port", cfg.Server.Port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", zap.Error(err))
	}

	logger.Info("Server exiting")
}

func buildLogger(level string) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(level); err == nil && level != "" {
		zcfg.Level = lvl
	}
	logger, err := zcfg.Build()
	if err != nil {
		logger, _ = zap.NewDevelopment()
	}
	return logger
}
