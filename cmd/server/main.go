package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fes-crm/clientgate/internal/backend"
	"github.com/fes-crm/clientgate/internal/config"
	"github.com/fes-crm/clientgate/internal/gateway"
	"github.com/fes-crm/clientgate/internal/handler"
	"github.com/fes-crm/clientgate/internal/kv"
	"github.com/fes-crm/clientgate/internal/localstore"
	"github.com/fes-crm/clientgate/internal/middleware"
	"github.com/fes-crm/clientgate/internal/notify"
	"github.com/fes-crm/clientgate/internal/pkg/logger"
	"github.com/fes-crm/clientgate/internal/repository"
	"github.com/fes-crm/clientgate/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Log.Level)

	// 2. Local persistence (Redis > File > Memory)
	var store kv.Store
	if cfg.Redis.Addr != "" {
		redisStore, err := kv.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err == nil {
			logger.Info("✅ Connected to Redis")
			store = redisStore
		} else {
			logger.Error("⚠️ Failed to connect to Redis, falling back to file store", "error", err)
		}
	}
	if store == nil {
		fileStore, err := kv.NewFileStore(cfg.Local.DataDir)
		if err == nil {
			store = fileStore
		} else {
			logger.Error("⚠️ Failed to open file store, local state will not survive restarts", "error", err)
			store = kv.NewMemStore()
		}
	}

	overrides := localstore.NewOverrideStore(store)
	activityLogs := localstore.NewActivityLogStore(store)
	localClients := localstore.NewClientStore(store)

	// Audit persistence (Postgres > Local File)
	var auditRepo service.AuditRepo
	if cfg.Database.DSN != "" {
		db, err := repository.NewDB(cfg)
		if err == nil {
			logger.Info("✅ Connected to PostgreSQL")
			pgRepo := repository.NewPostgresAuditRepo(db)
			auditRepo = pgRepo
			go func() {
				ticker := time.NewTicker(24 * time.Hour)
				defer ticker.Stop()
				retention := time.Duration(cfg.Database.AuditRetentionDays) * 24 * time.Hour
				for range ticker.C {
					if err := pgRepo.Cleanup(context.Background(), retention); err != nil {
						logger.Warn("audit cleanup failed", "error", err)
					}
				}
			}()
		} else {
			logger.Error("⚠️ Failed to connect to DB, audit logs will be file-only", "error", err)
		}
	}

	auditSvc, err := service.NewAuditService("./logs", auditRepo)
	if err != nil {
		log.Fatalf("Failed to initialize audit service: %v", err)
	}

	// 3. Backend session
	backendClient := backend.NewHTTPClient(backend.Options{
		BaseURL: cfg.Backend.BaseURL,
		APIKey:  cfg.Backend.APIKey,
		Timeout: time.Duration(cfg.Backend.TimeoutSeconds) * time.Second,
	})
	connectCtx, cancelConnect := context.WithCancel(context.Background())
	defer cancelConnect()
	backendClient.ConnectWithRetry(connectCtx, 5*time.Second)

	// 4. Core services
	hub := notify.NewHub()
	gw := gateway.New(backendClient, hub)

	clientSvc := service.NewClientService(gw, overrides, activityLogs, localClients)
	pipelineSvc := service.NewPipelineService(gw)
	adminSvc := service.NewAdminService(gw)
	profileSvc := service.NewProfileService(gw)

	idempotencyStore := middleware.NewInMemIdempotencyStore()

	// 5. Handlers
	clientHandler := handler.NewClientHandler(clientSvc)
	pipelineHandler := handler.NewPipelineHandler(pipelineSvc)
	adminHandler := handler.NewAdminHandler(adminSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	auditHandler := handler.NewAuditHandler(auditSvc)

	// 6. Router
	r := gin.Default()

	r.Use(middleware.ErrorHandler())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.PrincipalMiddleware())
	r.Use(middleware.AuditMiddleware(auditSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "clientgate", "backend_ready": gw.Ready()})
	})

	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	r.GET("/v1/events", func(c *gin.Context) {
		hub.ServeWS(c.Writer, c.Request)
	})

	v1 := r.Group("/v1")
	v1.Use(middleware.RateLimitMiddleware(cfg.Rate.QPS, cfg.Rate.Burst))
	v1.Use(middleware.AuthGateMiddleware(gw))
	v1.Use(middleware.IdempotencyMiddleware(idempotencyStore))
	{
		v1.GET("/clients", clientHandler.List)
		v1.POST("/clients", clientHandler.Create)
		v1.GET("/clients/:id", clientHandler.Get)
		v1.PUT("/clients/:id", clientHandler.Update)
		v1.PATCH("/clients/:id/overview", clientHandler.PatchOverview)
		v1.DELETE("/clients/:id", clientHandler.Delete)
		v1.GET("/clients/:id/activity", clientHandler.Activity)
		v1.POST("/clients/:id/activity", clientHandler.AppendActivity)
		v1.GET("/clients/:id/detail", clientHandler.Detail)
		v1.GET("/clients/:id/export", clientHandler.Export)

		v1.GET("/dashboard", clientHandler.Dashboard)

		v1.GET("/pipeline", pipelineHandler.Board)
		v1.POST("/pipeline/move", pipelineHandler.Move)

		v1.GET("/admins", adminHandler.List)
		v1.GET("/admins/me", adminHandler.Me)
		v1.POST("/admins", adminHandler.Add)
		v1.DELETE("/admins/:principal", adminHandler.Remove)

		v1.GET("/profile", profileHandler.Get)
		v1.PUT("/profile", profileHandler.Save)

		v1.GET("/audit", auditHandler.List)
	}

	// 7. Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("🚀 ClientGate started", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server listen failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cancelConnect()
	hub.Close()
	auditSvc.Close()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
