package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bitfantasy/nimo-warranty/internal/config"
	"github.com/bitfantasy/nimo-warranty/internal/middleware"
	"github.com/bitfantasy/nimo-warranty/internal/warranty/entity"
	"github.com/bitfantasy/nimo-warranty/internal/warranty/handler"
	"github.com/bitfantasy/nimo-warranty/internal/warranty/repository"
	"github.com/bitfantasy/nimo-warranty/internal/warranty/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting nimo-warranty service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化数据库
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := entity.AutoMigrate(db); err != nil {
		zapLogger.Fatal("Failed to auto-migrate warranty tables", zap.Error(err))
	}
	zapLogger.Info("Warranty database migration completed")

	// 初始化Redis（报表缓存，可缺省）
	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			zapLogger.Warn("Redis unavailable, report caching disabled", zap.Error(err))
			rdb = nil
		}
	}

	// 初始化依赖
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, rdb, cfg)
	handlers := handler.NewHandlers(services)

	// 确定端口
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		if cfg.Server.Port != 0 {
			port = fmt.Sprintf("%d", cfg.Server.Port)
		} else {
			port = "8080"
		}
	}

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())

	// 健康检查
	router.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "nimo-warranty"})
	})
	router.GET("/health/ready", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.Ping() != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "service": "nimo-warranty"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "nimo-warranty"})
	})

	// 版本信息
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":    "nimo-warranty",
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// Warranty API v1
	v1 := router.Group("/api/v1")
	v1.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		// 客户管理
		customers := v1.Group("/customers")
		{
			customers.GET("", handlers.Customer.List)
			customers.POST("", handlers.Customer.Register)
			customers.GET("/:id", handlers.Customer.Get)
			customers.PUT("/:id", handlers.Customer.Update)
			customers.GET("/:id/warranties", handlers.Customer.ListWarranties)
			customers.GET("/:id/claims", handlers.Customer.ListClaims)
		}

		// 产品目录
		products := v1.Group("/products")
		{
			products.GET("", handlers.Product.List)
			products.POST("", handlers.Product.Create)
			products.GET("/categories/list", handlers.Product.ListCategories)
			products.GET("/:id", handlers.Product.Get)
			products.PUT("/:id", handlers.Product.Update)
		}

		// 保修合同
		warranties := v1.Group("/warranties")
		{
			warranties.GET("", handlers.Warranty.List)
			warranties.POST("", handlers.Warranty.Register)
			warranties.GET("/:id", handlers.Warranty.Get)
			warranties.PUT("/:id", handlers.Warranty.Update)
			warranties.GET("/:id/verify", handlers.Warranty.Verify)
			warranties.PUT("/:id/cancel", handlers.Warranty.Cancel)
		}

		// 理赔
		claims := v1.Group("/claims")
		{
			claims.GET("", handlers.Claim.List)
			claims.POST("", handlers.Claim.File)
			claims.GET("/:id", handlers.Claim.Get)
			claims.PUT("/:id/approve", middleware.RequireRole("claims_manager"), handlers.Claim.Approve)
			claims.PUT("/:id/deny", middleware.RequireRole("claims_manager"), handlers.Claim.Deny)
			claims.PUT("/:id/close", handlers.Claim.Close)
			claims.PUT("/:id/status", handlers.Claim.UpdateStatus)
			claims.GET("/:id/attachments", handlers.Claim.ListAttachments)
			claims.POST("/:id/attachments", handlers.Claim.UploadAttachment)
			claims.GET("/:id/attachments/:attachment_id", handlers.Claim.DownloadAttachment)
		}

		// 服务网点
		serviceCenters := v1.Group("/service-centers")
		{
			serviceCenters.GET("", handlers.ServiceCenter.List)
			serviceCenters.POST("", handlers.ServiceCenter.Create)
			serviceCenters.GET("/dispatch/recommend", handlers.ServiceCenter.Recommend)
			serviceCenters.GET("/:id", handlers.ServiceCenter.Get)
			serviceCenters.PUT("/:id", handlers.ServiceCenter.Update)
			serviceCenters.GET("/:id/technicians", handlers.ServiceCenter.ListTechnicians)
		}

		// 技师
		technicians := v1.Group("/technicians")
		{
			technicians.GET("", handlers.Technician.List)
			technicians.POST("", handlers.Technician.Create)
			technicians.GET("/:id", handlers.Technician.Get)
			technicians.PUT("/:id", handlers.Technician.Update)
			technicians.PUT("/:id/availability", handlers.Technician.SetAvailability)
		}

		// 维修工单
		repairOrders := v1.Group("/repair-orders")
		{
			repairOrders.GET("", handlers.RepairOrder.List)
			repairOrders.POST("", handlers.RepairOrder.Create)
			repairOrders.GET("/:id", handlers.RepairOrder.Get)
			repairOrders.PUT("/:id", handlers.RepairOrder.Update)
			repairOrders.PUT("/:id/complete", handlers.RepairOrder.Complete)
			repairOrders.PUT("/:id/cancel", handlers.RepairOrder.Cancel)
		}

		// 经营报表
		reports := v1.Group("/reports")
		{
			reports.GET("/dashboard", handlers.Report.Dashboard)
			reports.GET("/claims-summary", handlers.Report.ClaimsSummary)
			reports.GET("/warranty-expiration", handlers.Report.WarrantyExpiration)
			reports.GET("/service-center-performance", handlers.Report.ServiceCenterPerformance)
			reports.GET("/replacement-candidates", handlers.Report.ReplacementCandidates)
		}
	}

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	go func() {
		zapLogger.Info("Warranty server starting", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down warranty server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Warranty server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}
	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}
	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	return db, nil
}
