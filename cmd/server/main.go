package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ju4n3s0/GymIcesi-System/config"
	"github.com/ju4n3s0/GymIcesi-System/internal/api/handler"
	"github.com/ju4n3s0/GymIcesi-System/internal/api/router"
	"github.com/ju4n3s0/GymIcesi-System/internal/repository"
	"github.com/ju4n3s0/GymIcesi-System/internal/service"
	"github.com/ju4n3s0/GymIcesi-System/pkg/database"
	"github.com/ju4n3s0/GymIcesi-System/pkg/jwt"
	applogger "github.com/ju4n3s0/GymIcesi-System/pkg/logger"
	"github.com/ju4n3s0/GymIcesi-System/pkg/mongodb"
	"github.com/ju4n3s0/GymIcesi-System/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("GYM_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接机构库（PostgreSQL）
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接文档库（MongoDB）并确保索引
	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)
	mongoClient, err := mongodb.NewClient(startCtx, &cfg.Mongo, logger)
	if err != nil {
		startCancel()
		logger.Fatal("MongoDB 连接失败", zap.Error(err))
	}

	repo := repository.NewRepository(db, mongoClient.Database())
	if err := repo.EnsureIndexes(startCtx); err != nil {
		startCancel()
		logger.Fatal("创建 MongoDB 索引失败", zap.Error(err))
	}
	startCancel()

	// 5. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 黑名单与登录限流将不可用", zap.Error(err))
		rdb = nil
	}

	// 6. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 7. 依赖注入: Repository → Service → Handler
	svc := service.NewService(cfg, repo, jwtMgr, rdb, logger)
	h := handler.NewHandler(cfg, svc,
		handler.HealthCheck{Name: "postgres", Ping: sqlDB.PingContext},
		handler.HealthCheck{Name: "mongo", Ping: mongoClient.Ping},
	)

	// 8. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second, // 报表导出
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if err := mongoClient.Close(ctx); err != nil {
		logger.Error("关闭 MongoDB 连接失败", zap.Error(err))
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("关闭数据库连接失败", zap.Error(err))
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
