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

	"school-organizer/config"
	"school-organizer/internal/api/handler"
	"school-organizer/internal/api/router"
	"school-organizer/internal/render"
	"school-organizer/internal/repository"
	"school-organizer/internal/service"
	"school-organizer/pkg/database"
	"school-organizer/pkg/jwt"
	applogger "school-organizer/pkg/logger"
	"school-organizer/pkg/observability"
	"school-organizer/pkg/redis"
)

// version 构建时通过 -ldflags "-X main.version=..." 注入
var version = "dev"

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("ORGANIZER_CONFIG"))
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
		zap.String("timezone", cfg.App.Timezone),
		zap.String("version", version),
	)

	// 2.1 Sentry（未配置 DSN 时跳过）
	flushSentry, err := observability.InitSentry(cfg.Observability.SentryDSN, cfg.Observability.Environment, version)
	if err != nil {
		logger.Warn("Sentry 初始化失败，错误上报不可用", zap.Error(err))
	} else {
		defer flushSentry()
	}

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	if err := database.Ping(context.Background(), db); err != nil {
		logger.Fatal("数据库不可用", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 黑名单与导出限流将不可用", zap.Error(err))
		rdb = nil
	}

	// 5. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. 导出渲染器
	if cfg.Export.FontPath == "" {
		logger.Info("导出使用内置字体", zap.String("coverage", "latin,cyrillic,greek"))
	} else {
		logger.Info("导出使用自定义字体", zap.String("font_path", cfg.Export.FontPath))
	}
	jpegRenderer, err := render.NewJPEGRenderer(cfg.Export.JPEGWidth, cfg.Export.JPEGQuality, cfg.Export.FontPath)
	if err != nil {
		logger.Fatal("初始化 JPEG 渲染器失败", zap.Error(err))
	}
	renderers := []render.Renderer{
		render.NewPDFRenderer(cfg.Export.FontPath),
		jpegRenderer,
	}

	// 7. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, renderers, logger)
	h := handler.NewHandler(svc, cfg.App.Location())

	// 8. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, db, logger)

	// 9. 启动 HTTP 服务器（优雅关闭）
	// 写超时需覆盖导出渲染时间
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Export.RenderTimeout + 15*time.Second,
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

	// 关闭数据库连接
	if sqlDB != nil {
		sqlDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
