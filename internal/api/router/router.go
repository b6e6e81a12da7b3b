package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"school-organizer/config"
	"school-organizer/internal/api/handler"
	"school-organizer/internal/api/middleware"
	"school-organizer/internal/model"
	"school-organizer/pkg/database"
	"school-organizer/pkg/jwt"
	"school-organizer/pkg/metrics"
	"school-organizer/pkg/redis"
	"school-organizer/pkg/response"
)

// maxBodyBytes 请求体上限，足够容纳较长的笔记
const maxBodyBytes = 2 << 20

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	handler.RegisterValidators()

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(middleware.RequestID())
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.SentryReport())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		if db != nil {
			if err := database.Ping(c.Request.Context(), db); err != nil {
				logger.Warn("健康检查失败", zap.Error(err))
				response.Error(c, http.StatusServiceUnavailable, 10007, "数据库不可用")
				return
			}
		}
		response.OK(c, gin.H{"status": "ok"})
	})

	if cfg.Observability.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	editors := middleware.RoleAuth(model.RoleTeacher, model.RoleAdmin)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.PUT("/me/alias", h.User.UpdateAlias)
				users.GET("", middleware.RoleAuth(model.RoleAdmin), h.User.List)
			}

			// 科目与书目
			authorized.GET("/subjects", h.Subject.List)
			authorized.POST("/subjects", editors, h.Subject.Create)
			authorized.DELETE("/subjects/:id", editors, h.Subject.Delete)
			authorized.POST("/subjects/:id/books", editors, h.Subject.CreateBook)
			authorized.DELETE("/books/:id", editors, h.Subject.DeleteBook)

			// 周课表
			schedule := authorized.Group("/schedule")
			{
				schedule.GET("", h.Schedule.Get)
				schedule.PUT("", editors, h.Schedule.Replace)
				schedule.POST("/new", editors, h.Schedule.CreateEmpty)
				schedule.POST("/disable", editors, h.Schedule.Disable)
			}

			// 单日记录（viewer 通过历史页只读查看）
			days := authorized.Group("/days", editors)
			{
				days.GET("/:date", h.Day.GetDay)
				days.PUT("/:date/entries", h.Day.SaveEntry)
			}

			// 历史与考试日
			authorized.GET("/history", h.History.Get)
			authorized.POST("/exams", editors, h.History.AddExam)
			authorized.DELETE("/exams", editors, h.History.DeleteExam)

			// 导出模块，渲染开销较大，按用户限流
			export := authorized.Group("/export", middleware.RateLimit(rdb, cfg.Export.RateLimit, time.Minute))
			{
				export.GET("/pdf/:date", h.Export.DayPDF)
				export.GET("/jpeg/:date", h.Export.DayJPEG)
				export.GET("/month", h.Export.Month)
			}
		}
	}

	return r
}
