package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ju4n3s0/GymIcesi-System/config"
	"github.com/ju4n3s0/GymIcesi-System/internal/api/handler"
	"github.com/ju4n3s0/GymIcesi-System/internal/api/middleware"
	"github.com/ju4n3s0/GymIcesi-System/internal/model"
	"github.com/ju4n3s0/GymIcesi-System/pkg/jwt"
	"github.com/ju4n3s0/GymIcesi-System/pkg/redis"
)

// 请求体上限，JSON 接口足够
const maxBodyBytes = 1 << 20

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", h.Health.Check)

	staff := middleware.RoleAuth(model.RoleEmployee, model.RoleAdmin)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login",
				middleware.RateLimit(rdb, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow),
				h.Auth.Login,
			)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 动作目录
			exercises := authorized.Group("/exercises")
			{
				exercises.GET("", h.Catalog.ListExercises)
				exercises.GET("/:id", h.Catalog.GetExercise)
				exercises.POST("", staff, h.Catalog.CreateExercise)
			}

			// 训练计划与计划分配
			routines := authorized.Group("/routines")
			{
				routines.GET("", h.Catalog.ListRoutines)
				routines.POST("", staff, h.Catalog.CreateRoutine)
				routines.POST("/assign", staff, h.Routine.AssignRoutine)
				routines.GET("/users", staff, h.Routine.ListRoutineUsers)
				routines.GET("/users/:username", h.Routine.GetUserRoutines) // 学生仅本人（Service 层鉴权）
				routines.GET("/users/:username/calendar", h.Routine.DownloadCalendar)
				routines.GET("/:id", h.Catalog.GetRoutine)
			}

			// 教练分配
			assignments := authorized.Group("/assignments", staff)
			{
				assignments.GET("", h.Assignment.List)
				assignments.GET("/students", h.Assignment.ListStudents)
				assignments.POST("/quick-assign", h.Assignment.QuickAssign)
				assignments.GET("/active/:username", h.Assignment.GetActive)
				assignments.POST("/:id/inactivate", h.Assignment.Inactivate)
			}

			// 训练进度
			progress := authorized.Group("/progress")
			{
				progress.GET("", h.Progress.List)
				progress.POST("", h.Progress.Create)
			}

			// 报表（?export=csv|xlsx|pdf 下载）
			reports := authorized.Group("/reports", staff)
			{
				reports.GET("/users", h.Report.UserSummary)
				reports.GET("/users/without", h.Report.UsersWithout)
				reports.GET("/exercises/top", h.Report.TopExercises)
			}
		}
	}

	return r
}
