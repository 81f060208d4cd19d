package httptransport

import (
	"net/http"
	"time"

	gincors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sitemail/backend/internal/config"
	"sitemail/backend/internal/health"
	"sitemail/backend/internal/middleware"
	"sitemail/backend/internal/monitoring"
	"sitemail/backend/internal/service"
)

// RouterDependencies 路由器依赖项
type RouterDependencies struct {
	Config      *config.Config
	Submissions *service.SubmissionService
	Health      *health.HealthChecker
	Metrics     *monitoring.Metrics
	Logger      *zap.Logger
}

// NewRouter 创建并返回 Gin 路由实例。
func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryHandler(deps.Logger))
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.BodySizeLimit(deps.Config.Upload.MaxBodyBytes))
	if deps.Metrics != nil {
		router.Use(middleware.HTTPMetrics(deps.Metrics))
	}

	// CORS 配置
	corsConfig := gincors.Config{
		AllowOrigins: deps.Config.CORS.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	router.Use(gincors.New(corsConfig))

	contactHandler := NewContactHandler(deps.Submissions, deps.Config.Mail.ContactThankYou, deps.Logger)
	applicationHandler := NewApplicationHandler(deps.Submissions, deps.Config.Mail.ApplicationThankYou, deps.Logger)

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Site mail API is running")
	})

	router.POST("/contact", contactHandler.Submit)

	// 旧站点的两个历史路径都指向同一个申请处理器
	router.POST("/apply", applicationHandler.Submit)
	router.POST("/vacancies-api/apply", applicationHandler.Submit)

	if deps.Health != nil {
		router.GET("/health/live", gin.WrapF(deps.Health.LiveEndpoint))
		router.GET("/health/ready", gin.WrapF(deps.Health.ReadyEndpoint))
	}
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.HTTPHandler()))
	}

	// 配置了站点目录时，未匹配的请求交给静态文件服务
	if dir := deps.Config.Static.Dir; dir != "" {
		fileServer := http.FileServer(http.Dir(dir))
		router.NoRoute(gin.WrapH(fileServer))
	}

	return router
}
