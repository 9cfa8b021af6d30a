package routes

import (
	"time"

	"signcraft-http-service/config"
	"signcraft-http-service/controllers"
	_ "signcraft-http-service/docs"
	"signcraft-http-service/middleware"
	"signcraft-http-service/realtime"
	"signcraft-http-service/services/container"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(serviceContainer *container.ServiceContainer, hub *realtime.Hub, cfg *config.Config) *gin.Engine {
	// 初始化 Gin
	r := gin.Default()

	// 添加 CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", cfg.WebSocketAllowOrigins)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// 初始化中间件
	middleware.InitAuthMiddleware(cfg)
	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// WebSocket 接入点在 /api 之外，设备和仪表盘都从这里接入
	r.GET("/ws", controllers.HandleWebSocketFunc(hub))

	// 注册路由
	registerRoutes(r, serviceContainer, hub)
	return r
}

// registerRoutes 配置所有API路由
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
	hub *realtime.Hub,
) {
	// API 路由根路径
	api := r.Group("/api")
	// 注册公共路由
	registerPublicRoutes(api, container, hub)
	// 注册需要认证的路由
	registerAuthenticatedRoutes(api, container, hub)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
	hub *realtime.Hub,
) {
	// 健康检查
	healthController := controllers.NewHealthCheckController(hub)
	api.GET("/ping", healthController.Ping)
	api.GET("/health", healthController.Ping)

	// 认证路由，带IP限流防止暴力破解
	authLimiter := middleware.IPRateLimiter(2, 10)
	api.POST("/auth/login", authLimiter, controllers.HandleJWTFunc(container, "login"))
	api.POST("/auth/register", authLimiter, controllers.HandleJWTFunc(container, "register"))
}

// registerAuthenticatedRoutes 注册需要认证的路由
func registerAuthenticatedRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
	hub *realtime.Hub,
) {
	// 添加认证中间件
	auth := api.Group("/")
	auth.Use(middleware.AuthenticateUser())

	// 屏幕路由
	auth.Group("/screens").GET("", controllers.HandleScreenFunc(container, hub, "getScreens"))
	auth.Group("/screens").GET("/:id", controllers.HandleScreenFunc(container, hub, "getScreen"))
	auth.Group("/screens").GET("/:id/status", controllers.HandleScreenFunc(container, hub, "getScreenStatus"))
	auth.Group("/screens").POST("", controllers.HandleScreenFunc(container, hub, "createScreen"))
	auth.Group("/screens").PUT("/:id", controllers.HandleScreenFunc(container, hub, "updateScreen"))
	auth.Group("/screens").DELETE("/:id", controllers.HandleScreenFunc(container, hub, "deleteScreen"))
	auth.Group("/screens").POST("/:id/rotate-token", middleware.RequireTenantAdmin(), controllers.HandleScreenFunc(container, hub, "rotateConnectionToken"))
	auth.Group("/screens").GET("/:id/logs", controllers.HandleScreenFunc(container, hub, "getScreenLogs"))

	// 媒体与文件夹路由
	auth.Group("/media").GET("", controllers.HandleMediaFunc(container, "getMedia"))
	auth.Group("/media").GET("/:id", controllers.HandleMediaFunc(container, "getMediaByID"))
	auth.Group("/media").POST("", controllers.HandleMediaFunc(container, "createMedia"))
	auth.Group("/media").PUT("/:id", controllers.HandleMediaFunc(container, "updateMedia"))
	auth.Group("/media").DELETE("/:id", controllers.HandleMediaFunc(container, "deleteMedia"))
	auth.Group("/folders").GET("", controllers.HandleMediaFunc(container, "getFolders"))
	auth.Group("/folders").POST("", controllers.HandleMediaFunc(container, "createFolder"))
	auth.Group("/folders").PUT("/:id", controllers.HandleMediaFunc(container, "updateFolder"))
	auth.Group("/folders").DELETE("/:id", controllers.HandleMediaFunc(container, "deleteFolder"))

	// 播放列表路由
	auth.Group("/playlists").GET("", controllers.HandlePlaylistFunc(container, "getPlaylists"))
	auth.Group("/playlists").GET("/:id", controllers.HandlePlaylistFunc(container, "getPlaylist"))
	auth.Group("/playlists").POST("", controllers.HandlePlaylistFunc(container, "createPlaylist"))
	auth.Group("/playlists").PUT("/:id", controllers.HandlePlaylistFunc(container, "updatePlaylist"))
	auth.Group("/playlists").DELETE("/:id", controllers.HandlePlaylistFunc(container, "deletePlaylist"))
	auth.Group("/playlists").PUT("/:id/items", controllers.HandlePlaylistFunc(container, "replaceItems"))

	// 排期路由
	auth.Group("/schedules").GET("", controllers.HandleScheduleFunc(container, "getSchedules"))
	auth.Group("/schedules").GET("/:id", controllers.HandleScheduleFunc(container, "getSchedule"))
	auth.Group("/schedules").POST("", controllers.HandleScheduleFunc(container, "createSchedule"))
	auth.Group("/schedules").PUT("/:id", controllers.HandleScheduleFunc(container, "updateSchedule"))
	auth.Group("/schedules").DELETE("/:id", controllers.HandleScheduleFunc(container, "deleteSchedule"))

	// 屏幕分组路由
	auth.Group("/screen-groups").GET("", controllers.HandleScreenGroupFunc(container, "getGroups"))
	auth.Group("/screen-groups").GET("/:id", controllers.HandleScreenGroupFunc(container, "getGroup"))
	auth.Group("/screen-groups").POST("", controllers.HandleScreenGroupFunc(container, "createGroup"))
	auth.Group("/screen-groups").PUT("/:id", controllers.HandleScreenGroupFunc(container, "updateGroup"))
	auth.Group("/screen-groups").DELETE("/:id", controllers.HandleScreenGroupFunc(container, "deleteGroup"))
	auth.Group("/screen-groups").PUT("/:id/members", controllers.HandleScreenGroupFunc(container, "setMembers"))

	// AI助手路由，按租户限流，Gemini 调用成本高
	ai := auth.Group("/ai")
	ai.Use(middleware.TenantRateLimiter(1, 5))
	ai.POST("/generate-design", controllers.HandleAIFunc(container, "generateDesign"))
	ai.POST("/optimize-design", controllers.HandleAIFunc(container, "optimizeDesign"))
	ai.POST("/generate-headline", controllers.HandleAIFunc(container, "generateHeadline"))
	ai.POST("/generate-cta", controllers.HandleAIFunc(container, "generateCTA"))
	ai.POST("/rewrite-copy", controllers.HandleAIFunc(container, "rewriteCopy"))
	ai.POST("/translate", controllers.HandleAIFunc(container, "translateCopy"))
	ai.POST("/optimize-playlist", controllers.HandleAIFunc(container, "optimizePlaylist"))
	ai.POST("/recommend-schedule", controllers.HandleAIFunc(container, "recommendSchedule"))
	ai.POST("/analyze-screen", controllers.HandleAIFunc(container, "analyzeScreen"))
	ai.POST("/interpret-analytics", controllers.HandleAIFunc(container, "interpretAnalytics"))
	// 用量统计是仪表盘轮询的端点，加短缓存
	ai.GET("/usage", middleware.CacheFor(30*time.Second), controllers.HandleAIFunc(container, "getUsageStats"))
}
