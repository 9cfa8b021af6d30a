package container

import (
	"context"
	"log"
	"sync"
	"time"

	"signcraft-http-service/config"
	"signcraft-http-service/services"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config
	redis  *redis.Client

	// 基础服务
	jwtService   services.InterfaceJWTService
	redisService services.InterfaceRedisService

	// 业务服务
	userService        services.InterfaceUserService
	screenService      services.InterfaceScreenService
	mediaService       services.InterfaceMediaService
	playlistService    services.InterfacePlaylistService
	scheduleService    services.InterfaceScheduleService
	screenGroupService services.InterfaceScreenGroupService
	screenLogService   services.InterfaceScreenLogService

	// AI 相关服务
	geminiService  services.InterfaceGeminiService
	aiUsageService services.InterfaceAIUsageService
	aiService      services.InterfaceAIService

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *ServiceContainer {
	if db == nil {
		panic("数据库连接为空")
	}

	if cfg == nil {
		panic("配置为空")
	}

	// 测试Redis连接
	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Redis连接测试失败: %v，将不使用Redis缓存", err)
		}
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
		redis:  redisClient,
	}
	container.initializeServices()
	return container
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 初始化基础服务
	c.jwtService = services.NewJWTService(c.config)
	if c.redis != nil {
		c.redisService = services.NewRedisService(c.config)
	}

	// 初始化业务服务
	c.userService = services.NewUserService(c.db, c.config)
	c.screenService = services.NewScreenService(c.db, c.config)
	c.mediaService = services.NewMediaService(c.db, c.config)
	c.playlistService = services.NewPlaylistService(c.db, c.config)
	c.scheduleService = services.NewScheduleService(c.db, c.config)
	c.screenGroupService = services.NewScreenGroupService(c.db, c.config)
	c.screenLogService = services.NewScreenLogService(c.db, c.config)

	// 初始化 AI 服务
	c.geminiService = services.NewGeminiService(c.config)
	c.aiUsageService = services.NewAIUsageService(c.db, c.config, c.redisService)
	c.aiService = services.NewAIService(c.config, c.geminiService, c.aiUsageService)
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "user":
		return c.userService
	case "screen":
		return c.screenService
	case "media":
		return c.mediaService
	case "playlist":
		return c.playlistService
	case "schedule":
		return c.scheduleService
	case "screen_group":
		return c.screenGroupService
	case "screen_log":
		return c.screenLogService
	case "gemini":
		return c.geminiService
	case "ai_usage":
		return c.aiUsageService
	case "ai":
		return c.aiService
	default:
		return nil
	}
}

// GetDB 获取数据库连接
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}
