// @title           SignCraft HTTP Service API
// @version         1.0
// @description     Multi-tenant digital signage management backend with realtime screen connectivity
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.yourcompany.com/support
// @contact.email  support@yourcompany.com

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3001
// @BasePath  /api

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Enter the token with the `Bearer: ` prefix
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"signcraft-http-service/config"
	"signcraft-http-service/internal/infrastructure/database"
	"signcraft-http-service/models"
	"signcraft-http-service/realtime"
	"signcraft-http-service/routes"
	"signcraft-http-service/services"
	"signcraft-http-service/services/container"
	"signcraft-http-service/utils"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	// 初始化日志配置
	if err := config.SetupLogger(); err != nil {
		fmt.Printf("初始化日志配置失败: %v\n", err)
		os.Exit(1)
	}

	// 加载.env文件
	if err := godotenv.Load(); err != nil {
		config.Warning("无法加载.env文件: %v", err)
		// 即使加载失败也继续执行，可能环境变量已经通过其他方式设置
	} else {
		config.Info("成功加载.env文件")
	}

	// 获取配置
	cfg := config.GetConfig()

	// 连接数据库
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("无法连接数据库: %v", err)
	}

	// 根据配置执行不同的数据库操作
	if cfg.DBMigrationMode == "drop" {
		// 删除并重建表
		log.Println("警告: 在drop模式下运行，将删除并重建所有表")
		if err := dropAndRecreateTables(db); err != nil {
			log.Fatalf("删除并重建表失败: %v", err)
		}
	} else {
		// 默认AutoMigrate，只会添加新列和新表，不会删除或修改列
		if err := autoMigrate(db); err != nil {
			log.Fatalf("自动迁移失败: %v", err)
		}
	}

	// 确保系统中有默认租户和管理员账户
	ensureDefaultTenant(db, cfg)

	// 连接 Redis，失败时降级为单进程模式
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	// 创建服务容器
	serviceContainer := container.NewServiceContainer(db, cfg, redisClient)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 组装实时网关
	screenService := serviceContainer.GetService("screen").(services.InterfaceScreenService)
	jwtService := serviceContainer.GetService("jwt").(services.InterfaceJWTService)
	hub := realtime.NewHub(screenService, jwtService)
	hub.SetLogSink(serviceContainer.GetService("screen_log").(services.InterfaceScreenLogService))

	// Redis 事件桥：把状态事件广播到其他进程的仪表盘连接
	if redisService, ok := serviceContainer.GetService("redis").(services.InterfaceRedisService); ok && redisService != nil {
		hub.SetEventBridge(redisService)
		if err := redisService.SubscribeScreenStatus(ctx, hub.HandleBridgePayload); err != nil {
			config.Warning("订阅状态事件通道失败: %v", err)
		}
	}

	// 启动心跳巡检
	monitor := realtime.NewMonitor(screenService, hub, cfg.HeartbeatTimeout, cfg.HeartbeatSweepPeriod)
	monitor.Start(ctx)

	// 初始化路由
	r := routes.SetupRouter(serviceContainer, hub, cfg)

	// 启动服务器
	config.Info("服务器启动在: http://localhost:%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		config.Error("启动服务器失败: %v", err)
		os.Exit(1)
	}
}

// initDB 初始化数据库连接和连接池
func initDB(cfg *config.Config) (*gorm.DB, error) {
	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	fmt.Println("Database connection established")
	return pool.DB, nil
}

// autoMigrate 自动迁移所有模型（只添加新列和新表）
func autoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Screen{},
		&models.ScreenGroup{},
		&models.Folder{},
		&models.Media{},
		&models.Playlist{},
		&models.PlaylistItem{},
		&models.Schedule{},
		&models.ScreenLog{},
		&models.AIUsageLog{},
		&models.AIUsageLimit{},
	)

	if err != nil {
		return err
	}

	fmt.Println("Database migration completed")
	return nil
}

// dropAndRecreateTables 删除并重建所有表
func dropAndRecreateTables(db *gorm.DB) error {
	// 警告: 这将删除所有数据
	log.Println("警告: 正在删除并重建所有表，所有数据将丢失")

	// 禁用外键检查以允许删除表
	db.Exec("SET FOREIGN_KEY_CHECKS = 0")
	defer db.Exec("SET FOREIGN_KEY_CHECKS = 1")

	// 获取所有表名
	var tables []string
	err := db.Raw("SHOW TABLES").Scan(&tables).Error
	if err != nil {
		return fmt.Errorf("failed to get table names: %w", err)
	}

	// 删除所有表
	for _, table := range tables {
		log.Printf("正在删除表: %s", table)
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS `%s`", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	// 重新创建所有表
	log.Println("正在重新创建所有表")
	return autoMigrate(db)
}

// ensureDefaultTenant 确保系统中至少有一个租户和管理员账户
func ensureDefaultTenant(db *gorm.DB, cfg *config.Config) {
	var count int64
	db.Model(&models.Tenant{}).Count(&count)
	if count > 0 {
		return
	}

	// 生成密码哈希
	defaultPassword := "admin123" // 默认密码
	if cfg.DefaultAdminPassword != "" {
		defaultPassword = cfg.DefaultAdminPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("无法为默认管理员哈希密码: %v", err)
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		tenant := models.Tenant{
			Name: "Default Organization",
			Slug: utils.Slugify("Default Organization"),
			Plan: "free",
		}
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}

		admin := models.User{
			TenantID: tenant.ID,
			Email:    cfg.DefaultAdminEmail,
			Password: string(hashedPassword),
			Role:     models.UserRoleTenantAdmin,
		}
		return tx.Create(&admin).Error
	})
	if err != nil {
		log.Printf("无法创建默认租户: %v", err)
		return
	}

	log.Printf("已创建默认租户和管理员账户 (邮箱: %s)", cfg.DefaultAdminEmail)
}
