package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"signcraft-http-service/config"
	"signcraft-http-service/models"
)

// newTestDB 打开内存数据库并迁移全部模型
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// 内存库绑定单个连接，连接一多数据就不可见了
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
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
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecretKey: "test-secret",
	}
}

// seedTenant 创建一个测试租户
func seedTenant(t *testing.T, db *gorm.DB, name string) *models.Tenant {
	t.Helper()
	tenant := &models.Tenant{Name: name, Slug: name}
	require.NoError(t, db.Create(tenant).Error)
	return tenant
}
