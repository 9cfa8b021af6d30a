package services

import (
	"signcraft-http-service/config"
	"signcraft-http-service/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InterfaceScreenLogService defines the screen log service interface
type InterfaceScreenLogService interface {
	Append(tenantID, screenID uint, level, message string, meta datatypes.JSON) error
	GetRecent(tenantID, screenID uint, limit int) ([]models.ScreenLog, error)
}

// ScreenLogService 提供屏幕日志相关的服务
type ScreenLogService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewScreenLogService 创建一个新的屏幕日志服务
func NewScreenLogService(db *gorm.DB, cfg *config.Config) InterfaceScreenLogService {
	return &ScreenLogService{
		DB:     db,
		Config: cfg,
	}
}

// Append 追加一条屏幕日志
func (s *ScreenLogService) Append(tenantID, screenID uint, level, message string, meta datatypes.JSON) error {
	if level == "" {
		level = "info"
	}
	log := models.ScreenLog{
		TenantID: tenantID,
		ScreenID: screenID,
		Level:    level,
		Message:  message,
		Meta:     meta,
	}
	return s.DB.Create(&log).Error
}

// GetRecent 获取屏幕最近的日志
func (s *ScreenLogService) GetRecent(tenantID, screenID uint, limit int) ([]models.ScreenLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var logs []models.ScreenLog
	err := s.DB.Where("tenant_id = ? AND screen_id = ?", tenantID, screenID).
		Order("created_at DESC").Limit(limit).Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
