package services

import (
	"errors"
	"signcraft-http-service/config"
	"signcraft-http-service/models"

	"gorm.io/gorm"
)

// InterfaceScheduleService defines the schedule service interface
type InterfaceScheduleService interface {
	GetSchedules(tenantID uint, screenID *uint) ([]models.Schedule, error)
	GetScheduleByID(tenantID, id uint) (*models.Schedule, error)
	CreateSchedule(schedule *models.Schedule) error
	UpdateSchedule(tenantID, id uint, updates map[string]interface{}) (*models.Schedule, error)
	DeleteSchedule(tenantID, id uint) error
}

// ScheduleService 提供排期相关的服务
type ScheduleService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewScheduleService 创建一个新的排期服务
func NewScheduleService(db *gorm.DB, cfg *config.Config) InterfaceScheduleService {
	return &ScheduleService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetSchedules 获取租户的排期列表，可按屏幕过滤
func (s *ScheduleService) GetSchedules(tenantID uint, screenID *uint) ([]models.Schedule, error) {
	query := s.DB.Where("tenant_id = ?", tenantID)
	if screenID != nil {
		query = query.Where("screen_id = ?", *screenID)
	}

	var schedules []models.Schedule
	if err := query.Preload("Playlist").Order("priority DESC, created_at DESC").
		Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

// 2 GetScheduleByID 根据ID获取排期
func (s *ScheduleService) GetScheduleByID(tenantID, id uint) (*models.Schedule, error) {
	var schedule models.Schedule
	err := s.DB.Where("id = ? AND tenant_id = ?", id, tenantID).
		Preload("Screen").Preload("Playlist").First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("排期不存在")
		}
		return nil, err
	}
	return &schedule, nil
}

// 3 CreateSchedule 创建排期，屏幕和播放列表都必须属于本租户
func (s *ScheduleService) CreateSchedule(schedule *models.Schedule) error {
	var count int64
	if err := s.DB.Model(&models.Screen{}).
		Where("id = ? AND tenant_id = ?", schedule.ScreenID, schedule.TenantID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errors.New("屏幕不存在")
	}

	if err := s.DB.Model(&models.Playlist{}).
		Where("id = ? AND tenant_id = ?", schedule.PlaylistID, schedule.TenantID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errors.New("播放列表不存在")
	}

	return s.DB.Create(schedule).Error
}

// 4 UpdateSchedule 更新排期
func (s *ScheduleService) UpdateSchedule(tenantID, id uint, updates map[string]interface{}) (*models.Schedule, error) {
	schedule, err := s.GetScheduleByID(tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := s.DB.Model(schedule).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetScheduleByID(tenantID, id)
}

// 5 DeleteSchedule 删除排期
func (s *ScheduleService) DeleteSchedule(tenantID, id uint) error {
	schedule, err := s.GetScheduleByID(tenantID, id)
	if err != nil {
		return err
	}
	return s.DB.Delete(schedule).Error
}
