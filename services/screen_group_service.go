package services

import (
	"errors"
	"signcraft-http-service/config"
	"signcraft-http-service/models"

	"gorm.io/gorm"
)

// InterfaceScreenGroupService defines the screen group service interface
type InterfaceScreenGroupService interface {
	GetGroups(tenantID uint) ([]models.ScreenGroup, error)
	GetGroupByID(tenantID, id uint) (*models.ScreenGroup, error)
	CreateGroup(group *models.ScreenGroup) error
	UpdateGroup(tenantID, id uint, updates map[string]interface{}) (*models.ScreenGroup, error)
	DeleteGroup(tenantID, id uint) error
	SetMembers(tenantID, id uint, screenIDs []uint) (*models.ScreenGroup, error)
}

// ScreenGroupService 提供屏幕分组相关的服务
type ScreenGroupService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewScreenGroupService 创建一个新的屏幕分组服务
func NewScreenGroupService(db *gorm.DB, cfg *config.Config) InterfaceScreenGroupService {
	return &ScreenGroupService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetGroups 获取租户的屏幕分组列表
func (s *ScreenGroupService) GetGroups(tenantID uint) ([]models.ScreenGroup, error) {
	var groups []models.ScreenGroup
	if err := s.DB.Where("tenant_id = ?", tenantID).Preload("Screens").
		Order("name").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// 2 GetGroupByID 根据ID获取屏幕分组
func (s *ScreenGroupService) GetGroupByID(tenantID, id uint) (*models.ScreenGroup, error) {
	var group models.ScreenGroup
	err := s.DB.Where("id = ? AND tenant_id = ?", id, tenantID).
		Preload("Screens").First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("屏幕分组不存在")
		}
		return nil, err
	}
	return &group, nil
}

// 3 CreateGroup 创建屏幕分组
func (s *ScreenGroupService) CreateGroup(group *models.ScreenGroup) error {
	return s.DB.Create(group).Error
}

// 4 UpdateGroup 更新屏幕分组
func (s *ScreenGroupService) UpdateGroup(tenantID, id uint, updates map[string]interface{}) (*models.ScreenGroup, error) {
	group, err := s.GetGroupByID(tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := s.DB.Model(group).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetGroupByID(tenantID, id)
}

// 5 DeleteGroup 删除屏幕分组（不影响屏幕本身）
func (s *ScreenGroupService) DeleteGroup(tenantID, id uint) error {
	group, err := s.GetGroupByID(tenantID, id)
	if err != nil {
		return err
	}

	if err := s.DB.Model(group).Association("Screens").Clear(); err != nil {
		return err
	}
	return s.DB.Delete(group).Error
}

// 6 SetMembers 整体替换分组内的屏幕
func (s *ScreenGroupService) SetMembers(tenantID, id uint, screenIDs []uint) (*models.ScreenGroup, error) {
	group, err := s.GetGroupByID(tenantID, id)
	if err != nil {
		return nil, err
	}

	var screens []models.Screen
	if len(screenIDs) > 0 {
		if err := s.DB.Where("id IN ? AND tenant_id = ?", screenIDs, tenantID).
			Find(&screens).Error; err != nil {
			return nil, err
		}
		if len(screens) != len(screenIDs) {
			return nil, errors.New("分组引用了不存在的屏幕")
		}
	}

	if err := s.DB.Model(group).Association("Screens").Replace(screens); err != nil {
		return nil, err
	}
	return s.GetGroupByID(tenantID, id)
}
