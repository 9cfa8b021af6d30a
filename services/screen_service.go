package services

import (
	"errors"
	"fmt"
	"signcraft-http-service/config"
	"signcraft-http-service/models"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ScreenFilter 屏幕列表的查询条件
type ScreenFilter struct {
	Status   string
	Provider string
	Search   string
}

// InterfaceScreenService defines the screen service interface.
// 连接相关的方法同时充当 WebSocket 网关与心跳巡检的注册表。
type InterfaceScreenService interface {
	GetScreens(tenantID uint, filter ScreenFilter) ([]models.Screen, error)
	GetScreenByID(tenantID, id uint) (*models.Screen, error)
	CreateScreen(screen *models.Screen) error
	UpdateScreen(tenantID, id uint, updates map[string]interface{}) (*models.Screen, error)
	DeleteScreen(tenantID, id uint) error
	RotateConnectionToken(tenantID, id uint) (*models.Screen, error)

	// 注册表方法，供 realtime 包使用
	FindByConnectionToken(token string) (*models.Screen, error)
	MarkOnline(screenID uint) error
	MarkOffline(screenID uint) error
	RecordHeartbeat(screenID uint, playerVersion string, deviceInfo datatypes.JSON) error
	ListSummariesByTenant(tenantID uint) ([]models.ScreenSummary, error)
	SweepStale(olderThan time.Time) ([]models.Screen, error)
}

// ScreenService 提供屏幕相关的服务
type ScreenService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewScreenService 创建一个新的屏幕服务
func NewScreenService(db *gorm.DB, cfg *config.Config) InterfaceScreenService {
	return &ScreenService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetScreens 获取租户的屏幕列表，支持按状态、类型和关键字过滤
func (s *ScreenService) GetScreens(tenantID uint, filter ScreenFilter) ([]models.Screen, error) {
	query := s.DB.Where("tenant_id = ?", tenantID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Provider != "" {
		query = query.Where("provider = ?", filter.Provider)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR device_id LIKE ? OR location_name LIKE ?", like, like, like)
	}

	var screens []models.Screen
	if err := query.Order("created_at DESC").Find(&screens).Error; err != nil {
		return nil, err
	}

	return screens, nil
}

// 2 GetScreenByID 根据ID获取屏幕，租户不匹配时视为不存在
func (s *ScreenService) GetScreenByID(tenantID, id uint) (*models.Screen, error) {
	var screen models.Screen
	if err := s.DB.Where("id = ? AND tenant_id = ?", id, tenantID).First(&screen).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("屏幕不存在")
		}
		return nil, err
	}

	return &screen, nil
}

// 3 CreateScreen 注册新屏幕并生成设备连接凭证
func (s *ScreenService) CreateScreen(screen *models.Screen) error {
	// 验证设备ID唯一性
	var count int64
	if err := s.DB.Model(&models.Screen{}).Where("device_id = ?", screen.DeviceID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errors.New("该设备ID已被注册")
	}

	// 设置默认状态并生成连接凭证
	if screen.Status == "" {
		screen.Status = models.ScreenStatusOffline
	}
	screen.ConnectionToken = newConnectionToken()

	return s.DB.Create(screen).Error
}

// 4 UpdateScreen 更新屏幕信息（名称、位置、标签等，与连接状态无关的字段）
func (s *ScreenService) UpdateScreen(tenantID, id uint, updates map[string]interface{}) (*models.Screen, error) {
	screen, err := s.GetScreenByID(tenantID, id)
	if err != nil {
		return nil, err
	}

	// 连接凭证和心跳字段不允许通过通用更新修改
	delete(updates, "connection_token")
	delete(updates, "last_heartbeat")

	if err := s.DB.Model(screen).Updates(updates).Error; err != nil {
		return nil, err
	}

	// 重新获取更新后的屏幕信息
	return s.GetScreenByID(tenantID, id)
}

// 5 DeleteScreen 删除屏幕，级联删除依赖的排期和日志
func (s *ScreenService) DeleteScreen(tenantID, id uint) error {
	screen, err := s.GetScreenByID(tenantID, id)
	if err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("screen_id = ?", screen.ID).Delete(&models.Schedule{}).Error; err != nil {
			return err
		}
		if err := tx.Where("screen_id = ?", screen.ID).Delete(&models.ScreenLog{}).Error; err != nil {
			return err
		}
		return tx.Delete(screen).Error
	})
}

// 6 RotateConnectionToken 重新生成连接凭证，旧凭证立即失效
func (s *ScreenService) RotateConnectionToken(tenantID, id uint) (*models.Screen, error) {
	screen, err := s.GetScreenByID(tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := s.DB.Model(screen).Update("connection_token", newConnectionToken()).Error; err != nil {
		return nil, err
	}

	return s.GetScreenByID(tenantID, id)
}

// 7 FindByConnectionToken 根据连接凭证查找屏幕，用于设备端认证
func (s *ScreenService) FindByConnectionToken(token string) (*models.Screen, error) {
	if token == "" {
		return nil, errors.New("连接凭证为空")
	}

	var screen models.Screen
	if err := s.DB.Where("connection_token = ?", token).First(&screen).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("连接凭证无效")
		}
		return nil, err
	}

	return &screen, nil
}

// 8 MarkOnline 标记屏幕在线，状态和心跳时间在同一条更新中写入
func (s *ScreenService) MarkOnline(screenID uint) error {
	now := time.Now()
	return s.DB.Model(&models.Screen{}).Where("id = ?", screenID).Updates(map[string]interface{}{
		"status":         models.ScreenStatusOnline,
		"last_heartbeat": now,
	}).Error
}

// 9 MarkOffline 标记屏幕离线
func (s *ScreenService) MarkOffline(screenID uint) error {
	return s.DB.Model(&models.Screen{}).Where("id = ?", screenID).
		Update("status", models.ScreenStatusOffline).Error
}

// 10 RecordHeartbeat 记录心跳，同时顺带更新播放器版本和设备信息
func (s *ScreenService) RecordHeartbeat(screenID uint, playerVersion string, deviceInfo datatypes.JSON) error {
	updates := map[string]interface{}{
		"last_heartbeat": time.Now(),
		// 心跳到达即视为在线，覆盖巡检可能刚写入的 offline
		"status": models.ScreenStatusOnline,
	}
	if playerVersion != "" {
		updates["player_version"] = playerVersion
	}
	if len(deviceInfo) > 0 {
		updates["device_info"] = deviceInfo
	}

	return s.DB.Model(&models.Screen{}).Where("id = ?", screenID).Updates(updates).Error
}

// 11 ListSummariesByTenant 获取租户全部屏幕的概要信息（仪表盘快照）
func (s *ScreenService) ListSummariesByTenant(tenantID uint) ([]models.ScreenSummary, error) {
	var screens []models.Screen
	if err := s.DB.Where("tenant_id = ?", tenantID).Order("created_at DESC").Find(&screens).Error; err != nil {
		return nil, err
	}

	summaries := make([]models.ScreenSummary, 0, len(screens))
	for i := range screens {
		summaries = append(summaries, screens[i].Summary())
	}
	return summaries, nil
}

// 12 SweepStale 把心跳过期的在线屏幕标记为离线，返回本次真正发生状态转换的屏幕。
// 条件更新保证与断连路径并发时只有一方生效，不会产生重复的状态事件。
func (s *ScreenService) SweepStale(olderThan time.Time) ([]models.Screen, error) {
	var candidates []models.Screen
	err := s.DB.Where("status = ? AND last_heartbeat < ?", models.ScreenStatusOnline, olderThan).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	transitioned := make([]models.Screen, 0, len(candidates))
	for i := range candidates {
		res := s.DB.Model(&models.Screen{}).
			Where("id = ? AND status = ? AND last_heartbeat < ?",
				candidates[i].ID, models.ScreenStatusOnline, olderThan).
			Update("status", models.ScreenStatusOffline)
		if res.Error != nil {
			return transitioned, res.Error
		}
		if res.RowsAffected > 0 {
			candidates[i].Status = models.ScreenStatusOffline
			transitioned = append(transitioned, candidates[i])
		}
	}

	return transitioned, nil
}

// newConnectionToken 生成设备连接凭证
func newConnectionToken() string {
	return fmt.Sprintf("%s-%d", uuid.NewString(), time.Now().UnixMilli())
}
