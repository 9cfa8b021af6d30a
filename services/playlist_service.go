package services

import (
	"errors"
	"signcraft-http-service/config"
	"signcraft-http-service/models"

	"gorm.io/gorm"
)

// PlaylistItemInput 播放列表条目的输入参数
type PlaylistItemInput struct {
	MediaID         uint   `json:"media_id" binding:"required"`
	DurationSeconds int    `json:"duration_seconds"`
	TransitionType  string `json:"transition_type"`
}

// InterfacePlaylistService defines the playlist service interface
type InterfacePlaylistService interface {
	GetPlaylists(tenantID uint) ([]models.Playlist, error)
	GetPlaylistByID(tenantID, id uint) (*models.Playlist, error)
	CreatePlaylist(playlist *models.Playlist) error
	UpdatePlaylist(tenantID, id uint, updates map[string]interface{}) (*models.Playlist, error)
	DeletePlaylist(tenantID, id uint) error
	ReplaceItems(tenantID, id uint, items []PlaylistItemInput) (*models.Playlist, error)
}

// PlaylistService 提供播放列表相关的服务
type PlaylistService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewPlaylistService 创建一个新的播放列表服务
func NewPlaylistService(db *gorm.DB, cfg *config.Config) InterfacePlaylistService {
	return &PlaylistService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetPlaylists 获取租户的播放列表
func (s *PlaylistService) GetPlaylists(tenantID uint) ([]models.Playlist, error) {
	var playlists []models.Playlist
	if err := s.DB.Where("tenant_id = ?", tenantID).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Order("created_at DESC").Find(&playlists).Error; err != nil {
		return nil, err
	}
	return playlists, nil
}

// 2 GetPlaylistByID 根据ID获取播放列表及其有序条目
func (s *PlaylistService) GetPlaylistByID(tenantID, id uint) (*models.Playlist, error) {
	var playlist models.Playlist
	err := s.DB.Where("id = ? AND tenant_id = ?", id, tenantID).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Items.Media").
		First(&playlist).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("播放列表不存在")
		}
		return nil, err
	}
	return &playlist, nil
}

// 3 CreatePlaylist 创建播放列表
func (s *PlaylistService) CreatePlaylist(playlist *models.Playlist) error {
	return s.DB.Create(playlist).Error
}

// 4 UpdatePlaylist 更新播放列表基本信息
func (s *PlaylistService) UpdatePlaylist(tenantID, id uint, updates map[string]interface{}) (*models.Playlist, error) {
	playlist, err := s.GetPlaylistByID(tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := s.DB.Model(playlist).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetPlaylistByID(tenantID, id)
}

// 5 DeletePlaylist 删除播放列表及其条目和排期
func (s *PlaylistService) DeletePlaylist(tenantID, id uint) error {
	playlist, err := s.GetPlaylistByID(tenantID, id)
	if err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", playlist.ID).Delete(&models.PlaylistItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("playlist_id = ?", playlist.ID).Delete(&models.Schedule{}).Error; err != nil {
			return err
		}
		return tx.Delete(playlist).Error
	})
}

// 6 ReplaceItems 整体替换播放列表条目并重新计算总时长
func (s *PlaylistService) ReplaceItems(tenantID, id uint, items []PlaylistItemInput) (*models.Playlist, error) {
	playlist, err := s.GetPlaylistByID(tenantID, id)
	if err != nil {
		return nil, err
	}

	// 验证所有媒体都属于本租户
	for _, item := range items {
		var count int64
		if err := s.DB.Model(&models.Media{}).
			Where("id = ? AND tenant_id = ?", item.MediaID, tenantID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, errors.New("播放列表引用了不存在的媒体")
		}
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", playlist.ID).Delete(&models.PlaylistItem{}).Error; err != nil {
			return err
		}

		total := 0
		for i, item := range items {
			duration := item.DurationSeconds
			if duration <= 0 {
				duration = 10 // 默认每个条目10秒
			}
			total += duration

			record := models.PlaylistItem{
				PlaylistID:      playlist.ID,
				MediaID:         item.MediaID,
				Position:        i,
				DurationSeconds: duration,
				TransitionType:  item.TransitionType,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}

		return tx.Model(playlist).Update("total_duration", total).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetPlaylistByID(tenantID, id)
}
