package services

import (
	"errors"
	"signcraft-http-service/config"
	"signcraft-http-service/models"

	"gorm.io/gorm"
)

// InterfaceMediaService defines the media service interface
type InterfaceMediaService interface {
	GetMedia(tenantID uint, folderID *uint, mediaType string, page models.PaginationQuery) ([]models.Media, models.PaginationResult, error)
	GetMediaByID(tenantID, id uint) (*models.Media, error)
	CreateMedia(media *models.Media) error
	UpdateMedia(tenantID, id uint, updates map[string]interface{}) (*models.Media, error)
	DeleteMedia(tenantID, id uint) error

	GetFolders(tenantID uint) ([]models.Folder, error)
	CreateFolder(folder *models.Folder) error
	UpdateFolder(tenantID, id uint, updates map[string]interface{}) (*models.Folder, error)
	DeleteFolder(tenantID, id uint) error
}

// MediaService 提供媒体素材和文件夹相关的服务
type MediaService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewMediaService 创建一个新的媒体服务
func NewMediaService(db *gorm.DB, cfg *config.Config) InterfaceMediaService {
	return &MediaService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetMedia 获取租户的媒体列表，可按文件夹和类型过滤，分页返回
func (s *MediaService) GetMedia(tenantID uint, folderID *uint, mediaType string, page models.PaginationQuery) ([]models.Media, models.PaginationResult, error) {
	if page.PageNum <= 0 {
		page.PageNum = 1
	}
	if page.PageSize <= 0 || page.PageSize > 200 {
		page.PageSize = 50
	}

	query := s.DB.Model(&models.Media{}).Where("tenant_id = ?", tenantID)
	if folderID != nil {
		query = query.Where("folder_id = ?", *folderID)
	}
	if mediaType != "" {
		query = query.Where("type = ?", mediaType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}

	order := "created_at ASC"
	if page.Desc {
		order = "created_at DESC"
	}

	var media []models.Media
	err := query.Order(order).
		Offset((page.PageNum - 1) * page.PageSize).
		Limit(page.PageSize).
		Find(&media).Error
	if err != nil {
		return nil, models.PaginationResult{}, err
	}
	return media, models.NewPaginationResult(int(total), page.PageNum, page.PageSize), nil
}

// 2 GetMediaByID 根据ID获取媒体
func (s *MediaService) GetMediaByID(tenantID, id uint) (*models.Media, error) {
	var media models.Media
	if err := s.DB.Where("id = ? AND tenant_id = ?", id, tenantID).First(&media).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("媒体不存在")
		}
		return nil, err
	}
	return &media, nil
}

// 3 CreateMedia 创建媒体记录
func (s *MediaService) CreateMedia(media *models.Media) error {
	if media.FolderID != nil {
		// 验证文件夹属于同一租户
		var count int64
		if err := s.DB.Model(&models.Folder{}).
			Where("id = ? AND tenant_id = ?", *media.FolderID, media.TenantID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errors.New("目标文件夹不存在")
		}
	}
	return s.DB.Create(media).Error
}

// 4 UpdateMedia 更新媒体信息
func (s *MediaService) UpdateMedia(tenantID, id uint, updates map[string]interface{}) (*models.Media, error) {
	media, err := s.GetMediaByID(tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := s.DB.Model(media).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetMediaByID(tenantID, id)
}

// 5 DeleteMedia 删除媒体，同时清理引用它的播放列表条目
func (s *MediaService) DeleteMedia(tenantID, id uint) error {
	media, err := s.GetMediaByID(tenantID, id)
	if err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("media_id = ?", media.ID).Delete(&models.PlaylistItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(media).Error
	})
}

// 6 GetFolders 获取租户的文件夹列表
func (s *MediaService) GetFolders(tenantID uint) ([]models.Folder, error) {
	var folders []models.Folder
	if err := s.DB.Where("tenant_id = ?", tenantID).Order("name").Find(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}

// 7 CreateFolder 创建文件夹
func (s *MediaService) CreateFolder(folder *models.Folder) error {
	return s.DB.Create(folder).Error
}

// 8 UpdateFolder 更新文件夹
func (s *MediaService) UpdateFolder(tenantID, id uint, updates map[string]interface{}) (*models.Folder, error) {
	var folder models.Folder
	if err := s.DB.Where("id = ? AND tenant_id = ?", id, tenantID).First(&folder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("文件夹不存在")
		}
		return nil, err
	}

	if err := s.DB.Model(&folder).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &folder, nil
}

// 9 DeleteFolder 删除文件夹，其中的媒体移动到根目录
func (s *MediaService) DeleteFolder(tenantID, id uint) error {
	var folder models.Folder
	if err := s.DB.Where("id = ? AND tenant_id = ?", id, tenantID).First(&folder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("文件夹不存在")
		}
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Media{}).Where("folder_id = ?", folder.ID).
			Update("folder_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&folder).Error
	})
}
