package models

import "gorm.io/datatypes"

// MediaType represents the kind of media asset
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
	MediaTypeHTML  MediaType = "html"
	MediaTypeURL   MediaType = "url"
)

// Media represents a media asset uploaded by a tenant
type Media struct {
	BaseModel
	TenantID        uint           `gorm:"index;not null" json:"tenant_id"`
	FolderID        *uint          `gorm:"index" json:"folder_id"`
	Name            string         `gorm:"type:varchar(255);not null" json:"name"`
	Type            MediaType      `gorm:"type:varchar(20);not null" json:"type"`
	URL             string         `gorm:"type:text" json:"url"`
	ThumbnailURL    string         `gorm:"type:text" json:"thumbnail_url"`
	SizeBytes       int64          `json:"size_bytes"`
	DurationSeconds int            `json:"duration_seconds"`
	Metadata        datatypes.JSON `json:"metadata"`

	// Relations
	Folder *Folder `gorm:"foreignKey:FolderID" json:"folder,omitempty"`
}

// Folder 媒体文件夹，支持嵌套
type Folder struct {
	BaseModel
	TenantID uint   `gorm:"index;not null" json:"tenant_id"`
	ParentID *uint  `gorm:"index" json:"parent_id"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`

	// Relations
	Media []Media `gorm:"foreignKey:FolderID" json:"media,omitempty"`
}
