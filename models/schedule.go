package models

import (
	"time"

	"gorm.io/datatypes"
)

// Schedule assigns a playlist to a screen within a time window
type Schedule struct {
	BaseModel
	TenantID   uint           `gorm:"index;not null" json:"tenant_id"`
	ScreenID   uint           `gorm:"index;not null" json:"screen_id"`
	PlaylistID uint           `gorm:"index;not null" json:"playlist_id"`
	Name       string         `gorm:"type:varchar(255);not null" json:"name"`
	StartDate  *time.Time     `json:"start_date"`
	EndDate    *time.Time     `json:"end_date"`
	StartTime  string         `gorm:"type:varchar(8)" json:"start_time"` // "HH:MM:SS"
	EndTime    string         `gorm:"type:varchar(8)" json:"end_time"`
	DaysOfWeek datatypes.JSON `json:"days_of_week"` // 例如 [1,2,3,4,5]
	Priority   int            `gorm:"default:0" json:"priority"`
	IsActive   bool           `gorm:"default:true" json:"is_active"`

	// Relations
	Screen   *Screen   `gorm:"foreignKey:ScreenID" json:"screen,omitempty"`
	Playlist *Playlist `gorm:"foreignKey:PlaylistID" json:"playlist,omitempty"`
}
