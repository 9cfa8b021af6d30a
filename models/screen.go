package models

import (
	"time"

	"gorm.io/datatypes"
)

// ScreenStatus represents the liveness status of a screen
type ScreenStatus string

const (
	ScreenStatusOnline      ScreenStatus = "online"
	ScreenStatusOffline     ScreenStatus = "offline"
	ScreenStatusError       ScreenStatus = "error"
	ScreenStatusMaintenance ScreenStatus = "maintenance"
)

// ScreenProvider represents the player software driving a screen
type ScreenProvider string

const (
	ProviderSignCraftPlayer ScreenProvider = "signcraft_player"
	ProviderScreenCloud     ScreenProvider = "screencloud"
	ProviderYodeck          ScreenProvider = "yodeck"
	ProviderAndroid         ScreenProvider = "android"
	ProviderWindows         ScreenProvider = "windows"
	ProviderOther           ScreenProvider = "other"
)

// Screen represents a digital display managed by the platform
type Screen struct {
	BaseModel
	TenantID         uint           `gorm:"index;not null" json:"tenant_id"`
	DeviceID         string         `gorm:"type:varchar(255);unique;not null" json:"device_id"`
	Name             string         `gorm:"type:varchar(255);not null" json:"name"`
	Provider         ScreenProvider `gorm:"type:varchar(50);default:'signcraft_player'" json:"provider"`
	ProviderDeviceID string         `gorm:"type:varchar(255)" json:"provider_device_id"`
	ScreenWidth      int            `json:"screen_width"`
	ScreenHeight     int            `json:"screen_height"`
	Orientation      string         `gorm:"type:varchar(20);default:'landscape'" json:"orientation"` // landscape, portrait
	LocationName     string         `gorm:"type:varchar(255)" json:"location_name"`
	LocationAddress  string         `gorm:"type:text" json:"location_address"`
	LocationLat      float64        `gorm:"type:decimal(10,8)" json:"location_latitude"`
	LocationLng      float64        `gorm:"type:decimal(11,8)" json:"location_longitude"`
	Timezone         string         `gorm:"type:varchar(100);default:'UTC'" json:"timezone"`
	Tags             datatypes.JSON `json:"tags"`

	// 连接状态字段，由 WebSocket 网关和心跳巡检维护
	Status          ScreenStatus   `gorm:"type:varchar(20);default:'offline';index" json:"status"`
	LastHeartbeat   *time.Time     `json:"last_heartbeat"`
	ConnectionToken string         `gorm:"type:varchar(500);index" json:"-"` // 设备连接凭证，不暴露给普通响应
	PlayerVersion   string         `gorm:"type:varchar(50)" json:"player_version"`
	DeviceInfo      datatypes.JSON `json:"device_info"`

	// Relations
	Schedules []Schedule  `gorm:"foreignKey:ScreenID" json:"schedules,omitempty"`
	Logs      []ScreenLog `gorm:"foreignKey:ScreenID" json:"logs,omitempty"`
}

// ScreenSummary 是推送给仪表盘的屏幕概要信息
type ScreenSummary struct {
	ID            uint         `json:"id"`
	Name          string       `json:"name"`
	Status        ScreenStatus `json:"status"`
	LastHeartbeat *time.Time   `json:"last_heartbeat"`
	LocationLat   float64      `json:"location_latitude"`
	LocationLng   float64      `json:"location_longitude"`
}

// Summary 返回屏幕的概要信息
func (s *Screen) Summary() ScreenSummary {
	return ScreenSummary{
		ID:            s.ID,
		Name:          s.Name,
		Status:        s.Status,
		LastHeartbeat: s.LastHeartbeat,
		LocationLat:   s.LocationLat,
		LocationLng:   s.LocationLng,
	}
}
