package models

import "gorm.io/datatypes"

// 日志级别
const (
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// ScreenLog represents a log entry reported by a screen player
type ScreenLog struct {
	BaseModel
	TenantID uint           `gorm:"index;not null" json:"tenant_id"`
	ScreenID uint           `gorm:"index;not null" json:"screen_id"`
	Level    string         `gorm:"type:varchar(20);default:'info'" json:"level"` // info, warn, error
	Message  string         `gorm:"type:text" json:"message"`
	Meta     datatypes.JSON `json:"meta"`
}
