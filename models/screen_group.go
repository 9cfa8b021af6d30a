package models

// ScreenGroup 屏幕分组，用于批量管理屏幕
type ScreenGroup struct {
	BaseModel
	TenantID    uint   `gorm:"index;not null" json:"tenant_id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	// Relations - 多对多关系
	Screens []Screen `gorm:"many2many:screen_group_members;" json:"screens,omitempty"`
}
