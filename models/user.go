package models

// UserRole represents the role of a dashboard user within a tenant
type UserRole string

const (
	UserRoleTenantAdmin UserRole = "tenant_admin"
	UserRoleEditor      UserRole = "editor"
	UserRoleViewer      UserRole = "viewer"
)

// User represents a dashboard user belonging to a tenant
type User struct {
	BaseModel
	TenantID  uint     `gorm:"index;not null" json:"tenant_id"`
	Email     string   `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password  string   `gorm:"type:varchar(255);not null" json:"-"` // bcrypt 哈希，不序列化
	FirstName string   `gorm:"type:varchar(100)" json:"first_name"`
	LastName  string   `gorm:"type:varchar(100)" json:"last_name"`
	Role      UserRole `gorm:"type:varchar(20);default:'viewer'" json:"role"`

	// Relations
	Tenant *Tenant `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
}
