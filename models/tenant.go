package models

// Tenant represents an organization using the signage platform
type Tenant struct {
	BaseModel
	Name string `gorm:"type:varchar(255);not null" json:"name"`
	Slug string `gorm:"type:varchar(100);unique;not null" json:"slug"`
	Plan string `gorm:"type:varchar(50);default:'free'" json:"plan"`

	// Relations
	Users   []User   `gorm:"foreignKey:TenantID" json:"users,omitempty"`
	Screens []Screen `gorm:"foreignKey:TenantID" json:"screens,omitempty"`
}
