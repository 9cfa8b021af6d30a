package models

// Playlist represents an ordered collection of media items
type Playlist struct {
	BaseModel
	TenantID       uint   `gorm:"index;not null" json:"tenant_id"`
	Name           string `gorm:"type:varchar(255);not null" json:"name"`
	Description    string `gorm:"type:text" json:"description"`
	TotalDuration  int    `json:"total_duration"`                                          // 秒，保存条目时重新计算
	TransitionType string `gorm:"type:varchar(20);default:'none'" json:"transition_type"`  // none, fade, slide, zoom
	Shuffle        bool   `gorm:"default:false" json:"shuffle"`
	Status         string `gorm:"type:varchar(20);default:'active'" json:"status"` // active, inactive

	// Relations
	Items []PlaylistItem `gorm:"foreignKey:PlaylistID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// PlaylistItem represents a single positioned entry of a playlist
type PlaylistItem struct {
	BaseModel
	PlaylistID      uint   `gorm:"index;not null" json:"playlist_id"`
	MediaID         uint   `gorm:"index;not null" json:"media_id"`
	Position        int    `gorm:"not null" json:"position"`
	DurationSeconds int    `gorm:"default:10" json:"duration_seconds"`
	TransitionType  string `gorm:"type:varchar(20)" json:"transition_type"`

	// Relations
	Media *Media `gorm:"foreignKey:MediaID" json:"media,omitempty"`
}
