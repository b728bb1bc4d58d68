package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	UserID  string           `gorm:"not null;index"`
	Type    NotificationType `gorm:"type:varchar(40);not null"`
	Title   string           `gorm:"not null"`
	Message string
	Data    datatypes.JSON `gorm:"type:jsonb"` // {"profile_id": "...", "from_user_id": "..."}
	IsRead  bool           `gorm:"default:false"`
	ReadAt  *time.Time
}
