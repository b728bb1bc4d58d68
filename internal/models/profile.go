package models

import "time"

// Profile is a member's professional listing in the directory. One per
// user, enforced by an existence check at creation time.
type Profile struct {
	BaseModel
	UserID     string `gorm:"not null;uniqueIndex"`
	Profession string `gorm:"not null;index"`
	Category   string `gorm:"index"`
	// Skills is free text and feeds the directory full-text search.
	Skills   string `gorm:"type:text"`
	Bio      string `gorm:"type:text"`
	Location string `gorm:"index"`
	Country  string `gorm:"index"`
	Phone    string

	// Moderation state. Any edit resets Status to pending.
	Status          ApprovalStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	RejectionReason string
	ApprovedAt      *time.Time
	ApprovedBy      string

	// Verification badges are independent flags, never derived from each
	// other or from Status.
	EmailVerified      bool `gorm:"default:false"`
	PhoneVerified      bool `gorm:"default:false"`
	PastorVerified     bool `gorm:"default:false"`
	BackgroundVerified bool `gorm:"default:false"`

	ViewCount int64 `gorm:"default:0"`
}
