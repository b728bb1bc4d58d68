package models

import "time"

type User struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null"`
	PasswordHash string   `gorm:"not null"`
	Name         string   `gorm:"not null"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'member'"`
	Denomination string   `gorm:"index"`
	Branch       string   `gorm:"index"`

	// Account moderation. Members start pending and must be approved by
	// a pastor or admin before the rest of the API opens up.
	AccountStatus          ApprovalStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	AccountRejectionReason string
	AccountApprovedAt      *time.Time
	AccountApprovedBy      string

	// Presence is a last-write-wins hint written by client heartbeats;
	// there is no server-side sweep.
	IsOnline bool `gorm:"default:false"`
	LastSeen *time.Time

	IsVerified bool `gorm:"default:false"`

	// Relations
	Profile       *Profile       `gorm:"foreignKey:UserID"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}

// ApprovalToken backs the one-click account approval link sent to
// moderators by email. Single-use with expiry.
type ApprovalToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
	UsedAt    *time.Time
}
