package models

import "time"

// JobOpportunity is a position posted by a member, visible in the jobs
// board once approved by an admin.
type JobOpportunity struct {
	BaseModel
	PostedByUserID string `gorm:"not null;index"`
	Title          string `gorm:"not null"`
	Description    string `gorm:"type:text"`
	Company        string
	Location       string `gorm:"index"`
	Country        string
	ContactEmail   string
	ContactPhone   string

	Status          ApprovalStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	RejectionReason string
	ApprovedAt      *time.Time
	ApprovedBy      string

	ViewCount int64 `gorm:"default:0"`
}

// JobSeekerRequest mirrors JobOpportunity from the other side: a member
// advertising availability rather than an open position.
type JobSeekerRequest struct {
	BaseModel
	PostedByUserID string `gorm:"not null;index"`
	Title          string `gorm:"not null"`
	Description    string `gorm:"type:text"`
	DesiredRole    string
	Experience     string `gorm:"type:text"`
	Location       string `gorm:"index"`
	Country        string

	Status          ApprovalStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	RejectionReason string
	ApprovedAt      *time.Time
	ApprovedBy      string

	ViewCount int64 `gorm:"default:0"`
}
