package models

import (
	"time"

	"gorm.io/datatypes"
)

// EmailOutbox is a queued outbound email. Mutations only insert rows;
// the outbox worker owns delivery, retries and failure accounting, so a
// mail provider outage never fails or slows the primary operation.
type EmailOutbox struct {
	BaseModel
	Recipient string         `gorm:"not null"`
	Subject   string         `gorm:"not null"`
	Template  string         `gorm:"not null"`
	Data      datatypes.JSON `gorm:"type:jsonb"`

	Status        OutboxStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Attempts      int          `gorm:"default:0"`
	NextAttemptAt time.Time    `gorm:"index"`
	LastAttemptAt *time.Time
	LastError     string
}
