package chat

import "time"

// MessageReaction holds at most one row per (message, user); setting a
// second emoji replaces the first via find-and-replace in the service.
type MessageReaction struct {
	ID        string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	MessageID string `gorm:"index;not null"`
	UserID    string `gorm:"index;not null"`
	Emoji     string `gorm:"type:varchar(10);not null"`
	CreatedAt time.Time
}

func (MessageReaction) TableName() string {
	return "chat.message_reactions"
}
