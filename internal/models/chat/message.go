package chat

import (
	"time"

	"gorm.io/datatypes"
)

// Message is a directed edge between two users. Creation time is
// immutable; read state, reactions, edits and soft deletes mutate the
// row in place with last-write-wins semantics.
type Message struct {
	ID         string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	FromUserID string `gorm:"index;not null"`
	ToUserID   string `gorm:"index;not null"`
	Content    string `gorm:"type:text"`

	AttachmentURL  *string
	AttachmentName *string

	IsRead bool `gorm:"default:false"`
	ReadAt *time.Time

	EditedAt *time.Time

	// DeletedFor holds user ids the message is hidden from.
	// DeletedForEveryone retracts it for both sides (sender only).
	DeletedFor         datatypes.JSON `gorm:"type:jsonb"`
	DeletedForEveryone bool           `gorm:"default:false"`

	CreatedAt time.Time

	Reactions []MessageReaction `gorm:"foreignKey:MessageID"`
}

func (Message) TableName() string {
	return "chat.messages"
}
