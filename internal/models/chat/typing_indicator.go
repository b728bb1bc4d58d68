package chat

import "time"

// TypingIndicator is ephemeral last-write-wins state keyed by the
// (user, counterpart) pair, overwritten on every keystroke debounce.
type TypingIndicator struct {
	ID               string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID           string `gorm:"not null;uniqueIndex:idx_typing_pair"`
	ConversationWith string `gorm:"not null;uniqueIndex:idx_typing_pair"`
	IsTyping         bool   `gorm:"default:false"`
	UpdatedAt        time.Time
}

func (TypingIndicator) TableName() string {
	return "chat.typing_indicators"
}
