package repositories

import (
	"encoding/json"
	"errors"
	"time"

	"parishlink/internal/models/chat"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrMessageNotFound = errors.New("message not found")
)

type MessageRepository interface {
	Create(db *gorm.DB, message *chat.Message) error
	FindByID(db *gorm.DB, id string) (*chat.Message, error)
	Update(db *gorm.DB, message *chat.Message) error

	// FindForUser returns every message the user sent or received,
	// reactions preloaded. The inbox aggregator consumes the full set.
	FindForUser(db *gorm.DB, userID string) ([]chat.Message, error)
	// FindBetween returns the full two-way history between two users,
	// oldest first.
	FindBetween(db *gorm.DB, userA, userB string) ([]chat.Message, error)

	MarkRead(db *gorm.DB, messageID string) error
	MarkThreadRead(db *gorm.DB, toUserID, fromUserID string) (int64, error)
	CountUnread(db *gorm.DB, toUserID string) (int64, error)

	// Reactions: one row per (message, user), replaced on change.
	UpsertReaction(db *gorm.DB, messageID, userID, emoji string) error
	RemoveReaction(db *gorm.DB, messageID, userID string) error
	FindReactions(db *gorm.DB, messageID string) ([]chat.MessageReaction, error)

	// Typing indicators: last write wins per pair.
	UpsertTyping(db *gorm.DB, userID, conversationWith string, isTyping bool) error
	FindTyping(db *gorm.DB, userID, conversationWith string) (*chat.TypingIndicator, error)

	CountSince(db *gorm.DB, since time.Time) (int64, error)
}

type MessageRepositoryImpl struct{}

func NewMessageRepository() MessageRepository {
	return &MessageRepositoryImpl{}
}

func (r *MessageRepositoryImpl) Create(db *gorm.DB, message *chat.Message) error {
	return db.Create(message).Error
}

func (r *MessageRepositoryImpl) FindByID(db *gorm.DB, id string) (*chat.Message, error) {
	var message chat.Message
	err := db.Preload("Reactions").First(&message, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &message, nil
}

func (r *MessageRepositoryImpl) Update(db *gorm.DB, message *chat.Message) error {
	return db.Save(message).Error
}

func (r *MessageRepositoryImpl) FindForUser(db *gorm.DB, userID string) ([]chat.Message, error) {
	var messages []chat.Message
	err := db.Preload("Reactions").
		Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

func (r *MessageRepositoryImpl) FindBetween(db *gorm.DB, userA, userB string) ([]chat.Message, error) {
	var messages []chat.Message
	err := db.Preload("Reactions").
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)",
			userA, userB, userB, userA).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

func (r *MessageRepositoryImpl) MarkRead(db *gorm.DB, messageID string) error {
	now := time.Now()
	return db.Model(&chat.Message{}).Where("id = ?", messageID).Updates(map[string]interface{}{
		"is_read": true,
		"read_at": &now,
	}).Error
}

func (r *MessageRepositoryImpl) MarkThreadRead(db *gorm.DB, toUserID, fromUserID string) (int64, error) {
	now := time.Now()
	result := db.Model(&chat.Message{}).
		Where("to_user_id = ? AND from_user_id = ? AND is_read = ?", toUserID, fromUserID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": &now,
		})
	return result.RowsAffected, result.Error
}

// CountUnread feeds the inbox badge. It applies the same visibility
// rules as the aggregator: retracted messages and messages the viewer
// deleted for themselves never count.
func (r *MessageRepositoryImpl) CountUnread(db *gorm.DB, toUserID string) (int64, error) {
	hidden, err := json.Marshal([]string{toUserID})
	if err != nil {
		return 0, err
	}
	var count int64
	err = db.Model(&chat.Message{}).
		Where("to_user_id = ? AND is_read = ? AND deleted_for_everyone = ?", toUserID, false, false).
		Where("deleted_for IS NULL OR NOT (deleted_for @> ?)", datatypes.JSON(hidden)).
		Count(&count).Error
	return count, err
}

func (r *MessageRepositoryImpl) UpsertReaction(db *gorm.DB, messageID, userID, emoji string) error {
	var existing chat.MessageReaction
	err := db.First(&existing, "message_id = ? AND user_id = ?", messageID, userID).Error
	if err == nil {
		existing.Emoji = emoji
		existing.CreatedAt = time.Now()
		return db.Save(&existing).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return db.Create(&chat.MessageReaction{
		MessageID: messageID,
		UserID:    userID,
		Emoji:     emoji,
	}).Error
}

func (r *MessageRepositoryImpl) RemoveReaction(db *gorm.DB, messageID, userID string) error {
	return db.Delete(&chat.MessageReaction{}, "message_id = ? AND user_id = ?", messageID, userID).Error
}

func (r *MessageRepositoryImpl) FindReactions(db *gorm.DB, messageID string) ([]chat.MessageReaction, error) {
	var reactions []chat.MessageReaction
	err := db.Where("message_id = ?", messageID).Find(&reactions).Error
	return reactions, err
}

func (r *MessageRepositoryImpl) UpsertTyping(db *gorm.DB, userID, conversationWith string, isTyping bool) error {
	var existing chat.TypingIndicator
	err := db.First(&existing, "user_id = ? AND conversation_with = ?", userID, conversationWith).Error
	if err == nil {
		return db.Model(&chat.TypingIndicator{}).
			Where("id = ?", existing.ID).
			Updates(map[string]interface{}{
				"is_typing":  isTyping,
				"updated_at": time.Now(),
			}).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return db.Create(&chat.TypingIndicator{
		UserID:           userID,
		ConversationWith: conversationWith,
		IsTyping:         isTyping,
	}).Error
}

func (r *MessageRepositoryImpl) FindTyping(db *gorm.DB, userID, conversationWith string) (*chat.TypingIndicator, error) {
	var indicator chat.TypingIndicator
	err := db.First(&indicator, "user_id = ? AND conversation_with = ?", userID, conversationWith).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &indicator, nil
}

func (r *MessageRepositoryImpl) CountSince(db *gorm.DB, since time.Time) (int64, error) {
	var count int64
	err := db.Model(&chat.Message{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}
