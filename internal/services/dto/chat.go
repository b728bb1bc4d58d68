package dto

import "time"

// ---------------- Requests ----------------

type SendMessageRequest struct {
	ToUserID       string  `json:"to_user_id" validate:"required,uuid"`
	Content        string  `json:"content" validate:"omitempty,max=5000"`
	AttachmentURL  *string `json:"attachment_url,omitempty" validate:"omitempty,url"`
	AttachmentName *string `json:"attachment_name,omitempty" validate:"omitempty,max=255"`
}

type EditMessageRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

type ReactionRequest struct {
	Emoji string `json:"emoji" validate:"required,max=10"`
}

type DeleteMessageRequest struct {
	// "me" hides the message for the caller only; "everyone" retracts
	// it for both sides and is restricted to the sender.
	Scope string `json:"scope" validate:"required,oneof=me everyone"`
}

type TypingRequest struct {
	ConversationWith string `json:"conversation_with" validate:"required,uuid"`
	IsTyping         bool   `json:"is_typing"`
}

// ---------------- Responses ----------------

type ReactionResponse struct {
	UserID string `json:"user_id"`
	Emoji  string `json:"emoji"`
}

type ChatMessageResponse struct {
	ID             string             `json:"id"`
	FromUserID     string             `json:"from_user_id"`
	ToUserID       string             `json:"to_user_id"`
	Content        string             `json:"content"`
	AttachmentURL  *string            `json:"attachment_url,omitempty"`
	AttachmentName *string            `json:"attachment_name,omitempty"`
	IsRead         bool               `json:"is_read"`
	ReadAt         *time.Time         `json:"read_at,omitempty"`
	EditedAt       *time.Time         `json:"edited_at,omitempty"`
	Reactions      []ReactionResponse `json:"reactions,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

// ConversationResponse is one inbox thread: the counterpart, the newest
// message as preview, the unread count and the full ascending history.
// Counterpart is null when the other account was deleted; the client
// renders "Unknown User".
type ConversationResponse struct {
	CounterpartID string                 `json:"counterpart_id"`
	Counterpart   *UserResponse          `json:"counterpart"`
	LastMessage   *ChatMessageResponse   `json:"last_message"`
	UnreadCount   int                    `json:"unread_count"`
	Messages      []*ChatMessageResponse `json:"messages"`
}

type InboxResponse struct {
	Conversations []*ConversationResponse `json:"conversations"`
	TotalUnread   int                     `json:"total_unread"`
}

type TypingResponse struct {
	UserID    string    `json:"user_id"`
	IsTyping  bool      `json:"is_typing"`
	UpdatedAt time.Time `json:"updated_at"`
}
