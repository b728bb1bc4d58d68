package dto

import "time"

// ---------------- Requests ----------------

type BroadcastNotificationRequest struct {
	UserIDs []string               `json:"user_ids" validate:"required,min=1"`
	Title   string                 `json:"title" validate:"required,max=100"`
	Message string                 `json:"message" validate:"required,max=2000"`
	Data    map[string]interface{} `json:"data"`
}

type MarkMultipleReadRequest struct {
	NotificationIDs []string `json:"notification_ids" validate:"required,min=1"`
}

// ---------------- Responses ----------------

type NotificationResponse struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	IsRead    bool                   `json:"is_read"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int64                   `json:"total"`
	Page          int                     `json:"page"`
	PageSize      int                     `json:"page_size"`
}

type UnreadCountResponse struct {
	Count int64 `json:"unread_count"`
}
