package dto

import "time"

// ---------------- Requests ----------------

type RejectAccountRequest struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,is-user-role"`
}

type HeartbeatRequest struct {
	IsOnline bool `json:"is_online"`
}

type PresenceBatchRequest struct {
	UserIDs []string `json:"user_ids" validate:"required,min=1,max=200,dive,uuid"`
}

// ---------------- Responses ----------------

type UserResponse struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	Role            string     `json:"role"`
	Denomination    string     `json:"denomination"`
	Branch          string     `json:"branch"`
	AccountStatus   string     `json:"account_status"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	IsOnline        bool       `json:"is_online"`
	LastSeen        *time.Time `json:"last_seen,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type UserListResponse struct {
	Users    []*UserResponse `json:"users"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

type PresenceResponse struct {
	UserID   string     `json:"user_id"`
	IsOnline bool       `json:"is_online"`
	// Live reflects the redis TTL key: true means a heartbeat arrived
	// within the presence window, regardless of the stored flag.
	Live     bool       `json:"live"`
	LastSeen *time.Time `json:"last_seen,omitempty"`
}
