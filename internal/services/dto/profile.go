package dto

import "time"

// ---------------- Requests ----------------

type CreateProfileRequest struct {
	Profession string `json:"profession" validate:"required,max=100"`
	Category   string `json:"category" validate:"omitempty,max=100"`
	Skills     string `json:"skills" validate:"required,max=2000"`
	Bio        string `json:"bio" validate:"omitempty,max=5000"`
	Location   string `json:"location" validate:"omitempty,max=100"`
	Country    string `json:"country" validate:"omitempty,max=100"`
	Phone      string `json:"phone" validate:"omitempty,max=30"`
}

// UpdateProfileRequest: every update, however cosmetic, re-queues the
// profile for moderation.
type UpdateProfileRequest struct {
	Profession *string `json:"profession,omitempty" validate:"omitempty,max=100"`
	Category   *string `json:"category,omitempty" validate:"omitempty,max=100"`
	Skills     *string `json:"skills,omitempty" validate:"omitempty,max=2000"`
	Bio        *string `json:"bio,omitempty" validate:"omitempty,max=5000"`
	Location   *string `json:"location,omitempty" validate:"omitempty,max=100"`
	Country    *string `json:"country,omitempty" validate:"omitempty,max=100"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=30"`
}

type RejectRequest struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type SetVerificationRequest struct {
	EmailVerified      *bool `json:"email_verified,omitempty"`
	PhoneVerified      *bool `json:"phone_verified,omitempty"`
	PastorVerified     *bool `json:"pastor_verified,omitempty"`
	BackgroundVerified *bool `json:"background_verified,omitempty"`
}

// ---------------- Responses ----------------

type ProfileResponse struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	UserName        string     `json:"user_name,omitempty"`
	Profession      string     `json:"profession"`
	Category        string     `json:"category,omitempty"`
	Skills          string     `json:"skills"`
	Bio             string     `json:"bio,omitempty"`
	Location        string     `json:"location,omitempty"`
	Country         string     `json:"country,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	Status          string     `json:"status"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`

	EmailVerified      bool `json:"email_verified"`
	PhoneVerified      bool `json:"phone_verified"`
	PastorVerified     bool `json:"pastor_verified"`
	BackgroundVerified bool `json:"background_verified"`

	ViewCount int64     `json:"view_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProfileListResponse struct {
	Profiles []*ProfileResponse `json:"profiles"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}
