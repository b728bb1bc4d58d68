package dto

import "time"

// ---------------- Requests ----------------

type CreateJobOpportunityRequest struct {
	Title        string `json:"title" validate:"required,max=150"`
	Description  string `json:"description" validate:"required,max=10000"`
	Company      string `json:"company" validate:"omitempty,max=150"`
	Location     string `json:"location" validate:"omitempty,max=100"`
	Country      string `json:"country" validate:"omitempty,max=100"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone string `json:"contact_phone" validate:"omitempty,max=30"`
}

type UpdateJobOpportunityRequest struct {
	Title        *string `json:"title,omitempty" validate:"omitempty,max=150"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=10000"`
	Company      *string `json:"company,omitempty" validate:"omitempty,max=150"`
	Location     *string `json:"location,omitempty" validate:"omitempty,max=100"`
	Country      *string `json:"country,omitempty" validate:"omitempty,max=100"`
	ContactEmail *string `json:"contact_email,omitempty" validate:"omitempty,email"`
	ContactPhone *string `json:"contact_phone,omitempty" validate:"omitempty,max=30"`
}

type CreateJobSeekerRequestRequest struct {
	Title       string `json:"title" validate:"required,max=150"`
	Description string `json:"description" validate:"required,max=10000"`
	DesiredRole string `json:"desired_role" validate:"omitempty,max=150"`
	Experience  string `json:"experience" validate:"omitempty,max=10000"`
	Location    string `json:"location" validate:"omitempty,max=100"`
	Country     string `json:"country" validate:"omitempty,max=100"`
}

type UpdateJobSeekerRequestRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=150"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=10000"`
	DesiredRole *string `json:"desired_role,omitempty" validate:"omitempty,max=150"`
	Experience  *string `json:"experience,omitempty" validate:"omitempty,max=10000"`
	Location    *string `json:"location,omitempty" validate:"omitempty,max=100"`
	Country     *string `json:"country,omitempty" validate:"omitempty,max=100"`
}

// ---------------- Responses ----------------

type JobOpportunityResponse struct {
	ID              string     `json:"id"`
	PostedByUserID  string     `json:"posted_by_user_id"`
	PostedByName    string     `json:"posted_by_name,omitempty"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Company         string     `json:"company,omitempty"`
	Location        string     `json:"location,omitempty"`
	Country         string     `json:"country,omitempty"`
	ContactEmail    string     `json:"contact_email,omitempty"`
	ContactPhone    string     `json:"contact_phone,omitempty"`
	Status          string     `json:"status"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	ViewCount       int64      `json:"view_count"`
	CreatedAt       time.Time  `json:"created_at"`
}

type JobSeekerRequestResponse struct {
	ID              string     `json:"id"`
	PostedByUserID  string     `json:"posted_by_user_id"`
	PostedByName    string     `json:"posted_by_name,omitempty"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	DesiredRole     string     `json:"desired_role,omitempty"`
	Experience      string     `json:"experience,omitempty"`
	Location        string     `json:"location,omitempty"`
	Country         string     `json:"country,omitempty"`
	Status          string     `json:"status"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	ViewCount       int64      `json:"view_count"`
	CreatedAt       time.Time  `json:"created_at"`
}

type JobOpportunityListResponse struct {
	Jobs     []*JobOpportunityResponse `json:"jobs"`
	Total    int64                     `json:"total"`
	Page     int                       `json:"page"`
	PageSize int                       `json:"page_size"`
}

type JobSeekerRequestListResponse struct {
	Requests []*JobSeekerRequestResponse `json:"requests"`
	Total    int64                       `json:"total"`
	Page     int                         `json:"page"`
	PageSize int                         `json:"page_size"`
}
