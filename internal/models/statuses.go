package models

type UserRole string
type ApprovalStatus string
type NotificationType string
type OutboxStatus string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRolePastor UserRole = "pastor"
	UserRoleMember UserRole = "member"

	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"

	NotificationTypeProfileApproved NotificationType = "profile_approved"
	NotificationTypeProfileRejected NotificationType = "profile_rejected"
	NotificationTypeAccountApproved NotificationType = "account_approved"
	NotificationTypeAccountRejected NotificationType = "account_rejected"
	NotificationTypeJobApproved     NotificationType = "job_approved"
	NotificationTypeJobRejected     NotificationType = "job_rejected"
	NotificationTypeNewMessage      NotificationType = "new_message"
	NotificationTypePendingApproval NotificationType = "pending_approval"
	NotificationTypeRoleChanged     NotificationType = "role_changed"
	NotificationTypeSystem          NotificationType = "system"

	OutboxStatusPending OutboxStatus = "pending"
	OutboxStatusSent    OutboxStatus = "sent"
	OutboxStatusFailed  OutboxStatus = "failed"
)

// ValidApprovalStatus reports whether s is one of the three moderation
// states.
func ValidApprovalStatus(s ApprovalStatus) bool {
	switch s {
	case ApprovalStatusPending, ApprovalStatusApproved, ApprovalStatusRejected:
		return true
	}
	return false
}

// ValidUserRole reports whether r is a known role.
func ValidUserRole(r UserRole) bool {
	switch r {
	case UserRoleAdmin, UserRolePastor, UserRoleMember:
		return true
	}
	return false
}
