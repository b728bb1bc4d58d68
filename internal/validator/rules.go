package validator

import (
	"log"

	"parishlink/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules installs the domain validation tags. A failed
// registration is a startup error, not a runtime one.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-approval-status", validateApprovalStatus)
	mustRegister("is-notification-type", validateNotificationType)
	mustRegister("is-job-kind", validateJobKind)
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // empty is handled by 'required'
	}
	return models.ValidUserRole(models.UserRole(value))
}

func validateApprovalStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ValidApprovalStatus(models.ApprovalStatus(value))
}

func validateNotificationType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.NotificationType(value) {
	case models.NotificationTypeProfileApproved,
		models.NotificationTypeProfileRejected,
		models.NotificationTypeAccountApproved,
		models.NotificationTypeAccountRejected,
		models.NotificationTypeJobApproved,
		models.NotificationTypeJobRejected,
		models.NotificationTypeNewMessage,
		models.NotificationTypePendingApproval,
		models.NotificationTypeRoleChanged,
		models.NotificationTypeSystem:
		return true
	default:
		return false
	}
}

func validateJobKind(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return value == "opportunity" || value == "seeker"
}
