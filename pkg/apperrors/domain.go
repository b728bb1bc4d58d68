package apperrors

import (
	"net/http"
)

// Factories for wrapping repository errors.

// ErrNotFound converts a repository not-found error into a 404.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists converts a uniqueness violation into a 409.
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict is the generic conflict factory.
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation constructs a 400 for operations the domain rules
// do not permit in the current state.
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// Predefined domain errors.

// ErrInvalidUserRole - the operation is not defined for the caller's role.
var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"business_logic",
	"Invalid user role for this operation",
	http.StatusBadRequest,
)

// ErrCannotModifySelf - admins may not demote or delete themselves.
var ErrCannotModifySelf = New(
	CodeForbidden,
	"business_logic",
	"Operation on self is not allowed",
	http.StatusForbidden,
)

// ErrInsufficientPermissions - caller lacks the required role.
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// ErrLastAdmin - the platform must keep at least one admin account.
var ErrLastAdmin = New(
	CodeInvalidOperation,
	"business_logic",
	"Cannot demote the last remaining admin",
	http.StatusBadRequest,
)

// ErrProfileAlreadyExists - a user may have at most one profile.
var ErrProfileAlreadyExists = New(
	CodeAlreadyExists,
	"profile",
	"Profile already exists for this user",
	http.StatusConflict,
)

// ErrAccountNotApproved - account is still pending or was rejected.
var ErrAccountNotApproved = New(
	CodeForbidden,
	"auth",
	"Account has not been approved",
	http.StatusForbidden,
)

// ErrMessageAccessDenied - caller is neither sender nor recipient.
var ErrMessageAccessDenied = New(
	CodeForbidden,
	"chat",
	"Access to this message is denied",
	http.StatusForbidden,
)

// ErrMessageNotEditable - only the sender may edit or retract a message.
var ErrMessageNotEditable = New(
	CodeForbidden,
	"chat",
	"Only the sender can modify this message",
	http.StatusForbidden,
)

// ErrEmptyMessage - a message needs content or an attachment.
var ErrEmptyMessage = New(
	CodeValidationFailed,
	"chat",
	"Message must contain text or an attachment",
	http.StatusBadRequest,
)

// ErrApprovalTokenInvalid - one-click approval token is unknown,
// expired, or already used.
var ErrApprovalTokenInvalid = New(
	CodeInvalidToken,
	"approvals",
	"Approval link is invalid or has expired",
	http.StatusBadRequest,
)
