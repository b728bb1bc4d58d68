package services

import (
	"net/http"

	"parishlink/pkg/apperrors"
)

// dbErr wraps a storage failure into the shared error envelope. op is
// the failed operation in past-tense-free form ("load user").
func dbErr(domain, op string, err error) *apperrors.AppError {
	return apperrors.Wrap(err, apperrors.CodeDatabaseError, domain, "failed to "+op, http.StatusInternalServerError)
}
