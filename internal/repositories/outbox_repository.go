package repositories

import (
	"time"

	"parishlink/internal/models"

	"gorm.io/gorm"
)

type OutboxRepository interface {
	Enqueue(db *gorm.DB, email *models.EmailOutbox) error
	// FindDue returns pending rows whose next attempt time has passed,
	// oldest first.
	FindDue(db *gorm.DB, now time.Time, limit int) ([]models.EmailOutbox, error)
	MarkSent(db *gorm.DB, id string) error
	MarkFailedAttempt(db *gorm.DB, id string, attemptErr string, nextAttempt time.Time, terminal bool) error
	CountByStatus(db *gorm.DB, status models.OutboxStatus) (int64, error)
}

type OutboxRepositoryImpl struct{}

func NewOutboxRepository() OutboxRepository {
	return &OutboxRepositoryImpl{}
}

func (r *OutboxRepositoryImpl) Enqueue(db *gorm.DB, email *models.EmailOutbox) error {
	if email.NextAttemptAt.IsZero() {
		email.NextAttemptAt = time.Now()
	}
	return db.Create(email).Error
}

func (r *OutboxRepositoryImpl) FindDue(db *gorm.DB, now time.Time, limit int) ([]models.EmailOutbox, error) {
	var due []models.EmailOutbox
	err := db.Where("status = ? AND next_attempt_at <= ?", models.OutboxStatusPending, now).
		Order("next_attempt_at ASC").
		Limit(limit).
		Find(&due).Error
	return due, err
}

func (r *OutboxRepositoryImpl) MarkSent(db *gorm.DB, id string) error {
	now := time.Now()
	return db.Model(&models.EmailOutbox{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":          models.OutboxStatusSent,
		"last_attempt_at": &now,
		"last_error":      "",
	}).Error
}

func (r *OutboxRepositoryImpl) MarkFailedAttempt(db *gorm.DB, id string, attemptErr string, nextAttempt time.Time, terminal bool) error {
	now := time.Now()
	status := models.OutboxStatusPending
	if terminal {
		status = models.OutboxStatusFailed
	}
	return db.Model(&models.EmailOutbox{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":          status,
		"attempts":        gorm.Expr("attempts + 1"),
		"next_attempt_at": nextAttempt,
		"last_attempt_at": &now,
		"last_error":      attemptErr,
	}).Error
}

func (r *OutboxRepositoryImpl) CountByStatus(db *gorm.DB, status models.OutboxStatus) (int64, error) {
	var count int64
	err := db.Model(&models.EmailOutbox{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
