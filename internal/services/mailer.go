package services

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"parishlink/internal/logger"
	"parishlink/internal/models"
	"parishlink/internal/repositories"
)

// enqueueEmail writes an outbox row for the worker to deliver. Failures
// are logged and swallowed; email is always best-effort relative to the
// primary operation. Subject is filled in at render time, the stored
// value is only a placeholder for inspection.
func enqueueEmail(db *gorm.DB, outboxRepo repositories.OutboxRepository, recipient, template string, data map[string]interface{}) {
	raw, err := json.Marshal(data)
	if err != nil {
		logger.WithError(err).Warn("outbox payload marshal failed", "template", template)
		return
	}
	row := &models.EmailOutbox{
		Recipient: recipient,
		Template:  template,
		Subject:   template,
		Data:      datatypes.JSON(raw),
		Status:    models.OutboxStatusPending,
	}
	if err := outboxRepo.Enqueue(db, row); err != nil {
		logger.WithError(err).Warn("outbox enqueue failed", "template", template, "recipient", recipient)
	}
}
