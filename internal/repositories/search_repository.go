package repositories

import (
	"parishlink/internal/models"

	"gorm.io/gorm"
)

type SearchRepository interface {
	RecordSearch(db *gorm.DB, entry *models.SearchHistory) error
	// FindRecent returns the user's newest entries, capped at limit.
	// Older rows stay in the table; trimming is a read-time policy.
	FindRecent(db *gorm.DB, userID string, limit int) ([]models.SearchHistory, error)
	ClearForUser(db *gorm.DB, userID string) error
}

type SearchRepositoryImpl struct{}

func NewSearchRepository() SearchRepository {
	return &SearchRepositoryImpl{}
}

func (r *SearchRepositoryImpl) RecordSearch(db *gorm.DB, entry *models.SearchHistory) error {
	return db.Create(entry).Error
}

func (r *SearchRepositoryImpl) FindRecent(db *gorm.DB, userID string, limit int) ([]models.SearchHistory, error) {
	var entries []models.SearchHistory
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *SearchRepositoryImpl) ClearForUser(db *gorm.DB, userID string) error {
	return db.Delete(&models.SearchHistory{}, "user_id = ?", userID).Error
}
