package repositories

import (
	"time"

	"parishlink/internal/models"

	"gorm.io/gorm"
)

type AnalyticsRepository interface {
	CountUsers(db *gorm.DB) (int64, error)
	CountUsersByRole(db *gorm.DB) (map[string]int64, error)
	CountUsersByAccountStatus(db *gorm.DB) (map[string]int64, error)
	CountRegistrations(db *gorm.DB, from, to time.Time) (int64, error)
	RegistrationsByDay(db *gorm.DB, from, to time.Time) (map[string]int64, error)
	CountOnlineUsers(db *gorm.DB) (int64, error)
}

type AnalyticsRepositoryImpl struct{}

func NewAnalyticsRepository() AnalyticsRepository {
	return &AnalyticsRepositoryImpl{}
}

func (r *AnalyticsRepositoryImpl) CountUsers(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.User{}).Count(&count).Error
	return count, err
}

func (r *AnalyticsRepositoryImpl) CountUsersByRole(db *gorm.DB) (map[string]int64, error) {
	return countGrouped(db.Model(&models.User{}), "role")
}

func (r *AnalyticsRepositoryImpl) CountUsersByAccountStatus(db *gorm.DB) (map[string]int64, error) {
	return countGrouped(db.Model(&models.User{}), "account_status")
}

func (r *AnalyticsRepositoryImpl) CountRegistrations(db *gorm.DB, from, to time.Time) (int64, error) {
	var count int64
	err := db.Model(&models.User{}).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *AnalyticsRepositoryImpl) RegistrationsByDay(db *gorm.DB, from, to time.Time) (map[string]int64, error) {
	type row struct {
		Day   time.Time
		Count int64
	}
	var rows []row
	err := db.Model(&models.User{}).
		Select("date_trunc('day', created_at) as day, count(*) as count").
		Where("created_at >= ? AND created_at <= ?", from, to).
		Group("day").
		Order("day").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, r := range rows {
		result[r.Day.Format("2006-01-02")] = r.Count
	}
	return result, nil
}

func (r *AnalyticsRepositoryImpl) CountOnlineUsers(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.User{}).Where("is_online = ?", true).Count(&count).Error
	return count, err
}

func countGrouped(query *gorm.DB, column string) (map[string]int64, error) {
	type row struct {
		Key   string
		Count int64
	}
	var rows []row
	err := query.Select(column + " as key, count(*) as count").Group(column).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, r := range rows {
		result[r.Key] = r.Count
	}
	return result, nil
}
