package services

import (
	"time"

	"gorm.io/gorm"

	"parishlink/internal/models"
	"parishlink/internal/repositories"
	"parishlink/internal/services/dto"
)

type AnalyticsService struct {
	analyticsRepo    repositories.AnalyticsRepository
	profileRepo      repositories.ProfileRepository
	jobRepo          repositories.JobRepository
	messageRepo      repositories.MessageRepository
	notificationRepo repositories.NotificationRepository
}

func NewAnalyticsService(
	analyticsRepo repositories.AnalyticsRepository,
	profileRepo repositories.ProfileRepository,
	jobRepo repositories.JobRepository,
	messageRepo repositories.MessageRepository,
	notificationRepo repositories.NotificationRepository,
) *AnalyticsService {
	return &AnalyticsService{
		analyticsRepo:    analyticsRepo,
		profileRepo:      profileRepo,
		jobRepo:          jobRepo,
		messageRepo:      messageRepo,
		notificationRepo: notificationRepo,
	}
}

// Dashboard aggregates the numbers the admin landing page shows. Each
// count is an independent query; a pathological one slows the endpoint
// but the payload is small.
func (s *AnalyticsService) Dashboard(db *gorm.DB) (*dto.DashboardResponse, error) {
	resp := &dto.DashboardResponse{}
	var err error

	if resp.TotalUsers, err = s.analyticsRepo.CountUsers(db); err != nil {
		return nil, dbErr("analytics", "count users", err)
	}
	if resp.UsersByRole, err = s.analyticsRepo.CountUsersByRole(db); err != nil {
		return nil, dbErr("analytics", "count users by role", err)
	}
	if resp.UsersByStatus, err = s.analyticsRepo.CountUsersByAccountStatus(db); err != nil {
		return nil, dbErr("analytics", "count users by status", err)
	}
	if resp.OnlineUsers, err = s.analyticsRepo.CountOnlineUsers(db); err != nil {
		return nil, dbErr("analytics", "count online users", err)
	}

	if resp.PendingProfiles, err = s.profileRepo.CountByStatus(db, models.ApprovalStatusPending); err != nil {
		return nil, dbErr("analytics", "count pending profiles", err)
	}
	if resp.ApprovedProfiles, err = s.profileRepo.CountByStatus(db, models.ApprovalStatusApproved); err != nil {
		return nil, dbErr("analytics", "count approved profiles", err)
	}
	if resp.RejectedProfiles, err = s.profileRepo.CountByStatus(db, models.ApprovalStatusRejected); err != nil {
		return nil, dbErr("analytics", "count rejected profiles", err)
	}

	if resp.PendingJobs, err = s.jobRepo.CountOpportunitiesByStatus(db, models.ApprovalStatusPending); err != nil {
		return nil, dbErr("analytics", "count pending jobs", err)
	}
	if resp.ApprovedJobs, err = s.jobRepo.CountOpportunitiesByStatus(db, models.ApprovalStatusApproved); err != nil {
		return nil, dbErr("analytics", "count approved jobs", err)
	}
	if resp.PendingSeekers, err = s.jobRepo.CountSeekerRequestsByStatus(db, models.ApprovalStatusPending); err != nil {
		return nil, dbErr("analytics", "count pending seekers", err)
	}

	if resp.MessagesLast24h, err = s.messageRepo.CountSince(db, time.Now().Add(-24*time.Hour)); err != nil {
		return nil, dbErr("analytics", "count recent messages", err)
	}
	if resp.NotificationsByType, err = s.notificationRepo.CountByType(db); err != nil {
		return nil, dbErr("analytics", "count notifications by type", err)
	}

	return resp, nil
}

// RegistrationStats buckets signups by day over the window.
func (s *AnalyticsService) RegistrationStats(db *gorm.DB, days int) (*dto.RegistrationStatsResponse, error) {
	if days < 1 || days > 365 {
		days = 30
	}
	to := time.Now()
	from := to.AddDate(0, 0, -days)

	total, err := s.analyticsRepo.CountRegistrations(db, from, to)
	if err != nil {
		return nil, dbErr("analytics", "count registrations", err)
	}
	byDay, err := s.analyticsRepo.RegistrationsByDay(db, from, to)
	if err != nil {
		return nil, dbErr("analytics", "bucket registrations", err)
	}

	return &dto.RegistrationStatsResponse{Total: total, ByDay: byDay}, nil
}
