package services

import (
	"parishlink/internal/repositories"
)

// ServiceContainer wires every service with its repositories once at
// startup. Handlers receive the container and nothing else.
type ServiceContainer struct {
	AuthService         *AuthService
	UserService         *UserService
	ProfileService      *ProfileService
	MessageService      *MessageService
	NotificationService *NotificationService
	JobService          *JobService
	SearchService       *SearchService
	AnalyticsService    *AnalyticsService
}

func NewServiceContainer() *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	profileRepo := repositories.NewProfileRepository()
	messageRepo := repositories.NewMessageRepository()
	notificationRepo := repositories.NewNotificationRepository()
	jobRepo := repositories.NewJobRepository()
	searchRepo := repositories.NewSearchRepository()
	outboxRepo := repositories.NewOutboxRepository()
	analyticsRepo := repositories.NewAnalyticsRepository()

	notificationService := NewNotificationService(notificationRepo, userRepo)

	return &ServiceContainer{
		AuthService:         NewAuthService(userRepo, outboxRepo, notificationService),
		UserService:         NewUserService(userRepo, outboxRepo, notificationService),
		ProfileService:      NewProfileService(profileRepo, userRepo, outboxRepo, notificationService),
		MessageService:      NewMessageService(messageRepo, userRepo, outboxRepo, notificationService),
		NotificationService: notificationService,
		JobService:          NewJobService(jobRepo, userRepo, outboxRepo, notificationService),
		SearchService:       NewSearchService(profileRepo, userRepo, searchRepo),
		AnalyticsService:    NewAnalyticsService(analyticsRepo, profileRepo, jobRepo, messageRepo, notificationRepo),
	}
}
