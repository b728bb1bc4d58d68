package handlers

import (
	"parishlink/internal/services"
)

// AppHandlers aggregates every HTTP handler for route registration.
type AppHandlers struct {
	Auth          *AuthHandler
	Users         *UserHandler
	Profiles      *ProfileHandler
	Messages      *MessageHandler
	Notifications *NotificationHandler
	Jobs          *JobHandler
	Search        *SearchHandler
	Analytics     *AnalyticsHandler
}

func NewAppHandlers(sc *services.ServiceContainer) *AppHandlers {
	base := NewBaseHandler()
	return &AppHandlers{
		Auth:          NewAuthHandler(base, sc.AuthService, sc.UserService),
		Users:         NewUserHandler(base, sc.UserService),
		Profiles:      NewProfileHandler(base, sc.ProfileService),
		Messages:      NewMessageHandler(base, sc.MessageService),
		Notifications: NewNotificationHandler(base, sc.NotificationService),
		Jobs:          NewJobHandler(base, sc.JobService),
		Search:        NewSearchHandler(base, sc.SearchService),
		Analytics:     NewAnalyticsHandler(base, sc.AnalyticsService),
	}
}
