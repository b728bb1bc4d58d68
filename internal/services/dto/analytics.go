package dto

type DashboardResponse struct {
	TotalUsers        int64            `json:"total_users"`
	UsersByRole       map[string]int64 `json:"users_by_role"`
	UsersByStatus     map[string]int64 `json:"users_by_status"`
	OnlineUsers       int64            `json:"online_users"`
	PendingProfiles   int64            `json:"pending_profiles"`
	ApprovedProfiles  int64            `json:"approved_profiles"`
	RejectedProfiles  int64            `json:"rejected_profiles"`
	PendingJobs       int64            `json:"pending_jobs"`
	ApprovedJobs      int64            `json:"approved_jobs"`
	PendingSeekers    int64            `json:"pending_seekers"`
	MessagesLast24h   int64            `json:"messages_last_24h"`
	NotificationsByType map[string]int64 `json:"notifications_by_type"`
}

type RegistrationStatsResponse struct {
	Total int64            `json:"total"`
	ByDay map[string]int64 `json:"by_day"`
}
