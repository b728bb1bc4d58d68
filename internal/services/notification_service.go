package services

import (
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"parishlink/internal/logger"
	"parishlink/internal/models"
	"parishlink/internal/repositories"
	"parishlink/internal/services/dto"
	"parishlink/pkg/apperrors"
)

type NotificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	pusher           RealtimePusher
}

// SetPusher attaches the websocket hub after construction. Optional.
func (s *NotificationService) SetPusher(p RealtimePusher) {
	s.pusher = p
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

// Notify inserts a single in-app notification. Callers treat failures
// as non-fatal: a missed notification never rolls back the operation
// that produced it.
func (s *NotificationService) Notify(db *gorm.DB, userID string, ntype models.NotificationType, title, message string, data map[string]interface{}) error {
	payload, err := marshalData(data)
	if err != nil {
		return apperrors.InternalError(err)
	}
	n := &models.Notification{
		UserID:  userID,
		Type:    ntype,
		Title:   title,
		Message: message,
		Data:    payload,
	}
	if err := s.notificationRepo.Create(db, n); err != nil {
		return dbErr("notification", "create notification", err)
	}
	if s.pusher != nil {
		s.pusher.PushToUser(userID, "notification", toNotificationResponse(n))
	}
	return nil
}

// NotifyMany inserts one row per recipient. Each insert is independent
// and no dedup is attempted: two moderators rejecting the same profile
// produce two notifications.
func (s *NotificationService) NotifyMany(db *gorm.DB, userIDs []string, ntype models.NotificationType, title, message string, data map[string]interface{}) error {
	if len(userIDs) == 0 {
		return nil
	}
	payload, err := marshalData(data)
	if err != nil {
		return apperrors.InternalError(err)
	}
	notifications := make([]*models.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		notifications = append(notifications, &models.Notification{
			UserID:  id,
			Type:    ntype,
			Title:   title,
			Message: message,
			Data:    payload,
		})
	}
	if err := s.notificationRepo.CreateBulk(db, notifications); err != nil {
		return dbErr("notification", "create notifications", err)
	}
	return nil
}

// NotifyModerators fans out to every admin and pastor. Used when a new
// account or piece of content lands in the moderation queue.
func (s *NotificationService) NotifyModerators(db *gorm.DB, ntype models.NotificationType, title, message string, data map[string]interface{}) error {
	admins, err := s.userRepo.FindByRole(db, models.UserRoleAdmin)
	if err != nil {
		return dbErr("notification", "load admins", err)
	}
	pastors, err := s.userRepo.FindByRole(db, models.UserRolePastor)
	if err != nil {
		return dbErr("notification", "load pastors", err)
	}

	ids := make([]string, 0, len(admins)+len(pastors))
	for _, u := range admins {
		ids = append(ids, u.ID)
	}
	for _, u := range pastors {
		ids = append(ids, u.ID)
	}
	return s.NotifyMany(db, ids, ntype, title, message, data)
}

// NotifyAdmins targets admins only. The job board is moderated by
// admins, so pastors are left out of its submission alerts.
func (s *NotificationService) NotifyAdmins(db *gorm.DB, ntype models.NotificationType, title, message string, data map[string]interface{}) error {
	admins, err := s.userRepo.FindByRole(db, models.UserRoleAdmin)
	if err != nil {
		return dbErr("notification", "load admins", err)
	}
	ids := make([]string, 0, len(admins))
	for _, u := range admins {
		ids = append(ids, u.ID)
	}
	return s.NotifyMany(db, ids, ntype, title, message, data)
}

// Broadcast is the admin-facing bulk send. Recipients are not checked
// for existence; a dangling id produces an orphan row the user will
// never read, which is harmless.
func (s *NotificationService) Broadcast(db *gorm.DB, req *dto.BroadcastNotificationRequest) (int, error) {
	if err := s.NotifyMany(db, req.UserIDs, models.NotificationTypeSystem, req.Title, req.Message, req.Data); err != nil {
		return 0, err
	}
	return len(req.UserIDs), nil
}

func (s *NotificationService) List(db *gorm.DB, userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error) {
	notifications, total, err := s.notificationRepo.FindForUser(db, userID, criteria)
	if err != nil {
		return nil, dbErr("notification", "list notifications", err)
	}

	resp := &dto.NotificationListResponse{
		Notifications: make([]*dto.NotificationResponse, 0, len(notifications)),
		Total:         total,
		Page:          criteria.Page,
		PageSize:      criteria.PageSize,
	}
	for i := range notifications {
		resp.Notifications = append(resp.Notifications, toNotificationResponse(&notifications[i]))
	}
	return resp, nil
}

func (s *NotificationService) MarkRead(db *gorm.DB, userID, notificationID string) error {
	n, err := s.notificationRepo.FindByID(db, notificationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return dbErr("notification", "load notification", err)
	}
	if n.UserID != userID {
		return apperrors.NewForbiddenError("notification belongs to another user")
	}
	if err := s.notificationRepo.MarkAsRead(db, notificationID); err != nil {
		return dbErr("notification", "mark notification read", err)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(db *gorm.DB, userID string) error {
	if err := s.notificationRepo.MarkAllAsRead(db, userID); err != nil {
		return dbErr("notification", "mark notifications read", err)
	}
	return nil
}

// MarkMultipleRead only touches rows owned by the caller; foreign ids
// in the list are silently skipped rather than erroring the batch.
func (s *NotificationService) MarkMultipleRead(db *gorm.DB, userID string, notificationIDs []string) error {
	owned := make([]string, 0, len(notificationIDs))
	for _, id := range notificationIDs {
		n, err := s.notificationRepo.FindByID(db, id)
		if err != nil {
			continue
		}
		if n.UserID == userID {
			owned = append(owned, id)
		}
	}
	if len(owned) == 0 {
		return nil
	}
	if err := s.notificationRepo.MarkMultipleAsRead(db, owned); err != nil {
		return dbErr("notification", "mark notifications read", err)
	}
	return nil
}

func (s *NotificationService) Delete(db *gorm.DB, userID, notificationID string) error {
	n, err := s.notificationRepo.FindByID(db, notificationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return dbErr("notification", "load notification", err)
	}
	if n.UserID != userID {
		return apperrors.NewForbiddenError("notification belongs to another user")
	}
	if err := s.notificationRepo.Delete(db, notificationID); err != nil {
		return dbErr("notification", "delete notification", err)
	}
	return nil
}

func (s *NotificationService) DeleteAll(db *gorm.DB, userID string) error {
	if err := s.notificationRepo.DeleteForUser(db, userID); err != nil {
		return dbErr("notification", "delete notifications", err)
	}
	return nil
}

func (s *NotificationService) UnreadCount(db *gorm.DB, userID string) (int64, error) {
	count, err := s.notificationRepo.GetUnreadCount(db, userID)
	if err != nil {
		return 0, dbErr("notification", "count unread notifications", err)
	}
	return count, nil
}

// notifyBestEffort logs and swallows notification errors. Used inside
// primary operations where the notification is a side effect.
func (s *NotificationService) notifyBestEffort(db *gorm.DB, userID string, ntype models.NotificationType, title, message string, data map[string]interface{}) {
	if err := s.Notify(db, userID, ntype, title, message, data); err != nil {
		logger.WithError(err).Warn("notification insert failed", "user_id", userID, "type", string(ntype))
	}
}

func marshalData(data map[string]interface{}) (datatypes.JSON, error) {
	if data == nil {
		return nil, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func toNotificationResponse(n *models.Notification) *dto.NotificationResponse {
	resp := &dto.NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
	if len(n.Data) > 0 {
		var data map[string]interface{}
		if err := json.Unmarshal(n.Data, &data); err == nil {
			resp.Data = data
		}
	}
	return resp
}
