package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"parishlink/internal/config"
	"parishlink/internal/database"
	"parishlink/internal/email"
	"parishlink/internal/logger"
	"parishlink/internal/models"
	"parishlink/internal/repositories"
	"parishlink/internal/services/dto"
	"parishlink/pkg/apperrors"
)

type UserService struct {
	userRepo            repositories.UserRepository
	outboxRepo          repositories.OutboxRepository
	notificationService *NotificationService
}

func NewUserService(
	userRepo repositories.UserRepository,
	outboxRepo repositories.OutboxRepository,
	notificationService *NotificationService,
) *UserService {
	return &UserService{
		userRepo:            userRepo,
		outboxRepo:          outboxRepo,
		notificationService: notificationService,
	}
}

func (s *UserService) GetByID(db *gorm.DB, userID string) (*dto.UserResponse, error) {
	user, err := s.loadUser(db, userID)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *UserService) List(db *gorm.DB, page, pageSize int) (*dto.UserListResponse, error) {
	limit, offset := pageBounds(page, pageSize)
	users, total, err := s.userRepo.FindAll(db, limit, offset)
	if err != nil {
		return nil, dbErr("user", "list users", err)
	}
	return toUserListResponse(users, total, page, pageSize), nil
}

func (s *UserService) ListPendingAccounts(db *gorm.DB, page, pageSize int) (*dto.UserListResponse, error) {
	limit, offset := pageBounds(page, pageSize)
	users, total, err := s.userRepo.FindByAccountStatus(db, models.ApprovalStatusPending, limit, offset)
	if err != nil {
		return nil, dbErr("user", "list pending accounts", err)
	}
	return toUserListResponse(users, total, page, pageSize), nil
}

// ApproveAccount moves an account to approved, notifies the member and
// queues the welcome email. Approving an already approved account is a
// no-op state-wise but still re-sends the side effects.
func (s *UserService) ApproveAccount(db *gorm.DB, userID, approverID string) (*dto.UserResponse, error) {
	user, err := s.loadUser(db, userID)
	if err != nil {
		return nil, err
	}

	next, err := ApplyModeration(user.AccountStatus, ActionApprove)
	if err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}
	if err := s.userRepo.UpdateAccountStatus(db, userID, next, "", approverID); err != nil {
		return nil, dbErr("user", "approve account", err)
	}

	s.notificationService.notifyBestEffort(db, userID,
		models.NotificationTypeAccountApproved,
		"Your account has been approved",
		"Welcome! You can now create your professional profile.",
		nil)
	enqueueEmail(db, s.outboxRepo, user.Email, email.TemplateAccountApproved, map[string]interface{}{
		"name":      user.Name,
		"login_url": config.GetConfig().App.PublicURL + "/login",
	})

	user.AccountStatus = next
	user.AccountRejectionReason = ""
	return toUserResponse(user), nil
}

// RejectAccount records the rejection with an optional reason. Repeat
// rejections are allowed; each one notifies again.
func (s *UserService) RejectAccount(db *gorm.DB, userID, approverID, reason string) (*dto.UserResponse, error) {
	user, err := s.loadUser(db, userID)
	if err != nil {
		return nil, err
	}

	next, err := ApplyModeration(user.AccountStatus, ActionReject)
	if err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}
	reason = RejectionReasonOrDefault(reason)
	if err := s.userRepo.UpdateAccountStatus(db, userID, next, reason, approverID); err != nil {
		return nil, dbErr("user", "reject account", err)
	}

	s.notificationService.notifyBestEffort(db, userID,
		models.NotificationTypeAccountRejected,
		"Your account was not approved",
		reason,
		nil)
	enqueueEmail(db, s.outboxRepo, user.Email, email.TemplateAccountRejected, map[string]interface{}{
		"name":   user.Name,
		"reason": reason,
	})

	user.AccountStatus = next
	user.AccountRejectionReason = reason
	return toUserResponse(user), nil
}

// ApproveAccountByToken consumes a one-click approval token from an
// email link. The token is single-use and expires; either failure mode
// maps to the same error so the page cannot be probed.
func (s *UserService) ApproveAccountByToken(db *gorm.DB, token string) (*dto.UserResponse, error) {
	record, err := s.userRepo.FindApprovalToken(db, token)
	if err != nil {
		if errors.Is(err, repositories.ErrTokenNotFound) {
			return nil, apperrors.ErrApprovalTokenInvalid
		}
		return nil, dbErr("user", "load approval token", err)
	}
	if record.UsedAt != nil || time.Now().After(record.ExpiresAt) {
		return nil, apperrors.ErrApprovalTokenInvalid
	}

	// Consume and approve atomically: a failed approval must not burn
	// the moderator's only link.
	var resp *dto.UserResponse
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.MarkApprovalTokenUsed(tx, record.ID); err != nil {
			return dbErr("user", "consume approval token", err)
		}
		approved, err := s.ApproveAccount(tx, record.UserID, "email-link")
		if err != nil {
			return err
		}
		resp = approved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ChangeRole updates a user's role. Guards: a user cannot change their
// own role, and the last admin cannot be demoted.
func (s *UserService) ChangeRole(db *gorm.DB, userID, actorID string, newRole models.UserRole) (*dto.UserResponse, error) {
	if !models.ValidUserRole(newRole) {
		return nil, apperrors.ErrInvalidUserRole
	}
	if userID == actorID {
		return nil, apperrors.ErrCannotModifySelf
	}

	user, err := s.loadUser(db, userID)
	if err != nil {
		return nil, err
	}

	if user.Role == models.UserRoleAdmin && newRole != models.UserRoleAdmin {
		count, err := s.userRepo.CountByRole(db, models.UserRoleAdmin)
		if err != nil {
			return nil, dbErr("user", "count admins", err)
		}
		if count <= 1 {
			return nil, apperrors.ErrLastAdmin
		}
	}

	if err := s.userRepo.UpdateRole(db, userID, newRole); err != nil {
		return nil, dbErr("user", "change role", err)
	}

	s.notificationService.notifyBestEffort(db, userID,
		models.NotificationTypeRoleChanged,
		"Your role has changed",
		fmt.Sprintf("You are now a %s", newRole),
		map[string]interface{}{"role": string(newRole)})

	user.Role = newRole
	return toUserResponse(user), nil
}

// DeleteUser removes an account. The last admin cannot be deleted.
func (s *UserService) DeleteUser(db *gorm.DB, userID, actorID string) error {
	if userID == actorID {
		return apperrors.ErrCannotModifySelf
	}
	user, err := s.loadUser(db, userID)
	if err != nil {
		return err
	}
	if user.Role == models.UserRoleAdmin {
		count, err := s.userRepo.CountByRole(db, models.UserRoleAdmin)
		if err != nil {
			return dbErr("user", "count admins", err)
		}
		if count <= 1 {
			return apperrors.ErrLastAdmin
		}
	}
	if err := s.userRepo.Delete(db, userID); err != nil {
		return dbErr("user", "delete user", err)
	}
	return nil
}

// Heartbeat records presence twice: a last-write-wins row in postgres
// for "last seen", and a TTL key in redis that expires on its own when
// heartbeats stop. Redis being down degrades Live to false but never
// fails the call.
func (s *UserService) Heartbeat(ctx context.Context, db *gorm.DB, userID string, isOnline bool) error {
	now := time.Now()
	if err := s.userRepo.UpdatePresence(db, userID, isOnline, now); err != nil {
		return dbErr("user", "update presence", err)
	}

	if database.RedisClient == nil {
		return nil
	}
	key := presenceKey(userID)
	ttl := time.Duration(config.GetConfig().Presence.TTLSeconds) * time.Second
	var err error
	if isOnline {
		err = database.RedisClient.Set(ctx, key, "1", ttl).Err()
	} else {
		err = database.RedisClient.Del(ctx, key).Err()
	}
	if err != nil {
		logger.WithError(err).Warn("presence redis write failed", "user_id", userID)
	}
	return nil
}

// Presence merges the stored flag with the live redis bit.
func (s *UserService) Presence(ctx context.Context, db *gorm.DB, userID string) (*dto.PresenceResponse, error) {
	user, err := s.loadUser(db, userID)
	if err != nil {
		return nil, err
	}

	live := false
	if database.RedisClient != nil {
		val, err := database.RedisClient.Get(ctx, presenceKey(userID)).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			logger.WithError(err).Warn("presence redis read failed", "user_id", userID)
		}
		live = val == "1"
	}

	return &dto.PresenceResponse{
		UserID:   user.ID,
		IsOnline: user.IsOnline,
		Live:     live,
		LastSeen: user.LastSeen,
	}, nil
}

// PresenceMany is the directory-view batch: one postgres load plus a
// single redis MGET. Unknown ids are dropped from the result.
func (s *UserService) PresenceMany(ctx context.Context, db *gorm.DB, userIDs []string) ([]*dto.PresenceResponse, error) {
	users, err := s.userRepo.FindByIDs(db, userIDs)
	if err != nil {
		return nil, dbErr("user", "load users", err)
	}

	liveByID := make(map[string]bool, len(users))
	if database.RedisClient != nil && len(users) > 0 {
		keys := make([]string, len(users))
		for i := range users {
			keys[i] = presenceKey(users[i].ID)
		}
		vals, err := database.RedisClient.MGet(ctx, keys...).Result()
		if err != nil {
			logger.WithError(err).Warn("presence redis batch read failed")
		} else {
			for i, v := range vals {
				liveByID[users[i].ID] = v == "1"
			}
		}
	}

	out := make([]*dto.PresenceResponse, 0, len(users))
	for i := range users {
		out = append(out, &dto.PresenceResponse{
			UserID:   users[i].ID,
			IsOnline: users[i].IsOnline,
			Live:     liveByID[users[i].ID],
			LastSeen: users[i].LastSeen,
		})
	}
	return out, nil
}

func (s *UserService) loadUser(db *gorm.DB, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, dbErr("user", "load user", err)
	}
	return user, nil
}

func presenceKey(userID string) string {
	return "presence:" + userID
}

func pageBounds(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return pageSize, (page - 1) * pageSize
}

func toUserResponse(u *models.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		Role:            string(u.Role),
		Denomination:    u.Denomination,
		Branch:          u.Branch,
		AccountStatus:   string(u.AccountStatus),
		RejectionReason: u.AccountRejectionReason,
		IsOnline:        u.IsOnline,
		LastSeen:        u.LastSeen,
		CreatedAt:       u.CreatedAt,
	}
}

func toUserListResponse(users []models.User, total int64, page, pageSize int) *dto.UserListResponse {
	resp := &dto.UserListResponse{
		Users:    make([]*dto.UserResponse, 0, len(users)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for i := range users {
		resp.Users = append(resp.Users, toUserResponse(&users[i]))
	}
	return resp
}
