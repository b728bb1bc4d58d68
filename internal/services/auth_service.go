package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"parishlink/internal/auth"
	"parishlink/internal/config"
	"parishlink/internal/email"
	"parishlink/internal/logger"
	"parishlink/internal/models"
	"parishlink/internal/repositories"
	"parishlink/internal/services/dto"
	"parishlink/pkg/apperrors"
)

const (
	refreshTokenTTL  = 30 * 24 * time.Hour
	approvalTokenTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	userRepo            repositories.UserRepository
	outboxRepo          repositories.OutboxRepository
	notificationService *NotificationService
}

func NewAuthService(
	userRepo repositories.UserRepository,
	outboxRepo repositories.OutboxRepository,
	notificationService *NotificationService,
) *AuthService {
	return &AuthService{
		userRepo:            userRepo,
		outboxRepo:          outboxRepo,
		notificationService: notificationService,
	}
}

// Register creates a pending member account, then fans out to the
// moderators: an in-app notification plus an email with a one-click
// approval link per admin and pastor.
func (s *AuthService) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	normalizedEmail := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.userRepo.FindByEmail(db, normalizedEmail); err == nil {
		return nil, apperrors.ErrAlreadyExists(repositories.ErrUserAlreadyExists)
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, dbErr("auth", "check existing email", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:         normalizedEmail,
		PasswordHash:  hash,
		Name:          req.Name,
		Role:          models.UserRoleMember,
		Denomination:  req.Denomination,
		Branch:        req.Branch,
		AccountStatus: models.ApprovalStatusPending,
	}
	if err := s.userRepo.Create(db, user); err != nil {
		return nil, dbErr("auth", "create user", err)
	}

	s.enqueueEmail(db, user.Email, email.TemplateRegistrationReceived, map[string]interface{}{
		"name":         user.Name,
		"denomination": user.Denomination,
	})
	s.fanOutToModerators(db, user)

	return toUserResponse(user), nil
}

// fanOutToModerators notifies every admin and pastor about a new
// pending account, with a fresh single-use approval token per
// recipient email.
func (s *AuthService) fanOutToModerators(db *gorm.DB, user *models.User) {
	if err := s.notificationService.NotifyModerators(db,
		models.NotificationTypePendingApproval,
		"New member awaiting approval",
		fmt.Sprintf("%s (%s) registered and is awaiting account approval", user.Name, user.Email),
		map[string]interface{}{"user_id": user.ID},
	); err != nil {
		logger.WithError(err).Warn("moderator fan-out failed", "user_id", user.ID)
	}

	moderators := s.loadModerators(db)
	publicURL := config.GetConfig().App.PublicURL
	for _, mod := range moderators {
		token, err := s.issueApprovalToken(db, user.ID)
		if err != nil {
			logger.WithError(err).Warn("approval token issue failed", "user_id", user.ID)
			continue
		}
		s.enqueueEmail(db, mod.Email, email.TemplatePendingApproval, map[string]interface{}{
			"name":         user.Name,
			"email":        user.Email,
			"denomination": user.Denomination,
			"branch":       user.Branch,
			"approve_url":  fmt.Sprintf("%s/api/approve-account/%s", publicURL, token),
		})
	}
}

func (s *AuthService) loadModerators(db *gorm.DB) []models.User {
	admins, err := s.userRepo.FindByRole(db, models.UserRoleAdmin)
	if err != nil {
		logger.WithError(err).Warn("load admins failed")
	}
	pastors, err := s.userRepo.FindByRole(db, models.UserRolePastor)
	if err != nil {
		logger.WithError(err).Warn("load pastors failed")
	}
	return append(admins, pastors...)
}

func (s *AuthService) issueApprovalToken(db *gorm.DB, userID string) (string, error) {
	token, err := randomToken()
	if err != nil {
		return "", err
	}
	record := &models.ApprovalToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(approvalTokenTTL),
	}
	if err := s.userRepo.CreateApprovalToken(db, record); err != nil {
		return "", err
	}
	return token, nil
}

// Login authenticates and issues the token pair. Pending and rejected
// accounts authenticate (so they can see their status) but downstream
// middleware keeps them out of member-only surfaces.
func (s *AuthService) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, invalidCredentials()
		}
		return nil, dbErr("auth", "load user", err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, invalidCredentials()
	}

	return s.issueTokenPair(db, user)
}

// Refresh rotates the refresh token: the presented token is consumed
// and a new pair is returned. A reused token fails here, which is the
// point.
func (s *AuthService) Refresh(db *gorm.DB, req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	stored, err := s.userRepo.FindRefreshToken(db, req.RefreshToken)
	if err != nil {
		if errors.Is(err, repositories.ErrTokenNotFound) {
			return nil, apperrors.NewUnauthorizedError("invalid refresh token")
		}
		return nil, dbErr("auth", "load refresh token", err)
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = s.userRepo.DeleteRefreshToken(db, stored.Token)
		return nil, apperrors.NewUnauthorizedError("refresh token expired")
	}

	user, err := s.userRepo.FindByID(db, stored.UserID)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid refresh token")
	}

	if err := s.userRepo.DeleteRefreshToken(db, stored.Token); err != nil {
		return nil, dbErr("auth", "rotate refresh token", err)
	}

	return s.issueTokenPair(db, user)
}

// Logout drops every refresh token for the user. Access tokens stay
// valid until they expire.
func (s *AuthService) Logout(db *gorm.DB, userID string) error {
	if err := s.userRepo.DeleteUserRefreshTokens(db, userID); err != nil {
		return dbErr("auth", "delete refresh tokens", err)
	}
	// Logout is an explicit offline signal; presence write failure
	// must not block the token revocation already done.
	if err := s.userRepo.UpdatePresence(db, userID, false, time.Now()); err != nil {
		logger.WithError(err).Warn("presence offline write failed", "user_id", userID)
	}
	return nil
}

func (s *AuthService) issueTokenPair(db *gorm.DB, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	expiresAt := time.Now().Add(auth.TokenTTL())

	refreshToken, err := randomToken()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	record := &models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := s.userRepo.CreateRefreshToken(db, record); err != nil {
		return nil, dbErr("auth", "store refresh token", err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         toUserResponse(user),
	}, nil
}

func (s *AuthService) enqueueEmail(db *gorm.DB, recipient, template string, data map[string]interface{}) {
	enqueueEmail(db, s.outboxRepo, recipient, template, data)
}

func invalidCredentials() *apperrors.AppError {
	return apperrors.New(apperrors.CodeInvalidCredentials, "auth", "invalid email or password", 401)
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
