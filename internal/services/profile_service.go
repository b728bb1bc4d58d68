package services

import (
	"errors"

	"gorm.io/gorm"

	"parishlink/internal/email"
	"parishlink/internal/logger"
	"parishlink/internal/models"
	"parishlink/internal/repositories"
	"parishlink/internal/services/dto"
	"parishlink/pkg/apperrors"
)

type ProfileService struct {
	profileRepo         repositories.ProfileRepository
	userRepo            repositories.UserRepository
	outboxRepo          repositories.OutboxRepository
	notificationService *NotificationService
}

func NewProfileService(
	profileRepo repositories.ProfileRepository,
	userRepo repositories.UserRepository,
	outboxRepo repositories.OutboxRepository,
	notificationService *NotificationService,
) *ProfileService {
	return &ProfileService{
		profileRepo:         profileRepo,
		userRepo:            userRepo,
		outboxRepo:          outboxRepo,
		notificationService: notificationService,
	}
}

// Create adds the caller's profile in pending state. One profile per
// user; the account itself must already be approved.
func (s *ProfileService) Create(db *gorm.DB, userID string, req *dto.CreateProfileRequest) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, dbErr("profile", "load user", err)
	}
	if user.AccountStatus != models.ApprovalStatusApproved {
		return nil, apperrors.ErrAccountNotApproved
	}

	if _, err := s.profileRepo.FindByUserID(db, userID); err == nil {
		return nil, apperrors.ErrProfileAlreadyExists
	} else if !errors.Is(err, repositories.ErrProfileNotFound) {
		return nil, dbErr("profile", "check existing profile", err)
	}

	profile := &models.Profile{
		UserID:     userID,
		Profession: req.Profession,
		Category:   req.Category,
		Skills:     req.Skills,
		Bio:        req.Bio,
		Location:   req.Location,
		Country:    req.Country,
		Phone:      req.Phone,
		Status:     models.ApprovalStatusPending,
	}
	if err := s.profileRepo.Create(db, profile); err != nil {
		return nil, dbErr("profile", "create profile", err)
	}

	s.notifyModeratorsPending(db, user, profile)

	return toProfileResponse(profile, user), nil
}

// Update edits the caller's own profile. Any field change sends the
// profile back to the moderation queue, whatever state it was in.
func (s *ProfileService) Update(db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	profile, err := s.loadByUserID(db, userID)
	if err != nil {
		return nil, err
	}

	applyIfSet(&profile.Profession, req.Profession)
	applyIfSet(&profile.Category, req.Category)
	applyIfSet(&profile.Skills, req.Skills)
	applyIfSet(&profile.Bio, req.Bio)
	applyIfSet(&profile.Location, req.Location)
	applyIfSet(&profile.Country, req.Country)
	applyIfSet(&profile.Phone, req.Phone)

	next, err := ApplyModeration(profile.Status, ActionResubmit)
	if err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}
	profile.Status = next
	profile.RejectionReason = ""
	profile.ApprovedAt = nil
	profile.ApprovedBy = ""

	if err := s.profileRepo.Update(db, profile); err != nil {
		return nil, dbErr("profile", "update profile", err)
	}

	user, _ := s.userRepo.FindByID(db, userID)
	if user != nil {
		s.notifyModeratorsPending(db, user, profile)
	}
	return toProfileResponse(profile, user), nil
}

func (s *ProfileService) GetOwn(db *gorm.DB, userID string) (*dto.ProfileResponse, error) {
	profile, err := s.loadByUserID(db, userID)
	if err != nil {
		return nil, err
	}
	user, _ := s.userRepo.FindByID(db, userID)
	return toProfileResponse(profile, user), nil
}

// GetPublic returns an approved profile and counts the view. Owners
// and moderators can fetch profiles in any state; everyone else only
// sees approved ones.
func (s *ProfileService) GetPublic(db *gorm.DB, profileID, viewerID string, viewerRole models.UserRole) (*dto.ProfileResponse, error) {
	profile, err := s.loadByID(db, profileID)
	if err != nil {
		return nil, err
	}

	isOwner := profile.UserID == viewerID
	isModerator := viewerRole == models.UserRoleAdmin || viewerRole == models.UserRolePastor
	if profile.Status != models.ApprovalStatusApproved && !isOwner && !isModerator {
		return nil, apperrors.ErrNotFound(repositories.ErrProfileNotFound)
	}

	if !isOwner {
		if err := s.profileRepo.IncrementViewCount(db, profile.ID); err == nil {
			profile.ViewCount++
		}
	}

	user, _ := s.userRepo.FindByID(db, profile.UserID)
	return toProfileResponse(profile, user), nil
}

func (s *ProfileService) ListPending(db *gorm.DB, page, pageSize int) (*dto.ProfileListResponse, error) {
	limit, offset := pageBounds(page, pageSize)
	profiles, total, err := s.profileRepo.FindByStatus(db, models.ApprovalStatusPending, limit, offset)
	if err != nil {
		return nil, dbErr("profile", "list pending profiles", err)
	}
	return s.toProfileList(db, profiles, total, page, pageSize), nil
}

func (s *ProfileService) Approve(db *gorm.DB, profileID, approverID string) (*dto.ProfileResponse, error) {
	return s.moderate(db, profileID, approverID, ActionApprove, "")
}

func (s *ProfileService) Reject(db *gorm.DB, profileID, approverID, reason string) (*dto.ProfileResponse, error) {
	return s.moderate(db, profileID, approverID, ActionReject, reason)
}

// BulkApprove applies approval per id; one failure never aborts the
// rest of the batch.
func (s *ProfileService) BulkApprove(db *gorm.DB, approverID string, ids []string) []dto.BulkResult {
	return applyBulk(ids, func(id string) error {
		_, err := s.Approve(db, id, approverID)
		return err
	})
}

func (s *ProfileService) BulkReject(db *gorm.DB, approverID string, ids []string, reason string) []dto.BulkResult {
	return applyBulk(ids, func(id string) error {
		_, err := s.Reject(db, id, approverID, reason)
		return err
	})
}

// SetVerification toggles the independent badge flags. Badges never
// affect the moderation status and vice versa.
func (s *ProfileService) SetVerification(db *gorm.DB, profileID string, req *dto.SetVerificationRequest) (*dto.ProfileResponse, error) {
	profile, err := s.loadByID(db, profileID)
	if err != nil {
		return nil, err
	}

	if req.EmailVerified != nil {
		profile.EmailVerified = *req.EmailVerified
	}
	if req.PhoneVerified != nil {
		profile.PhoneVerified = *req.PhoneVerified
	}
	if req.PastorVerified != nil {
		profile.PastorVerified = *req.PastorVerified
	}
	if req.BackgroundVerified != nil {
		profile.BackgroundVerified = *req.BackgroundVerified
	}

	if err := s.profileRepo.Update(db, profile); err != nil {
		return nil, dbErr("profile", "update verification", err)
	}

	user, _ := s.userRepo.FindByID(db, profile.UserID)
	return toProfileResponse(profile, user), nil
}

func (s *ProfileService) Delete(db *gorm.DB, userID string) error {
	if _, err := s.loadByUserID(db, userID); err != nil {
		return err
	}
	if err := s.profileRepo.DeleteByUserID(db, userID); err != nil {
		return dbErr("profile", "delete profile", err)
	}
	return nil
}

func (s *ProfileService) moderate(db *gorm.DB, profileID, approverID string, action ModerationAction, reason string) (*dto.ProfileResponse, error) {
	profile, err := s.loadByID(db, profileID)
	if err != nil {
		return nil, err
	}

	next, err := ApplyModeration(profile.Status, action)
	if err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	if action == ActionReject {
		reason = RejectionReasonOrDefault(reason)
	} else {
		reason = ""
	}
	if err := s.profileRepo.UpdateStatus(db, profileID, next, reason, approverID); err != nil {
		return nil, dbErr("profile", "update profile status", err)
	}
	profile.Status = next
	profile.RejectionReason = reason

	user, _ := s.userRepo.FindByID(db, profile.UserID)
	if user != nil {
		s.notifyOwner(db, user, action, reason)
	}
	return toProfileResponse(profile, user), nil
}

func (s *ProfileService) notifyOwner(db *gorm.DB, user *models.User, action ModerationAction, reason string) {
	switch action {
	case ActionApprove:
		s.notificationService.notifyBestEffort(db, user.ID,
			models.NotificationTypeProfileApproved,
			"Your profile is now live",
			"Your professional profile has been approved and is visible in the directory.",
			nil)
		enqueueEmail(db, s.outboxRepo, user.Email, email.TemplateProfileApproved, map[string]interface{}{
			"name": user.Name,
		})
	case ActionReject:
		s.notificationService.notifyBestEffort(db, user.ID,
			models.NotificationTypeProfileRejected,
			"Your profile needs changes",
			reason,
			nil)
		enqueueEmail(db, s.outboxRepo, user.Email, email.TemplateProfileRejected, map[string]interface{}{
			"name":   user.Name,
			"reason": reason,
		})
	}
}

func (s *ProfileService) notifyModeratorsPending(db *gorm.DB, user *models.User, profile *models.Profile) {
	if err := s.notificationService.NotifyModerators(db,
		models.NotificationTypePendingApproval,
		"Profile awaiting review",
		user.Name+" submitted a profile for review",
		map[string]interface{}{"profile_id": profile.ID, "user_id": user.ID},
	); err != nil {
		logger.WithError(err).Warn("moderator fan-out failed", "profile_id", profile.ID)
	}
}

func (s *ProfileService) loadByID(db *gorm.DB, profileID string) (*models.Profile, error) {
	profile, err := s.profileRepo.FindByID(db, profileID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, dbErr("profile", "load profile", err)
	}
	return profile, nil
}

func (s *ProfileService) loadByUserID(db *gorm.DB, userID string) (*models.Profile, error) {
	profile, err := s.profileRepo.FindByUserID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, dbErr("profile", "load profile", err)
	}
	return profile, nil
}

func (s *ProfileService) toProfileList(db *gorm.DB, profiles []models.Profile, total int64, page, pageSize int) *dto.ProfileListResponse {
	userIDs := make([]string, 0, len(profiles))
	for i := range profiles {
		userIDs = append(userIDs, profiles[i].UserID)
	}
	names := map[string]*models.User{}
	if users, err := s.userRepo.FindByIDs(db, userIDs); err == nil {
		for i := range users {
			names[users[i].ID] = &users[i]
		}
	}

	resp := &dto.ProfileListResponse{
		Profiles: make([]*dto.ProfileResponse, 0, len(profiles)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for i := range profiles {
		resp.Profiles = append(resp.Profiles, toProfileResponse(&profiles[i], names[profiles[i].UserID]))
	}
	return resp
}

func applyIfSet(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func toProfileResponse(p *models.Profile, owner *models.User) *dto.ProfileResponse {
	resp := &dto.ProfileResponse{
		ID:              p.ID,
		UserID:          p.UserID,
		Profession:      p.Profession,
		Category:        p.Category,
		Skills:          p.Skills,
		Bio:             p.Bio,
		Location:        p.Location,
		Country:         p.Country,
		Phone:           p.Phone,
		Status:          string(p.Status),
		RejectionReason: p.RejectionReason,
		ApprovedAt:      p.ApprovedAt,

		EmailVerified:      p.EmailVerified,
		PhoneVerified:      p.PhoneVerified,
		PastorVerified:     p.PastorVerified,
		BackgroundVerified: p.BackgroundVerified,

		ViewCount: p.ViewCount,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if owner != nil {
		resp.UserName = owner.Name
	}
	return resp
}
