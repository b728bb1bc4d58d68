package repositories

import (
	"errors"
	"time"

	"parishlink/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrTokenNotFound     = errors.New("token not found")
)

type UserRepository interface {
	// User operations
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	FindByIDs(db *gorm.DB, ids []string) ([]models.User, error)
	Create(db *gorm.DB, user *models.User) error
	Update(db *gorm.DB, user *models.User) error
	UpdateAccountStatus(db *gorm.DB, userID string, status models.ApprovalStatus, reason, approvedBy string) error
	UpdateRole(db *gorm.DB, userID string, role models.UserRole) error
	UpdatePresence(db *gorm.DB, userID string, isOnline bool, lastSeen time.Time) error
	Delete(db *gorm.DB, userID string) error
	FindByRole(db *gorm.DB, role models.UserRole) ([]models.User, error)
	CountByRole(db *gorm.DB, role models.UserRole) (int64, error)
	FindByAccountStatus(db *gorm.DB, status models.ApprovalStatus, limit, offset int) ([]models.User, int64, error)
	FindAll(db *gorm.DB, limit, offset int) ([]models.User, int64, error)

	// RefreshToken operations
	CreateRefreshToken(db *gorm.DB, token *models.RefreshToken) error
	FindRefreshToken(db *gorm.DB, token string) (*models.RefreshToken, error)
	DeleteRefreshToken(db *gorm.DB, token string) error
	DeleteUserRefreshTokens(db *gorm.DB, userID string) error

	// ApprovalToken operations
	CreateApprovalToken(db *gorm.DB, token *models.ApprovalToken) error
	FindApprovalToken(db *gorm.DB, token string) (*models.ApprovalToken, error)
	MarkApprovalTokenUsed(db *gorm.DB, tokenID string) error
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByIDs(db *gorm.DB, ids []string) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	err := db.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	return db.Create(user).Error
}

func (r *UserRepositoryImpl) Update(db *gorm.DB, user *models.User) error {
	return db.Save(user).Error
}

func (r *UserRepositoryImpl) UpdateAccountStatus(db *gorm.DB, userID string, status models.ApprovalStatus, reason, approvedBy string) error {
	updates := map[string]interface{}{
		"account_status":           status,
		"account_rejection_reason": reason,
	}
	if status == models.ApprovalStatusApproved {
		now := time.Now()
		updates["account_approved_at"] = &now
		updates["account_approved_by"] = approvedBy
		updates["account_rejection_reason"] = ""
	}

	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) UpdateRole(db *gorm.DB, userID string, role models.UserRole) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) UpdatePresence(db *gorm.DB, userID string, isOnline bool, lastSeen time.Time) error {
	return db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"is_online": isOnline,
		"last_seen": lastSeen,
	}).Error
}

// Delete removes the user and the rows that only make sense attached to
// one: profile, tokens, notifications, search history. Messages survive
// so the counterpart's threads stay intact.
func (r *UserRepositoryImpl) Delete(db *gorm.DB, userID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Profile{}, "user_id = ?", userID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.RefreshToken{}, "user_id = ?", userID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.ApprovalToken{}, "user_id = ?", userID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Notification{}, "user_id = ?", userID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.SearchHistory{}, "user_id = ?", userID).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.User{}, "id = ?", userID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

func (r *UserRepositoryImpl) FindByRole(db *gorm.DB, role models.UserRole) ([]models.User, error) {
	var users []models.User
	err := db.Where("role = ?", role).Find(&users).Error
	return users, err
}

func (r *UserRepositoryImpl) CountByRole(db *gorm.DB, role models.UserRole) (int64, error) {
	var count int64
	err := db.Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func (r *UserRepositoryImpl) FindByAccountStatus(db *gorm.DB, status models.ApprovalStatus, limit, offset int) ([]models.User, int64, error) {
	var users []models.User
	query := db.Model(&models.User{}).Where("account_status = ?", status)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error
	return users, total, err
}

func (r *UserRepositoryImpl) FindAll(db *gorm.DB, limit, offset int) ([]models.User, int64, error) {
	var users []models.User

	var total int64
	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error
	return users, total, err
}

// RefreshToken operations

func (r *UserRepositoryImpl) CreateRefreshToken(db *gorm.DB, token *models.RefreshToken) error {
	return db.Create(token).Error
}

func (r *UserRepositoryImpl) FindRefreshToken(db *gorm.DB, token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	err := db.First(&rt, "token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &rt, nil
}

func (r *UserRepositoryImpl) DeleteRefreshToken(db *gorm.DB, token string) error {
	return db.Delete(&models.RefreshToken{}, "token = ?", token).Error
}

func (r *UserRepositoryImpl) DeleteUserRefreshTokens(db *gorm.DB, userID string) error {
	return db.Delete(&models.RefreshToken{}, "user_id = ?", userID).Error
}

// ApprovalToken operations

func (r *UserRepositoryImpl) CreateApprovalToken(db *gorm.DB, token *models.ApprovalToken) error {
	return db.Create(token).Error
}

func (r *UserRepositoryImpl) FindApprovalToken(db *gorm.DB, token string) (*models.ApprovalToken, error) {
	var at models.ApprovalToken
	err := db.First(&at, "token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &at, nil
}

func (r *UserRepositoryImpl) MarkApprovalTokenUsed(db *gorm.DB, tokenID string) error {
	now := time.Now()
	return db.Model(&models.ApprovalToken{}).Where("id = ?", tokenID).Update("used_at", &now).Error
}
