package repositories

import (
	"errors"
	"time"

	"parishlink/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
)

type ProfileRepository interface {
	Create(db *gorm.DB, profile *models.Profile) error
	FindByID(db *gorm.DB, id string) (*models.Profile, error)
	FindByUserID(db *gorm.DB, userID string) (*models.Profile, error)
	Update(db *gorm.DB, profile *models.Profile) error
	UpdateStatus(db *gorm.DB, profileID string, status models.ApprovalStatus, reason, approvedBy string) error
	Delete(db *gorm.DB, id string) error
	DeleteByUserID(db *gorm.DB, userID string) error
	FindByStatus(db *gorm.DB, status models.ApprovalStatus, limit, offset int) ([]models.Profile, int64, error)
	IncrementViewCount(db *gorm.DB, profileID string) error
	CountByStatus(db *gorm.DB, status models.ApprovalStatus) (int64, error)

	// Directory search over approved profiles.
	Search(db *gorm.DB, criteria ProfileSearchCriteria) ([]models.Profile, int64, error)
	SuggestSkills(db *gorm.DB, prefix string, limit int) ([]string, error)
}

// ProfileSearchCriteria filters the approved directory. Query feeds the
// full-text index over skills/profession/bio.
type ProfileSearchCriteria struct {
	Query    string `form:"q"`
	Category string `form:"category"`
	Location string `form:"location"`
	Country  string `form:"country"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
}

type ProfileRepositoryImpl struct{}

func NewProfileRepository() ProfileRepository {
	return &ProfileRepositoryImpl{}
}

func (r *ProfileRepositoryImpl) Create(db *gorm.DB, profile *models.Profile) error {
	return db.Create(profile).Error
}

func (r *ProfileRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Profile, error) {
	var profile models.Profile
	err := db.First(&profile, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) FindByUserID(db *gorm.DB, userID string) (*models.Profile, error) {
	var profile models.Profile
	err := db.First(&profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) Update(db *gorm.DB, profile *models.Profile) error {
	return db.Save(profile).Error
}

func (r *ProfileRepositoryImpl) UpdateStatus(db *gorm.DB, profileID string, status models.ApprovalStatus, reason, approvedBy string) error {
	updates := map[string]interface{}{
		"status":           status,
		"rejection_reason": reason,
	}
	if status == models.ApprovalStatusApproved {
		now := time.Now()
		updates["approved_at"] = &now
		updates["approved_by"] = approvedBy
		updates["rejection_reason"] = ""
	} else {
		updates["approved_at"] = nil
		updates["approved_by"] = ""
	}

	result := db.Model(&models.Profile{}).Where("id = ?", profileID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.Profile{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepositoryImpl) DeleteByUserID(db *gorm.DB, userID string) error {
	return db.Delete(&models.Profile{}, "user_id = ?", userID).Error
}

func (r *ProfileRepositoryImpl) FindByStatus(db *gorm.DB, status models.ApprovalStatus, limit, offset int) ([]models.Profile, int64, error) {
	var profiles []models.Profile
	query := db.Model(&models.Profile{}).Where("status = ?", status)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&profiles).Error
	return profiles, total, err
}

func (r *ProfileRepositoryImpl) IncrementViewCount(db *gorm.DB, profileID string) error {
	return db.Model(&models.Profile{}).
		Where("id = ?", profileID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *ProfileRepositoryImpl) CountByStatus(db *gorm.DB, status models.ApprovalStatus) (int64, error) {
	var count int64
	err := db.Model(&models.Profile{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// searchVector is the text searched and ranked by Search. Only column
// names go into the SQL string; user input is always bound.
const searchVector = "to_tsvector('simple', coalesce(skills,'') || ' ' || coalesce(profession,'') || ' ' || coalesce(bio,''))"

func (r *ProfileRepositoryImpl) Search(db *gorm.DB, criteria ProfileSearchCriteria) ([]models.Profile, int64, error) {
	query := db.Model(&models.Profile{}).Where("status = ?", models.ApprovalStatusApproved)

	if criteria.Query != "" {
		// Postgres FTS over the skills text, ranked by relevance. The
		// ILIKE arm catches prefixes the stemmer would miss.
		query = query.Where(
			searchVector+" @@ plainto_tsquery('simple', ?) OR skills ILIKE ? OR profession ILIKE ?",
			criteria.Query, "%"+criteria.Query+"%", "%"+criteria.Query+"%",
		)
	}
	if criteria.Category != "" {
		query = query.Where("category = ?", criteria.Category)
	}
	if criteria.Location != "" {
		query = query.Where("location = ?", criteria.Location)
	}
	if criteria.Country != "" {
		query = query.Where("country = ?", criteria.Country)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := criteria.PageSize
	if limit <= 0 {
		limit = 20
	}
	page := criteria.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	if criteria.Query != "" {
		query = query.Order(clause.OrderBy{Expression: clause.Expr{
			SQL:  "ts_rank(" + searchVector + ", plainto_tsquery('simple', ?)) DESC, created_at DESC",
			Vars: []interface{}{criteria.Query},
		}})
	} else {
		query = query.Order("created_at DESC")
	}

	var profiles []models.Profile
	err := query.Limit(limit).Offset(offset).Find(&profiles).Error
	return profiles, total, err
}

func (r *ProfileRepositoryImpl) SuggestSkills(db *gorm.DB, prefix string, limit int) ([]string, error) {
	var professions []string
	err := db.Model(&models.Profile{}).
		Where("status = ?", models.ApprovalStatusApproved).
		Where("profession ILIKE ?", prefix+"%").
		Distinct("profession").
		Limit(limit).
		Pluck("profession", &professions).Error
	return professions, err
}
