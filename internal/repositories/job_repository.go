package repositories

import (
	"errors"
	"time"

	"parishlink/internal/models"

	"gorm.io/gorm"
)

var (
	ErrJobNotFound = errors.New("job posting not found")
)

// JobCriteria filters either job board listing.
type JobCriteria struct {
	Status   string `form:"status"`
	Location string `form:"location"`
	Country  string `form:"country"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
}

// JobRepository covers both JobOpportunity and JobSeekerRequest - the
// two sides of the board share identical lifecycles.
type JobRepository interface {
	CreateOpportunity(db *gorm.DB, job *models.JobOpportunity) error
	FindOpportunityByID(db *gorm.DB, id string) (*models.JobOpportunity, error)
	UpdateOpportunity(db *gorm.DB, job *models.JobOpportunity) error
	UpdateOpportunityStatus(db *gorm.DB, id string, status models.ApprovalStatus, reason, approvedBy string) error
	DeleteOpportunity(db *gorm.DB, id string) error
	FindOpportunities(db *gorm.DB, criteria JobCriteria) ([]models.JobOpportunity, int64, error)
	IncrementOpportunityViews(db *gorm.DB, id string) error
	CountOpportunitiesByStatus(db *gorm.DB, status models.ApprovalStatus) (int64, error)

	CreateSeekerRequest(db *gorm.DB, req *models.JobSeekerRequest) error
	FindSeekerRequestByID(db *gorm.DB, id string) (*models.JobSeekerRequest, error)
	UpdateSeekerRequest(db *gorm.DB, req *models.JobSeekerRequest) error
	UpdateSeekerRequestStatus(db *gorm.DB, id string, status models.ApprovalStatus, reason, approvedBy string) error
	DeleteSeekerRequest(db *gorm.DB, id string) error
	FindSeekerRequests(db *gorm.DB, criteria JobCriteria) ([]models.JobSeekerRequest, int64, error)
	IncrementSeekerRequestViews(db *gorm.DB, id string) error
	CountSeekerRequestsByStatus(db *gorm.DB, status models.ApprovalStatus) (int64, error)
}

type JobRepositoryImpl struct{}

func NewJobRepository() JobRepository {
	return &JobRepositoryImpl{}
}

func statusUpdates(status models.ApprovalStatus, reason, approvedBy string) map[string]interface{} {
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
	return updates
}

func applyJobCriteria(query *gorm.DB, criteria JobCriteria) *gorm.DB {
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.Location != "" {
		query = query.Where("location = ?", criteria.Location)
	}
	if criteria.Country != "" {
		query = query.Where("country = ?", criteria.Country)
	}
	return query
}

func paginate(criteria JobCriteria) (limit, offset int) {
	limit = criteria.PageSize
	if limit <= 0 {
		limit = 20
	}
	page := criteria.Page
	if page <= 0 {
		page = 1
	}
	return limit, (page - 1) * limit
}

// Opportunities

func (r *JobRepositoryImpl) CreateOpportunity(db *gorm.DB, job *models.JobOpportunity) error {
	return db.Create(job).Error
}

func (r *JobRepositoryImpl) FindOpportunityByID(db *gorm.DB, id string) (*models.JobOpportunity, error) {
	var job models.JobOpportunity
	err := db.First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) UpdateOpportunity(db *gorm.DB, job *models.JobOpportunity) error {
	return db.Save(job).Error
}

func (r *JobRepositoryImpl) UpdateOpportunityStatus(db *gorm.DB, id string, status models.ApprovalStatus, reason, approvedBy string) error {
	result := db.Model(&models.JobOpportunity{}).Where("id = ?", id).Updates(statusUpdates(status, reason, approvedBy))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) DeleteOpportunity(db *gorm.DB, id string) error {
	result := db.Delete(&models.JobOpportunity{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) FindOpportunities(db *gorm.DB, criteria JobCriteria) ([]models.JobOpportunity, int64, error) {
	query := applyJobCriteria(db.Model(&models.JobOpportunity{}), criteria)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := paginate(criteria)
	var jobs []models.JobOpportunity
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&jobs).Error
	return jobs, total, err
}

func (r *JobRepositoryImpl) IncrementOpportunityViews(db *gorm.DB, id string) error {
	return db.Model(&models.JobOpportunity{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *JobRepositoryImpl) CountOpportunitiesByStatus(db *gorm.DB, status models.ApprovalStatus) (int64, error) {
	var count int64
	err := db.Model(&models.JobOpportunity{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// Seeker requests

func (r *JobRepositoryImpl) CreateSeekerRequest(db *gorm.DB, req *models.JobSeekerRequest) error {
	return db.Create(req).Error
}

func (r *JobRepositoryImpl) FindSeekerRequestByID(db *gorm.DB, id string) (*models.JobSeekerRequest, error) {
	var req models.JobSeekerRequest
	err := db.First(&req, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *JobRepositoryImpl) UpdateSeekerRequest(db *gorm.DB, req *models.JobSeekerRequest) error {
	return db.Save(req).Error
}

func (r *JobRepositoryImpl) UpdateSeekerRequestStatus(db *gorm.DB, id string, status models.ApprovalStatus, reason, approvedBy string) error {
	result := db.Model(&models.JobSeekerRequest{}).Where("id = ?", id).Updates(statusUpdates(status, reason, approvedBy))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) DeleteSeekerRequest(db *gorm.DB, id string) error {
	result := db.Delete(&models.JobSeekerRequest{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) FindSeekerRequests(db *gorm.DB, criteria JobCriteria) ([]models.JobSeekerRequest, int64, error) {
	query := applyJobCriteria(db.Model(&models.JobSeekerRequest{}), criteria)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := paginate(criteria)
	var reqs []models.JobSeekerRequest
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reqs).Error
	return reqs, total, err
}

func (r *JobRepositoryImpl) IncrementSeekerRequestViews(db *gorm.DB, id string) error {
	return db.Model(&models.JobSeekerRequest{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *JobRepositoryImpl) CountSeekerRequestsByStatus(db *gorm.DB, status models.ApprovalStatus) (int64, error) {
	var count int64
	err := db.Model(&models.JobSeekerRequest{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
