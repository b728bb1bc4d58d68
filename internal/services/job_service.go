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

// JobService covers both sides of the board. Opportunities and seeker
// requests carry the same moderation lifecycle as profiles; edits send
// a posting back to pending.
type JobService struct {
	jobRepo             repositories.JobRepository
	userRepo            repositories.UserRepository
	outboxRepo          repositories.OutboxRepository
	notificationService *NotificationService
}

func NewJobService(
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	outboxRepo repositories.OutboxRepository,
	notificationService *NotificationService,
) *JobService {
	return &JobService{
		jobRepo:             jobRepo,
		userRepo:            userRepo,
		outboxRepo:          outboxRepo,
		notificationService: notificationService,
	}
}

// ---------------- Opportunities ----------------

func (s *JobService) CreateOpportunity(db *gorm.DB, userID string, req *dto.CreateJobOpportunityRequest) (*dto.JobOpportunityResponse, error) {
	job := &models.JobOpportunity{
		PostedByUserID: userID,
		Title:          req.Title,
		Description:    req.Description,
		Company:        req.Company,
		Location:       req.Location,
		Country:        req.Country,
		ContactEmail:   req.ContactEmail,
		ContactPhone:   req.ContactPhone,
		Status:         models.ApprovalStatusPending,
	}
	if err := s.jobRepo.CreateOpportunity(db, job); err != nil {
		return nil, dbErr("jobs", "create opportunity", err)
	}
	s.notifySubmitted(db, userID, job.ID, job.Title)
	return s.toOpportunityResponse(db, job), nil
}

func (s *JobService) GetOpportunity(db *gorm.DB, id, viewerID string, viewerRole models.UserRole) (*dto.JobOpportunityResponse, error) {
	job, err := s.loadOpportunity(db, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkVisible(job.Status, job.PostedByUserID, viewerID, viewerRole); err != nil {
		return nil, err
	}
	if job.PostedByUserID != viewerID {
		if err := s.jobRepo.IncrementOpportunityViews(db, id); err == nil {
			job.ViewCount++
		}
	}
	return s.toOpportunityResponse(db, job), nil
}

// ListOpportunities returns approved postings for regular members;
// moderators can filter by any status.
func (s *JobService) ListOpportunities(db *gorm.DB, criteria repositories.JobCriteria, viewerRole models.UserRole) (*dto.JobOpportunityListResponse, error) {
	criteria = s.clampCriteria(criteria, viewerRole)
	jobs, total, err := s.jobRepo.FindOpportunities(db, criteria)
	if err != nil {
		return nil, dbErr("jobs", "list opportunities", err)
	}

	resp := &dto.JobOpportunityListResponse{
		Jobs:     make([]*dto.JobOpportunityResponse, 0, len(jobs)),
		Total:    total,
		Page:     criteria.Page,
		PageSize: criteria.PageSize,
	}
	names := s.posterNames(db, opportunityPosters(jobs))
	for i := range jobs {
		r := toJobOpportunityResponse(&jobs[i])
		r.PostedByName = names[jobs[i].PostedByUserID]
		resp.Jobs = append(resp.Jobs, r)
	}
	return resp, nil
}

func (s *JobService) UpdateOpportunity(db *gorm.DB, id, userID string, req *dto.UpdateJobOpportunityRequest) (*dto.JobOpportunityResponse, error) {
	job, err := s.loadOpportunity(db, id)
	if err != nil {
		return nil, err
	}
	if job.PostedByUserID != userID {
		return nil, apperrors.NewForbiddenError("posting belongs to another user")
	}

	applyIfSet(&job.Title, req.Title)
	applyIfSet(&job.Description, req.Description)
	applyIfSet(&job.Company, req.Company)
	applyIfSet(&job.Location, req.Location)
	applyIfSet(&job.Country, req.Country)
	applyIfSet(&job.ContactEmail, req.ContactEmail)
	applyIfSet(&job.ContactPhone, req.ContactPhone)

	next, err := ApplyModeration(job.Status, ActionResubmit)
	if err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}
	job.Status = next
	job.RejectionReason = ""
	job.ApprovedAt = nil
	job.ApprovedBy = ""

	if err := s.jobRepo.UpdateOpportunity(db, job); err != nil {
		return nil, dbErr("jobs", "update opportunity", err)
	}
	s.notifyResubmitted(db, userID, job.ID, job.Title)
	return s.toOpportunityResponse(db, job), nil
}

func (s *JobService) DeleteOpportunity(db *gorm.DB, id, userID string, role models.UserRole) error {
	job, err := s.loadOpportunity(db, id)
	if err != nil {
		return err
	}
	if job.PostedByUserID != userID && role != models.UserRoleAdmin {
		return apperrors.NewForbiddenError("posting belongs to another user")
	}
	if err := s.jobRepo.DeleteOpportunity(db, id); err != nil {
		return dbErr("jobs", "delete opportunity", err)
	}
	return nil
}

func (s *JobService) ApproveOpportunity(db *gorm.DB, id, approverID string) (*dto.JobOpportunityResponse, error) {
	return s.moderateOpportunity(db, id, approverID, ActionApprove, "")
}

func (s *JobService) RejectOpportunity(db *gorm.DB, id, approverID, reason string) (*dto.JobOpportunityResponse, error) {
	return s.moderateOpportunity(db, id, approverID, ActionReject, reason)
}

func (s *JobService) BulkApproveOpportunities(db *gorm.DB, approverID string, ids []string) []dto.BulkResult {
	return applyBulk(ids, func(id string) error {
		_, err := s.ApproveOpportunity(db, id, approverID)
		return err
	})
}

func (s *JobService) BulkRejectOpportunities(db *gorm.DB, approverID string, ids []string, reason string) []dto.BulkResult {
	return applyBulk(ids, func(id string) error {
		_, err := s.RejectOpportunity(db, id, approverID, reason)
		return err
	})
}

func (s *JobService) moderateOpportunity(db *gorm.DB, id, approverID string, action ModerationAction, reason string) (*dto.JobOpportunityResponse, error) {
	job, err := s.loadOpportunity(db, id)
	if err != nil {
		return nil, err
	}
	next, err := ApplyModeration(job.Status, action)
	if err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}
	if action == ActionReject {
		reason = RejectionReasonOrDefault(reason)
	} else {
		reason = ""
	}
	if err := s.jobRepo.UpdateOpportunityStatus(db, id, next, reason, approverID); err != nil {
		return nil, dbErr("jobs", "update opportunity status", err)
	}
	job.Status = next
	job.RejectionReason = reason
	s.notifyModerated(db, job.PostedByUserID, job.Title, action, reason)
	return s.toOpportunityResponse(db, job), nil
}

func (s *JobService) loadOpportunity(db *gorm.DB, id string) (*models.JobOpportunity, error) {
	job, err := s.jobRepo.FindOpportunityByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, dbErr("jobs", "load opportunity", err)
	}
	return job, nil
}

func (s *JobService) toOpportunityResponse(db *gorm.DB, job *models.JobOpportunity) *dto.JobOpportunityResponse {
	r := toJobOpportunityResponse(job)
	if user, err := s.userRepo.FindByID(db, job.PostedByUserID); err == nil {
		r.PostedByName = user.Name
	}
	return r
}

// ---------------- Seeker requests ----------------

func (s *JobService) CreateSeekerRequest(db *gorm.DB, userID string, req *dto.CreateJobSeekerRequestRequest) (*dto.JobSeekerRequestResponse, error) {
	record := &models.JobSeekerRequest{
		PostedByUserID: userID,
		Title:          req.Title,
		Description:    req.Description,
		DesiredRole:    req.DesiredRole,
		Experience:     req.Experience,
		Location:       req.Location,
		Country:        req.Country,
		Status:         models.ApprovalStatusPending,
	}
	if err := s.jobRepo.CreateSeekerRequest(db, record); err != nil {
		return nil, dbErr("jobs", "create seeker request", err)
	}
	s.notifySubmitted(db, userID, record.ID, record.Title)
	return s.toSeekerResponse(db, record), nil
}

func (s *JobService) GetSeekerRequest(db *gorm.DB, id, viewerID string, viewerRole models.UserRole) (*dto.JobSeekerRequestResponse, error) {
	record, err := s.loadSeekerRequest(db, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkVisible(record.Status, record.PostedByUserID, viewerID, viewerRole); err != nil {
		return nil, err
	}
	if record.PostedByUserID != viewerID {
		if err := s.jobRepo.IncrementSeekerRequestViews(db, id); err == nil {
			record.ViewCount++
		}
	}
	return s.toSeekerResponse(db, record), nil
}

func (s *JobService) ListSeekerRequests(db *gorm.DB, criteria repositories.JobCriteria, viewerRole models.UserRole) (*dto.JobSeekerRequestListResponse, error) {
	criteria = s.clampCriteria(criteria, viewerRole)
	records, total, err := s.jobRepo.FindSeekerRequests(db, criteria)
	if err != nil {
		return nil, dbErr("jobs", "list seeker requests", err)
	}

	resp := &dto.JobSeekerRequestListResponse{
		Requests: make([]*dto.JobSeekerRequestResponse, 0, len(records)),
		Total:    total,
		Page:     criteria.Page,
		PageSize: criteria.PageSize,
	}
	names := s.posterNames(db, seekerPosters(records))
	for i := range records {
		r := toJobSeekerRequestResponse(&records[i])
		r.PostedByName = names[records[i].PostedByUserID]
		resp.Requests = append(resp.Requests, r)
	}
	return resp, nil
}

func (s *JobService) UpdateSeekerRequest(db *gorm.DB, id, userID string, req *dto.UpdateJobSeekerRequestRequest) (*dto.JobSeekerRequestResponse, error) {
	record, err := s.loadSeekerRequest(db, id)
	if err != nil {
		return nil, err
	}
	if record.PostedByUserID != userID {
		return nil, apperrors.NewForbiddenError("posting belongs to another user")
	}

	applyIfSet(&record.Title, req.Title)
	applyIfSet(&record.Description, req.Description)
	applyIfSet(&record.DesiredRole, req.DesiredRole)
	applyIfSet(&record.Experience, req.Experience)
	applyIfSet(&record.Location, req.Location)
	applyIfSet(&record.Country, req.Country)

	next, err := ApplyModeration(record.Status, ActionResubmit)
	if err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}
	record.Status = next
	record.RejectionReason = ""
	record.ApprovedAt = nil
	record.ApprovedBy = ""

	if err := s.jobRepo.UpdateSeekerRequest(db, record); err != nil {
		return nil, dbErr("jobs", "update seeker request", err)
	}
	s.notifyResubmitted(db, userID, record.ID, record.Title)
	return s.toSeekerResponse(db, record), nil
}

func (s *JobService) DeleteSeekerRequest(db *gorm.DB, id, userID string, role models.UserRole) error {
	record, err := s.loadSeekerRequest(db, id)
	if err != nil {
		return err
	}
	if record.PostedByUserID != userID && role != models.UserRoleAdmin {
		return apperrors.NewForbiddenError("posting belongs to another user")
	}
	if err := s.jobRepo.DeleteSeekerRequest(db, id); err != nil {
		return dbErr("jobs", "delete seeker request", err)
	}
	return nil
}

func (s *JobService) ApproveSeekerRequest(db *gorm.DB, id, approverID string) (*dto.JobSeekerRequestResponse, error) {
	return s.moderateSeekerRequest(db, id, approverID, ActionApprove, "")
}

func (s *JobService) RejectSeekerRequest(db *gorm.DB, id, approverID, reason string) (*dto.JobSeekerRequestResponse, error) {
	return s.moderateSeekerRequest(db, id, approverID, ActionReject, reason)
}

func (s *JobService) BulkApproveSeekerRequests(db *gorm.DB, approverID string, ids []string) []dto.BulkResult {
	return applyBulk(ids, func(id string) error {
		_, err := s.ApproveSeekerRequest(db, id, approverID)
		return err
	})
}

func (s *JobService) BulkRejectSeekerRequests(db *gorm.DB, approverID string, ids []string, reason string) []dto.BulkResult {
	return applyBulk(ids, func(id string) error {
		_, err := s.RejectSeekerRequest(db, id, approverID, reason)
		return err
	})
}

func (s *JobService) moderateSeekerRequest(db *gorm.DB, id, approverID string, action ModerationAction, reason string) (*dto.JobSeekerRequestResponse, error) {
	record, err := s.loadSeekerRequest(db, id)
	if err != nil {
		return nil, err
	}
	next, err := ApplyModeration(record.Status, action)
	if err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}
	if action == ActionReject {
		reason = RejectionReasonOrDefault(reason)
	} else {
		reason = ""
	}
	if err := s.jobRepo.UpdateSeekerRequestStatus(db, id, next, reason, approverID); err != nil {
		return nil, dbErr("jobs", "update seeker request status", err)
	}
	record.Status = next
	record.RejectionReason = reason
	s.notifyModerated(db, record.PostedByUserID, record.Title, action, reason)
	return s.toSeekerResponse(db, record), nil
}

func (s *JobService) loadSeekerRequest(db *gorm.DB, id string) (*models.JobSeekerRequest, error) {
	record, err := s.jobRepo.FindSeekerRequestByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, dbErr("jobs", "load seeker request", err)
	}
	return record, nil
}

func (s *JobService) toSeekerResponse(db *gorm.DB, record *models.JobSeekerRequest) *dto.JobSeekerRequestResponse {
	r := toJobSeekerRequestResponse(record)
	if user, err := s.userRepo.FindByID(db, record.PostedByUserID); err == nil {
		r.PostedByName = user.Name
	}
	return r
}

// ---------------- Shared ----------------

// checkVisible: non-approved postings are visible to their owner and
// to admins only. Pastors moderate people, not the job board.
func (s *JobService) checkVisible(status models.ApprovalStatus, ownerID, viewerID string, viewerRole models.UserRole) error {
	if status == models.ApprovalStatusApproved {
		return nil
	}
	if ownerID == viewerID || viewerRole == models.UserRoleAdmin {
		return nil
	}
	return apperrors.ErrNotFound(repositories.ErrJobNotFound)
}

// clampCriteria forces non-admins onto the approved slice of the board.
func (s *JobService) clampCriteria(criteria repositories.JobCriteria, viewerRole models.UserRole) repositories.JobCriteria {
	if viewerRole != models.UserRoleAdmin {
		criteria.Status = string(models.ApprovalStatusApproved)
	}
	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 || criteria.PageSize > 100 {
		criteria.PageSize = 20
	}
	return criteria
}

// notifySubmitted confirms receipt to the poster and alerts the admins
// who moderate the board, each with their own outbox row.
func (s *JobService) notifySubmitted(db *gorm.DB, userID, postingID, title string) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return
	}
	enqueueEmail(db, s.outboxRepo, user.Email, email.TemplateJobSubmitted, map[string]interface{}{
		"name":  user.Name,
		"title": title,
	})

	if err := s.notificationService.NotifyAdmins(db,
		models.NotificationTypePendingApproval,
		"Posting awaiting review",
		user.Name+" submitted \""+title+"\" for review",
		map[string]interface{}{"posting_id": postingID, "user_id": user.ID},
	); err != nil {
		logger.WithError(err).Warn("admin fan-out failed", "posting_id", postingID)
	}

	admins, err := s.userRepo.FindByRole(db, models.UserRoleAdmin)
	if err != nil {
		return
	}
	for i := range admins {
		enqueueEmail(db, s.outboxRepo, admins[i].Email, email.TemplateJobPendingReview, map[string]interface{}{
			"name":   admins[i].Name,
			"poster": user.Name,
			"title":  title,
		})
	}
}

// notifyResubmitted re-queues the admin alert after an edit. Edits do
// not repeat the poster confirmation email.
func (s *JobService) notifyResubmitted(db *gorm.DB, userID, postingID, title string) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return
	}
	if err := s.notificationService.NotifyAdmins(db,
		models.NotificationTypePendingApproval,
		"Posting awaiting review",
		user.Name+" updated \""+title+"\"; it needs another review",
		map[string]interface{}{"posting_id": postingID, "user_id": user.ID},
	); err != nil {
		logger.WithError(err).Warn("admin fan-out failed", "posting_id", postingID)
	}
}

func (s *JobService) notifyModerated(db *gorm.DB, userID, title string, action ModerationAction, reason string) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return
	}
	switch action {
	case ActionApprove:
		s.notificationService.notifyBestEffort(db, userID,
			models.NotificationTypeJobApproved,
			"Your posting has been approved",
			title+" is now visible on the board.",
			nil)
		enqueueEmail(db, s.outboxRepo, user.Email, email.TemplateJobApproved, map[string]interface{}{
			"name":  user.Name,
			"title": title,
		})
	case ActionReject:
		s.notificationService.notifyBestEffort(db, userID,
			models.NotificationTypeJobRejected,
			"Your posting was not approved",
			reason,
			nil)
		enqueueEmail(db, s.outboxRepo, user.Email, email.TemplateJobRejected, map[string]interface{}{
			"name":   user.Name,
			"title":  title,
			"reason": reason,
		})
	}
}

func (s *JobService) posterNames(db *gorm.DB, ids []string) map[string]string {
	names := map[string]string{}
	users, err := s.userRepo.FindByIDs(db, ids)
	if err != nil {
		return names
	}
	for i := range users {
		names[users[i].ID] = users[i].Name
	}
	return names
}

func opportunityPosters(jobs []models.JobOpportunity) []string {
	seen := map[string]struct{}{}
	ids := make([]string, 0, len(jobs))
	for i := range jobs {
		if _, ok := seen[jobs[i].PostedByUserID]; ok {
			continue
		}
		seen[jobs[i].PostedByUserID] = struct{}{}
		ids = append(ids, jobs[i].PostedByUserID)
	}
	return ids
}

func seekerPosters(records []models.JobSeekerRequest) []string {
	seen := map[string]struct{}{}
	ids := make([]string, 0, len(records))
	for i := range records {
		if _, ok := seen[records[i].PostedByUserID]; ok {
			continue
		}
		seen[records[i].PostedByUserID] = struct{}{}
		ids = append(ids, records[i].PostedByUserID)
	}
	return ids
}

func toJobOpportunityResponse(job *models.JobOpportunity) *dto.JobOpportunityResponse {
	return &dto.JobOpportunityResponse{
		ID:              job.ID,
		PostedByUserID:  job.PostedByUserID,
		Title:           job.Title,
		Description:     job.Description,
		Company:         job.Company,
		Location:        job.Location,
		Country:         job.Country,
		ContactEmail:    job.ContactEmail,
		ContactPhone:    job.ContactPhone,
		Status:          string(job.Status),
		RejectionReason: job.RejectionReason,
		ApprovedAt:      job.ApprovedAt,
		ViewCount:       job.ViewCount,
		CreatedAt:       job.CreatedAt,
	}
}

func toJobSeekerRequestResponse(record *models.JobSeekerRequest) *dto.JobSeekerRequestResponse {
	return &dto.JobSeekerRequestResponse{
		ID:              record.ID,
		PostedByUserID:  record.PostedByUserID,
		Title:           record.Title,
		Description:     record.Description,
		DesiredRole:     record.DesiredRole,
		Experience:      record.Experience,
		Location:        record.Location,
		Country:         record.Country,
		Status:          string(record.Status),
		RejectionReason: record.RejectionReason,
		ApprovedAt:      record.ApprovedAt,
		ViewCount:       record.ViewCount,
		CreatedAt:       record.CreatedAt,
	}
}
