package handlers

import (
	"github.com/gin-gonic/gin"

	"parishlink/internal/middleware"
	"parishlink/internal/models"
	"parishlink/internal/repositories"
	"parishlink/internal/services"
	"parishlink/internal/services/dto"
)

// JobHandler serves both boards: /jobs for opportunities and
// /job-seekers for availability postings.
type JobHandler struct {
	*BaseHandler
	jobService *services.JobService
}

func NewJobHandler(base *BaseHandler, jobService *services.JobService) *JobHandler {
	return &JobHandler{BaseHandler: base, jobService: jobService}
}

func (h *JobHandler) RegisterRoutes(r *gin.RouterGroup) {
	jobs := r.Group("/jobs")
	jobs.Use(middleware.AuthMiddleware(), middleware.RequireApprovedAccount())
	{
		jobs.POST("", h.CreateOpportunity)
		jobs.GET("", h.ListOpportunities)
		jobs.GET("/:id", h.GetOpportunity)
		jobs.PUT("/:id", h.UpdateOpportunity)
		jobs.DELETE("/:id", h.DeleteOpportunity)

		admin := jobs.Group("")
		admin.Use(middleware.RequireRoles(models.UserRoleAdmin))
		{
			admin.POST("/:id/approve", h.ApproveOpportunity)
			admin.POST("/:id/reject", h.RejectOpportunity)
			admin.POST("/bulk-approve", h.BulkApproveOpportunities)
			admin.POST("/bulk-reject", h.BulkRejectOpportunities)
		}
	}

	seekers := r.Group("/job-seekers")
	seekers.Use(middleware.AuthMiddleware(), middleware.RequireApprovedAccount())
	{
		seekers.POST("", h.CreateSeekerRequest)
		seekers.GET("", h.ListSeekerRequests)
		seekers.GET("/:id", h.GetSeekerRequest)
		seekers.PUT("/:id", h.UpdateSeekerRequest)
		seekers.DELETE("/:id", h.DeleteSeekerRequest)

		admin := seekers.Group("")
		admin.Use(middleware.RequireRoles(models.UserRoleAdmin))
		{
			admin.POST("/:id/approve", h.ApproveSeekerRequest)
			admin.POST("/:id/reject", h.RejectSeekerRequest)
			admin.POST("/bulk-approve", h.BulkApproveSeekerRequests)
			admin.POST("/bulk-reject", h.BulkRejectSeekerRequests)
		}
	}
}

// ---------------- Opportunities ----------------

func (h *JobHandler) CreateOpportunity(c *gin.Context) {
	var req dto.CreateJobOpportunityRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	job, err := h.jobService.CreateOpportunity(h.GetDB(c), h.CurrentUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, job)
}

func (h *JobHandler) ListOpportunities(c *gin.Context) {
	var criteria repositories.JobCriteria
	if !h.BindQuery(c, &criteria) {
		return
	}
	resp, err := h.jobService.ListOpportunities(h.GetDB(c), criteria, middleware.GetUserRole(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

func (h *JobHandler) GetOpportunity(c *gin.Context) {
	job, err := h.jobService.GetOpportunity(h.GetDB(c), c.Param("id"), h.CurrentUserID(c), middleware.GetUserRole(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, job)
}

func (h *JobHandler) UpdateOpportunity(c *gin.Context) {
	var req dto.UpdateJobOpportunityRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	job, err := h.jobService.UpdateOpportunity(h.GetDB(c), c.Param("id"), h.CurrentUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, job)
}

func (h *JobHandler) DeleteOpportunity(c *gin.Context) {
	if err := h.jobService.DeleteOpportunity(h.GetDB(c), c.Param("id"), h.CurrentUserID(c), middleware.GetUserRole(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, dto.MessageResponse{Message: "posting deleted"})
}

func (h *JobHandler) ApproveOpportunity(c *gin.Context) {
	job, err := h.jobService.ApproveOpportunity(h.GetDB(c), c.Param("id"), h.CurrentUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, job)
}

func (h *JobHandler) RejectOpportunity(c *gin.Context) {
	var req dto.RejectRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	job, err := h.jobService.RejectOpportunity(h.GetDB(c), c.Param("id"), h.CurrentUserID(c), req.Reason)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, job)
}

func (h *JobHandler) BulkApproveOpportunities(c *gin.Context) {
	var req dto.BulkRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	results := h.jobService.BulkApproveOpportunities(h.GetDB(c), h.CurrentUserID(c), req.IDs)
	h.OK(c, gin.H{"results": results})
}

func (h *JobHandler) BulkRejectOpportunities(c *gin.Context) {
	var req dto.BulkRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	results := h.jobService.BulkRejectOpportunities(h.GetDB(c), h.CurrentUserID(c), req.IDs, req.Reason)
	h.OK(c, gin.H{"results": results})
}

// ---------------- Seeker requests ----------------

func (h *JobHandler) CreateSeekerRequest(c *gin.Context) {
	var req dto.CreateJobSeekerRequestRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	record, err := h.jobService.CreateSeekerRequest(h.GetDB(c), h.CurrentUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, record)
}

func (h *JobHandler) ListSeekerRequests(c *gin.Context) {
	var criteria repositories.JobCriteria
	if !h.BindQuery(c, &criteria) {
		return
	}
	resp, err := h.jobService.ListSeekerRequests(h.GetDB(c), criteria, middleware.GetUserRole(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

func (h *JobHandler) GetSeekerRequest(c *gin.Context) {
	record, err := h.jobService.GetSeekerRequest(h.GetDB(c), c.Param("id"), h.CurrentUserID(c), middleware.GetUserRole(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, record)
}

func (h *JobHandler) UpdateSeekerRequest(c *gin.Context) {
	var req dto.UpdateJobSeekerRequestRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	record, err := h.jobService.UpdateSeekerRequest(h.GetDB(c), c.Param("id"), h.CurrentUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, record)
}

func (h *JobHandler) DeleteSeekerRequest(c *gin.Context) {
	if err := h.jobService.DeleteSeekerRequest(h.GetDB(c), c.Param("id"), h.CurrentUserID(c), middleware.GetUserRole(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, dto.MessageResponse{Message: "posting deleted"})
}

func (h *JobHandler) ApproveSeekerRequest(c *gin.Context) {
	record, err := h.jobService.ApproveSeekerRequest(h.GetDB(c), c.Param("id"), h.CurrentUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, record)
}

func (h *JobHandler) RejectSeekerRequest(c *gin.Context) {
	var req dto.RejectRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	record, err := h.jobService.RejectSeekerRequest(h.GetDB(c), c.Param("id"), h.CurrentUserID(c), req.Reason)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, record)
}

func (h *JobHandler) BulkApproveSeekerRequests(c *gin.Context) {
	var req dto.BulkRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	results := h.jobService.BulkApproveSeekerRequests(h.GetDB(c), h.CurrentUserID(c), req.IDs)
	h.OK(c, gin.H{"results": results})
}

func (h *JobHandler) BulkRejectSeekerRequests(c *gin.Context) {
	var req dto.BulkRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	results := h.jobService.BulkRejectSeekerRequests(h.GetDB(c), h.CurrentUserID(c), req.IDs, req.Reason)
	h.OK(c, gin.H{"results": results})
}
