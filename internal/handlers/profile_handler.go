package handlers

import (
	"github.com/gin-gonic/gin"

	"parishlink/internal/middleware"
	"parishlink/internal/models"
	"parishlink/internal/services"
	"parishlink/internal/services/dto"
)

type ProfileHandler struct {
	*BaseHandler
	profileService *services.ProfileService
}

func NewProfileHandler(base *BaseHandler, profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{BaseHandler: base, profileService: profileService}
}

func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup) {
	profiles := r.Group("/profiles")
	profiles.Use(middleware.AuthMiddleware())
	{
		profiles.POST("", middleware.RequireApprovedAccount(), h.Create)
		profiles.GET("/me", h.GetOwn)
		profiles.PUT("/me", h.Update)
		profiles.DELETE("/me", h.Delete)
		profiles.GET("/:id", h.Get)

		moderators := profiles.Group("")
		moderators.Use(middleware.RequireRoles(models.UserRoleAdmin, models.UserRolePastor))
		{
			moderators.GET("/pending", h.ListPending)
			moderators.POST("/:id/approve", h.Approve)
			moderators.POST("/:id/reject", h.Reject)
			moderators.POST("/bulk-approve", h.BulkApprove)
			moderators.POST("/bulk-reject", h.BulkReject)
			moderators.PUT("/:id/verification", h.SetVerification)
		}
	}
}

func (h *ProfileHandler) Create(c *gin.Context) {
	var req dto.CreateProfileRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	profile, err := h.profileService.Create(h.GetDB(c), h.CurrentUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, profile)
}

func (h *ProfileHandler) GetOwn(c *gin.Context) {
	profile, err := h.profileService.GetOwn(h.GetDB(c), h.CurrentUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, profile)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	profile, err := h.profileService.Update(h.GetDB(c), h.CurrentUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, profile)
}

func (h *ProfileHandler) Delete(c *gin.Context) {
	if err := h.profileService.Delete(h.GetDB(c), h.CurrentUserID(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, dto.MessageResponse{Message: "profile deleted"})
}

func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.profileService.GetPublic(h.GetDB(c), c.Param("id"), h.CurrentUserID(c), middleware.GetUserRole(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, profile)
}

func (h *ProfileHandler) ListPending(c *gin.Context) {
	page, pageSize := h.ParsePagination(c)
	profiles, err := h.profileService.ListPending(h.GetDB(c), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, profiles)
}

func (h *ProfileHandler) Approve(c *gin.Context) {
	profile, err := h.profileService.Approve(h.GetDB(c), c.Param("id"), h.CurrentUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, profile)
}

func (h *ProfileHandler) Reject(c *gin.Context) {
	var req dto.RejectRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	profile, err := h.profileService.Reject(h.GetDB(c), c.Param("id"), h.CurrentUserID(c), req.Reason)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, profile)
}

func (h *ProfileHandler) BulkApprove(c *gin.Context) {
	var req dto.BulkRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	results := h.profileService.BulkApprove(h.GetDB(c), h.CurrentUserID(c), req.IDs)
	h.OK(c, gin.H{"results": results})
}

func (h *ProfileHandler) BulkReject(c *gin.Context) {
	var req dto.BulkRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	results := h.profileService.BulkReject(h.GetDB(c), h.CurrentUserID(c), req.IDs, req.Reason)
	h.OK(c, gin.H{"results": results})
}

func (h *ProfileHandler) SetVerification(c *gin.Context) {
	var req dto.SetVerificationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	profile, err := h.profileService.SetVerification(h.GetDB(c), c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, profile)
}
