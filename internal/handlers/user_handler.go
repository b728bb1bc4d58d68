package handlers

import (
	"github.com/gin-gonic/gin"

	"parishlink/internal/middleware"
	"parishlink/internal/models"
	"parishlink/internal/services"
	"parishlink/internal/services/dto"
)

type UserHandler struct {
	*BaseHandler
	userService *services.UserService
}

func NewUserHandler(base *BaseHandler, userService *services.UserService) *UserHandler {
	return &UserHandler{BaseHandler: base, userService: userService}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/me", h.Me)
		users.POST("/heartbeat", h.Heartbeat)
		users.POST("/presence", h.PresenceMany)
		users.GET("/:id/presence", h.Presence)
		users.GET("/:id", h.Get)

		moderators := users.Group("")
		moderators.Use(middleware.RequireRoles(models.UserRoleAdmin, models.UserRolePastor))
		{
			moderators.GET("/pending", h.ListPending)
			moderators.POST("/:id/approve", h.Approve)
			moderators.POST("/:id/reject", h.Reject)
		}

		admin := users.Group("")
		admin.Use(middleware.RequireRoles(models.UserRoleAdmin))
		{
			admin.GET("", h.List)
			admin.PUT("/:id/role", h.ChangeRole)
			admin.DELETE("/:id", h.Delete)
		}
	}
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userService.GetByID(h.GetDB(c), h.CurrentUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, user)
}

func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.GetByID(h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, user)
}

func (h *UserHandler) List(c *gin.Context) {
	page, pageSize := h.ParsePagination(c)
	users, err := h.userService.List(h.GetDB(c), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, users)
}

func (h *UserHandler) ListPending(c *gin.Context) {
	page, pageSize := h.ParsePagination(c)
	users, err := h.userService.ListPendingAccounts(h.GetDB(c), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, users)
}

func (h *UserHandler) Approve(c *gin.Context) {
	user, err := h.userService.ApproveAccount(h.GetDB(c), c.Param("id"), h.CurrentUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, user)
}

func (h *UserHandler) Reject(c *gin.Context) {
	var req dto.RejectAccountRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	user, err := h.userService.RejectAccount(h.GetDB(c), c.Param("id"), h.CurrentUserID(c), req.Reason)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, user)
}

func (h *UserHandler) ChangeRole(c *gin.Context) {
	var req dto.ChangeRoleRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	user, err := h.userService.ChangeRole(h.GetDB(c), c.Param("id"), h.CurrentUserID(c), models.UserRole(req.Role))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userService.DeleteUser(h.GetDB(c), c.Param("id"), h.CurrentUserID(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, dto.MessageResponse{Message: "user deleted"})
}

func (h *UserHandler) Heartbeat(c *gin.Context) {
	var req dto.HeartbeatRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	if err := h.userService.Heartbeat(c.Request.Context(), h.GetDB(c), h.CurrentUserID(c), req.IsOnline); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, dto.MessageResponse{Message: "ok"})
}

func (h *UserHandler) PresenceMany(c *gin.Context) {
	var req dto.PresenceBatchRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	presences, err := h.userService.PresenceMany(c.Request.Context(), h.GetDB(c), req.UserIDs)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, gin.H{"presences": presences})
}

func (h *UserHandler) Presence(c *gin.Context) {
	presence, err := h.userService.Presence(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, presence)
}
