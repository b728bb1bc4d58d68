package handlers

import (
	"github.com/gin-gonic/gin"

	"parishlink/internal/middleware"
	"parishlink/internal/models"
	"parishlink/internal/repositories"
	"parishlink/internal/services"
	"parishlink/internal/services/dto"
)

type NotificationHandler struct {
	*BaseHandler
	notificationService *services.NotificationService
}

func NewNotificationHandler(base *BaseHandler, notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{BaseHandler: base, notificationService: notificationService}
}

func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("", h.List)
		notifications.GET("/unread-count", h.UnreadCount)
		notifications.POST("/read-all", h.MarkAllRead)
		notifications.POST("/read", h.MarkMultipleRead)
		notifications.POST("/:id/read", h.MarkRead)
		notifications.DELETE("/:id", h.Delete)
		notifications.DELETE("", h.DeleteAll)

		notifications.POST("/broadcast",
			middleware.RequireRoles(models.UserRoleAdmin), h.Broadcast)
	}
}

func (h *NotificationHandler) List(c *gin.Context) {
	var criteria repositories.NotificationCriteria
	if !h.BindQuery(c, &criteria) {
		return
	}
	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 || criteria.PageSize > 100 {
		criteria.PageSize = 20
	}
	resp, err := h.notificationService.List(h.GetDB(c), h.CurrentUserID(c), criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notificationService.UnreadCount(h.GetDB(c), h.CurrentUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, dto.UnreadCountResponse{Count: count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.notificationService.MarkRead(h.GetDB(c), h.CurrentUserID(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, dto.MessageResponse{Message: "marked read"})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.notificationService.MarkAllRead(h.GetDB(c), h.CurrentUserID(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, dto.MessageResponse{Message: "all marked read"})
}

func (h *NotificationHandler) MarkMultipleRead(c *gin.Context) {
	var req dto.MarkMultipleReadRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	if err := h.notificationService.MarkMultipleRead(h.GetDB(c), h.CurrentUserID(c), req.NotificationIDs); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, dto.MessageResponse{Message: "marked read"})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	if err := h.notificationService.Delete(h.GetDB(c), h.CurrentUserID(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, dto.MessageResponse{Message: "notification deleted"})
}

func (h *NotificationHandler) DeleteAll(c *gin.Context) {
	if err := h.notificationService.DeleteAll(h.GetDB(c), h.CurrentUserID(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, dto.MessageResponse{Message: "notifications cleared"})
}

func (h *NotificationHandler) Broadcast(c *gin.Context) {
	var req dto.BroadcastNotificationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	sent, err := h.notificationService.Broadcast(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, gin.H{"sent": sent})
}
