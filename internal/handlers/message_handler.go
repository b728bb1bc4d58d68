package handlers

import (
	"github.com/gin-gonic/gin"

	"parishlink/internal/middleware"
	"parishlink/internal/services"
	"parishlink/internal/services/dto"
)

type MessageHandler struct {
	*BaseHandler
	messageService *services.MessageService
}

func NewMessageHandler(base *BaseHandler, messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{BaseHandler: base, messageService: messageService}
}

func (h *MessageHandler) RegisterRoutes(r *gin.RouterGroup) {
	messages := r.Group("/messages")
	messages.Use(middleware.AuthMiddleware(), middleware.RequireApprovedAccount())
	{
		messages.POST("", middleware.MessageRateLimitMiddleware(), h.Send)
		messages.GET("/inbox", h.Inbox)
		messages.GET("/unread-count", h.UnreadCount)
		messages.GET("/thread/:userId", h.Thread)
		messages.POST("/thread/:userId/read", h.MarkThreadRead)
		messages.PUT("/:id", h.Edit)
		messages.DELETE("/:id", h.Delete)
		messages.POST("/:id/reactions", h.React)
		messages.DELETE("/:id/reactions", h.RemoveReaction)
		messages.POST("/typing", h.SetTyping)
		messages.GET("/typing/:userId", h.Typing)
	}
}

func (h *MessageHandler) Send(c *gin.Context) {
	var req dto.SendMessageRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	msg, err := h.messageService.Send(h.GetDB(c), h.CurrentUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, msg)
}

func (h *MessageHandler) Inbox(c *gin.Context) {
	inbox, err := h.messageService.Inbox(h.GetDB(c), h.CurrentUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, inbox)
}

func (h *MessageHandler) UnreadCount(c *gin.Context) {
	count, err := h.messageService.UnreadCount(h.GetDB(c), h.CurrentUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, gin.H{"unread_count": count})
}

func (h *MessageHandler) Thread(c *gin.Context) {
	conv, err := h.messageService.Thread(h.GetDB(c), h.CurrentUserID(c), c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, conv)
}

func (h *MessageHandler) MarkThreadRead(c *gin.Context) {
	n, err := h.messageService.MarkThreadRead(h.GetDB(c), h.CurrentUserID(c), c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, gin.H{"marked_read": n})
}

func (h *MessageHandler) Edit(c *gin.Context) {
	var req dto.EditMessageRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	msg, err := h.messageService.Edit(h.GetDB(c), h.CurrentUserID(c), c.Param("id"), req.Content)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, msg)
}

func (h *MessageHandler) Delete(c *gin.Context) {
	var req dto.DeleteMessageRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	if err := h.messageService.Delete(h.GetDB(c), h.CurrentUserID(c), c.Param("id"), req.Scope); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, dto.MessageResponse{Message: "message deleted"})
}

func (h *MessageHandler) React(c *gin.Context) {
	var req dto.ReactionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	if err := h.messageService.React(h.GetDB(c), h.CurrentUserID(c), c.Param("id"), req.Emoji); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, dto.MessageResponse{Message: "reaction saved"})
}

func (h *MessageHandler) RemoveReaction(c *gin.Context) {
	if err := h.messageService.RemoveReaction(h.GetDB(c), h.CurrentUserID(c), c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, dto.MessageResponse{Message: "reaction removed"})
}

func (h *MessageHandler) SetTyping(c *gin.Context) {
	var req dto.TypingRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	if err := h.messageService.SetTyping(h.GetDB(c), h.CurrentUserID(c), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, dto.MessageResponse{Message: "ok"})
}

func (h *MessageHandler) Typing(c *gin.Context) {
	resp, err := h.messageService.Typing(h.GetDB(c), h.CurrentUserID(c), c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}
