package handlers

import (
	"fmt"
	"html"
	"net/http"

	"github.com/gin-gonic/gin"

	"parishlink/internal/middleware"
	"parishlink/internal/services"
	"parishlink/internal/services/dto"
)

type AuthHandler struct {
	*BaseHandler
	authService *services.AuthService
	userService *services.UserService
}

func NewAuthHandler(base *BaseHandler, authService *services.AuthService, userService *services.UserService) *AuthHandler {
	return &AuthHandler{BaseHandler: base, authService: authService, userService: userService}
}

func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", middleware.AuthMiddleware(), h.Logout)
	}

	// One-click link from the moderator email. Renders inline HTML, not
	// JSON, because it opens in a browser.
	r.GET("/approve-account/:token", h.ApproveByToken)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	user, err := h.authService.Register(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.Created(c, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	resp, err := h.authService.Login(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}
	resp, err := h.authService.Refresh(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(h.GetDB(c), h.CurrentUserID(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, dto.MessageResponse{Message: "logged out"})
}

const approvalPageOK = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Account approved</title></head>
<body style="font-family:Arial,sans-serif;text-align:center;padding:60px;">
<h1 style="color:#27ae60;">&#10003; Account approved</h1>
<p>%s's account is now active. They have been notified by email.</p>
</body></html>`

const approvalPageError = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Link invalid</title></head>
<body style="font-family:Arial,sans-serif;text-align:center;padding:60px;">
<h1 style="color:#c0392b;">Link invalid or expired</h1>
<p>This approval link has already been used or has expired.
Please use the admin dashboard instead.</p>
</body></html>`

func (h *AuthHandler) ApproveByToken(c *gin.Context) {
	user, err := h.userService.ApproveAccountByToken(h.GetDB(c), c.Param("token"))
	if err != nil {
		c.Data(http.StatusBadRequest, "text/html; charset=utf-8", []byte(approvalPageError))
		return
	}
	page := []byte(fmt.Sprintf(approvalPageOK, html.EscapeString(user.Name)))
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}
