package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"parishlink/internal/middleware"
	"parishlink/internal/models"
	"parishlink/internal/services"
)

type AnalyticsHandler struct {
	*BaseHandler
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(base *BaseHandler, analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{BaseHandler: base, analyticsService: analyticsService}
}

func (h *AnalyticsHandler) RegisterRoutes(r *gin.RouterGroup) {
	analytics := r.Group("/analytics")
	analytics.Use(middleware.AuthMiddleware(),
		middleware.RequireRoles(models.UserRoleAdmin, models.UserRolePastor))
	{
		analytics.GET("/dashboard", h.Dashboard)
		analytics.GET("/registrations", h.Registrations)
	}
}

func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	resp, err := h.analyticsService.Dashboard(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

func (h *AnalyticsHandler) Registrations(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	resp, err := h.analyticsService.RegistrationStats(h.GetDB(c), days)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}
