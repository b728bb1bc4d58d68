package handlers

import (
	"github.com/gin-gonic/gin"

	"parishlink/internal/middleware"
	"parishlink/internal/repositories"
	"parishlink/internal/services"
	"parishlink/internal/services/dto"
)

type SearchHandler struct {
	*BaseHandler
	searchService *services.SearchService
}

func NewSearchHandler(base *BaseHandler, searchService *services.SearchService) *SearchHandler {
	return &SearchHandler{BaseHandler: base, searchService: searchService}
}

func (h *SearchHandler) RegisterRoutes(r *gin.RouterGroup) {
	search := r.Group("/search")
	search.Use(middleware.AuthMiddleware(), middleware.RequireApprovedAccount())
	{
		search.GET("/profiles", h.Profiles)
		search.GET("/suggestions", h.Suggestions)
		search.GET("/history", h.History)
		search.DELETE("/history", h.ClearHistory)
	}
}

func (h *SearchHandler) Profiles(c *gin.Context) {
	var criteria repositories.ProfileSearchCriteria
	if !h.BindQuery(c, &criteria) {
		return
	}
	resp, err := h.searchService.SearchProfiles(h.GetDB(c), h.CurrentUserID(c), criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

func (h *SearchHandler) Suggestions(c *gin.Context) {
	resp, err := h.searchService.Suggest(h.GetDB(c), c.Query("q"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

func (h *SearchHandler) History(c *gin.Context) {
	resp, err := h.searchService.History(h.GetDB(c), h.CurrentUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, resp)
}

func (h *SearchHandler) ClearHistory(c *gin.Context) {
	if err := h.searchService.ClearHistory(h.GetDB(c), h.CurrentUserID(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	h.OK(c, dto.MessageResponse{Message: "history cleared"})
}
