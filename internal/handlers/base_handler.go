package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"parishlink/internal/middleware"
	"parishlink/internal/validator"
	"parishlink/pkg/apperrors"
	"parishlink/pkg/contextkeys"
)

// BaseHandler carries what every handler needs: body/query binding with
// validation and the request-scoped database handle.
type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler() *BaseHandler {
	return &BaseHandler{validator: validator.New()}
}

// GetDB fetches the request-scoped *gorm.DB planted by DBMiddleware.
func (h *BaseHandler) GetDB(c *gin.Context) *gorm.DB {
	db, ok := c.Get(string(contextkeys.DBContextKey))
	if !ok {
		return nil
	}
	return db.(*gorm.DB)
}

// BindAndValidateJSON decodes the body and runs struct validation,
// writing the error response itself on failure.
func (h *BaseHandler) BindAndValidateJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("invalid request body: "+err.Error()))
		return false
	}
	if err := h.validator.Validate(obj); err != nil {
		if ve, ok := err.(*validator.ValidationError); ok {
			apperrors.HandleError(c, apperrors.ValidationError(ve.Errors))
		} else {
			apperrors.HandleError(c, apperrors.NewBadRequestError(err.Error()))
		}
		return false
	}
	return true
}

// BindQuery decodes query parameters into obj.
func (h *BaseHandler) BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("invalid query parameters: "+err.Error()))
		return false
	}
	return true
}

// CurrentUserID returns the authenticated principal's id. The auth
// middleware guarantees it is set on protected routes.
func (h *BaseHandler) CurrentUserID(c *gin.Context) string {
	return middleware.GetUserID(c)
}

// HandleServiceError reports a service error through the shared
// envelope.
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	apperrors.HandleError(c, err)
}

// ParsePagination reads page/page_size with sane bounds.
func (h *BaseHandler) ParsePagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

// OK writes a 200 with the payload.
func (h *BaseHandler) OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// Created writes a 201 with the payload.
func (h *BaseHandler) Created(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusCreated, payload)
}
