package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/wheelshare/service-rental/internal/application"
	"github.com/wheelshare/service-rental/internal/auth"
	cartypeDomain "github.com/wheelshare/service-rental/internal/domain/cartype"
	userDomain "github.com/wheelshare/service-rental/internal/domain/user"
	"github.com/wheelshare/service-rental/internal/middleware"
	"github.com/wheelshare/service-rental/internal/response"
)

// CarTypeHandler handles HTTP requests for the car type catalogue.
type CarTypeHandler struct {
	service *application.CarTypeService
}

// NewCarTypeHandler creates a new CarTypeHandler.
func NewCarTypeHandler(service *application.CarTypeService) *CarTypeHandler {
	return &CarTypeHandler{service: service}
}

// RegisterRoutes registers all car type routes. Reads are open to any
// authenticated user; mutations are admin-only.
func (h *CarTypeHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	adminOnly := middleware.RequireRole(userDomain.RoleAdmin)

	types := r.Group("/api/v1/car-types")
	types.Use(middleware.AuthMiddleware(jwtManager))
	{
		types.GET("", h.GetCarTypes)
		types.GET("/:id", h.GetCarType)
		types.POST("", adminOnly, h.CreateCarType)
		types.PUT("/:id", adminOnly, h.UpdateCarType)
	}
}

// GetCarTypes handles GET /api/v1/car-types.
func (h *CarTypeHandler) GetCarTypes(c *gin.Context) {
	result, err := h.service.GetCarTypes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetCarType handles GET /api/v1/car-types/:id.
func (h *CarTypeHandler) GetCarType(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "invalid car type ID")
		return
	}

	result, err := h.service.GetCarType(c.Request.Context(), cartypeDomain.CarTypeID(id))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateCarType handles POST /api/v1/car-types.
func (h *CarTypeHandler) CreateCarType(c *gin.Context) {
	var req application.CreateCarTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateCarType(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateCarType handles PUT /api/v1/car-types/:id.
func (h *CarTypeHandler) UpdateCarType(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "invalid car type ID")
		return
	}

	var req application.UpdateCarTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateCarType(c.Request.Context(), cartypeDomain.CarTypeID(id), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
