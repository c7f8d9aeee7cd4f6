package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wheelshare/service-rental/internal/application"
	"github.com/wheelshare/service-rental/internal/auth"
	carDomain "github.com/wheelshare/service-rental/internal/domain/car"
	"github.com/wheelshare/service-rental/internal/middleware"
	"github.com/wheelshare/service-rental/internal/response"
)

// CarPhotoHandler handles HTTP requests for car listing photos.
type CarPhotoHandler struct {
	service *application.CarPhotoService
}

// NewCarPhotoHandler creates a new CarPhotoHandler.
func NewCarPhotoHandler(service *application.CarPhotoService) *CarPhotoHandler {
	return &CarPhotoHandler{service: service}
}

// RegisterRoutes registers all car photo routes.
func (h *CarPhotoHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	photos := r.Group("/api/v1/cars")
	photos.Use(middleware.AuthMiddleware(jwtManager))
	{
		photos.POST("/:id/photos", h.UploadPhoto)
		photos.GET("/:id/photos", h.GetCarPhotos)
		photos.DELETE("/photos/:photoId", h.DeletePhoto)
	}
}

// UploadPhoto handles POST /api/v1/cars/:id/photos.
func (h *CarPhotoHandler) UploadPhoto(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	carID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "invalid car ID")
		return
	}

	var req application.UploadPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UploadPhoto(c.Request.Context(), actor, carDomain.CarID(carID), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetCarPhotos handles GET /api/v1/cars/:id/photos.
func (h *CarPhotoHandler) GetCarPhotos(c *gin.Context) {
	carID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "invalid car ID")
		return
	}

	result, err := h.service.GetCarPhotos(c.Request.Context(), carDomain.CarID(carID))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeletePhoto handles DELETE /api/v1/cars/photos/:photoId.
func (h *CarPhotoHandler) DeletePhoto(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	photoID, err := uuid.Parse(c.Param("photoId"))
	if err != nil {
		response.BadRequest(c, "invalid photo ID")
		return
	}

	if err := h.service.DeletePhoto(c.Request.Context(), actor, photoID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "photo removed"})
}
