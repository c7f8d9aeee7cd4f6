package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/wheelshare/service-rental/internal/application"
	"github.com/wheelshare/service-rental/internal/auth"
	carDomain "github.com/wheelshare/service-rental/internal/domain/car"
	"github.com/wheelshare/service-rental/internal/middleware"
	"github.com/wheelshare/service-rental/internal/response"
)

// CarHandler handles HTTP requests for the car catalogue.
type CarHandler struct {
	service *application.CarService
}

// NewCarHandler creates a new CarHandler.
func NewCarHandler(service *application.CarService) *CarHandler {
	return &CarHandler{service: service}
}

// RegisterRoutes registers all car routes.
func (h *CarHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	cars := r.Group("/api/v1/cars")
	cars.Use(middleware.AuthMiddleware(jwtManager))
	{
		cars.POST("", h.CreateCar)
		cars.GET("", h.GetCars)
		cars.GET("/:id", h.GetCar)
		cars.PATCH("/:id", h.UpdateCar)
	}
}

// CreateCar registers a new car owned by the caller.
func (h *CarHandler) CreateCar(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req application.CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateCar(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetCars returns the whole car catalogue.
func (h *CarHandler) GetCars(c *gin.Context) {
	result, err := h.service.GetCars(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetCar returns a single car by ID.
func (h *CarHandler) GetCar(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "invalid car ID")
		return
	}

	result, err := h.service.GetCar(c.Request.Context(), carDomain.CarID(id))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateCar applies a partial update to a car.
func (h *CarHandler) UpdateCar(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "invalid car ID")
		return
	}

	var req application.UpdateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateCar(c.Request.Context(), actor, carDomain.CarID(id), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
