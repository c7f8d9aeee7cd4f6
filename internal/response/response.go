// Package response maps domain results and errors to HTTP responses.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wheelshare/service-rental/internal/domain"
	"github.com/wheelshare/service-rental/internal/domain/booking"
	"github.com/wheelshare/service-rental/internal/domain/car"
)

// Success writes a 200 with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// Created writes a 201 with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"data": data})
}

// Paginated writes a 200 with items and paging metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, gin.H{
		"data": items,
		"pagination": gin.H{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// BadRequest writes a 400 with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// Error translates a domain error into the matching HTTP status.
func Error(c *gin.Context, err error) {
	var (
		notFound     *domain.NotFoundError
		validation   *domain.ValidationError
		conflict     *domain.ConflictError
		forbidden    *domain.ForbiddenError
		unauthorized *domain.UnauthorizedError
		invalidState *domain.InvalidStateError

		notAvailable      *booking.CarNotAvailableError
		invalidTransition *booking.InvalidStateTransitionError
		activeBooking     *booking.ActiveBookingError
		duplicatePlate    *car.DuplicateLicensePlateError
	)

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &invalidTransition), errors.As(err, &invalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &notAvailable), errors.As(err, &activeBooking),
		errors.As(err, &duplicatePlate), errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &forbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.As(err, &unauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
