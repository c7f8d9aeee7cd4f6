package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	bookingDomain "github.com/wheelshare/service-rental/internal/domain/booking"
	carDomain "github.com/wheelshare/service-rental/internal/domain/car"
)

// RegisterValidations wires the domain enums into gin's binding
// validator so requests carrying unknown states or fuel types are
// rejected at the edge.
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("fueltype", func(fl validator.FieldLevel) bool {
		return carDomain.FuelType(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("carstate", func(fl validator.FieldLevel) bool {
		return carDomain.CarState(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("bookingstate", func(fl validator.FieldLevel) bool {
		_, err := bookingDomain.ParseBookingState(fl.Field().String())
		return err == nil
	})
}
