package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/medops/clinic-api/internal/model"
)

// RegisterValidations installs the custom binding validators. Must run once
// before the router starts serving.
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterValidation("timeofday", func(fl validator.FieldLevel) bool {
		tod := model.TimeOfDay(fl.Field().String())
		if tod.IsZero() {
			return true
		}
		_, _, err := tod.Parse()
		return err == nil
	})
}
