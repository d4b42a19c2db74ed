package handler

import (
	"estate_ledger/internal/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// RegisterValidators adds the custom binding tags used by request models
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	return v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return model.IsValidRole(fl.Field().String())
	})
}
