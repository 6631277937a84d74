package services

import (
	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// OptionalString is a body field that may be absent (Set false), null (Value nil) or a string.
type OptionalString struct {
	Set   bool
	Value *string
}
