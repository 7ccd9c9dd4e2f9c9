package configmanager

import (
	"errors"
	"fmt"
	"strings"

	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())

	_ = validate.RegisterValidation("fsid", func(fl validator.FieldLevel) bool {
		_, err := uuid.Parse(fl.Field().String())

		return err == nil
	})

	return validate
}

// Validate checks cfg and reports every failing field.
func Validate(cfg *v1alpha1.Config) error {
	err := newValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, describe(fieldErr))
	}

	return fmt.Errorf("%w:\n%s", ErrInvalidConfig, strings.Join(messages, "\n"))
}

func describe(fieldErr validator.FieldError) string {
	field := strings.TrimPrefix(fieldErr.Namespace(), "Config.")

	switch fieldErr.Tag() {
	case "required":
		return field + " is required"
	case "fsid":
		return fmt.Sprintf("%s %q is not a UUID", field, fieldErr.Value())
	case "contains":
		return fmt.Sprintf("%s %q must contain %q", field, fieldErr.Value(), fieldErr.Param())
	default:
		return fmt.Sprintf("%s %v fails %s=%s", field, fieldErr.Value(), fieldErr.Tag(), fieldErr.Param())
	}
}
