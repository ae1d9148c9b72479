package validator

import (
	"errors"
	"fmt"
	"strings"

	"nestbook/pkg/logger"
	"nestbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type PropertyValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewPropertyValidator(log *logger.Logger) *PropertyValidator {
	return &PropertyValidator{
		validate: validator.New(),
		logger:   log,
	}
}

// Validate checks the struct tags plus the variant rule: the details
// block present must match the declared type, and only one block may
// be present. Listings with a mismatched shape are rejected outright
// rather than guessed at.
func (v *PropertyValidator) Validate(property *model.Property) error {
	if err := v.validate.Struct(property); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.validateVariant(property)
}

func (v *PropertyValidator) validateVariant(property *model.Property) error {
	switch property.Type {
	case model.PropertyApartment:
		if property.Apartment == nil {
			return ValidationErrors{
				ValidationError{Field: "Apartment", Message: "apartment listings require apartment details"},
			}
		}
		if property.Transient != nil {
			return ValidationErrors{
				ValidationError{Field: "Transient", Message: "apartment listings cannot carry transient details"},
			}
		}
		if err := v.validate.Struct(property.Apartment); err != nil {
			var validationErrs validator.ValidationErrors
			if errors.As(err, &validationErrs) {
				return v.translateValidationErrors(validationErrs)
			}
			return err
		}
	case model.PropertyTransient:
		if property.Transient == nil {
			return ValidationErrors{
				ValidationError{Field: "Transient", Message: "transient listings require transient details"},
			}
		}
		if property.Apartment != nil {
			return ValidationErrors{
				ValidationError{Field: "Apartment", Message: "transient listings cannot carry apartment details"},
			}
		}
		if err := v.validate.Struct(property.Transient); err != nil {
			var validationErrs validator.ValidationErrors
			if errors.As(err, &validationErrs) {
				return v.translateValidationErrors(validationErrs)
			}
			return err
		}
	default:
		return ValidationErrors{
			ValidationError{Field: "Type", Message: fmt.Sprintf("unknown property type %q", property.Type)},
		}
	}

	return nil
}

func (v *PropertyValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
