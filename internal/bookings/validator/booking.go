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

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	if err := v.RegisterValidation("single_host", validateSingleHost); err != nil {
		log.Fatal("Failed to register 'single_host' validator", "error", err)
	}

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

// validateSingleHost checks that a tenant list has exactly one host
// entry and no duplicate users.
func validateSingleHost(fl validator.FieldLevel) bool {
	tenants, ok := fl.Field().Interface().([]model.Tenant)
	if !ok {
		return false
	}

	hosts := 0
	seen := make(map[string]struct{}, len(tenants))
	for _, t := range tenants {
		if t.UserID == "" {
			return false
		}
		if _, dup := seen[t.UserID]; dup {
			return false
		}
		seen[t.UserID] = struct{}{}
		if t.Status == model.TenantHost {
			hosts++
		}
	}
	return hosts == 1
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if !booking.Status.Valid() {
		return ValidationErrors{
			ValidationError{
				Field:   "Status",
				Message: fmt.Sprintf("unknown booking status %q", booking.Status),
			},
		}
	}

	normalized := model.NormalizeDates(booking.BookedDates)
	for i := 1; i < len(normalized); i++ {
		if !normalized[i].After(normalized[i-1]) {
			return ValidationErrors{
				ValidationError{
					Field:   "BookedDates",
					Message: "booked_dates must be strictly ascending with no duplicate days",
				},
			}
		}
	}

	return nil
}

// ValidateAgainstProperty checks the parts of a booking that depend on
// the listing: offered lease terms, listing availability, and the
// contiguity rule for apartment stays.
func (v *BookingValidator) ValidateAgainstProperty(booking *model.Booking, property *model.Property) error {
	if property.Status != model.PropertyAvailable {
		return ValidationErrors{
			ValidationError{
				Field:   "PropertyID",
				Message: fmt.Sprintf("property is %s and cannot be booked", property.Status),
			},
		}
	}

	if property.Type == model.PropertyApartment && !model.ContiguousDates(model.NormalizeDates(booking.BookedDates)) {
		return ValidationErrors{
			ValidationError{
				Field:   "BookedDates",
				Message: "apartment bookings require contiguous dates",
			},
		}
	}

	if property.Type == model.PropertyTransient && property.Transient != nil {
		if len(booking.BookedDates) < property.Transient.MinStayDays {
			return ValidationErrors{
				ValidationError{
					Field:   "BookedDates",
					Message: fmt.Sprintf("stay must cover at least %d days", property.Transient.MinStayDays),
				},
			}
		}
	}

	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "single_host":
			message = fmt.Sprintf("%s must name each user once and contain exactly one host", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
