package validator

import (
	"errors"
	"fmt"
	"strings"

	"skyfare/pkg/logger"
	"skyfare/pkg/model"

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

type FlightValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewFlightValidator(log *logger.Logger) *FlightValidator {
	return &FlightValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *FlightValidator) ValidateFlight(flight *model.Flight) error {
	if err := v.validate.Struct(flight); err != nil {
		return v.translate(err)
	}
	if flight.OriginIATA == flight.DestinationIATA {
		return ValidationErrors{
			ValidationError{
				Field:   "DestinationIATA",
				Message: "destination must differ from origin",
			},
		}
	}
	if hasDuplicateWeekdays(flight.Frequency) {
		return ValidationErrors{
			ValidationError{
				Field:   "Frequency",
				Message: "frequency must not repeat weekdays",
			},
		}
	}
	return nil
}

func (v *FlightValidator) ValidateAirport(airport *model.Airport) error {
	if err := v.validate.Struct(airport); err != nil {
		return v.translate(err)
	}
	return nil
}

func (v *FlightValidator) ValidateAirline(airline *model.Airline) error {
	if err := v.validate.Struct(airline); err != nil {
		return v.translate(err)
	}
	return nil
}

func (v *FlightValidator) translate(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	var translated ValidationErrors
	for _, fieldErr := range validationErrs {
		translated = append(translated, ValidationError{
			Field:   fieldErr.Field(),
			Message: messageForTag(fieldErr),
		})
	}
	return translated
}

func messageForTag(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s", fieldErr.Param())
	case "max":
		return fmt.Sprintf("must have at most %s", fieldErr.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fieldErr.Param())
	case "uppercase":
		return "must be uppercase"
	case "alpha":
		return "must contain only letters"
	case "datetime":
		return fmt.Sprintf("must match the %s format", fieldErr.Param())
	case "mongodb":
		return "must be a valid object ID"
	default:
		return fmt.Sprintf("failed %s validation", fieldErr.Tag())
	}
}

func hasDuplicateWeekdays(frequency []int) bool {
	seen := map[int]bool{}
	for _, day := range frequency {
		if seen[day] {
			return true
		}
		seen[day] = true
	}
	return false
}

// SanitizeName collapses runs of whitespace and trims the result; airline
// and airport names arrive from free-text input.
func SanitizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
