// internal/utils/validator.go
package utils

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/clarashop/clara-backend/internal/models"
)

var validate *validator.Validate

var tnPhonePattern = regexp.MustCompile(`^[0-9]{8}$`)

func init() {
	validate = validator.New()
	validate.RegisterValidation("tn_phone", validateTunisianPhone)
	validate.RegisterValidation("governorate", validateGovernorate)
	validate.RegisterValidation("pack", validatePack)
	validate.RegisterValidation("order_status", validateOrderStatus)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Local phone format: 8 digits, country prefix implied.
func validateTunisianPhone(fl validator.FieldLevel) bool {
	return tnPhonePattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

func validateGovernorate(fl validator.FieldLevel) bool {
	return models.IsGovernorate(strings.TrimSpace(fl.Field().String()))
}

func validatePack(fl validator.FieldLevel) bool {
	pack := fl.Field().Int()
	return pack >= 1 && pack <= 3
}

func validateOrderStatus(fl validator.FieldLevel) bool {
	return models.OrderStatus(fl.Field().String()).IsValid()
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "tn_phone":
		return "Phone must be 8 digits (without the leading 0)"
	case "governorate":
		return "Governorate must be one of the known delivery regions"
	case "pack":
		return "Pack must be 1, 2 or 3"
	case "order_status":
		return "Status must be PENDING, LIVREE, RETOUR or ANNULEE"
	default:
		return e.Field() + " is invalid"
	}
}
