package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var (
	panRegex     = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]{1}$`)
	aadhaarRegex = regexp.MustCompile(`^[0-9]{12}$`)
	phoneRegex   = regexp.MustCompile(`^[0-9]{10,15}$`)
)

func init() {
	validate = validator.New()
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func ValidatePAN(pan string) bool {
	return panRegex.MatchString(pan)
}

func ValidateAadhaar(aadhaar string) bool {
	return aadhaarRegex.MatchString(aadhaar)
}

func ValidatePhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

func SanitizeString(input string) string {
	return strings.TrimSpace(input)
}

// ValidateDocumentMetadata checks identifiers carried in upload metadata for
// the document types that have a known format.
func ValidateDocumentMetadata(docType string, metadata map[string]string) error {
	number, ok := metadata["number"]
	if !ok {
		return nil
	}
	switch strings.ToLower(docType) {
	case "aadhaar":
		if !ValidateAadhaar(number) {
			return fmt.Errorf("invalid Aadhaar number")
		}
	case "pan":
		if !ValidatePAN(strings.ToUpper(number)) {
			return fmt.Errorf("invalid PAN format")
		}
	}
	return nil
}

func FormatValidationError(err error) map[string]string {
	out := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return out
	}
	for _, fieldError := range validationErrors {
		field := strings.ToLower(fieldError.Field())
		switch fieldError.Tag() {
		case "required", "required_if":
			out[field] = fmt.Sprintf("%s is required", field)
		case "email":
			out[field] = "Invalid email format"
		case "min":
			out[field] = fmt.Sprintf("%s must be at least %s", field, fieldError.Param())
		case "max":
			out[field] = fmt.Sprintf("%s must be at most %s", field, fieldError.Param())
		case "oneof":
			out[field] = fmt.Sprintf("%s must be one of: %s", field, fieldError.Param())
		case "startswith":
			out[field] = fmt.Sprintf("%s must start with %s", field, fieldError.Param())
		default:
			out[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return out
}
