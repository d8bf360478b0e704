package middleware

import (
	stderrors "errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"speech-insight/internal/api/errors"
)

// Validator interface for domain validation
type Validator interface {
	Validate() error
}

// ValidateQuery binds and validates query parameters
func ValidateQuery(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindQuery(req); err != nil {
		return bindingError("Invalid query parameters", "query", err)
	}
	return validateDomain(req)
}

// ValidateURI binds and validates path parameters
func ValidateURI(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindUri(req); err != nil {
		return bindingError("Invalid path parameters", "path", err)
	}
	return validateDomain(req)
}

func validateDomain(req interface{}) error {
	if v, ok := req.(Validator); ok {
		return v.Validate()
	}
	return nil
}

func bindingError(message, fallbackField string, err error) error {
	details := make(map[string]string)

	var validationErrs validator.ValidationErrors
	if stderrors.As(err, &validationErrs) {
		for _, fieldError := range validationErrs {
			field := strings.ToLower(fieldError.Field())

			switch fieldError.Tag() {
			case "required":
				details[field] = "is required"
			case "min":
				details[field] = "must be at least " + fieldError.Param()
			case "max":
				details[field] = "must be at most " + fieldError.Param()
			case "oneof":
				details[field] = "must be one of: " + fieldError.Param()
			case "uuid":
				details[field] = "must be a UUID"
			default:
				details[field] = "is invalid"
			}
		}
	} else {
		details[fallbackField] = err.Error()
	}

	apiErr := errors.NewBadRequestError(message)
	apiErr.Details = details
	return apiErr
}
