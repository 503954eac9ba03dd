package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/vetcollars/storefront/internal/interfaces/http/dto"
)

// SetupValidator makes validation errors report JSON or form field names
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
	}
}

// FormatValidationErrors converts binding errors into the error envelope
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: getValidationMessage(e),
			})
		}
	}

	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError answers 400 with field details
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

func getValidationMessage(e validator.FieldError) string {
	p := e.Param()
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return "Must " + sizeBound(e.Kind(), "at least", p)
	case "max":
		return "Must " + sizeBound(e.Kind(), "at most", p)
	case "gt":
		return "Must be greater than " + p
	case "gte":
		return "Must be greater than or equal to " + p
	case "lte":
		return "Must be less than or equal to " + p
	case "oneof":
		return "Must be one of: " + strings.ReplaceAll(p, " ", ", ")
	case "dive":
		return "Invalid entry"
	default:
		return "Invalid value"
	}
}

// sizeBound phrases a min/max limit for strings (characters), maps and
// slices (entries, e.g. order items or sizes) and plain numbers.
func sizeBound(kind reflect.Kind, rel, n string) string {
	switch kind {
	case reflect.String:
		return "be " + rel + " " + n + " characters"
	case reflect.Map, reflect.Slice:
		return "contain " + rel + " " + n + " entries"
	default:
		return "be " + rel + " " + n
	}
}
