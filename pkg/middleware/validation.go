package middleware

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/zypso/storefront-service/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// InitValidator initializes the validator with custom validators
func InitValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()

		registerCustom(validate)

		validate.RegisterTagNameFunc(jsonTagName)

		// Set on Gin's default validator too
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			registerCustom(v)
			v.RegisterTagNameFunc(jsonTagName)
		}
	})

	return validate
}

func registerCustom(v *validator.Validate) {
	_ = v.RegisterValidation("order_id", validateOrderID)
	_ = v.RegisterValidation("phone", validatePhone)
	_ = v.RegisterValidation("session_id", validateSessionID)
	_ = v.RegisterValidation("safe_string", validateSafeString)
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return fld.Name
	}
	return name
}

// Custom validators

var (
	orderIDRegex    = regexp.MustCompile(`^ORD-[a-zA-Z0-9]{8,}$`)
	phoneRegex      = regexp.MustCompile(`^\+?[0-9][0-9\s-]{8,14}$`)
	sessionIDRegex  = regexp.MustCompile(`^[a-zA-Z0-9_-]{8,64}$`)
	safeStringRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-_.,!?@#$%&*()+=:;'"<>\/\[\]{}|\\~\x60]+$`)
)

func validateOrderID(fl validator.FieldLevel) bool {
	return orderIDRegex.MatchString(fl.Field().String())
}

func validatePhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

func validateSessionID(fl validator.FieldLevel) bool {
	return sessionIDRegex.MatchString(fl.Field().String())
}

func validateSafeString(fl validator.FieldLevel) bool {
	return safeStringRegex.MatchString(fl.Field().String())
}

// ValidationErrorFormatter formats validation errors into a map
func ValidationErrorFormatter(err error) map[string]string {
	fields := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			fields[field] = formatValidationError(e)
		}
	}

	return fields
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "latitude":
		return "must be a valid latitude"
	case "longitude":
		return "must be a valid longitude"
	case "order_id":
		return "must be a valid order ID (format: ORD-xxxxxxxx)"
	case "phone":
		return "must be a valid phone number (at least 10 digits)"
	case "session_id":
		return "must be a valid session ID"
	case "safe_string":
		return "contains invalid characters"
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}

// BindAndValidate binds request body and validates it
func BindAndValidate(c *gin.Context, obj interface{}) *errors.AppError {
	if err := c.ShouldBindJSON(obj); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			fields := ValidationErrorFormatter(validationErrors)
			return errors.ErrValidationWithFields("validation failed", fields)
		}
		return errors.ErrBadRequest("invalid request body: " + err.Error())
	}
	return nil
}

// SanitizeString removes potentially dangerous characters from a string
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	s = strings.TrimSpace(s)
	return s
}

// InputSanitizer middleware sanitizes string inputs
func InputSanitizer() gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Request.URL.Query()
		for key, values := range query {
			for i, v := range values {
				values[i] = SanitizeString(v)
			}
			query[key] = values
		}
		c.Request.URL.RawQuery = query.Encode()

		c.Next()
	}
}
