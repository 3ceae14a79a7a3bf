package commons

import (
	stderrors "errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	apperrors "inkwell/internal/errors"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
	phonePattern = regexp.MustCompile(`^[0-9+()\- ]{6,20}$`)
)

// Validator returns the shared validator with the project's custom tags
// registered. Field names in errors come from the json tag.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
			return amountPattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

var amountPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]{1,2})?$`)

// ValidateStruct runs struct-tag validation and converts failures into a
// ValidationError with one detail per field.
func ValidateStruct(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return apperrors.NewValidationError(err.Error())
	}

	details := make([]apperrors.ValidationDetail, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, apperrors.ValidationDetail{
			Field:   fieldPath(fe),
			Message: describe(fe),
		})
	}
	return apperrors.NewValidationError("validation failed", details...)
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "phone":
		return "must be a valid phone number"
	case "amount":
		return "must be a positive amount with at most two decimals"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	}
	return "is invalid"
}
