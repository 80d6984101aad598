package usecase

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/xavierca1/ligue-profile-flow/internal/entity"
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	nonDigits   = regexp.MustCompile(`\D`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ParseProfileDate aceita apenas YYYY-MM-DD e uma data de calendário real
// ("2024-02-30" é rejeitada).
func ParseProfileDate(input string) (time.Time, error) {
	s := strings.TrimSpace(input)
	if !datePattern.MatchString(s) {
		return time.Time{}, ValidationError{"date", "must match YYYY-MM-DD"}
	}
	t, err := time.Parse(entity.DateLayout, s)
	if err != nil {
		return time.Time{}, ValidationError{"date", "is not a valid calendar date"}
	}
	return t, nil
}

func FormatProfileDate(t time.Time) string {
	return t.Format(entity.DateLayout)
}

// NormalizePhone reduz o número aos dígitos no formato internacional.
// Números nacionais de 10 dígitos recebem o código do país padrão.
func NormalizePhone(raw, defaultCountryCode string) (string, error) {
	cleaned := nonDigits.ReplaceAllString(raw, "")
	cleaned = strings.TrimLeft(cleaned, "0")

	if len(cleaned) == 10 && defaultCountryCode != "" {
		cleaned = defaultCountryCode + cleaned
	}

	if len(cleaned) < 11 || len(cleaned) > 15 {
		return "", ValidationError{"phone_number", "must be a valid phone number"}
	}
	return cleaned, nil
}

// validateStruct traduz os erros do validator para ValidationError.
func validateStruct(s interface{}) []ValidationError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{"body", err.Error()}}
	}

	out := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{Field: fe.Field(), Message: describeTag(fe)})
	}
	return out
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must have at least " + fe.Param() + " item(s)/character(s)"
	case "max":
		return "must not exceed " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "url":
		return "must be a valid URL"
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

func validationDomainError(errs []ValidationError) *DomainError {
	errMsg := "validation failed: "
	for i, e := range errs {
		if i > 0 {
			errMsg += ", "
		}
		errMsg += e.Field + " (" + e.Message + ")"
	}
	return &DomainError{
		Code:    "VALIDATION_ERROR",
		Message: errMsg,
	}
}
