package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()

	// Report fields by their JSON names so messages match what the form sent.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	phoneRegex := regexp.MustCompile(`^\+?[0-9][0-9 ().-]{5,22}[0-9]$`)
	v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		return phoneRegex.MatchString(value)
	})

	v.RegisterValidation("weburl", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		u, err := url.Parse(value)
		if err != nil {
			return false
		}
		return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
	})

	return &Validator{v: v}
}

func (v *Validator) Struct(s interface{}) error {
	return v.v.Struct(s)
}

func (v *Validator) ValidationErrors(err error) validator.ValidationErrors {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

// Details maps each failing field to the rule it broke.
func Details(errs validator.ValidationErrors) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	details := make(map[string]string, len(errs))
	for _, err := range errs {
		details[fieldPath(err)] = err.Tag()
	}
	return details
}

// Describe turns the first failure into a sentence for the error banner.
func Describe(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "Invalid input."
	}
	err := errs[0]
	field := fieldPath(err)
	// "eq=|weburl" lets an optional link be cleared.
	if strings.HasSuffix(err.Tag(), "|weburl") {
		return fmt.Sprintf("%s must be a valid http(s) URL.", field)
	}
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", field)
	case "min":
		if isText(err) {
			return fmt.Sprintf("%s must be at least %s characters.", field, err.Param())
		}
		return fmt.Sprintf("%s must be at least %s.", field, err.Param())
	case "max":
		if isText(err) {
			return fmt.Sprintf("%s must be at most %s characters.", field, err.Param())
		}
		return fmt.Sprintf("%s must be at most %s.", field, err.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more.", field, err.Param())
	case "lte":
		return fmt.Sprintf("%s must be %s or less.", field, err.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", field, strings.ReplaceAll(err.Param(), " ", ", "))
	case "weburl", "url":
		return fmt.Sprintf("%s must be a valid http(s) URL.", field)
	case "phone":
		return fmt.Sprintf("%s must be a valid phone number.", field)
	default:
		return fmt.Sprintf("%s is invalid.", field)
	}
}

func isText(err validator.FieldError) bool {
	return err.Kind() == reflect.String
}

// fieldPath drops the root struct name: "ContactCreate.hotline.phone" -> "hotline.phone".
func fieldPath(err validator.FieldError) string {
	ns := err.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return err.Field()
}
