package service

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var shippingEmailRe = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their json names: shipping.pincode, not Shipping.Pincode
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("shipping_email", func(fl validator.FieldLevel) bool {
		return shippingEmailRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		return isDigits(fl.Field().String())
	})
	return v
}

// collectValidation переносит ошибки validator в ValidationError под префиксом prefix
func collectValidation(verr *ValidationError, prefix string, err error) {
	if err == nil {
		return
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		verr.add(prefix, err.Error())
		return
	}
	for _, fe := range errs {
		verr.add(prefix+"."+fe.Field(), describeTag(fe))
	}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "shipping_email":
		return "must be a valid email address"
	case "len":
		return "must be exactly " + fe.Param() + " digits"
	case "digits":
		return "must contain digits only"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "email":
		return "must be a valid email address"
	}
	return "is invalid"
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
