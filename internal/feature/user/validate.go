package user

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var labels = map[string]string{
	"name":    "Name",
	"email":   "Email",
	"phone":   "Phone",
	"company": "Company",
	"city":    "City",
	"zipcode": "Zipcode",
}

type Validator struct {
	v        *validator.Validate
	suffixes []string
}

// NewValidator suffixes 为邮箱域名允许的后缀，如 ".com"
func NewValidator(suffixes []string) *Validator {
	if len(suffixes) == 0 {
		suffixes = []string{".com"}
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	val := &Validator{v: v, suffixes: suffixes}
	_ = v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		return isDigits(fl.Field().String())
	})
	_ = v.RegisterValidation("domainsuffix", func(fl validator.FieldLevel) bool {
		return val.hasAllowedSuffix(fl.Field().String())
	})
	return val
}

func (val *Validator) hasAllowedSuffix(email string) bool {
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	for _, s := range val.suffixes {
		if strings.HasSuffix(domain, s) && len(domain) > len(s) {
			return true
		}
	}
	return false
}

// Validate 先 Sanitize 再校验，结果写入 f.Errors
func (val *Validator) Validate(f *Form) FieldErrors {
	f.Sanitize()
	f.Errors = nil
	err := val.v.Struct(f)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		f.Errors = FieldErrors{"form": err.Error()}
		return f.Errors
	}
	out := FieldErrors{}
	for _, fe := range ves {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = val.message(fe)
	}
	f.Errors = out
	return out
}

func (val *Validator) message(fe validator.FieldError) string {
	label := labels[fe.Field()]
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Enter a valid email address"
	case "domainsuffix":
		return "Email must end with " + strings.Join(val.suffixes, " or ")
	case "digits":
		return label + " must contain digits only"
	case "max":
		return fmt.Sprintf("%s must be at most %s digits", label, fe.Param())
	default:
		return label + " is invalid"
	}
}
