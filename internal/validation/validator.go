package validation

import (
	"errors"
	"regexp"

	validatorv10 "github.com/go-playground/validator/v10"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[\+]?[\d\s\-\(\)]{8,}$`)
)

// New returns a validator with the storefront's "shopemail" and "phone" rules registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// the built-in "email" rule is RFC-strict; storefront forms accept anything shaped a@b.c
	_ = v.RegisterValidation("shopemail", func(fl validatorv10.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validatorv10.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})

	return v
}

func ValidEmail(s string) bool { return emailPattern.MatchString(s) }

func ValidPhone(s string) bool { return phonePattern.MatchString(s) }

// FieldErrors maps JSON-ish field namespaces to messages.
func FieldErrors(err error) map[string]string {
	out := map[string]string{}
	var ve validatorv10.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fe.StructNamespace()] = fe.Error()
		}
	} else if err != nil {
		out["error"] = err.Error()
	}
	return out
}

// HasTagFailure reports whether any field failed the given rule.
func HasTagFailure(err error, tag string) bool {
	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		return false
	}
	for _, fe := range ve {
		if fe.Tag() == tag {
			return true
		}
	}
	return false
}
