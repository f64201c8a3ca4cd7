package validator

import (
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	phonePattern      = regexp.MustCompile(`^\+250\d{9}$`)
	nationalIDPattern = regexp.MustCompile(`^\d{16}$`)
	platePattern      = regexp.MustCompile(`^R[A-Z]{2} \d{3} [A-Z]$`)
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	Register(validate)
}

// Register adds the project rules to v.
func Register(v *validator.Validate) {
	_ = v.RegisterValidation("rw_phone", func(fl validator.FieldLevel) bool {
		return IsPhone(fl.Field().String())
	})
	_ = v.RegisterValidation("national_id", func(fl validator.FieldLevel) bool {
		return IsNationalID(fl.Field().String())
	})
	_ = v.RegisterValidation("rw_plate", func(fl validator.FieldLevel) bool {
		return IsPlate(fl.Field().String())
	})
}

var ginOnce sync.Once

// RegisterWithGin installs the project rules on gin's binding validator.
// Safe to call more than once.
func RegisterWithGin() {
	ginOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			Register(v)
		}
	})
}

func IsPhone(s string) bool {
	return phonePattern.MatchString(strings.TrimSpace(s))
}

func IsNationalID(s string) bool {
	return nationalIDPattern.MatchString(strings.TrimSpace(s))
}

// IsPlate accepts plates like "RAB 123 C".
func IsPlate(s string) bool {
	return platePattern.MatchString(strings.ToUpper(strings.TrimSpace(s)))
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

// Fields flattens a binding error into field -> failed rule.
func Fields(err error) map[string]string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return map[string]string{"body": "invalid JSON"}
	}
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
