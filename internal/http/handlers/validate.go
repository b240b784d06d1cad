package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/tbourn/foodgram-backend/internal/services"
)

var registerOnce sync.Once

// customRules are the binding tags this package adds to gin's validator.
var customRules = map[string]validator.Func{
	"hexcolor6": func(fl validator.FieldLevel) bool { return services.ValidHexColor(fl.Field().String()) },
	"username":  func(fl validator.FieldLevel) bool { return services.ValidUsername(fl.Field().String()) },
}

// RegisterValidators adds the custom binding rules to gin's validator:
//
//	hexcolor6  a "#RRGGBB" color
//	username   letters (any script), digits and . @ + - _
//
// Field names in validation errors are reported by their JSON name.
// Safe to call more than once. It panics if a rule cannot be registered,
// since binding would otherwise skip it silently.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		if err := registerRules(v, customRules); err != nil {
			panic(err)
		}
	})
}

func registerRules(v *validator.Validate, rules map[string]validator.Func) error {
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %q validation: %w", tag, err)
		}
	}
	return nil
}

// bindError describes a binding failure as (field, message).
func bindError(err error) (string, string) {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		fe := ves[0]
		switch fe.Tag() {
		case "required":
			return fe.Field(), fe.Field() + " is required"
		case "hexcolor6":
			return fe.Field(), "color must be a HEX value like #E26C2D"
		case "username":
			return fe.Field(), "username may contain only letters, digits and @/./+/-/_"
		case "email":
			return fe.Field(), "a valid email address is required"
		case "max":
			return fe.Field(), fe.Field() + " must be at most " + fe.Param() + " characters"
		case "min", "gte":
			return fe.Field(), fe.Field() + " must be at least " + fe.Param()
		}
		return fe.Field(), fe.Field() + " is invalid"
	}
	return "", "invalid JSON body"
}
