package middleware

import (
	"reflect"
	"strings"

	"github.com/billingkit/backend/internal/domain/shared/valueobject"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator configures the binding validator with custom tags.
// Call once before routes are registered.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// Use JSON/form tag names for field names in errors
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

	// currency: a supported ISO 4217 code
	_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
		return valueobject.Currency(strings.ToUpper(fl.Field().String())).IsValid()
	})
}
