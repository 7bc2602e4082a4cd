package validation

import (
	stderrors "errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/discovery/errors"
)

var (
	engine     *validator.Validate
	engineOnce sync.Once
)

// tagMessages maps validator tags to the message shown after the field name.
var tagMessages = map[string]string{
	"required":   "is required",
	"url":        "must be a valid URL",
	"service_id": "must be a service id without commas, slashes or whitespace",
	"network":    "must be a network name of letters, digits, '_', '.', ':' or '-'",
}

func structEngine() *validator.Validate {
	engineOnce.Do(func() {
		engine = validator.New(validator.WithRequiredStructEnabled())
		engine.RegisterTagNameFunc(fieldName)
		_ = engine.RegisterValidation("service_id", func(fl validator.FieldLevel) bool {
			return validServiceID(fl.Field().String())
		})
		_ = engine.RegisterValidation("network", func(fl validator.FieldLevel) bool {
			return validNetwork(fl.Field().String())
		})
	})
	return engine
}

// fieldName names a field after the request parameter it is bound from:
// the form tag, then the json tag, then the lowercased Go name.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return strings.ToLower(f.Name)
}

// Validate checks s against its `validate` tags. Failures become a single
// INVALID_INPUT AppError listing every field in Details["fields"].
func Validate(s any) error {
	err := structEngine().Struct(s)
	if err == nil {
		return nil
	}

	var failures validator.ValidationErrors
	if !stderrors.As(err, &failures) {
		return errors.Validation("validation failed").WithCause(err)
	}

	fields := make([]FieldError, 0, len(failures))
	parts := make([]string, 0, len(failures))
	for _, f := range failures {
		fe := FieldError{Field: f.Field(), Message: describe(f)}
		fields = append(fields, fe)
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return errors.Validation(strings.Join(parts, "; ")).WithDetail("fields", fields)
}

func describe(f validator.FieldError) string {
	if msg, ok := tagMessages[f.Tag()]; ok {
		return msg
	}
	switch f.Tag() {
	case "min":
		return "must be at least " + f.Param() + " characters"
	case "max":
		return "must be at most " + f.Param() + " characters"
	case "oneof":
		return "must be one of: " + f.Param()
	}
	return "is invalid"
}
