package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kbukum/discovery/errors"
)

// Upper bounds on the registry's identifiers.
const (
	MaxServiceIDLength = 256
	MaxNetworkLength   = 64
	MaxLocationLength  = 2048
)

var (
	// Commas separate ids in batch lookups and slashes separate path
	// segments, so neither may appear in an id.
	serviceIDPattern = regexp.MustCompile(`^[^,/\s]+$`)
	networkPattern   = regexp.MustCompile(`^[A-Za-z0-9_.:-]+$`)
)

func validServiceID(id string) bool {
	return len(id) <= MaxServiceIDLength && serviceIDPattern.MatchString(id)
}

func validNetwork(name string) bool {
	return len(name) <= MaxNetworkLength && networkPattern.MatchString(name)
}

// FieldError is one failed check.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator accumulates failed checks so a caller can report them all at
// once. Checks chain:
//
//	err := validation.New().ServiceID("service_id", id).Network("network", n).Err()
type Validator struct {
	failures []FieldError
}

func New() *Validator { return &Validator{} }

// AddError records a failure on field.
func (v *Validator) AddError(field, message string) {
	v.failures = append(v.failures, FieldError{Field: field, Message: message})
}

func (v *Validator) HasErrors() bool { return len(v.failures) > 0 }

func (v *Validator) Errors() []FieldError { return v.failures }

// Validate folds the failures into one INVALID_INPUT AppError, or returns
// nil. Use Err where a plain error is expected, so a nil *AppError never
// ends up in a non-nil error interface.
func (v *Validator) Validate() *errors.AppError {
	if len(v.failures) == 0 {
		return nil
	}
	parts := make([]string, len(v.failures))
	for i, f := range v.failures {
		parts[i] = f.Field + ": " + f.Message
	}
	return errors.Validation(strings.Join(parts, "; ")).WithDetail("fields", v.failures)
}

func (v *Validator) Err() error {
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// Required rejects empty and all-whitespace values.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required")
	}
	return v
}

func (v *Validator) MaxLength(field, value string, limit int) *Validator {
	if len(value) > limit {
		v.AddError(field, fmt.Sprintf("must be %d characters or less", limit))
	}
	return v
}

// ServiceID checks a service id.
func (v *Validator) ServiceID(field, id string) *Validator {
	switch {
	case strings.TrimSpace(id) == "":
		v.AddError(field, "is required")
	case len(id) > MaxServiceIDLength:
		v.MaxLength(field, id, MaxServiceIDLength)
	case !validServiceID(id):
		v.AddError(field, fmt.Sprintf("%q must not contain commas, slashes or whitespace", id))
	}
	return v
}

// Network checks a network name.
func (v *Validator) Network(field, name string) *Validator {
	switch {
	case strings.TrimSpace(name) == "":
		v.AddError(field, "is required")
	case len(name) > MaxNetworkLength:
		v.MaxLength(field, name, MaxNetworkLength)
	case !validNetwork(name):
		v.AddError(field, fmt.Sprintf("%q may only contain letters, digits, '_', '.', ':' or '-'", name))
	}
	return v
}

// Location checks a location. Its content is opaque to the registry; only
// emptiness and size are checked.
func (v *Validator) Location(field, location string) *Validator {
	if strings.TrimSpace(location) == "" {
		v.AddError(field, "is required")
		return v
	}
	return v.MaxLength(field, location, MaxLocationLength)
}
