// Package validation provides input validation for registry operations and
// HTTP payloads.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Both produce an
// *errors.AppError with code INVALID_INPUT and a per-field breakdown in
// Details["fields"].
//
// # Struct Tag Validation
//
//	type setLocationRequest struct {
//	    Location string `json:"location" validate:"required,max=1024"`
//	}
//	err := validation.Validate(req)
//
// # Programmatic Validation
//
//	v := validation.New().ServiceID("service_id", id).Network("network", network)
//	if appErr := v.Validate(); appErr != nil {
//	    return appErr
//	}
package validation
