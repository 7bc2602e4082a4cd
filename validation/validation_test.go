package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/discovery/errors"
)

func TestValidatorRequired(t *testing.T) {
	v := New()
	v.Required("service_id", "login")
	if v.HasErrors() {
		t.Error("expected no errors for valid input")
	}

	v2 := New()
	v2.Required("service_id", "")
	if !v2.HasErrors() {
		t.Error("expected error for empty required field")
	}

	v3 := New()
	v3.Required("service_id", "   ")
	if !v3.HasErrors() {
		t.Error("expected error for whitespace-only required field")
	}
}

func TestValidatorServiceID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"login", true},
		{"game-ctl_2.eu", true},
		{"", false},
		{"a,b", false},
		{"a/b", false},
		{"with space", false},
		{strings.Repeat("x", MaxServiceIDLength+1), false},
	}
	for _, tc := range tests {
		t.Run(tc.id, func(t *testing.T) {
			v := New().ServiceID("service_id", tc.id)
			if v.HasErrors() == tc.valid {
				t.Errorf("ServiceID(%q): valid=%v, errors=%v", tc.id, tc.valid, v.Errors())
			}
		})
	}
}

func TestValidatorNetwork(t *testing.T) {
	for _, ok := range []string{"internal", "external", "broker", "dc-2.private"} {
		if New().Network("network", ok).HasErrors() {
			t.Errorf("expected %q to be a valid network", ok)
		}
	}
	for _, bad := range []string{"", "a/b", "in ternal", "x?"} {
		if !New().Network("network", bad).HasErrors() {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

func TestValidatorLocation(t *testing.T) {
	if New().Location("location", "http://10.0.0.5:9501").HasErrors() {
		t.Error("expected valid location")
	}
	if !New().Location("location", "").HasErrors() {
		t.Error("expected error for empty location")
	}
	if !New().Location("location", strings.Repeat("x", MaxLocationLength+1)).HasErrors() {
		t.Error("expected error for oversized location")
	}
}

func TestValidatorMaxLength(t *testing.T) {
	v := New()
	v.MaxLength("desc", "short", 10)
	if v.HasErrors() {
		t.Error("expected no error for string within max length")
	}

	v2 := New()
	v2.MaxLength("desc", "this is too long", 5)
	if !v2.HasErrors() {
		t.Error("expected error for string exceeding max length")
	}
}

func TestValidatorMessagesNameTheValue(t *testing.T) {
	v := New().ServiceID("service_id", "a,b").Network("network", "in ternal")
	errs := v.Errors()
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if !strings.Contains(errs[0].Message, `"a,b"`) || !strings.Contains(errs[1].Message, `"in ternal"`) {
		t.Errorf("expected offending values in messages, got %v", errs)
	}
}

func TestValidatorValidate(t *testing.T) {
	if appErr := New().Required("service_id", "login").Validate(); appErr != nil {
		t.Error("expected nil for valid input")
	}
	if err := New().Required("service_id", "login").Err(); err != nil {
		t.Errorf("expected untyped nil, got %v", err)
	}

	v2 := New()
	v2.ServiceID("service_id", "")
	v2.Network("network", "")
	appErr := v2.Validate()
	if appErr == nil {
		t.Fatal("expected error")
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Fatalf("expected two field errors, got %v", appErr.Details)
	}
	if !strings.Contains(appErr.Message, "service_id") || !strings.Contains(appErr.Message, "network") {
		t.Errorf("expected both fields in message, got %q", appErr.Message)
	}
}

func TestStructValidate(t *testing.T) {
	type setRequest struct {
		Location string            `json:"location" validate:"required,max=20"`
		Network  string            `json:"network" validate:"required,network"`
		Service  string            `json:"service_id" validate:"required,service_id"`
		Extra    map[string]string `json:"networks" validate:"omitempty,dive,keys,network,endkeys,required"`
	}

	valid := setRequest{Location: "10.0.0.5:9501", Network: "internal", Service: "login",
		Extra: map[string]string{"external": "1.2.3.4"}}
	if err := Validate(valid); err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	err := Validate(setRequest{Network: "bad/net", Service: "a,b"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, field := range []string{"location", "network", "service_id"} {
		if !strings.Contains(msg, field) {
			t.Errorf("expected error to mention %q, got %q", field, msg)
		}
	}

	err = Validate(setRequest{Location: "x", Network: "internal", Service: "login",
		Extra: map[string]string{"external": ""}})
	if err == nil {
		t.Error("expected error for empty map value")
	}
}
