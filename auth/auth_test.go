package auth

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef-test-secret"

func newTestTokens(t *testing.T, issuer string) *TokenService {
	t.Helper()
	svc, err := NewTokenService(Config{Enabled: true, Secret: testSecret, Issuer: issuer})
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc
}

func TestTokenService_IssueAndParse(t *testing.T) {
	svc := newTestTokens(t, "discovery")
	token, err := svc.Issue("ops", "internal", "read")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "ops" || !claims.HasScope("internal") || claims.HasScope("admin") {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestTokenService_RejectsBadTokens(t *testing.T) {
	svc := newTestTokens(t, "discovery")

	other, _ := NewTokenService(Config{Enabled: true, Secret: "another-secret-of-16+", Issuer: "discovery"})
	forged, _ := other.Issue("ops", "internal")
	if _, err := svc.Parse(forged); err == nil {
		t.Error("expected signature mismatch to fail")
	}

	wrongIssuer, _ := newTestTokens(t, "elsewhere").Issue("ops", "internal")
	if _, err := svc.Parse(wrongIssuer); err == nil {
		t.Error("expected issuer mismatch to fail")
	}

	expiring := newTestTokens(t, "discovery")
	expiring.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _ := expiring.Issue("ops", "internal")
	if _, err := svc.Parse(expired); err == nil {
		t.Error("expected expired token to fail")
	}

	if _, err := svc.Parse("not.a.jwt"); err == nil {
		t.Error("expected garbage to fail")
	}
}

func TestTokenGate(t *testing.T) {
	svc := newTestTokens(t, "")
	gate := NewTokenGate(svc, "")
	internal, _ := svc.Issue("ops", "internal")
	public, _ := svc.Issue("web", "read")

	tests := []struct {
		name   string
		target string
		header string
		want   bool
	}{
		{"no token", "/@services/internal", "", false},
		{"bearer internal", "/@services/internal", "Bearer " + internal, true},
		{"bearer lowercase scheme", "/@services/internal", "bearer " + internal, true},
		{"bearer without scope", "/@services/internal", "Bearer " + public, false},
		{"basic auth", "/@services/internal", "Basic dXNlcjpwYXNz", false},
		{"query token", "/@services/internal?access_token=" + internal, "", true},
		{"query token without scope", "/@services/internal?access_token=" + public, "", false},
		{"tampered", "/@services/internal", "Bearer " + internal + "A", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tc.target, nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			if got := gate.Internal(r); got != tc.want {
				t.Errorf("Internal() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNewGate(t *testing.T) {
	gate, err := NewGate(Config{})
	if err != nil {
		t.Fatalf("NewGate disabled: %v", err)
	}
	if !gate.Internal(httptest.NewRequest("GET", "/", nil)) {
		t.Error("disabled auth must treat every caller as internal")
	}

	if _, err := NewGate(Config{Enabled: true}); err == nil {
		t.Error("expected missing secret to fail")
	}

	gate, err = NewGate(Config{Enabled: true, Secret: testSecret, InternalScope: "registry:write"})
	if err != nil {
		t.Fatalf("NewGate enabled: %v", err)
	}
	if gate.Internal(httptest.NewRequest("GET", "/", nil)) {
		t.Error("enabled auth must reject anonymous callers")
	}
}

func TestConfig(t *testing.T) {
	cfg := Config{Enabled: true, Secret: "short"}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "at least") {
		t.Errorf("expected short secret error, got %v", err)
	}
	if cfg.InternalScope != DefaultInternalScope || cfg.TokenTTL != time.Hour {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if got := (&Config{}).Describe(); !strings.Contains(got, "disabled") {
		t.Errorf("unexpected description %q", got)
	}
}
